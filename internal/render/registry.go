// Package render turns a core.ReportModel into the report files.
//
// Each format registers itself at init time. Renderers only read the model;
// none of them recompute anything, so all formats agree.
package render

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/JonMunkholm/shipdash/internal/core"
)

// Renderer writes one report format.
type Renderer interface {
	Render(ctx context.Context, w io.Writer, report *core.ReportModel) error
}

// Options are shared by all renderers.
type Options struct {
	Author         string           // Document author metadata
	ChartScriptURL string           // Charting runtime loaded by the HTML page
	TopCustomers   int              // Customers shown in the stacked charts
	Now            func() time.Time // Creation timestamp; time.Now when nil
}

// DefaultOptions mirror the configuration defaults.
func DefaultOptions() Options {
	return Options{
		Author:         "Shipment Reporting System",
		ChartScriptURL: "https://cdn.plot.ly/plotly-2.35.2.min.js",
		TopCustomers:   10,
	}
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o Options) topCustomers() int {
	if o.TopCustomers <= 0 {
		return 10
	}
	return o.TopCustomers
}

// Format describes a registered output format.
type Format struct {
	Name        string // Key used in configuration and URLs
	Extension   string
	ContentType string
	New         func(Options) Renderer
}

var (
	registry   = make(map[string]Format)
	registryMu sync.RWMutex
)

// Register adds a format to the registry.
// Panics if a format with the same name is already registered.
func Register(f Format) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[f.Name]; exists {
		panic(fmt.Sprintf("format already registered: %s", f.Name))
	}
	registry[f.Name] = f
}

// Get returns a format by name.
// Returns false if not found.
func Get(name string) (Format, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	f, ok := registry[name]
	return f, ok
}

// Lookup is Get with an error suitable for users.
func Lookup(name string) (Format, error) {
	f, ok := Get(name)
	if !ok {
		return Format{}, fmt.Errorf("render: unknown format %q", name)
	}
	return f, nil
}

// Formats returns the registered format names, sorted.
func Formats() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FileName is the output file name of report in format f.
func (f Format) FileName(report *core.ReportModel) string {
	return report.FileName(f.Extension)
}
