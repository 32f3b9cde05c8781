package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/shipdash/internal/config"
	"github.com/JonMunkholm/shipdash/internal/core"
	"github.com/JonMunkholm/shipdash/internal/logging"
	"github.com/JonMunkholm/shipdash/internal/render"
)

// app carries what every subcommand needs once the root has run.
type app struct {
	stdout io.Writer
	stderr io.Writer
	cfg    *config.Config

	input     string
	secondary string
	inputDir  string
	outDir    string
	formats   []string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "shipdash",
		Short: "Daily shipment dashboard from a CSV export",
		Long: `shipdash reads the daily shipment export, drops quoted shipments and
produces the same dashboard as HTML, Excel and PDF.

The latest Created Date in the file is treated as "today".`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.configure,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.input, "input", "i", "", "Main shipment export (default: newest CSV in --input-dir)")
	pf.StringVar(&a.secondary, "secondary", "", "Optional EOD Update-2 export")
	pf.StringVar(&a.inputDir, "input-dir", "", "Directory searched when --input is omitted")

	root.AddCommand(a.newBuildCmd(), a.newServeCmd(), a.newInspectCmd())
	return root
}

// configure loads configuration, applies flags and sets up logging.
func (a *app) configure(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if changed(cmd, "input") {
		cfg.Input.Path = a.input
	}
	if changed(cmd, "secondary") {
		cfg.Input.SecondaryPath = a.secondary
	}
	if changed(cmd, "input-dir") {
		cfg.Input.Dir = a.inputDir
	}
	if changed(cmd, "out-dir") {
		cfg.Output.Dir = a.outDir
	}
	if changed(cmd, "formats") {
		cfg.Output.Formats = a.formats
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	logging.SetupWriter(a.stderr, cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())
	a.cfg = cfg
	return nil
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func (a *app) pipelineOptions() core.PipelineOptions {
	return core.PipelineOptions{
		ExcludeTag:  a.cfg.Report.ExcludeTag,
		TopN:        a.cfg.Report.TopN,
		DateLayouts: a.cfg.Report.DateLayouts,
		Secondary: core.SecondaryRule{
			Customer: a.cfg.Report.SecondaryCustomer,
			Status:   a.cfg.Report.SecondaryStatus,
		},
	}
}

func (a *app) renderOptions() render.Options {
	return render.Options{
		Author:         a.cfg.Output.Author,
		ChartScriptURL: a.cfg.Output.ChartScriptURL,
		TopCustomers:   a.cfg.Report.TopCustomers,
	}
}

// inputs resolves the files of this run. Explicit paths win; otherwise the
// input directory is searched.
func (a *app) inputs() (core.Input, error) {
	in := core.Input{Path: a.cfg.Input.Path, SecondaryPath: a.cfg.Input.SecondaryPath}
	if in.Path != "" {
		return in, nil
	}

	found, err := core.DiscoverInputs(a.cfg.Input.Dir)
	if err != nil {
		return core.Input{}, err
	}
	slog.Info("input discovered", "path", found.Path, "secondary", found.SecondaryPath)
	in.Path = found.Path
	if in.SecondaryPath == "" {
		in.SecondaryPath = found.SecondaryPath
	}
	return in, nil
}

// report runs the pipeline over the resolved inputs.
func (a *app) report(cmd *cobra.Command) (*core.ReportModel, error) {
	in, err := a.inputs()
	if err != nil {
		return nil, err
	}
	return core.NewPipeline(a.pipelineOptions()).Run(cmd.Context(), in)
}

func normalizeFormats(formats []string) []string {
	out := make([]string, 0, len(formats))
	seen := make(map[string]bool)
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
