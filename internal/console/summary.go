// Package console prints the build summary for a terminal.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/shipdash/internal/core"
)

// Styles used by the summary. Colours degrade to plain text when w is not a
// terminal.
type Styles struct {
	Title lipgloss.Style
	Label lipgloss.Style
	Value lipgloss.Style
	Muted lipgloss.Style
	Warn  lipgloss.Style
	Box   lipgloss.Style
}

// NewStyles binds the summary styles to the renderer for w.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#667EEA")),
		Label: r.NewStyle().Width(38),
		Value: r.NewStyle().Bold(true),
		Muted: r.NewStyle().Foreground(lipgloss.Color("#7F8C8D")),
		Warn:  r.NewStyle().Foreground(lipgloss.Color("#F39C12")),
		Box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#764BA2")).
			Padding(0, 1),
	}
}

// Summary writes the key metrics of report and the files written.
func Summary(w io.Writer, report *core.ReportModel, written []string) error {
	st := NewStyles(w)

	distance := report.AverageDistanceText()
	if report.AverageDistance != nil {
		distance = fmt.Sprintf("%.2f miles", *report.AverageDistance)
	}

	rows := [][2]string{
		{"Shipments Created Today", fmt.Sprint(report.TotalToday)},
		{"Total Shipments (All Time)", fmt.Sprint(report.TotalAll)},
		{"Today's Percentage", fmt.Sprintf("%.1f%%", report.PercentToday)},
		{"Most Shipped Vehicle", fmt.Sprintf("%s (%d units)", report.TopVehicle.Label, report.TopVehicle.Count)},
		{"Average Distance", distance},
	}
	if !report.Secondary.Empty() {
		rows = append(rows, [2]string{report.Secondary.Title, fmt.Sprint(report.Secondary.TotalUnique)})
	}

	var sb strings.Builder
	sb.WriteString(st.Title.Render("Key Metrics - " + report.AsOfLabel()))
	sb.WriteString("\n")
	for _, kv := range rows {
		sb.WriteString(st.Label.Render(kv[0]))
		sb.WriteString(st.Value.Render(kv[1]))
		sb.WriteString("\n")
	}
	p := report.Provenance
	sb.WriteString(st.Muted.Render(fmt.Sprintf("%d loaded, %d excluded by tag rule, %d dropped",
		p.TotalLoaded, p.ExcludedByTagRule, p.ParseDropped)))

	if len(written) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(st.Title.Render("Files"))
		for _, path := range written {
			sb.WriteString("\n  ")
			sb.WriteString(path)
		}
	}
	for _, msg := range report.Warnings {
		sb.WriteString("\n")
		sb.WriteString(st.Warn.Render("warning: " + msg))
	}

	_, err := fmt.Fprintln(w, st.Box.Render(sb.String()))
	return err
}
