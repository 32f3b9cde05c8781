package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/shipdash/internal/core"
)

func TestSummary(t *testing.T) {
	avg := 153.456
	tests := []struct {
		name    string
		report  *core.ReportModel
		written []string
		want    []string
		notWant []string
	}{
		{
			name: "full",
			report: &core.ReportModel{
				AsOfDate:        time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC),
				TotalToday:      3,
				TotalAll:        12,
				PercentToday:    25,
				TopVehicle:      core.Ranked{Label: "Civic", Count: 4},
				AverageDistance: &avg,
				Secondary: core.SecondaryResult{
					Title:       "CarMax VINs - New Status (No Tags)",
					Days:        []core.SecondaryDay{{UniqueVINs: 2}},
					TotalUnique: 2,
				},
				Provenance: core.Provenance{TotalLoaded: 14, ExcludedByTagRule: 2, ParseDropped: 1},
				Warnings:   []string{"secondary aggregation skipped"},
			},
			written: []string{"out/shipment_dashboard_2025-11-12.html"},
			want: []string{
				"Key Metrics - 2025-11-12",
				"25.0%",
				"Civic (4 units)",
				"153.46 miles",
				"CarMax VINs - New Status (No Tags)",
				"14 loaded, 2 excluded by tag rule, 1 dropped",
				"out/shipment_dashboard_2025-11-12.html",
				"warning: secondary aggregation skipped",
			},
		},
		{
			name: "no distances",
			report: &core.ReportModel{
				AsOfDate:   time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC),
				TopVehicle: core.Ranked{Label: core.NotAvailable},
			},
			want:    []string{"N/A"},
			notWant: []string{"miles", "Files", "CarMax"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Summary(&buf, tt.report, tt.written); err != nil {
				t.Fatalf("Summary() error = %v", err)
			}
			out := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q:\n%s", s, out)
				}
			}
		})
	}
}
