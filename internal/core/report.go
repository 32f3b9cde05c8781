package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is how the as-of date appears in file names and headings.
const DateFormat = "2006-01-02"

// Provenance records where a report's numbers came from.
type Provenance struct {
	SourceFile        string `json:"source_file"`
	SecondaryFile     string `json:"secondary_file,omitempty"`
	TotalLoaded       int    `json:"total_loaded"`
	ExcludedByTagRule int    `json:"excluded_by_tag_rule"`
	ParseDropped      int    `json:"parse_dropped"`
}

// ReportModel is everything a renderer needs. It is built once per run and
// only read afterwards.
type ReportModel struct {
	AsOfDate        time.Time       `json:"as_of_date"`
	FirstDate       time.Time       `json:"first_date"`
	TotalToday      int             `json:"total_today"`
	TotalAll        int             `json:"total_all"`
	PercentToday    float64         `json:"percent_today"`
	TopVehicle      Ranked          `json:"top_vehicle"`
	AverageDistance *float64        `json:"average_distance"`
	DistanceSamples int             `json:"distance_samples"`
	CustomerByTag   PivotTable      `json:"customer_by_tag"`
	TodayOnly       PivotTable      `json:"today_only"`
	TodayShare      []CustomerShare `json:"today_share"`
	TagDistribution []Ranked        `json:"tag_distribution"`
	TopVehicles     []Ranked        `json:"top_vehicles"`
	Secondary       SecondaryResult `json:"secondary"`
	Provenance      Provenance      `json:"provenance"`
	Warnings        []string        `json:"warnings,omitempty"`

	// RawData is the working set behind the figures, for the Raw Data sheet.
	RawData *ShipmentSet `json:"-"`
}

// BuildReport assembles the model from computed parts. It does no I/O.
func BuildReport(m Metrics, agg Aggregates, prov Provenance) *ReportModel {
	return &ReportModel{
		AsOfDate:        m.AsOfDate,
		FirstDate:       m.FirstDate,
		TotalToday:      m.TotalToday,
		TotalAll:        m.TotalAll,
		PercentToday:    m.PercentToday,
		TopVehicle:      m.TopVehicle,
		AverageDistance: m.AverageDistance,
		DistanceSamples: m.DistanceSamples,
		CustomerByTag:   agg.CustomerByTag,
		TodayOnly:       agg.TodayOnly,
		TodayShare:      agg.TodayShare,
		TagDistribution: agg.TagDistribution,
		TopVehicles:     agg.TopVehicles,
		Secondary:       agg.Secondary,
		Provenance:      prov,
	}
}

// CustomerCount is the number of distinct customers in the working set.
func (r *ReportModel) CustomerCount() int {
	return len(r.CustomerByTag.Rows)
}

// TagTypeCount is the number of distinct non-empty tag labels.
func (r *ReportModel) TagTypeCount() int {
	return len(r.TagDistribution)
}

// TodayRatio is PercentToday as a fraction, for percent-formatted cells.
func (r *ReportModel) TodayRatio() float64 {
	return r.PercentToday / 100
}

// AverageDistanceText renders the average for display, NotAvailable when
// undefined.
func (r *ReportModel) AverageDistanceText() string {
	if r.AverageDistance == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.0f", *r.AverageDistance)
}

// AsOfLabel is the as-of date as shown in headings and file names.
func (r *ReportModel) AsOfLabel() string {
	return r.AsOfDate.Format(DateFormat)
}

// FileName returns shipment_dashboard_<as-of date>.<ext>.
func (r *ReportModel) FileName(ext string) string {
	return fmt.Sprintf("shipment_dashboard_%s.%s", r.AsOfLabel(), ext)
}

// JSON encodes the model. Map keys are sorted by encoding/json, so identical
// models encode to identical bytes.
func (r *ReportModel) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// JSONIndent is JSON for humans.
func (r *ReportModel) JSONIndent() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
