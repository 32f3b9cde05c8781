package core

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

// SecondaryRule selects the untagged entries of one customer category from the
// "EOD Update-2" export.
type SecondaryRule struct {
	Customer string // Case-insensitive substring of Customer Business Name
	Status   string // Case-insensitive substring of Vehicle Status
}

// DefaultSecondaryRule is the CarMax / New rule of the daily report.
var DefaultSecondaryRule = SecondaryRule{Customer: "CarMax", Status: "New"}

// Title is the heading renderers put over the secondary table.
func (r SecondaryRule) Title() string {
	return r.Customer + " VINs - " + r.Status + " Status (No Tags)"
}

func (r SecondaryRule) matches(rec ShipmentRecord) bool {
	if rec.HasTags() {
		return false
	}
	return containsFold(rec.CustomerName, r.Customer) && containsFold(rec.VehicleStatus, r.Status)
}

// SecondaryDay is the number of distinct VINs created on one date.
type SecondaryDay struct {
	Date       time.Time `json:"date"`
	UniqueVINs int       `json:"unique_vins"`
}

// SecondaryResult is the per-date unique-VIN table. The zero value is the
// empty result used whenever the secondary export is unavailable.
type SecondaryResult struct {
	Title       string         `json:"title,omitempty"`
	Days        []SecondaryDay `json:"days"`
	TotalUnique int            `json:"total_unique"`
	Rows        int            `json:"rows"` // Matching records before de-duplication
}

// Empty reports whether no record matched.
func (s SecondaryResult) Empty() bool {
	return len(s.Days) == 0
}

// AggregateSecondary counts distinct non-blank VINs per date, dates ascending,
// over the records rule selects. TotalUnique counts VINs across all dates, so
// it can be smaller than the sum of the days.
func AggregateSecondary(set *ShipmentSet, rule SecondaryRule) SecondaryResult {
	result := SecondaryResult{Title: rule.Title()}
	if set == nil {
		return result
	}

	perDay := make(map[time.Time]map[string]struct{})
	all := make(map[string]struct{})
	for _, rec := range set.Records {
		if !rule.matches(rec) {
			continue
		}
		result.Rows++
		if rec.VIN == "" {
			continue
		}
		vins, ok := perDay[rec.CreatedDate]
		if !ok {
			vins = make(map[string]struct{})
			perDay[rec.CreatedDate] = vins
		}
		vins[rec.VIN] = struct{}{}
		all[rec.VIN] = struct{}{}
	}

	for date, vins := range perDay {
		result.Days = append(result.Days, SecondaryDay{Date: date, UniqueVINs: len(vins)})
	}
	sort.Slice(result.Days, func(i, j int) bool {
		return result.Days[i].Date.Before(result.Days[j].Date)
	})
	result.TotalUnique = len(all)
	return result
}

// LoadSecondary loads the secondary export and aggregates it. It never fails
// the run: every problem yields an empty result plus a
// *SecondaryAggregationError for the caller to report as a warning.
func LoadSecondary(ctx context.Context, path string, opts LoadOptions, rule SecondaryRule) (SecondaryResult, error) {
	empty := SecondaryResult{Title: rule.Title()}
	if strings.TrimSpace(path) == "" {
		return empty, &SecondaryAggregationError{Reason: "no secondary file provided"}
	}

	opts.Fields = SecondaryFields
	set, err := Load(ctx, path, opts)
	if err != nil {
		reason := "load failed"
		var le *LoadError
		if errors.As(err, &le) {
			reason = le.Kind.describe()
		}
		return empty, &SecondaryAggregationError{Path: path, Reason: reason, Err: err}
	}

	return AggregateSecondary(set, rule), nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
