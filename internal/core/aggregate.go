package core

import "time"

// DefaultTopN bounds the vehicle ranking when no limit is configured.
const DefaultTopN = 10

// AggregateOptions tunes the cross-tabulations.
type AggregateOptions struct {
	TopN int // Size of TopVehicles; <= 0 means DefaultTopN
}

// CustomerShare compares a customer's records on the as-of date with its
// all-time count. Ratio is a fraction (0.25 == 25%).
type CustomerShare struct {
	Customer string  `json:"customer"`
	Today    int     `json:"today"`
	AllTime  int     `json:"all_time"`
	Ratio    float64 `json:"ratio"`
}

// Aggregates holds every cross-tabulation a report shows.
type Aggregates struct {
	CustomerByTag   PivotTable
	TodayOnly       PivotTable
	TodayShare      []CustomerShare
	TagDistribution []Ranked
	TopVehicles     []Ranked
	Secondary       SecondaryResult

	// UnmatchedCustomers appear in TodayOnly but not in CustomerByTag. By
	// construction this stays empty; the pipeline logs anything found here.
	UnmatchedCustomers []string
}

// Aggregate builds the pivots and rankings for the working set. asOf selects
// the rows of the today pivot.
func Aggregate(working *ShipmentSet, asOf time.Time, opts AggregateOptions) Aggregates {
	var records []ShipmentRecord
	if working != nil {
		records = working.Records
	}

	var today []ShipmentRecord
	tags := newTally()
	vehicles := newTally()
	for _, rec := range records {
		if rec.CreatedDate.Equal(asOf) {
			today = append(today, rec)
		}
		if rec.HasTags() {
			tags.add(rec.TagLabel)
		}
		if rec.VehicleInfo != "" {
			vehicles.add(rec.VehicleInfo)
		}
	}

	n := opts.TopN
	if n <= 0 {
		n = DefaultTopN
	}

	agg := Aggregates{
		CustomerByTag:   BuildPivot(records, CustomerKey, TagKey),
		TodayOnly:       BuildPivot(today, CustomerKey, TagKey),
		TagDistribution: tags.ranked(),
		TopVehicles:     topN(vehicles.ranked(), n),
	}
	agg.TodayShare, agg.UnmatchedCustomers = TodayShares(agg.TodayOnly, agg.CustomerByTag)
	return agg
}

// TodayShares computes, for each row of today in its order, the row total as a
// fraction of the same customer's all-time total. A customer missing from
// allTime gets a zero ratio and is returned in unmatched.
func TodayShares(today, allTime PivotTable) (shares []CustomerShare, unmatched []string) {
	shares = make([]CustomerShare, 0, len(today.Rows))
	for _, row := range today.Rows {
		share := CustomerShare{Customer: row.Key, Today: row.Total}
		if all, ok := allTime.Row(row.Key); ok {
			share.AllTime = all.Total
			if all.Total > 0 {
				share.Ratio = float64(row.Total) / float64(all.Total)
			}
		} else {
			unmatched = append(unmatched, row.Key)
		}
		shares = append(shares, share)
	}
	return shares, unmatched
}
