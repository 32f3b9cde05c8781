package core

import (
	"sort"
	"time"
)

// Metrics are the scalar figures shown on every report's summary.
type Metrics struct {
	AsOfDate        time.Time // Latest Created Date in the working set
	FirstDate       time.Time // Earliest Created Date in the working set
	TotalToday      int
	TotalAll        int
	PercentToday    float64
	TopVehicle      Ranked
	AverageDistance *float64 // nil when no record has a usable distance
	DistanceSamples int
}

// ComputeMetrics derives the summary figures from the working set.
// An empty working set has no as-of date and yields *EmptyDatasetError.
func ComputeMetrics(working *ShipmentSet) (Metrics, error) {
	if working.Len() == 0 {
		empty := &EmptyDatasetError{}
		if working != nil {
			empty.Source = working.Source
			empty.TotalLoaded = working.TotalLoaded
			empty.ExcludedByTagRule = working.ExcludedByTagRule
			empty.ParseDropped = working.ParseDropped
		}
		return Metrics{}, empty
	}

	var m Metrics
	m.FirstDate = working.Records[0].CreatedDate
	for _, rec := range working.Records {
		if rec.CreatedDate.After(m.AsOfDate) {
			m.AsOfDate = rec.CreatedDate
		}
		if rec.CreatedDate.Before(m.FirstDate) {
			m.FirstDate = rec.CreatedDate
		}
	}

	vehicles := newTally()
	var distanceSum float64
	for _, rec := range working.Records {
		if rec.CreatedDate.Equal(m.AsOfDate) {
			m.TotalToday++
		}
		if rec.VehicleInfo != "" {
			vehicles.add(rec.VehicleInfo)
		}
		if rec.Distance != nil {
			distanceSum += *rec.Distance
			m.DistanceSamples++
		}
	}

	m.TotalAll = working.Len()
	m.PercentToday = PercentOf(m.TotalToday, m.TotalAll)

	m.TopVehicle = Ranked{Label: NotAvailable}
	if ranked := vehicles.ranked(); len(ranked) > 0 {
		m.TopVehicle = ranked[0]
	}

	if m.DistanceSamples > 0 {
		avg := distanceSum / float64(m.DistanceSamples)
		m.AverageDistance = &avg
	}

	return m, nil
}

// PercentOf returns part/whole*100, or 0 when whole is 0.
func PercentOf(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// tally counts labels and remembers the order they were first seen in, which
// breaks ties when ranking.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(label string) {
	if _, seen := t.counts[label]; !seen {
		t.order = append(t.order, label)
	}
	t.counts[label]++
}

// ranked returns labels by count descending, first-seen order on ties.
func (t *tally) ranked() []Ranked {
	out := make([]Ranked, len(t.order))
	for i, label := range t.order {
		out[i] = Ranked{Label: label, Count: t.counts[label]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// topN truncates a ranking to at most n entries. n <= 0 means no limit.
func topN(ranked []Ranked, n int) []Ranked {
	if n <= 0 || len(ranked) <= n {
		return ranked
	}
	return ranked[:n]
}
