package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/shipdash/internal/logging"
)

// PipelineOptions configures a Pipeline. An empty ExcludeTag disables the tag
// rule; an empty Secondary falls back to DefaultSecondaryRule.
type PipelineOptions struct {
	ExcludeTag  string
	TopN        int
	DateLayouts []string
	Secondary   SecondaryRule
}

// Input names the files of one run. SecondaryPath is optional.
type Input struct {
	Path          string
	SecondaryPath string
}

// Pipeline runs load, clean, metrics and aggregation and assembles the
// ReportModel every renderer consumes.
type Pipeline struct {
	opts PipelineOptions
}

// NewPipeline creates a Pipeline.
func NewPipeline(opts PipelineOptions) *Pipeline {
	if opts.Secondary.Customer == "" {
		opts.Secondary.Customer = DefaultSecondaryRule.Customer
	}
	if opts.Secondary.Status == "" {
		opts.Secondary.Status = DefaultSecondaryRule.Status
	}
	return &Pipeline{opts: opts}
}

// Run builds the report for in. A *LoadError or *EmptyDatasetError aborts the
// run; secondary export problems become warnings on the model.
func (p *Pipeline) Run(ctx context.Context, in Input) (*ReportModel, error) {
	ctx, _ = logging.WithRunID(ctx)
	log := logging.FromContext(ctx)
	log.Info("pipeline started", "input", in.Path, "secondary", in.SecondaryPath)

	loadOpts := LoadOptions{DateLayouts: p.opts.DateLayouts}

	loaded, err := p.load(ctx, in.Path, loadOpts)
	if err != nil {
		return nil, err
	}

	working, excluded := Exclude(loaded, QuoteTagRule(p.opts.ExcludeTag))
	log.Info("tag rule applied", "token", p.opts.ExcludeTag, "excluded", excluded, "remaining", working.Len())

	metrics, err := p.metrics(ctx, working)
	if err != nil {
		return nil, err
	}

	agg := p.aggregate(ctx, working, metrics)

	var warnings []string
	for _, customer := range agg.UnmatchedCustomers {
		log.Warn("customer in today pivot missing from all-time pivot", "customer", customer)
		warnings = append(warnings, fmt.Sprintf("customer %q has no all-time rows; today share set to 0", customer))
	}

	agg.Secondary, err = p.secondary(ctx, in.SecondaryPath, loadOpts)
	if err != nil {
		log.Warn("secondary table unavailable", "error", err)
		warnings = append(warnings, err.Error())
	}

	report := BuildReport(metrics, agg, Provenance{
		SourceFile:        in.Path,
		SecondaryFile:     in.SecondaryPath,
		TotalLoaded:       working.TotalLoaded,
		ExcludedByTagRule: working.ExcludedByTagRule,
		ParseDropped:      working.ParseDropped,
	})
	report.Warnings = warnings
	report.RawData = working

	log.Info("pipeline complete",
		"as_of", report.AsOfLabel(),
		"total_today", report.TotalToday,
		"total_all", report.TotalAll,
	)
	return report, nil
}

func (p *Pipeline) load(ctx context.Context, path string, opts LoadOptions) (set *ShipmentSet, err error) {
	defer logging.Time(ctx, "load")(&err)
	return Load(ctx, path, opts)
}

func (p *Pipeline) metrics(ctx context.Context, working *ShipmentSet) (m Metrics, err error) {
	defer logging.Time(ctx, "metrics")(&err)
	return ComputeMetrics(working)
}

func (p *Pipeline) aggregate(ctx context.Context, working *ShipmentSet, m Metrics) Aggregates {
	defer logging.Time(ctx, "aggregate")(nil)
	return Aggregate(working, m.AsOfDate, AggregateOptions{TopN: p.opts.TopN})
}

func (p *Pipeline) secondary(ctx context.Context, path string, opts LoadOptions) (res SecondaryResult, err error) {
	defer logging.Time(ctx, "secondary")(&err)
	res, err = LoadSecondary(ctx, path, opts, p.opts.Secondary)

	// No secondary file is the normal case for most runs.
	var sae *SecondaryAggregationError
	if errors.As(err, &sae) && sae.Path == "" {
		return res, nil
	}
	return res, err
}
