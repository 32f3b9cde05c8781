package core

import (
	"errors"
	"fmt"
)

// LoadErrorKind classifies why an input file could not be loaded.
type LoadErrorKind string

const (
	LoadMissingFile   LoadErrorKind = "missing_file"
	LoadUnreadable    LoadErrorKind = "unreadable"
	LoadMissingColumn LoadErrorKind = "missing_column"
	LoadEmpty         LoadErrorKind = "empty"
)

func (k LoadErrorKind) describe() string {
	switch k {
	case LoadMissingFile:
		return "file not found"
	case LoadUnreadable:
		return "file unreadable"
	case LoadMissingColumn:
		return "missing required column"
	case LoadEmpty:
		return "empty file"
	default:
		return string(k)
	}
}

// LoadError is returned when the main export cannot be turned into a
// ShipmentSet. It is always fatal for a run.
type LoadError struct {
	Path string
	Kind LoadErrorKind
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("load %s: %s", e.Path, e.Kind.describe())
	}
	return fmt.Sprintf("load %s: %s: %v", e.Path, e.Kind.describe(), e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ErrEmptyDataset is the sentinel behind EmptyDatasetError.
var ErrEmptyDataset = errors.New("empty dataset")

// EmptyDatasetError means no record survived loading and cleaning, so there is
// no as-of date to report against.
type EmptyDatasetError struct {
	Source            string
	TotalLoaded       int
	ExcludedByTagRule int
	ParseDropped      int
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("empty dataset: no rows left in %s after cleaning (loaded %d, excluded %d, dropped %d)",
		e.Source, e.TotalLoaded, e.ExcludedByTagRule, e.ParseDropped)
}

func (e *EmptyDatasetError) Unwrap() error {
	return ErrEmptyDataset
}

// SecondaryAggregationError explains why the secondary table is empty.
// It is a warning, never a reason to abort.
type SecondaryAggregationError struct {
	Path   string
	Reason string
	Err    error
}

func (e *SecondaryAggregationError) Error() string {
	msg := "secondary aggregation skipped"
	if e.Path != "" {
		msg += " for " + e.Path
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SecondaryAggregationError) Unwrap() error {
	return e.Err
}
