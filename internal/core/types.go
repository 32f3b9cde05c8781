package core

import (
	"strings"
	"time"
)

// Column headers fixed by the shipment export contract.
const (
	ColCreatedDate   = "Created Date"
	ColTags          = "Tags"
	ColCustomer      = "Customer Business Name"
	ColVehicleInfo   = "Vehicle Info"
	ColDistance      = "Distance"
	ColVIN           = "VIN #"
	ColVehicleStatus = "Vehicle Status"
)

// NoTagsLabel is the pivot column for records whose Tags field is blank.
const NoTagsLabel = "(No Tags)"

// NotAvailable is shown where a metric has no underlying data.
const NotAvailable = "N/A"

// FieldType represents the expected data type for a CSV field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldDate
	FieldNumeric
)

// FieldSpec defines a single CSV column the loader understands.
type FieldSpec struct {
	Name     string    // Column header name (matched case-insensitively)
	Type     FieldType // Expected data type
	Required bool      // Column must exist in CSV header
}

// ShipmentFields are the columns of the main daily export.
var ShipmentFields = []FieldSpec{
	{Name: ColCreatedDate, Type: FieldDate, Required: true},
	{Name: ColTags, Type: FieldText, Required: true},
	{Name: ColCustomer, Type: FieldText, Required: true},
	{Name: ColVehicleInfo, Type: FieldText, Required: true},
	{Name: ColDistance, Type: FieldNumeric, Required: true},
	{Name: ColVIN, Type: FieldText, Required: true},
	{Name: ColVehicleStatus, Type: FieldText},
}

// SecondaryFields are the columns the "EOD Update-2" aggregation needs.
var SecondaryFields = []FieldSpec{
	{Name: ColCreatedDate, Type: FieldDate, Required: true},
	{Name: ColTags, Type: FieldText, Required: true},
	{Name: ColCustomer, Type: FieldText, Required: true},
	{Name: ColVIN, Type: FieldText, Required: true},
	{Name: ColVehicleStatus, Type: FieldText, Required: true},
	{Name: ColVehicleInfo, Type: FieldText},
	{Name: ColDistance, Type: FieldNumeric},
}

// HeaderIndex maps column names (lowercase) to their position in the CSV row.
type HeaderIndex map[string]int

// Position returns the column position for name, or -1.
func (h HeaderIndex) Position(name string) int {
	if pos, ok := h[strings.ToLower(name)]; ok {
		return pos
	}
	return -1
}

// Value returns the cleaned cell for column name, or "" when the column is
// absent or the row is short.
func (h HeaderIndex) Value(row []string, name string) string {
	pos := h.Position(name)
	if pos < 0 || pos >= len(row) {
		return ""
	}
	return CleanCell(row[pos])
}

// ShipmentRecord is one parsed row of the export. Records are never mutated
// after loading.
type ShipmentRecord struct {
	Line          int       // 1-based line number in the source file
	CreatedDate   time.Time // Calendar date at midnight UTC
	Tags          []string  // Comma-separated tags, trimmed, in file order
	TagLabel      string    // Raw trimmed Tags value; the pivot and distribution key
	CustomerName  string
	VehicleInfo   string
	VehicleStatus string
	Distance      *float64 // nil when blank or non-numeric
	VIN           string
	Raw           []string // Original cells, for raw-data export
}

// HasTags reports whether the record carries any tag text.
func (r ShipmentRecord) HasTags() bool {
	return r.TagLabel != ""
}

// ShipmentSet is an ordered collection of records plus provenance counts.
//
// Invariant after cleaning: ExcludedByTagRule + len(Records) == TotalLoaded.
// ParseDropped counts rows rejected during loading and is not part of
// TotalLoaded.
type ShipmentSet struct {
	Source            string
	Header            []string
	Index             HeaderIndex
	Records           []ShipmentRecord
	TotalLoaded       int
	ExcludedByTagRule int
	ParseDropped      int
}

// Len returns the number of records in the set.
func (s *ShipmentSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// Ranked is a label with its frequency, used for distributions and top-N lists.
type Ranked struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}
