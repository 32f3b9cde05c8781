package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/JonMunkholm/shipdash/internal/logging"
)

// LoadOptions controls how an export is parsed.
type LoadOptions struct {
	// DateLayouts are tried in order for Created Date. Empty means
	// DefaultDateLayouts.
	DateLayouts []string

	// Fields lists the columns to validate. Empty means ShipmentFields.
	Fields []FieldSpec
}

func (o LoadOptions) fields() []FieldSpec {
	if len(o.Fields) == 0 {
		return ShipmentFields
	}
	return o.Fields
}

// Load opens path and parses it into a ShipmentSet.
func Load(ctx context.Context, path string, opts LoadOptions) (*ShipmentSet, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: path, Kind: LoadMissingFile, Err: err}
		}
		return nil, &LoadError{Path: path, Kind: LoadUnreadable, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &LoadError{Path: path, Kind: LoadUnreadable, Err: err}
	}
	if info.IsDir() {
		return nil, &LoadError{Path: path, Kind: LoadUnreadable, Err: errors.New("is a directory")}
	}

	return LoadReader(ctx, f, path, opts)
}

// LoadReader parses an export from r. name identifies the source in errors
// and logs.
//
// Rows whose Created Date cannot be parsed, or whose customer is blank, are
// dropped and counted in ParseDropped. Blank rows are skipped silently.
func LoadReader(ctx context.Context, r io.Reader, name string, opts LoadOptions) (*ShipmentSet, error) {
	log := logging.WithFields(ctx, "source", name)

	src, counter := WrapForParsing(r)
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rawHeader, err := reader.Read()
	if err == io.EOF {
		return nil, &LoadError{Path: name, Kind: LoadEmpty, Err: errors.New("no header row")}
	}
	if err != nil {
		return nil, &LoadError{Path: name, Kind: LoadUnreadable, Err: err}
	}

	header := make([]string, len(rawHeader))
	for i, h := range rawHeader {
		header[i] = CleanCell(h)
	}

	idx, err := ValidateHeaders(header, opts.fields())
	if err != nil {
		return nil, &LoadError{Path: name, Kind: LoadMissingColumn, Err: err}
	}

	set := &ShipmentSet{Source: name, Header: header, Index: idx}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Path: name, Kind: LoadUnreadable, Err: err}
		}

		line, _ := reader.FieldPos(0)
		if isBlankRow(row) {
			continue
		}

		rec, reason := parseRecord(row, idx, opts.DateLayouts)
		if reason != "" {
			set.ParseDropped++
			log.Warn("row dropped", "line", line, "reason", reason)
			continue
		}
		rec.Line = line
		set.Records = append(set.Records, rec)
	}

	set.TotalLoaded = len(set.Records)
	if set.TotalLoaded == 0 && set.ParseDropped == 0 {
		return nil, &LoadError{Path: name, Kind: LoadEmpty, Err: errors.New("no data rows")}
	}

	log.Info("shipments loaded",
		"rows", set.TotalLoaded,
		"parse_dropped", set.ParseDropped,
		"bytes", counter.BytesRead,
	)
	return set, nil
}

// parseRecord converts one CSV row. A non-empty reason means the row must be
// dropped.
func parseRecord(row []string, idx HeaderIndex, layouts []string) (ShipmentRecord, string) {
	rawDate := idx.Value(row, ColCreatedDate)
	date, ok := ParseDate(rawDate, layouts)
	if !ok {
		if rawDate == "" {
			return ShipmentRecord{}, "missing " + ColCreatedDate
		}
		return ShipmentRecord{}, fmt.Sprintf("invalid date %q in %s", rawDate, ColCreatedDate)
	}

	customer := idx.Value(row, ColCustomer)
	if customer == "" {
		return ShipmentRecord{}, "missing " + ColCustomer
	}

	tagLabel := idx.Value(row, ColTags)
	raw := make([]string, len(row))
	copy(raw, row)

	return ShipmentRecord{
		CreatedDate:   date,
		Tags:          SplitTags(tagLabel),
		TagLabel:      tagLabel,
		CustomerName:  customer,
		VehicleInfo:   idx.Value(row, ColVehicleInfo),
		VehicleStatus: idx.Value(row, ColVehicleStatus),
		Distance:      ParseDistance(idx.Value(row, ColDistance)),
		VIN:           idx.Value(row, ColVIN),
		Raw:           raw,
	}, ""
}
