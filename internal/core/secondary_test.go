package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func secondaryRecord(date string, customer, status, tags, vin string) ShipmentRecord {
	d, _ := ParseDate(date, nil)
	r := shipment(d, tags, customer, "")
	r.VehicleStatus = status
	r.VIN = vin
	return r
}

func TestAggregateSecondary(t *testing.T) {
	set := setOf(
		secondaryRecord("11/12/2025", "CarMax Richmond", "New", "", "V1"),
		secondaryRecord("11/12/2025", "CARMAX", "Brand New", "", "V1"), // same VIN, same day
		secondaryRecord("11/12/2025", "CarMax", "new", "", "V2"),
		secondaryRecord("11/11/2025", "CarMax", "New", "", "V1"), // same VIN, other day
		secondaryRecord("11/11/2025", "CarMax", "New", "", ""),   // blank VIN
		secondaryRecord("11/11/2025", "CarMax", "New", "Quote", "V9"),
		secondaryRecord("11/11/2025", "CarMax", "Used", "", "V8"),
		secondaryRecord("11/11/2025", "Acme", "New", "", "V7"),
	)

	got := AggregateSecondary(set, DefaultSecondaryRule)

	want := SecondaryResult{
		Title: "CarMax VINs - New Status (No Tags)",
		Days: []SecondaryDay{
			{Date: day(2025, 11, 11), UniqueVINs: 1},
			{Date: day(2025, 11, 12), UniqueVINs: 2},
		},
		TotalUnique: 2,
		Rows:        5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AggregateSecondary() mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateSecondary_NoMatches(t *testing.T) {
	got := AggregateSecondary(setOf(secondaryRecord("11/12/2025", "Acme", "New", "", "V1")), DefaultSecondaryRule)
	if !got.Empty() || got.TotalUnique != 0 {
		t.Errorf("AggregateSecondary() = %+v, want empty", got)
	}
	if !AggregateSecondary(nil, DefaultSecondaryRule).Empty() {
		t.Error("AggregateSecondary(nil) should be empty")
	}
}

func TestLoadSecondary(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "EOD Update-2.csv", shipmentHeader+
		"11/12/2025,,CarMax,Civic,,V1,New\n"+
		"11/12/2025,,CarMax,Civic,,V2,New\n")

	got, err := LoadSecondary(context.Background(), path, LoadOptions{}, DefaultSecondaryRule)
	if err != nil {
		t.Fatalf("LoadSecondary() error = %v", err)
	}
	if got.TotalUnique != 2 || len(got.Days) != 1 {
		t.Errorf("LoadSecondary() = %+v", got)
	}
}

func TestLoadSecondary_FailsSoft(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name       string
		path       string
		wantReason string
	}{
		{
			name:       "no path",
			path:       "",
			wantReason: "no secondary file provided",
		},
		{
			name:       "missing file",
			path:       filepath.Join(dir, "EOD Update-2.csv"),
			wantReason: "file not found",
		},
		{
			name: "missing vehicle status",
			path: writeCSV(t, dir, "no-status.csv",
				"Created Date,Tags,Customer Business Name,VIN #\n11/12/2025,,CarMax,V1\n"),
			wantReason: "missing required column",
		},
		{
			name:       "empty file",
			path:       writeCSV(t, dir, "empty.csv", ""),
			wantReason: "empty file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadSecondary(context.Background(), tt.path, LoadOptions{}, DefaultSecondaryRule)
			if !got.Empty() {
				t.Errorf("result = %+v, want empty", got)
			}
			var sae *SecondaryAggregationError
			if !errors.As(err, &sae) {
				t.Fatalf("error = %v, want *SecondaryAggregationError", err)
			}
			if sae.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", sae.Reason, tt.wantReason)
			}
		})
	}
}
