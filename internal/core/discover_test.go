package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, dir, name string, mod time.Time) string {
	t.Helper()
	path := writeCSV(t, dir, name, shipmentHeader)
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	return path
}

func TestDiscoverInputs(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2025, 11, 12, 8, 0, 0, 0, time.UTC)

	touch(t, dir, "EOD 11-10.csv", base)
	newest := touch(t, dir, "EOD 11-12.csv", base.Add(2*time.Hour))
	touch(t, dir, "EOD Update-2 old.csv", base)
	secondary := touch(t, dir, "EOD Update_2 11-12.csv", base.Add(time.Hour))
	// Newer than everything, but not a CSV.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "archive.csv"), 0o755); err != nil {
		t.Fatal(err)
	}

	in, err := DiscoverInputs(dir)
	if err != nil {
		t.Fatalf("DiscoverInputs() error = %v", err)
	}
	if in.Path != newest {
		t.Errorf("Path = %q, want %q", in.Path, newest)
	}
	if in.SecondaryPath != secondary {
		t.Errorf("SecondaryPath = %q, want %q", in.SecondaryPath, secondary)
	}
}

func TestDiscoverInputs_NoMainExport(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "EOD Update-2.csv", time.Now())

	_, err := DiscoverInputs(dir)
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("error = %v, want ErrNoInput", err)
	}

	if _, err := DiscoverInputs(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestIsSecondaryExport(t *testing.T) {
	tests := map[string]bool{
		"EOD Update-2.csv":          true,
		"EOD Update_2 (1).csv":      true,
		"Shipments EOD 11-12.csv":   false,
		"eod update-2.csv":          false,
		"EOD Update-3 11-12-25.csv": false,
	}
	for name, want := range tests {
		if got := IsSecondaryExport(name); got != want {
			t.Errorf("IsSecondaryExport(%q) = %v, want %v", name, got, want)
		}
	}
}
