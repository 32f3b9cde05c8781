package core

import (
	"testing"
	"time"
)

// ----------------------------------------------------------------------------
// ParseDate Tests
// ----------------------------------------------------------------------------

func TestParseDate(t *testing.T) {
	nov12 := time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		layouts []string
		want    time.Time
		wantOK  bool
	}{
		{name: "date only", input: "11/12/2025", want: nov12, wantOK: true},
		{name: "single digit month and day", input: "1/5/2025", want: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "24 hour time dropped", input: "11/12/2025 14:30", want: nov12, wantOK: true},
		{name: "12 hour time dropped", input: "11/12/2025 2:30 PM", want: nov12, wantOK: true},
		{name: "seconds", input: "11/12/2025 2:30:15 PM", want: nov12, wantOK: true},
		{name: "ISO date", input: "2025-11-12", want: nov12, wantOK: true},
		{name: "ISO datetime", input: "2025-11-12 23:59:59", want: nov12, wantOK: true},
		{name: "RFC3339 keeps local calendar day", input: "2025-11-12T23:30:00-05:00", want: nov12, wantOK: true},
		{name: "surrounding whitespace", input: "  11/12/2025  ", want: nov12, wantOK: true},
		{name: "custom layout", input: "12.11.2025", layouts: []string{"02.01.2006"}, want: nov12, wantOK: true},
		{name: "custom layouts replace defaults", input: "11/12/2025", layouts: []string{"02.01.2006"}, wantOK: false},
		{name: "empty", input: "", wantOK: false},
		{name: "garbage", input: "not a date", wantOK: false},
		{name: "invalid month", input: "13/01/2025", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input, tt.layouts)
			if ok != tt.wantOK {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// ParseDistance Tests
// ----------------------------------------------------------------------------

func TestParseDistance(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *float64
	}{
		{name: "integer", input: "120", want: ptr(120)},
		{name: "decimal", input: "12.5", want: ptr(12.5)},
		{name: "thousands separator", input: "1,234", want: ptr(1234)},
		{name: "miles suffix", input: "45 miles", want: ptr(45)},
		{name: "mi suffix no space", input: "45mi", want: ptr(45)},
		{name: "unit case insensitive", input: "10 Miles", want: ptr(10)},
		{name: "negative", input: "-3", want: ptr(-3)},
		{name: "leading decimal point", input: ".5", want: ptr(0.5)},
		{name: "blank", input: "", want: nil},
		{name: "whitespace", input: "   ", want: nil},
		{name: "not available", input: "N/A", want: nil},
		{name: "text", input: "far", want: nil},
		{name: "two decimal points", input: "12.5.3", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDistance(tt.input)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("ParseDistance(%q) = %v, want nil", tt.input, *got)
			case tt.want != nil && got == nil:
				t.Errorf("ParseDistance(%q) = nil, want %v", tt.input, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("ParseDistance(%q) = %v, want %v", tt.input, *got, *tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// SplitTags Tests
// ----------------------------------------------------------------------------

func TestSplitTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{input: "", want: nil},
		{input: "   ", want: nil},
		{input: "New", want: []string{"New"}},
		{input: "CSRM, Quote", want: []string{"CSRM", "Quote"}},
		{input: " , A ,", want: []string{"A"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SplitTags(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitTags(%q) = %q, want %q", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SplitTags(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func ptr(v float64) *float64 { return &v }

// ----------------------------------------------------------------------------
// CleanCell Tests
// ----------------------------------------------------------------------------

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// Basic cleaning
		{
			name:  "simple string unchanged",
			input: "hello",
			want:  "hello",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},

		// Whitespace trimming
		{
			name:  "leading whitespace",
			input: "  hello",
			want:  "hello",
		},
		{
			name:  "trailing whitespace",
			input: "hello  ",
			want:  "hello",
		},
		{
			name:  "surrounded by whitespace",
			input: "  hello  ",
			want:  "hello",
		},

		// Excel formula prefix handling
		{
			name:  "Excel formula with quotes",
			input: `="hello"`,
			want:  "hello",
		},
		{
			name:  "Excel formula number as text",
			input: `="12345"`,
			want:  "12345",
		},
		{
			name:  "bare equals sign",
			input: "=SUM(A1)",
			want:  "SUM(A1)",
		},
		{
			name:  "equals at start only",
			input: "=hello",
			want:  "hello",
		},

		// Quote handling
		{
			name:  "double quotes removed",
			input: `"hello"`,
			want:  "hello",
		},
		{
			name:  "single quotes removed",
			input: "'hello'",
			want:  "hello",
		},
		{
			name:  "mixed quotes removed outer only",
			input: `"hello'`,
			want:  "hello",
		},
		{
			name:  "leading single quote (Excel text prefix)",
			input: "'12345",
			want:  "12345",
		},

		// Encoding
		{
			name:  "invalid UTF-8 replaced",
			input: "Acme\xffMotors",
			want:  "Acme\uFFFDMotors",
		},

		// Combined cleaning
		{
			name:  "whitespace and quotes",
			input: `  "hello"  `,
			want:  "hello",
		},
		{
			name:  "excel formula with whitespace",
			input: `  ="test"  `,
			want:  "test",
		},

		// Edge cases
		{
			name:  "only quotes",
			input: `""`,
			want:  "",
		},
		{
			name:  "only single quotes",
			input: "''",
			want:  "",
		},
		{
			name:  "equals with quoted number",
			input: `="0"`,
			want:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanCell(tt.input)
			if got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// MakeHeaderIndex Tests
// ----------------------------------------------------------------------------

func TestMakeHeaderIndex(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		checks map[string]int // key -> expected index
	}{
		{
			name:   "simple headers",
			header: []string{"Name", "Email", "Phone"},
			checks: map[string]int{
				"name":  0,
				"email": 1,
				"phone": 2,
			},
		},
		{
			name:   "case insensitive lookup",
			header: []string{"NAME", "Email", "pHoNe"},
			checks: map[string]int{
				"name":  0,
				"email": 1,
				"phone": 2,
			},
		},
		{
			name:   "headers with quotes cleaned",
			header: []string{`"Name"`, `"Email"`, `"Phone"`},
			checks: map[string]int{
				"name":  0,
				"email": 1,
				"phone": 2,
			},
		},
		{
			name:   "headers with whitespace",
			header: []string{"  Name  ", " Email ", "Phone"},
			checks: map[string]int{
				"name":  0,
				"email": 1,
				"phone": 2,
			},
		},
		{
			name:   "headers with Excel formula",
			header: []string{`="Name"`, `="Email"`},
			checks: map[string]int{
				"name":  0,
				"email": 1,
			},
		},
		{
			name:   "empty header",
			header: []string{},
			checks: map[string]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := MakeHeaderIndex(tt.header)

			for key, wantPos := range tt.checks {
				gotPos, ok := idx[key]
				if !ok {
					t.Errorf("MakeHeaderIndex(%v)[%q] not found, want index %d",
						tt.header, key, wantPos)
					continue
				}
				if gotPos != wantPos {
					t.Errorf("MakeHeaderIndex(%v)[%q] = %d, want %d",
						tt.header, key, gotPos, wantPos)
				}
			}
		})
	}
}

// TestMakeHeaderIndex_DuplicateHeaders verifies behavior with duplicate column names
func TestMakeHeaderIndex_DuplicateHeaders(t *testing.T) {
	// When duplicates exist, the first occurrence wins
	header := []string{"VIN #", "Tags", "VIN #"}
	idx := MakeHeaderIndex(header)

	if gotPos := idx.Position("vin #"); gotPos != 0 {
		t.Errorf("MakeHeaderIndex with duplicates: vin # index = %d, want 0", gotPos)
	}
}

func TestHeaderIndex_Value(t *testing.T) {
	idx := MakeHeaderIndex([]string{"Customer Business Name", "Tags"})
	row := []string{`="Acme"`}

	if got := idx.Value(row, ColCustomer); got != "Acme" {
		t.Errorf("Value(customer) = %q, want %q", got, "Acme")
	}
	if got := idx.Value(row, ColTags); got != "" {
		t.Errorf("Value(short row) = %q, want empty", got)
	}
	if got := idx.Value(row, ColVIN); got != "" {
		t.Errorf("Value(absent column) = %q, want empty", got)
	}
}
