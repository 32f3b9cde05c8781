package core

// validation.go checks an export's header before any row is parsed. A missing
// required column is fatal for the main export and soft for the secondary one,
// so the check reports the missing names and leaves the policy to the caller.

import (
	"fmt"
	"strconv"
	"strings"
)

// MissingColumnsError lists required columns absent from a header.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	quoted := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		quoted[i] = strconv.Quote(c)
	}
	return fmt.Sprintf("header has no %s", strings.Join(quoted, ", "))
}

// ValidateHeaders validates that all required columns exist in the CSV headers.
// Returns the header index, or a *MissingColumnsError listing missing columns.
func ValidateHeaders(headers []string, specs []FieldSpec) (HeaderIndex, error) {
	idx := MakeHeaderIndex(headers)
	var missing []string

	for _, spec := range specs {
		if !spec.Required {
			continue
		}
		if idx.Position(spec.Name) < 0 {
			missing = append(missing, spec.Name)
		}
	}

	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	return idx, nil
}

// isBlankRow reports whether every cell of row is empty after cleanup.
// Spreadsheet exports often end with a run of such rows.
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if CleanCell(cell) != "" {
			return false
		}
	}
	return true
}
