package core

import "sort"

// PivotRow is one row of a PivotTable. Cells is sparse: a column the row has
// no records for is absent and counts as zero.
type PivotRow struct {
	Key   string         `json:"key"`
	Cells map[string]int `json:"cells"`
	Total int            `json:"total"`
}

// PivotTable counts records by (row key, column key).
//
// Columns keep the order their key was first seen in. Rows are sorted by
// Total descending, first-seen order on ties. Every row's Total equals the
// sum of its cells.
type PivotTable struct {
	Columns []string   `json:"columns"`
	Rows    []PivotRow `json:"rows"`
}

// KeyFunc extracts a row or column key from a record.
type KeyFunc func(ShipmentRecord) string

// CustomerKey keys pivot rows by customer.
func CustomerKey(r ShipmentRecord) string { return r.CustomerName }

// TagKey keys pivot columns by raw tag label, with untagged records under
// NoTagsLabel.
func TagKey(r ShipmentRecord) string {
	if !r.HasTags() {
		return NoTagsLabel
	}
	return r.TagLabel
}

// BuildPivot counts records by rowKey and colKey.
func BuildPivot(records []ShipmentRecord, rowKey, colKey KeyFunc) PivotTable {
	var (
		table   PivotTable
		rowPos  = make(map[string]int)
		seenCol = make(map[string]bool)
	)

	for _, rec := range records {
		col := colKey(rec)
		if !seenCol[col] {
			seenCol[col] = true
			table.Columns = append(table.Columns, col)
		}

		key := rowKey(rec)
		pos, ok := rowPos[key]
		if !ok {
			pos = len(table.Rows)
			rowPos[key] = pos
			table.Rows = append(table.Rows, PivotRow{Key: key, Cells: make(map[string]int)})
		}
		table.Rows[pos].Cells[col]++
		table.Rows[pos].Total++
	}

	sort.SliceStable(table.Rows, func(i, j int) bool {
		return table.Rows[i].Total > table.Rows[j].Total
	})
	return table
}

// Count returns the cell for (row, col), zero when absent.
func (p PivotTable) Count(row, col string) int {
	r, ok := p.Row(row)
	if !ok {
		return 0
	}
	return r.Cells[col]
}

// Row looks up a row by key.
func (p PivotTable) Row(key string) (PivotRow, bool) {
	for _, r := range p.Rows {
		if r.Key == key {
			return r, true
		}
	}
	return PivotRow{}, false
}

// ColumnTotals returns the per-column sums in column order.
func (p PivotTable) ColumnTotals() []int {
	totals := make([]int, len(p.Columns))
	for _, r := range p.Rows {
		for i, col := range p.Columns {
			totals[i] += r.Cells[col]
		}
	}
	return totals
}

// GrandTotal is the number of records the table was built from.
func (p PivotTable) GrandTotal() int {
	sum := 0
	for _, r := range p.Rows {
		sum += r.Total
	}
	return sum
}

// Head returns a copy of the table limited to the first n rows. Columns that
// no remaining row uses are dropped, keeping the original column order.
// n <= 0 returns the table unchanged.
func (p PivotTable) Head(n int) PivotTable {
	if n <= 0 || len(p.Rows) <= n {
		return p
	}

	head := PivotTable{Rows: p.Rows[:n]}
	for _, col := range p.Columns {
		for _, r := range head.Rows {
			if r.Cells[col] > 0 {
				head.Columns = append(head.Columns, col)
				break
			}
		}
	}
	return head
}
