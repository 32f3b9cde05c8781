package render

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/shipdash/internal/core"
)

func init() {
	Register(Format{
		Name:        "xlsx",
		Extension:   "xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		New:         func(o Options) Renderer { return &XLSXRenderer{opts: o} },
	})
}

// Sheet names of the workbook, in order.
const (
	SheetSummary  = "Dashboard Summary"
	SheetPivot    = "Pivot Table"
	SheetTags     = "Tag Distribution"
	SheetVehicles = "Top Vehicles"
	SheetRaw      = "Raw Data"
)

// PercentFormat is the number format of ratio cells.
const PercentFormat = "0.0%"

// XLSXRenderer writes the multi-sheet workbook.
type XLSXRenderer struct {
	opts Options
}

type xlsxStyles struct {
	title, header, total, label, percent, percentTotal int
}

// Render implements Renderer.
func (r *XLSXRenderer) Render(ctx context.Context, w io.Writer, report *core.ReportModel) error {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newXLSXStyles(f)
	if err != nil {
		return fmt.Errorf("xlsx styles: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	for _, name := range []string{SheetPivot, SheetTags, SheetVehicles, SheetRaw} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("xlsx: add sheet %s: %w", name, err)
		}
	}

	steps := []func(*excelize.File, xlsxStyles, *core.ReportModel) error{
		writeSummarySheet,
		writePivotSheet,
		writeTagSheet,
		writeVehicleSheet,
		writeRawSheet,
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step(f, styles, report); err != nil {
			return err
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:    "Shipment Dashboard - " + report.AsOfLabel(),
		Subject:  "Daily Shipment Report",
		Creator:  r.opts.Author,
		Keywords: "Shipments, Dashboard, Report",
		Created:  r.opts.now().UTC().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("xlsx doc props: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func newXLSXStyles(f *excelize.File) (xlsxStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "D3D3D3", Style: 1},
		{Type: "right", Color: "D3D3D3", Style: 1},
		{Type: "top", Color: "D3D3D3", Style: 1},
		{Type: "bottom", Color: "D3D3D3", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	percent := PercentFormat

	var s xlsxStyles
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16, Color: "2C3E50"}}},
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"667EEA"}, Pattern: 1},
			Alignment: center,
			Border:    border,
		}},
		{&s.total, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFA502"}, Pattern: 1},
			Alignment: center,
			Border:    border,
		}},
		{&s.label, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&s.percent, &excelize.Style{CustomNumFmt: &percent, Border: border, Alignment: center}},
		{&s.percentTotal, &excelize.Style{
			Font:         &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:         excelize.Fill{Type: "pattern", Color: []string{"FFA502"}, Pattern: 1},
			CustomNumFmt: &percent,
			Border:       border,
			Alignment:    center,
		}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return s, err
		}
		*d.dst = id
	}
	return s, nil
}

// sheetWriter keeps the first error so sheet layouts read top to bottom.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func colName(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}

func (s *sheetWriter) set(col, row int, v any) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetCellValue(s.sheet, cellName(col, row), v)
}

func (s *sheetWriter) style(col1, row1, col2, row2, style int) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetCellStyle(s.sheet, cellName(col1, row1), cellName(col2, row2), style)
}

func (s *sheetWriter) merge(col1, row1, col2, row2 int) {
	if s.err != nil || (col1 == col2 && row1 == row2) {
		return
	}
	s.err = s.f.MergeCell(s.sheet, cellName(col1, row1), cellName(col2, row2))
}

func (s *sheetWriter) width(col int, w float64) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetColWidth(s.sheet, colName(col), colName(col), w)
}

func (s *sheetWriter) chart(cell string, chart *excelize.Chart) {
	if s.err != nil {
		return
	}
	s.err = s.f.AddChart(s.sheet, cell, chart)
}

func (s *sheetWriter) done() error {
	if s.err != nil {
		return fmt.Errorf("xlsx sheet %s: %w", s.sheet, s.err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, st xlsxStyles, m *core.ReportModel) error {
	s := &sheetWriter{f: f, sheet: SheetSummary}

	s.set(1, 1, "SHIPMENT DASHBOARD")
	s.merge(1, 1, 6, 1)
	s.style(1, 1, 1, 1, st.title)
	s.set(1, 2, "Report Date: "+m.AsOfDate.Format("January 02, 2006"))
	s.merge(1, 2, 6, 2)

	avgSub := "miles per shipment"
	if m.AverageDistance == nil {
		avgSub = "no valid distances"
	}
	cards := []struct {
		label string
		value any
		sub   string
	}{
		{"SHIPMENTS CREATED TODAY", m.TotalToday, "Date: " + m.AsOfLabel()},
		{"TODAY VS TOTAL", m.TotalToday, fmt.Sprintf("%.1f%% of total (%d total)", m.PercentToday, m.TotalAll)},
		{"MOST SHIPPED VEHICLE", m.TopVehicle.Count, m.TopVehicle.Label},
		{"AVERAGE DISTANCE", m.AverageDistanceText(), avgSub},
	}
	for i, c := range cards {
		col := (i%2)*3 + 1
		row := (i/2)*4 + 4
		s.set(col, row, c.label)
		s.merge(col, row, col+1, row)
		s.style(col, row, col+1, row, st.header)
		s.set(col, row+1, c.value)
		s.merge(col, row+1, col+1, row+1)
		s.style(col, row+1, col+1, row+1, st.title)
		s.set(col, row+2, c.sub)
		s.merge(col, row+2, col+1, row+2)
	}

	const summaryRow = 16
	s.set(1, summaryRow, "DATA SUMMARY")
	s.merge(1, summaryRow, 6, summaryRow)
	s.style(1, summaryRow, 6, summaryRow, st.header)
	info := []struct {
		label string
		value any
	}{
		{"Total Records Processed:", m.TotalAll},
		{"Filtered Out (tag rule):", m.Provenance.ExcludedByTagRule},
		{"Dropped (unreadable rows):", m.Provenance.ParseDropped},
		{"Date Range:", m.FirstDate.Format("01/02/2006") + " to " + m.AsOfDate.Format("01/02/2006")},
		{"Number of Customers:", m.CustomerCount()},
		{"Number of Tag Types:", m.TagTypeCount()},
	}
	for i, kv := range info {
		s.set(1, summaryRow+1+i, kv.label)
		s.style(1, summaryRow+1+i, 1, summaryRow+1+i, st.label)
		s.set(2, summaryRow+1+i, kv.value)
	}

	for col, w := range map[int]float64{1: 30, 2: 20, 3: 5, 4: 30, 5: 20} {
		s.width(col, w)
	}
	return s.done()
}

// writePivotTable lays out p starting at row and returns the row after its
// TOTAL row. shares, when non-nil, adds a "% Increase" column.
func writePivotTable(s *sheetWriter, st xlsxStyles, p core.PivotTable, row int, shares []core.CustomerShare, overall float64) int {
	headers := append([]string{"Customer Business Name"}, p.Columns...)
	headers = append(headers, "Total")
	if shares != nil {
		headers = append(headers, "% Increase")
	}
	for i, h := range headers {
		s.set(i+1, row, h)
	}
	s.style(1, row, len(headers), row, st.header)
	row++

	ratio := make(map[string]float64, len(shares))
	for _, sh := range shares {
		ratio[sh.Customer] = sh.Ratio
	}

	totalCol := len(p.Columns) + 2
	for _, r := range p.Rows {
		s.set(1, row, r.Key)
		for j, col := range p.Columns {
			if n := r.Cells[col]; n > 0 {
				s.set(j+2, row, n)
			}
		}
		s.set(totalCol, row, r.Total)
		s.style(totalCol, row, totalCol, row, st.label)
		if shares != nil {
			s.set(totalCol+1, row, ratio[r.Key])
			s.style(totalCol+1, row, totalCol+1, row, st.percent)
		}
		row++
	}

	s.set(1, row, "TOTAL")
	for j, n := range p.ColumnTotals() {
		s.set(j+2, row, n)
	}
	s.set(totalCol, row, p.GrandTotal())
	s.style(1, row, totalCol, row, st.total)
	if shares != nil {
		s.set(totalCol+1, row, overall)
		s.style(totalCol+1, row, totalCol+1, row, st.percentTotal)
	}
	return row + 1
}

func writePivotSheet(f *excelize.File, st xlsxStyles, m *core.ReportModel) error {
	s := &sheetWriter{f: f, sheet: SheetPivot}
	all := m.CustomerByTag
	width := len(all.Columns) + 2

	s.set(1, 1, fmt.Sprintf("Count of VIN by Customer and Tag Type (%s - %s) - %d",
		m.FirstDate.Format("01/02/2006"), m.AsOfDate.Format("01/02/2006"), m.TotalAll))
	s.merge(1, 1, width, 1)
	s.style(1, 1, 1, 1, st.title)
	row := writePivotTable(s, st, all, 3, nil, 0)

	// Secondary table sits one column right of the main table.
	sc := width + 2
	s.set(sc, 1, m.Secondary.Title)
	s.merge(sc, 1, sc+1, 1)
	s.style(sc, 1, sc, 1, st.label)
	s.set(sc, 3, "Created Date")
	s.set(sc+1, 3, "Unique VINs")
	s.style(sc, 3, sc+1, 3, st.header)
	if m.Secondary.Empty() {
		s.set(sc, 4, "No data found")
		s.merge(sc, 4, sc+1, 4)
	} else {
		r := 4
		for _, d := range m.Secondary.Days {
			s.set(sc, r, d.Date.Format("01/02/2006"))
			s.set(sc+1, r, d.UniqueVINs)
			r++
		}
		s.set(sc, r, "TOTAL")
		s.set(sc+1, r, m.Secondary.TotalUnique)
		s.style(sc, r, sc+1, r, st.total)
	}
	s.width(sc, 25)
	s.width(sc+1, 20)

	row += 2
	if len(m.TodayOnly.Rows) > 0 {
		s.set(1, row, fmt.Sprintf("Count of VIN Created Today (%s) - %d (%.1f%% Increase)",
			m.AsOfDate.Format("01/02/2006"), m.TotalToday, m.PercentToday))
		s.merge(1, row, len(m.TodayOnly.Columns)+3, row)
		s.style(1, row, 1, row, st.title)
		writePivotTable(s, st, m.TodayOnly, row+2, m.TodayShare, m.TodayRatio())
		s.width(len(m.TodayOnly.Columns)+3, 15)
	}

	s.width(1, 45)
	for i, col := range all.Columns {
		s.width(i+2, float64(max(len(col)+3, 22)))
	}
	s.width(width, 12)
	return s.done()
}

func writeRankedSheet(f *excelize.File, st xlsxStyles, sheet, title, labelHeader string, ranked []core.Ranked, chart *excelize.Chart) error {
	s := &sheetWriter{f: f, sheet: sheet}
	s.set(1, 1, title)
	s.merge(1, 1, 2, 1)
	s.style(1, 1, 1, 1, st.title)
	s.set(1, 3, labelHeader)
	s.set(2, 3, "Count")
	s.style(1, 3, 2, 3, st.header)
	for i, r := range ranked {
		s.set(1, 4+i, r.Label)
		s.set(2, 4+i, r.Count)
	}
	s.width(1, 35)
	s.width(2, 15)

	if len(ranked) > 0 {
		last := 3 + len(ranked)
		chart.Series = []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$3", sheet),
			Categories: fmt.Sprintf("'%s'!$A$4:$A$%d", sheet, last),
			Values:     fmt.Sprintf("'%s'!$B$4:$B$%d", sheet, last),
		}}
		s.chart("D3", chart)
	}
	return s.done()
}

func writeTagSheet(f *excelize.File, st xlsxStyles, m *core.ReportModel) error {
	return writeRankedSheet(f, st, SheetTags, "Shipment Distribution by Tag Type", "Tags", m.TagDistribution,
		&excelize.Chart{
			Type:     excelize.Pie,
			Title:    []excelize.RichTextRun{{Text: "Tag Distribution"}},
			Legend:   excelize.ChartLegend{Position: "right"},
			PlotArea: excelize.ChartPlotArea{ShowPercent: true},
		})
}

func writeVehicleSheet(f *excelize.File, st xlsxStyles, m *core.ReportModel) error {
	return writeRankedSheet(f, st, SheetVehicles, fmt.Sprintf("Top %d Most Shipped Vehicles", len(m.TopVehicles)), "Vehicle", m.TopVehicles,
		&excelize.Chart{
			Type:   excelize.Col,
			Title:  []excelize.RichTextRun{{Text: "Top Vehicles"}},
			Legend: excelize.ChartLegend{Position: "none"},
			XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Vehicle"}}},
			YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Count"}}},
		})
}

func writeRawSheet(f *excelize.File, st xlsxStyles, m *core.ReportModel) error {
	s := &sheetWriter{f: f, sheet: SheetRaw}
	s.set(1, 1, fmt.Sprintf("Filtered Shipment Data (%d excluded by tag rule)", m.Provenance.ExcludedByTagRule))
	s.style(1, 1, 1, 1, st.title)

	set := m.RawData
	if set == nil || len(set.Header) == 0 {
		s.set(1, 2, "No raw data")
		return s.done()
	}

	s.merge(1, 1, len(set.Header), 1)
	dateCol := set.Index.Position(core.ColCreatedDate)
	widths := make([]int, len(set.Header))
	for i, h := range set.Header {
		s.set(i+1, 2, h)
		widths[i] = len(h)
	}
	s.style(1, 2, len(set.Header), 2, st.header)

	for r, rec := range set.Records {
		for i := range set.Header {
			var v string
			switch {
			case i == dateCol:
				v = rec.CreatedDate.Format("01/02/2006")
			case i < len(rec.Raw):
				v = core.CleanCell(rec.Raw[i])
			}
			if v == "" {
				continue
			}
			s.set(i+1, r+3, v)
			widths[i] = max(widths[i], len(v))
		}
	}
	for i, w := range widths {
		s.width(i+1, float64(min(w+2, 50)))
	}
	return s.done()
}
