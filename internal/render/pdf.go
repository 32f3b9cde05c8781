package render

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/JonMunkholm/shipdash/internal/core"
)

func init() {
	Register(Format{
		Name:        "pdf",
		Extension:   "pdf",
		ContentType: "application/pdf",
		New:         func(o Options) Renderer { return &PDFRenderer{opts: o} },
	})
}

// PDFPages is the fixed page count: metrics, pivot, charts.
const PDFPages = 3

// Letter landscape, in millimetres.
const (
	pageW  = 279.4
	pageH  = 215.9
	margin = 12.0
	bottom = pageH - margin
)

type rgb struct{ r, g, b int }

var (
	colorDark   = rgb{44, 62, 80}
	colorMuted  = rgb{127, 140, 141}
	colorHeader = rgb{102, 126, 234}
	colorTotal  = rgb{233, 236, 239}
	colorWarn   = rgb{133, 100, 4}

	cardColors = []rgb{{102, 126, 234}, {245, 87, 108}, {79, 172, 254}, {67, 233, 123}}

	chartPalette = []rgb{
		{99, 110, 250}, {239, 85, 59}, {0, 204, 150}, {171, 99, 250}, {255, 161, 90},
		{25, 211, 243}, {255, 102, 146}, {182, 232, 128}, {255, 151, 255}, {254, 203, 82},
	}
)

// PDFRenderer writes the static three page summary.
type PDFRenderer struct {
	opts Options
}

// pdfDoc wraps fpdf with the text translator and colour helpers. fpdf keeps
// its own first error, checked once in Render.
type pdfDoc struct {
	*fpdf.Fpdf
	tr func(string) string
}

func (d *pdfDoc) fill(c rgb)   { d.SetFillColor(c.r, c.g, c.b) }
func (d *pdfDoc) ink(c rgb)    { d.SetTextColor(c.r, c.g, c.b) }
func (d *pdfDoc) stroke(c rgb) { d.SetDrawColor(c.r, c.g, c.b) }

func (d *pdfDoc) cell(w, h float64, text, border, align string, fill bool) {
	d.CellFormat(w, h, d.tr(text), border, 0, align, fill, 0, "")
}

// fit shortens text with an ellipsis until it fits width w.
func (d *pdfDoc) fit(text string, w float64) string {
	if d.GetStringWidth(d.tr(text)) <= w {
		return text
	}
	r := []rune(text)
	for len(r) > 1 && d.GetStringWidth(d.tr(string(r)+"...")) > w {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func (d *pdfDoc) heading(title, sub string) {
	d.fill(colorDark)
	d.Rect(0, 0, pageW, 24, "F")
	d.ink(rgb{255, 255, 255})
	d.SetFont("Helvetica", "B", 18)
	d.SetXY(margin, 5)
	d.cell(pageW-2*margin, 9, title, "", "L", false)
	d.SetFont("Helvetica", "", 10)
	d.SetXY(margin, 14)
	d.cell(pageW-2*margin, 6, sub, "", "L", false)
	d.ink(colorDark)
}

// Render implements Renderer.
func (r *PDFRenderer) Render(ctx context.Context, w io.Writer, report *core.ReportModel) error {
	pdf := fpdf.New("L", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(margin, margin, margin)

	d := &pdfDoc{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetTitle(d.tr("Shipment Dashboard - "+report.AsOfLabel()), false)
	pdf.SetAuthor(d.tr(r.opts.Author), false)
	pdf.SetSubject("Daily Shipment Report", false)
	pdf.SetKeywords("Shipments, Dashboard, Report", false)
	pdf.SetCreator(d.tr(r.opts.Author), false)
	pdf.SetCreationDate(r.opts.now())

	pages := []func(*pdfDoc, *core.ReportModel){
		pdfSummaryPage,
		pdfPivotPage,
		func(d *pdfDoc, m *core.ReportModel) { pdfChartPage(d, m, r.opts.topCustomers()) },
	}
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.AddPage()
		page(d, report)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf write: %w", err)
	}
	return nil
}

func pdfSummaryPage(d *pdfDoc, m *core.ReportModel) {
	d.heading("Shipment Dashboard", "Report Date: "+m.AsOfDate.Format("January 02, 2006"))

	distanceSub := "miles per shipment"
	if m.AverageDistance == nil {
		distanceSub = "no valid distances"
	}
	cards := []struct{ label, value, sub string }{
		{"SHIPMENTS CREATED TODAY", strconv.Itoa(m.TotalToday), "Date: " + m.AsOfLabel()},
		{"TODAY VS TOTAL", strconv.Itoa(m.TotalToday), fmt.Sprintf("%.1f%% of total (%d total)", m.PercentToday, m.TotalAll)},
		{"MOST SHIPPED VEHICLE", strconv.Itoa(m.TopVehicle.Count), m.TopVehicle.Label},
		{"AVG DISTANCE", m.AverageDistanceText(), distanceSub},
	}
	const gap = 6.0
	cardW := (pageW - 2*margin - 3*gap) / 4
	for i, c := range cards {
		x := margin + float64(i)*(cardW+gap)
		d.fill(cardColors[i])
		d.Rect(x, 32, cardW, 34, "F")
		d.ink(rgb{255, 255, 255})
		d.SetFont("Helvetica", "B", 8)
		d.SetXY(x+4, 35)
		d.cell(cardW-8, 5, c.label, "", "L", false)
		d.SetFont("Helvetica", "B", 22)
		d.SetXY(x+4, 42)
		d.cell(cardW-8, 12, d.fit(c.value, cardW-8), "", "L", false)
		d.SetFont("Helvetica", "", 8)
		d.SetXY(x+4, 57)
		d.cell(cardW-8, 5, d.fit(c.sub, cardW-8), "", "L", false)
	}
	d.ink(colorDark)

	y := 76.0
	d.SetFont("Helvetica", "B", 12)
	d.SetXY(margin, y)
	d.cell(120, 7, "Data Summary", "", "L", false)
	y += 9
	rows := [][2]string{
		{"Source file", m.Provenance.SourceFile},
		{"Total records processed", strconv.Itoa(m.TotalAll)},
		{"Loaded from export", strconv.Itoa(m.Provenance.TotalLoaded)},
		{"Excluded by tag rule", strconv.Itoa(m.Provenance.ExcludedByTagRule)},
		{"Dropped (unreadable rows)", strconv.Itoa(m.Provenance.ParseDropped)},
		{"Date range", m.FirstDate.Format("01/02/2006") + " to " + m.AsOfDate.Format("01/02/2006")},
		{"Number of customers", strconv.Itoa(m.CustomerCount())},
		{"Number of tag types", strconv.Itoa(m.TagTypeCount())},
	}
	for _, kv := range rows {
		d.SetXY(margin, y)
		d.SetFont("Helvetica", "B", 9)
		d.cell(55, 6, kv[0], "B", "L", false)
		d.SetFont("Helvetica", "", 9)
		d.cell(65, 6, d.fit(kv[1], 64), "B", "L", false)
		y += 6
	}

	if len(m.Warnings) > 0 {
		y += 6
		d.ink(colorWarn)
		d.SetFont("Helvetica", "B", 9)
		d.SetXY(margin, y)
		d.cell(120, 6, "Warnings", "", "L", false)
		d.SetFont("Helvetica", "", 8)
		for _, msg := range m.Warnings {
			y += 5
			if y > bottom-5 {
				break
			}
			d.SetXY(margin, y)
			d.cell(120, 5, d.fit(msg, 120), "", "L", false)
		}
		d.ink(colorDark)
	}

	pdfSecondaryTable(d, m.Secondary, 150, 76)
}

func pdfSecondaryTable(d *pdfDoc, s core.SecondaryResult, x, y float64) {
	const colW = 55.0
	d.SetFont("Helvetica", "B", 12)
	d.SetXY(x, y)
	d.cell(2*colW, 7, d.fit(s.Title, 2*colW), "", "L", false)
	y += 9

	d.fill(colorHeader)
	d.ink(rgb{255, 255, 255})
	d.SetFont("Helvetica", "B", 9)
	d.SetXY(x, y)
	d.cell(colW, 6, "Created Date", "1", "L", true)
	d.cell(colW, 6, "Unique VINs", "1", "R", true)
	d.ink(colorDark)
	y += 6

	d.SetFont("Helvetica", "", 9)
	if s.Empty() {
		d.SetXY(x, y)
		d.cell(2*colW, 6, "No data found", "1", "C", false)
		return
	}

	// Keep room for the TOTAL row and an overflow note.
	fit := int((bottom - y - 12) / 6)
	days := s.Days
	if len(days) > fit {
		days = days[len(days)-fit:]
	}
	for _, day := range days {
		d.SetXY(x, y)
		d.cell(colW, 6, day.Date.Format("01/02/2006"), "1", "L", false)
		d.cell(colW, 6, strconv.Itoa(day.UniqueVINs), "1", "R", false)
		y += 6
	}
	d.fill(colorTotal)
	d.SetFont("Helvetica", "B", 9)
	d.SetXY(x, y)
	d.cell(colW, 6, "TOTAL", "1", "L", true)
	d.cell(colW, 6, strconv.Itoa(s.TotalUnique), "1", "R", true)
	if hidden := len(s.Days) - len(days); hidden > 0 {
		d.SetFont("Helvetica", "I", 8)
		d.ink(colorMuted)
		d.SetXY(x, y+6)
		d.cell(2*colW, 5, fmt.Sprintf("+%d earlier dates not shown", hidden), "", "L", false)
		d.ink(colorDark)
	}
}

// Pivot page layout.
const (
	rowH        = 5.5
	nameW       = 62.0
	totalW      = 18.0
	minColW     = 20.0
	pivotTop    = 32.0
	pivotAvailW = pageW - 2*margin - nameW - totalW
)

// pdfPivotFit returns the rows and columns of p that fit on the pivot page.
// Room is kept for the header, the TOTAL row and an overflow note.
func pdfPivotFit(p core.PivotTable) ([]core.PivotRow, []string) {
	maxCols := int(math.Floor(pivotAvailW / minColW))
	maxRows := int(math.Floor((bottom-pivotTop)/rowH)) - 3

	cols := p.Columns
	if len(cols) > maxCols {
		cols = cols[:maxCols]
	}
	rows := p.Rows
	if len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	return rows, cols
}

func pdfPivotPage(d *pdfDoc, m *core.ReportModel) {
	p := m.CustomerByTag
	d.heading("Shipments by Customer and Tag Type",
		fmt.Sprintf("%s to %s | %d shipments", m.FirstDate.Format("01/02/2006"), m.AsOfDate.Format("01/02/2006"), m.TotalAll))

	rows, cols := pdfPivotFit(p)
	colW := pivotAvailW
	if len(cols) > 0 {
		colW = pivotAvailW / float64(len(cols))
	}

	y := pivotTop
	d.fill(colorHeader)
	d.ink(rgb{255, 255, 255})
	d.SetFont("Helvetica", "B", 7)
	d.SetXY(margin, y)
	d.cell(nameW, rowH, "Customer Business Name", "1", "L", true)
	for _, col := range cols {
		d.cell(colW, rowH, d.fit(col, colW-1), "1", "C", true)
	}
	d.cell(totalW, rowH, "Total", "1", "C", true)
	d.ink(colorDark)
	y += rowH

	d.SetFont("Helvetica", "", 7)
	for _, row := range rows {
		d.SetXY(margin, y)
		d.cell(nameW, rowH, d.fit(row.Key, nameW-1), "1", "L", false)
		for _, col := range cols {
			text := ""
			if n := row.Cells[col]; n > 0 {
				text = strconv.Itoa(n)
			}
			d.cell(colW, rowH, text, "1", "C", false)
		}
		d.fill(colorTotal)
		d.SetFont("Helvetica", "B", 7)
		d.cell(totalW, rowH, strconv.Itoa(row.Total), "1", "C", true)
		d.SetFont("Helvetica", "", 7)
		y += rowH
	}

	totals := p.ColumnTotals()
	d.fill(colorTotal)
	d.SetFont("Helvetica", "B", 7)
	d.SetXY(margin, y)
	d.cell(nameW, rowH, "TOTAL", "1", "L", true)
	for i := range cols {
		d.cell(colW, rowH, strconv.Itoa(totals[i]), "1", "C", true)
	}
	d.cell(totalW, rowH, strconv.Itoa(p.GrandTotal()), "1", "C", true)
	y += rowH

	var notes []string
	if hidden := len(p.Rows) - len(rows); hidden > 0 {
		notes = append(notes, fmt.Sprintf("+%d more customers", hidden))
	}
	if hidden := len(p.Columns) - len(cols); hidden > 0 {
		notes = append(notes, fmt.Sprintf("+%d more tag columns", hidden))
	}
	if len(notes) > 0 {
		note := notes[0]
		if len(notes) > 1 {
			note += ", " + notes[1]
		}
		d.SetFont("Helvetica", "I", 8)
		d.ink(colorMuted)
		d.SetXY(margin, y+1)
		d.cell(pageW-2*margin, 5, note+" (totals include them)", "", "L", false)
		d.ink(colorDark)
	}
}

func pdfChartPage(d *pdfDoc, m *core.ReportModel, top int) {
	d.heading("Charts", "Report Date: "+m.AsOfDate.Format("January 02, 2006"))
	pdfStackedBars(d, m.CustomerByTag.Head(top), margin, 32, 160, 170)
	pdfPie(d, m.TagDistribution, 182, 32, 86)
}

// pdfStackedBars draws customers as bars stacked by tag column.
func pdfStackedBars(d *pdfDoc, p core.PivotTable, x, y, w, h float64) {
	d.SetFont("Helvetica", "B", 11)
	d.SetXY(x, y)
	d.cell(w, 6, fmt.Sprintf("Top %d Customers by Shipment Volume", len(p.Rows)), "", "L", false)
	if len(p.Rows) == 0 {
		return
	}

	maxTotal := 0
	for _, row := range p.Rows {
		maxTotal = max(maxTotal, row.Total)
	}
	plotX, plotY := x+10, y+10
	plotW, plotH := w-10, h*0.55
	base := plotY + plotH

	d.stroke(colorMuted)
	d.SetLineWidth(0.2)
	d.Line(plotX, plotY, plotX, base)
	d.Line(plotX, base, plotX+plotW, base)
	d.SetFont("Helvetica", "", 6)
	d.ink(colorMuted)
	d.SetXY(x, plotY-2)
	d.cell(9, 4, strconv.Itoa(maxTotal), "", "R", false)
	d.SetXY(x, base-2)
	d.cell(9, 4, "0", "", "R", false)

	slot := plotW / float64(len(p.Rows))
	barW := slot * 0.65
	scale := plotH / float64(maxTotal)
	for i, row := range p.Rows {
		bx := plotX + float64(i)*slot + (slot-barW)/2
		top := base
		for j, col := range p.Columns {
			n := row.Cells[col]
			if n == 0 {
				continue
			}
			seg := float64(n) * scale
			d.fill(chartPalette[j%len(chartPalette)])
			d.Rect(bx, top-seg, barW, seg, "F")
			top -= seg
		}
		d.TransformBegin()
		d.TransformRotate(45, bx+barW/2, base+3)
		d.Text(bx+barW/2-d.GetStringWidth(d.tr(d.fit(row.Key, 30))), base+3, d.tr(d.fit(row.Key, 30)))
		d.TransformEnd()
	}

	ly := base + 28
	lx := x
	for j, col := range p.Columns {
		label := d.fit(col, 32)
		lw := d.GetStringWidth(d.tr(label)) + 8
		if lx+lw > x+w {
			lx = x
			ly += 5
		}
		if ly > y+h {
			break
		}
		d.fill(chartPalette[j%len(chartPalette)])
		d.Rect(lx, ly, 3, 3, "F")
		d.SetXY(lx+4, ly-0.5)
		d.cell(lw-4, 4, label, "", "L", false)
		lx += lw
	}
	d.ink(colorDark)
}

// pdfPie draws the tag distribution as a pie with a legend below it.
func pdfPie(d *pdfDoc, dist []core.Ranked, x, y, w float64) {
	d.SetFont("Helvetica", "B", 11)
	d.SetXY(x, y)
	d.cell(w, 6, "Shipment Distribution by Tag Type", "", "L", false)

	total := 0
	for _, r := range dist {
		total += r.Count
	}
	if total == 0 {
		d.SetFont("Helvetica", "I", 9)
		d.SetXY(x, y+10)
		d.cell(w, 6, "No tagged shipments", "", "L", false)
		return
	}

	radius := w * 0.35
	cx, cy := x+w/2, y+12+radius
	start := -math.Pi / 2
	for i, r := range dist {
		sweep := 2 * math.Pi * float64(r.Count) / float64(total)
		pts := []fpdf.PointType{{X: cx, Y: cy}}
		steps := max(int(sweep/(math.Pi/90)), 1)
		for k := 0; k <= steps; k++ {
			a := start + sweep*float64(k)/float64(steps)
			pts = append(pts, fpdf.PointType{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)})
		}
		d.fill(chartPalette[i%len(chartPalette)])
		d.Polygon(pts, "F")
		start += sweep
	}

	d.SetFont("Helvetica", "", 7)
	ly := cy + radius + 6
	for i, r := range dist {
		if ly > bottom-4 {
			d.ink(colorMuted)
			d.SetXY(x, ly)
			d.cell(w, 4, fmt.Sprintf("+%d more tags", len(dist)-i), "", "L", false)
			break
		}
		d.fill(chartPalette[i%len(chartPalette)])
		d.Rect(x, ly+0.5, 3, 3, "F")
		d.SetXY(x+4, ly)
		pct := 100 * float64(r.Count) / float64(total)
		d.cell(w-4, 4, d.fit(fmt.Sprintf("%s: %d (%.1f%%)", r.Label, r.Count, pct), w-4), "", "L", false)
		ly += 4.5
	}
	d.ink(colorDark)
}
