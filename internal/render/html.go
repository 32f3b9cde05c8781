package render

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/shipdash/internal/core"
)

func init() {
	Register(Format{
		Name:        "html",
		Extension:   "html",
		ContentType: "text/html; charset=utf-8",
		New:         func(o Options) Renderer { return &HTMLRenderer{opts: o} },
	})
}

// ReportDataID is the id of the script element carrying the model as JSON.
const ReportDataID = "report-data"

// HTMLRenderer writes the self-contained interactive dashboard.
type HTMLRenderer struct {
	opts Options
}

// Render implements Renderer.
func (r *HTMLRenderer) Render(ctx context.Context, w io.Writer, report *core.ReportModel) error {
	return Dashboard(report, r.opts).Render(ctx, w)
}

// Dashboard is the full page as a templ component, so the web server can
// serve it directly.
func Dashboard(report *core.ReportModel, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"UTF-8\">\n")
		h.raw("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
		h.raw("<title>Shipment Dashboard - ")
		h.text(report.AsOfLabel())
		h.raw("</title>\n<script src=\"")
		h.text(opts.ChartScriptURL)
		h.raw("\"></script>\n<style>")
		h.raw(dashboardCSS)
		h.raw("</style>\n</head>\n<body>\n<div class=\"container\">\n")

		h.raw("<div class=\"header\"><h1>Shipment Dashboard</h1><div class=\"date\">Report Date: ")
		h.text(report.AsOfDate.Format("January 02, 2006"))
		h.raw("</div></div>\n")

		h.render(ctx, metricCards(report))
		h.render(ctx, warningList(report.Warnings))
		h.render(ctx, pivotSection("Shipments by Customer and Tag Type", report.CustomerByTag))
		if !report.Secondary.Empty() {
			h.render(ctx, secondarySection(report.Secondary))
		}

		h.raw("<div class=\"chart-container\"><div class=\"chart-title\">Top ")
		h.text(strconv.Itoa(opts.topCustomers()))
		h.raw(" Customers by Shipment Volume</div><div id=\"customerChart\" data-top=\"")
		h.text(strconv.Itoa(opts.topCustomers()))
		h.raw("\"></div></div>\n")
		h.raw("<div class=\"chart-container\"><div class=\"chart-title\">Shipment Distribution by Tag Type</div><div id=\"tagChart\"></div></div>\n")
		h.raw("</div>\n")

		h.render(ctx, templ.JSONScript(ReportDataID, report))
		h.raw("\n<script>")
		h.raw(chartJS)
		h.raw("</script>\n</body>\n</html>\n")
		return h.err
	})
}

func metricCards(report *core.ReportModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		distance := report.AverageDistanceText()
		distanceSub := "miles per shipment"
		if report.AverageDistance == nil {
			distanceSub = "no valid distances"
		}

		h.raw("<div class=\"metrics\">\n")
		h.card("today", "Shipments Created Today", strconv.Itoa(report.TotalToday), "Date: "+report.AsOfLabel())
		h.card("increase", "Today vs Total", strconv.Itoa(report.TotalToday),
			fmt.Sprintf("%.1f%% of total (%d total)", report.PercentToday, report.TotalAll))
		h.card("vehicle", "Most Shipped Vehicle", strconv.Itoa(report.TopVehicle.Count), report.TopVehicle.Label)
		h.card("distance", "Avg Distance", distance, distanceSub)
		h.raw("</div>\n")

		h.raw("<div class=\"summary\">")
		h.text(fmt.Sprintf("%s to %s | %d customers | %d tag types | %d loaded, %d excluded by tag rule, %d dropped",
			report.FirstDate.Format(core.DateFormat), report.AsOfLabel(),
			report.CustomerCount(), report.TagTypeCount(),
			report.Provenance.TotalLoaded, report.Provenance.ExcludedByTagRule, report.Provenance.ParseDropped))
		h.raw("</div>\n")
		return h.err
	})
}

func warningList(warnings []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(warnings) == 0 {
			return nil
		}
		h := &htmlWriter{w: w}
		h.raw("<ul class=\"warnings\">")
		for _, msg := range warnings {
			h.raw("<li>")
			h.text(msg)
			h.raw("</li>")
		}
		h.raw("</ul>\n")
		return h.err
	})
}

func pivotSection(title string, p core.PivotTable) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<div class=\"table-container\"><div class=\"table-title\">")
		h.text(title)
		h.raw("</div>\n<table>\n<thead><tr><th>Customer Business Name</th>")
		for _, col := range p.Columns {
			h.raw("<th>")
			h.text(col)
			h.raw("</th>")
		}
		h.raw("<th>Total</th></tr></thead>\n<tbody>\n")

		for _, row := range p.Rows {
			h.raw("<tr><td><strong>")
			h.text(row.Key)
			h.raw("</strong></td>")
			for _, col := range p.Columns {
				h.raw("<td>")
				if n := row.Cells[col]; n > 0 {
					h.text(strconv.Itoa(n))
				}
				h.raw("</td>")
			}
			h.raw("<td class=\"total-column\">")
			h.text(strconv.Itoa(row.Total))
			h.raw("</td></tr>\n")
		}

		h.raw("<tr class=\"total-row\"><td>TOTAL</td>")
		for _, n := range p.ColumnTotals() {
			h.raw("<td>")
			h.text(strconv.Itoa(n))
			h.raw("</td>")
		}
		h.raw("<td class=\"total-column\">")
		h.text(strconv.Itoa(p.GrandTotal()))
		h.raw("</td></tr>\n</tbody>\n</table>\n</div>\n")
		return h.err
	})
}

func secondarySection(s core.SecondaryResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<div class=\"table-container\"><div class=\"table-title\">")
		h.text(s.Title)
		h.raw("</div>\n<table class=\"narrow\">\n<thead><tr><th>Created Date</th><th>Unique VINs</th></tr></thead>\n<tbody>\n")
		for _, d := range s.Days {
			h.raw("<tr><td>")
			h.text(d.Date.Format(core.DateFormat))
			h.raw("</td><td>")
			h.text(strconv.Itoa(d.UniqueVINs))
			h.raw("</td></tr>\n")
		}
		h.raw("<tr class=\"total-row\"><td>TOTAL</td><td>")
		h.text(strconv.Itoa(s.TotalUnique))
		h.raw("</td></tr>\n</tbody>\n</table>\n</div>\n")
		return h.err
	})
}

// htmlWriter keeps the first write error so components can write
// unconditionally and check once.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func (h *htmlWriter) card(class, label, value, sub string) {
	h.raw("<div class=\"metric-card ")
	h.text(class)
	h.raw("\"><div class=\"label\">")
	h.text(label)
	h.raw("</div><div class=\"value\">")
	h.text(value)
	h.raw("</div><div class=\"subvalue\">")
	h.text(sub)
	h.raw("</div></div>\n")
}

const dashboardCSS = `
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 20px; min-height: 100vh; }
.container { max-width: 1600px; margin: 0 auto; background: white; border-radius: 20px; box-shadow: 0 20px 60px rgba(0,0,0,0.3); overflow: hidden; }
.header { background: linear-gradient(135deg, #2c3e50 0%, #34495e 100%); color: white; padding: 30px 40px; text-align: center; }
.header h1 { font-size: 2.5em; margin-bottom: 10px; font-weight: 600; }
.header .date { font-size: 1.2em; opacity: 0.9; }
.metrics { display: grid; grid-template-columns: repeat(auto-fit, minmax(250px, 1fr)); gap: 20px; padding: 30px 40px; background: #f8f9fa; }
.metric-card { padding: 25px; border-radius: 15px; box-shadow: 0 4px 6px rgba(0,0,0,0.1); color: white; }
.metric-card .label { font-size: 0.9em; text-transform: uppercase; letter-spacing: 1px; margin-bottom: 10px; font-weight: 600; }
.metric-card .value { font-size: 2.5em; font-weight: bold; margin-bottom: 5px; }
.metric-card.today { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); }
.metric-card.increase { background: linear-gradient(135deg, #f093fb 0%, #f5576c 100%); }
.metric-card.vehicle { background: linear-gradient(135deg, #4facfe 0%, #00f2fe 100%); }
.metric-card.distance { background: linear-gradient(135deg, #43e97b 0%, #38f9d7 100%); }
.summary { padding: 10px 40px; color: #7f8c8d; background: #f8f9fa; }
.warnings { margin: 10px 40px; padding: 10px 20px; background: #fff3cd; color: #856404; border-radius: 8px; }
.table-container, .chart-container { padding: 30px 40px; overflow-x: auto; }
.table-title, .chart-title { font-size: 1.8em; color: #2c3e50; margin-bottom: 20px; font-weight: 600; }
table { width: 100%; border-collapse: collapse; box-shadow: 0 4px 6px rgba(0,0,0,0.1); }
table.narrow { width: auto; }
th { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 15px; text-align: left; position: sticky; top: 0; }
td { padding: 12px 15px; border-bottom: 1px solid #e9ecef; }
tr:hover { background-color: #f8f9fa; }
.total-column, .total-row td { font-weight: bold; background-color: #e9ecef; }
`

const chartJS = `
(function () {
  if (typeof Plotly === 'undefined') { return; }
  var report = JSON.parse(document.getElementById('report-data').textContent);

  var chart = document.getElementById('customerChart');
  var top = parseInt(chart.dataset.top, 10) || 10;
  var pivot = report.customer_by_tag || {};
  var rows = (pivot.rows || []).slice(0, top);
  var names = rows.map(function (r) { return r.key; });
  var traces = (pivot.columns || []).filter(function (col) {
    return rows.some(function (r) { return (r.cells[col] || 0) > 0; });
  }).map(function (col) {
    return { x: names, y: rows.map(function (r) { return r.cells[col] || 0; }), name: col, type: 'bar' };
  });
  Plotly.newPlot(chart, traces, {
    barmode: 'stack', height: 500,
    xaxis: { tickangle: -45 }, yaxis: { title: 'Number of Shipments' }, margin: { b: 150 }
  });

  var tags = report.tag_distribution || [];
  Plotly.newPlot('tagChart', [{
    values: tags.map(function (t) { return t.count; }),
    labels: tags.map(function (t) { return t.label; }),
    type: 'pie', textinfo: 'label+percent', textposition: 'auto',
    hovertemplate: '<b>%{label}</b><br>Count: %{value}<br>Percentage: %{percent}<extra></extra>'
  }], { height: 500, showlegend: true });
})();
`
