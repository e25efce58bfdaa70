package render

import (
	"html/template"
	"io"

	"github.com/plotforge/plotforge/engine"
)

// ============================================================================
// STATIC HTML — placeholder states, tables, metric cards
// ============================================================================
// These outputs carry no interactivity, so they render through templates
// instead of the chart library.
// ============================================================================

var placeholderTmpl = template.Must(template.New("placeholder").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Chart</title></head>
<body style="font-family:sans-serif">
<div style="padding:48px;text-align:center;color:#6b7280">
<p>{{.Text}}</p>
{{if .Detail}}<p style="font-size:12px">{{.Detail}}</p>{{end}}
</div>
</body></html>
`))

var tableTmpl = template.Must(template.New("table").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Table</title></head>
<body style="font-family:sans-serif">
<table style="border-collapse:collapse;width:100%">
<thead><tr>
{{range .Columns}}<th style="text-align:{{.Align}};border-bottom:2px solid #d1d5db;padding:6px">{{.Label}}</th>{{end}}
</tr></thead>
<tbody>
{{range .Rows}}<tr>
{{range .}}<td style="border-bottom:1px solid #e5e7eb;padding:6px">{{.}}</td>{{end}}
</tr>
{{end}}</tbody>
{{if .Summary}}<tfoot><tr>
{{range $i, $c := .Columns}}<td style="padding:6px;font-weight:bold;text-align:{{$c.Align}}">{{with index $.Summary.Values $c.Key}}{{.}}{{else}}{{if eq $i 0}}{{$.Summary.Label}}{{end}}{{end}}</td>{{end}}
</tr></tfoot>{{end}}
</table>
</body></html>
`))

var metricTmpl = template.Must(template.New("metric").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Metric</title></head>
<body style="font-family:sans-serif">
<div style="padding:48px;text-align:center">
{{if .Header}}<div style="color:#6b7280;font-size:14px">{{.Header}}</div>{{end}}
<div style="font-size:48px;font-weight:bold">{{.Value}}</div>
{{if .SubHeader}}<div style="color:#6b7280;font-size:14px">{{.SubHeader}}</div>{{end}}
</div>
</body></html>
`))

func writePlaceholder(spec *engine.RenderSpec, w io.Writer) error {
	text := map[engine.RenderState]string{
		engine.StateLoading:     "Loading…",
		engine.StateError:       "Something went wrong rendering this chart.",
		engine.StateNoData:      "No data to display.",
		engine.StateNoValidAxis: "Select columns for the x and y axes to render this chart.",
	}[spec.State]
	return placeholderTmpl.Execute(w, struct {
		Text   string
		Detail string
	}{Text: text, Detail: spec.Message})
}

func writeTable(td *engine.TableData, w io.Writer) error {
	return tableTmpl.Execute(w, td)
}

func writeMetric(md *engine.MetricData, w io.Writer) error {
	return metricTmpl.Execute(w, md)
}
