package render

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/plotforge/plotforge/chartspec"
	"github.com/plotforge/plotforge/engine"
)

// ============================================================================
// ECHARTS ADAPTER — RenderSpec → go-echarts HTML
// ============================================================================
// Thin by contract: every number and label arrives pre-formatted from the
// engine, so this layer only maps series shapes onto chart primitives.
// ============================================================================

// HTMLRenderer writes a RenderSpec as a self-contained HTML page.
type HTMLRenderer struct {
	width  string
	height string
}

// RendererOption configures an HTMLRenderer.
type RendererOption func(*HTMLRenderer)

// WithSize sets the chart canvas dimensions (CSS units).
func WithSize(width, height string) RendererOption {
	return func(r *HTMLRenderer) {
		r.width = width
		r.height = height
	}
}

// NewHTMLRenderer creates a renderer with a 900x500 default canvas.
func NewHTMLRenderer(options ...RendererOption) *HTMLRenderer {
	r := &HTMLRenderer{width: "900px", height: "500px"}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Render writes the spec to w. Placeholder states, tables, and metric cards
// produce static HTML; chart states produce an interactive echarts page.
func (r *HTMLRenderer) Render(spec *engine.RenderSpec, w io.Writer) error {
	if spec.State != engine.StateReady {
		return writePlaceholder(spec, w)
	}

	switch spec.ChartType {
	case chartspec.ChartTypeTable:
		return writeTable(spec.Table, w)
	case chartspec.ChartTypeMetric:
		return writeMetric(spec.Metric, w)
	case chartspec.ChartTypePie:
		return r.renderPie(spec, w)
	case chartspec.ChartTypeScatter:
		return r.renderScatter(spec, w)
	case chartspec.ChartTypeLine:
		return r.renderLine(spec, w)
	case chartspec.ChartTypeBar, chartspec.ChartTypeCombo:
		return r.renderBar(spec, w)
	default:
		return fmt.Errorf("unsupported chart type %q", spec.ChartType)
	}
}

// ============================================================================
// RECTANGULAR CHARTS — bar, combo, line
// ============================================================================

func (r *HTMLRenderer) renderBar(spec *engine.RenderSpec, w io.Writer) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalOptions(spec)...)
	if spec.Options != nil && spec.Options.Y2Axis != nil {
		bar.ExtendYAxis(yAxisOpts(*spec.Options.Y2Axis))
	}
	bar.SetXAxis(spec.Dataset.Labels)

	line := charts.NewLine()
	line.SetXAxis(spec.Dataset.Labels)
	hasLines := false

	marks := annotationOpts(spec)
	for i := range spec.Series {
		s := &spec.Series[i]
		switch s.Draw {
		case engine.DrawBar:
			so := barSeriesOpts(s)
			if marks != nil {
				so = append(so, marks...)
				marks = nil
			}
			bar.AddSeries(legendName(spec, s), barData(s), so...)
		default:
			line.AddSeries(legendName(spec, s), lineData(s), lineSeriesOpts(s)...)
			hasLines = true
		}
	}

	if hasLines {
		bar.Overlap(line)
	}
	if spec.Options != nil && spec.Options.Horizontal {
		return bar.XYReversal().Render(w)
	}
	return bar.Render(w)
}

func (r *HTMLRenderer) renderLine(spec *engine.RenderSpec, w io.Writer) error {
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalOptions(spec)...)
	line.SetXAxis(spec.Dataset.Labels)

	marks := annotationOpts(spec)
	for i := range spec.Series {
		s := &spec.Series[i]
		so := lineSeriesOpts(s)
		if marks != nil {
			so = append(so, marks...)
			marks = nil
		}
		line.AddSeries(legendName(spec, s), lineData(s), so...)
	}
	return line.Render(w)
}

func (r *HTMLRenderer) renderScatter(spec *engine.RenderSpec, w io.Writer) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(r.globalOptions(spec)...)
	scatter.SetXAxis(spec.Dataset.Labels)

	for i := range spec.Series {
		s := &spec.Series[i]
		if s.Draw == engine.DrawLine {
			// Trendlines over a scatter stay lines.
			line := charts.NewLine()
			line.SetXAxis(spec.Dataset.Labels)
			line.AddSeries(legendName(spec, s), lineData(s), lineSeriesOpts(s)...)
			scatter.Overlap(line)
			continue
		}
		data := make([]opts.ScatterData, len(s.Values))
		for j, v := range s.Values {
			d := opts.ScatterData{SymbolSize: 10}
			if !s.Missing[j] {
				d.Value = v
			}
			if s.Sizes != nil {
				d.SymbolSize = int(math.Max(4, math.Sqrt(s.Sizes[j])))
			}
			data[j] = d
		}
		scatter.AddSeries(legendName(spec, s), data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
	}
	return scatter.Render(w)
}

// ============================================================================
// PIE
// ============================================================================

func (r *HTMLRenderer) renderPie(spec *engine.RenderSpec, w io.Writer) error {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: r.width, Height: r.height}),
		charts.WithLegendOpts(legendOpts(spec)),
		charts.WithTooltipOpts(tooltipOpts(spec, "item")),
	)

	data := make([]opts.PieData, 0, len(spec.Slices))
	for _, slice := range spec.Slices {
		data = append(data, opts.PieData{
			Name:      slice.Name,
			Value:     slice.Value,
			ItemStyle: &opts.ItemStyle{Color: slice.Color},
		})
	}

	formatter := "{b}: {c}"
	if spec.Options != nil && spec.Options.PieLabelAs == "percent" {
		formatter = "{b}: {d}%"
	}
	radius := any("75%")
	if spec.Options != nil && spec.Options.DonutWidth > 0 {
		inner := 75 - spec.Options.DonutWidth
		if inner < 0 {
			inner = 0
		}
		radius = []string{fmt.Sprintf("%.0f%%", inner), "75%"}
	}

	label := opts.Label{Show: opts.Bool(true), Formatter: formatter}
	if spec.Options != nil && spec.Options.PieLabelPosition != "" {
		label.Position = spec.Options.PieLabelPosition
	}

	pie.AddSeries("", data,
		charts.WithPieChartOpts(opts.PieChart{Radius: radius}),
		charts.WithLabelOpts(label),
	)
	return pie.Render(w)
}

// ============================================================================
// SHARED OPTION MAPPING
// ============================================================================

func (r *HTMLRenderer) globalOptions(spec *engine.RenderSpec) []charts.GlobalOpts {
	o := spec.Options
	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: r.width, Height: r.height}),
		charts.WithLegendOpts(legendOpts(spec)),
		charts.WithTooltipOpts(tooltipOpts(spec, "axis")),
	}
	if o == nil {
		return global
	}

	xAxis := opts.XAxis{
		Type: "category",
		AxisLabel: &opts.AxisLabel{
			Show:   opts.Bool(o.XAxisShowLabels),
			Rotate: float64(o.XAxisRotation),
		},
	}
	if o.XAxisShowTitle {
		xAxis.Name = o.XAxisTitle
		xAxis.NameLocation = "center"
		xAxis.NameGap = 32
	}

	yAxis := yAxisOpts(o.YAxis)
	yAxis.SplitLine = &opts.SplitLine{Show: opts.Bool(o.GridLines)}

	global = append(global,
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(yAxis),
	)
	return global
}

func yAxisOpts(s engine.ScaleOptions) opts.YAxis {
	axisType := "value"
	if s.Log {
		axisType = "log"
	}
	y := opts.YAxis{
		Type:      axisType,
		Scale:     opts.Bool(!s.StartAtZero),
		AxisLabel: &opts.AxisLabel{Show: opts.Bool(s.ShowLabels)},
	}
	if s.ShowTitle {
		y.Name = s.Title
	}
	return y
}

func legendOpts(spec *engine.RenderSpec) opts.Legend {
	show := spec.Options != nil && spec.Options.Legend.Show
	return opts.Legend{Show: opts.Bool(show)}
}

func tooltipOpts(spec *engine.RenderSpec, trigger string) opts.Tooltip {
	show := spec.Options == nil || !spec.Options.DisableTooltip
	return opts.Tooltip{Show: opts.Bool(show), Trigger: trigger}
}

// legendName appends the computed headline statistic to the series name so
// it surfaces in the legend.
func legendName(spec *engine.RenderSpec, s *engine.RenderSeries) string {
	if spec.Options == nil || spec.Options.Legend.Headlines == nil {
		return s.Name
	}
	if headline, ok := spec.Options.Legend.Headlines[s.Name]; ok {
		return s.Name + " · " + headline
	}
	return s.Name
}

func barData(s *engine.RenderSeries) []opts.BarData {
	data := make([]opts.BarData, len(s.Values))
	for i, v := range s.Values {
		if s.Missing[i] {
			continue // nil value renders as a gap
		}
		data[i] = opts.BarData{Value: v}
	}
	return data
}

func lineData(s *engine.RenderSeries) []opts.LineData {
	data := make([]opts.LineData, len(s.Values))
	for i, v := range s.Values {
		if s.Missing[i] {
			continue
		}
		data[i] = opts.LineData{Value: v}
	}
	return data
}

func barSeriesOpts(s *engine.RenderSeries) []charts.SeriesOpts {
	so := []charts.SeriesOpts{
		charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		charts.WithBarChartOpts(opts.BarChart{
			Stack:      s.Stack,
			YAxisIndex: axisIndex(s.Axis),
		}),
	}
	if s.ShowLabels {
		so = append(so, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
	}
	return so
}

func lineSeriesOpts(s *engine.RenderSeries) []charts.SeriesOpts {
	width := float32(s.LineWidth)
	if width == 0 {
		width = 2
	}
	so := []charts.SeriesOpts{
		charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		charts.WithLineStyleOpts(opts.LineStyle{
			Color: s.Color,
			Width: width,
			Type:  s.LineStyle,
		}),
		charts.WithLineChartOpts(opts.LineChart{
			Stack:      s.Stack,
			Smooth:     opts.Bool(s.Smooth),
			YAxisIndex: axisIndex(s.Axis),
		}),
	}
	if s.ShowLabels {
		so = append(so, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
	}
	return so
}

func axisIndex(slot engine.AxisSlot) int {
	if slot == engine.AxisSecondary {
		return 1
	}
	return 0
}

// annotationOpts converts goal-line annotations into mark-line series
// options. Attached to the first data series of the chart; echarts draws the
// mark lines across the full plot regardless of the carrier.
func annotationOpts(spec *engine.RenderSpec) []charts.SeriesOpts {
	if spec.Options == nil || len(spec.Options.Annotations) == 0 {
		return nil
	}
	var so []charts.SeriesOpts
	showAny := false
	for _, a := range spec.Options.Annotations {
		so = append(so, charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
			Name:  a.Label,
			YAxis: a.Value,
		}))
		if a.ShowLabel {
			showAny = true
		}
	}
	so = append(so, charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
		Symbol: []string{"none", "none"},
		Label:  &opts.Label{Show: opts.Bool(showAny), Formatter: "{b}"},
	}))
	return so
}
