package engine

import (
	"github.com/plotforge/plotforge/chartspec"
	"github.com/plotforge/plotforge/format"
)

// ============================================================================
// CHART OPTIONS BUILDER — scales, gridlines, legend, rotation, annotations
// ============================================================================

// ScaleOptions describe one y scale.
type ScaleOptions struct {
	Title       string
	Log         bool
	StartAtZero bool
	ShowLabels  bool
	ShowTitle   bool
}

// Annotation is a constant-value reference marker on a y scale.
type Annotation struct {
	Label     string
	Value     float64
	Color     string
	ShowLabel bool
}

// LegendOptions describe the legend, including the optional per-series
// headline statistic (latest or mean value).
type LegendOptions struct {
	Show      bool
	Headlines map[string]string // series name → formatted headline
}

// RenderOptions is the renderer-agnostic option block for one chart.
type RenderOptions struct {
	Legend LegendOptions

	GridLines      bool
	DisableTooltip bool
	Horizontal     bool

	XAxisTitle      string
	XAxisShowLabels bool
	XAxisShowTitle  bool
	XAxisRotation   int // degrees

	YAxis  ScaleOptions
	Y2Axis *ScaleOptions // combo dual-axis only

	Annotations []Annotation

	// Pie
	DonutWidth       float64
	PieLabelAs       string
	PieLabelPosition string
}

// plotWidthPx is the assumed plot width for auto label rotation; the engine
// has no live container measurement, so rotation works from this estimate.
const plotWidthPx = 900

// approxCharWidthPx approximates rendered label width per character.
const approxCharWidthPx = 7

// BuildChartOptions derives the option block from the dataset, the resolved
// series, and the config's axis presentation flags.
func BuildChartOptions(ds *Dataset, series []RenderSeries, cfg chartspec.ChartConfig) *RenderOptions {
	opts := &RenderOptions{
		GridLines:       cfg.GridLines,
		DisableTooltip:  cfg.DisableTooltip,
		Horizontal:      cfg.BarLayout == "horizontal" && ds.ChartType == chartspec.ChartTypeBar,
		XAxisShowLabels: cfg.XAxisShowAxisLabel,
		XAxisShowTitle:  cfg.XAxisShowAxisTitle,
		XAxisTitle:      xAxisTitle(cfg, ds),
		XAxisRotation:   resolveRotation(cfg.XAxisLabelRotation, ds.Labels),
		YAxis: ScaleOptions{
			Title:       yAxisTitle(cfg, ds, AxisPrimary),
			Log:         cfg.YAxisScaleType == "log",
			StartAtZero: cfg.YAxisStartAxisAtZero,
			ShowLabels:  cfg.YAxisShowAxisLabel,
			ShowTitle:   cfg.YAxisShowAxisTitle,
		},
		DonutWidth:       cfg.PieDonutWidth,
		PieLabelAs:       cfg.PieDisplayLabelAs,
		PieLabelPosition: cfg.PieLabelPosition,
	}

	// A secondary scale exists only when some series renders against it.
	if hasSecondary(series) {
		opts.Y2Axis = &ScaleOptions{
			Title:       yAxisTitle(cfg, ds, AxisSecondary),
			Log:         cfg.Y2AxisScaleType == "log",
			StartAtZero: cfg.Y2AxisStartAxisAtZero,
			ShowLabels:  cfg.Y2AxisShowAxisLabel,
			ShowTitle:   cfg.Y2AxisShowAxisTitle,
		}
	}

	opts.Legend = buildLegend(series, cfg)
	opts.Annotations = buildAnnotations(ds)
	return opts
}

func hasSecondary(series []RenderSeries) bool {
	for i := range series {
		if series[i].Axis == AxisSecondary {
			return true
		}
	}
	return false
}

func xAxisTitle(cfg chartspec.ChartConfig, ds *Dataset) string {
	if cfg.XAxisAxisTitle != "" {
		return cfg.XAxisAxisTitle
	}
	axes := ResolveAxes(ds.ChartType, cfg.AxisFor(ds.ChartType))
	if len(axes.X) > 0 {
		return cfg.FormatFor(axes.X[0]).Label(axes.X[0])
	}
	return ""
}

func yAxisTitle(cfg chartspec.ChartConfig, ds *Dataset, slot AxisSlot) string {
	if slot == AxisSecondary {
		if cfg.Y2AxisAxisTitle != "" {
			return cfg.Y2AxisAxisTitle
		}
	} else if cfg.YAxisAxisTitle != "" {
		return cfg.YAxisAxisTitle
	}

	axes := ResolveAxes(ds.ChartType, cfg.AxisFor(ds.ChartType))
	cols := axes.Y
	if slot == AxisSecondary {
		cols = axes.Y2
	}
	if len(cols) == 1 {
		return cfg.FormatFor(cols[0]).Label(cols[0])
	}
	return ""
}

// resolveRotation infers x label rotation: estimated label width against the
// horizontal room per tick. Explicit settings ("0", "45", "90") win.
func resolveRotation(setting string, labels []string) int {
	switch setting {
	case "0":
		return 0
	case "45":
		return 45
	case "90":
		return 90
	}

	if len(labels) == 0 {
		return 0
	}
	maxLen := 0
	for _, l := range labels {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	labelWidth := maxLen * approxCharWidthPx
	perTick := plotWidthPx / len(labels)

	switch {
	case labelWidth <= perTick:
		return 0
	case labelWidth <= perTick*2:
		return 45
	default:
		return 90
	}
}

// buildLegend computes headline statistics when configured: "current" shows
// each series' latest value, "average" its mean. Reference series never get
// legend entries.
func buildLegend(series []RenderSeries, cfg chartspec.ChartConfig) LegendOptions {
	legend := LegendOptions{Show: cfg.ShowLegend}
	if !cfg.ShowLegend || cfg.ShowLegendHeadline == "" {
		return legend
	}

	legend.Headlines = make(map[string]string)
	for i := range series {
		s := &series[i]
		if s.Kind != KindData {
			continue
		}
		vals := make([]float64, 0, len(s.Values))
		for j, v := range s.Values {
			if !s.Missing[j] {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			continue
		}

		var headline float64
		switch cfg.ShowLegendHeadline {
		case "current":
			headline = vals[len(vals)-1]
		case "average":
			var sum float64
			for _, v := range vals {
				sum += v
			}
			headline = sum / float64(len(vals))
		default:
			continue
		}
		legend.Headlines[s.Name] = format.Format(headline, cfg.FormatFor(s.ColumnID))
	}
	return legend
}

// buildAnnotations lifts goal series out of the dataset into y-axis markers.
func buildAnnotations(ds *Dataset) []Annotation {
	var out []Annotation
	for i := range ds.Series {
		s := &ds.Series[i]
		if s.Kind != KindGoal || len(s.Values) == 0 {
			continue
		}
		out = append(out, Annotation{
			Label:     s.Label,
			Value:     s.Values[0],
			Color:     s.Color,
			ShowLabel: s.ShowLabel,
		})
	}
	return out
}
