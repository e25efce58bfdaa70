package engine

import (
	"github.com/plotforge/plotforge/chartspec"
	"github.com/plotforge/plotforge/format"
)

// ============================================================================
// SERIES OPTIONS BUILDER — Dataset → renderer-agnostic series descriptions
// ============================================================================
// Assigns palette colors (cycling past the palette length), maps per-column
// visualization overrides to draw modes, and carries the pre-formatted
// tooltip payloads through. Trendline series keep their own colors; goal
// series stay out of the drawable set entirely and surface as y-axis
// annotations through the options builder.
// ============================================================================

// DrawMode is the renderer-level drawing primitive for a series.
type DrawMode string

const (
	DrawBar     DrawMode = "bar"
	DrawLine    DrawMode = "line"
	DrawScatter DrawMode = "scatter"
	DrawPie     DrawMode = "pie"
)

// RenderSeries is one fully resolved series handed to the renderer adapter.
type RenderSeries struct {
	Name     string
	ColumnID string
	Kind     SeriesKind
	Axis     AxisSlot
	Draw     DrawMode

	Color string
	Stack string // stack group name, "" = unstacked

	Smooth       bool
	Step         bool
	LineWidth    float64
	SymbolSize   float64
	LineStyle    string // "solid", "dashed", "dotted"
	BarRoundness float64

	ShowLabels      bool
	LabelsAsPercent bool
	RefLabel        string // trendline reference label
	ShowRefLabel    bool

	Values   []float64
	Missing  []bool
	Sizes    []float64
	Tooltips [][]TooltipField
}

// PieSlice is one resolved pie segment.
type PieSlice struct {
	Name     string
	Value    float64
	Color    string
	Tooltips []TooltipField
	Members  []string // merged source slices for the synthetic "Other"
}

// BuildSeriesOptions maps a Dataset plus column settings and palette into
// renderer series. Pie charts resolve through BuildPieSlices instead.
func BuildSeriesOptions(ds *Dataset, cfg chartspec.ChartConfig) []RenderSeries {
	colors := cfg.Colors
	if len(colors) == 0 {
		colors = chartspec.DefaultPalette()
	}

	stackGroup := ""
	mode := cfg.GroupModeFor(ds.ChartType)
	if mode == chartspec.GroupModeStack || mode == chartspec.GroupModePercentageStack {
		stackGroup = "total"
	}

	out := make([]RenderSeries, 0, len(ds.Series))
	dataIdx := 0
	for i := range ds.Series {
		s := &ds.Series[i]
		if s.Kind == KindGoal {
			// Rendered as an annotation, never as a drawable series.
			continue
		}
		rs := RenderSeries{
			Name:     s.Name,
			ColumnID: s.ColumnID,
			Kind:     s.Kind,
			Axis:     s.Axis,
			Values:   s.Values,
			Missing:  s.Missing,
			Sizes:    s.Sizes,
			Tooltips: s.Tooltips,
		}

		settings := cfg.SettingsFor(s.ColumnID)

		switch s.Kind {
		case KindData:
			rs.Color = colors[dataIdx%len(colors)]
			dataIdx++
			rs.Draw = drawModeFor(ds.ChartType, settings)
			if rs.Draw == DrawBar {
				rs.Stack = stackGroup
				rs.BarRoundness = settings.BarRoundness
			}
			if rs.Draw == DrawLine {
				rs.Stack = stackGroup
				rs.LineWidth = settings.LineWidth
				rs.SymbolSize = settings.LineSymbolSize
				rs.LineStyle = settings.LineStyle
				rs.Smooth = settings.LineType == "smooth"
				rs.Step = settings.LineType == "step"
			}
			rs.ShowLabels = settings.ShowDataLabels
			rs.LabelsAsPercent = settings.ShowDataLabelsAsPercentage

		case KindTrendline:
			// Reference series: always a line, own color, never stacked,
			// excluded from legend aggregation by the options builder.
			rs.Draw = DrawLine
			rs.Color = s.Color
			rs.LineStyle = refLineStyle(s.LineStyle)
			rs.LineWidth = 1.5
			rs.RefLabel = s.Label
			rs.ShowRefLabel = s.ShowLabel
		}

		out = append(out, rs)
	}
	return out
}

func drawModeFor(t chartspec.ChartType, settings chartspec.ColumnSettings) DrawMode {
	switch t {
	case chartspec.ChartTypeLine:
		return DrawLine
	case chartspec.ChartTypeBar:
		return DrawBar
	case chartspec.ChartTypeScatter:
		return DrawScatter
	case chartspec.ChartTypeCombo:
		// Combo honors the per-column visualization override.
		if settings.ColumnVisualization == chartspec.VisualizationLine {
			return DrawLine
		}
		return DrawBar
	default:
		return DrawBar
	}
}

func refLineStyle(style string) string {
	if style == "" {
		return "dashed"
	}
	return style
}

// ============================================================================
// PIE SLICES — minimum-percentage merge
// ============================================================================

// BuildPieSlices turns the first y series into pie segments. Slices whose
// share falls below cfg.PieMinimumSlicePercentage merge into one synthetic
// "Other" slice whose value is their sum and whose tooltip lists the merged
// members.
func BuildPieSlices(ds *Dataset, cfg chartspec.ChartConfig) []PieSlice {
	if len(ds.Series) == 0 {
		return nil
	}
	colors := cfg.Colors
	if len(colors) == 0 {
		colors = chartspec.DefaultPalette()
	}

	s := &ds.Series[0]
	var total float64
	for i, v := range s.Values {
		if !s.Missing[i] {
			total += v
		}
	}

	var slices []PieSlice
	var other []PieSlice
	for i, v := range s.Values {
		if s.Missing[i] {
			continue
		}
		slice := PieSlice{Name: ds.Labels[i], Value: v}
		if len(s.Tooltips) > i {
			slice.Tooltips = s.Tooltips[i]
		}
		share := 0.0
		if total != 0 {
			share = v / total * 100
		}
		if cfg.PieMinimumSlicePercentage > 0 && share < cfg.PieMinimumSlicePercentage {
			other = append(other, slice)
		} else {
			slices = append(slices, slice)
		}
	}

	if len(other) > 0 {
		merged := PieSlice{Name: "Other"}
		valueFormat := cfg.FormatFor(s.ColumnID)
		for _, o := range other {
			merged.Value += o.Value
			merged.Members = append(merged.Members, o.Name)
			merged.Tooltips = append(merged.Tooltips, TooltipField{
				Label: o.Name,
				Value: format.Format(o.Value, valueFormat),
			})
		}
		slices = append(slices, merged)
	}

	for i := range slices {
		slices[i].Color = colors[i%len(colors)]
	}
	return slices
}
