package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotforge/plotforge/chartspec"
)

// ============================================================================
// SERIES OPTIONS TESTS
// ============================================================================

func TestBuildSeriesOptionsPaletteCycling(t *testing.T) {
	cfg := barConfig()
	cfg.Colors = []string{"#111111", "#222222"}
	cfg.BarAndLineAxis.Y = []string{"revenue", "cost"}
	cfg.BarAndLineAxis.Category = []string{"region"}

	ds, err := BuildDataset(NewSliceView(salesRows()), cfg, 0)
	require.NoError(t, err)
	series := BuildSeriesOptions(ds, cfg)

	// 2 y columns x 2 categories = 4 data series over a 2-color palette.
	require.Len(t, series, 4)
	assert.Equal(t, "#111111", series[0].Color)
	assert.Equal(t, "#222222", series[1].Color)
	assert.Equal(t, "#111111", series[2].Color)
	assert.Equal(t, "#222222", series[3].Color)
}

func TestBuildSeriesOptionsStacking(t *testing.T) {
	cfg := barConfig()
	cfg.BarGroupType = chartspec.GroupModeStack

	ds, err := BuildDataset(NewSliceView(salesRows()), cfg, 0)
	require.NoError(t, err)
	series := BuildSeriesOptions(ds, cfg)

	require.NotEmpty(t, series)
	assert.Equal(t, "total", series[0].Stack)

	cfg.BarGroupType = chartspec.GroupModeGroup
	series = BuildSeriesOptions(ds, cfg)
	assert.Empty(t, series[0].Stack)
}

func TestBuildSeriesOptionsComboVisualization(t *testing.T) {
	cfg := barConfig()
	cfg.SelectedChartType = chartspec.ChartTypeCombo
	cfg.ComboAxis = chartspec.AxisMapping{
		X:  []string{"month"},
		Y:  []string{"revenue"},
		Y2: []string{"cost"},
	}
	cfg.ColumnSettings = map[string]chartspec.ColumnSettings{
		"cost": {ColumnVisualization: chartspec.VisualizationLine, LineWidth: 3},
	}

	ds, err := BuildDataset(NewSliceView(salesRows()), cfg, 0)
	require.NoError(t, err)
	series := BuildSeriesOptions(ds, cfg)
	require.Len(t, series, 2)

	assert.Equal(t, DrawBar, series[0].Draw)
	assert.Equal(t, AxisPrimary, series[0].Axis)
	assert.Equal(t, DrawLine, series[1].Draw)
	assert.Equal(t, AxisSecondary, series[1].Axis)
	assert.Equal(t, 3.0, series[1].LineWidth)
}

func TestBuildSeriesOptionsReferenceStyling(t *testing.T) {
	tl := chartspec.DefaultTrendline(chartspec.TrendlineAverage, "revenue")
	tl.TrendLineColor = "#ff0000"
	cfg := barConfig()
	cfg.Trendlines = []chartspec.Trendline{tl}

	ds, err := BuildDataset(NewSliceView(salesRows()), cfg, 0)
	require.NoError(t, err)
	series := BuildSeriesOptions(ds, cfg)

	var ref *RenderSeries
	for i := range series {
		if series[i].Kind == KindTrendline {
			ref = &series[i]
		}
	}
	require.NotNil(t, ref)
	assert.Equal(t, DrawLine, ref.Draw)
	assert.Equal(t, "#ff0000", ref.Color)
	assert.Equal(t, "dashed", ref.LineStyle)
	assert.Equal(t, 1.5, ref.LineWidth)
}

func TestBuildSeriesOptionsGoalLinesExcluded(t *testing.T) {
	cfg := barConfig()
	cfg.GoalLines = []chartspec.GoalLine{
		{Show: true, Value: 250, GoalLineLabel: "Target", ShowGoalLineLabel: true},
	}

	ds, err := BuildDataset(NewSliceView(salesRows()), cfg, 0)
	require.NoError(t, err)
	series := BuildSeriesOptions(ds, cfg)

	// The goal stays out of the drawable series and surfaces once, as an
	// annotation.
	for _, s := range series {
		assert.NotEqual(t, KindGoal, s.Kind)
	}
	opts := BuildChartOptions(ds, series, cfg)
	require.Len(t, opts.Annotations, 1)
	assert.Equal(t, "Target", opts.Annotations[0].Label)
}

// ============================================================================
// PIE SLICE TESTS
// ============================================================================

func pieConfig(minSlice float64) chartspec.ChartConfig {
	cfg := chartspec.DefaultChartConfig()
	cfg.SelectedChartType = chartspec.ChartTypePie
	cfg.PieAxis = chartspec.AxisMapping{X: []string{"segment"}, Y: []string{"value"}}
	cfg.PieMinimumSlicePercentage = minSlice
	cfg.ColumnLabelFormats = map[string]chartspec.ColumnLabelFormat{
		"segment": chartspec.DefaultColumnLabelFormat(chartspec.ColumnTypeText),
		"value":   chartspec.DefaultColumnLabelFormat(chartspec.ColumnTypeNumber),
	}
	return cfg
}

func TestBuildPieSlicesMinimumPercentageMerge(t *testing.T) {
	rows := []Row{
		{"segment": "A", "value": 30.0},
		{"segment": "B", "value": 30.0},
		{"segment": "C", "value": 10.0},
		{"segment": "D", "value": 10.0},
		{"segment": "E", "value": 10.0},
		{"segment": "F", "value": 5.0},
		{"segment": "G", "value": 5.0},
	}
	cfg := pieConfig(25)

	ds, err := BuildDataset(NewSliceView(rows), cfg, 0)
	require.NoError(t, err)
	slices := BuildPieSlices(ds, cfg)

	// Everything under 25% share merges into one "Other" slice.
	require.Len(t, slices, 3)
	assert.Equal(t, "A", slices[0].Name)
	assert.Equal(t, "B", slices[1].Name)
	assert.Equal(t, "Other", slices[2].Name)
	assert.Equal(t, 40.0, slices[2].Value)
	assert.ElementsMatch(t, []string{"C", "D", "E", "F", "G"}, slices[2].Members)
}

func TestBuildPieSlicesNoMergeWhenDisabled(t *testing.T) {
	rows := []Row{
		{"segment": "A", "value": 90.0},
		{"segment": "B", "value": 10.0},
	}
	cfg := pieConfig(0)

	ds, err := BuildDataset(NewSliceView(rows), cfg, 0)
	require.NoError(t, err)
	slices := BuildPieSlices(ds, cfg)

	require.Len(t, slices, 2)
	assert.NotEmpty(t, slices[0].Color)
	assert.NotEqual(t, slices[0].Color, slices[1].Color)
}
