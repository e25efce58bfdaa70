package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotforge/plotforge/chartspec"
)

// ============================================================================
// DATASET TRANSFORMER TESTS
// ============================================================================

func salesRows() []Row {
	return []Row{
		{"month": "Jan", "revenue": 100.0, "cost": 60.0, "region": "East"},
		{"month": "Jan", "revenue": 50.0, "cost": 20.0, "region": "West"},
		{"month": "Feb", "revenue": 200.0, "cost": 80.0, "region": "East"},
		{"month": "Mar", "revenue": 300.0, "cost": 90.0, "region": "West"},
	}
}

func barConfig() chartspec.ChartConfig {
	cfg := chartspec.DefaultChartConfig()
	cfg.SelectedChartType = chartspec.ChartTypeBar
	cfg.BarAndLineAxis = chartspec.AxisMapping{X: []string{"month"}, Y: []string{"revenue"}}
	cfg.ColumnLabelFormats = map[string]chartspec.ColumnLabelFormat{
		"month":   chartspec.DefaultColumnLabelFormat(chartspec.ColumnTypeText),
		"revenue": chartspec.DefaultColumnLabelFormat(chartspec.ColumnTypeNumber),
		"cost":    chartspec.DefaultColumnLabelFormat(chartspec.ColumnTypeNumber),
	}
	return cfg
}

func TestBuildDatasetSlotsAndDuplicateX(t *testing.T) {
	view := NewSliceView(salesRows())
	ds, err := BuildDataset(view, barConfig(), 0)
	require.NoError(t, err)

	// Duplicate x values collapse into one slot, summing their measures.
	assert.Equal(t, []string{"Jan", "Feb", "Mar"}, ds.Labels)
	require.Len(t, ds.Series, 1)
	assert.Equal(t, "Revenue", ds.Series[0].Name)
	assert.Equal(t, []float64{150, 200, 300}, ds.Series[0].Values)
}

func TestBuildDatasetCategorySplit(t *testing.T) {
	cfg := barConfig()
	cfg.BarAndLineAxis.Category = []string{"region"}

	view := NewSliceView(salesRows())
	ds, err := BuildDataset(view, cfg, 0)
	require.NoError(t, err)

	require.Len(t, ds.Series, 2)
	assert.Equal(t, "East", ds.Series[0].Name)
	assert.Equal(t, "West", ds.Series[1].Name)

	// East has no Mar row; default replacement fills the gap with zero.
	assert.Equal(t, []float64{100, 200, 0}, ds.Series[0].Values)
	assert.Equal(t, []float64{50, 0, 300}, ds.Series[1].Values)
}

func TestBuildDatasetMissingPolicyNullKeepsGap(t *testing.T) {
	cfg := barConfig()
	f := cfg.ColumnLabelFormats["revenue"]
	f.ReplaceMissingDataWith = nil
	cfg.ColumnLabelFormats["revenue"] = f

	rows := []Row{
		{"month": "Jan", "revenue": 10.0},
		{"month": "Feb", "revenue": nil},
		{"month": "Mar", "revenue": 30.0},
	}
	ds, err := BuildDataset(NewSliceView(rows), cfg, 0)
	require.NoError(t, err)

	s := ds.Series[0]
	assert.Equal(t, []bool{false, true, false}, s.Missing)
}

func TestBuildDatasetMalformedCellsDegrade(t *testing.T) {
	rows := []Row{
		{"month": "Jan", "revenue": "oops"},
		{"month": "Feb", "revenue": 20.0},
	}
	ds, err := BuildDataset(NewSliceView(rows), barConfig(), 0)
	require.NoError(t, err)

	// Unreadable cell falls through the missing policy (default zero).
	assert.Equal(t, []float64{0, 20}, ds.Series[0].Values)
}

func TestBuildDatasetPercentageStackSumsTo100(t *testing.T) {
	cfg := barConfig()
	cfg.BarAndLineAxis.Y = []string{"revenue", "cost"}
	cfg.BarGroupType = chartspec.GroupModePercentageStack

	ds, err := BuildDataset(NewSliceView(salesRows()), cfg, 0)
	require.NoError(t, err)
	require.Len(t, ds.Series, 2)

	for slot := range ds.Labels {
		total := 0.0
		for si := range ds.Series {
			if !ds.Series[si].Missing[slot] {
				total += ds.Series[si].Values[slot]
			}
		}
		assert.InDelta(t, 100, total, 1e-9, "slot %d", slot)
	}
}

func TestBuildDatasetRequiresAxes(t *testing.T) {
	cfg := chartspec.DefaultChartConfig()
	cfg.SelectedChartType = chartspec.ChartTypeBar

	_, err := BuildDataset(NewSliceView(salesRows()), cfg, 0)
	assert.Error(t, err)
}

// ============================================================================
// TOOLTIPS
// ============================================================================

func TestTooltipDefaultsToMeasureColumns(t *testing.T) {
	ds, err := BuildDataset(NewSliceView(salesRows()), barConfig(), 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"revenue"}, ds.TooltipColumns)
	assert.False(t, ds.HasMismatchedTooltipsAndMeasures)

	require.NotEmpty(t, ds.Series[0].Tooltips)
	first := ds.Series[0].Tooltips[0]
	require.Len(t, first, 1)
	assert.Equal(t, "Revenue", first[0].Label)
	assert.Equal(t, "100", first[0].Value)
}

func TestTooltipMismatchFlag(t *testing.T) {
	cfg := barConfig()
	cfg.BarAndLineAxis.Tooltip = []string{"cost"}

	ds, err := BuildDataset(NewSliceView(salesRows()), cfg, 0)
	require.NoError(t, err)

	// "cost" is not a declared measure, but it is resolvable from the rows.
	assert.True(t, ds.HasMismatchedTooltipsAndMeasures)
	assert.Equal(t, []string{"cost"}, ds.TooltipColumns)
}

func TestTooltipUnresolvableColumnDropped(t *testing.T) {
	cfg := barConfig()
	cfg.BarAndLineAxis.Tooltip = []string{"revenue", "ghost"}

	ds, err := BuildDataset(NewSliceView(salesRows()), cfg, 0)
	require.NoError(t, err)

	assert.True(t, ds.HasMismatchedTooltipsAndMeasures)
	assert.Equal(t, []string{"revenue"}, ds.TooltipColumns)
}

func TestScatterTooltipUsesFirstRowFormatting(t *testing.T) {
	cfg := chartspec.DefaultChartConfig()
	cfg.SelectedChartType = chartspec.ChartTypeScatter
	cfg.ScatterAxis = chartspec.AxisMapping{
		X:       []string{"spend"},
		Y:       []string{"revenue"},
		Tooltip: []string{"revenue", "category"},
	}
	revenueFormat := chartspec.DefaultColumnLabelFormat(chartspec.ColumnTypeNumber)
	revenueFormat.Style = chartspec.StyleCurrency
	revenueFormat.Currency = "USD"
	cfg.ColumnLabelFormats = map[string]chartspec.ColumnLabelFormat{
		"spend":    chartspec.DefaultColumnLabelFormat(chartspec.ColumnTypeNumber),
		"revenue":  revenueFormat,
		"category": chartspec.DefaultColumnLabelFormat(chartspec.ColumnTypeText),
	}

	rows := []Row{
		{"spend": 10.0, "revenue": 25000.0, "category": "Electronics"},
		{"spend": 20.0, "revenue": 13000.0, "category": "Books"},
	}
	ds, err := BuildDataset(NewSliceView(rows), cfg, 0)
	require.NoError(t, err)

	require.Len(t, ds.Series, 1)
	fields := ds.Series[0].Tooltips[0]
	require.Len(t, fields, 2)
	assert.Equal(t, "$25,000.00", fields[0].Value)
	assert.Equal(t, "Electronics", fields[1].Value)
}

// ============================================================================
// DOWNSAMPLING
// ============================================================================

func TestDownsampleKeepsEndpoints(t *testing.T) {
	var rows []Row
	for i := 0; i < 12; i++ {
		rows = append(rows, Row{"month": float64(i), "revenue": float64(i * 10)})
	}
	ds, err := BuildDataset(NewSliceView(rows), barConfig(), 5)
	require.NoError(t, err)

	assert.True(t, ds.IsDownsampled)
	assert.LessOrEqual(t, len(ds.Labels), 6)
	assert.Equal(t, "0", ds.Labels[0])
	assert.Equal(t, "11", ds.Labels[len(ds.Labels)-1])
	assert.Len(t, ds.Series[0].Values, len(ds.Labels))
}

func TestDownsampleSkippedUnderThreshold(t *testing.T) {
	ds, err := BuildDataset(NewSliceView(salesRows()), barConfig(), 0)
	require.NoError(t, err)
	assert.False(t, ds.IsDownsampled)
}

// ============================================================================
// GOAL LINES
// ============================================================================

func TestGoalLineSeries(t *testing.T) {
	cfg := barConfig()
	cfg.GoalLines = []chartspec.GoalLine{
		{Show: true, Value: 250, GoalLineLabel: "Target", ShowGoalLineLabel: true},
		{Show: false, Value: 999},
	}

	ds, err := BuildDataset(NewSliceView(salesRows()), cfg, 0)
	require.NoError(t, err)

	var goals []DataSeries
	for _, s := range ds.Series {
		if s.Kind == KindGoal {
			goals = append(goals, s)
		}
	}
	require.Len(t, goals, 1)
	assert.Equal(t, "Target", goals[0].Label)
	assert.Equal(t, 250.0, goals[0].Values[0])
}
