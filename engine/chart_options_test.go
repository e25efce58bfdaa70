package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotforge/plotforge/chartspec"
)

// ============================================================================
// CHART OPTIONS TESTS
// ============================================================================

func TestResolveRotationExplicit(t *testing.T) {
	labels := []string{"a long label", "another long label"}
	assert.Equal(t, 0, resolveRotation("0", labels))
	assert.Equal(t, 45, resolveRotation("45", labels))
	assert.Equal(t, 90, resolveRotation("90", labels))
}

func TestResolveRotationAuto(t *testing.T) {
	short := []string{"Jan", "Feb", "Mar"}
	assert.Equal(t, 0, resolveRotation("auto", short))

	var crowded []string
	for i := 0; i < 60; i++ {
		crowded = append(crowded, "Quarter ending 2024-03-31")
	}
	assert.Equal(t, 90, resolveRotation("auto", crowded))
}

func TestBuildChartOptionsAxisTitles(t *testing.T) {
	cfg := barConfig()
	ds, err := BuildDataset(NewSliceView(salesRows()), cfg, 0)
	require.NoError(t, err)
	series := BuildSeriesOptions(ds, cfg)

	opts := BuildChartOptions(ds, series, cfg)
	assert.Equal(t, "Month", opts.XAxisTitle)
	assert.Equal(t, "Revenue", opts.YAxis.Title)
	assert.Nil(t, opts.Y2Axis)

	cfg.XAxisAxisTitle = "Fiscal Month"
	opts = BuildChartOptions(ds, series, cfg)
	assert.Equal(t, "Fiscal Month", opts.XAxisTitle)
}

func TestBuildChartOptionsSecondaryAxis(t *testing.T) {
	cfg := barConfig()
	cfg.SelectedChartType = chartspec.ChartTypeCombo
	cfg.ComboAxis = chartspec.AxisMapping{
		X:  []string{"month"},
		Y:  []string{"revenue"},
		Y2: []string{"cost"},
	}
	cfg.Y2AxisScaleType = "log"

	ds, err := BuildDataset(NewSliceView(salesRows()), cfg, 0)
	require.NoError(t, err)
	series := BuildSeriesOptions(ds, cfg)

	opts := BuildChartOptions(ds, series, cfg)
	require.NotNil(t, opts.Y2Axis)
	assert.True(t, opts.Y2Axis.Log)
	assert.Equal(t, "Cost", opts.Y2Axis.Title)
}

func TestBuildChartOptionsLegendHeadlines(t *testing.T) {
	cfg := barConfig()
	cfg.ShowLegend = true
	cfg.ShowLegendHeadline = "current"

	ds, err := BuildDataset(NewSliceView(salesRows()), cfg, 0)
	require.NoError(t, err)
	series := BuildSeriesOptions(ds, cfg)

	opts := BuildChartOptions(ds, series, cfg)
	require.Contains(t, opts.Legend.Headlines, "Revenue")
	// Latest slot value is 300.
	assert.Equal(t, "300", opts.Legend.Headlines["Revenue"])

	cfg.ShowLegendHeadline = "average"
	opts = BuildChartOptions(ds, series, cfg)
	// Mean of 150, 200, 300.
	assert.True(t, strings.HasPrefix(opts.Legend.Headlines["Revenue"], "216"))
}

func TestBuildChartOptionsAnnotations(t *testing.T) {
	cfg := barConfig()
	cfg.GoalLines = []chartspec.GoalLine{
		{Show: true, Value: 250, GoalLineLabel: "Target", ShowGoalLineLabel: true, GoalLineColor: "#00ff00"},
	}

	ds, err := BuildDataset(NewSliceView(salesRows()), cfg, 0)
	require.NoError(t, err)
	series := BuildSeriesOptions(ds, cfg)

	opts := BuildChartOptions(ds, series, cfg)
	require.Len(t, opts.Annotations, 1)
	assert.Equal(t, "Target", opts.Annotations[0].Label)
	assert.Equal(t, 250.0, opts.Annotations[0].Value)
	assert.Equal(t, "#00ff00", opts.Annotations[0].Color)
}

func TestBuildChartOptionsHorizontalLayout(t *testing.T) {
	cfg := barConfig()
	cfg.BarLayout = "horizontal"

	ds, err := BuildDataset(NewSliceView(salesRows()), cfg, 0)
	require.NoError(t, err)
	opts := BuildChartOptions(ds, BuildSeriesOptions(ds, cfg), cfg)
	assert.True(t, opts.Horizontal)

	cfg.SelectedChartType = chartspec.ChartTypeLine
	ds.ChartType = chartspec.ChartTypeLine
	opts = BuildChartOptions(ds, nil, cfg)
	assert.False(t, opts.Horizontal)
}
