package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotforge/plotforge/chartspec"
)

// ============================================================================
// ORCHESTRATOR STATE TESTS
// ============================================================================

func readyInput() Input {
	return Input{Rows: salesRows(), Config: barConfig()}
}

func TestRenderLoadingState(t *testing.T) {
	in := readyInput()
	in.Loading = true

	spec := New().Render(in)
	assert.Equal(t, StateLoading, spec.State)
	assert.Nil(t, spec.Dataset)
}

func TestRenderMinWidthGate(t *testing.T) {
	o := New(WithMinRenderWidth(300))

	in := readyInput()
	in.ContainerWidth = 100
	assert.Equal(t, StateLoading, o.Render(in).State)

	in.ContainerWidth = 400
	assert.Equal(t, StateReady, o.Render(in).State)

	// Unknown width does not block.
	in.ContainerWidth = 0
	assert.Equal(t, StateReady, o.Render(in).State)
}

func TestRenderErrorState(t *testing.T) {
	in := readyInput()
	in.Err = errors.New("query timed out")

	spec := New().Render(in)
	assert.Equal(t, StateError, spec.State)
	assert.Equal(t, "query timed out", spec.Message)
}

func TestRenderNoDataState(t *testing.T) {
	in := Input{Config: barConfig()}
	spec := New().Render(in)
	assert.Equal(t, StateNoData, spec.State)
}

func TestRenderNoValidAxisState(t *testing.T) {
	cfg := chartspec.DefaultChartConfig()
	cfg.SelectedChartType = chartspec.ChartTypeBar

	spec := New().Render(Input{Rows: salesRows(), Config: cfg})
	assert.Equal(t, StateNoValidAxis, spec.State)
}

func TestRenderReadyState(t *testing.T) {
	spec := New().Render(readyInput())

	require.Equal(t, StateReady, spec.State)
	assert.Equal(t, chartspec.ChartTypeBar, spec.ChartType)
	require.NotNil(t, spec.Dataset)
	assert.NotEmpty(t, spec.Series)
	assert.NotNil(t, spec.Options)
	assert.Nil(t, spec.Table)
	assert.Nil(t, spec.Metric)
}

func TestRenderTableSkipsAxisCheck(t *testing.T) {
	cfg := chartspec.DefaultChartConfig()
	cfg.SelectedChartType = chartspec.ChartTypeTable

	spec := New().Render(Input{Rows: salesRows(), Config: cfg})
	require.Equal(t, StateReady, spec.State)
	require.NotNil(t, spec.Table)
	assert.NotEmpty(t, spec.Table.Rows)
}

func TestRenderMetricSkipsAxisCheck(t *testing.T) {
	cfg := chartspec.DefaultChartConfig()
	cfg.SelectedChartType = chartspec.ChartTypeMetric
	cfg.MetricColumnID = "revenue"
	cfg.MetricAggregate = "sum"

	spec := New().Render(Input{Rows: salesRows(), Config: cfg})
	require.Equal(t, StateReady, spec.State)
	require.NotNil(t, spec.Metric)
	assert.InDelta(t, 650, spec.Metric.RawValue, 1e-9)
}

func TestRenderDropsEmptyRows(t *testing.T) {
	rows := append(salesRows(), Row{"month": nil, "revenue": nil, "cost": nil, "region": nil})
	spec := New().Render(Input{Rows: rows, Config: barConfig()})

	require.Equal(t, StateReady, spec.State)
	assert.Equal(t, []string{"Jan", "Feb", "Mar"}, spec.Dataset.Labels)
}

// ============================================================================
// MEMOIZATION AND CALLBACKS
// ============================================================================

func TestRenderMemoizesIdenticalInput(t *testing.T) {
	o := New()

	first := o.Render(readyInput())
	second := o.Render(readyInput())
	assert.Same(t, first, second)

	changed := readyInput()
	changed.Config.ShowLegend = true
	third := o.Render(changed)
	assert.NotSame(t, first, third)
}

func TestCallbacksFireOncePerInstance(t *testing.T) {
	mounted := 0
	animEnded := 0
	o := New(
		WithOnChartMounted(func(*RenderSpec) { mounted++ }),
		WithOnInitialAnimationEnd(func() { animEnded++ }),
	)

	in := readyInput()
	in.Animate = true
	o.Render(in)
	o.Render(in)

	assert.Equal(t, 1, mounted)
	assert.Equal(t, 1, animEnded)
}

func TestAnimationCallbackRequiresAnimatedPass(t *testing.T) {
	animEnded := 0
	o := New(WithOnInitialAnimationEnd(func() { animEnded++ }))

	o.Render(readyInput())
	assert.Zero(t, animEnded)
}

func TestCallbacksSkippedOnPlaceholderStates(t *testing.T) {
	mounted := 0
	o := New(WithOnChartMounted(func(*RenderSpec) { mounted++ }))

	in := readyInput()
	in.Loading = true
	o.Render(in)
	assert.Zero(t, mounted)
}
