package engine

import (
	"log/slog"

	"github.com/gohugoio/hashstructure"

	"github.com/plotforge/plotforge/chartspec"
)

// ============================================================================
// ORCHESTRATOR — render state machine and pipeline dispatch
// ============================================================================
// Entry point: Orchestrator.Render(input)
//
// State per pass: loading → (error | no-data | no-valid-axis | ready).
// Each pass is terminal; a config or data change means a fresh Render call.
//
// Pipeline for the ready state:
//   1. Branch table / metric (no axis requirement)
//   2. Validate axes → placeholder on failure
//   3. BuildDataset → BuildSeriesOptions / BuildPieSlices → BuildChartOptions
//
// The inner builders stay pure; memoization lives only at this boundary,
// keyed on a structural hash of the input.
// ============================================================================

// RenderState is the terminal state of one render pass.
type RenderState string

const (
	StateLoading     RenderState = "loading"
	StateError       RenderState = "error"
	StateNoData      RenderState = "no-data"
	StateNoValidAxis RenderState = "no-valid-axis"
	StateReady       RenderState = "ready"
)

// Input is everything one render pass consumes. The orchestrator never
// mutates it.
type Input struct {
	Rows     []Row
	Metadata []chartspec.ColumnMetadata
	Config   chartspec.ChartConfig

	Loading bool
	Err     error
	Animate bool

	// ContainerWidth is the host's layout width in pixels, 0 when unknown.
	ContainerWidth int
}

// RenderSpec is the fully derived description handed to a renderer adapter.
// Exactly one of Table, Metric, or the chart fields is populated, selected
// by ChartType; the placeholder states populate none.
type RenderSpec struct {
	State   RenderState
	Message string

	ChartType chartspec.ChartType
	Animate   bool

	Dataset *Dataset
	Series  []RenderSeries
	Slices  []PieSlice
	Options *RenderOptions

	Table  *TableData
	Metric *MetricData
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the structured logger for pipeline stage logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithDownsampleThreshold overrides the per-series point budget.
func WithDownsampleThreshold(n int) Option {
	return func(o *Orchestrator) { o.threshold = n }
}

// WithMinRenderWidth holds the pass in the loading state until the host
// reports a container at least this wide. Zero disables the gate.
func WithMinRenderWidth(px int) Option {
	return func(o *Orchestrator) { o.minWidth = px }
}

// WithOnChartMounted registers the mount callback. Fires once per
// orchestrator instance, on the first ready render pass.
func WithOnChartMounted(fn func(*RenderSpec)) Option {
	return func(o *Orchestrator) { o.onMounted = fn }
}

// WithOnInitialAnimationEnd registers the entrance-animation callback.
// Fires once per instance, after the first animated ready pass.
func WithOnInitialAnimationEnd(fn func()) Option {
	return func(o *Orchestrator) { o.onAnimEnd = fn }
}

// Orchestrator drives render passes for one chart instance. Not safe for
// concurrent use; host callers serialize Render like any single widget.
type Orchestrator struct {
	logger    *slog.Logger
	threshold int
	minWidth  int
	onMounted func(*RenderSpec)
	onAnimEnd func()

	mountedFired bool
	animEndFired bool

	memoKey  uint64
	memoSpec *RenderSpec
}

// New creates an Orchestrator with the given options.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:    slog.Default(),
		threshold: DefaultDownsampleThreshold,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Render runs one full pass over the input and returns the derived spec.
// It never returns an error: structural problems become placeholder states
// and malformed cells degrade inside the pipeline.
func (o *Orchestrator) Render(input Input) *RenderSpec {
	t := input.Config.SelectedChartType

	// Cheap bail-outs first; no transform work for these states.
	if input.Loading {
		return &RenderSpec{State: StateLoading, ChartType: t}
	}
	if o.minWidth > 0 && input.ContainerWidth > 0 && input.ContainerWidth < o.minWidth {
		return &RenderSpec{State: StateLoading, ChartType: t}
	}
	if input.Err != nil {
		return &RenderSpec{State: StateError, ChartType: t, Message: input.Err.Error()}
	}
	if len(input.Rows) == 0 {
		return &RenderSpec{State: StateNoData, ChartType: t}
	}

	if spec, ok := o.memoized(input); ok {
		o.logger.Debug("render pass served from memo", "chartType", t)
		o.fireCallbacks(spec)
		return spec
	}

	spec := o.build(input)
	o.memoize(input, spec)
	o.fireCallbacks(spec)
	return spec
}

func (o *Orchestrator) build(input Input) *RenderSpec {
	cfg := input.Config
	t := cfg.SelectedChartType
	view := o.newView(input)

	o.logger.Debug("render pass",
		"chartType", t, "rows", view.Len(), "columns", len(view.Columns()))

	spec := &RenderSpec{State: StateReady, ChartType: t, Animate: input.Animate}

	switch t {
	case chartspec.ChartTypeTable:
		spec.Table = BuildTable(view, cfg, input.Metadata)
		return spec
	case chartspec.ChartTypeMetric:
		spec.Metric = BuildMetric(view, cfg)
		return spec
	}

	if !IsAxisValid(t, cfg.AxisFor(t)) {
		o.logger.Debug("axis mapping unusable", "chartType", t)
		return &RenderSpec{State: StateNoValidAxis, ChartType: t}
	}

	ds, err := BuildDataset(view, cfg, o.threshold)
	if err != nil {
		// Unreachable after the axis gate; kept as a placeholder, not a panic.
		return &RenderSpec{State: StateNoValidAxis, ChartType: t, Message: err.Error()}
	}

	spec.Dataset = ds
	if t == chartspec.ChartTypePie {
		spec.Slices = BuildPieSlices(ds, cfg)
	} else {
		spec.Series = BuildSeriesOptions(ds, cfg)
	}
	spec.Options = BuildChartOptions(ds, spec.Series, cfg)
	return spec
}

// newView wraps the rows, dropping rows with no readable cells so a stray
// all-null row cannot widen the x domain. Column order follows the metadata
// when present.
func (o *Orchestrator) newView(input Input) RowView {
	var view RowView
	if len(input.Metadata) > 0 {
		cols := make([]string, 0, len(input.Metadata))
		for _, m := range input.Metadata {
			cols = append(cols, m.Name)
		}
		view = NewOrderedSliceView(input.Rows, cols)
	} else {
		view = NewSliceView(input.Rows)
	}

	var keep []int
	for i, row := range input.Rows {
		usable := false
		for _, v := range row {
			if v != nil {
				usable = true
				break
			}
		}
		if usable {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(input.Rows) {
		return view
	}
	o.logger.Debug("dropped empty rows", "count", len(input.Rows)-len(keep))
	return newSubView(view, keep)
}

// ============================================================================
// MEMOIZATION AND CALLBACKS
// ============================================================================

func (o *Orchestrator) memoized(input Input) (*RenderSpec, bool) {
	key, err := hashstructure.Hash(input, nil)
	if err != nil || o.memoSpec == nil || key != o.memoKey {
		return nil, false
	}
	return o.memoSpec, true
}

func (o *Orchestrator) memoize(input Input, spec *RenderSpec) {
	key, err := hashstructure.Hash(input, nil)
	if err != nil {
		o.logger.Debug("input not hashable, memo skipped", "err", err)
		return
	}
	o.memoKey = key
	o.memoSpec = spec
}

// fireCallbacks delivers the mount and animation-end callbacks at most once
// per instance, on the first ready pass.
func (o *Orchestrator) fireCallbacks(spec *RenderSpec) {
	if spec.State != StateReady {
		return
	}
	if o.onMounted != nil && !o.mountedFired {
		o.mountedFired = true
		o.onMounted(spec)
	}
	if o.onAnimEnd != nil && !o.animEndFired && spec.Animate {
		o.animEndFired = true
		o.onAnimEnd()
	}
}
