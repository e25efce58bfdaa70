package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/plotforge/plotforge/chartspec"
	"github.com/plotforge/plotforge/format"
)

// ============================================================================
// DATASET TRANSFORMER — rows + config → per-series numeric arrays
// ============================================================================
// Pipeline: resolve axes → build x slots → extract series (category split,
// missing-value policy) → percentage-stack normalization → trendlines →
// goal lines → downsample → tooltip payloads.
//
// Malformed rows never abort the build: unreadable cells pass through the
// missing-value policy. Only structurally unusable input (no y columns)
// returns an error, and the orchestrator gates that case earlier.
// ============================================================================

// DefaultDownsampleThreshold is the per-series point budget above which
// stride downsampling kicks in.
const DefaultDownsampleThreshold = 5000

// SeriesKind distinguishes data series from derived reference series.
type SeriesKind string

const (
	KindData      SeriesKind = "data"
	KindTrendline SeriesKind = "trendline"
	KindGoal      SeriesKind = "goal"
)

// AxisSlot selects the y scale a series renders against.
type AxisSlot int

const (
	AxisPrimary AxisSlot = iota
	AxisSecondary
)

// TooltipField is one pre-formatted tooltip entry. The renderer never
// re-invokes formatting at hover time.
type TooltipField struct {
	Label string
	Value string
}

// DataSeries is one ordered numeric sequence aligned to the dataset's x
// slots. Missing marks slots where the source was null and the column's
// replacement policy is null (rendered as gaps).
type DataSeries struct {
	ColumnID string
	Name     string
	Category string
	Kind     SeriesKind
	Axis     AxisSlot

	Values  []float64
	Missing []bool
	Sizes   []float64 // scatter size role, nil otherwise

	Tooltips [][]TooltipField

	// Reference-series presentation (trendlines, goal lines)
	Color     string
	LineStyle string
	Label     string
	ShowLabel bool
}

// Dataset is the transformer's output: everything the option and series
// builders need, freshly allocated per render.
type Dataset struct {
	ChartType chartspec.ChartType

	XValues []any    // raw x value per slot
	Labels  []string // formatted x labels, same length as XValues
	Series  []DataSeries

	TooltipColumns                   []string
	HasMismatchedTooltipsAndMeasures bool
	IsDownsampled                    bool
}

// BuildDataset converts a row view plus chart config into a Dataset.
// threshold <= 0 selects DefaultDownsampleThreshold.
func BuildDataset(view RowView, cfg chartspec.ChartConfig, threshold int) (*Dataset, error) {
	t := cfg.SelectedChartType
	axes := ResolveAxes(t, cfg.AxisFor(t))
	if len(axes.X) == 0 || len(axes.Y) == 0 {
		return nil, fmt.Errorf("chart type %q requires x and y axis columns", t)
	}
	if threshold <= 0 {
		threshold = DefaultDownsampleThreshold
	}

	var ds *Dataset
	if t == chartspec.ChartTypeScatter {
		ds = buildScatterDataset(view, cfg, axes)
	} else {
		ds = buildSlottedDataset(view, cfg, axes)
	}

	buildTooltips(ds, view, cfg, axes)
	downsample(ds, threshold)
	return ds, nil
}

// ============================================================================
// SLOTTED EXTRACTION — line, bar, combo, pie
// ============================================================================

func buildSlottedDataset(view RowView, cfg chartspec.ChartConfig, axes ResolvedAxes) *Dataset {
	n := view.Len()

	// 1. Ordered unique x slots. Duplicate x values accumulate into one slot.
	slotIndex := make(map[string]int)
	var slotKeys []string
	var slotFirstRow []int
	var xValues []any

	for i := 0; i < n; i++ {
		key := xSlotKey(view, i, axes.X)
		if _, ok := slotIndex[key]; !ok {
			slotIndex[key] = len(slotKeys)
			slotKeys = append(slotKeys, key)
			slotFirstRow = append(slotFirstRow, i)
			xValues = append(xValues, view.Value(i, axes.X[0]))
		}
	}
	slots := len(slotKeys)

	// 2. Category split: ordered distinct category values.
	var categories []string
	if axes.Category != "" {
		seen := make(map[string]bool)
		for i := 0; i < n; i++ {
			c := StringValue(view, i, axes.Category)
			if !seen[c] {
				seen[c] = true
				categories = append(categories, c)
			}
		}
	}

	// 3. Allocate one series per (y column, category) pair.
	type target struct {
		column   string
		category string
		axis     AxisSlot
	}
	var targets []target
	appendTargets := func(cols []string, axis AxisSlot) {
		for _, col := range cols {
			if len(categories) > 0 {
				for _, c := range categories {
					targets = append(targets, target{column: col, category: c, axis: axis})
				}
			} else {
				targets = append(targets, target{column: col, axis: axis})
			}
		}
	}
	appendTargets(axes.Y, AxisPrimary)
	appendTargets(axes.Y2, AxisSecondary)

	series := make([]DataSeries, len(targets))
	for si, tg := range targets {
		missing := make([]bool, slots)
		for i := range missing {
			missing[i] = true
		}
		series[si] = DataSeries{
			ColumnID: tg.column,
			Name:     seriesName(cfg, tg.column, tg.category, len(axes.Y)+len(axes.Y2)),
			Category: tg.category,
			Kind:     KindData,
			Axis:     tg.axis,
			Values:   make([]float64, slots),
			Missing:  missing,
		}
	}

	// 4. Single pass: accumulate each row into its slot.
	for i := 0; i < n; i++ {
		slot := slotIndex[xSlotKey(view, i, axes.X)]
		var rowCat string
		if axes.Category != "" {
			rowCat = StringValue(view, i, axes.Category)
		}
		for si := range series {
			s := &series[si]
			if s.Category != rowCat {
				continue
			}
			v, ok := NumericValue(view, i, s.ColumnID)
			if !ok {
				continue
			}
			if s.Missing[slot] {
				s.Values[slot] = v
				s.Missing[slot] = false
			} else {
				s.Values[slot] += v
			}
		}
	}

	// 5. Missing-value replacement per column policy.
	for si := range series {
		applyMissingPolicy(&series[si], cfg.FormatFor(series[si].ColumnID))
	}

	// 6. Percentage-stack normalization: every slot's stack sums to 100.
	if cfg.GroupModeFor(cfg.SelectedChartType) == chartspec.GroupModePercentageStack {
		normalizePercentageStack(series, slots)
	}

	ds := &Dataset{
		ChartType: cfg.SelectedChartType,
		XValues:   xValues,
		Labels:    formatXLabels(xValues, slotKeys, view, slotFirstRow, cfg, axes),
		Series:    series,
	}

	attachTrendlines(ds, cfg, axes)
	attachGoalLines(ds, cfg)
	return ds
}

// ============================================================================
// SCATTER EXTRACTION — one point per row, no slot dedup
// ============================================================================

func buildScatterDataset(view RowView, cfg chartspec.ChartConfig, axes ResolvedAxes) *Dataset {
	n := view.Len()

	xValues := make([]any, n)
	slotFirstRow := make([]int, n)
	for i := 0; i < n; i++ {
		xValues[i] = view.Value(i, axes.X[0])
		slotFirstRow[i] = i
	}

	var series []DataSeries
	for _, col := range axes.Y {
		s := DataSeries{
			ColumnID: col,
			Name:     seriesName(cfg, col, "", len(axes.Y)),
			Kind:     KindData,
			Axis:     AxisPrimary,
			Values:   make([]float64, n),
			Missing:  make([]bool, n),
		}
		if axes.Size != "" {
			s.Sizes = make([]float64, n)
		}
		for i := 0; i < n; i++ {
			v, ok := NumericValue(view, i, col)
			if ok {
				s.Values[i] = v
			} else {
				s.Missing[i] = true
			}
			if s.Sizes != nil {
				if sz, ok := NumericValue(view, i, axes.Size); ok {
					s.Sizes[i] = sz
				}
			}
		}
		applyMissingPolicy(&s, cfg.FormatFor(col))
		series = append(series, s)
	}

	ds := &Dataset{
		ChartType: cfg.SelectedChartType,
		XValues:   xValues,
		Labels:    formatXLabels(xValues, nil, view, slotFirstRow, cfg, axes),
		Series:    series,
	}

	attachTrendlines(ds, cfg, axes)
	attachGoalLines(ds, cfg)
	return ds
}

// ============================================================================
// MISSING-VALUE AND STACKING POLICIES
// ============================================================================

// applyMissingPolicy fills missing slots with the column's numeric
// replacement value. A null (or non-numeric) replacement keeps the slot
// flagged missing so the renderer draws a gap.
func applyMissingPolicy(s *DataSeries, f chartspec.ColumnLabelFormat) {
	repl, ok := numericReplacement(f)
	if !ok {
		return
	}
	for i, miss := range s.Missing {
		if miss {
			s.Values[i] = repl
			s.Missing[i] = false
		}
	}
}

func numericReplacement(f chartspec.ColumnLabelFormat) (float64, bool) {
	if f.ReplaceMissingDataWith == nil {
		return 0, false
	}
	return coerceFloat(f.ReplaceMissingDataWith)
}

// normalizePercentageStack rescales each slot so the data series sum to 100.
func normalizePercentageStack(series []DataSeries, slots int) {
	for slot := 0; slot < slots; slot++ {
		var total float64
		for si := range series {
			if series[si].Kind == KindData && !series[si].Missing[slot] {
				total += series[si].Values[slot]
			}
		}
		if total == 0 {
			continue
		}
		for si := range series {
			if series[si].Kind == KindData && !series[si].Missing[slot] {
				series[si].Values[slot] = series[si].Values[slot] / total * 100
			}
		}
	}
}

// ============================================================================
// GOAL LINES
// ============================================================================

// attachGoalLines emits one constant-value series per visible goal line,
// tagged for annotation rendering (excluded from stacking and legend).
func attachGoalLines(ds *Dataset, cfg chartspec.ChartConfig) {
	if ds.ChartType == chartspec.ChartTypePie {
		return
	}
	slots := len(ds.Labels)
	for _, gl := range cfg.GoalLines {
		if !gl.Show {
			continue
		}
		label := gl.GoalLineLabel
		if label == "" {
			label = "Goal"
		}
		values := make([]float64, slots)
		for i := range values {
			values[i] = gl.Value
		}
		ds.Series = append(ds.Series, DataSeries{
			Name:      label,
			Kind:      KindGoal,
			Axis:      AxisPrimary,
			Values:    values,
			Missing:   make([]bool, slots),
			Color:     gl.GoalLineColor,
			Label:     label,
			ShowLabel: gl.ShowGoalLineLabel,
		})
	}
}

// ============================================================================
// TOOLTIPS
// ============================================================================

// buildTooltips resolves the tracked tooltip columns and pre-formats one
// payload per point. Duplicate-x slots take their payload from the first
// contributing row.
func buildTooltips(ds *Dataset, view RowView, cfg chartspec.ChartConfig, axes ResolvedAxes) {
	declared := make(map[string]bool)
	for si := range ds.Series {
		if ds.Series[si].Kind == KindData {
			declared[ds.Series[si].ColumnID] = true
		}
	}

	var tracked []string
	if axes.Tooltip != nil {
		available := make(map[string]bool)
		for _, c := range view.Columns() {
			available[c] = true
		}
		for _, col := range axes.Tooltip {
			if !declared[col] {
				ds.HasMismatchedTooltipsAndMeasures = true
			}
			if available[col] {
				tracked = append(tracked, col)
			}
		}
	} else {
		for _, col := range axes.Y {
			tracked = append(tracked, col)
		}
		for _, col := range axes.Y2 {
			tracked = append(tracked, col)
		}
	}
	ds.TooltipColumns = tracked
	if len(tracked) == 0 {
		return
	}

	// Map each slot back to its first contributing row.
	firstRow := slotFirstRows(ds, view, axes)

	for si := range ds.Series {
		s := &ds.Series[si]
		if s.Kind != KindData {
			continue
		}
		s.Tooltips = make([][]TooltipField, len(s.Values))
		for slot := range s.Values {
			if slot >= len(firstRow) {
				// projected slot, no source row
				continue
			}
			row := firstRow[slot]
			fields := make([]TooltipField, 0, len(tracked))
			for _, col := range tracked {
				f := cfg.FormatFor(col)
				fields = append(fields, TooltipField{
					Label: f.Label(col),
					Value: format.Format(view.Value(row, col), f),
				})
			}
			s.Tooltips[slot] = fields
		}
	}
}

func slotFirstRows(ds *Dataset, view RowView, axes ResolvedAxes) []int {
	if ds.ChartType == chartspec.ChartTypeScatter {
		rows := make([]int, len(ds.XValues))
		for i := range rows {
			rows[i] = i
		}
		return rows
	}
	seen := make(map[string]int)
	var rows []int
	for i := 0; i < view.Len(); i++ {
		key := xSlotKey(view, i, axes.X)
		if _, ok := seen[key]; !ok {
			seen[key] = len(rows)
			rows = append(rows, i)
		}
	}
	// Downsampling has not run yet; slot count matches.
	return rows
}

// ============================================================================
// DOWNSAMPLING — deterministic stride reduction
// ============================================================================

// downsample reduces slot count above the threshold with a fixed stride,
// always keeping the first and last slot. Applied uniformly to labels and
// every series so alignment is preserved.
func downsample(ds *Dataset, threshold int) {
	n := len(ds.Labels)
	if n <= threshold {
		return
	}

	keep := strideIndices(n, threshold)

	ds.XValues = pickAny(ds.XValues, keep)
	ds.Labels = pickStrings(ds.Labels, keep)
	for si := range ds.Series {
		s := &ds.Series[si]
		s.Values = pickFloats(s.Values, keep)
		s.Missing = pickBools(s.Missing, keep)
		if s.Sizes != nil {
			s.Sizes = pickFloats(s.Sizes, keep)
		}
		if s.Tooltips != nil {
			s.Tooltips = pickTooltips(s.Tooltips, keep)
		}
	}
	ds.IsDownsampled = true
}

// strideIndices picks ~budget evenly strided indices from [0, n), always
// including 0 and n-1.
func strideIndices(n, budget int) []int {
	stride := (n + budget - 1) / budget
	if stride < 2 {
		stride = 2
	}
	var keep []int
	for i := 0; i < n; i += stride {
		keep = append(keep, i)
	}
	if keep[len(keep)-1] != n-1 {
		keep = append(keep, n-1)
	}
	return keep
}

func pickAny(in []any, keep []int) []any {
	out := make([]any, len(keep))
	for i, k := range keep {
		out[i] = in[k]
	}
	return out
}

func pickStrings(in []string, keep []int) []string {
	out := make([]string, len(keep))
	for i, k := range keep {
		out[i] = in[k]
	}
	return out
}

func pickFloats(in []float64, keep []int) []float64 {
	out := make([]float64, len(keep))
	for i, k := range keep {
		out[i] = in[k]
	}
	return out
}

func pickBools(in []bool, keep []int) []bool {
	out := make([]bool, len(keep))
	for i, k := range keep {
		out[i] = in[k]
	}
	return out
}

func pickTooltips(in [][]TooltipField, keep []int) [][]TooltipField {
	out := make([][]TooltipField, len(keep))
	for i, k := range keep {
		out[i] = in[k]
	}
	return out
}

// ============================================================================
// X LABELS AND SLOT KEYS
// ============================================================================

func xSlotKey(view RowView, i int, xCols []string) string {
	if len(xCols) == 1 {
		return StringValue(view, i, xCols[0])
	}
	parts := make([]string, len(xCols))
	for j, col := range xCols {
		parts[j] = StringValue(view, i, col)
	}
	return strings.Join(parts, "\x1f")
}

// formatXLabels renders one label per slot. Date x columns with an "auto"
// pattern resolve a shared pattern from the column's value spread first so
// every label uses the same granularity.
func formatXLabels(xValues []any, slotKeys []string, view RowView, firstRow []int, cfg chartspec.ChartConfig, axes ResolvedAxes) []string {
	formats := make([]chartspec.ColumnLabelFormat, len(axes.X))
	for j, col := range axes.X {
		f := cfg.FormatFor(col)
		if f.ColumnType == chartspec.ColumnTypeDate && (f.DateFormat == "" || f.DateFormat == "auto") {
			var times []time.Time
			for _, row := range firstRow {
				if t, ok := format.ParseTime(view.Value(row, col)); ok {
					times = append(times, t)
				}
			}
			f.DateFormat = format.AutoDatePattern(times)
		}
		formats[j] = f
	}

	labels := make([]string, len(firstRow))
	for i, row := range firstRow {
		parts := make([]string, 0, len(axes.X))
		for j, col := range axes.X {
			parts = append(parts, format.Format(view.Value(row, col), formats[j]))
		}
		labels[i] = strings.Join(parts, " ")
	}
	return labels
}

func seriesName(cfg chartspec.ChartConfig, column, category string, yCount int) string {
	label := cfg.FormatFor(column).Label(column)
	if category == "" {
		return label
	}
	if yCount > 1 {
		return category + " — " + label
	}
	return category
}

func stringifyAny(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}
