package engine

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/plotforge/plotforge/chartspec"
	"github.com/plotforge/plotforge/format"
)

// ============================================================================
// TRENDLINES — moving aggregates and least-squares fits
// ============================================================================
// Each visible trendline yields one derived series aligned to the dataset's
// x slots. A trendline that cannot be fitted (exponential with y <= 0,
// logarithmic with x <= 0, degenerate inputs) is omitted, never an error —
// one failing trendline must not suppress the base series.
// ============================================================================

// attachTrendlines appends derived series for every visible trendline whose
// target column is present in the dataset. Projection extends the x domain
// by the trendline's offset before evaluation.
func attachTrendlines(ds *Dataset, cfg chartspec.ChartConfig, axes ResolvedAxes) {
	if ds.ChartType == chartspec.ChartTypePie {
		return
	}

	// Extend the x domain once for the largest requested projection.
	maxOffset := 0
	for _, tl := range cfg.Trendlines {
		if tl.Show && tl.Projection && tl.Offset > maxOffset {
			maxOffset = tl.Offset
		}
	}
	if maxOffset > 0 {
		extendDomain(ds, cfg, axes, maxOffset)
	}

	ordinals := xOrdinals(ds.XValues, len(ds.Labels))

	for _, tl := range cfg.Trendlines {
		if !tl.Show {
			continue
		}
		targets := seriesForColumn(ds, tl.ColumnID)
		if len(targets) == 0 {
			continue
		}
		for _, s := range trendlineSeries(ds, tl, targets, ordinals) {
			ds.Series = append(ds.Series, s)
		}
	}
}

// seriesForColumn returns indices of data series backed by the column.
func seriesForColumn(ds *Dataset, columnID string) []int {
	var out []int
	for i := range ds.Series {
		if ds.Series[i].Kind == KindData && ds.Series[i].ColumnID == columnID {
			out = append(out, i)
		}
	}
	return out
}

func trendlineSeries(ds *Dataset, tl chartspec.Trendline, targets []int, ordinals []float64) []DataSeries {
	switch tl.Type {
	case chartspec.TrendlineMax, chartspec.TrendlineMin,
		chartspec.TrendlineAverage, chartspec.TrendlineMedian:
		return aggregateTrendlines(ds, tl, targets)
	default:
		return regressionTrendlines(ds, tl, targets, ordinals)
	}
}

// ============================================================================
// SCALAR AGGREGATES — constant horizontal reference lines
// ============================================================================

func aggregateTrendlines(ds *Dataset, tl chartspec.Trendline, targets []int) []DataSeries {
	slots := len(ds.Labels)

	if tl.AggregateAllCategories || len(targets) == 1 {
		var all []float64
		for _, ti := range targets {
			all = append(all, presentValues(&ds.Series[ti])...)
		}
		v, ok := aggregate(tl.Type, all)
		if !ok {
			return nil
		}
		return []DataSeries{constantSeries(ds, tl, "", v, slots)}
	}

	// Per-category aggregates: one reference line per category series.
	var out []DataSeries
	for _, ti := range targets {
		s := &ds.Series[ti]
		v, ok := aggregate(tl.Type, presentValues(s))
		if !ok {
			continue
		}
		out = append(out, constantSeries(ds, tl, s.Category, v, slots))
	}
	return out
}

func presentValues(s *DataSeries) []float64 {
	vals := make([]float64, 0, len(s.Values))
	for i, v := range s.Values {
		if !s.Missing[i] {
			vals = append(vals, v)
		}
	}
	return vals
}

func aggregate(t chartspec.TrendlineType, vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	switch t {
	case chartspec.TrendlineMax:
		m := vals[0]
		for _, v := range vals[1:] {
			if v > m {
				m = v
			}
		}
		return m, true
	case chartspec.TrendlineMin:
		m := vals[0]
		for _, v := range vals[1:] {
			if v < m {
				m = v
			}
		}
		return m, true
	case chartspec.TrendlineAverage:
		var sum float64
		for _, v := range vals {
			sum += v
		}
		return sum / float64(len(vals)), true
	case chartspec.TrendlineMedian:
		sorted := make([]float64, len(vals))
		copy(sorted, vals)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			return (sorted[mid-1] + sorted[mid]) / 2, true
		}
		return sorted[mid], true
	}
	return 0, false
}

func constantSeries(ds *Dataset, tl chartspec.Trendline, category string, value float64, slots int) DataSeries {
	values := make([]float64, slots)
	for i := range values {
		values[i] = value
	}
	return DataSeries{
		ColumnID:  tl.ColumnID,
		Name:      trendlineName(ds, tl, category),
		Category:  category,
		Kind:      KindTrendline,
		Axis:      AxisPrimary,
		Values:    values,
		Missing:   make([]bool, slots),
		Color:     tl.TrendLineColor,
		LineStyle: tl.LineStyle,
		Label:     trendlineName(ds, tl, category),
		ShowLabel: tl.ShowTrendlineLabel,
	}
}

func trendlineName(ds *Dataset, tl chartspec.Trendline, category string) string {
	if tl.TrendlineLabel != "" {
		if category != "" {
			return tl.TrendlineLabel + " — " + category
		}
		return tl.TrendlineLabel
	}
	base := map[chartspec.TrendlineType]string{
		chartspec.TrendlineMax:                   "Max",
		chartspec.TrendlineMin:                   "Min",
		chartspec.TrendlineAverage:               "Average",
		chartspec.TrendlineMedian:                "Median",
		chartspec.TrendlineLinearRegression:      "Linear Trend",
		chartspec.TrendlinePolynomialRegression:  "Polynomial Trend",
		chartspec.TrendlineExponentialRegression: "Exponential Trend",
		chartspec.TrendlineLogarithmicRegression: "Logarithmic Trend",
	}[tl.Type]
	if category != "" {
		return base + " — " + category
	}
	return base
}

// ============================================================================
// REGRESSIONS
// ============================================================================

func regressionTrendlines(ds *Dataset, tl chartspec.Trendline, targets []int, ordinals []float64) []DataSeries {
	slots := len(ds.Labels)

	// Combine the column's series per slot (summing across categories) so a
	// single curve is fitted over the column's totals.
	combined := make([]float64, slots)
	present := make([]bool, slots)
	for _, ti := range targets {
		s := &ds.Series[ti]
		for i := range s.Values {
			if s.Missing[i] {
				continue
			}
			combined[i] += s.Values[i]
			present[i] = true
		}
	}

	var xs, ys []float64
	for i := 0; i < slots; i++ {
		if present[i] {
			xs = append(xs, ordinals[i])
			ys = append(ys, combined[i])
		}
	}
	if len(xs) < 2 {
		return nil
	}

	eval, ok := fitCurve(tl, xs, ys)
	if !ok {
		return nil
	}

	values := make([]float64, slots)
	missing := make([]bool, slots)
	for i := 0; i < slots; i++ {
		v := eval(ordinals[i])
		if math.IsNaN(v) || math.IsInf(v, 0) {
			missing[i] = true
			continue
		}
		values[i] = v
	}

	return []DataSeries{{
		ColumnID:  tl.ColumnID,
		Name:      trendlineName(ds, tl, ""),
		Kind:      KindTrendline,
		Axis:      AxisPrimary,
		Values:    values,
		Missing:   missing,
		Color:     tl.TrendLineColor,
		LineStyle: tl.LineStyle,
		Label:     trendlineName(ds, tl, ""),
		ShowLabel: tl.ShowTrendlineLabel,
	}}
}

// fitCurve returns an evaluator for the fitted curve, or ok=false when the
// fit's preconditions fail.
func fitCurve(tl chartspec.Trendline, xs, ys []float64) (func(float64) float64, bool) {
	switch tl.Type {
	case chartspec.TrendlineLinearRegression:
		slope, intercept, ok := FitLinear(xs, ys)
		if !ok {
			return nil, false
		}
		return func(x float64) float64 { return slope*x + intercept }, true

	case chartspec.TrendlinePolynomialRegression:
		order := tl.PolynomialOrder
		if order <= 0 {
			order = 2
		}
		coeffs, ok := FitPolynomial(xs, ys, order)
		if !ok {
			return nil, false
		}
		return func(x float64) float64 { return evalPolynomial(coeffs, x) }, true

	case chartspec.TrendlineExponentialRegression:
		a, b, ok := FitExponential(xs, ys)
		if !ok {
			return nil, false
		}
		return func(x float64) float64 { return a * math.Exp(b*x) }, true

	case chartspec.TrendlineLogarithmicRegression:
		a, b, ok := FitLogarithmic(xs, ys)
		if !ok {
			return nil, false
		}
		return func(x float64) float64 {
			if x <= 0 {
				return math.NaN()
			}
			return a + b*math.Log(x)
		}, true
	}
	return nil, false
}

// FitLinear computes an ordinary least-squares line y = slope*x + intercept.
func FitLinear(xs, ys []float64) (slope, intercept float64, ok bool) {
	n := float64(len(xs))
	if n < 2 {
		return 0, 0, false
	}
	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0, false
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept, true
}

// FitPolynomial solves the least-squares normal equations for a polynomial
// of the given order via Gaussian elimination with partial pivoting.
// Coefficients are returned lowest order first.
func FitPolynomial(xs, ys []float64, order int) ([]float64, bool) {
	m := order + 1
	if len(xs) < m {
		return nil, false
	}

	// Normal equations: A^T A c = A^T y over the Vandermonde matrix.
	ata := make([][]float64, m)
	aty := make([]float64, m)
	for i := range ata {
		ata[i] = make([]float64, m)
	}
	for k := range xs {
		powers := make([]float64, 2*m-1)
		p := 1.0
		for j := range powers {
			powers[j] = p
			p *= xs[k]
		}
		for i := 0; i < m; i++ {
			for j := 0; j < m; j++ {
				ata[i][j] += powers[i+j]
			}
			aty[i] += powers[i] * ys[k]
		}
	}

	return solveGaussian(ata, aty)
}

func solveGaussian(a [][]float64, b []float64) ([]float64, bool) {
	m := len(b)
	for col := 0; col < m; col++ {
		// partial pivot
		pivot := col
		for r := col + 1; r < m; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < m; r++ {
			factor := a[r][col] / a[col][col]
			for c := col; c < m; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}

	coeffs := make([]float64, m)
	for i := m - 1; i >= 0; i-- {
		sum := b[i]
		for j := i + 1; j < m; j++ {
			sum -= a[i][j] * coeffs[j]
		}
		coeffs[i] = sum / a[i][i]
	}
	return coeffs, true
}

func evalPolynomial(coeffs []float64, x float64) float64 {
	var result float64
	for i := len(coeffs) - 1; i >= 0; i-- {
		result = result*x + coeffs[i]
	}
	return result
}

// FitExponential fits y = a·e^(b·x) by linear regression on ln(y).
// Requires every y > 0; otherwise the trendline is omitted.
func FitExponential(xs, ys []float64) (a, b float64, ok bool) {
	logs := make([]float64, len(ys))
	for i, y := range ys {
		if y <= 0 {
			return 0, 0, false
		}
		logs[i] = math.Log(y)
	}
	slope, intercept, ok := FitLinear(xs, logs)
	if !ok {
		return 0, 0, false
	}
	return math.Exp(intercept), slope, true
}

// FitLogarithmic fits y = a + b·ln(x). Requires every x > 0.
func FitLogarithmic(xs, ys []float64) (a, b float64, ok bool) {
	logs := make([]float64, len(xs))
	for i, x := range xs {
		if x <= 0 {
			return 0, 0, false
		}
		logs[i] = math.Log(x)
	}
	slope, intercept, ok := FitLinear(logs, ys)
	if !ok {
		return 0, 0, false
	}
	return intercept, slope, true
}

// ============================================================================
// X ORDINALIZATION AND PROJECTION
// ============================================================================

// xOrdinals maps x values onto a monotonic numeric scale for fitting:
// dates become elapsed days since the first value, numerics pass through,
// and categorical values fall back to their slot index.
func xOrdinals(xValues []any, slots int) []float64 {
	ordinals := make([]float64, slots)

	// Trailing nil values are projection slots appended by extendDomain;
	// only the observed prefix participates in scale detection.
	observed := 0
	for observed < len(xValues) && xValues[observed] != nil {
		observed++
	}
	if observed == 0 {
		for i := range ordinals {
			ordinals[i] = float64(i)
		}
		return ordinals
	}

	allDates := true
	for i := 0; i < observed; i++ {
		t, ok := format.ParseTime(xValues[i])
		if !ok {
			allDates = false
			break
		}
		ordinals[i] = float64(t.Unix()) / 86400 // elapsed days scale
	}
	if allDates {
		base := ordinals[0]
		for i := 0; i < observed; i++ {
			ordinals[i] -= base
		}
		fillProjectedOrdinals(ordinals, observed)
		return ordinals
	}

	allNumeric := true
	for i := 0; i < observed; i++ {
		f, ok := coerceFloat(xValues[i])
		if !ok {
			allNumeric = false
			break
		}
		ordinals[i] = f
	}
	if allNumeric {
		fillProjectedOrdinals(ordinals, observed)
		return ordinals
	}

	for i := range ordinals {
		ordinals[i] = float64(i)
	}
	return ordinals
}

// fillProjectedOrdinals extrapolates ordinal positions for projection slots
// beyond the observed values using the mean observed gap.
func fillProjectedOrdinals(ordinals []float64, observed int) {
	if observed == 0 || observed >= len(ordinals) {
		return
	}
	gap := 1.0
	if observed > 1 {
		gap = (ordinals[observed-1] - ordinals[0]) / float64(observed-1)
	}
	for i := observed; i < len(ordinals); i++ {
		ordinals[i] = ordinals[observed-1] + gap*float64(i-observed+1)
	}
}

// extendDomain appends `offset` projected x slots. Data series are padded
// with missing points; labels are extrapolated where the x scale allows.
func extendDomain(ds *Dataset, cfg chartspec.ChartConfig, axes ResolvedAxes, offset int) {
	slots := len(ds.Labels)
	if slots == 0 {
		return
	}

	for i := 1; i <= offset; i++ {
		ds.XValues = append(ds.XValues, nil)
		ds.Labels = append(ds.Labels, projectedLabel(ds, cfg, axes, i))
	}
	for si := range ds.Series {
		s := &ds.Series[si]
		for i := 0; i < offset; i++ {
			s.Values = append(s.Values, 0)
			s.Missing = append(s.Missing, true)
			if s.Sizes != nil {
				s.Sizes = append(s.Sizes, 0)
			}
		}
	}
}

func projectedLabel(ds *Dataset, cfg chartspec.ChartConfig, axes ResolvedAxes, step int) string {
	observed := 0
	for _, v := range ds.XValues {
		if v != nil {
			observed++
		}
	}
	if observed >= 2 {
		first, okA := format.ParseTime(ds.XValues[0])
		last, okB := format.ParseTime(ds.XValues[observed-1])
		if okA && okB {
			gap := last.Sub(first) / time.Duration(observed-1)
			f := cfg.FormatFor(axes.X[0])
			if f.ColumnType != chartspec.ColumnTypeDate {
				f = chartspec.DefaultColumnLabelFormat(chartspec.ColumnTypeDate)
			}
			return format.Format(last.Add(gap*time.Duration(step)), f)
		}
	}
	return "+" + strconv.Itoa(step)
}
