package engine

import (
	"sort"

	"github.com/plotforge/plotforge/chartspec"
	"github.com/plotforge/plotforge/format"
)

// ============================================================================
// METRIC BUILDER — one aggregated headline value
// ============================================================================

// MetricData is the metric branch's output: a single formatted value with
// optional header lines.
type MetricData struct {
	Header    string
	SubHeader string
	Value     string
	RawValue  float64
	Count     int
}

// BuildMetric aggregates the metric column over the full view and formats the
// result with the column's label format. An unset aggregate defaults to sum;
// an unset column falls back to the first column in the view.
func BuildMetric(view RowView, cfg chartspec.ChartConfig) *MetricData {
	column := cfg.MetricColumnID
	if column == "" {
		cols := view.Columns()
		if len(cols) == 0 {
			return &MetricData{Value: "0"}
		}
		column = cols[0]
	}

	n := view.Len()
	md := &MetricData{
		Header:    cfg.MetricHeader,
		SubHeader: cfg.MetricSubHeader,
		Count:     n,
	}
	f := cfg.FormatFor(column)

	aggregate := cfg.MetricAggregate
	if aggregate == "" {
		aggregate = "sum"
	}

	// "first" keeps the raw cell so text metrics survive the trip.
	if aggregate == "first" {
		if n == 0 {
			md.Value = format.Format(nil, f)
			return md
		}
		raw := view.Value(0, column)
		md.Value = format.Format(raw, f)
		if v, ok := coerceFloat(raw); ok {
			md.RawValue = v
		}
		return md
	}

	vals := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if v, ok := NumericValue(view, i, column); ok {
			vals = append(vals, v)
		}
	}

	var value float64
	switch aggregate {
	case "count":
		value = float64(n)
	case "average":
		if len(vals) > 0 {
			var sum float64
			for _, v := range vals {
				sum += v
			}
			value = sum / float64(len(vals))
		}
	case "median":
		value = medianOf(vals)
	case "max":
		for i, v := range vals {
			if i == 0 || v > value {
				value = v
			}
		}
	case "min":
		for i, v := range vals {
			if i == 0 || v < value {
				value = v
			}
		}
	default: // sum
		for _, v := range vals {
			value += v
		}
	}

	md.RawValue = value
	if aggregate == "count" {
		countFormat := chartspec.DefaultColumnLabelFormat(chartspec.ColumnTypeNumber)
		md.Value = format.Format(value, countFormat)
	} else {
		md.Value = format.Format(value, f)
	}
	return md
}

func medianOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
