package engine

import (
	"sort"
	"strconv"
	"strings"
)

// ============================================================================
// ROW VIEW — Zero-Copy Data Access
// ============================================================================
// The engine never owns or mutates consumer data. It reads the query result
// through this interface in tight loops during series extraction.
//
// Implementations:
//   SliceView — wraps []Row (query results, CSV ingestion)
//   SubView   — filtered subset (indices into parent, zero-copy)
// ============================================================================

// Row is a single result-set row keyed by column name. Values may be
// numbers, strings, booleans, times, or nil — the engine coerces on read.
type Row map[string]any

// RowView provides indexed access to a result set.
type RowView interface {
	Len() int
	Value(index int, column string) any
	Columns() []string
}

// ============================================================================
// SLICE VIEW
// ============================================================================

// SliceView wraps a []Row as a RowView. Column order follows the supplied
// order when given, else the union of row keys sorted for determinism.
type SliceView struct {
	rows    []Row
	columns []string
}

// NewSliceView creates a RowView over rows with alphabetical column order.
func NewSliceView(rows []Row) RowView {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range rows {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return &SliceView{rows: rows, columns: cols}
}

// NewOrderedSliceView creates a RowView with an explicit column order,
// typically taken from column metadata.
func NewOrderedSliceView(rows []Row, columns []string) RowView {
	return &SliceView{rows: rows, columns: columns}
}

func (v *SliceView) Len() int { return len(v.rows) }

func (v *SliceView) Value(i int, column string) any {
	if i < 0 || i >= len(v.rows) {
		return nil
	}
	val, ok := v.rows[i][column]
	if !ok {
		return nil
	}
	return val
}

func (v *SliceView) Columns() []string { return v.columns }

// ============================================================================
// SUB VIEW — index list into a parent (zero-copy)
// ============================================================================

// SubView is a subset of a parent RowView. Holds indices, no data copy.
type SubView struct {
	parent  RowView
	indices []int
}

func newSubView(parent RowView, indices []int) RowView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Value(i int, column string) any {
	if i < 0 || i >= len(v.indices) {
		return nil
	}
	return v.parent.Value(v.indices[i], column)
}

func (v *SubView) Columns() []string { return v.parent.Columns() }

// ============================================================================
// COERCION
// ============================================================================

// NumericValue reads a cell as float64. Missing keys, nils, and non-numeric
// strings report ok=false — the caller applies the missing-value policy.
func NumericValue(view RowView, i int, column string) (float64, bool) {
	return coerceFloat(view.Value(i, column))
}

// StringValue reads a cell as its raw string form ("" for nil).
func StringValue(view RowView, i int, column string) string {
	val := view.Value(i, column)
	if val == nil {
		return ""
	}
	switch v := val.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return stringifyAny(val)
	}
}

func coerceFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
