package engine

import (
	"strconv"

	"github.com/plotforge/plotforge/chartspec"
	"github.com/plotforge/plotforge/format"
)

// ============================================================================
// TABLE BUILDER — rows + config → render-ready cell grid
// ============================================================================
// Every cell is formatted up front through the column's label format; the
// renderer treats the grid as opaque strings. Column order follows the
// metadata when provided, otherwise the view's column order.
// ============================================================================

// TableColumn is one header cell with its alignment hint.
type TableColumn struct {
	Key   string
	Label string
	Type  chartspec.ColumnType
	Align string // "left" for text, "right" for number and date
}

// TableSummary is the optional trailing totals row.
type TableSummary struct {
	Label  string
	Values map[string]string // column key → formatted total
}

// TableData is the table branch's output.
type TableData struct {
	Columns []TableColumn
	Rows    [][]string
	Summary *TableSummary
}

// BuildTable formats the full view into a cell grid.
func BuildTable(view RowView, cfg chartspec.ChartConfig, metadata []chartspec.ColumnMetadata) *TableData {
	keys := tableColumnOrder(view, metadata)
	if len(keys) == 0 {
		return &TableData{Columns: []TableColumn{}, Rows: [][]string{}}
	}

	columns := make([]TableColumn, 0, len(keys))
	formats := make([]chartspec.ColumnLabelFormat, 0, len(keys))
	for _, key := range keys {
		f := cfg.FormatFor(key)
		columns = append(columns, TableColumn{
			Key:   key,
			Label: f.Label(key),
			Type:  f.ColumnType,
			Align: alignFor(f.ColumnType),
		})
		formats = append(formats, f)
	}

	n := view.Len()
	rows := make([][]string, 0, n)
	totals := make(map[string]float64)
	hasTotal := make(map[string]bool)

	for i := 0; i < n; i++ {
		row := make([]string, len(keys))
		for j, key := range keys {
			raw := view.Value(i, key)
			row[j] = format.Format(raw, formats[j])
			if formats[j].ColumnType == chartspec.ColumnTypeNumber {
				if v, ok := coerceFloat(raw); ok {
					totals[key] += v
					hasTotal[key] = true
				}
			}
		}
		rows = append(rows, row)
	}

	td := &TableData{Columns: columns, Rows: rows}
	if len(hasTotal) > 0 {
		summary := &TableSummary{
			Label:  "Total (" + strconv.Itoa(n) + " rows)",
			Values: make(map[string]string, len(hasTotal)),
		}
		for j, key := range keys {
			if hasTotal[key] {
				summary.Values[key] = format.Format(totals[key], formats[j])
			}
		}
		td.Summary = summary
	}
	return td
}

func tableColumnOrder(view RowView, metadata []chartspec.ColumnMetadata) []string {
	if len(metadata) == 0 {
		return view.Columns()
	}
	available := make(map[string]bool)
	for _, c := range view.Columns() {
		available[c] = true
	}
	keys := make([]string, 0, len(metadata))
	for _, m := range metadata {
		if available[m.Name] {
			keys = append(keys, m.Name)
		}
	}
	return keys
}

func alignFor(t chartspec.ColumnType) string {
	if t == chartspec.ColumnTypeText {
		return "left"
	}
	return "right"
}
