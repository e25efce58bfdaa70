package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/araddon/dateparse"

	"github.com/plotforge/plotforge/chartspec"
	"github.com/plotforge/plotforge/engine"
)

// ============================================================================
// CSV HELPER — parses CSV bytes into rows plus inferred column metadata
// ============================================================================
// Consumers read the CSV from wherever it lives (file, S3, warehouse export).
// This helper converts the raw bytes into engine rows and classifies each
// column so sensible label formats can be generated without hand-editing.
//
// Classification per column:
//   1. Sample values → detect type (number, date, text)
//   2. Track min/max and unique counts for metadata
//   3. 80%+ of non-null values must match for number/date
// ============================================================================

const typeDetectThreshold = 0.8

// ParseCSV parses CSV bytes into rows and per-column metadata.
// Headers become snake_case column ids. Cells are typed by the column's
// detected type: number columns hold float64, date columns keep the raw
// string (parsed downstream), empty cells become nil.
func ParseCSV(data []byte) ([]engine.Row, []chartspec.ColumnMetadata, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if len(headers) == 0 {
		return nil, nil, fmt.Errorf("CSV has no columns")
	}

	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = toSnakeCase(strings.TrimSpace(h))
	}

	var raw [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		raw = append(raw, record)
	}
	if len(raw) == 0 {
		return nil, nil, fmt.Errorf("CSV has no data rows")
	}

	metadata := make([]chartspec.ColumnMetadata, len(keys))
	types := make([]chartspec.ColumnType, len(keys))
	for i := range keys {
		metadata[i], types[i] = analyzeColumn(keys[i], i, raw)
	}

	rows := make([]engine.Row, 0, len(raw))
	for _, record := range raw {
		row := make(engine.Row, len(keys))
		for i, key := range keys {
			if i >= len(record) {
				row[key] = nil
				continue
			}
			row[key] = typedCell(strings.TrimSpace(record[i]), types[i])
		}
		rows = append(rows, row)
	}
	return rows, metadata, nil
}

// DefaultFormats generates a label format per column from its metadata,
// ready to drop into a ChartConfig.
func DefaultFormats(metadata []chartspec.ColumnMetadata) map[string]chartspec.ColumnLabelFormat {
	formats := make(map[string]chartspec.ColumnLabelFormat, len(metadata))
	for _, m := range metadata {
		formats[m.Name] = chartspec.DefaultColumnLabelFormat(m.SimpleType)
	}
	return formats
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

func analyzeColumn(key string, index int, rows [][]string) (chartspec.ColumnMetadata, chartspec.ColumnType) {
	numCount := 0
	dateCount := 0
	unique := make(map[string]bool)
	var values []string

	for _, row := range rows {
		if index >= len(row) {
			continue
		}
		val := strings.TrimSpace(row[index])
		if isNullish(val) {
			continue
		}
		values = append(values, val)
		unique[val] = true
		if isNumeric(val) {
			numCount++
		}
		if _, err := dateparse.ParseAny(val); err == nil && !isNumeric(val) {
			dateCount++
		}
	}

	t := chartspec.ColumnTypeText
	if len(values) > 0 {
		threshold := int(float64(len(values)) * typeDetectThreshold)
		switch {
		case dateCount >= threshold && dateCount > 0:
			t = chartspec.ColumnTypeDate
		case numCount >= threshold && numCount > 0:
			t = chartspec.ColumnTypeNumber
		}
	}

	m := chartspec.ColumnMetadata{
		Name:         key,
		SimpleType:   t,
		UniqueValues: len(unique),
	}
	if t == chartspec.ColumnTypeNumber {
		m.MinValue, m.MaxValue = numericRange(values)
	} else if len(values) > 0 {
		minVal, maxVal := values[0], values[0]
		for _, v := range values[1:] {
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
		m.MinValue, m.MaxValue = minVal, maxVal
	}
	return m, t
}

func numericRange(values []string) (any, any) {
	var minVal, maxVal float64
	found := false
	for _, v := range values {
		f, ok := parseNumeric(v)
		if !ok {
			continue
		}
		if !found {
			minVal, maxVal = f, f
			found = true
			continue
		}
		if f < minVal {
			minVal = f
		}
		if f > maxVal {
			maxVal = f
		}
	}
	if !found {
		return nil, nil
	}
	return minVal, maxVal
}

func typedCell(val string, t chartspec.ColumnType) any {
	if isNullish(val) {
		return nil
	}
	if t == chartspec.ColumnTypeNumber {
		if f, ok := parseNumeric(val); ok {
			return f
		}
		return nil
	}
	return val
}

func isNullish(val string) bool {
	switch strings.ToLower(val) {
	case "", "null", "n/a", "na", "nil":
		return true
	}
	return false
}

func isNumeric(s string) bool {
	_, ok := parseNumeric(s)
	return ok
}

// parseNumeric accepts plain floats plus lightly decorated values like
// "1,234.56" and "$42".
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimPrefix(s, "£")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			prev := rune(s[i-1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(r)
	}
	s = strings.ToLower(b.String())
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "__", "_")
	return strings.Trim(s, "_")
}
