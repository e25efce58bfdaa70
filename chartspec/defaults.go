package chartspec

import "strings"

// ============================================================================
// DEFAULTS — Pure factory functions
// ============================================================================
// Every call returns a fresh value. No shared mutable singletons, so two
// concurrent render passes with different configs can never interfere.
// ============================================================================

// DefaultPalette is applied when a config declares no colors.
func DefaultPalette() []string {
	return []string{
		"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
		"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
	}
}

// DefaultChartConfig returns a fresh config with sensible defaults.
// Callers override fields (or unmarshal JSON/YAML over the result) and then
// run Validate before handing the config to the engine.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		SelectedChartType:         ChartTypeTable,
		ColumnLabelFormats:        make(map[string]ColumnLabelFormat),
		ColumnSettings:            make(map[string]ColumnSettings),
		Colors:                    DefaultPalette(),
		BarGroupType:              GroupModeGroup,
		LineGroupType:             GroupModeGroup,
		BarLayout:                 "vertical",
		ShowLegend:                true,
		GridLines:                 true,
		XAxisShowAxisLabel:        true,
		XAxisShowAxisTitle:        true,
		XAxisLabelRotation:        "auto",
		YAxisShowAxisLabel:        true,
		YAxisShowAxisTitle:        true,
		YAxisScaleType:            "linear",
		YAxisStartAxisAtZero:      true,
		Y2AxisShowAxisLabel:       true,
		Y2AxisShowAxisTitle:       true,
		Y2AxisScaleType:           "linear",
		Y2AxisStartAxisAtZero:     true,
		PieDisplayLabelAs:         "number",
		PieMinimumSlicePercentage: 0,
		MetricAggregate:           "sum",
	}
}

// DefaultColumnLabelFormat returns a fresh format for the given column type.
func DefaultColumnLabelFormat(columnType ColumnType) ColumnLabelFormat {
	f := ColumnLabelFormat{
		ColumnType:             columnType,
		NumberSeparatorStyle:   ",",
		MinimumFractionDigits:  0,
		Multiplier:             1,
		Currency:               "USD",
		DateFormat:             "auto",
		ReplaceMissingDataWith: float64(0),
	}
	switch columnType {
	case ColumnTypeNumber:
		f.Style = StyleNumber
	case ColumnTypeDate:
		f.Style = StyleDate
	default:
		f.Style = StyleString
	}
	return f
}

// DefaultColumnSettings returns fresh per-column visual defaults.
func DefaultColumnSettings() ColumnSettings {
	return ColumnSettings{
		ColumnVisualization: VisualizationBar,
		LineWidth:           2,
		LineSymbolSize:      0,
		LineStyle:           "solid",
		LineType:            "normal",
		BarRoundness:        8,
	}
}

// DefaultTrendline returns a fresh trendline declaration for a column.
func DefaultTrendline(t TrendlineType, columnID string) Trendline {
	return Trendline{
		Type:                   t,
		ColumnID:               columnID,
		Show:                   true,
		ShowTrendlineLabel:     true,
		PolynomialOrder:        2,
		AggregateAllCategories: true,
	}
}

// HumanizeColumnID converts snake_case or kebab-case column ids to Title
// Case display labels ("total_revenue" → "Total Revenue").
func HumanizeColumnID(id string) string {
	id = strings.ReplaceAll(id, "_", " ")
	id = strings.ReplaceAll(id, "-", " ")
	words := strings.Fields(id)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
