package chartspec

// ============================================================================
// CHART SPEC — Declarative chart configuration model
// ============================================================================
// The single source of truth handed to the engine. Created and edited by the
// consumer, read-only for the pipeline. Plain JSON/YAML-serializable values;
// no independent lifecycle.
// ============================================================================

// ChartType is the closed set of supported visualizations.
type ChartType string

const (
	ChartTypeLine    ChartType = "line"
	ChartTypeBar     ChartType = "bar"
	ChartTypeScatter ChartType = "scatter"
	ChartTypePie     ChartType = "pie"
	ChartTypeCombo   ChartType = "combo"
	ChartTypeMetric  ChartType = "metric"
	ChartTypeTable   ChartType = "table"
)

// Valid reports whether t is a known chart type.
func (t ChartType) Valid() bool {
	switch t {
	case ChartTypeLine, ChartTypeBar, ChartTypeScatter, ChartTypePie,
		ChartTypeCombo, ChartTypeMetric, ChartTypeTable:
		return true
	}
	return false
}

// ColumnType is the inferred primitive type of a column.
type ColumnType string

const (
	ColumnTypeNumber ColumnType = "number"
	ColumnTypeText   ColumnType = "text"
	ColumnTypeDate   ColumnType = "date"
)

// Style selects the display style for a column's values.
type Style string

const (
	StyleCurrency Style = "currency"
	StylePercent  Style = "percent"
	StyleNumber   Style = "number"
	StyleDate     Style = "date"
	StyleString   Style = "string"
)

// ConvertNumberTo reinterprets a numeric value as a calendar unit.
// All units are 0-indexed (0 = Sunday, 0 = January, 0 = Q1).
type ConvertNumberTo string

const (
	ConvertNone        ConvertNumberTo = ""
	ConvertDayOfWeek   ConvertNumberTo = "day_of_week"
	ConvertMonthOfYear ConvertNumberTo = "month_of_year"
	ConvertQuarter     ConvertNumberTo = "quarter"
	ConvertNumber      ConvertNumberTo = "number"
)

// GroupMode controls how multiple series share an x slot.
type GroupMode string

const (
	GroupModeGroup           GroupMode = "group"
	GroupModeStack           GroupMode = "stack"
	GroupModePercentageStack GroupMode = "percentage-stack"
)

// Visualization is the per-column draw mode for combo charts.
type Visualization string

const (
	VisualizationBar  Visualization = "bar"
	VisualizationLine Visualization = "line"
)

// TrendlineType is the closed set of derived reference series.
type TrendlineType string

const (
	TrendlineMax                   TrendlineType = "max"
	TrendlineMin                   TrendlineType = "min"
	TrendlineAverage               TrendlineType = "average"
	TrendlineMedian                TrendlineType = "median"
	TrendlineLinearRegression      TrendlineType = "linear_regression"
	TrendlinePolynomialRegression  TrendlineType = "polynomial_regression"
	TrendlineExponentialRegression TrendlineType = "exponential_regression"
	TrendlineLogarithmicRegression TrendlineType = "logarithmic_regression"
)

// ============================================================================
// AXIS MAPPING
// ============================================================================

// AxisMapping assigns data columns to chart roles.
// Y2 is honored for combo charts only; Size for scatter only.
// Tooltip, when non-nil, overrides the default tooltip column set.
type AxisMapping struct {
	X        []string `json:"x" yaml:"x"`
	Y        []string `json:"y" yaml:"y"`
	Y2       []string `json:"y2,omitempty" yaml:"y2,omitempty"`
	Category []string `json:"category,omitempty" yaml:"category,omitempty"`
	Size     []string `json:"size,omitempty" yaml:"size,omitempty"`
	Tooltip  []string `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
}

// ============================================================================
// COLUMN LABEL FORMAT
// ============================================================================

// ColumnLabelFormat is the per-column formatting contract.
// Build instances with DefaultColumnLabelFormat and override fields; the
// zero value is not a usable format.
type ColumnLabelFormat struct {
	ColumnType  ColumnType `json:"columnType" yaml:"columnType"`
	Style       Style      `json:"style" yaml:"style"`
	DisplayName string     `json:"displayName,omitempty" yaml:"displayName,omitempty"`

	// Number options
	NumberSeparatorStyle  string          `json:"numberSeparatorStyle" yaml:"numberSeparatorStyle"` // only "," or "" (none)
	MinimumFractionDigits int             `json:"minimumFractionDigits" yaml:"minimumFractionDigits"`
	MaximumFractionDigits *int            `json:"maximumFractionDigits,omitempty" yaml:"maximumFractionDigits,omitempty"` // nil = 2; an explicit 0 means integer-only
	Multiplier            float64         `json:"multiplier" yaml:"multiplier"`
	CompactNumbers        bool            `json:"compactNumbers,omitempty" yaml:"compactNumbers,omitempty"`
	Currency              string          `json:"currency" yaml:"currency"` // ISO 4217
	ConvertNumberTo       ConvertNumberTo `json:"convertNumberTo,omitempty" yaml:"convertNumberTo,omitempty"`

	// Shared options
	Prefix                 string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Suffix                 string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	ReplaceMissingDataWith any    `json:"replaceMissingDataWith" yaml:"replaceMissingDataWith"` // 0, nil, or string
	MakeLabelHumanReadable bool   `json:"makeLabelHumanReadable,omitempty" yaml:"makeLabelHumanReadable,omitempty"`

	// Date options
	DateFormat      string `json:"dateFormat" yaml:"dateFormat"` // "auto" or explicit pattern
	UseRelativeTime bool   `json:"useRelativeTime,omitempty" yaml:"useRelativeTime,omitempty"`
	IsUTC           bool   `json:"isUTC,omitempty" yaml:"isUTC,omitempty"`
}

// Label returns the display name for a column, falling back to a humanized
// version of the column id.
func (f ColumnLabelFormat) Label(columnID string) string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return HumanizeColumnID(columnID)
}

// ============================================================================
// COLUMN SETTINGS
// ============================================================================

// ColumnSettings carries per-column visual overrides.
type ColumnSettings struct {
	ColumnVisualization        Visualization `json:"columnVisualization,omitempty" yaml:"columnVisualization,omitempty"`
	ShowDataLabels             bool          `json:"showDataLabels,omitempty" yaml:"showDataLabels,omitempty"`
	ShowDataLabelsAsPercentage bool          `json:"showDataLabelsAsPercentage,omitempty" yaml:"showDataLabelsAsPercentage,omitempty"`
	LineWidth                  float64       `json:"lineWidth,omitempty" yaml:"lineWidth,omitempty"`
	LineSymbolSize             float64       `json:"lineSymbolSize,omitempty" yaml:"lineSymbolSize,omitempty"`
	LineStyle                  string        `json:"lineStyle,omitempty" yaml:"lineStyle,omitempty"` // "solid", "dashed", "dotted"
	LineType                   string        `json:"lineType,omitempty" yaml:"lineType,omitempty"`   // "normal", "smooth", "step"
	BarRoundness               float64       `json:"barRoundness,omitempty" yaml:"barRoundness,omitempty"`
}

// ============================================================================
// TRENDLINES AND GOAL LINES
// ============================================================================

// Trendline declares a derived reference series over one y column.
// Trendlines are recomputed fresh on every render pass and never persisted
// independently of the chart config that declares them.
type Trendline struct {
	Type                         TrendlineType `json:"type" yaml:"type"`
	ColumnID                     string        `json:"columnId" yaml:"columnId"`
	Show                         bool          `json:"show" yaml:"show"`
	ShowTrendlineLabel           bool          `json:"showTrendlineLabel,omitempty" yaml:"showTrendlineLabel,omitempty"`
	TrendlineLabel               string        `json:"trendlineLabel,omitempty" yaml:"trendlineLabel,omitempty"`
	TrendLineColor               string        `json:"trendLineColor,omitempty" yaml:"trendLineColor,omitempty"`
	LineStyle                    string        `json:"lineStyle,omitempty" yaml:"lineStyle,omitempty"`
	Projection                   bool          `json:"projection,omitempty" yaml:"projection,omitempty"`
	Offset                       int           `json:"offset,omitempty" yaml:"offset,omitempty"`
	PolynomialOrder              int           `json:"polynomialOrder,omitempty" yaml:"polynomialOrder,omitempty"`
	AggregateAllCategories       bool          `json:"aggregateAllCategories" yaml:"aggregateAllCategories"`
	TrendlineLabelPositionOffset float64       `json:"trendlineLabelPositionOffset,omitempty" yaml:"trendlineLabelPositionOffset,omitempty"`
}

// GoalLine declares a constant-value reference line on the y axis.
type GoalLine struct {
	Show              bool    `json:"show" yaml:"show"`
	Value             float64 `json:"value" yaml:"value"`
	ShowGoalLineLabel bool    `json:"showGoalLineLabel,omitempty" yaml:"showGoalLineLabel,omitempty"`
	GoalLineLabel     string  `json:"goalLineLabel,omitempty" yaml:"goalLineLabel,omitempty"`
	GoalLineColor     string  `json:"goalLineColor,omitempty" yaml:"goalLineColor,omitempty"`
}

// ============================================================================
// COLUMN METADATA
// ============================================================================

// ColumnMetadata describes one column of the source result set.
// Optional; used for ordering and type-inference fallbacks when a label
// format is absent.
type ColumnMetadata struct {
	Name         string     `json:"name" yaml:"name"`
	SimpleType   ColumnType `json:"simple_type" yaml:"simple_type"`
	MinValue     any        `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	MaxValue     any        `json:"max_value,omitempty" yaml:"max_value,omitempty"`
	UniqueValues int        `json:"unique_values,omitempty" yaml:"unique_values,omitempty"`
}

// ============================================================================
// CHART CONFIG — aggregate root
// ============================================================================

// ChartConfig ties together the selected chart type, per-type axis mappings,
// column formats and settings, palette, grouping modes, trendlines, goal
// lines, and axis presentation flags.
type ChartConfig struct {
	SelectedChartType ChartType `json:"selectedChartType" yaml:"selectedChartType"`

	// Per-type axis mappings. AxisFor selects the active one.
	BarAndLineAxis AxisMapping `json:"barAndLineAxis" yaml:"barAndLineAxis"`
	ScatterAxis    AxisMapping `json:"scatterAxis" yaml:"scatterAxis"`
	PieAxis        AxisMapping `json:"pieChartAxis" yaml:"pieChartAxis"`
	ComboAxis      AxisMapping `json:"comboChartAxis" yaml:"comboChartAxis"`

	// Metric chart
	MetricColumnID  string `json:"metricColumnId,omitempty" yaml:"metricColumnId,omitempty"`
	MetricAggregate string `json:"metricValueAggregate,omitempty" yaml:"metricValueAggregate,omitempty"` // sum, average, median, max, min, count, first
	MetricHeader    string `json:"metricHeader,omitempty" yaml:"metricHeader,omitempty"`
	MetricSubHeader string `json:"metricSubHeader,omitempty" yaml:"metricSubHeader,omitempty"`

	ColumnLabelFormats map[string]ColumnLabelFormat `json:"columnLabelFormats" yaml:"columnLabelFormats"`
	ColumnSettings     map[string]ColumnSettings    `json:"columnSettings" yaml:"columnSettings"`
	Colors             []string                     `json:"colors" yaml:"colors"`

	// Grouping
	BarGroupType  GroupMode `json:"barGroupType" yaml:"barGroupType"`
	LineGroupType GroupMode `json:"lineGroupType" yaml:"lineGroupType"`
	BarLayout     string    `json:"barLayout" yaml:"barLayout"` // "vertical", "horizontal"

	Trendlines []Trendline `json:"trendlines,omitempty" yaml:"trendlines,omitempty"`
	GoalLines  []GoalLine  `json:"goalLines,omitempty" yaml:"goalLines,omitempty"`

	// Legend and grid
	ShowLegend         bool   `json:"showLegend" yaml:"showLegend"`
	ShowLegendHeadline string `json:"showLegendHeadline,omitempty" yaml:"showLegendHeadline,omitempty"` // "", "current", "average"
	GridLines          bool   `json:"gridLines" yaml:"gridLines"`
	DisableTooltip     bool   `json:"disableTooltip,omitempty" yaml:"disableTooltip,omitempty"`

	// X axis presentation
	XAxisShowAxisLabel bool   `json:"xAxisShowAxisLabel" yaml:"xAxisShowAxisLabel"`
	XAxisShowAxisTitle bool   `json:"xAxisShowAxisTitle" yaml:"xAxisShowAxisTitle"`
	XAxisAxisTitle     string `json:"xAxisAxisTitle,omitempty" yaml:"xAxisAxisTitle,omitempty"`
	XAxisLabelRotation string `json:"xAxisLabelRotation" yaml:"xAxisLabelRotation"` // "auto", "0", "45", "90"

	// Y axis presentation
	YAxisShowAxisLabel   bool   `json:"yAxisShowAxisLabel" yaml:"yAxisShowAxisLabel"`
	YAxisShowAxisTitle   bool   `json:"yAxisShowAxisTitle" yaml:"yAxisShowAxisTitle"`
	YAxisAxisTitle       string `json:"yAxisAxisTitle,omitempty" yaml:"yAxisAxisTitle,omitempty"`
	YAxisScaleType       string `json:"yAxisScaleType" yaml:"yAxisScaleType"` // "linear", "log"
	YAxisStartAxisAtZero bool   `json:"yAxisStartAxisAtZero" yaml:"yAxisStartAxisAtZero"`

	// Secondary y axis (combo only)
	Y2AxisShowAxisLabel   bool   `json:"y2AxisShowAxisLabel" yaml:"y2AxisShowAxisLabel"`
	Y2AxisShowAxisTitle   bool   `json:"y2AxisShowAxisTitle" yaml:"y2AxisShowAxisTitle"`
	Y2AxisAxisTitle       string `json:"y2AxisAxisTitle,omitempty" yaml:"y2AxisAxisTitle,omitempty"`
	Y2AxisScaleType       string `json:"y2AxisScaleType" yaml:"y2AxisScaleType"`
	Y2AxisStartAxisAtZero bool   `json:"y2AxisStartAxisAtZero" yaml:"y2AxisStartAxisAtZero"`

	// Pie
	PieDonutWidth             float64 `json:"pieDonutWidth" yaml:"pieDonutWidth"` // 0 = solid pie
	PieMinimumSlicePercentage float64 `json:"pieMinimumSlicePercentage" yaml:"pieMinimumSlicePercentage"`
	PieDisplayLabelAs         string  `json:"pieDisplayLabelAs" yaml:"pieDisplayLabelAs"` // "number", "percent"
	PieLabelPosition          string  `json:"pieLabelPosition,omitempty" yaml:"pieLabelPosition,omitempty"`
}

// AxisFor returns the axis mapping active for the given chart type.
// Table and metric types have no mapping; the zero AxisMapping is returned.
func (c ChartConfig) AxisFor(t ChartType) AxisMapping {
	switch t {
	case ChartTypeBar, ChartTypeLine:
		return c.BarAndLineAxis
	case ChartTypeScatter:
		return c.ScatterAxis
	case ChartTypePie:
		return c.PieAxis
	case ChartTypeCombo:
		return c.ComboAxis
	default:
		return AxisMapping{}
	}
}

// GroupModeFor returns the grouping mode relevant to the given chart type.
func (c ChartConfig) GroupModeFor(t ChartType) GroupMode {
	switch t {
	case ChartTypeLine:
		return c.LineGroupType
	case ChartTypeBar, ChartTypeCombo:
		return c.BarGroupType
	default:
		return GroupModeGroup
	}
}

// FormatFor returns the label format for a column, or a type-appropriate
// default when none is configured.
func (c ChartConfig) FormatFor(columnID string) ColumnLabelFormat {
	if f, ok := c.ColumnLabelFormats[columnID]; ok {
		return f
	}
	return DefaultColumnLabelFormat(ColumnTypeNumber)
}

// SettingsFor returns the column settings for a column, or defaults.
func (c ChartConfig) SettingsFor(columnID string) ColumnSettings {
	if s, ok := c.ColumnSettings[columnID]; ok {
		return s
	}
	return DefaultColumnSettings()
}
