package engine

import "github.com/plotforge/plotforge/chartspec"

// ============================================================================
// AXIS RESOLVER — role validation per chart type
// ============================================================================
// One rule table keyed by chart type instead of string conditionals spread
// across the pipeline. Adding a chart type means adding one table row.
// ============================================================================

type axisRule struct {
	requireXY     bool
	allowY2       bool
	allowCategory bool
	allowSize     bool
}

var axisRules = map[chartspec.ChartType]axisRule{
	chartspec.ChartTypeLine:    {requireXY: true, allowCategory: true},
	chartspec.ChartTypeBar:     {requireXY: true, allowCategory: true},
	chartspec.ChartTypeScatter: {requireXY: true, allowCategory: true, allowSize: true},
	chartspec.ChartTypePie:     {requireXY: true},
	chartspec.ChartTypeCombo:   {requireXY: true, allowY2: true, allowCategory: true},
	chartspec.ChartTypeMetric:  {},
	chartspec.ChartTypeTable:   {},
}

// IsAxisValid reports whether the mapping is usable for the chart type.
// Table and metric charts carry no axis requirement and are always valid.
// It is a boolean gate, not a diagnostic — when false, the orchestrator
// renders a placeholder instead of building a dataset.
func IsAxisValid(t chartspec.ChartType, m chartspec.AxisMapping) bool {
	rule, known := axisRules[t]
	if !known {
		return false
	}
	if !rule.requireXY {
		return true
	}
	return len(m.X) > 0 && len(m.Y) > 0
}

// ResolvedAxes is the effective role assignment after dropping roles the
// chart type does not support (y2 outside combo, size outside scatter).
type ResolvedAxes struct {
	X        []string
	Y        []string
	Y2       []string
	Category string
	Size     string
	Tooltip  []string // nil = no explicit override
}

// ResolveAxes normalizes an axis mapping for the chart type.
func ResolveAxes(t chartspec.ChartType, m chartspec.AxisMapping) ResolvedAxes {
	rule := axisRules[t]

	r := ResolvedAxes{
		X:       m.X,
		Y:       m.Y,
		Tooltip: m.Tooltip,
	}
	if rule.allowY2 {
		r.Y2 = m.Y2
	}
	if rule.allowCategory && len(m.Category) > 0 {
		r.Category = m.Category[0]
	}
	if rule.allowSize && len(m.Size) > 0 {
		r.Size = m.Size[0]
	}
	return r
}
