// Package plotforge derives render-ready chart specifications from tabular
// query results and a declarative chart configuration.
//
// The pipeline is split across subpackages:
//
//	chartspec — configuration model (chart types, axis mappings, label formats)
//	format    — column label formatting (numbers, currency, percent, dates)
//	engine    — dataset transformation, trendlines, series and option builders
//	render    — go-echarts binding for HTML output
//	helpers   — CSV ingestion and column metadata inference
//
// Each render pass is a pure function of (rows, config); the engine never
// mutates its inputs and never fails on malformed data rows.
package plotforge

// Version is the current plotforge release.
const Version = "0.3.0"
