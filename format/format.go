package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/plotforge/plotforge/chartspec"
)

// ============================================================================
// COLUMN LABEL FORMATTER — value → display string
// ============================================================================
// Pure functions. A formatting failure must never break a chart: malformed
// dates and non-numeric inputs fall back to the raw stringified value.
// ============================================================================

var enPrinter = message.NewPrinter(language.English)

// Format renders a single value according to a column label format.
// Total over all inputs — any value produces some string, never a panic.
func Format(value any, f chartspec.ColumnLabelFormat) string {
	switch f.ColumnType {
	case chartspec.ColumnTypeNumber:
		return formatNumber(value, f)
	case chartspec.ColumnTypeDate:
		return formatDate(value, f)
	default:
		return formatText(value, f)
	}
}

// ============================================================================
// NUMBER PATH
// ============================================================================

func formatNumber(value any, f chartspec.ColumnLabelFormat) string {
	if isMissing(value) {
		replaced, text, ok := resolveMissing(f)
		if !ok {
			return ""
		}
		if text != "" {
			return text
		}
		value = replaced
	}

	v, ok := toFloat(value)
	if !ok {
		// Non-numeric input in a numeric column — stringify rather than fail.
		return stringify(value)
	}

	multiplier := f.Multiplier
	if multiplier == 0 {
		multiplier = 1
	}
	v *= multiplier

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return stringify(value)
	}

	if f.ConvertNumberTo != chartspec.ConvertNone && f.ConvertNumberTo != chartspec.ConvertNumber {
		if label, ok := convertCalendarUnit(v, f.ConvertNumberTo); ok {
			return f.Prefix + label + f.Suffix
		}
	}

	var body string
	switch f.Style {
	case chartspec.StyleCurrency:
		body = formatCurrencyValue(v, f)
	case chartspec.StylePercent:
		// Values are NOT pre-divided by 100: 0.85 renders as "0.85%".
		body = formatDecimal(v, f) + "%"
	default:
		body = formatDecimal(v, f)
	}

	return f.Prefix + body + f.Suffix
}

// formatDecimal applies separator style, fraction-digit bounds, and compact
// abbreviation to a numeric value.
func formatDecimal(v float64, f chartspec.ColumnLabelFormat) string {
	if f.CompactNumbers {
		if s, ok := compactNumber(v); ok {
			return s
		}
	}

	minDigits, maxDigits := fractionBounds(f)

	if f.NumberSeparatorStyle == "," {
		return enPrinter.Sprintf("%v", number.Decimal(v,
			number.MinFractionDigits(minDigits),
			number.MaxFractionDigits(maxDigits),
		))
	}
	return plainDecimal(v, minDigits, maxDigits)
}

// plainDecimal formats without grouping separators.
func plainDecimal(v float64, minDigits, maxDigits int) string {
	s := strconv.FormatFloat(v, 'f', maxDigits, 64)
	if maxDigits > minDigits && strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		// restore up to the minimum fraction digits
		dot := strings.Index(s, ".")
		frac := len(s) - dot - 1
		for frac < minDigits {
			s += "0"
			frac++
		}
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

func fractionBounds(f chartspec.ColumnLabelFormat) (int, int) {
	minDigits := f.MinimumFractionDigits
	// nil means unset; an explicit zero requests integer-only formatting.
	maxDigits := 2
	if f.MaximumFractionDigits != nil {
		maxDigits = *f.MaximumFractionDigits
	}
	if f.Style == chartspec.StyleCurrency && minDigits < 2 {
		// Currency always shows cents unless a larger minimum is configured.
		minDigits = 2
		if maxDigits < 2 {
			maxDigits = 2
		}
	}
	if maxDigits < minDigits {
		maxDigits = minDigits
	}
	return minDigits, maxDigits
}

// compactNumber abbreviates large magnitudes (1200 → "1.2K").
// Values under 1000 are left to the regular path.
func compactNumber(v float64) (string, bool) {
	abs := math.Abs(v)
	if abs < 1000 {
		return "", false
	}

	suffixes := []struct {
		threshold float64
		label     string
	}{
		{1e12, "T"},
		{1e9, "B"},
		{1e6, "M"},
		{1e3, "K"},
	}

	for _, s := range suffixes {
		if abs >= s.threshold {
			scaled := v / s.threshold
			text := strconv.FormatFloat(scaled, 'f', 1, 64)
			text = strings.TrimSuffix(text, ".0")
			return text + s.label, true
		}
	}
	return "", false
}

// ============================================================================
// TEXT PATH
// ============================================================================

func formatText(value any, f chartspec.ColumnLabelFormat) string {
	// A missing value in a text column renders as the literal "undefined",
	// matching what downstream consumers already depend on.
	s := stringify(value)
	if f.MakeLabelHumanReadable {
		s = chartspec.HumanizeColumnID(s)
	}
	return f.Prefix + s + f.Suffix
}

// ============================================================================
// MISSING-VALUE POLICY
// ============================================================================

func isMissing(value any) bool {
	return value == nil
}

// resolveMissing applies ReplaceMissingDataWith. Returns the numeric
// replacement, or a literal text fallback, or ok=false for an explicit null
// replacement (render empty).
func resolveMissing(f chartspec.ColumnLabelFormat) (replacement any, text string, ok bool) {
	r := f.ReplaceMissingDataWith
	if r == nil {
		return nil, "", false
	}
	if _, numeric := toFloat(r); numeric {
		return r, "", true
	}
	// Non-numeric replacement — stringified text fallback.
	return nil, stringify(r), true
}

// ============================================================================
// COERCION HELPERS
// ============================================================================

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
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

func stringify(value any) string {
	if value == nil {
		return "undefined"
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", value)
	}
}
