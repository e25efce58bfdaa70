package format

import (
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/dustin/go-humanize"

	"github.com/plotforge/plotforge/chartspec"
)

// ============================================================================
// DATE FORMATTING — patterns, auto-granularity, relative time
// ============================================================================
// Patterns use dayjs-style tokens (YYYY, MMM, DD, HH:mm …) since configs
// originate from BI frontends. Unparseable dates fall back to the raw
// stringified value.
// ============================================================================

// fallbackDatePattern is used when DateFormat is "auto" and the caller has
// not resolved a pattern from the column's values.
const fallbackDatePattern = "MMM D, YYYY"

func formatDate(value any, f chartspec.ColumnLabelFormat) string {
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

	t, ok := ParseTime(value)
	if !ok {
		return stringify(value)
	}

	if f.IsUTC {
		t = t.UTC()
	} else {
		t = t.Local()
	}

	if f.UseRelativeTime {
		return f.Prefix + humanize.Time(t) + f.Suffix
	}

	pattern := f.DateFormat
	if pattern == "" || pattern == "auto" {
		pattern = fallbackDatePattern
	}

	return f.Prefix + t.Format(GoLayout(pattern)) + f.Suffix
}

// ParseTime coerces a value into a time.Time. Accepts time.Time, date-like
// strings (lenient parse), and numeric epochs (seconds or milliseconds).
func ParseTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		t, err := dateparse.ParseAny(v)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		f, ok := toFloat(value)
		if !ok {
			return time.Time{}, false
		}
		// Heuristic: epochs past the year 33658 in seconds are milliseconds.
		if f > 1e12 {
			return time.UnixMilli(int64(f)), true
		}
		if f > 1e9 {
			return time.Unix(int64(f), 0), true
		}
		return time.Time{}, false
	}
}

// ============================================================================
// PATTERN CONVERSION
// ============================================================================

// dayjs token → Go reference layout, longest tokens first so "MMMM" wins
// over "MM".
var layoutTokens = []struct{ from, to string }{
	{"YYYY", "2006"},
	{"YY", "06"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"M", "1"},
	{"DD", "02"},
	{"D", "2"},
	{"dddd", "Monday"},
	{"ddd", "Mon"},
	{"HH", "15"},
	{"hh", "03"},
	{"h", "3"},
	{"mm", "04"},
	{"m", "4"},
	{"ss", "05"},
	{"s", "5"},
	{"A", "PM"},
	{"a", "pm"},
}

// GoLayout converts a dayjs-style pattern to a Go time layout.
func GoLayout(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		matched := false
		for _, tok := range layoutTokens {
			if strings.HasPrefix(pattern[i:], tok.from) {
				b.WriteString(tok.to)
				i += len(tok.from)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(pattern[i])
			i++
		}
	}
	return b.String()
}

// ============================================================================
// AUTO-GRANULARITY
// ============================================================================

// AutoDatePattern picks a display pattern from the spread and granularity of
// a column's values: the least ambiguous pattern that still disambiguates
// neighboring labels. Unevenly spaced day-level values always carry the year.
func AutoDatePattern(times []time.Time) string {
	if len(times) == 0 {
		return fallbackDatePattern
	}

	sorted := make([]time.Time, len(times))
	copy(sorted, times)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	years := make(map[int]bool)
	hasTime := false
	allFirstOfMonth := true
	allFirstOfQuarter := true
	allFirstOfYear := true

	for _, t := range sorted {
		years[t.Year()] = true
		if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 {
			hasTime = true
		}
		if t.Day() != 1 {
			allFirstOfMonth = false
		}
		if t.Day() != 1 || (int(t.Month())-1)%3 != 0 {
			allFirstOfQuarter = false
		}
		if t.Day() != 1 || t.Month() != time.January {
			allFirstOfYear = false
		}
	}

	multiYear := len(years) > 1

	switch {
	case hasTime:
		if multiYear {
			return "MMM D, YYYY HH:mm"
		}
		return "MMM D HH:mm"
	case allFirstOfYear:
		return "YYYY"
	case allFirstOfQuarter && len(sorted) > 1:
		return "MMM YYYY"
	case allFirstOfMonth && len(sorted) > 1:
		if multiYear {
			return "MMM YYYY"
		}
		return "MMM"
	default:
		if multiYear || unevenDaySpacing(sorted) {
			return "MMM D, YYYY"
		}
		return "MMM D"
	}
}

// unevenDaySpacing reports whether day-level gaps between consecutive values
// vary, in which case labels keep the year to stay unambiguous.
func unevenDaySpacing(sorted []time.Time) bool {
	if len(sorted) < 3 {
		return false
	}
	first := sorted[1].Sub(sorted[0])
	for i := 2; i < len(sorted); i++ {
		gap := sorted[i].Sub(sorted[i-1])
		if gap != first {
			return true
		}
	}
	return false
}
