package format

import (
	"time"

	"golang.org/x/text/currency"

	"github.com/plotforge/plotforge/chartspec"
)

// ============================================================================
// CURRENCY + CALENDAR UNIT FORMATTING
// ============================================================================

// narrowSymbols maps common ISO 4217 codes to the narrow symbol BI users
// expect ("$" rather than "US$"). Codes not listed fall back to "CODE value".
var narrowSymbols = map[string]string{
	"USD": "$", "EUR": "€", "GBP": "£", "JPY": "¥", "CNY": "¥",
	"KRW": "₩", "INR": "₹", "RUB": "₽", "TRY": "₺", "THB": "฿",
	"VND": "₫", "ILS": "₪", "NGN": "₦", "PHP": "₱", "UAH": "₴",
	"AUD": "A$", "CAD": "C$", "SGD": "S$", "HKD": "HK$", "NZD": "NZ$",
	"MXN": "MX$", "BRL": "R$", "ZAR": "R", "CHF": "CHF ", "SEK": "kr ",
	"NOK": "kr ", "DKK": "kr ", "PLN": "zł ",
}

func formatCurrencyValue(v float64, f chartspec.ColumnLabelFormat) string {
	code := f.Currency
	if code == "" {
		code = "USD"
	}

	body := formatDecimal(v, f)

	unit, err := currency.ParseISO(code)
	if err != nil {
		// Unknown code slipped past validation — degrade to code prefix.
		return code + " " + body
	}
	if sym, ok := narrowSymbols[unit.String()]; ok {
		if v < 0 {
			// "-$12.00" reads better than "$-12.00"
			return "-" + sym + trimLeadingMinus(body)
		}
		return sym + body
	}
	return unit.String() + " " + body
}

func trimLeadingMinus(s string) string {
	if len(s) > 0 && s[0] == '-' {
		return s[1:]
	}
	return s
}

// convertCalendarUnit reinterprets a 0-indexed numeric value as a calendar
// label. Out-of-range values report !ok and fall through to plain number
// formatting.
func convertCalendarUnit(v float64, unit chartspec.ConvertNumberTo) (string, bool) {
	n := int(v)
	if float64(n) != v {
		return "", false
	}

	switch unit {
	case chartspec.ConvertDayOfWeek:
		if n < 0 || n > 6 {
			return "", false
		}
		return time.Weekday(n).String(), true
	case chartspec.ConvertMonthOfYear:
		if n < 0 || n > 11 {
			return "", false
		}
		return time.Month(n + 1).String(), true
	case chartspec.ConvertQuarter:
		if n < 0 || n > 3 {
			return "", false
		}
		return "Q" + string(rune('1'+n)), true
	}
	return "", false
}
