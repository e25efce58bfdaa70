package chartspec

import (
	"errors"
	"fmt"

	"golang.org/x/text/currency"
)

// ============================================================================
// VALIDATION — Config-ingestion gate
// ============================================================================
// Out-of-range values are rejected, never silently clamped. A config that
// passes Validate can be handed to the engine without further shape checks;
// data-shape problems past this point degrade gracefully instead.
// ============================================================================

var (
	// ErrFractionDigitsRange is returned when fraction digit bounds fall
	// outside [0, 20] or minimum exceeds maximum.
	ErrFractionDigitsRange = errors.New("fraction digits out of range")

	// ErrMultiplierRange is returned when a multiplier falls outside
	// [0.001, 1000000].
	ErrMultiplierRange = errors.New("multiplier out of range")

	// ErrSeparatorStyle is returned for any separator other than "," or "".
	ErrSeparatorStyle = errors.New("unsupported number separator style")

	// ErrUnknownChartType is returned for a chart type outside the closed set.
	ErrUnknownChartType = errors.New("unknown chart type")

	// ErrInvalidCurrency is returned for a currency code that is not ISO 4217.
	ErrInvalidCurrency = errors.New("invalid ISO 4217 currency code")
)

const (
	minFractionDigitsBound = 0
	maxFractionDigitsBound = 20
	minMultiplier          = 0.001
	maxMultiplier          = 1_000_000
)

// Validate checks a ColumnLabelFormat at ingestion time.
func (f ColumnLabelFormat) Validate() error {
	if f.MinimumFractionDigits < minFractionDigitsBound || f.MinimumFractionDigits > maxFractionDigitsBound {
		return fmt.Errorf("%w: minimumFractionDigits=%d", ErrFractionDigitsRange, f.MinimumFractionDigits)
	}
	if f.MaximumFractionDigits != nil {
		if *f.MaximumFractionDigits < minFractionDigitsBound || *f.MaximumFractionDigits > maxFractionDigitsBound {
			return fmt.Errorf("%w: maximumFractionDigits=%d", ErrFractionDigitsRange, *f.MaximumFractionDigits)
		}
		if f.MinimumFractionDigits > *f.MaximumFractionDigits {
			return fmt.Errorf("%w: minimum %d exceeds maximum %d",
				ErrFractionDigitsRange, f.MinimumFractionDigits, *f.MaximumFractionDigits)
		}
	}
	if f.Multiplier != 0 && (f.Multiplier < minMultiplier || f.Multiplier > maxMultiplier) {
		return fmt.Errorf("%w: %g", ErrMultiplierRange, f.Multiplier)
	}
	if f.NumberSeparatorStyle != "" && f.NumberSeparatorStyle != "," {
		return fmt.Errorf("%w: %q", ErrSeparatorStyle, f.NumberSeparatorStyle)
	}
	if f.Style == StyleCurrency && f.Currency != "" {
		if _, err := currency.ParseISO(f.Currency); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidCurrency, f.Currency)
		}
	}
	return nil
}

// Validate checks a full ChartConfig at ingestion time.
// It validates the chart type, every column label format, every trendline,
// and pie slice thresholds. Axis presence is not checked here — that is the
// engine's render-time gate, surfaced as a placeholder state rather than an
// error.
func (c ChartConfig) Validate() error {
	if !c.SelectedChartType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownChartType, c.SelectedChartType)
	}

	for col, f := range c.ColumnLabelFormats {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("column %q: %w", col, err)
		}
	}

	for i, t := range c.Trendlines {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("trendline %d: %w", i, err)
		}
	}

	if c.PieMinimumSlicePercentage < 0 || c.PieMinimumSlicePercentage > 100 {
		return fmt.Errorf("pieMinimumSlicePercentage must be within [0, 100], got %g", c.PieMinimumSlicePercentage)
	}

	switch c.BarGroupType {
	case "", GroupModeGroup, GroupModeStack, GroupModePercentageStack:
	default:
		return fmt.Errorf("unknown barGroupType %q", c.BarGroupType)
	}
	switch c.LineGroupType {
	case "", GroupModeGroup, GroupModeStack, GroupModePercentageStack:
	default:
		return fmt.Errorf("unknown lineGroupType %q", c.LineGroupType)
	}

	return nil
}

// Validate checks a trendline declaration.
func (t Trendline) Validate() error {
	switch t.Type {
	case TrendlineMax, TrendlineMin, TrendlineAverage, TrendlineMedian,
		TrendlineLinearRegression, TrendlinePolynomialRegression,
		TrendlineExponentialRegression, TrendlineLogarithmicRegression:
	default:
		return fmt.Errorf("unknown trendline type %q", t.Type)
	}
	if t.ColumnID == "" {
		return errors.New("trendline requires a columnId")
	}
	if t.Type == TrendlinePolynomialRegression && t.PolynomialOrder < 0 {
		return fmt.Errorf("polynomialOrder must be non-negative, got %d", t.PolynomialOrder)
	}
	return nil
}
