package chartspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// VALIDATION TESTS
// ============================================================================

func fractionDigits(n int) *int { return &n }

func TestColumnLabelFormatValidateBounds(t *testing.T) {
	f := DefaultColumnLabelFormat(ColumnTypeNumber)
	require.NoError(t, f.Validate())

	f.MaximumFractionDigits = fractionDigits(21)
	assert.ErrorIs(t, f.Validate(), ErrFractionDigitsRange)

	// An explicit zero is a valid bound, distinct from unset.
	f.MaximumFractionDigits = fractionDigits(0)
	assert.NoError(t, f.Validate())

	f = DefaultColumnLabelFormat(ColumnTypeNumber)
	f.MinimumFractionDigits = 5
	f.MaximumFractionDigits = fractionDigits(2)
	assert.ErrorIs(t, f.Validate(), ErrFractionDigitsRange)

	f = DefaultColumnLabelFormat(ColumnTypeNumber)
	f.MinimumFractionDigits = -1
	assert.ErrorIs(t, f.Validate(), ErrFractionDigitsRange)
}

func TestColumnLabelFormatValidateMultiplier(t *testing.T) {
	f := DefaultColumnLabelFormat(ColumnTypeNumber)

	f.Multiplier = 0.0001
	assert.ErrorIs(t, f.Validate(), ErrMultiplierRange)

	f.Multiplier = 2_000_000
	assert.ErrorIs(t, f.Validate(), ErrMultiplierRange)

	f.Multiplier = 1000
	assert.NoError(t, f.Validate())
}

func TestColumnLabelFormatValidateSeparator(t *testing.T) {
	f := DefaultColumnLabelFormat(ColumnTypeNumber)

	f.NumberSeparatorStyle = "."
	assert.ErrorIs(t, f.Validate(), ErrSeparatorStyle)

	f.NumberSeparatorStyle = ""
	assert.NoError(t, f.Validate())

	f.NumberSeparatorStyle = ","
	assert.NoError(t, f.Validate())
}

func TestColumnLabelFormatValidateCurrency(t *testing.T) {
	f := DefaultColumnLabelFormat(ColumnTypeNumber)
	f.Style = StyleCurrency

	f.Currency = "EUR"
	assert.NoError(t, f.Validate())

	f.Currency = "NOPE"
	assert.ErrorIs(t, f.Validate(), ErrInvalidCurrency)
}

func TestChartConfigValidate(t *testing.T) {
	cfg := DefaultChartConfig()
	require.NoError(t, cfg.Validate())

	cfg.SelectedChartType = "sankey"
	assert.ErrorIs(t, cfg.Validate(), ErrUnknownChartType)

	cfg = DefaultChartConfig()
	bad := DefaultColumnLabelFormat(ColumnTypeNumber)
	bad.MaximumFractionDigits = fractionDigits(99)
	cfg.ColumnLabelFormats["revenue"] = bad
	assert.ErrorIs(t, cfg.Validate(), ErrFractionDigitsRange)

	cfg = DefaultChartConfig()
	cfg.PieMinimumSlicePercentage = 120
	assert.Error(t, cfg.Validate())

	cfg = DefaultChartConfig()
	cfg.BarGroupType = "overlap"
	assert.Error(t, cfg.Validate())
}

func TestTrendlineValidate(t *testing.T) {
	tl := DefaultTrendline(TrendlineLinearRegression, "revenue")
	require.NoError(t, tl.Validate())

	tl.Type = "loess"
	assert.Error(t, tl.Validate())

	tl = DefaultTrendline(TrendlineMax, "")
	assert.Error(t, tl.Validate())

	tl = DefaultTrendline(TrendlinePolynomialRegression, "revenue")
	tl.PolynomialOrder = -1
	assert.Error(t, tl.Validate())
}

func TestHumanizeColumnID(t *testing.T) {
	assert.Equal(t, "Total Revenue", HumanizeColumnID("total_revenue"))
	assert.Equal(t, "Order Count", HumanizeColumnID("order-count"))
	assert.Equal(t, "Sales", HumanizeColumnID("sales"))
}

func TestAxisForSelectsPerTypeMapping(t *testing.T) {
	cfg := DefaultChartConfig()
	cfg.BarAndLineAxis = AxisMapping{X: []string{"month"}, Y: []string{"revenue"}}
	cfg.ScatterAxis = AxisMapping{X: []string{"spend"}, Y: []string{"clicks"}}

	assert.Equal(t, []string{"month"}, cfg.AxisFor(ChartTypeBar).X)
	assert.Equal(t, []string{"month"}, cfg.AxisFor(ChartTypeLine).X)
	assert.Equal(t, []string{"spend"}, cfg.AxisFor(ChartTypeScatter).X)
	assert.Empty(t, cfg.AxisFor(ChartTypeTable).X)
}
