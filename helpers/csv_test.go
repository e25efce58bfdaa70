package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotforge/plotforge/chartspec"
)

// ============================================================================
// CSV PARSING TESTS
// ============================================================================

const salesCSV = `Order Date,totalRevenue,Region
2024-01-05,"1,200.50",East
2024-02-10,$800,West
2024-03-15,950.25,East
`

func TestParseCSVSnakeCasesHeaders(t *testing.T) {
	rows, metadata, err := ParseCSV([]byte(salesCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Len(t, metadata, 3)

	assert.Equal(t, "order_date", metadata[0].Name)
	assert.Equal(t, "total_revenue", metadata[1].Name)
	assert.Equal(t, "region", metadata[2].Name)
}

func TestParseCSVTypeInference(t *testing.T) {
	_, metadata, err := ParseCSV([]byte(salesCSV))
	require.NoError(t, err)

	assert.Equal(t, chartspec.ColumnTypeDate, metadata[0].SimpleType)
	assert.Equal(t, chartspec.ColumnTypeNumber, metadata[1].SimpleType)
	assert.Equal(t, chartspec.ColumnTypeText, metadata[2].SimpleType)
}

func TestParseCSVTypedCells(t *testing.T) {
	rows, _, err := ParseCSV([]byte(salesCSV))
	require.NoError(t, err)

	// Decorated numbers parse to float64, dates stay as strings.
	assert.Equal(t, 1200.50, rows[0]["total_revenue"])
	assert.Equal(t, 800.0, rows[1]["total_revenue"])
	assert.Equal(t, "2024-01-05", rows[0]["order_date"])
	assert.Equal(t, "East", rows[0]["region"])
}

func TestParseCSVMetadataRanges(t *testing.T) {
	_, metadata, err := ParseCSV([]byte(salesCSV))
	require.NoError(t, err)

	revenue := metadata[1]
	assert.Equal(t, 800.0, revenue.MinValue)
	assert.Equal(t, 1200.50, revenue.MaxValue)
	assert.Equal(t, 3, revenue.UniqueValues)

	region := metadata[2]
	assert.Equal(t, 2, region.UniqueValues)
}

func TestParseCSVNullishCells(t *testing.T) {
	csv := "name,score\nAlice,10\nBob,null\nCara,N/A\n"
	rows, _, err := ParseCSV([]byte(csv))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 10.0, rows[0]["score"])
	assert.Nil(t, rows[1]["score"])
	assert.Nil(t, rows[2]["score"])
}

func TestParseCSVShortRowPadsNil(t *testing.T) {
	csv := "name,score\nAlice,10\nBob\n"
	rows, _, err := ParseCSV([]byte(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Bob", rows[1]["name"])
	assert.Nil(t, rows[1]["score"])
}

func TestParseCSVRejectsEmptyInput(t *testing.T) {
	_, _, err := ParseCSV(nil)
	assert.Error(t, err)

	_, _, err = ParseCSV([]byte("name,score\n"))
	assert.Error(t, err)
}

// ============================================================================
// DEFAULT FORMATS
// ============================================================================

func TestDefaultFormatsMatchColumnTypes(t *testing.T) {
	metadata := []chartspec.ColumnMetadata{
		{Name: "order_date", SimpleType: chartspec.ColumnTypeDate},
		{Name: "total_revenue", SimpleType: chartspec.ColumnTypeNumber},
		{Name: "region", SimpleType: chartspec.ColumnTypeText},
	}
	formats := DefaultFormats(metadata)

	require.Len(t, formats, 3)
	assert.Equal(t, chartspec.StyleDate, formats["order_date"].Style)
	assert.Equal(t, chartspec.StyleNumber, formats["total_revenue"].Style)
	assert.Equal(t, chartspec.StyleString, formats["region"].Style)
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"Order Date":   "order_date",
		"totalRevenue": "total_revenue",
		"REGION":       "region",
		"unit-price":   "unit_price",
		"already_ok":   "already_ok",
	}
	for in, want := range cases {
		assert.Equal(t, want, toSnakeCase(in), in)
	}
}
