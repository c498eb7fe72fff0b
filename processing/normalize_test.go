package processing

import (
	"math"
	"testing"
	"time"

	"bakery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalize_SortsAndEnriches(t *testing.T) {
	table := newTable(
		[]string{"Sales Date", "Product Type", "Units Sold", "Total Sales", "Cost Price"},
		[]string{"2024-01-03", "Baguette", "10", "$30.00", "12"},
		[]string{"2024-01-01", "Croissant", "20", "60", "20"},
		[]string{"2024-01-02", "Croissant", "15", "1,045.50", "15"},
	)

	res, err := Normalize(table, DefaultSynonyms())
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	first := res.Records[0]
	assert.Equal(t, day(2024, 1, 1), first.Date)
	assert.Equal(t, "Croissant", first.Item)
	assert.Equal(t, 40.0, first.Profit)
	assert.InDelta(t, 66.666, first.ProfitMargin, 0.001)
	assert.Equal(t, "Monday", first.DayOfWeek)
	assert.Equal(t, "January", first.Month)
	assert.Equal(t, 2024, first.Year)
	assert.Equal(t, 1, first.Day)
	assert.Equal(t, 1, first.WeekOfYear)

	assert.Equal(t, 1045.5, res.Records[1].Revenue)
	assert.Equal(t, 30.0, res.Records[2].Revenue)
	assert.Empty(t, res.Diagnostics)
	assert.False(t, res.LenientDate)
}

func TestNormalize_DropsAndDefaults(t *testing.T) {
	table := newTable(canonicalHeaders,
		[]string{"2024-01-01", "Croissant", "20", "60", "20"},
		[]string{"", "Croissant", "20", "60", "20"},
		[]string{"2024-01-02", "", "20", "60", "20"},
		[]string{"2024-01-03", "Scone", "lots", "60", "20"},
		[]string{"2024-01-04", "Scone", "-3", "60", "20"},
		[]string{"2024-01-05", "Scone", "7", "", "abc"},
	)

	res, err := Normalize(table, DefaultSynonyms())
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 4, res.Dropped)

	last := res.Records[1]
	assert.Equal(t, 0.0, last.Revenue)
	assert.Equal(t, 0.0, last.Cogs)
	assert.Equal(t, 0.0, last.ProfitMargin)

	kinds := map[models.DiagnosticKind]int{}
	for _, d := range res.Diagnostics {
		kinds[d.Kind] += d.Count
	}
	assert.Equal(t, 4, kinds[models.DroppedRowsWarning])
	assert.Equal(t, 2, kinds[models.NumericCoercionWarning])

	for _, r := range res.Records {
		assert.False(t, r.Date.IsZero())
		assert.NotEmpty(t, r.Item)
	}
}

func TestNormalize_MarginIsAlwaysFinite(t *testing.T) {
	table := newTable(canonicalHeaders,
		[]string{"2024-01-01", "Croissant", "1", "0", "5"},
		[]string{"2024-01-02", "Croissant", "1", "0", "0"},
		[]string{"2024-01-03", "Croissant", "1", "-10", "5"},
	)

	res, err := Normalize(table, DefaultSynonyms())
	require.NoError(t, err)

	for _, r := range res.Records {
		assert.False(t, math.IsNaN(r.ProfitMargin))
		assert.False(t, math.IsInf(r.ProfitMargin, 0))
	}
	assert.Equal(t, 0.0, res.Records[0].ProfitMargin)
	assert.Equal(t, -5.0, res.Records[0].Profit)
	assert.Equal(t, 150.0, res.Records[2].ProfitMargin)
}

func TestNormalize_StableForEqualDates(t *testing.T) {
	table := newTable(canonicalHeaders,
		[]string{"2024-01-02", "A", "1", "1", "1"},
		[]string{"2024-01-01", "B", "1", "1", "1"},
		[]string{"2024-01-02", "C", "1", "1", "1"},
		[]string{"2024-01-01", "D", "1", "1", "1"},
	)

	res, err := Normalize(table, DefaultSynonyms())
	require.NoError(t, err)

	items := []string{}
	for _, r := range res.Records {
		items = append(items, r.Item)
	}
	assert.Equal(t, []string{"B", "D", "A", "C"}, items)
}

func TestNormalize_MixedDateFormatsUseLenientPass(t *testing.T) {
	table := newTable(canonicalHeaders,
		[]string{"2024-01-01", "A", "1", "1", "1"},
		[]string{"01/05/2024", "A", "1", "1", "1"},
		[]string{"Jan 3, 2024", "A", "1", "1", "1"},
		[]string{"someday", "A", "1", "1", "1"},
	)

	res, err := Normalize(table, DefaultSynonyms())
	require.NoError(t, err)

	assert.True(t, res.LenientDate)
	require.Len(t, res.Records, 3)
	assert.Equal(t, day(2024, 1, 1), res.Records[0].Date)
	assert.Equal(t, day(2024, 1, 3), res.Records[1].Date)
	assert.Equal(t, day(2024, 1, 5), res.Records[2].Date)
	assert.Equal(t, 1, res.Dropped)
}

func TestNormalize_TimestampsCollapseToCalendarDates(t *testing.T) {
	table := newTable(canonicalHeaders,
		[]string{"2024-01-01T18:30:00Z", "A", "1", "1", "1"},
		[]string{"2024-01-01T07:00:00Z", "B", "1", "1", "1"},
	)

	res, err := Normalize(table, DefaultSynonyms())
	require.NoError(t, err)

	assert.Equal(t, day(2024, 1, 1), res.Records[0].Date)
	assert.Equal(t, res.Records[0].Date, res.Records[1].Date)
}

func TestNormalize_UnparseableDateColumn(t *testing.T) {
	table := newTable(canonicalHeaders,
		[]string{"soon", "A", "1", "1", "1"},
		[]string{"later", "A", "1", "1", "1"},
	)

	_, err := Normalize(table, DefaultSynonyms())

	var dateErr *models.DateParseError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "date", dateErr.Column)
	assert.Equal(t, "soon", dateErr.Sample)
}

func TestNormalize_SchemaError(t *testing.T) {
	table := newTable([]string{"date", "item", "quantity"}, []string{"2024-01-01", "A", "1"})

	_, err := Normalize(table, DefaultSynonyms())

	var schemaErr *models.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []models.CanonicalField{models.FieldRevenue, models.FieldCogs}, schemaErr.Missing)
}

func TestNormalize_EmptyInput(t *testing.T) {
	_, err := Normalize(newTable(canonicalHeaders), DefaultSynonyms())

	var empty *models.EmptyInputError
	require.ErrorAs(t, err, &empty)
}
