package processing

import (
	"testing"

	"bakery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords(t *testing.T) []models.EnrichedRecord {
	t.Helper()
	table := newTable(canonicalHeaders,
		[]string{"2024-01-01", "Croissant", "20", "60", "20"},
		[]string{"2024-01-01", "Baguette", "10", "30", "10"},
		[]string{"2024-01-02", "Croissant", "30", "90", "30"},
		[]string{"2024-01-08", "Scone", "5", "10", "5"},
		[]string{"2024-02-05", "Baguette", "50", "150", "50"},
	)
	res, err := Normalize(table, DefaultSynonyms())
	require.NoError(t, err)
	return res.Records
}

func TestSummary(t *testing.T) {
	s := Summary(sampleRecords(t))

	assert.Equal(t, 5, s.Rows)
	assert.Equal(t, []string{"Baguette", "Croissant", "Scone"}, s.Products)
	assert.Equal(t, day(2024, 1, 1), s.StartDate)
	assert.Equal(t, day(2024, 2, 5), s.EndDate)
	assert.Equal(t, 115.0, s.TotalQuantity)
	assert.Equal(t, 340.0, s.TotalRevenue)
	assert.Equal(t, 225.0, s.TotalProfit)
}

func TestProductDistribution(t *testing.T) {
	dist := ProductDistribution(sampleRecords(t), 2)

	require.Len(t, dist, 2)
	assert.Equal(t, models.ProductQuantity{Item: "Baguette", Quantity: 60}, dist[0])
	assert.Equal(t, models.ProductQuantity{Item: "Croissant", Quantity: 50}, dist[1])
}

func TestDailyRevenue(t *testing.T) {
	daily := DailyRevenue(sampleRecords(t))

	require.Len(t, daily, 4)
	assert.Equal(t, day(2024, 1, 1), daily[0].Date)
	assert.Equal(t, 90.0, daily[0].Revenue)
}

func TestWeekdayAndMonthlyAverages(t *testing.T) {
	records := sampleRecords(t)

	weekdays := WeekdayAverages(records)
	require.Len(t, weekdays, 2)
	// Mondays: Jan 1 (30), Jan 8 (5), Feb 5 (50)
	assert.Equal(t, "Monday", weekdays[0].Period)
	assert.InDelta(t, 85.0/3, weekdays[0].Quantity, 1e-9)
	assert.Equal(t, "Tuesday", weekdays[1].Period)
	assert.Equal(t, 30.0, weekdays[1].Quantity)

	months := MonthlyAverages(records)
	require.Len(t, months, 2)
	assert.Equal(t, "January", months[0].Period)
	assert.InDelta(t, 65.0/3, months[0].Quantity, 1e-9)
	assert.Equal(t, "February", months[1].Period)
}

func TestSummarize_Empty(t *testing.T) {
	a := Summarize(nil)

	assert.Equal(t, 0, a.Summary.Rows)
	assert.Empty(t, a.DailyRevenue)
	assert.Empty(t, a.WeekdayAverages)
}
