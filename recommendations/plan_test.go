package recommendations

import (
	"math"
	"testing"
	"time"

	"bakery/models"
	"bakery/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var planStart = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC) // a Monday

func points(estimates ...float64) []models.ForecastPoint {
	out := make([]models.ForecastPoint, len(estimates))
	for i, e := range estimates {
		out[i] = models.ForecastPoint{
			Date:     planStart.AddDate(0, 0, i),
			Estimate: e,
			Lower:    e * 0.8,
			Upper:    e * 1.3,
		}
	}
	return out
}

func TestBuildPlan_BufferedScenario(t *testing.T) {
	pts := []models.ForecastPoint{{Date: planStart, Estimate: 100, Lower: 80, Upper: 130}}

	bundle := BuildPlan(pts, "Croissant", 10, planStart)
	require.Len(t, bundle.DailyPlan, 1)
	row := bundle.DailyPlan[0]
	assert.Equal(t, 100, row.ForecastedSales)
	assert.Equal(t, 110, row.RecommendedProduction)
	assert.Equal(t, 88, row.MinProduction)
	assert.Equal(t, 143, row.MaxProduction)
	assert.Equal(t, 55, row.Uncertainty)
	assert.Equal(t, models.RiskNormal, row.RiskLevel)

	assert.Equal(t, 110, bundle.TotalProduction)
	assert.Equal(t, 110, bundle.PeakProduction)
	assert.Equal(t, "2024-03-04", bundle.PeakProductionDate)
	assert.Equal(t, 110.0, bundle.AvgDailyProduction)
	assert.Equal(t, 10.0, bundle.BufferPercentage)
	assert.Empty(t, bundle.HighRiskDays)
	assert.Empty(t, bundle.Warnings)
}

func TestBuildPlan_FiltersPastPoints(t *testing.T) {
	pts := points(10, 20, 30, 40)

	bundle := BuildPlan(pts, models.AllProducts, 0, planStart.AddDate(0, 0, 2))
	require.Len(t, bundle.DailyPlan, 2)
	assert.Equal(t, planStart.AddDate(0, 0, 2), bundle.DailyPlan[0].Date)
	assert.Equal(t, 70, bundle.TotalProduction)
}

func TestBuildPlan_Empty(t *testing.T) {
	for _, pts := range [][]models.ForecastPoint{nil, points(10, 20)} {
		bundle := BuildPlan(pts, models.AllProducts, 10, planStart.AddDate(1, 0, 0))
		assert.Empty(t, bundle.DailyPlan)
		assert.Empty(t, bundle.HighRiskDays)
		assert.Zero(t, bundle.AvgDailyProduction)
		assert.Zero(t, bundle.TotalProduction)
		assert.Zero(t, bundle.PeakProduction)
		assert.Equal(t, "N/A", bundle.PeakProductionDate)
		require.Len(t, bundle.Warnings, 1)
		assert.Equal(t, models.EmptyForecastWarning, bundle.Warnings[0].Kind)
		assert.Contains(t, bundle.AdditionalRecommendations, "**No Production Data Available**")
	}
}

func TestBuildPlan_SingleRowIsNormal(t *testing.T) {
	pts := []models.ForecastPoint{{Date: planStart, Estimate: 10, Lower: 0, Upper: 1000}}

	bundle := BuildPlan(pts, models.AllProducts, 10, planStart)
	require.Len(t, bundle.DailyPlan, 1)
	assert.Equal(t, models.RiskNormal, bundle.DailyPlan[0].RiskLevel)
	assert.Empty(t, bundle.HighRiskDays)
}

func TestBuildPlan_RiskThreshold(t *testing.T) {
	var pts []models.ForecastPoint
	for i := 0; i < 10; i++ {
		pts = append(pts, models.ForecastPoint{Date: planStart.AddDate(0, 0, i), Estimate: 50, Lower: 45, Upper: 55})
	}
	pts[6].Lower, pts[6].Upper = 10, 120

	bundle := BuildPlan(pts, models.AllProducts, 0, planStart)
	require.Len(t, bundle.HighRiskDays, 1)
	assert.Equal(t, planStart.AddDate(0, 0, 6), bundle.HighRiskDays[0].Date)
	assert.Equal(t, models.RiskHigh, bundle.DailyPlan[6].RiskLevel)

	widths := make([]float64, len(bundle.DailyPlan))
	for i, row := range bundle.DailyPlan {
		widths[i] = float64(row.Uncertainty)
	}
	threshold := utils.Mean(widths) + 1.5*utils.SampleStdDev(widths)
	for _, row := range bundle.DailyPlan {
		assert.Equal(t, float64(row.Uncertainty) > threshold, row.RiskLevel == models.RiskHigh)
	}
}

func TestBuildPlan_UniformUncertaintyHasNoRisk(t *testing.T) {
	bundle := BuildPlan(points(50, 50, 50, 50), models.AllProducts, 10, planStart)
	assert.Empty(t, bundle.HighRiskDays)
	for _, row := range bundle.DailyPlan {
		assert.Equal(t, models.RiskNormal, row.RiskLevel)
	}
}

func TestBuildPlan_RecommendedMonotonicInBuffer(t *testing.T) {
	for _, estimate := range []float64{0, 0.4, 7.3, 99.99, 100, 1234.5} {
		prev := math.MinInt
		for buffer := 0.0; buffer <= 100; buffer += 2.5 {
			got := buffered(estimate, buffer)
			assert.GreaterOrEqual(t, got, prev, "estimate %v buffer %v", estimate, buffer)
			prev = got
		}
	}
}

func TestBuildPlan_PeakIsFirstMaximum(t *testing.T) {
	bundle := BuildPlan(points(10, 30, 20, 30), models.AllProducts, 0, planStart)
	assert.Equal(t, 30, bundle.PeakProduction)
	assert.Equal(t, "2024-03-05", bundle.PeakProductionDate)
	assert.Equal(t, 90, bundle.TotalProduction)
	assert.Equal(t, 22.5, bundle.AvgDailyProduction)
}

func TestBuildPlan_PathologicalBufferKeepsInversion(t *testing.T) {
	pts := []models.ForecastPoint{{Date: planStart, Estimate: 100, Lower: 80, Upper: 130}}

	bundle := BuildPlan(pts, models.AllProducts, -150, planStart)
	row := bundle.DailyPlan[0]
	assert.Equal(t, -50, row.RecommendedProduction)
	assert.Equal(t, -40, row.MinProduction)
	assert.Equal(t, -65, row.MaxProduction)
	assert.Equal(t, -25, row.Uncertainty)
}

func TestValidateBuffer(t *testing.T) {
	assert.NoError(t, ValidateBuffer(0))
	assert.NoError(t, ValidateBuffer(10))
	assert.NoError(t, ValidateBuffer(100))

	for _, bad := range []float64{-1, 100.5, math.NaN()} {
		var invalid *models.InvalidParamsError
		assert.ErrorAs(t, ValidateBuffer(bad), &invalid)
	}
}
