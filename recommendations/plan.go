// Package recommendations turns a forecast into a buffered production plan.
package recommendations

import (
	"fmt"
	"math"
	"time"

	"bakery/models"
	"bakery/utils"
)

// riskSpread is the number of standard deviations above the mean uncertainty
// at which a day is flagged High.
const riskSpread = 1.5

// ValidateBuffer checks a caller-supplied buffer percentage.
func ValidateBuffer(bufferPercentage float64) error {
	if math.IsNaN(bufferPercentage) || bufferPercentage < 0 || bufferPercentage > models.MaxBufferPercentage {
		return &models.InvalidParamsError{Field: "bufferPercentage", Reason: "must be between 0 and 100"}
	}
	return nil
}

// BuildPlan converts the forecast points dated on or after now into a daily
// production plan with risk flags, aggregates and prose. It never fails: an
// empty future yields a zero plan with placeholder text.
//
// The buffer is applied to the estimate and to both bounds independently, so
// a negative buffer can leave Min above Max. BuildPlan does not correct it;
// callers validate the buffer with ValidateBuffer.
func BuildPlan(points []models.ForecastPoint, product string, bufferPercentage float64, now time.Time) *models.RecommendationBundle {
	plan := make([]models.ProductionPlanRow, 0, len(points))
	for _, p := range points {
		if p.Date.Before(now) {
			continue
		}
		row := models.ProductionPlanRow{
			Date:                  p.Date,
			ForecastedSales:       int(math.RoundToEven(p.Estimate)),
			RecommendedProduction: buffered(p.Estimate, bufferPercentage),
			MinProduction:         buffered(p.Lower, bufferPercentage),
			MaxProduction:         buffered(p.Upper, bufferPercentage),
			RiskLevel:             models.RiskNormal,
		}
		row.Uncertainty = row.MaxProduction - row.MinProduction
		plan = append(plan, row)
	}

	highRisk := classifyRisk(plan)

	bundle := &models.RecommendationBundle{
		Product:            product,
		DailyPlan:          plan,
		HighRiskDays:       highRisk,
		PeakProductionDate: models.NotAvailable,
		BufferPercentage:   bufferPercentage,
	}
	if len(plan) == 0 {
		bundle.Warnings = append(bundle.Warnings, models.Diagnostic{
			Kind:    models.EmptyForecastWarning,
			Message: fmt.Sprintf("No forecast days on or after %s", now.Format("2006-01-02")),
		})
	} else {
		peak := plan[0]
		for _, row := range plan {
			bundle.TotalProduction += row.RecommendedProduction
			if row.RecommendedProduction > peak.RecommendedProduction {
				peak = row
			}
		}
		bundle.AvgDailyProduction = float64(bundle.TotalProduction) / float64(len(plan))
		bundle.PeakProduction = peak.RecommendedProduction
		bundle.PeakProductionDate = peak.Date.Format("2006-01-02")
	}

	bundle.RiskAssessment = RiskAssessment(len(highRisk))
	bundle.AdditionalRecommendations = AdditionalRecommendations(plan, product, bundle.AvgDailyProduction, bundle.PeakProduction)
	return bundle
}

// buffered scales v by the buffer and rounds up. The product is snapped to
// six decimals first so that 100*1.1 yields 110, not 111.
func buffered(v, bufferPercentage float64) int {
	scaled := v * (100 + bufferPercentage) / 100
	return int(math.Ceil(math.Round(scaled*1e6) / 1e6))
}

// classifyRisk flags rows whose uncertainty strictly exceeds the mean plus
// riskSpread sample standard deviations and returns them.
func classifyRisk(plan []models.ProductionPlanRow) []models.ProductionPlanRow {
	high := make([]models.ProductionPlanRow, 0)
	if len(plan) <= 1 {
		return high
	}
	widths := make([]float64, len(plan))
	for i, row := range plan {
		widths[i] = float64(row.Uncertainty)
	}
	threshold := utils.Mean(widths) + riskSpread*utils.SampleStdDev(widths)
	for i := range plan {
		if widths[i] > threshold {
			plan[i].RiskLevel = models.RiskHigh
			high = append(high, plan[i])
		}
	}
	return high
}
