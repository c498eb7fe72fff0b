package models

import "time"

// RiskLevel classifies a plan day by the width of its uncertainty band.
type RiskLevel string

const (
	RiskNormal RiskLevel = "Normal"
	RiskHigh   RiskLevel = "High"
)

// NotAvailable is the placeholder used when a statistic cannot be computed.
const NotAvailable = "N/A"

// ProductionPlanRow is one day of the buffered production plan.
type ProductionPlanRow struct {
	Date                  time.Time `json:"date"`
	ForecastedSales       int       `json:"forecastedSales"`
	RecommendedProduction int       `json:"recommendedProduction"`
	MinProduction         int       `json:"minProduction"`
	MaxProduction         int       `json:"maxProduction"`
	Uncertainty           int       `json:"uncertainty"`
	RiskLevel             RiskLevel `json:"riskLevel"`
}

// RecommendationBundle is everything derived from one forecast run.
type RecommendationBundle struct {
	Product                   string              `json:"product"`
	DailyPlan                 []ProductionPlanRow `json:"dailyPlan"`
	HighRiskDays              []ProductionPlanRow `json:"highRiskDays"`
	AvgDailyProduction        float64             `json:"avgDailyProduction"`
	TotalProduction           int                 `json:"totalProduction"`
	PeakProduction            int                 `json:"peakProduction"`
	PeakProductionDate        string              `json:"peakProductionDate"`
	BufferPercentage          float64             `json:"bufferPercentage"`
	RiskAssessment            string              `json:"riskAssessment"`
	AdditionalRecommendations string              `json:"additionalRecommendations"`
	Warnings                  []Diagnostic        `json:"warnings,omitempty"`
}
