package models

import (
	"math"
	"time"
)

// SeasonalityMode selects how seasonal effects combine with the trend.
type SeasonalityMode string

const (
	SeasonalityAdditive       SeasonalityMode = "additive"
	SeasonalityMultiplicative SeasonalityMode = "multiplicative"
)

// Parameter bounds accepted at the configuration boundary.
const (
	MinHorizonDays             = 7
	MaxHorizonDays             = 90
	MinTrendFlexibility        = 0.001
	MaxTrendFlexibility        = 0.5
	MinSeasonalityFlexibility  = 0.01
	MaxSeasonalityFlexibility  = 10.0
	MinForecastObservations    = 14
	DefaultBufferPercentage    = 10.0
	MaxBufferPercentage        = 100.0
	DefaultHorizonDays         = 30
	DefaultTrendFlexibility    = 0.05
	DefaultSeasonalFlexibility = 10.0
)

// ForecastParams configures a single forecasting run.
type ForecastParams struct {
	SeasonalityMode        SeasonalityMode `json:"seasonalityMode" yaml:"seasonality_mode"`
	TrendFlexibility       float64         `json:"trendFlexibility" yaml:"trend_flexibility"`
	SeasonalityFlexibility float64         `json:"seasonalityFlexibility" yaml:"seasonality_flexibility"`
	HorizonDays            int             `json:"forecastPeriodDays" yaml:"forecast_period_days"`
}

// DefaultForecastParams mirrors the defaults of the dashboard controls.
func DefaultForecastParams() ForecastParams {
	return ForecastParams{
		SeasonalityMode:        SeasonalityAdditive,
		TrendFlexibility:       DefaultTrendFlexibility,
		SeasonalityFlexibility: DefaultSeasonalFlexibility,
		HorizonDays:            DefaultHorizonDays,
	}
}

// Validate checks every parameter against its accepted range.
func (p ForecastParams) Validate() error {
	switch p.SeasonalityMode {
	case SeasonalityAdditive, SeasonalityMultiplicative:
	default:
		return &InvalidParamsError{Field: "seasonalityMode", Reason: "must be additive or multiplicative"}
	}
	if !inRange(p.TrendFlexibility, MinTrendFlexibility, MaxTrendFlexibility) {
		return &InvalidParamsError{Field: "trendFlexibility", Reason: "must be between 0.001 and 0.5"}
	}
	if !inRange(p.SeasonalityFlexibility, MinSeasonalityFlexibility, MaxSeasonalityFlexibility) {
		return &InvalidParamsError{Field: "seasonalityFlexibility", Reason: "must be between 0.01 and 10"}
	}
	if p.HorizonDays < MinHorizonDays || p.HorizonDays > MaxHorizonDays {
		return &InvalidParamsError{Field: "forecastPeriodDays", Reason: "must be between 7 and 90"}
	}
	return nil
}

// inRange is false for NaN.
func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}

// ForecastPoint is one predicted day with its confidence band.
type ForecastPoint struct {
	Date     time.Time `json:"date"`
	Estimate float64   `json:"forecast"`
	Lower    float64   `json:"lowerBound"`
	Upper    float64   `json:"upperBound"`
}

// AccuracyMetrics compares in-sample predictions with observed history.
type AccuracyMetrics struct {
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	MAPE float64 `json:"mape"`
	N    int     `json:"n"`
}

// ForecastRun is the stored outcome of one forecast request.
type ForecastRun struct {
	Product     string           `json:"product"`
	Engine      string           `json:"engine"`
	Params      ForecastParams   `json:"params"`
	HistoryEnd  time.Time        `json:"historyEnd"`
	Points      []ForecastPoint  `json:"points"`
	Accuracy    *AccuracyMetrics `json:"accuracy,omitempty"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// FuturePoints returns the points dated after the last observed day.
func (r *ForecastRun) FuturePoints() []ForecastPoint {
	out := make([]ForecastPoint, 0, r.Params.HorizonDays)
	for _, p := range r.Points {
		if p.Date.After(r.HistoryEnd) {
			out = append(out, p)
		}
	}
	return out
}
