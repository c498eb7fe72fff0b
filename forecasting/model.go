// Package forecasting shapes sales series for a forecasting engine and runs it.
package forecasting

import (
	"context"

	"bakery/models"
)

// Forecaster fits a model to a daily series. Implementations treat the series
// as read-only and may assume one observation per date in ascending order.
type Forecaster interface {
	Name() string
	Fit(ctx context.Context, series []models.SeriesPoint, params models.ForecastParams) (Model, error)
}

// Model predicts a fitted series forward. Predict may include in-sample points
// for the historical dates; callers tell them apart by date.
type Model interface {
	Predict(ctx context.Context, horizonDays int) ([]models.ForecastPoint, error)
}
