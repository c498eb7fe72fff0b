package forecasting

import (
	"context"
	"errors"
	"testing"
	"time"

	"bakery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubForecaster struct {
	fit func(ctx context.Context) error
}

func (s *stubForecaster) Name() string { return "stub" }

func (s *stubForecaster) Fit(ctx context.Context, _ []models.SeriesPoint, _ models.ForecastParams) (Model, error) {
	if err := s.fit(ctx); err != nil {
		return nil, err
	}
	return nil, errors.New("unreachable")
}

func TestAdapter_Forecast(t *testing.T) {
	series := makeSeries(28, func(i int, _ time.Time) float64 { return 20 + float64(i%7) })
	adapter := NewAdapter(NewSeasonalForecaster(), time.Second)

	run, err := adapter.Forecast(context.Background(), "Bread", series, models.DefaultForecastParams())
	require.NoError(t, err)
	assert.Equal(t, "Bread", run.Product)
	assert.Equal(t, "seasonal", run.Engine)
	assert.Equal(t, series[27].Date, run.HistoryEnd)
	assert.Len(t, run.Points, 28+30)
	assert.Len(t, run.FuturePoints(), 30)
	require.NotNil(t, run.Accuracy)
	assert.Equal(t, 28, run.Accuracy.N)
	assert.False(t, run.GeneratedAt.IsZero())
}

func TestAdapter_InsufficientData(t *testing.T) {
	series := makeSeries(10, func(int, time.Time) float64 { return 5 })
	adapter := NewAdapter(NewSeasonalForecaster(), 0)

	_, err := adapter.Forecast(context.Background(), models.AllProducts, series, models.DefaultForecastParams())
	var insufficient *models.InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 10, insufficient.Observations)
	assert.Equal(t, 14, insufficient.Required)
}

func TestAdapter_DuplicateDatesCountOnce(t *testing.T) {
	series := makeSeries(10, func(int, time.Time) float64 { return 5 })
	series = append(series, series...)

	_, err := NewAdapter(NewSeasonalForecaster(), 0).Forecast(context.Background(), "Bread", series, models.DefaultForecastParams())
	var insufficient *models.InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 10, insufficient.Observations)
}

func TestAdapter_InvalidParams(t *testing.T) {
	params := models.DefaultForecastParams()
	params.HorizonDays = 120

	_, err := NewAdapter(NewSeasonalForecaster(), 0).Forecast(context.Background(), "Bread", makeSeries(30, func(int, time.Time) float64 { return 1 }), params)
	var invalid *models.InvalidParamsError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "forecastPeriodDays", invalid.Field)
}

func TestAdapter_Timeout(t *testing.T) {
	blocking := &stubForecaster{fit: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}

	_, err := NewAdapter(blocking, 10*time.Millisecond).Forecast(context.Background(), "Bread", makeSeries(20, func(int, time.Time) float64 { return 1 }), models.DefaultForecastParams())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestAdapter_EngineFailure(t *testing.T) {
	failing := &stubForecaster{fit: func(context.Context) error { return errors.New("singular matrix") }}

	_, err := NewAdapter(failing, 0).Forecast(context.Background(), "Bread", makeSeries(20, func(int, time.Time) float64 { return 1 }), models.DefaultForecastParams())
	var engineErr *EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, "stub", engineErr.Engine)
	assert.Equal(t, "fit", engineErr.Op)
	assert.Contains(t, err.Error(), "singular matrix")
}
