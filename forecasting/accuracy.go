package forecasting

import (
	"math"
	"time"

	"bakery/models"
)

// Evaluate scores in-sample predictions against the observed series. MAPE
// skips days with zero actual sales. It returns nil when no prediction shares
// a date with the series.
func Evaluate(series []models.SeriesPoint, points []models.ForecastPoint) *models.AccuracyMetrics {
	predicted := make(map[time.Time]float64, len(points))
	for _, p := range points {
		predicted[p.Date] = p.Estimate
	}

	var sq, abs, pct float64
	var n, pctN int
	for _, s := range series {
		est, ok := predicted[s.Date]
		if !ok {
			continue
		}
		e := s.Quantity - est
		sq += e * e
		abs += math.Abs(e)
		n++
		if s.Quantity != 0 {
			pct += math.Abs(e / s.Quantity)
			pctN++
		}
	}
	if n == 0 {
		return nil
	}

	m := &models.AccuracyMetrics{
		MSE: sq / float64(n),
		MAE: abs / float64(n),
		N:   n,
	}
	m.RMSE = math.Sqrt(m.MSE)
	if pctN > 0 {
		m.MAPE = pct / float64(pctN) * 100
	}
	return m
}
