package forecasting

import (
	"time"

	"bakery/models"
)

var seriesStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // a Monday

func makeSeries(n int, qty func(i int, d time.Time) float64) []models.SeriesPoint {
	out := make([]models.SeriesPoint, n)
	for i := range out {
		d := seriesStart.AddDate(0, 0, i)
		out[i] = models.SeriesPoint{Date: d, Quantity: qty(i, d)}
	}
	return out
}

func future(points []models.ForecastPoint, last time.Time) []models.ForecastPoint {
	var out []models.ForecastPoint
	for _, p := range points {
		if p.Date.After(last) {
			out = append(out, p)
		}
	}
	return out
}
