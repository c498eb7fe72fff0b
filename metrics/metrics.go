// Package metrics provides Prometheus metrics for the forecasting pipeline
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bakery_uploads_total",
			Help: "Total number of dataset uploads",
		},
		[]string{"source", "status"},
	)

	RowsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bakery_rows_ingested_total",
			Help: "Total number of rows kept after normalization",
		},
		[]string{"source"},
	)

	RowsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bakery_rows_dropped_total",
			Help: "Total number of rows dropped during normalization",
		},
		[]string{"source"},
	)

	ValidationIssues = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bakery_validation_issues_total",
			Help: "Total number of hard validation issues",
		},
		[]string{"source"},
	)

	// Forecast metrics
	ForecastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bakery_forecasts_total",
			Help: "Total number of forecast runs",
		},
		[]string{"engine", "status"},
	)

	ForecastDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bakery_forecast_duration_seconds",
			Help:    "Time taken to fit and predict a forecast",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"engine"},
	)

	// Recommendation metrics
	HighRiskDays = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bakery_high_risk_days_total",
			Help: "Total number of plan days flagged high risk",
		},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bakery_sessions_active",
			Help: "Number of live sessions",
		},
	)
)

// Recorder records pipeline metrics for one data source.
type Recorder struct {
	source string
}

// NewRecorder creates a recorder labelled with source ("upload", "database" or "cli").
func NewRecorder(source string) *Recorder {
	return &Recorder{source: source}
}

// RecordUpload records the outcome of reading and validating a dataset.
func (r *Recorder) RecordUpload(status string, kept, dropped, issues int) {
	UploadsTotal.WithLabelValues(r.source, status).Inc()
	RowsIngested.WithLabelValues(r.source).Add(float64(kept))
	RowsDropped.WithLabelValues(r.source).Add(float64(dropped))
	ValidationIssues.WithLabelValues(r.source).Add(float64(issues))
}

// RecordForecast records one forecast run.
func (r *Recorder) RecordForecast(engine, status string, duration time.Duration) {
	ForecastsTotal.WithLabelValues(engine, status).Inc()
	ForecastDuration.WithLabelValues(engine).Observe(duration.Seconds())
}

// RecordRecommendations records the high-risk days of a plan.
func (r *Recorder) RecordRecommendations(highRiskDays int) {
	HighRiskDays.Add(float64(highRiskDays))
}
