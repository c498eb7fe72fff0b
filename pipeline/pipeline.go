// Package pipeline runs the upload, validate, normalize, forecast and
// recommend stages in order.
package pipeline

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"bakery/forecasting"
	"bakery/ingest"
	"bakery/logging"
	"bakery/metrics"
	"bakery/models"
	"bakery/processing"
	"bakery/recommendations"
)

// Dataset is a validated, normalized upload.
type Dataset struct {
	Source      string                       `json:"source"`
	Origin      string                       `json:"origin"`
	Fingerprint string                       `json:"fingerprint"`
	Report      *processing.ValidationReport `json:"report"`
	Records     []models.EnrichedRecord      `json:"-"`
	Diagnostics []models.Diagnostic          `json:"diagnostics"`
	Dropped     int                          `json:"dropped"`
	LoadedAt    time.Time                    `json:"loadedAt"`
}

// Products lists the items in the dataset, alphabetically.
func (d *Dataset) Products() []string {
	return processing.Products(d.Records)
}

// Pipeline owns the configuration shared by every stage.
type Pipeline struct {
	synonyms processing.SynonymTable
	adapter  *forecasting.Adapter
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a pipeline. A nil synonym table selects the built-in one.
func New(synonyms processing.SynonymTable, adapter *forecasting.Adapter, logger *zap.Logger) *Pipeline {
	if synonyms == nil {
		synonyms = processing.DefaultSynonyms()
	}
	return &Pipeline{
		synonyms: synonyms,
		adapter:  adapter,
		logger:   logger.With(zap.String("component", "pipeline")),
		now:      time.Now,
	}
}

// Synonyms returns the column synonym table in use.
func (p *Pipeline) Synonyms() processing.SynonymTable {
	return p.synonyms
}

// Engine names the forecasting engine behind the pipeline.
func (p *Pipeline) Engine() string {
	return p.adapter.Engine()
}

// LoadFile reads an uploaded CSV or XLSX file and prepares it.
func (p *Pipeline) LoadFile(name string, r io.Reader, origin string) (*Dataset, error) {
	table, err := ingest.ReadFile(name, r)
	if err != nil {
		metrics.NewRecorder(origin).RecordUpload("unreadable", 0, 0, 0)
		return nil, err
	}
	return p.Prepare(table, origin)
}

// Prepare validates and normalizes a raw table. On a validation failure the
// returned dataset still carries the report next to the *models.ValidationError.
func (p *Pipeline) Prepare(table *models.RawTable, origin string) (*Dataset, error) {
	recorder := metrics.NewRecorder(origin)
	log := p.logger.With(zap.String("source", table.Source), zap.String("origin", origin))

	report, err := processing.Validate(table, p.synonyms)
	if err != nil {
		recorder.RecordUpload("empty", 0, 0, 0)
		return nil, err
	}
	ds := &Dataset{
		Source:      table.Source,
		Origin:      origin,
		Fingerprint: Fingerprint(table),
		Report:      report,
		LoadedAt:    p.now().UTC(),
	}
	if !report.OK {
		recorder.RecordUpload("invalid", 0, 0, len(report.Issues))
		log.Info("dataset failed validation", zap.Strings("issues", report.Issues))
		return ds, report.Err()
	}

	normalized, err := processing.Normalize(table, p.synonyms)
	if err != nil {
		recorder.RecordUpload("invalid", 0, 0, 1)
		return ds, err
	}
	ds.Records = normalized.Records
	ds.Dropped = normalized.Dropped
	ds.Diagnostics = append(append(ds.Diagnostics, report.Warnings...), normalized.Diagnostics...)

	recorder.RecordUpload("ok", len(ds.Records), ds.Dropped, 0)
	logging.LogDataQuality(log, table.Source, ds.Diagnostics)
	log.Info("dataset loaded",
		zap.Int("rows", len(ds.Records)),
		zap.Int("dropped", ds.Dropped),
		zap.Bool("lenientDates", normalized.LenientDate),
	)
	return ds, nil
}

// Forecast fits the engine to the daily series of product, or of every
// product when product is models.AllProducts.
func (p *Pipeline) Forecast(ctx context.Context, ds *Dataset, product string, params models.ForecastParams) (*models.ForecastRun, error) {
	if product == "" {
		product = models.AllProducts
	}
	series := forecasting.ToSeries(ds.Records, product)

	recorder := metrics.NewRecorder(ds.Origin)
	started := time.Now()
	run, err := p.adapter.Forecast(ctx, product, series, params)
	elapsed := time.Since(started)
	if err != nil {
		recorder.RecordForecast(p.adapter.Engine(), forecastStatus(err), elapsed)
		p.logger.Warn("forecast failed", zap.String("product", product), zap.Error(err))
		return nil, err
	}
	recorder.RecordForecast(p.adapter.Engine(), "ok", elapsed)
	p.logger.Info("forecast complete",
		zap.String("product", product),
		zap.String("engine", run.Engine),
		zap.Int("observations", len(series)),
		zap.Int("horizon", params.HorizonDays),
		zap.Duration("elapsed", elapsed),
	)
	return run, nil
}

// Recommend derives the production plan from a forecast. A zero reference
// date selects the first forecast day, so the plan covers the whole horizon.
func (p *Pipeline) Recommend(run *models.ForecastRun, bufferPercentage float64, reference time.Time) (*models.RecommendationBundle, error) {
	if err := recommendations.ValidateBuffer(bufferPercentage); err != nil {
		return nil, err
	}
	if reference.IsZero() {
		reference = run.HistoryEnd.AddDate(0, 0, 1)
	}
	bundle := recommendations.BuildPlan(run.Points, run.Product, bufferPercentage, reference)
	metrics.NewRecorder("pipeline").RecordRecommendations(len(bundle.HighRiskDays))
	p.logger.Info("recommendations built",
		zap.String("product", run.Product),
		zap.Int("days", len(bundle.DailyPlan)),
		zap.Int("highRiskDays", len(bundle.HighRiskDays)),
	)
	return bundle, nil
}

func forecastStatus(err error) string {
	var insufficient *models.InsufficientDataError
	var invalid *models.InvalidParamsError
	switch {
	case errors.As(err, &insufficient):
		return "insufficient_data"
	case errors.As(err, &invalid):
		return "invalid_params"
	case errors.Is(err, forecasting.ErrTimeout):
		return "timeout"
	default:
		return "error"
	}
}
