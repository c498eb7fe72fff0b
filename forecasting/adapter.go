package forecasting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bakery/models"
)

// ErrTimeout is returned when an engine does not finish within the adapter timeout.
var ErrTimeout = errors.New("forecast timed out")

// EngineError wraps a failure raised inside a forecasting engine.
type EngineError struct {
	Engine string
	Op     string
	Err    error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s engine: %s: %v", e.Engine, e.Op, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// Adapter validates a request, shapes the series and runs the configured engine.
type Adapter struct {
	engine  Forecaster
	timeout time.Duration
	now     func() time.Time
}

// NewAdapter wraps engine. A zero timeout disables the deadline.
func NewAdapter(engine Forecaster, timeout time.Duration) *Adapter {
	return &Adapter{engine: engine, timeout: timeout, now: time.Now}
}

// Engine names the wrapped engine.
func (a *Adapter) Engine() string {
	return a.engine.Name()
}

// Forecast fits the engine to series and predicts params.HorizonDays past the
// last observation. The run carries the in-sample points as well, and their
// accuracy against the history when the engine returns them.
func (a *Adapter) Forecast(ctx context.Context, product string, series []models.SeriesPoint, params models.ForecastParams) (*models.ForecastRun, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	series = CollapseDuplicates(series)
	if len(series) < models.MinForecastObservations {
		return nil, &models.InsufficientDataError{
			Observations: len(series),
			Required:     models.MinForecastObservations,
		}
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	model, err := a.engine.Fit(ctx, series, params)
	if err != nil {
		return nil, a.wrap(ctx, "fit", err)
	}
	points, err := model.Predict(ctx, params.HorizonDays)
	if err != nil {
		return nil, a.wrap(ctx, "predict", err)
	}

	return &models.ForecastRun{
		Product:     product,
		Engine:      a.engine.Name(),
		Params:      params,
		HistoryEnd:  series[len(series)-1].Date,
		Points:      points,
		Accuracy:    Evaluate(series, points),
		GeneratedAt: a.now().UTC(),
	}, nil
}

func (a *Adapter) wrap(ctx context.Context, op string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrTimeout, a.timeout)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &EngineError{Engine: a.engine.Name(), Op: op, Err: err}
}
