package forecasting

import (
	"context"
	"errors"
	"math"
	"time"

	"bakery/models"
	"bakery/utils"
)

// z-score of the central 80% interval.
const intervalZ = 1.2815515655446004

const day = 24 * time.Hour

// SeasonalForecaster decomposes a daily series into a weighted linear trend,
// a day-of-week effect and, given a year of history, a month-of-year effect.
// Daily (intra-day) seasonality is meaningless for one observation per day
// and is not modelled.
type SeasonalForecaster struct{}

// NewSeasonalForecaster returns the built-in engine.
func NewSeasonalForecaster() *SeasonalForecaster {
	return &SeasonalForecaster{}
}

func (f *SeasonalForecaster) Name() string { return "seasonal" }

// Fit estimates the trend, the seasonal effects and the residual spread.
// TrendFlexibility sets how fast older observations lose weight in the trend
// fit; SeasonalityFlexibility sets how little the seasonal effects are shrunk
// toward zero.
func (f *SeasonalForecaster) Fit(ctx context.Context, series []models.SeriesPoint, params models.ForecastParams) (Model, error) {
	if len(series) < 2 {
		return nil, errors.New("seasonal model needs at least two observations")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := &seasonalModel{
		start:  series[0].Date,
		last:   series[len(series)-1].Date,
		params: params,
		dates:  make([]time.Time, len(series)),
	}
	for i, p := range series {
		m.dates[i] = p.Date
	}
	mult := params.SeasonalityMode == models.SeasonalityMultiplicative

	ts := make([]float64, len(series))
	ys := make([]float64, len(series))
	ws := make([]float64, len(series))
	tmax := m.dayIndex(m.last)
	for i, p := range series {
		ts[i] = m.dayIndex(p.Date)
		ys[i] = p.Quantity
		ws[i] = math.Exp(-params.TrendFlexibility * (tmax - ts[i]) / 7)
	}
	m.intercept, m.slope = weightedLine(ts, ys, ws)

	resid := make([]float64, len(series))
	for i := range series {
		resid[i] = m.detrend(ys[i], m.trend(ts[i]))
	}
	m.weekly = seasonalEffects(resid, func(i int) int { return int(series[i].Date.Weekday()) }, 7, params.SeasonalityFlexibility, mult)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if m.last.Sub(m.start) >= 365*day {
		m.hasYearly = true
		for i, p := range series {
			base := m.trend(ts[i])
			if mult {
				base *= m.weekly[p.Date.Weekday()]
			} else {
				base += m.weekly[p.Date.Weekday()]
			}
			resid[i] = m.detrend(ys[i], base)
		}
		m.yearly = seasonalEffects(resid, func(i int) int { return int(series[i].Date.Month()) - 1 }, 12, params.SeasonalityFlexibility, mult)
	}

	errs := make([]float64, len(series))
	for i, p := range series {
		errs[i] = ys[i] - m.fitted(p.Date)
	}
	m.sigma = utils.SampleStdDev(errs)
	return m, nil
}

type seasonalModel struct {
	start, last      time.Time
	params           models.ForecastParams
	dates            []time.Time
	intercept, slope float64
	weekly           []float64
	yearly           []float64
	hasYearly        bool
	sigma            float64
}

// Predict returns the in-sample fit for every observed date followed by
// horizonDays future days. Bands widen with the distance from the last
// observation and every value is clamped at zero.
func (m *seasonalModel) Predict(ctx context.Context, horizonDays int) ([]models.ForecastPoint, error) {
	if horizonDays < 0 {
		return nil, errors.New("horizon must not be negative")
	}
	out := make([]models.ForecastPoint, 0, len(m.dates)+horizonDays)
	for _, d := range m.dates {
		out = append(out, m.point(d, intervalZ*m.sigma))
	}
	for h := 1; h <= horizonDays; h++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d := m.last.AddDate(0, 0, h)
		width := intervalZ * m.sigma * math.Sqrt(1+float64(h)*m.params.TrendFlexibility)
		out = append(out, m.point(d, width))
	}
	return out, nil
}

func (m *seasonalModel) point(d time.Time, width float64) models.ForecastPoint {
	y := m.fitted(d)
	return models.ForecastPoint{
		Date:     d,
		Estimate: math.Max(0, y),
		Lower:    math.Max(0, y-width),
		Upper:    math.Max(0, y+width),
	}
}

func (m *seasonalModel) fitted(d time.Time) float64 {
	y := m.trend(m.dayIndex(d))
	mult := m.params.SeasonalityMode == models.SeasonalityMultiplicative
	if mult {
		y *= m.weekly[d.Weekday()]
		if m.hasYearly {
			y *= m.yearly[d.Month()-1]
		}
		return y
	}
	y += m.weekly[d.Weekday()]
	if m.hasYearly {
		y += m.yearly[d.Month()-1]
	}
	return y
}

func (m *seasonalModel) trend(t float64) float64 {
	return m.intercept + m.slope*t
}

func (m *seasonalModel) dayIndex(d time.Time) float64 {
	return d.Sub(m.start).Hours() / 24
}

// detrend returns the residual of y against base: a difference in additive
// mode and a ratio in multiplicative mode. Ratios against a non-positive base
// are undefined and reported as NaN.
func (m *seasonalModel) detrend(y, base float64) float64 {
	if m.params.SeasonalityMode != models.SeasonalityMultiplicative {
		return y - base
	}
	if base <= 0 {
		return math.NaN()
	}
	return y / base
}

// weightedLine fits y = a + b*t by weighted least squares.
func weightedLine(ts, ys, ws []float64) (a, b float64) {
	var sw, st, sy float64
	for i := range ts {
		sw += ws[i]
		st += ws[i] * ts[i]
		sy += ws[i] * ys[i]
	}
	if sw == 0 {
		return utils.Mean(ys), 0
	}
	tbar, ybar := st/sw, sy/sw
	var num, den float64
	for i := range ts {
		num += ws[i] * (ts[i] - tbar) * (ys[i] - ybar)
		den += ws[i] * (ts[i] - tbar) * (ts[i] - tbar)
	}
	if den == 0 {
		return ybar, 0
	}
	b = num / den
	return ybar - b*tbar, b
}

// seasonalEffects averages residuals per bucket, shrinks each mean toward the
// neutral value by n*s/(n*s+1) and centres the result. Additive effects are
// centred on 0, multiplicative factors on 1.
func seasonalEffects(resid []float64, bucket func(i int) int, buckets int, scale float64, mult bool) []float64 {
	neutral := 0.0
	if mult {
		neutral = 1
	}
	sums := make([]float64, buckets)
	counts := make([]int, buckets)
	for i, r := range resid {
		if math.IsNaN(r) {
			continue
		}
		b := bucket(i)
		sums[b] += r
		counts[b]++
	}

	effects := make([]float64, buckets)
	var total float64
	var seen int
	for b := range effects {
		effects[b] = neutral
		if counts[b] == 0 {
			continue
		}
		n := float64(counts[b])
		k := n * scale / (n*scale + 1)
		effects[b] = neutral + k*(sums[b]/n-neutral)
		total += effects[b]
		seen++
	}
	if seen == 0 {
		return effects
	}

	centre := total / float64(seen)
	for b := range effects {
		if counts[b] == 0 {
			continue
		}
		if mult {
			if centre > 0 {
				effects[b] /= centre
			}
		} else {
			effects[b] -= centre
		}
	}
	return effects
}
