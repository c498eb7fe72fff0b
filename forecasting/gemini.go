package forecasting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"bakery/models"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when no model name is configured.
const DefaultGeminiModel = "gemini-2.5-flash-lite"

// GeminiForecaster asks a Gemini model to extend the series.
type GeminiForecaster struct {
	client    *genai.Client
	modelName string
	logger    *zap.Logger
}

// NewGeminiForecaster opens a Gemini client authenticated with apiKey.
func NewGeminiForecaster(ctx context.Context, apiKey, modelName string, logger *zap.Logger) (*GeminiForecaster, error) {
	if apiKey == "" {
		return nil, errors.New("gemini engine requires an API key")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiForecaster{client: client, modelName: modelName, logger: logger}, nil
}

func (g *GeminiForecaster) Name() string { return "gemini" }

// Close releases the underlying client.
func (g *GeminiForecaster) Close() error {
	return g.client.Close()
}

// Fit keeps a copy of the history; the model does the work at prediction time.
func (g *GeminiForecaster) Fit(ctx context.Context, series []models.SeriesPoint, params models.ForecastParams) (Model, error) {
	if len(series) == 0 {
		return nil, errors.New("empty series")
	}
	return &geminiModel{
		forecaster: g,
		series:     append([]models.SeriesPoint(nil), series...),
		params:     params,
	}, nil
}

type geminiModel struct {
	forecaster *GeminiForecaster
	series     []models.SeriesPoint
	params     models.ForecastParams
}

// Predict returns only future points; the model is not asked to reproduce history.
func (m *geminiModel) Predict(ctx context.Context, horizonDays int) ([]models.ForecastPoint, error) {
	prompt := constructForecastPrompt(m.series, m.params, horizonDays)

	model := m.forecaster.client.GenerativeModel(m.forecaster.modelName)
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	points, err := parseForecastResponse(text, m.series[len(m.series)-1].Date, horizonDays)
	if err != nil {
		if m.forecaster.logger != nil {
			m.forecaster.logger.Warn("unparseable gemini forecast", zap.Error(err), zap.String("response", text))
		}
		return nil, err
	}
	return points, nil
}

// constructForecastPrompt renders the history and the run settings for the model.
func constructForecastPrompt(series []models.SeriesPoint, params models.ForecastParams, horizonDays int) string {
	var history strings.Builder
	for _, p := range series {
		fmt.Fprintf(&history, "%s: %g\n", p.Date.Format("2006-01-02"), p.Quantity)
	}
	last := series[len(series)-1].Date

	jsonFormat := `{"forecast":[{"date":"YYYY-MM-DD","yhat":number,"yhat_lower":number,"yhat_upper":number},...]}`

	return fmt.Sprintf(`You are an expert bakery demand planner. Forecast daily units sold for the next %d days after %s.

**Model Settings:**
- Seasonality mode: %s
- Trend flexibility: %g (higher follows recent changes more closely)
- Seasonality strength: %g (higher allows stronger weekly and yearly patterns)
- Give an 80%% interval for every day. Values must not be negative.

**Historical Daily Sales:**
%s
**Required Output:**
Return a single minified JSON object with exactly this structure and one entry per day, with no markdown or text around it.

%s`, horizonDays, last.Format("2006-01-02"), params.SeasonalityMode, params.TrendFlexibility, params.SeasonalityFlexibility, history.String(), jsonFormat)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no content received from gemini")
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	if text.Len() == 0 {
		return "", errors.New("no text content received from gemini")
	}
	return text.String(), nil
}

func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}

// parseForecastResponse keeps the days after last, sorted, at most horizonDays
// of them. Bands are reordered when the model returns them inverted.
func parseForecastResponse(raw string, last time.Time, horizonDays int) ([]models.ForecastPoint, error) {
	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return nil, errors.New("no JSON object in gemini response")
	}

	var payload struct {
		Forecast []struct {
			Date  string  `json:"date"`
			Yhat  float64 `json:"yhat"`
			Lower float64 `json:"yhat_lower"`
			Upper float64 `json:"yhat_upper"`
		} `json:"forecast"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, fmt.Errorf("decode gemini forecast: %w", err)
	}

	seen := make(map[time.Time]bool, len(payload.Forecast))
	points := make([]models.ForecastPoint, 0, len(payload.Forecast))
	for _, f := range payload.Forecast {
		d, err := time.Parse("2006-01-02", f.Date)
		if err != nil || !d.After(last) || seen[d] {
			continue
		}
		seen[d] = true
		lower, upper := f.Lower, f.Upper
		if lower > upper {
			lower, upper = upper, lower
		}
		points = append(points, models.ForecastPoint{
			Date:     d,
			Estimate: max(0, f.Yhat),
			Lower:    max(0, lower),
			Upper:    max(0, upper),
		})
	}
	if len(points) == 0 {
		return nil, errors.New("gemini returned no forecast days")
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	if len(points) > horizonDays {
		points = points[:horizonDays]
	}
	return points, nil
}
