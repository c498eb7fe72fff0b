package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bakery/forecasting"
	"bakery/ingest"
	"bakery/models"
	"bakery/pipeline"
	"bakery/session"
)

func newTestHandler() *Handler {
	logger := zap.NewNop()
	return New(Options{
		Pipeline: pipeline.New(nil, forecasting.NewAdapter(forecasting.NewSeasonalForecaster(), time.Second), logger),
		Store:    session.NewStore(time.Hour),
		Issuer:   session.NewTokenIssuer("secret", time.Hour),
		Logger:   logger,
	})
}

type fakeDB struct {
	pingErr error
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDB) Ping(ctx context.Context) error { return f.pingErr }

func TestRespondError(t *testing.T) {
	h := newTestHandler()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty input", &models.EmptyInputError{Source: "a.csv"}, fiber.StatusBadRequest},
		{"unsupported format", ingest.ErrUnsupportedFormat, fiber.StatusBadRequest},
		{"invalid params", &models.InvalidParamsError{Field: "horizon", Reason: "too long"}, fiber.StatusBadRequest},
		{"schema", &models.SchemaError{Missing: []models.CanonicalField{models.FieldDate}}, fiber.StatusUnprocessableEntity},
		{"date parse", &models.DateParseError{Column: "date", Sample: "soon"}, fiber.StatusUnprocessableEntity},
		{"validation", &models.ValidationError{Issues: []string{"bad"}}, fiber.StatusUnprocessableEntity},
		{"insufficient", &models.InsufficientDataError{Observations: 3, Required: 14}, fiber.StatusUnprocessableEntity},
		{"timeout", fmt.Errorf("%w after 1s", forecasting.ErrTimeout), fiber.StatusGatewayTimeout},
		{"engine", &forecasting.EngineError{Engine: "gemini", Op: "predict", Err: errors.New("quota")}, fiber.StatusBadGateway},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return h.respondError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/conflict", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusConflict, "Upload a dataset first") })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("hidden detail") })

	resp, err := app.Test(httptest.NewRequest("GET", "/conflict", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"success":false,"message":"Upload a dataset first"}`, string(raw))

	resp, err = app.Test(httptest.NewRequest("GET", "/plain", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	raw, _ = io.ReadAll(resp.Body)
	assert.NotContains(t, string(raw), "hidden detail")
}

func TestHandleHealth_Database(t *testing.T) {
	tests := []struct {
		name       string
		db         *fakeDB
		wantStatus int
		wantDB     string
	}{
		{"no database", nil, fiber.StatusOK, "disabled"},
		{"reachable", &fakeDB{}, fiber.StatusOK, "ok"},
		{"unreachable", &fakeDB{pingErr: errors.New("refused")}, fiber.StatusServiceUnavailable, "unreachable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			if tt.db != nil {
				h.db = tt.db
			}
			app := fiber.New()
			app.Get("/healthz", h.HandleHealth)

			resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body struct {
				Data map[string]any `json:"data"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantDB, body.Data["database"])
			assert.Equal(t, "seasonal", body.Data["engine"])
		})
	}
}
