// Package handlers implements the HTTP API on top of the pipeline.
package handlers

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"bakery/database"
	"bakery/forecasting"
	"bakery/ingest"
	"bakery/models"
	"bakery/pipeline"
	"bakery/session"
)

// Options carries the dependencies of a Handler. DB may be nil when no
// database source is configured.
type Options struct {
	Pipeline         *pipeline.Pipeline
	Store            *session.Store
	Issuer           *session.TokenIssuer
	DB               database.Querier
	SalesQuery       string
	Defaults         models.ForecastParams
	BufferPercentage float64
	Logger           *zap.Logger
}

// Handler serves the dataset, forecast and recommendation endpoints.
type Handler struct {
	pipeline   *pipeline.Pipeline
	store      *session.Store
	issuer     *session.TokenIssuer
	db         database.Querier
	salesQuery string
	defaults   models.ForecastParams
	buffer     float64
	logger     *zap.Logger
}

func New(opts Options) *Handler {
	return &Handler{
		pipeline:   opts.Pipeline,
		store:      opts.Store,
		issuer:     opts.Issuer,
		db:         opts.DB,
		salesQuery: opts.SalesQuery,
		defaults:   opts.Defaults,
		buffer:     opts.BufferPercentage,
		logger:     opts.Logger.With(zap.String("component", "handlers")),
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

// HandleHealth reports liveness, the active engine and, when a database is
// configured, whether it answers a ping.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	data := fiber.Map{
		"status":   "ok",
		"engine":   h.pipeline.Engine(),
		"sessions": h.store.Len(),
		"database": "disabled",
	}
	if p, ok := h.db.(pinger); ok {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			h.logger.Warn("database ping failed", zap.Error(err))
			data["status"] = "degraded"
			data["database"] = "unreachable"
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"success": false, "message": "Database ping failed", "data": data})
		}
		data["database"] = "ok"
	}
	return c.JSON(fiber.Map{"success": true, "data": data})
}

// HandleVersion prints the build information of the running binary.
func HandleVersion(c *fiber.Ctx) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return fiber.NewError(fiber.StatusInternalServerError, "no build information available")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(info.String())
}

// respondError maps pipeline errors onto status codes. Failures upstream of
// forecasting are 4xx; engine failures are 502 and timeouts 504.
func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	var (
		empty        *models.EmptyInputError
		schema       *models.SchemaError
		dateParse    *models.DateParseError
		validation   *models.ValidationError
		insufficient *models.InsufficientDataError
		invalid      *models.InvalidParamsError
		engine       *forecasting.EngineError
	)

	status := fiber.StatusInternalServerError
	message := "Internal server error"
	switch {
	case errors.As(err, &empty), errors.Is(err, ingest.ErrUnsupportedFormat), errors.As(err, &invalid):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.As(err, &schema), errors.As(err, &dateParse), errors.As(err, &validation), errors.As(err, &insufficient):
		status, message = fiber.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, forecasting.ErrTimeout):
		status, message = fiber.StatusGatewayTimeout, "The forecasting engine did not respond in time"
	case errors.As(err, &engine):
		status, message = fiber.StatusBadGateway, "The forecasting engine failed: "+engine.Err.Error()
	}

	if status >= fiber.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

// ErrorHandler renders errors returned from handlers in the response envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code, message = fe.Code, fe.Message
	}
	return c.Status(code).JSON(fiber.Map{"success": false, "message": message})
}
