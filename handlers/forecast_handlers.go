package handlers

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"bakery/export"
	"bakery/middleware"
	"bakery/models"
	"bakery/utils"
)

type forecastRequest struct {
	Product                string  `json:"product"`
	SeasonalityMode        string  `json:"seasonalityMode"`
	TrendFlexibility       float64 `json:"trendFlexibility"`
	SeasonalityFlexibility float64 `json:"seasonalityFlexibility"`
	ForecastPeriodDays     int     `json:"forecastPeriodDays"`
}

// HandleCreateForecast fits the engine for one product, or for all products,
// and stores the run in the session. Fields left out of the body take the
// configured defaults.
func (h *Handler) HandleCreateForecast(c *fiber.Ctx) error {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	ds, err := requireDataset(c)
	if err != nil {
		return err
	}

	req := forecastRequest{
		Product:                models.AllProducts,
		SeasonalityMode:        string(h.defaults.SeasonalityMode),
		TrendFlexibility:       h.defaults.TrendFlexibility,
		SeasonalityFlexibility: h.defaults.SeasonalityFlexibility,
		ForecastPeriodDays:     h.defaults.HorizonDays,
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
		}
	}

	mode, ok := utils.ValidateAndNormalizeSeasonalityMode(req.SeasonalityMode)
	if !ok {
		return h.respondError(c, &models.InvalidParamsError{Field: "seasonalityMode", Reason: "must be additive or multiplicative"})
	}
	if req.Product == "" {
		req.Product = models.AllProducts
	}
	if req.Product != models.AllProducts && !contains(ds.Products(), req.Product) {
		return h.respondError(c, &models.InvalidParamsError{Field: "product", Reason: fmt.Sprintf("%q is not in the dataset", req.Product)})
	}

	params := models.ForecastParams{
		SeasonalityMode:        mode,
		TrendFlexibility:       req.TrendFlexibility,
		SeasonalityFlexibility: req.SeasonalityFlexibility,
		HorizonDays:            req.ForecastPeriodDays,
	}
	run, err := h.pipeline.Forecast(c.UserContext(), ds, req.Product, params)
	if err != nil {
		return h.respondError(c, err)
	}
	if !s.SetForecast(ds, run) {
		return fiber.NewError(fiber.StatusConflict, "The dataset changed while forecasting, run the forecast again")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Forecast generated successfully", "data": fiber.Map{
		"forecast": run,
		"future":   run.FuturePoints(),
	}})
}

// HandleForecastCSV downloads the future part of the current forecast.
func (h *Handler) HandleForecastCSV(c *fiber.Ctx) error {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	run := s.Forecast()
	if run == nil {
		return fiber.NewError(fiber.StatusConflict, "Generate a forecast first")
	}

	var buf bytes.Buffer
	if err := export.WriteForecastCSV(&buf, run.FuturePoints()); err != nil {
		return h.respondError(c, err)
	}
	return sendCSV(c, "forecast.csv", buf.Bytes())
}

func sendCSV(c *fiber.Ctx, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
