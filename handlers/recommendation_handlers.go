package handlers

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"

	"bakery/export"
	"bakery/middleware"
	"bakery/models"
)

type recommendationRequest struct {
	BufferPercentage *float64 `json:"bufferPercentage"`
	ReferenceDate    string   `json:"referenceDate"`
}

// HandleCreateRecommendations builds the production plan from the session's
// forecast. Without a reference date the plan starts on the first forecast day.
func (h *Handler) HandleCreateRecommendations(c *fiber.Ctx) error {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	run := s.Forecast()
	if run == nil {
		return fiber.NewError(fiber.StatusConflict, "Generate a forecast first")
	}

	var req recommendationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
		}
	}
	buffer := h.buffer
	if req.BufferPercentage != nil {
		buffer = *req.BufferPercentage
	}
	var reference time.Time
	if req.ReferenceDate != "" {
		t, err := time.Parse("2006-01-02", req.ReferenceDate)
		if err != nil {
			return h.respondError(c, &models.InvalidParamsError{Field: "referenceDate", Reason: "must be formatted YYYY-MM-DD"})
		}
		reference = t
	}

	bundle, err := h.pipeline.Recommend(run, buffer, reference)
	if err != nil {
		return h.respondError(c, err)
	}
	if !s.SetRecommendations(run, bundle) {
		return fiber.NewError(fiber.StatusConflict, "The forecast changed while building recommendations, try again")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Recommendations generated successfully", "data": bundle})
}

// HandlePlanCSV downloads the current production plan.
func (h *Handler) HandlePlanCSV(c *fiber.Ctx) error {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	bundle := s.Recommendations()
	if bundle == nil {
		return fiber.NewError(fiber.StatusConflict, "Generate recommendations first")
	}

	var buf bytes.Buffer
	if err := export.WritePlanCSV(&buf, bundle.DailyPlan); err != nil {
		return h.respondError(c, err)
	}
	return sendCSV(c, "production_plan.csv", buf.Bytes())
}
