package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"bakery/database"
	"bakery/middleware"
	"bakery/models"
	"bakery/pipeline"
	"bakery/processing"
	"bakery/utils"
)

type importRequest struct {
	MerchantID string `json:"merchantId"`
	ShopID     string `json:"shopId"`
}

// HandleUploadDataset opens a session from a multipart CSV or XLSX upload.
func (h *Handler) HandleUploadDataset(c *fiber.Ctx) error {
	ds, err := h.readUpload(c)
	if err != nil {
		return h.respondDatasetError(c, ds, err)
	}
	return h.openSession(c, ds)
}

// HandleImportDataset opens a session from the sales tables in PostgreSQL.
func (h *Handler) HandleImportDataset(c *fiber.Ctx) error {
	if h.db == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"success": false, "message": "Database source is not configured"})
	}

	var req importRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
		}
	}

	query, args := database.DefaultSalesQuery, []any{req.MerchantID, req.ShopID}
	if h.salesQuery != "" {
		query, args = h.salesQuery, nil
	}
	table, err := database.LoadSalesTable(c.UserContext(), h.db, query, args...)
	if err != nil {
		var empty *models.EmptyInputError
		if errors.As(err, &empty) {
			return h.respondError(c, err)
		}
		h.logger.Error("sales import failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false, "message": "Failed to read sales from the database"})
	}

	ds, err := h.pipeline.Prepare(table, "database")
	if err != nil {
		return h.respondDatasetError(c, ds, err)
	}
	return h.openSession(c, ds)
}

// HandleReplaceDataset swaps the dataset of the current session. Uploading
// identical content keeps the existing forecast and recommendations.
func (h *Handler) HandleReplaceDataset(c *fiber.Ctx) error {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	ds, err := h.readUpload(c)
	if err != nil {
		return h.respondDatasetError(c, ds, err)
	}

	unchanged := s.SetDataset(ds)
	message := "Dataset replaced"
	if unchanged {
		message = "Dataset unchanged, previous results kept"
	}
	return c.JSON(fiber.Map{"success": true, "message": message, "data": fiber.Map{
		"unchanged": unchanged,
		"dataset":   datasetSummary(s.Dataset()),
	}})
}

// HandleGetDataset pages through the normalized records.
func (h *Handler) HandleGetDataset(c *fiber.Ctx) error {
	ds, err := requireDataset(c)
	if err != nil {
		return err
	}

	pagination := utils.CreatePagination(len(ds.Records), c.QueryInt("page", 1), c.QueryInt("pageSize", 50))
	start, end := pagination.Bounds()
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"dataset":    datasetSummary(ds),
		"records":    ds.Records[start:end],
		"pagination": pagination,
	}})
}

// HandleGetProducts lists the forecastable products, "All Products" first.
func (h *Handler) HandleGetProducts(c *fiber.Ctx) error {
	ds, err := requireDataset(c)
	if err != nil {
		return err
	}
	products := append([]string{models.AllProducts}, ds.Products()...)
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"products": products}})
}

// HandleGetAnalytics returns the descriptive views of the dataset.
func (h *Handler) HandleGetAnalytics(c *fiber.Ctx) error {
	ds, err := requireDataset(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": processing.Summarize(ds.Records)})
}

// HandleDeleteSession discards the session and everything derived in it.
func (h *Handler) HandleDeleteSession(c *fiber.Ctx) error {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	h.store.Delete(s.ID)
	return c.JSON(fiber.Map{"success": true, "message": "Session deleted"})
}

func (h *Handler) readUpload(c *fiber.Ctx) (*pipeline.Dataset, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, &models.EmptyInputError{Source: "upload (expected a multipart field named \"file\")"}
	}
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return h.pipeline.LoadFile(file.Filename, f, "upload")
}

func (h *Handler) openSession(c *fiber.Ctx, ds *pipeline.Dataset) error {
	s := h.store.Create()
	s.SetDataset(ds)
	token, err := h.issuer.Issue(s.ID)
	if err != nil {
		h.store.Delete(s.ID)
		h.logger.Error("token signing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create session"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": ds.Report.Message(),
		"data": fiber.Map{
			"sessionId": s.ID,
			"token":     token,
			"dataset":   datasetSummary(ds),
		},
	})
}

// respondDatasetError adds the validation report to the error body when one exists.
func (h *Handler) respondDatasetError(c *fiber.Ctx, ds *pipeline.Dataset, err error) error {
	if ds == nil || ds.Report == nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
		"data":    fiber.Map{"report": ds.Report},
	})
}

func requireDataset(c *fiber.Ctx) (*pipeline.Dataset, error) {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	ds := s.Dataset()
	if ds == nil {
		return nil, fiber.NewError(fiber.StatusConflict, "Upload a dataset first")
	}
	return ds, nil
}

func datasetSummary(ds *pipeline.Dataset) fiber.Map {
	return fiber.Map{
		"source":      ds.Source,
		"origin":      ds.Origin,
		"fingerprint": ds.Fingerprint,
		"rows":        len(ds.Records),
		"dropped":     ds.Dropped,
		"products":    ds.Products(),
		"report":      ds.Report,
		"diagnostics": ds.Diagnostics,
		"loadedAt":    ds.LoadedAt,
	}
}
