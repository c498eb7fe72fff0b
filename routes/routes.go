package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bakery/handlers"
	"bakery/middleware"
	"bakery/session"
)

// NewApp creates the Fiber app with panic recovery, the JSON error envelope and request logging.
func NewApp(bodyLimitMB int, logger *zap.Logger) *fiber.App {
	if bodyLimitMB <= 0 {
		bodyLimitMB = 20
	}
	app := fiber.New(fiber.Config{
		AppName:      "bakery",
		BodyLimit:    bodyLimitMB * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RequestLogger(logger))
	return app
}

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, h *handlers.Handler, issuer *session.TokenIssuer, store *session.Store) {
	app.Get("/healthz", h.HandleHealth)
	app.Get("/version", handlers.HandleVersion)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")

	// --- Dataset Routes ---
	datasets := api.Group("/datasets")
	datasets.Post("/", h.HandleUploadDataset)
	datasets.Post("/import", h.HandleImportDataset)

	// --- Session Routes ---
	sess := api.Group("/session", middleware.SessionRequired(issuer, store))
	sess.Get("/dataset", h.HandleGetDataset)
	sess.Put("/dataset", h.HandleReplaceDataset)
	sess.Get("/products", h.HandleGetProducts)
	sess.Get("/analytics", h.HandleGetAnalytics)
	sess.Post("/forecast", h.HandleCreateForecast)
	sess.Get("/forecast.csv", h.HandleForecastCSV)
	sess.Post("/recommendations", h.HandleCreateRecommendations)
	sess.Get("/plan.csv", h.HandlePlanCSV)
	sess.Delete("/", h.HandleDeleteSession)
}
