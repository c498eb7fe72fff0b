package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bakery/database"
	"bakery/forecasting"
	"bakery/handlers"
	"bakery/pipeline"
	"bakery/routes"
	"bakery/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the HTTP API on the configured port.

Required environment:
  JWT_SECRET      signs session tokens

Optional environment:
  DATABASE_URL    enables importing sales from PostgreSQL
  GEMINI_API_KEY  required when FORECAST_ENGINE=gemini`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, closeEngine, err := newForecaster(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeEngine()

	store := session.NewStore(cfg.SessionTTL())
	issuer := session.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.TokenTTL())
	go store.Run(ctx, cfg.SweepInterval(), logger)

	opts := handlers.Options{
		Pipeline:         pipeline.New(cfg.Columns, forecasting.NewAdapter(engine, cfg.ForecastTimeout()), logger),
		Store:            store,
		Issuer:           issuer,
		Defaults:         cfg.Forecast.Defaults,
		BufferPercentage: cfg.Recommendations.BufferPercentage,
		Logger:           logger,
	}
	if cfg.Database.URL != "" {
		pool, err := database.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		opts.DB = pool
		opts.SalesQuery = cfg.Database.SalesQuery
	} else {
		logger.Info("DATABASE_URL not set, database import disabled")
	}

	app := routes.NewApp(cfg.Server.BodyLimitMB, logger)
	routes.SetupRoutes(app, handlers.New(opts), issuer, store)

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Warn("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("starting server",
		zap.String("port", cfg.Server.Port),
		zap.String("engine", engine.Name()),
	)
	return app.Listen(":" + cfg.Server.Port)
}
