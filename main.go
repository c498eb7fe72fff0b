package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bakery/config"
	"bakery/forecasting"
	"bakery/logging"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bakery",
	Short: "Bakery sales forecasting and production planning",
	Long: `bakery turns daily sales history into demand forecasts and buffered
production plans.

Run "bakery serve" to start the HTTP API, or use "validate" and "forecast"
to work on a file from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real environment variables still apply
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logCfg := cfg.Logging
		if verbose {
			logCfg.Level = "debug"
		}
		logger, err = logging.NewLogger(logCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newForecaster builds the engine selected in the config. The returned
// function releases its resources.
func newForecaster(ctx context.Context, cfg *config.Config) (forecasting.Forecaster, func(), error) {
	switch cfg.Forecast.Engine {
	case config.EngineGemini:
		g, err := forecasting.NewGeminiForecaster(ctx, cfg.Forecast.GeminiAPIKey, cfg.Forecast.GeminiModel, logger)
		if err != nil {
			return nil, nil, err
		}
		return g, func() { _ = g.Close() }, nil
	default:
		return forecasting.NewSeasonalForecaster(), func() {}, nil
	}
}
