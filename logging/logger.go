// Package logging builds the structured zap loggers used across the service.
package logging

import (
	"go.uber.org/zap"

	"bakery/models"
)

// Config holds logging configuration.
type Config struct {
	Level       string `yaml:"level" json:"level"`
	Format      string `yaml:"format" json:"format"` // "json" or "console"
	OutputPath  string `yaml:"output_path" json:"output_path"`
	Development bool   `yaml:"development" json:"development"`
}

// NewLogger creates a zap logger from config. Unknown levels fall back to info.
func NewLogger(config Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if config.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(config.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	if config.Format == "console" {
		zapConfig.Encoding = "console"
	} else {
		zapConfig.Encoding = "json"
	}

	if config.OutputPath != "" {
		zapConfig.OutputPaths = []string{config.OutputPath}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", "bakery")), nil
}

// LogDataQuality logs each soft diagnostic collected while preparing a dataset.
func LogDataQuality(logger *zap.Logger, source string, diagnostics []models.Diagnostic) {
	for _, d := range diagnostics {
		logger.Warn(d.Message,
			zap.String("source", source),
			zap.String("kind", string(d.Kind)),
			zap.String("field", d.Field),
			zap.Int("count", d.Count),
			zap.Ints("rows", d.Rows),
		)
	}
}
