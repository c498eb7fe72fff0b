// Package config loads the service configuration from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"bakery/logging"
	"bakery/models"
	"bakery/processing"
	"bakery/recommendations"
)

// Forecasting engines.
const (
	EngineSeasonal = "seasonal"
	EngineGemini   = "gemini"
)

// Config is the root configuration.
type Config struct {
	Server          ServerConfig            `yaml:"server"`
	Auth            AuthConfig              `yaml:"auth"`
	Database        DatabaseConfig          `yaml:"database"`
	Forecast        ForecastConfig          `yaml:"forecast"`
	Recommendations RecommendationsConfig   `yaml:"recommendations"`
	Session         SessionConfig           `yaml:"session"`
	Logging         logging.Config          `yaml:"logging"`
	Columns         processing.SynonymTable `yaml:"columns"`
}

type ServerConfig struct {
	Port        string `yaml:"port"`
	BodyLimitMB int    `yaml:"body_limit_mb"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	TokenTTL  string `yaml:"token_ttl"`
}

// DatabaseConfig configures the optional PostgreSQL sales source. An empty
// SalesQuery selects the built-in query.
type DatabaseConfig struct {
	URL        string `yaml:"url"`
	SalesQuery string `yaml:"sales_query"`
}

type ForecastConfig struct {
	Engine       string                `yaml:"engine"`
	Timeout      string                `yaml:"timeout"`
	GeminiAPIKey string                `yaml:"gemini_api_key"`
	GeminiModel  string                `yaml:"gemini_model"`
	Defaults     models.ForecastParams `yaml:"defaults"`
}

type RecommendationsConfig struct {
	BufferPercentage float64 `yaml:"buffer_percentage"`
}

type SessionConfig struct {
	TTL           string `yaml:"ttl"`
	SweepInterval string `yaml:"sweep_interval"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "3000",
			BodyLimitMB: 20,
		},
		Auth: AuthConfig{
			TokenTTL: "24h",
		},
		Forecast: ForecastConfig{
			Engine:      EngineSeasonal,
			Timeout:     "60s",
			GeminiModel: "gemini-2.5-flash-lite",
			Defaults:    models.DefaultForecastParams(),
		},
		Recommendations: RecommendationsConfig{
			BufferPercentage: models.DefaultBufferPercentage,
		},
		Session: SessionConfig{
			TTL:           "2h",
			SweepInterval: "5m",
		},
		Logging: logging.Config{
			Level:  "info",
			Format: "json",
		},
		Columns: processing.DefaultSynonyms(),
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment variables override both.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if len(cfg.Columns) == 0 {
		cfg.Columns = processing.DefaultSynonyms()
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.Database.URL = url
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Forecast.GeminiAPIKey = key
	}
	if engine := os.Getenv("FORECAST_ENGINE"); engine != "" {
		c.Forecast.Engine = engine
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}
}

// ForecastTimeout returns the engine deadline.
func (c *Config) ForecastTimeout() time.Duration {
	return parseDuration(c.Forecast.Timeout, 60*time.Second)
}

// TokenTTL returns the lifetime of session tokens.
func (c *Config) TokenTTL() time.Duration {
	return parseDuration(c.Auth.TokenTTL, 24*time.Hour)
}

// SessionTTL returns how long an unused session is kept.
func (c *Config) SessionTTL() time.Duration {
	return parseDuration(c.Session.TTL, 2*time.Hour)
}

func (c *Config) SweepInterval() time.Duration {
	return parseDuration(c.Session.SweepInterval, 5*time.Minute)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Validate checks the forecast defaults, the buffer and the engine settings.
func (c *Config) Validate() error {
	if err := c.Forecast.Defaults.Validate(); err != nil {
		return fmt.Errorf("forecast defaults: %w", err)
	}
	if err := recommendations.ValidateBuffer(c.Recommendations.BufferPercentage); err != nil {
		return fmt.Errorf("buffer_percentage must be between 0 and 100, got %g", c.Recommendations.BufferPercentage)
	}
	switch c.Forecast.Engine {
	case EngineSeasonal:
	case EngineGemini:
		if c.Forecast.GeminiAPIKey == "" {
			return fmt.Errorf("gemini engine requires GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("invalid forecast engine: %s (valid: %s, %s)", c.Forecast.Engine, EngineSeasonal, EngineGemini)
	}
	for _, field := range models.CanonicalFields {
		if _, ok := c.Columns.Rule(field); !ok {
			return fmt.Errorf("columns: no synonyms configured for %s", field)
		}
	}
	for _, rule := range c.Columns {
		if len(rule.Synonyms) == 0 {
			return fmt.Errorf("column %s has no synonyms", rule.Field)
		}
	}
	return nil
}
