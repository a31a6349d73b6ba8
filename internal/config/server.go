package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ServerConfig is the environment-driven configuration of `caremix serve`.
type ServerConfig struct {
	Port           string  `mapstructure:"PORT"`
	DatabaseURL    string  `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32   `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32   `mapstructure:"DB_MIN_CONNS"`
	BaseDailyRate  float64 `mapstructure:"BASE_DAILY_RATE"`
	EngineConfig   string  `mapstructure:"ENGINE_CONFIG"`
	LogFormat      string  `mapstructure:"LOG_FORMAT"`
	LogLevel       string  `mapstructure:"LOG_LEVEL"`
	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`
}

var serverKeys = []string{
	"PORT",
	"DATABASE_URL",
	"DB_MAX_CONNS",
	"DB_MIN_CONNS",
	"BASE_DAILY_RATE",
	"ENGINE_CONFIG",
	"LOG_FORMAT",
	"LOG_LEVEL",
	"RATE_LIMIT_RPS",
	"RATE_LIMIT_BURST",
}

// LoadServer reads server settings from the environment and an optional
// .env file in the working directory.
func LoadServer() (*ServerConfig, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)

	for _, k := range serverKeys {
		_ = v.BindEnv(k)
	}

	// A missing .env is fine.
	_ = v.ReadInConfig()

	cfg := &ServerConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal server config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the server can start. DATABASE_URL is optional; without
// it the stored-classification endpoint is disabled.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.BaseDailyRate <= 0 && c.EngineConfig == "" {
		return fmt.Errorf("BASE_DAILY_RATE must be positive (or set in ENGINE_CONFIG)")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", c.LogFormat)
	}
	return nil
}

// HasDatabase reports whether a persistence collaborator is configured.
func (c *ServerConfig) HasDatabase() bool { return c.DatabaseURL != "" }
