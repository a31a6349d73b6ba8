package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/classify"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for a caremix run.
type Config struct {
	DSN            string
	FilePath       string
	OutPath        string
	EngineFile     string
	LogFormat      string // "text" or "json"
	LogLevel       string
	BaseDailyRate  float64
	TherapyMinutes int
	ResidentID     string
	Workers        int
	Force          bool
	JSON           bool
	DryRun         bool
	Engine         EngineConfig
}

// EngineConfig is the on-disk YAML structure for engine tuning.
type EngineConfig struct {
	BaseDailyRate            float64            `yaml:"base_daily_rate"`
	CaseMixIndex             map[string]float64 `yaml:"case_mix_index"`
	ComplexMedicalConditions []string           `yaml:"complex_medical_conditions"`
	TherapyItems             []string           `yaml:"therapy_items"`
	Workers                  int                `yaml:"workers"`
}

// LoadFromFile reads a YAML engine file and merges it into Config. Values
// already set from flags win over the file.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var ec EngineConfig
	if err := yaml.Unmarshal(data, &ec); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.Engine = ec
	if c.BaseDailyRate == 0 {
		c.BaseDailyRate = ec.BaseDailyRate
	}
	if c.Workers == 0 {
		c.Workers = ec.Workers
	}
	if err := c.validateCaseMix(); err != nil {
		return err
	}
	return c.validateConditions()
}

// validateCaseMix applies the overrides to the default table, so config load
// accepts exactly what the engine build accepts.
func (c *Config) validateCaseMix() error {
	if _, err := classify.DefaultTable().WithOverrides(c.Engine.CaseMixIndex); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// validateConditions defaults the complex-medical allow-list when the file
// leaves it empty.
func (c *Config) validateConditions() error {
	if len(c.Engine.ComplexMedicalConditions) == 0 {
		c.Engine.ComplexMedicalConditions = append([]string(nil), model.ComplexConditions...)
		return nil
	}
	for _, id := range c.Engine.ComplexMedicalConditions {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("empty condition identifier in complex_medical_conditions")
		}
	}
	return nil
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	return c.ValidateRate()
}

// ValidateRate checks the base daily rate.
func (c *Config) ValidateRate() error {
	if c.BaseDailyRate <= 0 {
		return fmt.Errorf("--base-rate (or base_daily_rate in --config) must be positive")
	}
	if c.TherapyMinutes < 0 {
		return fmt.Errorf("--minutes must not be negative")
	}
	return nil
}

// ValidateWithDSN checks the rate and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.ValidateRate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	return nil
}
