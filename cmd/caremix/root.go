package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/config"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/exitcode"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/logging"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "caremix",
	Short: "RUG-IV case-mix classification for skilled nursing assessments",
	Long: "Classifies MDS assessments into RUG-IV categories and HIPPS codes, projects " +
		"reimbursement, and persists results to Postgres or Parquet.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&cfg.EngineFile, "config", "", "Path to engine YAML (case-mix overrides, conditions, base rate)")
	pf.Float64Var(&cfg.BaseDailyRate, "base-rate", 0, "Facility base daily rate")
}

// setup builds the logger and merges the engine file. Exits on bad config.
func setup() zerolog.Logger {
	log := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	if cfg.EngineFile != "" {
		if err := cfg.LoadFromFile(cfg.EngineFile); err != nil {
			log.Error().Err(err).Str("config", cfg.EngineFile).Msg("engine config invalid")
			os.Exit(exitcode.UsageError)
		}
	}
	return log
}
