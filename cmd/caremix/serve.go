package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/api"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/config"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/db"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/exitcode"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/logging"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/metrics"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the classification API over HTTP",
	Long:  "Configured from the environment (PORT, DATABASE_URL, BASE_DAILY_RATE, ENGINE_CONFIG, LOG_FORMAT, RATE_LIMIT_RPS, RATE_LIMIT_BURST) or a .env file.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	sc, err := config.LoadServer()
	if err != nil {
		setupLog := logging.Setup("json")
		setupLog.Error().Err(err).Msg("load server config")
		os.Exit(exitcode.UsageError)
	}
	log := logging.New(os.Stderr, sc.LogFormat, sc.LogLevel)

	if err := sc.Validate(); err != nil {
		log.Error().Err(err).Msg("server config invalid")
		os.Exit(exitcode.UsageError)
	}

	cfg.BaseDailyRate = sc.BaseDailyRate
	if sc.EngineConfig != "" {
		if err := cfg.LoadFromFile(sc.EngineConfig); err != nil {
			log.Error().Err(err).Str("config", sc.EngineConfig).Msg("engine config invalid")
			os.Exit(exitcode.UsageError)
		}
	}
	if err := cfg.ValidateRate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewRecorder(reg)

	eng, err := buildEngine(cfg.Engine, log, rec)
	if err != nil {
		log.Error().Err(err).Msg("engine config invalid")
		os.Exit(exitcode.UsageError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st api.Store
	if sc.HasDatabase() {
		pool, err := db.NewPool(ctx, sc.DatabaseURL, sc.DBMaxConns, sc.DBMinConns)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBConnError)
		}
		defer pool.Close()
		st = store.NewRepository(pool)
		log.Info().Msg("persistence enabled")
	} else {
		log.Warn().Msg("DATABASE_URL not set, stored classifications disabled")
	}

	h := api.NewHandler(eng, st, cfg.BaseDailyRate, log).WithInvalidInputRecorder(rec)
	e := api.NewServer(h, log, api.ServerOptions{
		RateLimitRPS:   sc.RateLimitRPS,
		RateLimitBurst: sc.RateLimitBurst,
		Metrics:        rec,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", sc.Port).Msg("server starting")
		errCh <- e.Start(":" + sc.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			os.Exit(exitcode.ServeError)
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
			os.Exit(exitcode.ServeError)
		}
	}
	log.Info().Msg("server stopped")
	return nil
}
