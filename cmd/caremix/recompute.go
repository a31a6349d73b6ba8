package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/db"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/exitcode"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/store"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Reclassify stored assessments and make the results current",
	RunE:  runRecompute,
}

func init() {
	f := recomputeCmd.Flags()
	f.StringVar(&cfg.ResidentID, "resident", "", "Only recompute this resident's assessments")
	f.BoolVar(&cfg.Force, "force", false, "Recompute even when the current result is up to date")
	f.IntVar(&cfg.Workers, "workers", 0, "Concurrent classifiers (default GOMAXPROCS)")
	rootCmd.AddCommand(recomputeCmd)
}

func runRecompute(cmd *cobra.Command, args []string) error {
	log := setup()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	eng, err := buildEngine(cfg.Engine, log, nil)
	if err != nil {
		log.Error().Err(err).Msg("engine config invalid")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN, 0, 0)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	summary, err := store.Recompute(ctx, store.NewRepository(pool), eng, log, store.RecomputeOptions{
		ResidentID:    cfg.ResidentID,
		BaseDailyRate: cfg.BaseDailyRate,
		Workers:       cfg.Workers,
		Force:         cfg.Force,
	})
	if err != nil {
		var pe *store.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("recompute failed")
			switch pe.Phase {
			case store.PhaseClassify:
				os.Exit(exitcode.ClassifyError)
			default:
				os.Exit(exitcode.StoreError)
			}
		}
		log.Error().Err(err).Msg("recompute failed")
		os.Exit(exitcode.StoreError)
	}

	fmt.Printf("Recompute complete: %d classified, %d skipped, %d rejected, %d rows stored (%.1fs)\n",
		summary.Classified, summary.AssessmentsSkipped, summary.Rejected, summary.RowsStored,
		summary.DurationTotal.Seconds())
	if summary.Rejected > 0 {
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}
