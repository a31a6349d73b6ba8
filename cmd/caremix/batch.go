package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/db"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/engine"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/exitcode"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/normalize"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/parquetio"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/store"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Classify a JSON-lines file of assessments",
	Long: "Reads one classification request per line ({\"assessment\":{...},\"therapy_minutes\":N}), " +
		"classifies them concurrently, and writes results to Parquet (--out) and/or Postgres (--dsn).",
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to JSON-lines requests (required)")
	f.StringVar(&cfg.OutPath, "out", "", "Write classification rows to this Parquet file")
	f.IntVar(&cfg.Workers, "workers", 0, "Concurrent classifiers (default GOMAXPROCS)")
	f.BoolVar(&cfg.DryRun, "dry-run", false, "Classify only, write nothing")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}

// lineRequest is one parsed input line. Err is set when the line could not
// be decoded; such lines are reported and skipped.
type lineRequest struct {
	Line int
	Req  engine.Request
	Err  error
}

func runBatch(cmd *cobra.Command, args []string) error {
	log := setup()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if cfg.OutPath == "" && cfg.DSN == "" && !cfg.DryRun {
		log.Error().Msg("nothing to write: pass --out, --dsn or --dry-run")
		os.Exit(exitcode.UsageError)
	}
	if cfg.Workers == 0 {
		cfg.Workers = cfg.Engine.Workers
	}

	eng, err := buildEngine(cfg.Engine, log, nil)
	if err != nil {
		log.Error().Err(err).Msg("engine config invalid")
		os.Exit(exitcode.UsageError)
	}

	start := time.Now()
	lines, err := readRequests(cfg.FilePath, cfg.BaseDailyRate)
	if err != nil {
		log.Error().Err(err).Msg("failed to read requests")
		os.Exit(exitcode.ValidationError)
	}

	var (
		reqs     []engine.Request
		lineNums []int
		rejected int
	)
	for _, l := range lines {
		if l.Err != nil {
			rejected++
			log.Warn().Err(l.Err).Int("line", l.Line).Msg("line rejected")
			continue
		}
		reqs = append(reqs, l.Req)
		lineNums = append(lineNums, l.Line)
	}

	items, err := eng.ClassifyBatch(ctx, reqs, cfg.Workers)
	if err != nil {
		log.Error().Err(err).Msg("batch classification interrupted")
		os.Exit(exitcode.ClassifyError)
	}

	runID := uuid.New()
	now := time.Now()
	var (
		rows     []*model.ClassificationRow
		accepted []engine.Request
	)
	for _, it := range items {
		if it.Err != nil {
			rejected++
			log.Warn().Err(it.Err).Int("line", lineNums[it.Index]).Msg("assessment rejected")
			continue
		}
		a := reqs[it.Index].Assessment
		rows = append(rows, normalize.ClassificationRow(it.Report, &a, runID, now))
		accepted = append(accepted, reqs[it.Index])
	}

	accepted, rows, superseded := latestPerAssessment(accepted, rows)
	if superseded > 0 {
		log.Warn().Int("superseded", superseded).Msg("repeated assessment ids: keeping the last line of each")
	}

	log.Info().
		Int("lines", len(lines)).
		Int("classified", len(rows)).
		Int("rejected", rejected).
		Dur("duration", time.Since(start)).
		Msg("classification complete")

	if !cfg.DryRun {
		if cfg.OutPath != "" {
			if err := writeParquet(cfg.OutPath, rows); err != nil {
				log.Error().Err(err).Str("out", cfg.OutPath).Msg("parquet export failed")
				os.Exit(exitcode.StoreError)
			}
			log.Info().Str("out", cfg.OutPath).Int("rows", len(rows)).Msg("parquet written")
		}
		if cfg.DSN != "" {
			if code := storeBatch(ctx, log, runID, accepted, rows); code != exitcode.Success {
				os.Exit(code)
			}
		}
	}

	fmt.Printf("Batch complete: %d classified, %d rejected (run %s)\n", len(rows), rejected, runID)
	if rejected > 0 {
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}

// readRequests reads JSON-lines. Blank lines are skipped; a rate of zero on
// a line falls back to defaultRate.
func readRequests(path string, defaultRate float64) ([]lineRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []lineRequest
	r := bufio.NewReader(f)
	for n := 1; ; n++ {
		line, readErr := r.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			lr := lineRequest{Line: n}
			if err := json.Unmarshal(line, &lr.Req); err != nil {
				lr.Err = fmt.Errorf("decode line: %w", err)
			} else if lr.Req.BaseDailyRate == 0 {
				lr.Req.BaseDailyRate = defaultRate
			}
			out = append(out, lr)
		}
		if errors.Is(readErr, io.EOF) {
			return out, nil
		}
		if readErr != nil {
			return nil, fmt.Errorf("read line %d: %w", n, readErr)
		}
	}
}

func writeParquet(path string, rows []*model.ClassificationRow) error {
	w, err := parquetio.Create(path)
	if err != nil {
		return err
	}
	if err := w.WriteRows(rows...); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// latestPerAssessment drops every request whose assessment_id appears again
// later in the batch, so each assessment contributes exactly one row. Rows
// without an assessment_id are kept. The result keeps input order.
func latestPerAssessment(reqs []engine.Request, rows []*model.ClassificationRow) ([]engine.Request, []*model.ClassificationRow, int) {
	last := make(map[uuid.UUID]int, len(rows))
	for i, row := range rows {
		if row.AssessmentID != uuid.Nil {
			last[row.AssessmentID] = i
		}
	}
	outReqs := reqs[:0:0]
	outRows := rows[:0:0]
	for i, row := range rows {
		if row.AssessmentID != uuid.Nil && last[row.AssessmentID] != i {
			continue
		}
		outReqs = append(outReqs, reqs[i])
		outRows = append(outRows, row)
	}
	return outReqs, outRows, len(rows) - len(outRows)
}

func storeBatch(ctx context.Context, log zerolog.Logger, runID uuid.UUID, reqs []engine.Request, rows []*model.ClassificationRow) int {
	pool, err := db.NewPool(ctx, cfg.DSN, 0, 0)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		return exitcode.DBConnError
	}
	defer pool.Close()
	repo := store.NewRepository(pool)

	for _, r := range reqs {
		if err := repo.UpsertAssessment(ctx, r.Assessment, r.TherapyMinutes); err != nil {
			log.Error().Err(err).Msg("store assessment failed")
			return exitcode.StoreError
		}
	}

	ch := make(chan *model.ClassificationRow, 256)
	go func() {
		defer close(ch)
		for _, row := range rows {
			select {
			case ch <- row:
			case <-ctx.Done():
				return
			}
		}
	}()
	n, err := repo.CopyRows(ctx, ch)
	if err == nil {
		err = ctx.Err()
	}
	if err == nil {
		err = repo.MarkCurrent(ctx, runID)
	}
	if err != nil {
		log.Error().Err(err).Msg("store classifications failed")
		if _, derr := repo.DeleteRun(context.Background(), runID); derr != nil {
			log.Warn().Err(derr).Msg("run cleanup failed (non-fatal)")
		}
		return exitcode.StoreError
	}
	log.Info().Int64("rows", n).Str("run_id", runID.String()).Msg("classifications stored")
	return exitcode.Success
}
