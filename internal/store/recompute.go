package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/engine"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/normalize"
)

const classifyChunk = 256

// RecomputeOptions selects what a recompute run touches.
type RecomputeOptions struct {
	ResidentID    string
	BaseDailyRate float64
	Workers       int
	Force         bool
}

// Recompute reclassifies stored assessments: load → classify → store →
// finalize. Assessments whose current classification was computed from the
// same content, base rate and therapy minutes are skipped unless Force is
// set. Rows of a failed run are deleted so no partial result becomes
// current.
func Recompute(ctx context.Context, repo *Repository, eng *engine.Engine, log zerolog.Logger, opts RecomputeOptions) (*model.RecomputeSummary, error) {
	totalStart := time.Now()
	runID := uuid.New()
	summary := &model.RecomputeSummary{
		RunID:      runID.String(),
		ByCategory: make(map[model.RUGCategory]int64),
	}

	// Phase 1: Load
	log.Info().Str("resident_id", opts.ResidentID).Msg("loading assessments")
	loadStart := time.Now()
	pending, err := loadPending(ctx, repo, eng, opts, summary)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseLoad, Err: err}
	}
	summary.DurationLoad = time.Since(loadStart)

	log.Info().
		Int64("loaded", summary.AssessmentsLoaded).
		Int64("skipped", summary.AssessmentsSkipped).
		Msg("load complete")

	if len(pending) == 0 {
		log.Info().Msg("all classifications are current, nothing to do (use --force to recompute)")
		summary.DurationTotal = time.Since(totalStart)
		return summary, nil
	}

	// Phase 2+3: classify feeds COPY through a bounded channel.
	ch := make(chan *model.ClassificationRow, classifyChunk)
	errCh := make(chan error, 1)
	classifyStart := time.Now()

	go func() {
		defer close(ch)
		err := produceRows(ctx, eng, log, runID, pending, opts, summary, ch)
		summary.DurationClassify = time.Since(classifyStart)
		errCh <- err
	}()

	stored, copyErr := repo.CopyRows(ctx, ch)
	prodErr := <-errCh
	summary.DurationStore = time.Since(classifyStart)

	if prodErr != nil || copyErr != nil {
		cleanupRun(repo, log, runID)
		if prodErr != nil {
			return nil, &PipelineError{Phase: PhaseClassify, Err: prodErr}
		}
		return nil, &PipelineError{Phase: PhaseStore, Err: copyErr}
	}
	summary.RowsStored = stored

	// Phase 4: Finalize
	log.Info().Msg("finalizing")
	if err := repo.MarkCurrent(ctx, runID); err != nil {
		cleanupRun(repo, log, runID)
		return nil, &PipelineError{Phase: PhaseFinalize, Err: err}
	}

	summary.DurationTotal = time.Since(totalStart)
	log.Info().
		Str("run_id", summary.RunID).
		Int64("classified", summary.Classified).
		Int64("rejected", summary.Rejected).
		Int64("rows_stored", summary.RowsStored).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("recompute complete")

	return summary, nil
}

func loadPending(ctx context.Context, repo *Repository, eng *engine.Engine, opts RecomputeOptions, summary *model.RecomputeSummary) ([]StoredAssessment, error) {
	all, err := repo.LoadAssessments(ctx, opts.ResidentID)
	if err != nil {
		return nil, err
	}
	summary.AssessmentsLoaded = int64(len(all))
	if opts.Force {
		return all, nil
	}

	marks, err := repo.CurrentMarks(ctx, opts.ResidentID)
	if err != nil {
		return nil, err
	}
	rateCents := normalize.RoundCents(opts.BaseDailyRate)

	pending := all[:0]
	for _, sa := range all {
		m, ok := marks[sa.Assessment.AssessmentID]
		if ok && upToDate(eng, m, sa, rateCents) {
			summary.AssessmentsSkipped++
			continue
		}
		pending = append(pending, sa)
	}
	return pending, nil
}

// upToDate reports whether the current classification was computed from
// the same sections, base rate and effective therapy minutes.
func upToDate(eng *engine.Engine, m CurrentMark, sa StoredAssessment, rateCents int64) bool {
	if m.BaseRateCents != rateCents {
		return false
	}
	a := normalize.Assessment(sa.Assessment)
	return m.AssessmentSHA256 == normalize.AssessmentHash(a) &&
		m.TherapyMinutes == eng.TherapyMinutes(a, sa.TherapyMinutes)
}

func produceRows(ctx context.Context, eng *engine.Engine, log zerolog.Logger, runID uuid.UUID,
	pending []StoredAssessment, opts RecomputeOptions, summary *model.RecomputeSummary,
	ch chan<- *model.ClassificationRow) error {

	for start := 0; start < len(pending); start += classifyChunk {
		end := min(start+classifyChunk, len(pending))
		chunk := pending[start:end]

		reqs := make([]engine.Request, len(chunk))
		for i, sa := range chunk {
			reqs[i] = engine.Request{
				Assessment:     sa.Assessment,
				TherapyMinutes: sa.TherapyMinutes,
				BaseDailyRate:  opts.BaseDailyRate,
			}
		}

		items, err := eng.ClassifyBatch(ctx, reqs, opts.Workers)
		if err != nil {
			return fmt.Errorf("classify batch at %d: %w", start, err)
		}

		now := time.Now()
		for _, it := range items {
			a := &chunk[it.Index].Assessment
			if it.Err != nil {
				summary.Rejected++
				log.Warn().Err(it.Err).Str("assessment_id", a.AssessmentID.String()).Msg("assessment rejected")
				continue
			}
			summary.Classified++
			summary.ByCategory[it.Report.Classification.RUGCategory]++

			select {
			case ch <- normalize.ClassificationRow(it.Report, a, runID, now):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

// cleanupRun uses a fresh context so a canceled run still gets cleaned up.
func cleanupRun(repo *Repository, log zerolog.Logger, runID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	n, err := repo.DeleteRun(ctx, runID)
	if err != nil {
		log.Warn().Err(err).Str("run_id", runID.String()).Msg("run cleanup failed (non-fatal)")
		return
	}
	log.Info().Int64("rows_deleted", n).Str("run_id", runID.String()).Msg("partial run removed")
}
