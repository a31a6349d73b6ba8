// Package store persists assessments and their derived classifications in
// Postgres.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/normalize"
	embedsql "github.com/Efenterprise/serene-care-flow-sub003/internal/sql"
)

var classificationsTable = pgx.Identifier{"care", "classifications"}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
}

// StoredAssessment is an assessment as persisted, together with the therapy
// minutes reported alongside it.
type StoredAssessment struct {
	Assessment     model.Assessment
	TherapyMinutes int
}

// CurrentMark identifies the input a current classification was computed
// from.
type CurrentMark struct {
	AssessmentSHA256 string
	BaseRateCents    int64
	TherapyMinutes   int
}

// Repository is the pgx-backed persistence collaborator.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wraps a pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// UpsertAssessment stores the normalized form of a, replacing any earlier
// version of the same assessment event.
func (r *Repository) UpsertAssessment(ctx context.Context, a model.Assessment, therapyMinutes int) error {
	return upsertAssessment(ctx, r.pool, a, therapyMinutes)
}

func upsertAssessment(ctx context.Context, q querier, a model.Assessment, therapyMinutes int) error {
	if a.AssessmentID == uuid.Nil {
		return errors.New("assessment_id is required")
	}
	if a.ResidentID == "" {
		return errors.New("resident_id is required")
	}
	if therapyMinutes < 0 || therapyMinutes > model.MaxTherapyMinutes {
		return fmt.Errorf("therapy_minutes %d outside [0, %d]", therapyMinutes, model.MaxTherapyMinutes)
	}
	sections, err := json.Marshal(normalize.Assessment(a).Sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}
	_, err = q.Exec(ctx, embedsql.UpsertAssessment,
		a.AssessmentID,
		a.ResidentID,
		normalize.ParseDate(a.ReferenceDate),
		nilIfEmpty(a.Reason),
		sections,
		int32(therapyMinutes),
	)
	if err != nil {
		return fmt.Errorf("upsert assessment %s: %w", a.AssessmentID, err)
	}
	return nil
}

// LoadAssessments returns stored assessments, optionally restricted to one
// resident ("" loads everything).
func (r *Repository) LoadAssessments(ctx context.Context, residentID string) ([]StoredAssessment, error) {
	rows, err := r.pool.Query(ctx, embedsql.ListAssessments, residentID)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	var out []StoredAssessment
	for rows.Next() {
		var (
			a        model.Assessment
			refDate  *string
			sections []byte
			minutes  int32
		)
		if err := rows.Scan(&a.AssessmentID, &a.ResidentID, &refDate, &a.Reason, &sections, &minutes); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		if refDate != nil {
			a.ReferenceDate = *refDate
		}
		if err := json.Unmarshal(sections, &a.Sections); err != nil {
			return nil, fmt.Errorf("decode sections of %s: %w", a.AssessmentID, err)
		}
		out = append(out, StoredAssessment{Assessment: a, TherapyMinutes: int(minutes)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}
	return out, nil
}

// CurrentMarks returns the hash, base rate and therapy minutes behind every
// current classification, keyed by assessment.
func (r *Repository) CurrentMarks(ctx context.Context, residentID string) (map[uuid.UUID]CurrentMark, error) {
	rows, err := r.pool.Query(ctx, embedsql.CurrentHashes, residentID)
	if err != nil {
		return nil, fmt.Errorf("query current hashes: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]CurrentMark)
	for rows.Next() {
		var (
			id      uuid.UUID
			m       CurrentMark
			minutes int32
		)
		if err := rows.Scan(&id, &m.AssessmentSHA256, &m.BaseRateCents, &minutes); err != nil {
			return nil, fmt.Errorf("scan current hash: %w", err)
		}
		m.TherapyMinutes = int(minutes)
		out[id] = m
	}
	return out, rows.Err()
}

// CurrentClassification returns the current classification of an
// assessment, or ErrNotFound.
func (r *Repository) CurrentClassification(ctx context.Context, assessmentID uuid.UUID) (*model.ClassificationRow, error) {
	var row model.ClassificationRow
	err := r.pool.QueryRow(ctx, embedsql.CurrentClassification, assessmentID).Scan(
		&row.RunID, &row.AssessmentID, &row.ResidentID, &row.AssessmentSHA256, &row.ReferenceDate,
		&row.HIPPSCode, &row.RUGCategory, &row.Branch, &row.CaseMixIndex, &row.ADLScore,
		&row.RehabilitationCategory, &row.BehaviorCategory, &row.ComplexMedical,
		&row.SpecialCareHigh, &row.SpecialCareLow, &row.ReducedPhysicalFunction,
		&row.TherapyMinutes, &row.BaseRateCents, &row.DailyRateCents, &row.MonthlyRevenueCents,
		&row.CoercionCount, &row.ComputedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query classification %s: %w", assessmentID, err)
	}
	return &row, nil
}

// Save persists one assessment and its report in a single transaction and
// makes the new classification current.
func (r *Repository) Save(ctx context.Context, a model.Assessment, therapyMinutes int, rep *model.Report) (*model.ClassificationRow, error) {
	runID := uuid.New()
	row := normalize.ClassificationRow(rep, &a, runID, time.Now())

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := upsertAssessment(ctx, tx, a, therapyMinutes); err != nil {
		return nil, err
	}
	if _, err := tx.CopyFrom(ctx, classificationsTable, model.ClassificationColumns(),
		pgx.CopyFromRows([][]any{row.CopyValues()})); err != nil {
		return nil, fmt.Errorf("insert classification: %w", err)
	}
	if err := markCurrent(ctx, tx, runID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return row, nil
}

// markCurrent flips is_current from older results to the newest row of
// runID per assessment. The assessments are locked first so concurrent
// writers for the same assessment serialize; clearing runs before setting
// because the partial unique index allows only one current row per
// assessment.
func markCurrent(ctx context.Context, q querier, runID uuid.UUID) error {
	if _, err := q.Exec(ctx, embedsql.LockRunAssessments, runID); err != nil {
		return fmt.Errorf("lock assessments: %w", err)
	}
	if _, err := q.Exec(ctx, embedsql.ClearCurrent, runID); err != nil {
		return fmt.Errorf("clear current: %w", err)
	}
	if _, err := q.Exec(ctx, embedsql.SetCurrent, runID); err != nil {
		return fmt.Errorf("set current: %w", err)
	}
	return nil
}

// DeleteRun removes every classification written by runID.
func (r *Repository) DeleteRun(ctx context.Context, runID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, embedsql.DeleteRun, runID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
