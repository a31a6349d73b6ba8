package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/db"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
)

// CopyRows COPY-loads rows from ch into care.classifications until ch is
// closed. The producer owns ch and must close it.
func (r *Repository) CopyRows(ctx context.Context, ch <-chan *model.ClassificationRow) (int64, error) {
	source := db.NewChannelSource(ch)
	n, err := r.pool.CopyFrom(ctx, classificationsTable, model.ClassificationColumns(), source)
	if err != nil {
		// Drain so a blocked producer can observe completion.
		for range ch {
		}
		return 0, fmt.Errorf("copy classifications: %w", err)
	}
	return n, nil
}

// MarkCurrent makes the rows written by runID the current classification of
// their assessments.
func (r *Repository) MarkCurrent(ctx context.Context, runID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := markCurrent(ctx, tx, runID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
