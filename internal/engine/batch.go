package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
)

// BatchItem is the outcome for one request of a batch. Exactly one of
// Report and Err is set.
type BatchItem struct {
	Index  int
	Report *model.Report
	Err    error
}

// ClassifyBatch evaluates requests concurrently with at most workers in
// flight (GOMAXPROCS when workers <= 0). Items come back in input order.
// Per-request failures are reported on their item; the returned error is
// non-nil only when ctx is done.
func (e *Engine) ClassifyBatch(ctx context.Context, reqs []Request, workers int) ([]BatchItem, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	items := make([]BatchItem, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range reqs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rep, err := e.Evaluate(reqs[i])
			items[i] = BatchItem{Index: i, Report: rep, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
