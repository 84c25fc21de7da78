package pipeline

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchResult is one tribe's outcome from a batch run.
type BatchResult struct {
	TribeID string
	Result  *Result
	Err     error
}

// GenerateAll generates packets for the given tribe IDs with at most
// concurrency running at once. Each ID is handled by exactly one
// goroutine, so the per-tribe snapshot write stays single-writer.
// Individual failures land in the returned slice rather than aborting
// the batch; results keep the input order.
func (g *Generator) GenerateAll(ctx context.Context, ids []string, concurrency int) []BatchResult {
	if concurrency < 1 {
		concurrency = 1
	}

	zap.L().Info("pipeline: processing batch",
		zap.Int("tribes", len(ids)),
		zap.Int("concurrency", concurrency),
	)

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	out := make([]BatchResult, len(ids))
	var succeeded, failed atomic.Int64

	for i, id := range ids {
		eg.Go(func() error {
			res, err := g.Generate(gctx, id)
			out[i] = BatchResult{TribeID: id, Result: res, Err: err}
			if err != nil {
				failed.Add(1)
				zap.L().Error("pipeline: generation failed",
					zap.String("tribe", id), zap.Error(err))
				return nil // don't abort the batch on individual failure
			}
			succeeded.Add(1)
			return nil
		})
	}
	_ = eg.Wait()

	zap.L().Info("pipeline: batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return out
}
