package engine

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/bandkit/bandkit/internal/domain/run"
	"github.com/bandkit/bandkit/internal/stream"
)

// Job is one independent report run inside a batch.
type Job struct {
	Name   string
	Engine *Engine
	Source stream.Source
	Params map[string]any
	Config RunConfig
}

// JobResult pairs a job with its run outcome. Result is non-nil even for
// failed runs, carrying whatever instructions were emitted before the
// failure.
type JobResult struct {
	Name   string
	Result *run.Result
	Err    error
}

// RunBatch executes independent jobs concurrently, bounded by limit
// workers (defaults to the CPU count when limit <= 0). One job failing
// never aborts the others; failures are logged and reported per job.
// Results come back in job order.
func RunBatch(ctx context.Context, logger *slog.Logger, limit int, jobs []Job) []JobResult {
	if logger == nil {
		logger = slog.Default()
	}
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]JobResult, len(jobs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, job := range jobs {
		g.Go(func() error {
			res, err := job.Engine.Run(gCtx, job.Source, job.Params, job.Config)
			if err != nil {
				logger.Warn("batch job did not complete",
					"job", job.Name,
					"outcome", res.Outcome,
					"error", err)
			}
			results[i] = JobResult{Name: job.Name, Result: res, Err: err}
			// Job errors are recorded per job, never propagated: a failed
			// report must not cancel its siblings.
			return nil
		})
	}

	// Workers always return nil, so Wait only reflects ctx cancellation
	// already visible in the per-job results.
	_ = g.Wait()
	return results
}
