package motor

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Runner simulates scenarios on a fixed pool of workers. Sessions are split
// into contiguous ranges, one work batch per (method, range); every batch
// fills its own ResultSet and the sets are merged in batch order once all
// workers are done, so session indices line up across network models no
// matter how many workers ran.
type Runner struct {
	opts  RunnerOptions
	stats runnerAtomicStats
}

// creates a new runner
func NewRunner(opts RunnerOptions) *Runner {
	defaults := DefaultRunnerOptions()
	if opts.WorkerCount <= 0 {
		opts.WorkerCount = runtime.NumCPU()
	}
	if opts.Logger == nil {
		opts.Logger = defaults.Logger
	}
	return &Runner{opts: opts}
}

// Run simulates every session of every method on every network model. The
// first failure cancels the remaining batches and is returned; no partial
// results are produced.
func (r *Runner) Run(ctx context.Context, scenario Scenario) (*ResultSet, error) {
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	if len(scenario.Sessions) == 0 {
		r.opts.Logger.Warn("scenario has no sessions, nothing to simulate")
		return NewResultSet(), nil
	}

	ranges := createWorkRanges(len(scenario.Sessions), r.opts.WorkerCount)
	batches := make([]runBatch, 0, len(scenario.Methods)*len(ranges))
	for _, method := range scenario.Methods {
		for _, rg := range ranges {
			batches = append(batches, runBatch{
				slot:     len(batches),
				method:   method,
				sessions: rg,
			})
		}
	}

	r.opts.Logger.Debug("starting simulation",
		"methods", len(scenario.Methods),
		"networks", len(scenario.Networks),
		"sessions", len(scenario.Sessions),
		"batches", len(batches),
		"workers", r.opts.WorkerCount)

	startTime := time.Now()
	slots := make([]*ResultSet, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	workQueue := make(chan runBatch, r.opts.WorkerCount*2)

	// producer
	g.Go(func() error {
		defer close(workQueue)
		for _, batch := range batches {
			select {
			case workQueue <- batch:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	// fixed worker pool
	for i := 0; i < r.opts.WorkerCount; i++ {
		g.Go(func() error {
			return runWorker(gctx, workQueue, r, scenario, slots)
		})
	}

	// barrier: every slot is written before merging
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := MergeResults(slots)
	duration := time.Since(startTime)
	atomic.StoreInt64(&r.stats.runDuration, int64(duration))

	r.opts.Logger.Info("simulation complete",
		"sequences", merged.SequenceCount(),
		"graphs", atomic.LoadInt64(&r.stats.graphsSimulated),
		"duration", duration)

	return merged, nil
}

// Stats returns current runner statistics
func (r *Runner) Stats() RunnerStats {
	return RunnerStats{
		BatchesCompleted:  atomic.LoadInt64(&r.stats.batchesCompleted),
		SessionsSimulated: atomic.LoadInt64(&r.stats.sessionsSimulated),
		GraphsSimulated:   atomic.LoadInt64(&r.stats.graphsSimulated),
		SequencesRecorded: atomic.LoadInt64(&r.stats.sequencesRecorded),
		RunDuration:       time.Duration(atomic.LoadInt64(&r.stats.runDuration)),
	}
}
