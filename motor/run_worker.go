package motor

import (
	"context"
	"fmt"
	"sync/atomic"
)

// runBatch is one method over a range of sessions
type runBatch struct {
	slot     int // index of the result set this batch fills
	method   Method
	sessions workRange
}

// runWorker processes batches until the queue closes or the context is cancelled
func runWorker(ctx context.Context,
	workQueue <-chan runBatch,
	runner *Runner,
	scenario Scenario,
	slots []*ResultSet) error {

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case batch, ok := <-workQueue:
			if !ok {
				return nil // work queue closed, all done
			}

			results, err := simulateBatch(ctx, runner, batch, scenario)
			if err != nil {
				return err
			}

			// each slot belongs to exactly one batch, read only after the barrier
			slots[batch.slot] = results
			atomic.AddInt64(&runner.stats.batchesCompleted, 1)
		}
	}
}

// simulateBatch replays each session in the batch once through the method and
// simulates the resulting graphs on every network model
func simulateBatch(ctx context.Context, runner *Runner, batch runBatch, scenario Scenario) (*ResultSet, error) {
	results := NewResultSet()
	name := batch.method.Name()

	for i := batch.sessions.startIndex; i < batch.sessions.endIndex; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		graphs, err := replaySession(batch.method, scenario.Sessions[i])
		if err != nil {
			return nil, fmt.Errorf("method %s: session %d: %w", name, i, err)
		}
		atomic.AddInt64(&runner.stats.sessionsSimulated, 1)

		for _, network := range scenario.Networks {
			seq, err := SimulateSequence(graphs, network)
			if err != nil {
				return nil, fmt.Errorf("method %s: session %d: %w", name, i, err)
			}
			results.Add(name, network.Name, seq)
			atomic.AddInt64(&runner.stats.graphsSimulated, int64(len(graphs)))
			atomic.AddInt64(&runner.stats.sequencesRecorded, 1)
		}
	}

	runner.opts.Logger.Debug("batch complete",
		"method", name,
		"first_session", batch.sessions.startIndex,
		"sessions", batch.sessions.endIndex-batch.sessions.startIndex)

	return results, nil
}

// replaySession feeds the page views of one session through a fresh method session
func replaySession(method Method, views []PageView) ([]*RequestGraph, error) {
	session := method.StartSession()
	for j, view := range views {
		if err := session.PageView(view); err != nil {
			return nil, fmt.Errorf("page view %d: %w", j, err)
		}
	}
	return session.RequestGraphs(), nil
}
