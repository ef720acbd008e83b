package motor

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// Scenario is everything a run needs: the methods to compare, the network
// models to simulate them on and the browsing sessions to replay.
type Scenario struct {
	Methods  []Method
	Networks []NetworkProfile
	Sessions [][]PageView
}

// Labels maps each network model name to its category label.
func (s Scenario) Labels() map[string]NetworkLabel {
	labels := make(map[string]NetworkLabel, len(s.Networks))
	for _, n := range s.Networks {
		if n.Label.Category == "" {
			continue
		}
		labels[n.Name] = n.Label
	}
	return labels
}

// Validate checks that the scenario can be run.
func (s Scenario) Validate() error {
	if len(s.Methods) == 0 {
		return fmt.Errorf("scenario has no methods")
	}
	if len(s.Networks) == 0 {
		return fmt.Errorf("scenario has no network models")
	}

	methods := make(map[string]struct{}, len(s.Methods))
	for _, m := range s.Methods {
		if _, dup := methods[m.Name()]; dup {
			return fmt.Errorf("duplicate method %q", m.Name())
		}
		methods[m.Name()] = struct{}{}
	}

	networks := make(map[string]struct{}, len(s.Networks))
	for _, n := range s.Networks {
		if err := n.Validate(); err != nil {
			return err
		}
		if _, dup := networks[n.Name]; dup {
			return fmt.Errorf("duplicate network model %q", n.Name)
		}
		networks[n.Name] = struct{}{}
	}
	return nil
}

type RunnerStats struct {
	BatchesCompleted  int64
	SessionsSimulated int64
	GraphsSimulated   int64
	SequencesRecorded int64
	RunDuration       time.Duration
}

// runnerAtomicStats holds runner statistics with atomic operations
type runnerAtomicStats struct {
	batchesCompleted  int64
	sessionsSimulated int64
	graphsSimulated   int64
	sequencesRecorded int64
	runDuration       int64 // nanoseconds
}

type RunnerOptions struct {
	WorkerCount int          // default: runtime.NumCPU()
	Logger      *slog.Logger // default: slog.Default()
}

func DefaultRunnerOptions() RunnerOptions {
	return RunnerOptions{
		WorkerCount: runtime.NumCPU(),
		Logger:      slog.Default(),
	}
}
