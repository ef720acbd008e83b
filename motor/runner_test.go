package motor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingMethod requests one font per codepoint not seen earlier in the session
type countingMethod struct {
	name string
	fail string // page view id that fails
}

func (m countingMethod) Name() string { return m.name }

func (m countingMethod) StartSession() Session {
	return &countingSession{method: m, seen: make(map[rune]bool)}
}

type countingSession struct {
	method countingMethod
	seen   map[rune]bool
	graphs []*RequestGraph
}

func (s *countingSession) PageView(view PageView) error {
	if view.ID == s.method.fail {
		return fmt.Errorf("cannot load %s", view.ID)
	}
	var requests []Request
	for _, cps := range view.Codepoints {
		for _, cp := range cps {
			if s.seen[cp] {
				continue
			}
			s.seen[cp] = true
			requests = append(requests, Request{ResponseSize: int64(cp)})
		}
	}
	g, err := NewRequestGraph(view.ID, requests...)
	if err != nil {
		return err
	}
	s.graphs = append(s.graphs, g)
	return nil
}

func (s *countingSession) RequestGraphs() []*RequestGraph {
	return s.graphs
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testScenario(sessions int) Scenario {
	s := Scenario{
		Methods: []Method{countingMethod{name: "A"}, countingMethod{name: "B"}},
		Networks: []NetworkProfile{
			NewNetworkProfile(NetworkLabel{Category: "desktop", Variant: "median"}, 20, 6),
			NewNetworkProfile(NetworkLabel{Category: "desktop", Variant: "slowest"}, 200, 2),
		},
	}
	for i := 0; i < sessions; i++ {
		var views []PageView
		for j := 0; j <= i%4; j++ {
			views = append(views, PageView{
				ID:         fmt.Sprintf("s%d-p%d", i, j),
				Codepoints: map[string][]rune{"font": []rune(fmt.Sprintf("page %d of %d", j, i))},
			})
		}
		s.Sessions = append(s.Sessions, views)
	}
	return s
}

func TestRunner_Run(t *testing.T) {
	runner := NewRunner(RunnerOptions{WorkerCount: 3, Logger: quietLogger()})
	scenario := testScenario(10)

	results, err := runner.Run(context.Background(), scenario)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, results.Methods())
	for _, method := range results.Methods() {
		assert.Equal(t, []string{"desktop_median", "desktop_slowest"}, results.Networks(method))
		for _, network := range results.Networks(method) {
			seqs, ok := results.Sequences(method, network)
			require.True(t, ok)
			require.Len(t, seqs, 10)
			for i, s := range seqs {
				assert.Equal(t, len(scenario.Sessions[i]), s.PageViews(), "session %d", i)
			}
		}
	}

	stats := runner.Stats()
	assert.Equal(t, int64(6), stats.BatchesCompleted)
	assert.Equal(t, int64(20), stats.SessionsSimulated)
	assert.Equal(t, int64(40), stats.SequencesRecorded)
	assert.Positive(t, stats.GraphsSimulated)
	assert.Positive(t, int64(stats.RunDuration))
}

func TestRunner_DeterministicAcrossWorkerCounts(t *testing.T) {
	scenario := testScenario(23)

	baseline, err := NewRunner(RunnerOptions{WorkerCount: 1, Logger: quietLogger()}).
		Run(context.Background(), scenario)
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 7, 23, 64} {
		t.Run(fmt.Sprintf("%d workers", workers), func(t *testing.T) {
			got, err := NewRunner(RunnerOptions{WorkerCount: workers, Logger: quietLogger()}).
				Run(context.Background(), scenario)
			require.NoError(t, err)
			if diff := cmp.Diff(flatten(baseline), flatten(got)); diff != "" {
				t.Errorf("results differ from single worker run (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunner_SessionStateCarriesAcrossPageViews(t *testing.T) {
	scenario := testScenario(1)
	scenario.Sessions = [][]PageView{{
		{ID: "p0", Codepoints: map[string][]rune{"font": []rune("ab")}},
		{ID: "p1", Codepoints: map[string][]rune{"font": []rune("abc")}},
	}}

	results, err := NewRunner(RunnerOptions{WorkerCount: 2, Logger: quietLogger()}).
		Run(context.Background(), scenario)
	require.NoError(t, err)

	seqs, _ := results.Sequences("A", "desktop_median")
	require.Len(t, seqs, 1)
	assert.Equal(t, 2, seqs[0].Graphs[0].RequestCount)
	assert.Equal(t, 1, seqs[0].Graphs[1].RequestCount)
	assert.Equal(t, int64('c'), seqs[0].Graphs[1].ResponseBytes)
}

func TestRunner_ErrorStopsRun(t *testing.T) {
	scenario := testScenario(12)
	scenario.Methods = []Method{countingMethod{name: "A"}, countingMethod{name: "broken", fail: "s5-p0"}}

	results, err := NewRunner(RunnerOptions{WorkerCount: 4, Logger: quietLogger()}).
		Run(context.Background(), scenario)
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "method broken: session 5: page view 0: cannot load s5-p0")
}

func TestRunner_MalformedGraphPropagates(t *testing.T) {
	scenario := testScenario(1)
	scenario.Methods = []Method{malformedMethod{}}

	_, err := NewRunner(RunnerOptions{WorkerCount: 1, Logger: quietLogger()}).
		Run(context.Background(), scenario)

	var malformed *MalformedGraphError
	require.True(t, errors.As(err, &malformed))
	assert.Contains(t, err.Error(), "method malformed: session 0")
}

func TestRunner_InvalidScenario(t *testing.T) {
	_, err := NewRunner(DefaultRunnerOptions()).Run(context.Background(), Scenario{})
	assert.ErrorContains(t, err, "invalid scenario")
}

func TestRunner_NoSessions(t *testing.T) {
	scenario := testScenario(0)
	results, err := NewRunner(RunnerOptions{Logger: quietLogger()}).Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.Equal(t, 0, results.Len())
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(RunnerOptions{WorkerCount: 2, Logger: quietLogger()}).Run(ctx, testScenario(50))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_ImplementsSimulationRunner(t *testing.T) {
	var _ SimulationRunner = NewRunner(DefaultRunnerOptions())
}

// malformedMethod emits a nil graph, which the simulator rejects
type malformedMethod struct{}

func (malformedMethod) Name() string          { return "malformed" }
func (malformedMethod) StartSession() Session { return &malformedSession{} }

type malformedSession struct{ graphs []*RequestGraph }

func (s *malformedSession) PageView(PageView) error {
	s.graphs = append(s.graphs, nil)
	return nil
}

func (s *malformedSession) RequestGraphs() []*RequestGraph { return s.graphs }
