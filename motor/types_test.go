package motor

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

type namedMethod string

func (m namedMethod) Name() string          { return string(m) }
func (m namedMethod) StartSession() Session { return nil }

func TestDefaultRunnerOptions(t *testing.T) {
	opts := DefaultRunnerOptions()
	assert.Equal(t, runtime.NumCPU(), opts.WorkerCount)
	assert.NotNil(t, opts.Logger)
}

func TestScenario_Validate(t *testing.T) {
	network := NetworkProfile{Name: "desktop_median", LatencyMs: 10}

	tests := []struct {
		name     string
		scenario Scenario
		errMsg   string
	}{
		{
			name:     "valid",
			scenario: Scenario{Methods: []Method{namedMethod("a")}, Networks: []NetworkProfile{network}},
		},
		{
			name:     "no methods",
			scenario: Scenario{Networks: []NetworkProfile{network}},
			errMsg:   "no methods",
		},
		{
			name:     "no networks",
			scenario: Scenario{Methods: []Method{namedMethod("a")}},
			errMsg:   "no network models",
		},
		{
			name: "duplicate method",
			scenario: Scenario{
				Methods:  []Method{namedMethod("a"), namedMethod("a")},
				Networks: []NetworkProfile{network},
			},
			errMsg: `duplicate method "a"`,
		},
		{
			name: "duplicate network",
			scenario: Scenario{
				Methods:  []Method{namedMethod("a")},
				Networks: []NetworkProfile{network, network},
			},
			errMsg: `duplicate network model "desktop_median"`,
		},
		{
			name: "invalid network",
			scenario: Scenario{
				Methods:  []Method{namedMethod("a")},
				Networks: []NetworkProfile{{Name: "bad", LatencyMs: -5}},
			},
			errMsg: "latency must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scenario.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestScenario_Labels(t *testing.T) {
	s := Scenario{Networks: []NetworkProfile{
		NewNetworkProfile(NetworkLabel{Category: "desktop", Variant: "median"}, 10, 6),
		{Name: "lab", LatencyMs: 1},
	}}

	labels := s.Labels()
	assert.Len(t, labels, 1)
	assert.Equal(t, NetworkLabel{Category: "desktop", Variant: "median"}, labels["desktop_median"])
}
