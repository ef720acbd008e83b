package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pb33f/pfesim/hargen"
	"github.com/pb33f/pfesim/motor"
	"github.com/pb33f/pfesim/pfe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalScenario = `
networks:
  - {category: desktop, variant: fast, latency_ms: 20}
methods:
  - {type: har, har_file: capture.har}
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParse_Defaults(t *testing.T) {
	f, err := Parse(strings.NewReader(minimalScenario + `
histograms:
  wait_ms: {width: 25}
`))
	require.NoError(t, err)

	assert.Equal(t, motor.DefaultCostModel(), f.Cost)
	assert.Equal(t, 25.0, f.Histograms.WaitMs.Width)
	assert.Equal(t, motor.DefaultHistogramOptions().ResponseBytes, f.Histograms.ResponseBytes, "unset histograms keep their defaults")
	assert.Equal(t, motor.DefaultRunnerOptions().WorkerCount, f.WorkerCount())

	profile := f.Networks[0].Profile()
	assert.Equal(t, "desktop_fast", profile.Name)
	assert.Equal(t, motor.NetworkLabel{Category: "desktop", Variant: "fast"}, profile.Label)
	assert.Zero(t, profile.BandwidthBytesPerMs)
}

func TestNetwork_Profile(t *testing.T) {
	n := Network{Name: "lab", Category: "mobile", Variant: "slow", LatencyMs: 300, MaxConcurrent: 6, BandwidthKbps: 1600}
	p := n.Profile()
	assert.Equal(t, "lab", p.Name)
	assert.Equal(t, "mobile", p.Label.Category)
	assert.Equal(t, 300.0, p.LatencyMs)
	assert.Equal(t, 6, p.MaxConcurrent)
	assert.Equal(t, 200.0, p.BandwidthBytesPerMs)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{"empty", ``, "scenario is empty"},
		{"unknown key", minimalScenario + "colour: blue\n", "field colour not found"},
		{"no networks", "methods: [{type: har, har_file: a.har}]\n", "at least one network"},
		{"no methods", "networks: [{name: n, latency_ms: 1}]\n", "at least one method"},
		{"network without name", "networks: [{latency_ms: 1}]\nmethods: [{type: har, har_file: a}]\n", "a name or a category"},
		{"negative latency", "networks: [{name: n, latency_ms: -1}]\nmethods: [{type: har, har_file: a}]\n", "latency must not be negative"},
		{"negative bandwidth", "networks: [{name: n, latency_ms: 1, bandwidth_kbps: -5}]\nmethods: [{type: har, har_file: a}]\n", "bandwidth must not be negative"},
		{"negative workers", minimalScenario + "workers: -1\n", "workers must not be negative"},
		{"negative weight", minimalScenario + "weights: {fast: -0.5}\n", "must not be negative"},
		{"unknown cost", minimalScenario + "cost: {kind: quadratic}\n", "unknown cost model"},
		{"bad histogram", minimalScenario + "histograms: {cost: {width: 0}}\n", "histogram cost"},
		{"missing type", "networks: [{name: n, latency_ms: 1}]\nmethods: [{name: x}]\n", "type is required"},
		{"unknown type", "networks: [{name: n, latency_ms: 1}]\nmethods: [{type: woff}]\n", "unknown method type"},
		{"har without file", "networks: [{name: n, latency_ms: 1}]\nmethods: [{type: har}]\n", "har_file is required"},
		{"unicode range without dir", "networks: [{name: n, latency_ms: 1}]\nmethods: [{type: unicode_range, default_strategy: latin-scripts}]\n", "fonts_dir is required"},
		{"unicode range without strategy", "networks: [{name: n, latency_ms: 1}]\nmethods: [{type: unicode_range, fonts_dir: f}]\n", "default_strategy or font_strategies"},
		{"unknown sizer", "networks: [{name: n, latency_ms: 1}]\nmethods: [{type: unicode_range, fonts_dir: f, default_strategy: s, sizer: {kind: exact}}]\n", "unknown sizer"},
		{"exclusive session", minimalScenario + "sessions: [{from_har: a.har, page_views: [{id: p}]}]\n", "exclusive"},
		{"category without variant", "networks: [{category: desktop, latency_ms: 10}]\nmethods: [{type: har, har_file: a}]\n", `network 0: category "desktop" needs a variant`},
		{"variant without weight", "networks: [{name: n, latency_ms: 1}, {category: desktop, variant: median, latency_ms: 10}]\nweights: {slow: 1}\nmethods: [{type: har, har_file: a}]\n", `network 1: no weight for variant "median"`},
		{"variant outside default weights", "networks: [{category: desktop, variant: typical, latency_ms: 10}]\nmethods: [{type: har, har_file: a}]\n", `no weight for variant "typical"`},
		{"capture session with unicode range", "networks: [{name: n, latency_ms: 1}]\nmethods: [{type: har, har_file: a}, {type: unicode_range, fonts_dir: f, default_strategy: s}]\nsessions: [{page_views: [{id: p}]}, {from_har: a}]\n", "session 1: from_har page views carry no codepoints for unicode_range method 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestPageView_Build(t *testing.T) {
	pv := PageView{
		ID:         "home",
		Text:       map[string]string{"a.ttf": "abba", "b.ttf": "Ω"},
		Codepoints: map[string]string{"a.ttf": "U+61-63"},
	}
	view, err := pv.build()
	require.NoError(t, err)
	assert.Equal(t, "home", view.ID)
	assert.Equal(t, []rune{'a', 'b', 'c'}, view.Codepoints["a.ttf"])
	assert.Equal(t, []rune{'Ω'}, view.Codepoints["b.ttf"])

	_, err = PageView{Codepoints: map[string]string{"a.ttf": "61"}}.build()
	assert.ErrorContains(t, err, "font a.ttf")

	_, err = PageView{Codepoints: map[string]string{"a.ttf": "U+0-10FFFF"}}.build()
	assert.ErrorContains(t, err, "exceeds the limit")
}

func TestMethod_Strategies(t *testing.T) {
	m := Method{
		Type:            MethodUnicodeRange,
		Strategies:      map[string][]string{"two": {"U+0-7F", "U+80-FF"}},
		FontStrategies:  map[string]string{"a.ttf": "two"},
		DefaultStrategy: pfe.LatinScriptsStrategyName,
	}
	s, err := m.strategies()
	require.NoError(t, err)

	name, err := s.StrategyFor("a.ttf", nil)
	require.NoError(t, err)
	assert.Equal(t, "two", name)
	name, err = s.StrategyFor("b.ttf", nil)
	require.NoError(t, err)
	assert.Equal(t, pfe.LatinScriptsStrategyName, name)

	two, err := s.Load("two")
	require.NoError(t, err)
	assert.Len(t, two.Subsets, 2)

	tests := []struct {
		name   string
		method Method
		errMsg string
	}{
		{"empty strategy", Method{Strategies: map[string][]string{"x": {}}, DefaultStrategy: "x"}, "has no subsets"},
		{"bad range", Method{Strategies: map[string][]string{"x": {"zz"}}, DefaultStrategy: "x"}, `strategy "x" subset 0`},
		{"unknown default", Method{DefaultStrategy: "nope"}, `unknown slicing strategy "nope"`},
		{"unknown font strategy", Method{FontStrategies: map[string]string{"a.ttf": "nope"}}, "font a.ttf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.method.strategies()
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestSizer_Build(t *testing.T) {
	assert.Equal(t, pfe.FixedSizer{Size: 1000}, Sizer{}.build())
	assert.Equal(t, pfe.FixedSizer{Size: 5}, Sizer{Kind: SizerFixed, Size: 5}.build())
	assert.Equal(t, pfe.ProportionalSizer{BytesPerCodepoint: 2, Overhead: 10},
		Sizer{Kind: SizerProportional, BytesPerCodepoint: 2, Overhead: 10}.build())
}

// writeScenario lays out a scenario directory with a font, a generated
// capture and the scenario file itself.
func writeScenario(t *testing.T, scenario string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fonts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fonts", "Test.ttf"), make([]byte, 4096), 0o644))

	_, err := hargen.GenerateToFile(filepath.Join(dir, "capture.har"), hargen.GenerateOptions{
		PageCount:      2,
		Seed:           9,
		DictionaryPath: filepath.Join(dir, "no-words"),
	})
	require.NoError(t, err)

	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0o644))
	return path
}

const fullScenario = `
workers: 2
networks:
  - {category: desktop, variant: fast, latency_ms: 20, max_concurrent: 6}
  - {category: desktop, variant: slow, latency_ms: 200, max_concurrent: 6}
  - {name: lab, latency_ms: 50}
weights: {fast: 0.5, slow: 0.5}
cost: {kind: linear, scale: 2}
methods:
  - name: Sliced
    type: unicode_range
    fonts_dir: fonts
    default_strategy: halves
    strategies:
      halves: ["U+0-7F", "U+80-FF"]
  - {name: Recorded, type: har, har_file: capture.har}
sessions:
  - page_views:
      - {id: page_1, text: {Test.ttf: "hello"}}
      - {id: page_2, text: {Test.ttf: "héllo"}}
`

func TestLoadAndBuild(t *testing.T) {
	path := writeScenario(t, fullScenario)

	f, err := Load(path)
	require.NoError(t, err)
	plan, err := f.Build(quietLogger())
	require.NoError(t, err)

	assert.Equal(t, 2, plan.Runner.WorkerCount)
	require.Len(t, plan.Scenario.Methods, 2)
	assert.Equal(t, "Sliced", plan.Scenario.Methods[0].Name())
	assert.Equal(t, "Recorded", plan.Scenario.Methods[1].Name())
	require.Len(t, plan.Scenario.Sessions, 1)
	assert.Equal(t, 10.0, plan.Analyzer.Cost(5))
	assert.Equal(t, motor.WeightTable{"fast": 0.5, "slow": 0.5}, plan.Analyzer.Weights)

	labels := plan.Scenario.Labels()
	assert.Len(t, labels, 2, "the lab network has no category")

	results, err := motor.NewRunner(plan.Runner).Run(context.Background(), plan.Scenario)
	require.NoError(t, err)

	seqs, ok := results.Sequences("Sliced", "desktop_fast")
	require.True(t, ok)
	require.Len(t, seqs, 1)
	assert.Equal(t, 2, seqs[0].TotalRequestCount(), "second page only adds the upper half")
	assert.Equal(t, int64(2000), seqs[0].TotalResponseBytes())
	assert.Equal(t, 40.0, seqs[0].TotalTimeMs())

	report, err := motor.NewAnalyzer(plan.Analyzer).Analyze(results, labels)
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "Recorded", report.Results[0].MethodName)
	assert.Len(t, report.Results[1].ResultsByNetwork, 3)
	require.Len(t, report.Results[1].ResultsByCategory, 1)
	// 0.5·2·40 + 0.5·2·400
	assert.InDeltaSlice(t, []float64{440}, report.Results[1].ResultsByCategory[0].CostPerSequence, 1e-9)
}

func TestLoadAndBuild_FromHAR(t *testing.T) {
	path := writeScenario(t, `
networks:
  - {category: desktop, variant: fast, latency_ms: 20, max_concurrent: 6}
methods:
  - {name: Recorded, type: har, har_file: capture.har}
sessions:
  - from_har: capture.har
`)

	f, err := Load(path)
	require.NoError(t, err)
	plan, err := f.Build(quietLogger())
	require.NoError(t, err)

	require.Len(t, plan.Scenario.Sessions, 1)
	assert.Equal(t, []motor.PageView{{ID: "page_1"}, {ID: "page_2"}}, plan.Scenario.Sessions[0])

	results, err := motor.NewRunner(plan.Runner).Run(context.Background(), plan.Scenario)
	require.NoError(t, err)
	seqs, ok := results.Sequences("Recorded", "desktop_fast")
	require.True(t, ok)
	require.Len(t, seqs, 1)
	assert.Positive(t, seqs[0].TotalRequestCount(), "every recorded page replays its fonts")
}

func TestBuild_MissingCapture(t *testing.T) {
	path := writeScenario(t, minimalScenario)
	require.NoError(t, os.Remove(filepath.Join(filepath.Dir(path), "capture.har")))

	f, err := Load(path)
	require.NoError(t, err)
	_, err = f.Build(quietLogger())
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorContains(t, err, "method 0")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
