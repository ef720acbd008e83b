package config

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/pb33f/pfesim/harload"
	"github.com/pb33f/pfesim/motor"
	"github.com/pb33f/pfesim/pfe"
)

// Plan is a scenario file turned into the values a run needs.
type Plan struct {
	Scenario motor.Scenario
	Runner   motor.RunnerOptions
	Analyzer motor.AnalyzerOptions
}

// Build loads everything the scenario references (HAR captures, strategy
// ranges) and wires the methods. Fonts are read lazily by the methods.
func (f *File) Build(l *slog.Logger) (*Plan, error) {
	log := logger(l)
	b := &builder{file: f, log: log, captures: make(map[string]*harload.Capture)}

	cost, err := f.Cost.Function()
	if err != nil {
		return nil, err
	}
	weights := f.weightTable()

	plan := &Plan{
		Runner: motor.RunnerOptions{
			WorkerCount: f.WorkerCount(),
			Logger:      log,
		},
		Analyzer: motor.AnalyzerOptions{
			Cost:       cost,
			Weights:    weights,
			Histograms: f.Histograms,
			Logger:     log,
		},
	}

	for _, n := range f.Networks {
		plan.Scenario.Networks = append(plan.Scenario.Networks, n.Profile())
	}

	for i, m := range f.Methods {
		method, err := b.method(m)
		if err != nil {
			return nil, fmt.Errorf("method %d: %w", i, err)
		}
		plan.Scenario.Methods = append(plan.Scenario.Methods, method)
	}

	for i, s := range f.Sessions {
		views, err := b.session(s)
		if err != nil {
			return nil, fmt.Errorf("session %d: %w", i, err)
		}
		plan.Scenario.Sessions = append(plan.Scenario.Sessions, views)
	}

	if err := plan.Scenario.Validate(); err != nil {
		return nil, err
	}

	log.Debug("scenario built",
		"methods", len(plan.Scenario.Methods),
		"networks", len(plan.Scenario.Networks),
		"sessions", len(plan.Scenario.Sessions),
		"workers", plan.Runner.WorkerCount)
	return plan, nil
}

type builder struct {
	file     *File
	log      *slog.Logger
	captures map[string]*harload.Capture // by resolved path
}

func (b *builder) capture(path string) (*harload.Capture, error) {
	path = b.file.resolve(path)
	if c, ok := b.captures[path]; ok {
		return c, nil
	}
	c, err := harload.LoadFile(path, harload.Options{Logger: b.log})
	if err != nil {
		return nil, err
	}
	b.captures[path] = c
	return c, nil
}

func (b *builder) method(m Method) (motor.Method, error) {
	switch m.Type {
	case MethodHAR:
		c, err := b.capture(m.HARFile)
		if err != nil {
			return nil, err
		}
		return harload.NewMethod(m.Name, c), nil
	case MethodUnicodeRange:
		strategies, err := m.strategies()
		if err != nil {
			return nil, err
		}
		return pfe.NewUnicodeRange(pfe.UnicodeRangeOptions{
			Name:       m.Name,
			Fonts:      pfe.DirFontSource{Dir: b.file.resolve(m.FontsDir)},
			Strategies: strategies,
			Sizer:      m.Sizer.build(),
			Cache:      motor.NewShardedCache(),
			Logger:     b.log,
		})
	default:
		return nil, fmt.Errorf("unknown method type %q", m.Type)
	}
}

// strategies builds the catalog; the built in latin-scripts slicing is
// always available unless the file redefines it.
func (m Method) strategies() (pfe.StaticStrategies, error) {
	catalog := map[string]pfe.Strategy{
		pfe.LatinScriptsStrategyName: pfe.LatinScriptsStrategy(),
	}
	for _, name := range slices.Sorted(maps.Keys(m.Strategies)) {
		ranges := m.Strategies[name]
		if len(ranges) == 0 {
			return pfe.StaticStrategies{}, fmt.Errorf("strategy %q has no subsets", name)
		}
		strategy := pfe.Strategy{Name: name}
		for i, value := range ranges {
			subset, err := pfe.ParseUnicodeRange(value)
			if err != nil {
				return pfe.StaticStrategies{}, fmt.Errorf("strategy %q subset %d: %w", name, i, err)
			}
			strategy.Subsets = append(strategy.Subsets, subset)
		}
		catalog[name] = strategy
	}

	check := func(name string) error {
		if _, ok := catalog[name]; !ok {
			return fmt.Errorf("unknown slicing strategy %q", name)
		}
		return nil
	}
	if m.DefaultStrategy != "" {
		if err := check(m.DefaultStrategy); err != nil {
			return pfe.StaticStrategies{}, err
		}
	}
	for font, name := range m.FontStrategies {
		if err := check(name); err != nil {
			return pfe.StaticStrategies{}, fmt.Errorf("font %s: %w", font, err)
		}
	}

	return pfe.StaticStrategies{
		Catalog: catalog,
		ByFont:  m.FontStrategies,
		Default: m.DefaultStrategy,
	}, nil
}

func (s Sizer) build() pfe.SubsetSizer {
	if s.Kind == SizerProportional {
		return pfe.ProportionalSizer{BytesPerCodepoint: s.BytesPerCodepoint, Overhead: s.Overhead}
	}
	size := s.Size
	if size == 0 {
		size = 1000
	}
	return pfe.FixedSizer{Size: size}
}

func (b *builder) session(s Session) ([]motor.PageView, error) {
	if s.FromHAR != "" {
		c, err := b.capture(s.FromHAR)
		if err != nil {
			return nil, err
		}
		return c.Session(), nil
	}

	views := make([]motor.PageView, 0, len(s.PageViews))
	for i, pv := range s.PageViews {
		view, err := pv.build()
		if err != nil {
			return nil, fmt.Errorf("page view %d: %w", i, err)
		}
		views = append(views, view)
	}
	return views, nil
}

func (pv PageView) build() (motor.PageView, error) {
	view := motor.PageView{ID: pv.ID, Codepoints: make(map[string][]rune)}
	seen := make(map[string]map[rune]struct{})
	add := func(font string, r rune) {
		if seen[font] == nil {
			seen[font] = make(map[rune]struct{})
		}
		if _, dup := seen[font][r]; dup {
			return
		}
		seen[font][r] = struct{}{}
		view.Codepoints[font] = append(view.Codepoints[font], r)
	}

	for _, font := range slices.Sorted(maps.Keys(pv.Text)) {
		for _, r := range pv.Text[font] {
			add(font, r)
		}
	}
	for _, font := range slices.Sorted(maps.Keys(pv.Codepoints)) {
		subset, err := pfe.ParseUnicodeRange(pv.Codepoints[font])
		if err != nil {
			return motor.PageView{}, fmt.Errorf("font %s: %w", font, err)
		}
		if subset.Len() > maxPageViewCodepoints {
			return motor.PageView{}, fmt.Errorf("font %s: %d codepoints exceeds the limit of %d",
				font, subset.Len(), maxPageViewCodepoints)
		}
		for _, cr := range subset.Ranges() {
			for r := cr.First; r <= cr.Last; r++ {
				add(font, r)
			}
		}
	}
	return view, nil
}
