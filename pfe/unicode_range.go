package pfe

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/pb33f/pfesim/motor"
)

// UnicodeRangeName is the method name used in results.
const UnicodeRangeName = "UnicodeRange"

// UnicodeRangeOptions wires the collaborators of the unicode-range method.
type UnicodeRangeOptions struct {
	Name       string         // default: UnicodeRangeName
	Fonts      FontSource     // required
	Strategies StrategyLoader // required
	Sizer      SubsetSizer    // default: FixedSizer{Size: 1000}
	Cache      motor.Cache    // default: motor.NewShardedCache()
	Logger     *slog.Logger   // default: slog.Default()
}

// UnicodeRange delivers a font as a set of subsets, one per slice of the
// font's slicing strategy. A page downloads every subset containing one of
// its codepoints, in parallel, and a session never downloads the same subset
// twice.
//
// The strategy per font and the size per subset are cached for the lifetime
// of the method, which is shared by every worker of a run.
type UnicodeRange struct {
	opts UnicodeRangeOptions

	mu             sync.RWMutex
	strategyByFont map[string]string
}

// NewUnicodeRange creates the method, filling unset options with defaults.
func NewUnicodeRange(opts UnicodeRangeOptions) (*UnicodeRange, error) {
	if opts.Fonts == nil {
		return nil, fmt.Errorf("unicode range: a font source is required")
	}
	if opts.Strategies == nil {
		return nil, fmt.Errorf("unicode range: a strategy loader is required")
	}
	if opts.Name == "" {
		opts.Name = UnicodeRangeName
	}
	if opts.Sizer == nil {
		opts.Sizer = FixedSizer{Size: 1000}
	}
	if opts.Cache == nil {
		opts.Cache = motor.NewShardedCache()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &UnicodeRange{
		opts:           opts,
		strategyByFont: make(map[string]string),
	}, nil
}

func (u *UnicodeRange) Name() string {
	return u.opts.Name
}

// StartSession opens a session with nothing downloaded yet.
func (u *UnicodeRange) StartSession() motor.Session {
	return &unicodeRangeSession{
		method: u,
		loaded: make(map[string]struct{}),
	}
}

// strategyFor returns the strategy for a font, deciding it once per font id.
func (u *UnicodeRange) strategyFor(fontID string, font []byte) (Strategy, error) {
	u.mu.RLock()
	name, ok := u.strategyByFont[fontID]
	u.mu.RUnlock()

	if !ok {
		var err error
		name, err = u.opts.Strategies.StrategyFor(fontID, font)
		if err != nil {
			return Strategy{}, err
		}

		u.mu.Lock()
		if existing, found := u.strategyByFont[fontID]; found {
			name = existing
		} else {
			u.strategyByFont[fontID] = name
		}
		u.mu.Unlock()
	}

	strategy, err := u.opts.Strategies.Load(name)
	if err != nil {
		return Strategy{}, err
	}
	// the catalog name is what keys the size cache
	strategy.Name = name
	return strategy, nil
}

// computeCache is satisfied by caches that can fill a miss under their own lock
type computeCache interface {
	GetOrCompute(key string, compute func() (int64, error)) (int64, error)
}

func (u *UnicodeRange) subsetSize(key string, subset Subset, font []byte) (int64, error) {
	compute := func() (int64, error) {
		return u.opts.Sizer.SubsetSize(font, subset)
	}
	if c, ok := u.opts.Cache.(computeCache); ok {
		return c.GetOrCompute(key, compute)
	}

	if size, ok := u.opts.Cache.Get(key); ok {
		return size, nil
	}
	size, err := compute()
	if err != nil {
		return 0, err
	}
	u.opts.Cache.Put(key, size)
	return size, nil
}

// subsetKey identifies a cut subset: <font>:<strategy>:<subset index>
func subsetKey(fontID, strategy string, index int) string {
	return fmt.Sprintf("%s:%s:%d", fontID, strategy, index)
}

type unicodeRangeSession struct {
	method *UnicodeRange
	loaded map[string]struct{}
	graphs []*motor.RequestGraph
}

// PageView emits one graph holding a request for every subset the page
// needs that the session has not downloaded yet.
func (s *unicodeRangeSession) PageView(view motor.PageView) error {
	var requests []motor.Request
	for _, fontID := range slices.Sorted(maps.Keys(view.Codepoints)) {
		fontRequests, err := s.pageViewForFont(fontID, view.Codepoints[fontID])
		if err != nil {
			return err
		}
		requests = append(requests, fontRequests...)
	}

	id := view.ID
	if id == "" {
		id = fmt.Sprintf("page-%d", len(s.graphs))
	}
	g, err := motor.NewRequestGraph(id, requests...)
	if err != nil {
		return err
	}
	s.graphs = append(s.graphs, g)
	return nil
}

func (s *unicodeRangeSession) pageViewForFont(fontID string, codepoints []rune) ([]motor.Request, error) {
	font, err := s.method.opts.Fonts.Load(fontID)
	if err != nil {
		return nil, err
	}

	strategy, err := s.method.strategyFor(fontID, font)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", fontID, err)
	}

	// subsets download in parallel, so none depends on another
	var requests []motor.Request
	for i, subset := range strategy.Subsets {
		if !subset.Intersects(codepoints) {
			continue
		}
		key := subsetKey(fontID, strategy.Name, i)
		if _, done := s.loaded[key]; done {
			continue
		}

		size, err := s.method.subsetSize(key, subset, font)
		if err != nil {
			return nil, fmt.Errorf("subset %s: %w", key, err)
		}
		requests = append(requests, motor.Request{ID: key, RequestSize: 0, ResponseSize: size})
		s.loaded[key] = struct{}{}
	}

	s.method.opts.Logger.Debug("page view for font",
		"font", fontID,
		"strategy", strategy.Name,
		"codepoints", len(codepoints),
		"requests", len(requests))
	return requests, nil
}

func (s *unicodeRangeSession) RequestGraphs() []*motor.RequestGraph {
	return s.graphs
}
