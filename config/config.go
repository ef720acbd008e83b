// Package config reads pfesim scenario files.
//
// A scenario file is YAML:
//
//	workers: 4
//	networks:
//	  - {name: mobile_slow, category: mobile, variant: slow, latency_ms: 300, max_concurrent: 6, bandwidth_kbps: 1600}
//	weights: {slow: 0.5, fast: 0.5}
//	cost: {kind: threshold, threshold_ms: 100, scale: 1}
//	histograms:
//	  wait_ms: {width: 25}
//	methods:
//	  - name: UnicodeRange
//	    type: unicode_range
//	    fonts_dir: fonts
//	    default_strategy: latin-scripts
//	    sizer: {kind: proportional, bytes_per_codepoint: 40, overhead: 2048}
//	  - {name: Recorded, type: har, har_file: capture.har}
//	sessions:
//	  - page_views:
//	      - {id: home, text: {Roboto-Regular.ttf: "Hello"}}
//
// A session may instead replay every page of a capture with from_har. Those
// page views carry no text, so from_har sessions only pair with har methods.
//
// Relative paths are resolved against the directory of the scenario file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pb33f/pfesim/motor"
	"gopkg.in/yaml.v3"
)

const (
	MethodUnicodeRange = "unicode_range"
	MethodHAR          = "har"

	SizerFixed        = "fixed"
	SizerProportional = "proportional"

	// maxPageViewCodepoints bounds how many codepoints a configured range may expand to
	maxPageViewCodepoints = 1 << 16
)

// File is a parsed scenario file.
type File struct {
	Workers    int                    `yaml:"workers,omitempty"`
	Networks   []Network              `yaml:"networks"`
	Weights    map[string]float64     `yaml:"weights,omitempty"`
	Cost       motor.CostModel        `yaml:"cost"`
	Histograms motor.HistogramOptions `yaml:"histograms"`
	Methods    []Method               `yaml:"methods"`
	Sessions   []Session              `yaml:"sessions"`

	// dir resolves relative paths; empty means the working directory
	dir string
}

// Network is one simulated network condition.
type Network struct {
	Name          string  `yaml:"name,omitempty"` // default: <category>_<variant>
	Category      string  `yaml:"category,omitempty"`
	Variant       string  `yaml:"variant,omitempty"`
	LatencyMs     float64 `yaml:"latency_ms"`
	MaxConcurrent int     `yaml:"max_concurrent,omitempty"`
	BandwidthKbps float64 `yaml:"bandwidth_kbps,omitempty"`
}

// Method configures one delivery method.
type Method struct {
	Name string `yaml:"name,omitempty"`
	Type string `yaml:"type"`

	// unicode_range
	FontsDir        string              `yaml:"fonts_dir,omitempty"`
	Strategies      map[string][]string `yaml:"strategies,omitempty"` // name -> one unicode-range per subset
	FontStrategies  map[string]string   `yaml:"font_strategies,omitempty"`
	DefaultStrategy string              `yaml:"default_strategy,omitempty"`
	Sizer           Sizer               `yaml:"sizer,omitempty"`

	// har
	HARFile string `yaml:"har_file,omitempty"`
}

// Sizer configures how subset sizes are estimated.
type Sizer struct {
	Kind              string  `yaml:"kind,omitempty"` // fixed (default) or proportional
	Size              int64   `yaml:"size,omitempty"`
	BytesPerCodepoint float64 `yaml:"bytes_per_codepoint,omitempty"`
	Overhead          int64   `yaml:"overhead,omitempty"`
}

// Session is one browsing session: explicit page views, or every page of a
// HAR capture in order.
type Session struct {
	PageViews []PageView `yaml:"page_views,omitempty"`
	FromHAR   string     `yaml:"from_har,omitempty"`
}

// PageView is one page load. Text and Codepoints are keyed by font id; the
// codepoints of a font are the union of both.
type PageView struct {
	ID         string            `yaml:"id,omitempty"`
	Text       map[string]string `yaml:"text,omitempty"`
	Codepoints map[string]string `yaml:"codepoints,omitempty"` // unicode-range syntax
}

// Default returns a scenario file with every optional setting at its default.
func Default() *File {
	return &File{
		Cost:       motor.DefaultCostModel(),
		Histograms: motor.DefaultHistogramOptions(),
	}
}

// Load reads and validates a scenario file.
func Load(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario: %w", err)
	}
	defer file.Close()

	f, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	f := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("scenario is empty")
		}
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks the scenario before anything is loaded from disk.
func (f *File) Validate() error {
	if f.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", f.Workers)
	}
	if len(f.Networks) == 0 {
		return fmt.Errorf("at least one network is required")
	}
	for i, n := range f.Networks {
		if n.Name == "" && n.Category == "" {
			return fmt.Errorf("network %d: a name or a category is required", i)
		}
		if n.BandwidthKbps < 0 {
			return fmt.Errorf("network %d: bandwidth must not be negative, got %v", i, n.BandwidthKbps)
		}
		if err := n.Profile().Validate(); err != nil {
			return fmt.Errorf("network %d: %w", i, err)
		}
	}
	for variant, w := range f.Weights {
		if w < 0 {
			return fmt.Errorf("weight for %q must not be negative, got %v", variant, w)
		}
	}
	weights := f.weightTable()
	for i, n := range f.Networks {
		if n.Category == "" {
			continue
		}
		if n.Variant == "" {
			return fmt.Errorf("network %d: category %q needs a variant", i, n.Category)
		}
		if _, ok := weights.Weight(n.Variant); !ok {
			return fmt.Errorf("network %d: no weight for variant %q", i, n.Variant)
		}
	}
	if _, err := f.Cost.Function(); err != nil {
		return err
	}
	if err := f.Histograms.Validate(); err != nil {
		return err
	}

	if len(f.Methods) == 0 {
		return fmt.Errorf("at least one method is required")
	}
	for i, m := range f.Methods {
		if err := m.validate(); err != nil {
			return fmt.Errorf("method %d: %w", i, err)
		}
	}

	for i, s := range f.Sessions {
		if s.FromHAR != "" && len(s.PageViews) > 0 {
			return fmt.Errorf("session %d: from_har and page_views are exclusive", i)
		}
		if s.FromHAR == "" {
			continue
		}
		for j, m := range f.Methods {
			if m.Type == MethodUnicodeRange {
				return fmt.Errorf("session %d: from_har page views carry no codepoints for %s method %d", i, m.Type, j)
			}
		}
	}
	return nil
}

// weightTable is the configured weights, or the defaults when none are set.
func (f *File) weightTable() motor.WeightTable {
	if len(f.Weights) == 0 {
		return motor.DefaultWeights
	}
	return motor.WeightTable(f.Weights)
}

func (m Method) validate() error {
	switch m.Type {
	case MethodUnicodeRange:
		if m.FontsDir == "" {
			return fmt.Errorf("%s: fonts_dir is required", m.Type)
		}
		if m.DefaultStrategy == "" && len(m.FontStrategies) == 0 {
			return fmt.Errorf("%s: default_strategy or font_strategies is required", m.Type)
		}
		switch m.Sizer.Kind {
		case "", SizerFixed, SizerProportional:
		default:
			return fmt.Errorf("%s: unknown sizer %q", m.Type, m.Sizer.Kind)
		}
		if m.Sizer.Size < 0 || m.Sizer.BytesPerCodepoint < 0 || m.Sizer.Overhead < 0 {
			return fmt.Errorf("%s: sizer parameters must not be negative", m.Type)
		}
	case MethodHAR:
		if m.HARFile == "" {
			return fmt.Errorf("%s: har_file is required", m.Type)
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown method type %q", m.Type)
	}
	return nil
}

// Profile converts the network into a simulator profile.
func (n Network) Profile() motor.NetworkProfile {
	label := motor.NetworkLabel{Category: n.Category, Variant: n.Variant}
	p := motor.NewNetworkProfile(label, n.LatencyMs, n.MaxConcurrent)
	if n.Name != "" {
		p.Name = n.Name
	}
	if n.BandwidthKbps > 0 {
		p = p.WithBandwidthKbps(n.BandwidthKbps)
	}
	return p
}

// WorkerCount is the configured pool size, or the runner default.
func (f *File) WorkerCount() int {
	if f.Workers > 0 {
		return f.Workers
	}
	return motor.DefaultRunnerOptions().WorkerCount
}

func (f *File) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || f.dir == "" {
		return path
	}
	return filepath.Join(f.dir, path)
}

// logger falls back to the default logger
func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
