package motor

import (
	"fmt"
	"strings"
)

// NetworkLabel names a network condition as a (category, variant) pair, for
// example {desktop, slowest}. The category groups variants that are combined
// with weights during analysis.
type NetworkLabel struct {
	Category string
	Variant  string
}

// String renders the label as "<category>_<variant>".
func (l NetworkLabel) String() string {
	if l.Variant == "" {
		return l.Category
	}
	return l.Category + "_" + l.Variant
}

// WeightTable maps a network variant to the probability mass it represents
// within its category.
type WeightTable map[string]float64

// DefaultWeights approximates the percentile spread of real world conditions.
// Each variant stands for the band of connections around its percentile.
var DefaultWeights = WeightTable{
	"fastest": 0.05,
	"fast":    0.20,
	"median":  0.50,
	"slow":    0.20,
	"slowest": 0.05,
}

// Weight returns the weight for a variant.
func (w WeightTable) Weight(variant string) (float64, bool) {
	v, ok := w[variant]
	return v, ok
}

// NetworkProfile parameterises a network condition for the simulator.
type NetworkProfile struct {
	Name                string       // unique model name, used as result key
	Label               NetworkLabel // category/variant used for weighted aggregation
	LatencyMs           float64      // fixed per request overhead (round trip)
	MaxConcurrent       int          // requests in flight at once, <= 0 is unlimited
	BandwidthBytesPerMs float64      // <= 0 means transfer time is ignored
}

// NewNetworkProfile builds a profile named after its label.
func NewNetworkProfile(label NetworkLabel, latencyMs float64, maxConcurrent int) NetworkProfile {
	return NetworkProfile{
		Name:          label.String(),
		Label:         label,
		LatencyMs:     latencyMs,
		MaxConcurrent: maxConcurrent,
	}
}

// WithBandwidthKbps returns a copy of the profile limited to the given
// bandwidth in kilobits per second.
func (p NetworkProfile) WithBandwidthKbps(kbps float64) NetworkProfile {
	// 1 kbps = 1000 bits/s = 0.125 bytes/ms
	p.BandwidthBytesPerMs = kbps * 0.125
	return p
}

// TransferTimeMs is the time spent moving the request and response bytes.
func (p NetworkProfile) TransferTimeMs(r Request) float64 {
	if p.BandwidthBytesPerMs <= 0 {
		return 0
	}
	return float64(r.RequestSize+r.ResponseSize) / p.BandwidthBytesPerMs
}

// Validate checks the profile can be simulated.
func (p NetworkProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("network profile name is required")
	}
	if p.LatencyMs < 0 {
		return fmt.Errorf("network profile %q: latency must not be negative, got %v", p.Name, p.LatencyMs)
	}
	if p.BandwidthBytesPerMs < 0 {
		return fmt.Errorf("network profile %q: bandwidth must not be negative, got %v", p.Name, p.BandwidthBytesPerMs)
	}
	return nil
}
