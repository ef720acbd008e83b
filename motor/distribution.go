package motor

import (
	"fmt"
	"math"
	"sort"

	"github.com/pb33f/pfesim/motor/model"
)

// maxHistogramBuckets bounds fixed width histograms; wider spreads double the width
const maxHistogramBuckets = 10000

// HistogramSpec describes how observations are bucketed. When Edges is set
// the buckets are (-inf, e0], (e0, e1], ... and anything above the last edge
// lands in an overflow bucket ending at the largest observation. Otherwise
// buckets have a fixed Width and end on multiples of it.
type HistogramSpec struct {
	Width float64   `yaml:"width"`
	Edges []float64 `yaml:"edges,omitempty"`
}

// HistogramOptions holds one spec per reported metric.
type HistogramOptions struct {
	WaitMs        HistogramSpec `yaml:"wait_ms"`
	Cost          HistogramSpec `yaml:"cost"`
	RequestBytes  HistogramSpec `yaml:"request_bytes"`
	ResponseBytes HistogramSpec `yaml:"response_bytes"`
}

// DefaultHistogramOptions returns bucket widths suited to font loading.
func DefaultHistogramOptions() HistogramOptions {
	return HistogramOptions{
		WaitMs:        HistogramSpec{Width: 50},
		Cost:          HistogramSpec{Width: 5},
		RequestBytes:  HistogramSpec{Width: 100},
		ResponseBytes: HistogramSpec{Width: 1024},
	}
}

// Validate checks every spec.
func (o HistogramOptions) Validate() error {
	specs := []struct {
		name string
		spec HistogramSpec
	}{
		{"wait_ms", o.WaitMs},
		{"cost", o.Cost},
		{"request_bytes", o.RequestBytes},
		{"response_bytes", o.ResponseBytes},
	}
	for _, s := range specs {
		if err := s.spec.Validate(); err != nil {
			return fmt.Errorf("histogram %s: %w", s.name, err)
		}
	}
	return nil
}

// orDefaults replaces each invalid spec with the matching one from d.
func (o HistogramOptions) orDefaults(d HistogramOptions) HistogramOptions {
	for _, pair := range []struct{ spec, fallback *HistogramSpec }{
		{&o.WaitMs, &d.WaitMs},
		{&o.Cost, &d.Cost},
		{&o.RequestBytes, &d.RequestBytes},
		{&o.ResponseBytes, &d.ResponseBytes},
	} {
		if pair.spec.Validate() != nil {
			*pair.spec = *pair.fallback
		}
	}
	return o
}

// Validate checks that the spec has a positive width or strictly increasing edges.
func (h HistogramSpec) Validate() error {
	if len(h.Edges) > 0 {
		for i := 1; i < len(h.Edges); i++ {
			if h.Edges[i] <= h.Edges[i-1] {
				return fmt.Errorf("edges must be strictly increasing, got %v after %v", h.Edges[i], h.Edges[i-1])
			}
		}
		return nil
	}
	if h.Width <= 0 || math.IsInf(h.Width, 0) || math.IsNaN(h.Width) {
		return fmt.Errorf("width must be positive, got %v", h.Width)
	}
	return nil
}

// Build buckets the observations. No observations give an empty distribution.
func (h HistogramSpec) Build(values []float64) model.Distribution {
	if len(values) == 0 {
		return model.Distribution{}
	}
	if len(h.Edges) > 0 {
		return h.buildEdges(values)
	}
	width := h.Width
	if width <= 0 {
		width = 1
	}
	return buildFixedWidth(values, width)
}

func buildFixedWidth(values []float64, width float64) model.Distribution {
	lo, hi := bucketIndex(values[0], width), bucketIndex(values[0], width)
	for _, v := range values[1:] {
		idx := bucketIndex(v, width)
		lo = min(lo, idx)
		hi = max(hi, idx)
	}
	if hi-lo+1 > maxHistogramBuckets {
		return buildFixedWidth(values, width*2)
	}

	counts := make([]int64, hi-lo+1)
	for _, v := range values {
		counts[bucketIndex(v, width)-lo]++
	}

	// the leading empty bucket records where the first populated bucket starts
	buckets := make([]model.Bucket, 0, len(counts)+1)
	buckets = append(buckets, model.Bucket{End: float64(lo-1) * width})
	for i, c := range counts {
		buckets = append(buckets, model.Bucket{End: float64(lo+int64(i)) * width, Count: c})
	}
	return model.Distribution{Buckets: buckets}
}

// bucketIndex returns k such that v lies in ((k-1)*width, k*width]
func bucketIndex(v, width float64) int64 {
	return int64(math.Ceil(v / width))
}

func (h HistogramSpec) buildEdges(values []float64) model.Distribution {
	counts := make([]int64, len(h.Edges))
	var overflow int64
	overflowEnd := math.Inf(-1)

	for _, v := range values {
		// first edge >= v is the inclusive upper bound
		i := sort.SearchFloat64s(h.Edges, v)
		if i == len(h.Edges) {
			overflow++
			overflowEnd = max(overflowEnd, v)
			continue
		}
		counts[i]++
	}

	buckets := make([]model.Bucket, 0, len(h.Edges)+1)
	for i, e := range h.Edges {
		buckets = append(buckets, model.Bucket{End: e, Count: counts[i]})
	}
	if overflow > 0 {
		buckets = append(buckets, model.Bucket{End: overflowEnd, Count: overflow})
	}
	return model.Distribution{Buckets: buckets}
}
