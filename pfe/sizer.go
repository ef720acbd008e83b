package pfe

import (
	"fmt"
	"math"
)

// SubsetSizer estimates the encoded size of a subset cut from a font.
type SubsetSizer interface {
	SubsetSize(font []byte, subset Subset) (int64, error)
}

// FixedSizer gives every subset the same size.
type FixedSizer struct {
	Size int64
}

func (f FixedSizer) SubsetSize(_ []byte, _ Subset) (int64, error) {
	return f.Size, nil
}

// ProportionalSizer sizes a subset by the number of codepoints it covers,
// capped at the size of the whole font.
type ProportionalSizer struct {
	BytesPerCodepoint float64
	Overhead          int64
}

func (p ProportionalSizer) SubsetSize(font []byte, subset Subset) (int64, error) {
	if p.BytesPerCodepoint < 0 || p.Overhead < 0 {
		return 0, fmt.Errorf("proportional sizer: negative parameters")
	}
	size := p.Overhead + int64(math.Round(p.BytesPerCodepoint*float64(subset.Len())))
	if len(font) > 0 {
		size = min(size, int64(len(font)))
	}
	return size, nil
}
