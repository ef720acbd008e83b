package pfe

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// CodepointRange is an inclusive range of unicode codepoints.
type CodepointRange struct {
	First rune
	Last  rune
}

// Subset is one slice of a font, described by the codepoints it covers.
type Subset struct {
	ranges []CodepointRange // sorted, non-overlapping
}

// NewSubset normalises ranges into a sorted, merged subset.
func NewSubset(ranges ...CodepointRange) Subset {
	sorted := make([]CodepointRange, 0, len(ranges))
	for _, r := range ranges {
		if r.Last < r.First {
			r.First, r.Last = r.Last, r.First
		}
		sorted = append(sorted, r)
	}
	slices.SortFunc(sorted, func(a, b CodepointRange) int {
		return int(a.First - b.First)
	})

	var merged []CodepointRange
	for _, r := range sorted {
		if n := len(merged); n > 0 && r.First <= merged[n-1].Last+1 {
			merged[n-1].Last = max(merged[n-1].Last, r.Last)
			continue
		}
		merged = append(merged, r)
	}
	return Subset{ranges: merged}
}

// Ranges returns the normalised ranges of the subset.
func (s Subset) Ranges() []CodepointRange {
	return slices.Clone(s.ranges)
}

// Contains reports whether the codepoint falls in the subset.
func (s Subset) Contains(cp rune) bool {
	i := sort.Search(len(s.ranges), func(i int) bool {
		return s.ranges[i].Last >= cp
	})
	return i < len(s.ranges) && s.ranges[i].First <= cp
}

// Intersects reports whether any of the codepoints fall in the subset.
func (s Subset) Intersects(codepoints []rune) bool {
	for _, cp := range codepoints {
		if s.Contains(cp) {
			return true
		}
	}
	return false
}

// Len is the number of codepoints covered by the subset.
func (s Subset) Len() int {
	n := 0
	for _, r := range s.ranges {
		n += int(r.Last-r.First) + 1
	}
	return n
}

// String renders the subset as a CSS unicode-range value.
func (s Subset) String() string {
	parts := make([]string, len(s.ranges))
	for i, r := range s.ranges {
		if r.First == r.Last {
			parts[i] = fmt.Sprintf("U+%04X", r.First)
		} else {
			parts[i] = fmt.Sprintf("U+%04X-%04X", r.First, r.Last)
		}
	}
	return strings.Join(parts, ", ")
}

// ParseUnicodeRange parses a CSS unicode-range value such as
// "U+0000-00FF, U+0131, U+4??".
func ParseUnicodeRange(value string) (Subset, error) {
	var ranges []CodepointRange
	for _, token := range strings.Split(value, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		r, err := parseRangeToken(token)
		if err != nil {
			return Subset{}, fmt.Errorf("unicode-range %q: %w", token, err)
		}
		ranges = append(ranges, r)
	}
	if len(ranges) == 0 {
		return Subset{}, fmt.Errorf("unicode-range %q is empty", value)
	}
	return NewSubset(ranges...), nil
}

func parseRangeToken(token string) (CodepointRange, error) {
	if len(token) < 3 || !strings.EqualFold(token[:2], "U+") {
		return CodepointRange{}, fmt.Errorf("missing U+ prefix")
	}
	body := token[2:]

	// wildcard form, U+4?? is U+400-4FF
	if strings.Contains(body, "?") {
		first, err := parseCodepoint(strings.ReplaceAll(body, "?", "0"))
		if err != nil {
			return CodepointRange{}, err
		}
		last, err := parseCodepoint(strings.ReplaceAll(body, "?", "F"))
		if err != nil {
			return CodepointRange{}, err
		}
		return CodepointRange{First: first, Last: last}, nil
	}

	lo, hi, isRange := strings.Cut(body, "-")
	first, err := parseCodepoint(lo)
	if err != nil {
		return CodepointRange{}, err
	}
	if !isRange {
		return CodepointRange{First: first, Last: first}, nil
	}
	last, err := parseCodepoint(hi)
	if err != nil {
		return CodepointRange{}, err
	}
	if last < first {
		return CodepointRange{}, fmt.Errorf("range end U+%04X is before start U+%04X", last, first)
	}
	return CodepointRange{First: first, Last: last}, nil
}

func parseCodepoint(hex string) (rune, error) {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid codepoint %q", hex)
	}
	if v > 0x10FFFF {
		return 0, fmt.Errorf("codepoint %q is out of range", hex)
	}
	return rune(v), nil
}

// Strategy is a named way of slicing a font into subsets. Subset indices
// are stable and form part of the size cache key.
type Strategy struct {
	Name    string
	Subsets []Subset
}

// StrategyLoader picks the slicing strategy for a font.
type StrategyLoader interface {
	// StrategyFor names the strategy used to slice the font.
	StrategyFor(fontID string, font []byte) (string, error)

	// Load returns the strategy with the given name.
	Load(name string) (Strategy, error)
}

// StaticStrategies is a StrategyLoader backed by a fixed catalog. Fonts are
// assigned a strategy by id, falling back to Default.
type StaticStrategies struct {
	Catalog map[string]Strategy
	ByFont  map[string]string
	Default string
}

func (s StaticStrategies) StrategyFor(fontID string, _ []byte) (string, error) {
	if name, ok := s.ByFont[fontID]; ok {
		return name, nil
	}
	if s.Default == "" {
		return "", fmt.Errorf("no slicing strategy configured for font %s", fontID)
	}
	return s.Default, nil
}

func (s StaticStrategies) Load(name string) (Strategy, error) {
	strategy, ok := s.Catalog[name]
	if !ok {
		return Strategy{}, fmt.Errorf("unknown slicing strategy %q", name)
	}
	return strategy, nil
}

// latinScripts mirrors the per script slices served for latin, greek and
// cyrillic families.
var latinScripts = []string{
	// cyrillic-ext
	"U+0460-052F, U+1C80-1C88, U+20B4, U+2DE0-2DFF, U+A640-A69F, U+FE2E-FE2F",
	// cyrillic
	"U+0301, U+0400-045F, U+0490-0491, U+04B0-04B1, U+2116",
	// greek-ext
	"U+1F00-1FFF",
	// greek
	"U+0370-0377, U+037A-037F, U+0384-038A, U+038C, U+038E-03A1, U+03A3-03FF",
	// vietnamese
	"U+0102-0103, U+0110-0111, U+0128-0129, U+0168-0169, U+01A0-01A1, U+01AF-01B0, " +
		"U+0300-0301, U+0303-0304, U+0308-0309, U+0323, U+0329, U+1EA0-1EF9, U+20AB",
	// latin-ext
	"U+0100-02AF, U+0304, U+0308, U+0329, U+1E00-1E9F, U+1EF2-1EFF, U+2020, " +
		"U+20A0-20AB, U+20AD-20C0, U+2113, U+2C60-2C7F, U+A720-A7FF",
	// latin
	"U+0000-00FF, U+0131, U+0152-0153, U+02BB-02BC, U+02C6, U+02DA, U+02DC, U+0304, " +
		"U+0308, U+0329, U+2000-206F, U+2074, U+20AC, U+2122, U+2191, U+2193, U+2212, " +
		"U+2215, U+FEFF, U+FFFD",
}

// LatinScriptsStrategyName names the built in per script slicing.
const LatinScriptsStrategyName = "latin-scripts"

// LatinScriptsStrategy returns the built in per script slicing for
// latin, greek and cyrillic fonts.
func LatinScriptsStrategy() Strategy {
	subsets := make([]Subset, len(latinScripts))
	for i, value := range latinScripts {
		s, err := ParseUnicodeRange(value)
		if err != nil {
			panic(err)
		}
		subsets[i] = s
	}
	return Strategy{Name: LatinScriptsStrategyName, Subsets: subsets}
}
