package hargen

import (
	"fmt"
	"math/rand"
	"net/url"
	"strings"

	"github.com/pb33f/pfesim/pfe"
)

// family is one font family served by a generated stylesheet, sliced into
// the subsets of the latin-scripts strategy a page needs.
type family struct {
	Name    string
	Slug    string
	Weight  int
	Subsets []int // indices into the strategy's subsets
}

// StylesheetGenerator writes @font-face stylesheets for generated families
type StylesheetGenerator struct {
	strategy pfe.Strategy
	fontHost string
	rng      *rand.Rand
}

// NewStylesheetGenerator creates a stylesheet generator serving fonts from fontHost
func NewStylesheetGenerator(strategy pfe.Strategy, fontHost string, rng *rand.Rand) *StylesheetGenerator {
	return &StylesheetGenerator{
		strategy: strategy,
		fontHost: fontHost,
		rng:      rng,
	}
}

var weights = []int{300, 400, 500, 700}

// NewFamily picks a weight and the subsets a page touches. The last subset
// (basic latin) is always included.
func (sg *StylesheetGenerator) NewFamily(name string, subsetChance float64) family {
	f := family{
		Name:   name,
		Slug:   strings.ToLower(strings.ReplaceAll(name, " ", "")),
		Weight: weights[sg.rng.Intn(len(weights))],
	}
	last := len(sg.strategy.Subsets) - 1
	for i := 0; i < last; i++ {
		if sg.rng.Float64() < subsetChance {
			f.Subsets = append(f.Subsets, i)
		}
	}
	f.Subsets = append(f.Subsets, last)
	return f
}

// StylesheetURL is the css endpoint requesting every family
func (sg *StylesheetGenerator) StylesheetURL(families []family) string {
	q := url.Values{}
	for _, f := range families {
		q.Add("family", fmt.Sprintf("%s:wght@%d", f.Name, f.Weight))
	}
	q.Set("display", "swap")
	return "https://" + sg.fontHost + "/css2?" + q.Encode()
}

// FontURL is the file serving one subset of a family
func (sg *StylesheetGenerator) FontURL(f family, subset int) string {
	return fmt.Sprintf("https://%s/s/%s/v%d/%s.%d.woff2", sg.fontHost, f.Slug, f.Weight/100, f.Slug, subset)
}

// Stylesheet renders one @font-face rule per family subset
func (sg *StylesheetGenerator) Stylesheet(families []family) string {
	var b strings.Builder
	for _, f := range families {
		for _, i := range f.Subsets {
			fmt.Fprintf(&b, "@font-face {\n")
			fmt.Fprintf(&b, "  font-family: '%s';\n", f.Name)
			fmt.Fprintf(&b, "  font-style: normal;\n")
			fmt.Fprintf(&b, "  font-weight: %d;\n", f.Weight)
			fmt.Fprintf(&b, "  font-display: swap;\n")
			fmt.Fprintf(&b, "  src: url(%s) format('woff2');\n", sg.FontURL(f, i))
			fmt.Fprintf(&b, "  unicode-range: %s;\n", sg.strategy.Subsets[i].String())
			fmt.Fprintf(&b, "}\n")
		}
	}
	return b.String()
}
