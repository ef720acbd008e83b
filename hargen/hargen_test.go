package hargen

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pb33f/pfesim/harload"
	"github.com/pb33f/pfesim/motor"
	"github.com/pb33f/pfesim/pfe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(pages int) GenerateOptions {
	return GenerateOptions{
		PageCount:      pages,
		Seed:           42,
		DictionaryPath: "/nonexistent/words",
	}
}

func TestGenerateInMemory(t *testing.T) {
	har, err := GenerateInMemory(testOptions(4))
	require.NoError(t, err)

	assert.Equal(t, "1.2", har.Log.Version)
	assert.Equal(t, "hargen", har.Log.Creator.Name)
	require.Len(t, har.Log.Pages, 4)

	pages := map[string]bool{}
	for _, p := range har.Log.Pages {
		pages[p.ID] = true
		assert.True(t, strings.HasPrefix(p.Title, "https://www.example.com/"))
	}

	for _, e := range har.Log.Entries {
		assert.True(t, pages[e.PageRef], "entry references a generated page")
		assert.Equal(t, e.Response.BodySize, e.Response.Body.Size)
		assert.Positive(t, e.Response.BodySize)
	}

	first := har.Log.Entries[0]
	assert.Equal(t, "text/html; charset=utf-8", first.Response.Body.MIMEType)
	css := har.Log.Entries[1]
	assert.Contains(t, css.Request.URL, "https://fonts.example.com/css2?")
	assert.Contains(t, css.Response.Body.Content, "@font-face")
	assert.Contains(t, css.Response.Body.Content, "unicode-range: U+0000-00FF")
}

func TestGenerateInMemory_Deterministic(t *testing.T) {
	a, err := GenerateInMemory(testOptions(6))
	require.NoError(t, err)
	b, err := GenerateInMemory(testOptions(6))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other := testOptions(6)
	other.Seed = 7
	c, err := GenerateInMemory(other)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestGenerateInMemory_PageCount(t *testing.T) {
	har, err := GenerateInMemory(testOptions(0))
	require.NoError(t, err)
	assert.Empty(t, har.Log.Pages)
	assert.Empty(t, har.Log.Entries)

	_, err = GenerateInMemory(testOptions(-1))
	assert.Error(t, err)
}

func TestGenerateToFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fonts.har")
	result, err := GenerateToFile(path, testOptions(5))
	require.NoError(t, err)
	assert.Equal(t, path, result.HARFilePath)
	assert.Equal(t, 5, result.TotalPages)

	capture, err := harload.LoadFile(path, harload.Options{})
	require.NoError(t, err)

	assert.Equal(t, result.TotalEntries, capture.TotalEntries)
	assert.Equal(t, result.TotalEntries-result.TotalPages, capture.KeptEntries, "documents are dropped")
	require.Len(t, capture.Pages, 5)

	fonts := 0
	for _, page := range capture.Pages {
		roots := page.Graph.Roots()
		require.Len(t, roots, 1, "the stylesheet is the only root")
		children := page.Graph.Children(roots[0].ID)
		assert.Equal(t, page.Graph.Len()-1, len(children), "every font depends on the stylesheet")
		fonts += len(children)
	}
	assert.Equal(t, result.FontEntries, fonts)

	total, err := motor.Simulate(capture.Pages[0].Graph, motor.NetworkProfile{Name: "n", LatencyMs: 100, MaxConcurrent: 6})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total.TimeMs, 200.0)
}

func TestGenerate_TempFile(t *testing.T) {
	result, err := Generate(testOptions(2))
	require.NoError(t, err)
	defer os.Remove(result.HARFilePath)

	info, err := os.Stat(result.HARFilePath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
	assert.True(t, strings.HasSuffix(result.HARFilePath, ".har"))
}

func TestDictionary(t *testing.T) {
	dict, err := LoadDictionary("/nonexistent/words")
	require.NoError(t, err)
	assert.Equal(t, len(fallbackWords), dict.Size())

	rng := rand.New(rand.NewSource(1))
	name := dict.FamilyName(rng)
	parts := strings.Split(name, " ")
	require.Len(t, parts, 2)
	assert.Contains(t, familyStyles, parts[1])
	assert.Equal(t, strings.ToUpper(parts[0][:1]), parts[0][:1])

	path := filepath.Join(t.TempDir(), "words")
	require.NoError(t, os.WriteFile(path, []byte("Harbor\nx\nit's\nmeadow\n"), 0o644))
	dict, err = LoadDictionary(path)
	require.NoError(t, err)
	assert.Equal(t, 2, dict.Size())

	empty := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(empty, []byte("a\nb\n"), 0o644))
	_, err = LoadDictionary(empty)
	assert.Error(t, err)
}

func TestStylesheetGenerator(t *testing.T) {
	strategy := pfe.LatinScriptsStrategy()
	sg := NewStylesheetGenerator(strategy, "fonts.test", rand.New(rand.NewSource(3)))

	f := sg.NewFamily("Harbor Serif", 1)
	assert.Equal(t, "harborserif", f.Slug)
	assert.Len(t, f.Subsets, len(strategy.Subsets), "every subset when chance is certain")

	f = sg.NewFamily("Harbor Serif", 0)
	assert.Equal(t, []int{len(strategy.Subsets) - 1}, f.Subsets, "latin is always present")

	css := sg.Stylesheet([]family{f})
	assert.Equal(t, 1, strings.Count(css, "@font-face"))
	assert.Contains(t, css, "font-family: 'Harbor Serif';")
	assert.Contains(t, css, sg.FontURL(f, 6))
	assert.Contains(t, sg.StylesheetURL([]family{f}), "display=swap")
}
