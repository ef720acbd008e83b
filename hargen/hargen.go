package hargen

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/pb33f/harhar"
	"github.com/pb33f/pfesim/pfe"
)

// GenerateOptions configures har generation
type GenerateOptions struct {
	PageCount         int       // number of pages to generate
	MaxFamilies       int       // families per page, 1..MaxFamilies (default: 2)
	SubsetChance      float64   // chance a page needs each non latin subset (default: 0.25)
	BytesPerCodepoint float64   // font size model (default: 40)
	FontOverhead      int64     // bytes every subset file carries (default: 2048)
	Host              string    // site host (default: www.example.com)
	FontHost          string    // font server host (default: fonts.example.com)
	DictionaryPath    string    // path to word dictionary (default: /usr/share/dict/words)
	Seed              int64     // random seed for reproducibility (0 = use time)
	Start             time.Time // first entry start time (default: 2024-01-01 UTC)
}

// DefaultGenerateOptions provides sensible defaults
var DefaultGenerateOptions = GenerateOptions{
	PageCount:         5,
	MaxFamilies:       2,
	SubsetChance:      0.25,
	BytesPerCodepoint: 40,
	FontOverhead:      2048,
	Host:              "www.example.com",
	FontHost:          "fonts.example.com",
	DictionaryPath:    "/usr/share/dict/words",
	Seed:              0,
	Start:             time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
}

// HAR is the envelope of a generated capture
type HAR struct {
	Log Log `json:"log"`
}

// Log holds the pages and entries of a generated capture
type Log struct {
	Version string         `json:"version"`
	Creator harhar.Creator `json:"creator"`
	Pages   []Page         `json:"pages"`
	Entries []harhar.Entry `json:"entries"`
}

// Page is a HAR page record
type Page struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	StartedDateTime string `json:"startedDateTime"`
}

// GenerateResult describes a generated capture
type GenerateResult struct {
	HARFilePath  string // path to generated har file
	TotalPages   int
	TotalEntries int // documents, stylesheets and fonts
	FontEntries  int
}

func (opts GenerateOptions) withDefaults() GenerateOptions {
	d := DefaultGenerateOptions
	if opts.MaxFamilies <= 0 {
		opts.MaxFamilies = d.MaxFamilies
	}
	if opts.SubsetChance <= 0 {
		opts.SubsetChance = d.SubsetChance
	}
	if opts.BytesPerCodepoint <= 0 {
		opts.BytesPerCodepoint = d.BytesPerCodepoint
	}
	if opts.FontOverhead <= 0 {
		opts.FontOverhead = d.FontOverhead
	}
	if opts.Host == "" {
		opts.Host = d.Host
	}
	if opts.FontHost == "" {
		opts.FontHost = d.FontHost
	}
	if opts.DictionaryPath == "" {
		opts.DictionaryPath = d.DictionaryPath
	}
	if opts.Start.IsZero() {
		opts.Start = d.Start
	}
	return opts
}

// Generate creates a har file in the temp directory
func Generate(opts GenerateOptions) (*GenerateResult, error) {
	har, err := GenerateInMemory(opts)
	if err != nil {
		return nil, err
	}

	tmpFile, err := os.CreateTemp("", "hargen-*.har")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tmpFile.Close()

	if err := writeHAR(tmpFile, har); err != nil {
		os.Remove(tmpFile.Name())
		return nil, err
	}

	result := summarize(har)
	result.HARFilePath = tmpFile.Name()
	return result, nil
}

// GenerateToFile generates a har and writes it to a specific file path
func GenerateToFile(path string, opts GenerateOptions) (*GenerateResult, error) {
	har, err := GenerateInMemory(opts)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := writeHAR(file, har); err != nil {
		return nil, err
	}

	result := summarize(har)
	result.HARFilePath = path
	return result, nil
}

// GenerateInMemory creates a har structure without writing to disk. Every
// page has a document, one stylesheet and a woff2 file per family subset;
// the fonts name the stylesheet as their referer.
func GenerateInMemory(opts GenerateOptions) (*HAR, error) {
	// zero page count is honored for empty har testing
	if opts.PageCount < 0 {
		return nil, fmt.Errorf("page count must not be negative, got %d", opts.PageCount)
	}
	opts = opts.withDefaults()

	// create local rng (avoid mutating global rand)
	var rng *rand.Rand
	if opts.Seed != 0 {
		rng = rand.New(rand.NewSource(opts.Seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	dict, err := LoadDictionary(opts.DictionaryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}

	strategy := pfe.LatinScriptsStrategy()
	sheets := NewStylesheetGenerator(strategy, opts.FontHost, rng)
	entries := NewEntryGenerator(rng, opts.Start)
	sizer := pfe.ProportionalSizer{BytesPerCodepoint: opts.BytesPerCodepoint, Overhead: opts.FontOverhead}

	har := &HAR{
		Log: Log{
			Version: "1.2",
			Creator: harhar.Creator{
				Name:    "hargen",
				Version: "1.0.0",
			},
			Pages:   make([]Page, 0, opts.PageCount),
			Entries: []harhar.Entry{},
		},
	}

	for i := 0; i < opts.PageCount; i++ {
		pageRef := fmt.Sprintf("page_%d", i+1)
		pageURL := fmt.Sprintf("https://%s/%s/%s", opts.Host, dict.RandomWord(rng), dict.RandomWord(rng))
		har.Log.Pages = append(har.Log.Pages, Page{
			ID:              pageRef,
			Title:           pageURL,
			StartedDateTime: entries.clock.Format(time.RFC3339Nano),
		})

		families := make([]family, rng.Intn(opts.MaxFamilies)+1)
		for j := range families {
			families[j] = sheets.NewFamily(dict.FamilyName(rng), opts.SubsetChance)
		}
		cssURL := sheets.StylesheetURL(families)

		har.Log.Entries = append(har.Log.Entries,
			entries.Document(pageRef, pageURL),
			entries.Stylesheet(pageRef, pageURL, cssURL, sheets.Stylesheet(families)))

		for _, f := range families {
			for _, s := range f.Subsets {
				size, err := sizer.SubsetSize(nil, strategy.Subsets[s])
				if err != nil {
					return nil, fmt.Errorf("failed to size %s subset %d: %w", f.Name, s, err)
				}
				// families compress differently
				size = int64(math.Round(float64(size) * (0.85 + 0.3*rng.Float64())))
				har.Log.Entries = append(har.Log.Entries,
					entries.Font(pageRef, cssURL, sheets.FontURL(f, s), size))
			}
		}
	}

	return har, nil
}

func writeHAR(w io.Writer, har *HAR) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(har); err != nil {
		return fmt.Errorf("failed to write har: %w", err)
	}
	return nil
}

func summarize(har *HAR) *GenerateResult {
	result := &GenerateResult{
		TotalPages:   len(har.Log.Pages),
		TotalEntries: len(har.Log.Entries),
	}
	for _, e := range har.Log.Entries {
		if e.Response.Body.MIMEType == "font/woff2" {
			result.FontEntries++
		}
	}
	return result
}
