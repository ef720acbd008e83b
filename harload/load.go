package harload

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/pb33f/harhar"
	"github.com/pb33f/pfesim/motor"
)

const (
	keyLog     = "log"
	keyCreator = "creator"
	keyPages   = "pages"
	keyEntries = "entries"

	headerReferer = "referer"

	// UnassignedPage collects entries recorded without a pageref
	UnassignedPage = "(no page)"
)

// FormatError is returned when the capture is not a HAR document.
type FormatError struct {
	Offset int64
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid har at byte %d: %s", e.Offset, e.Reason)
}

// Options configures capture loading.
type Options struct {
	ReadBufferSize int          // default: 64KB
	Logger         *slog.Logger // default: slog.Default()
}

// DefaultOptions provides sensible defaults
func DefaultOptions() Options {
	return Options{
		ReadBufferSize: 64 * 1024,
		Logger:         slog.Default(),
	}
}

// Kind classifies a kept entry.
type Kind int

const (
	Stylesheet Kind = iota
	Font
)

func (k Kind) String() string {
	switch k {
	case Stylesheet:
		return "stylesheet"
	case Font:
		return "font"
	default:
		return "unknown"
	}
}

// Page is the font loading graph recorded for one page of the capture.
type Page struct {
	ID    string
	Title string
	Graph *motor.RequestGraph
}

// Capture is a HAR file reduced to its font loading request graphs.
type Capture struct {
	Creator      *harhar.Creator
	Pages        []Page // every recorded page, in order of first appearance
	TotalEntries int    // every entry in the file
	KeptEntries  int    // stylesheet and font entries
	LoadTime     time.Duration
}

// Page looks up a page by id.
func (c *Capture) Page(id string) (Page, bool) {
	for _, p := range c.Pages {
		if p.ID == id {
			return p, true
		}
	}
	return Page{}, false
}

// Session returns one page view per recorded page, in capture order, for
// replaying the whole capture as a single browsing session.
func (c *Capture) Session() []motor.PageView {
	views := make([]motor.PageView, len(c.Pages))
	for i, p := range c.Pages {
		views[i] = motor.PageView{ID: p.ID}
	}
	return views
}

// LoadFile opens and loads a capture from disk.
func LoadFile(path string, opts Options) (*Capture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open har file: %w", err)
	}
	defer file.Close()

	capture, err := Load(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return capture, nil
}

// Load streams a HAR document and keeps its stylesheet and font requests.
// Entries are grouped by pageref, a font (or imported stylesheet) whose
// Referer header names a stylesheet recorded earlier on the same page depends
// on that stylesheet, and sizes are headers plus body, with HAR's -1 for
// unknown counted as zero.
func Load(r io.Reader, opts Options) (*Capture, error) {
	defaults := DefaultOptions()
	if opts.ReadBufferSize <= 0 {
		opts.ReadBufferSize = defaults.ReadBufferSize
	}
	if opts.Logger == nil {
		opts.Logger = defaults.Logger
	}

	startTime := time.Now()
	l := &loader{
		opts:    opts,
		capture: &Capture{},
		pages:   make(map[string]*pageBuilder),
		titles:  make(map[string]string),
	}

	decoder := newHARDecoder(bufio.NewReaderSize(r, opts.ReadBufferSize))
	if err := l.parseHAR(decoder); err != nil {
		return nil, fmt.Errorf("failed to parse har: %w", err)
	}

	for _, id := range l.order {
		b := l.pages[id]
		g, err := motor.NewRequestGraph(id, b.requests...)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", id, err)
		}
		l.capture.Pages = append(l.capture.Pages, Page{ID: id, Title: l.titles[id], Graph: g})
	}
	l.capture.LoadTime = time.Since(startTime)

	opts.Logger.Debug("har capture loaded",
		"entries", l.capture.TotalEntries,
		"kept", l.capture.KeptEntries,
		"pages", len(l.capture.Pages),
		"duration", l.capture.LoadTime)

	return l.capture, nil
}

type loader struct {
	opts    Options
	capture *Capture
	pages   map[string]*pageBuilder
	order   []string
	titles  map[string]string
}

type pageBuilder struct {
	requests    []motor.Request
	stylesheets map[string]string // url -> request id of the first stylesheet with it
}

// pageInfo is the part of a HAR page record the loader uses
type pageInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (l *loader) parseHAR(decoder HARDecoder) error {
	if err := helper.expectDelim(decoder, '{'); err != nil {
		return err
	}

	sawLog := false
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return err
		}

		key, ok := token.(string)
		if !ok {
			continue
		}

		switch key {
		case keyLog:
			sawLog = true
			if err := l.parseLog(decoder); err != nil {
				return err
			}
		default:
			if err := helper.skipValue(decoder); err != nil {
				return err
			}
		}
	}

	if !sawLog {
		return &FormatError{Offset: decoder.InputOffset(), Reason: "missing log object"}
	}
	return helper.expectDelim(decoder, '}')
}

func (l *loader) parseLog(decoder HARDecoder) error {
	if err := helper.expectDelim(decoder, '{'); err != nil {
		return err
	}

	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return err
		}

		key, ok := token.(string)
		if !ok {
			continue
		}

		switch key {
		case keyCreator:
			var creator harhar.Creator
			if err := decoder.Decode(&creator); err != nil {
				return err
			}
			l.capture.Creator = &creator
		case keyPages:
			var pages []pageInfo
			if err := decoder.Decode(&pages); err != nil {
				return err
			}
			for _, p := range pages {
				l.titles[p.ID] = p.Title
				l.page(p.ID)
			}
		case keyEntries:
			if err := l.parseEntries(decoder); err != nil {
				return err
			}
		default:
			if err := helper.skipValue(decoder); err != nil {
				return err
			}
		}
	}

	return helper.expectDelim(decoder, '}')
}

func (l *loader) parseEntries(decoder HARDecoder) error {
	if err := helper.expectDelim(decoder, '['); err != nil {
		return err
	}

	entryIndex := 0
	for decoder.More() {
		var entry harhar.Entry
		if err := decoder.Decode(&entry); err != nil {
			return fmt.Errorf("failed to parse entry %d: %w", entryIndex, err)
		}
		l.addEntry(entryIndex, &entry)
		entryIndex++
	}
	l.capture.TotalEntries = entryIndex

	return helper.expectDelim(decoder, ']')
}

func (l *loader) addEntry(index int, entry *harhar.Entry) {
	kind, ok := classify(entry)
	if !ok {
		return
	}
	l.capture.KeptEntries++

	pageID := entry.PageRef
	if pageID == "" {
		pageID = UnassignedPage
	}
	page := l.page(pageID)

	req := motor.Request{
		ID:           fmt.Sprintf("e%d", index),
		RequestSize:  requestSize(&entry.Request),
		ResponseSize: responseSize(&entry.Response),
	}
	if referer := header(entry.Request.Headers, headerReferer); referer != "" {
		// only stylesheets seen earlier can be parents, so graphs stay acyclic
		if parent, found := page.stylesheets[referer]; found {
			req.Parent = parent
		}
	}
	page.requests = append(page.requests, req)

	if kind == Stylesheet {
		if _, seen := page.stylesheets[entry.Request.URL]; !seen {
			page.stylesheets[entry.Request.URL] = req.ID
		}
	}
}

// page returns the builder for id, registering it on first sight so pages
// without fonts still yield an empty graph
func (l *loader) page(id string) *pageBuilder {
	page, exists := l.pages[id]
	if !exists {
		page = &pageBuilder{stylesheets: make(map[string]string)}
		l.pages[id] = page
		l.order = append(l.order, id)
	}
	return page
}

var fontExtensions = map[string]struct{}{
	".woff2": {}, ".woff": {}, ".ttf": {}, ".otf": {}, ".eot": {},
}

// classify decides whether an entry is a stylesheet or a font, by response
// mime type first and file extension second
func classify(entry *harhar.Entry) (Kind, bool) {
	mime := strings.ToLower(entry.Response.Body.MIMEType)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}

	switch {
	case mime == "text/css":
		return Stylesheet, true
	case strings.HasPrefix(mime, "font/"),
		strings.HasPrefix(mime, "application/font"),
		strings.HasPrefix(mime, "application/x-font"),
		mime == "application/vnd.ms-fontobject":
		return Font, true
	}

	u, err := url.Parse(entry.Request.URL)
	if err != nil {
		return 0, false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if ext == ".css" {
		return Stylesheet, true
	}
	if _, ok := fontExtensions[ext]; ok {
		return Font, true
	}
	return 0, false
}

func header(headers []harhar.NameValuePair, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

func requestSize(r *harhar.Request) int64 {
	return nonNegative(r.HeadersSize) + nonNegative(r.BodySize)
}

func responseSize(r *harhar.Response) int64 {
	body := nonNegative(r.BodySize)
	if r.BodySize < 0 {
		body = nonNegative(r.Body.Size)
	}
	return nonNegative(r.HeadersSize) + body
}

func nonNegative(n int) int64 {
	if n < 0 {
		return 0
	}
	return int64(n)
}
