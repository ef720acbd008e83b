package hargen

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/pb33f/harhar"
)

// EntryGenerator creates the HAR entries of a font loading page
type EntryGenerator struct {
	rng   *rand.Rand
	clock time.Time
}

// NewEntryGenerator creates a new entry generator. Entry start times begin
// at start and advance with every entry, so a seeded run is reproducible.
func NewEntryGenerator(rng *rand.Rand, start time.Time) *EntryGenerator {
	return &EntryGenerator{
		rng:   rng,
		clock: start,
	}
}

// Document is the html entry that starts a page; it is not a font request
func (eg *EntryGenerator) Document(pageRef, pageURL string) harhar.Entry {
	size := eg.rng.Intn(40000) + 8000
	return eg.entry(pageRef,
		eg.request(pageURL, ""),
		eg.response("text/html; charset=utf-8", size, ""))
}

// Stylesheet is the css entry listing every @font-face of the page
func (eg *EntryGenerator) Stylesheet(pageRef, pageURL, cssURL, content string) harhar.Entry {
	return eg.entry(pageRef,
		eg.request(cssURL, pageURL),
		eg.response("text/css; charset=utf-8", len(content), content))
}

// Font is one woff2 subset, requested with the stylesheet as referer
func (eg *EntryGenerator) Font(pageRef, cssURL, fontURL string, size int64) harhar.Entry {
	return eg.entry(pageRef,
		eg.request(fontURL, cssURL),
		eg.response("font/woff2", int(size), ""))
}

func (eg *EntryGenerator) entry(pageRef string, req harhar.Request, resp harhar.Response) harhar.Entry {
	elapsed := float64(eg.rng.Intn(300)+20) + eg.rng.Float64()
	entry := harhar.Entry{
		PageRef:    pageRef,
		Start:      eg.clock.Format(time.RFC3339Nano),
		Time:       elapsed,
		Request:    req,
		Response:   resp,
		ServerIP:   eg.generateIP(),
		Connection: fmt.Sprintf("%d", eg.rng.Intn(65535)),
	}
	eg.clock = eg.clock.Add(time.Duration(eg.rng.Intn(50)+1) * time.Millisecond)
	return entry
}

func (eg *EntryGenerator) request(url, referer string) harhar.Request {
	headers := []harhar.NameValuePair{
		{Name: "Accept", Value: eg.accept(url)},
		{Name: "Accept-Encoding", Value: "gzip, deflate, br"},
		{Name: "User-Agent", Value: "Mozilla/5.0 (compatible; hargen/1.0)"},
	}
	if referer != "" {
		headers = append(headers, harhar.NameValuePair{Name: "Referer", Value: referer})
	}
	return harhar.Request{
		Method:      "GET",
		URL:         url,
		HTTPVersion: "HTTP/2",
		Headers:     headers,
		QueryParams: []harhar.NameValuePair{},
		Cookies:     []harhar.Cookie{},
		HeadersSize: eg.rng.Intn(300) + 150,
		BodySize:    0,
	}
}

func (eg *EntryGenerator) response(mimeType string, size int, content string) harhar.Response {
	return harhar.Response{
		StatusCode:  200,
		StatusText:  "OK",
		HTTPVersion: "HTTP/2",
		Headers: []harhar.NameValuePair{
			{Name: "Content-Type", Value: mimeType},
			{Name: "Content-Length", Value: fmt.Sprintf("%d", size)},
			{Name: "Cache-Control", Value: eg.cacheControl()},
		},
		Cookies: []harhar.Cookie{},
		Body: harhar.BodyResponseType{
			Size:     size,
			MIMEType: mimeType,
			Content:  content,
		},
		HeadersSize: eg.rng.Intn(400) + 200,
		BodySize:    size,
	}
}

var maxAges = []string{"3600", "86400", "31536000"}

func (eg *EntryGenerator) cacheControl() string {
	return "public, max-age=" + maxAges[eg.rng.Intn(len(maxAges))]
}

func (eg *EntryGenerator) accept(url string) string {
	switch {
	case strings.Contains(url, "/css2?"):
		return "text/css,*/*;q=0.1"
	case strings.HasSuffix(url, ".woff2"):
		return "application/font-woff2;q=1.0,application/font-woff;q=0.9,*/*;q=0.8"
	default:
		return "text/html,application/xhtml+xml,*/*;q=0.8"
	}
}

func (eg *EntryGenerator) generateIP() string {
	return fmt.Sprintf("%d.%d.%d.%d",
		eg.rng.Intn(256), eg.rng.Intn(256), eg.rng.Intn(256), eg.rng.Intn(256))
}
