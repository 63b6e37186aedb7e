package trafilatura

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/percept"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements percept.Extractor at compile time.
var _ percept.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura for sites without a dedicated
// profile. Boilerplate removal and metadata detection are heuristic,
// so the resulting articles are rougher than profile extraction but
// work on any page with a main text body.
type Extractor struct {
	fetcher   percept.Fetcher
	converter percept.Converter
	now       func() int64
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock overrides the time source used when page metadata carries
// no publication date.
func WithClock(now func() int64) Option {
	return func(e *Extractor) { e.now = now }
}

// NewExtractor creates an Extractor that parses fetched pages with
// trafilatura and rebuilds their main content through the converter's
// Markdown output.
func NewExtractor(fetcher percept.Fetcher, converter percept.Converter, opts ...Option) *Extractor {
	e := &Extractor{
		fetcher:   fetcher,
		converter: converter,
		now:       func() int64 { return time.Now().Unix() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches the page at url and assembles an Article from its
// main text content.
func (e *Extractor) Extract(ctx context.Context, rawurl string) (*percept.Article, error) {
	page, err := e.fetcher.Fetch(ctx, rawurl)
	if err != nil {
		return nil, percept.Errorf(percept.EINTERNAL, "fetch %q: %v", rawurl, err)
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		IncludeImages:   true,
	}
	if u, err := url.Parse(rawurl); err == nil {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(page), opts)
	if err != nil {
		return nil, percept.Errorf(percept.EINVALID, "extract %q: %v", rawurl, err)
	}
	if result.ContentNode == nil {
		return nil, percept.Errorf(percept.EINVALID, "no extractable content")
	}

	headline := strings.TrimSpace(result.Metadata.Title)
	if headline == "" {
		return nil, percept.Errorf(percept.EINVALID, "missing article title")
	}

	date := e.now()
	if !result.Metadata.Date.IsZero() {
		date = result.Metadata.Date.Unix()
	}

	// The content node uses trafilatura's internal element names, so
	// convert it back to plain HTML before handing it to the
	// Markdown converter.
	contentHTML, err := renderNode(trafilatura.CreateReadableDocument(result))
	if err != nil {
		return nil, percept.Errorf(percept.EINTERNAL, "render content: %v", err)
	}

	markdown, err := e.converter.Convert(contentHTML)
	if err != nil {
		return nil, percept.Errorf(percept.EINTERNAL, "convert content: %v", err)
	}

	body := percept.ParseBody(markdown)

	// Pages and the readable rendering often repeat the headline as
	// the first in-content heading.
	if len(body.Elements) > 0 {
		if h, ok := body.Elements[0].(percept.Subheading); ok && h.Text == headline {
			body.Elements = body.Elements[1:]
		}
	}

	return &percept.Article{
		Headline: headline,
		Date:     date,
		Author:   result.Metadata.Author,
		Body:     body,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
