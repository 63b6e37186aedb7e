package goquery

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/percept"
)

// Ensure Extractor implements percept.Extractor at compile time.
var _ percept.Extractor = (*Extractor)(nil)

// Extractor pulls structured articles out of news pages described by a
// site profile. The headline comes from the page's first h1, the
// publication date and author from its JSON-LD block, and the body
// from a walk over the main content node.
type Extractor struct {
	profile percept.Profile
	fetcher percept.Fetcher
	base    *url.URL
	now     func() int64
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock overrides the time source used when page metadata carries
// no usable publication date.
func WithClock(now func() int64) Option {
	return func(e *Extractor) { e.now = now }
}

// NewExtractor creates an Extractor for the given site profile.
// The fetcher supplies page HTML so callers choose between plain HTTP
// and browser rendering.
func NewExtractor(profile percept.Profile, fetcher percept.Fetcher, opts ...Option) (*Extractor, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	base, err := url.Parse(profile.BaseURL)
	if err != nil {
		return nil, percept.Errorf(percept.EINVALID, "invalid profile base URL: %v", err)
	}
	e := &Extractor{
		profile: profile,
		fetcher: fetcher,
		base:    base,
		now:     func() int64 { return time.Now().Unix() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Extract fetches the page at url and assembles an Article from it.
func (e *Extractor) Extract(ctx context.Context, rawurl string) (*percept.Article, error) {
	page, err := e.fetcher.Fetch(ctx, rawurl)
	if err != nil {
		return nil, percept.Errorf(percept.EINTERNAL, "fetch %q: %v", rawurl, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, percept.Errorf(percept.EINVALID, "parse %q: %v", rawurl, err)
	}

	// Presence of the element is the gate; its text may still be
	// empty after trimming.
	h1 := doc.Find("h1").First()
	if h1.Length() == 0 {
		return nil, percept.Errorf(percept.EINVALID, "missing headline element")
	}
	headline := strings.TrimSpace(h1.Text())

	date, author := e.pageMetadata(doc)

	content, err := e.findContent(doc)
	if err != nil {
		return nil, err
	}

	return &percept.Article{
		Headline: headline,
		Date:     date,
		Author:   author,
		Body:     e.parseBody(content),
	}, nil
}

// findContent returns the first node matched by the profile's content
// selectors, tried in order. News layouts vary between site sections,
// so a profile carries several candidates.
func (e *Extractor) findContent(doc *goquery.Document) (*goquery.Selection, error) {
	for _, selector := range e.profile.ContentSelectors {
		if content := doc.Find(selector).First(); content.Length() > 0 {
			return content, nil
		}
	}
	return nil, percept.Errorf(percept.EINVALID, "could not locate main content")
}

// parseBody collects the content node's paragraphs, subheadings, and
// figures in document order. Whitespace-only paragraphs and figures
// without a resolvable image are dropped.
func (e *Extractor) parseBody(content *goquery.Selection) percept.Body {
	var body percept.Body
	content.Find("p, h2, figure").Each(func(_ int, sel *goquery.Selection) {
		switch goquery.NodeName(sel) {
		case "p":
			if strings.TrimSpace(sel.Text()) == "" {
				return
			}
			if p := e.parseParagraph(sel); len(p.Content) > 0 {
				body.Elements = append(body.Elements, p)
			}
		case "h2":
			if text := strings.TrimSpace(sel.Text()); text != "" {
				body.Elements = append(body.Elements, percept.Subheading{Text: text})
			}
		case "figure":
			if img, ok := parseFigure(sel); ok {
				body.Elements = append(body.Elements, img)
			}
		}
	})
	return body
}

// parseParagraph splits a paragraph node into text runs and links.
// An anchor flushes the accumulated run, emits a Link, and contributes
// its anchor text to the run that follows it. Nested markup flattens
// into the surrounding run; line breaks are dropped.
func (e *Extractor) parseParagraph(p *goquery.Selection) percept.Paragraph {
	var para percept.Paragraph
	var run strings.Builder

	flush := func() {
		if run.Len() > 0 {
			para.Content = append(para.Content, percept.Text(run.String()))
			run.Reset()
		}
	}

	p.Contents().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "a":
			href, ok := child.Attr("href")
			if !ok || href == "" {
				run.WriteString(child.Text())
				return
			}
			flush()
			para.Content = append(para.Content, percept.Link{URL: e.resolveHref(href)})
			run.WriteString(child.Text())
		case "br":
		default:
			run.WriteString(child.Text())
		}
	})
	flush()

	return para
}

// resolveHref resolves article-relative hrefs against the profile's
// base URL. Unparseable hrefs pass through untouched rather than
// dropping the link.
func (e *Extractor) resolveHref(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return e.base.ResolveReference(ref).String()
}

// parseFigure reads a figure's image and caption. Lazily loaded images
// keep their URL in data-src rather than src.
func parseFigure(figure *goquery.Selection) (percept.Image, bool) {
	img := figure.Find("img").First()
	if img.Length() == 0 {
		return percept.Image{}, false
	}

	src, _ := img.Attr("src")
	if src == "" {
		src, _ = img.Attr("data-src")
	}
	if src == "" {
		return percept.Image{}, false
	}

	return percept.Image{
		URL:     src,
		Caption: strings.TrimSpace(figure.Find("figcaption").First().Text()),
	}, true
}
