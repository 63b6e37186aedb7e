package percept

import (
	"context"
	"net/url"
	"strings"
)

// Extractor produces a structured article from a web page.
// Implementations are site-specific and own their fetching, parsing,
// and field heuristics; the ledger only sees the result.
type Extractor interface {
	// Extract fetches the page at url and returns its structured
	// content. Any failure (network, missing required element, parse
	// error) is returned as an error whose message is recorded
	// verbatim in the inference that covers the call.
	Extract(ctx context.Context, url string) (*Article, error)
}

// Ensure ExtractorRouter implements Extractor at compile time.
var _ Extractor = (*ExtractorRouter)(nil)

// ExtractorRouter dispatches extraction by URL host. Sites with a
// dedicated profile extractor bind under their host name; every other
// URL goes to the fallback, typically a generic heuristic extractor.
// Bind all hosts before the first Extract call; the router takes no
// lock.
type ExtractorRouter struct {
	fallback Extractor
	byHost   map[string]Extractor
}

// NewExtractorRouter creates a router that sends unbound hosts to
// fallback.
func NewExtractorRouter(fallback Extractor) *ExtractorRouter {
	return &ExtractorRouter{
		fallback: fallback,
		byHost:   make(map[string]Extractor),
	}
}

// Bind routes URLs on the given host to e. A leading "www." is
// ignored, both here and when matching, so one binding covers a site's
// bare and www forms.
func (r *ExtractorRouter) Bind(host string, e Extractor) {
	r.byHost[strings.TrimPrefix(host, "www.")] = e
}

// Extract dispatches to the extractor bound to the URL's host, or to
// the fallback when none is.
func (r *ExtractorRouter) Extract(ctx context.Context, rawURL string) (*Article, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid url %q: %s", rawURL, err)
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	if e, ok := r.byHost[host]; ok {
		return e.Extract(ctx, rawURL)
	}
	return r.fallback.Extract(ctx, rawURL)
}
