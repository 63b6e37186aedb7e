package percept

import (
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
)

// PlaceholderScriptHash marks rules synthesized by EnsureDefault. It is
// a fixed literal, not the digest of any real script, so verification
// paths that trust script hashes must treat inferences derived from it
// as unattested.
const PlaceholderScriptHash = "CY7Iwrrw5i7MyjV7Zqdwf2Tj0Hb3iCsJF4Sv6jcrUyw="

// Registry is an append-only, ordered collection of extraction rules.
// Lookup is first-match-wins in registration order. Rules are never
// edited or removed. All methods are safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	source   string
	now      func() int64
	rules    []*Rule
	patterns []*regexp.Regexp
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithClock overrides the registry's timestamp source.
func WithClock(now func() int64) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// NewRegistry returns an empty registry whose rules will carry the
// given source id.
func NewRegistry(source string, opts ...RegistryOption) *Registry {
	r := &Registry{
		source: source,
		now:    func() int64 { return time.Now().Unix() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register appends a new rule with the current timestamp. The pattern
// is matched anchored at the start of the URL. Returns EINVALID if the
// pattern does not compile.
func (r *Registry) Register(pattern, scriptHash, objectType, script string) (*Rule, error) {
	re, err := compileAnchored(pattern)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid rule pattern %q: %s", pattern, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rule := &Rule{
		Source:     r.source,
		Timestamp:  r.now(),
		Pattern:    pattern,
		ScriptHash: scriptHash,
		ObjectType: objectType,
		Script:     script,
	}
	r.rules = append(r.rules, rule)
	r.patterns = append(r.patterns, re)
	return rule, nil
}

// Restore re-appends a previously persisted rule keeping its original
// source and timestamp. Used when resuming a durable ledger.
func (r *Registry) Restore(rule *Rule) error {
	re, err := compileAnchored(rule.Pattern)
	if err != nil {
		return Errorf(EINVALID, "invalid rule pattern %q: %s", rule.Pattern, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule)
	r.patterns = append(r.patterns, re)
	return nil
}

// Match returns the first rule whose pattern matches the URL, or nil
// when none does. Patterns are tried in registration order.
func (r *Registry) Match(url string) *Rule {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.match(url)
}

func (r *Registry) match(url string) *Rule {
	for i, re := range r.patterns {
		if re.MatchString(url) {
			return r.rules[i]
		}
	}
	return nil
}

// EnsureDefault returns a rule for the URL, synthesizing a catch-all
// rule for its site when none is registered and the URL path marks an
// article section (/news/ or /sport/). The synthesized rule carries
// PlaceholderScriptHash and object type "article". The second return
// reports whether a rule was created by this call. Returns nil when
// the URL is not eligible.
//
// Match is re-checked under the registry lock, so concurrent
// first-seen URLs for the same site produce a single rule.
func (r *Registry) EnsureDefault(rawurl string) (*Rule, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rule := r.match(rawurl); rule != nil {
		return rule, false
	}

	host := articleHost(rawurl)
	if host == "" {
		return nil, false
	}

	pattern := `https?://(www\.)?` + regexp.QuoteMeta(host) + `/.*`
	re, err := compileAnchored(pattern)
	if err != nil {
		return nil, false
	}

	rule := &Rule{
		Source:     r.source,
		Timestamp:  r.now(),
		Pattern:    pattern,
		ScriptHash: PlaceholderScriptHash,
		ObjectType: ObjectTypeArticle,
	}
	r.rules = append(r.rules, rule)
	r.patterns = append(r.patterns, re)
	return rule, true
}

// Rules returns a snapshot of the registered rules in registration
// order.
func (r *Registry) Rules() []*Rule {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// compileAnchored anchors the pattern at the start of its input.
func compileAnchored(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + pattern + ")")
}

// articleHost returns the URL's host with any www. prefix stripped when
// the path marks an article section, or "" when the URL is not
// eligible for a default rule.
func articleHost(rawurl string) string {
	u, err := url.Parse(rawurl)
	if err != nil || u.Host == "" {
		return ""
	}
	if !strings.Contains(u.Path, "/news/") && !strings.Contains(u.Path, "/sport/") {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}
