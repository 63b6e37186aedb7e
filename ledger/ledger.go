// Package ledger assembles rules, inferences, and perceptions into an
// append-only provenance trail. A Ledger resolves which rule covers a
// URL, runs the extractor bound to the rule's object type, and records
// the outcome; extraction failures become inference records rather
// than errors.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fwojciec/percept"
)

// Ledger is the append-only record of a perception run. Records are
// never edited or removed once appended. All methods are safe for
// concurrent use; extraction itself runs outside the ledger lock so
// slow pages do not serialize the whole run.
type Ledger struct {
	mu          sync.Mutex
	source      string
	now         func() int64
	registry    *percept.Registry
	extractors  map[string]percept.Extractor
	store       percept.RecordStore
	inferences  []*percept.Inference
	perceptions []*percept.Perception
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithSource overrides the generated source id. Every record appended
// by the ledger carries this id.
func WithSource(source string) Option {
	return func(l *Ledger) { l.source = source }
}

// WithClock overrides the ledger's timestamp source.
func WithClock(now func() int64) Option {
	return func(l *Ledger) { l.now = now }
}

// WithStore attaches a durable record store. Appends are written
// through to the store under the ledger lock; a store failure surfaces
// as the operation's error while the in-memory append stands.
func WithStore(store percept.RecordStore) Option {
	return func(l *Ledger) { l.store = store }
}

// New creates an empty ledger with a fresh source id.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		source:     percept.NewSourceID(),
		now:        func() int64 { return time.Now().Unix() },
		extractors: make(map[string]percept.Extractor),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.registry = percept.NewRegistry(l.source, percept.WithClock(l.now))
	return l
}

// Source returns the ledger's source id.
func (l *Ledger) Source() string { return l.source }

// BindExtractor routes inferences for the given object type to e.
func (l *Ledger) BindExtractor(objectType string, e percept.Extractor) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.extractors[objectType] = e
}

// RegisterRule appends a new extraction rule. Returns EINVALID if the
// pattern does not compile.
func (l *Ledger) RegisterRule(ctx context.Context, pattern, scriptHash, objectType, script string) (*percept.Rule, error) {
	rule, err := l.registry.Register(pattern, scriptHash, objectType, script)
	if err != nil {
		return nil, err
	}
	if l.store != nil {
		if err := l.store.AddRule(ctx, rule); err != nil {
			return nil, err
		}
	}
	return rule, nil
}

// Rules returns the registered rules in registration order.
func (l *Ledger) Rules() []*percept.Rule {
	return l.registry.Rules()
}

// ProcessURL runs the rule-to-inference pipeline for one URL: resolve
// the covering rule, extract, and append an inference recording the
// outcome. Extraction failures are recorded in the inference, not
// returned; the error return is reserved for URLs no rule covers
// (ENOTFOUND) and for record store failures.
func (l *Ledger) ProcessURL(ctx context.Context, url string) (*percept.Article, *percept.Inference, error) {
	rule, err := l.resolveRule(ctx, url)
	if err != nil {
		return nil, nil, err
	}

	// The timestamp marks when the rule was applied, before any fetch.
	inf := &percept.Inference{
		Source:     l.source,
		Timestamp:  l.now(),
		URL:        url,
		ScriptHash: rule.ScriptHash,
	}

	l.mu.Lock()
	extractor, ok := l.extractors[rule.ObjectType]
	l.mu.Unlock()

	var article *percept.Article
	if !ok {
		inf.Error = fmt.Sprintf("no extractor bound for object type %q", rule.ObjectType)
	} else if a, err := extractor.Extract(ctx, url); err != nil {
		inf.Error = errorText(err)
	} else {
		article = a
		inf.ObjectType = rule.ObjectType
		inf.ObjectHash = a.Hash()
	}

	if err := l.appendInference(ctx, inf); err != nil {
		return nil, nil, err
	}
	return article, inf, nil
}

// resolveRule finds the rule covering the URL, synthesizing a default
// rule when the registry allows it. A synthesized rule is written
// through to the store like any other append.
func (l *Ledger) resolveRule(ctx context.Context, url string) (*percept.Rule, error) {
	rule, created := l.registry.EnsureDefault(url)
	if rule == nil {
		return nil, percept.Errorf(percept.ENOTFOUND, "no rule matches %q", url)
	}
	if created && l.store != nil {
		if err := l.store.AddRule(ctx, rule); err != nil {
			return nil, err
		}
	}
	return rule, nil
}

func (l *Ledger) appendInference(ctx context.Context, inf *percept.Inference) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.inferences = append(l.inferences, inf)
	if l.store != nil {
		return l.store.AddInference(ctx, inf)
	}
	return nil
}

// AddPerception appends an external judgment about a previously
// produced object. The reference is deliberately not checked against
// inference history: perceptions may arrive from observers that never
// saw this ledger's inferences.
func (l *Ledger) AddPerception(ctx context.Context, url, objectType, objectHash string, valid bool) (*percept.Perception, error) {
	p := &percept.Perception{
		Source:     l.source,
		Timestamp:  l.now(),
		URL:        url,
		ObjectType: objectType,
		ObjectHash: objectHash,
		Valid:      valid,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.perceptions = append(l.perceptions, p)
	if l.store != nil {
		if err := l.store.AddPerception(ctx, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Export writes every record in canonical form, one per line: rules,
// then inferences, then perceptions, each group in append order. The
// output is byte-stable for a fixed ledger state, so exporting twice
// yields identical bytes.
func (l *Ledger) Export(w io.Writer) error {
	l.mu.Lock()
	// A rule is appended before any inference that references it, so
	// snapshotting both under the same lock keeps the export
	// self-contained.
	rules := l.registry.Rules()
	inferences := make([]*percept.Inference, len(l.inferences))
	copy(inferences, l.inferences)
	perceptions := make([]*percept.Perception, len(l.perceptions))
	copy(perceptions, l.perceptions)
	l.mu.Unlock()

	for _, r := range rules {
		if _, err := io.WriteString(w, r.Canonical()+"\n"); err != nil {
			return err
		}
	}
	for _, inf := range inferences {
		if _, err := io.WriteString(w, inf.Canonical()+"\n"); err != nil {
			return err
		}
	}
	for _, p := range perceptions {
		if _, err := io.WriteString(w, p.Canonical()+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Load restores the ledger from its record store: rules re-enter the
// registry and inferences and perceptions re-enter memory, all in
// stored order. Call it once, before processing, when resuming a
// previous run. Without a store Load is a no-op.
func (l *Ledger) Load(ctx context.Context) error {
	if l.store == nil {
		return nil
	}

	rules, err := l.store.Rules(ctx)
	if err != nil {
		return err
	}
	inferences, err := l.store.Inferences(ctx)
	if err != nil {
		return err
	}
	perceptions, err := l.store.Perceptions(ctx)
	if err != nil {
		return err
	}

	for _, rule := range rules {
		if err := l.registry.Restore(rule); err != nil {
			return err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inferences = append(l.inferences, inferences...)
	l.perceptions = append(l.perceptions, perceptions...)
	return nil
}

// Stats summarizes the sizes of the ledger's collections.
type Stats struct {
	Rules       int
	Inferences  int
	Perceptions int
}

// Stats returns the current collection counts.
func (l *Ledger) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{
		Rules:       len(l.registry.Rules()),
		Inferences:  len(l.inferences),
		Perceptions: len(l.perceptions),
	}
}

// errorText is the failure text recorded in an inference. Application
// errors contribute their message; everything else its Error() string.
func errorText(err error) string {
	var e *percept.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
