// Package crawl provides batch perception runs. It feeds URL lists
// through a ledger's rule-to-inference pipeline with deduplication,
// per-domain rate limiting, and bounded concurrency, then appends a
// perception and an optional archive copy for every successful
// extraction.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"

	"github.com/fwojciec/percept"
	"github.com/fwojciec/percept/ledger"
	"golang.org/x/sync/errgroup"
)

// Pipeline orchestrates a batch run over a ledger. Ledger is required;
// the other collaborators are optional and an absent one disables its
// stage.
type Pipeline struct {
	Ledger      *ledger.Ledger
	Sitemaps    percept.SitemapService
	Limiter     percept.DomainLimiter
	Archive     percept.ArticleWriter
	Reviewer    percept.Reviewer
	Concurrency int
}

// Result holds the outcome of a batch run.
type Result struct {
	Processed      int // URLs handed to the ledger after deduplication
	Extracted      int // successful extractions
	Failed         int // recorded extraction failures and unmatched URLs
	Skipped        int // duplicate input URLs dropped before processing
	Duplicates     int // pages whose content matched an earlier page this run
	Archived       int // article copies written
	ReviewFailures int // reviews that errored and fell back to the default judgment
}

// ProgressEvent reports progress during a batch run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// runResult holds the outcome of processing a single URL.
type runResult struct {
	position  int
	url       string
	article   *percept.Article
	inference *percept.Inference
	err       error
}

// GatherURLs merges explicit URLs with sitemap discovery. Explicit URLs
// keep their positions ahead of discovered ones; Run's deduplication
// handles any overlap between the two sources.
func (p *Pipeline) GatherURLs(ctx context.Context, urls []string, sitemapURL string, filter *percept.URLFilter) ([]string, error) {
	out := make([]string, 0, len(urls))
	out = append(out, urls...)

	if sitemapURL != "" {
		if p.Sitemaps == nil {
			return nil, percept.Errorf(percept.EINVALID, "sitemap discovery requires a sitemap service")
		}
		discovered, err := p.Sitemaps.DiscoverURLs(ctx, sitemapURL, filter)
		if err != nil {
			return nil, fmt.Errorf("sitemap discovery: %w", err)
		}
		out = append(out, discovered...)
	}

	return out, nil
}

// Run processes the URLs in input order. Each deduplicated URL goes
// through the ledger exactly once; extraction failures are recorded
// there and counted, never returned. Run's error is reserved for
// ledger store and archive write failures.
func (p *Pipeline) Run(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	var res Result

	// Deduplicate preserving input order. Fragment-stripped duplicates
	// never reach the ledger.
	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	for _, raw := range urls {
		if !frontier.Push(raw) {
			res.Skipped++
			if progress != nil {
				progress(ProgressEvent{Type: ProgressSkipped, URL: raw})
			}
		}
	}

	var queue []string
	for {
		u, ok := frontier.Pop()
		if !ok {
			break
		}
		queue = append(queue, u)
	}
	res.Processed = len(queue)

	total := len(queue)
	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	resultCh := make(chan runResult, len(queue))
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range queue {
			g.Go(func() error {
				resultCh <- p.processURL(gctx, i, u)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect in completion order for live progress; results keep their
	// input positions so the sequential pass below is deterministic.
	results := make([]runResult, len(queue))
	for result := range resultCh {
		completed.Add(1)
		results[result.position] = result

		err := result.err
		if err == nil && result.inference != nil && result.inference.Failed() {
			err = errors.New(result.inference.Error)
		}

		if err != nil {
			res.Failed++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: int(completed.Load()),
					Total:     total,
					URL:       result.url,
					Error:     err,
				})
			}
		} else {
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressCompleted,
					Completed: int(completed.Load()),
					Total:     total,
					URL:       result.url,
				})
			}
		}
	}

	// Judge, record, and archive successes in input order. Perceptions
	// appended here land in the ledger in a stable order regardless of
	// worker scheduling.
	seen := make(map[uint64]bool)
	for _, result := range results {
		if result.err != nil || result.article == nil {
			continue
		}
		res.Extracted++

		if fp := fingerprint(result.article.Canonical()); seen[fp] {
			res.Duplicates++
		} else {
			seen[fp] = true
		}

		valid := true
		if p.Reviewer != nil {
			v, err := p.Reviewer.Review(ctx, result.url, result.article)
			if err != nil {
				res.ReviewFailures++
			} else {
				valid = v
			}
		}

		inf := result.inference
		if _, err := p.Ledger.AddPerception(ctx, result.url, inf.ObjectType, inf.ObjectHash, valid); err != nil {
			return nil, err
		}

		if p.Archive != nil {
			if _, err := p.Archive.WriteArticle(ctx, result.article); err != nil {
				return nil, fmt.Errorf("archive %s: %w", result.url, err)
			}
			res.Archived++
		}
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}

	return &res, nil
}

// processURL resolves one URL through the ledger.
func (p *Pipeline) processURL(ctx context.Context, position int, rawurl string) runResult {
	result := runResult{
		position: position,
		url:      rawurl,
	}

	if p.Limiter != nil {
		u, err := url.Parse(rawurl)
		if err != nil {
			result.err = percept.Errorf(percept.EINVALID, "invalid url %q: %s", rawurl, err)
			return result
		}
		if err := p.Limiter.Wait(ctx, u.Host); err != nil {
			result.err = err
			return result
		}
	}

	article, inf, err := p.Ledger.ProcessURL(ctx, rawurl)
	if err != nil {
		result.err = err
		return result
	}

	result.article = article
	result.inference = inf
	return result
}
