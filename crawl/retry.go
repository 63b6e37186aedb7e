package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/percept"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Compile-time interface verification.
var _ percept.Fetcher = (*RetryFetcher)(nil)

// RetryFetcher wraps a Fetcher with exponential backoff. Transient
// transport errors are retried before the extractor ever sees them, so
// the ledger still records exactly one inference per processed URL.
type RetryFetcher struct {
	fetcher percept.Fetcher
	delays  []time.Duration
	logf    LogFunc
}

// RetryOption configures a RetryFetcher.
type RetryOption func(*RetryFetcher)

// WithRetryDelays overrides DefaultRetryDelays. Tests pass zero delays
// to avoid waiting.
func WithRetryDelays(delays []time.Duration) RetryOption {
	return func(f *RetryFetcher) {
		f.delays = delays
	}
}

// WithLogFunc logs each retry attempt.
func WithLogFunc(logf LogFunc) RetryOption {
	return func(f *RetryFetcher) {
		f.logf = logf
	}
}

// NewRetryFetcher creates a retrying wrapper around fetcher.
func NewRetryFetcher(fetcher percept.Fetcher, opts ...RetryOption) *RetryFetcher {
	f := &RetryFetcher{
		fetcher: fetcher,
		delays:  DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch attempts the fetch up to len(delays)+1 times, backing off
// between attempts.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	maxAttempts := len(f.delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := f.fetcher.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		// Check context before sleeping
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		if f.logf != nil {
			f.logf("  retry %s (attempt %d): %v", url, attempt+2, err)
		}

		// Wait before next attempt
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.delays[attempt]):
		}
	}

	return "", lastErr
}

// Close closes the wrapped fetcher.
func (f *RetryFetcher) Close() error {
	return f.fetcher.Close()
}
