// Package bloom provides probabilistic seen-URL tracking for batch runs.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// SeenFilter remembers which URLs a run has already queued. A false
// positive skips a URL as a duplicate; false negatives cannot happen,
// so no URL is queued twice.
type SeenFilter struct {
	f *bloom.BloomFilter
}

// NewSeenFilter creates a filter sized for n expected URLs with the
// given false positive rate.
func NewSeenFilter(n uint, fpRate float64) *SeenFilter {
	return &SeenFilter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Remember marks the URL as seen and reports whether it had been seen
// before.
func (f *SeenFilter) Remember(url string) bool {
	return f.f.TestAndAddString(url)
}

// Seen returns true if the URL might have been seen.
func (f *SeenFilter) Seen(url string) bool {
	return f.f.TestString(url)
}

// Count returns the approximate number of distinct URLs seen.
func (f *SeenFilter) Count() uint {
	return uint(f.f.ApproximatedSize())
}
