package mock

import (
	"context"

	"github.com/fwojciec/percept"
)

var _ percept.Reviewer = (*Reviewer)(nil)

// Reviewer is a mock implementation of percept.Reviewer.
type Reviewer struct {
	ReviewFn func(ctx context.Context, url string, article *percept.Article) (bool, error)
}

func (r *Reviewer) Review(ctx context.Context, url string, article *percept.Article) (bool, error) {
	return r.ReviewFn(ctx, url, article)
}
