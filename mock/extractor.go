package mock

import (
	"context"

	"github.com/fwojciec/percept"
)

var _ percept.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of percept.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, url string) (*percept.Article, error)
}

func (e *Extractor) Extract(ctx context.Context, url string) (*percept.Article, error) {
	return e.ExtractFn(ctx, url)
}
