package mock

import (
	"context"

	"github.com/fwojciec/percept"
)

var _ percept.ArticleWriter = (*ArticleWriter)(nil)

// ArticleWriter is a mock implementation of percept.ArticleWriter.
type ArticleWriter struct {
	WriteArticleFn func(ctx context.Context, article *percept.Article) (string, error)
}

func (w *ArticleWriter) WriteArticle(ctx context.Context, article *percept.Article) (string, error) {
	return w.WriteArticleFn(ctx, article)
}
