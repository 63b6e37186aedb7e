package percept_test

import (
	"context"
	"testing"

	"github.com/fwojciec/percept"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockReviewer verifies the Reviewer interface can be implemented.
type mockReviewer struct {
	ReviewFn func(ctx context.Context, url string, article *percept.Article) (bool, error)
}

func (m *mockReviewer) Review(ctx context.Context, url string, article *percept.Article) (bool, error) {
	return m.ReviewFn(ctx, url, article)
}

// Compile-time check that mockReviewer implements Reviewer.
var _ percept.Reviewer = (*mockReviewer)(nil)

func TestReviewer_CanBeImplemented(t *testing.T) {
	t.Parallel()

	reviewer := &mockReviewer{
		ReviewFn: func(_ context.Context, url string, article *percept.Article) (bool, error) {
			return article.Headline != "", nil
		},
	}

	valid, err := reviewer.Review(context.Background(), "https://example.com/news/1",
		&percept.Article{Headline: "H"})

	require.NoError(t, err)
	assert.True(t, valid)
}
