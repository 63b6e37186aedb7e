package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/percept"
	"github.com/fwojciec/percept/mock"
	perceptslog "github.com/fwojciec/percept/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs extraction with headline and element count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Extractor{
			ExtractFn: func(ctx context.Context, url string) (*percept.Article, error) {
				return &percept.Article{
					Headline: "Quakes shake the capital",
					Date:     1700000000,
					Author:   "A. Reporter",
					Body: percept.Body{Elements: []percept.Element{
						percept.Paragraph{Content: []percept.Inline{percept.Text("Tremors.")}},
					}},
				}, nil
			},
		}

		ext := perceptslog.NewLoggingExtractor(inner, logger)
		article, err := ext.Extract(context.Background(), "https://news.example/quake")

		require.NoError(t, err)
		assert.Equal(t, "Quakes shake the capital", article.Headline)
		output := buf.String()
		assert.Contains(t, output, "extract")
		assert.Contains(t, output, "url=https://news.example/quake")
		assert.Contains(t, output, "headline=\"Quakes shake the capital\"")
		assert.Contains(t, output, "elements=1")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Extractor{
			ExtractFn: func(ctx context.Context, url string) (*percept.Article, error) {
				return nil, errors.New("missing headline element")
			},
		}

		ext := perceptslog.NewLoggingExtractor(inner, logger)
		_, err := ext.Extract(context.Background(), "https://news.example/broken")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "extract")
		assert.Contains(t, output, "err=\"missing headline element\"")
		assert.NotContains(t, output, "headline=")
	})
}
