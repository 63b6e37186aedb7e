package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/percept"
	"github.com/fwojciec/percept/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		article *percept.Article
		want    string
	}{
		{
			name:    "timestamp and headline with underscores",
			article: &percept.Article{Headline: "Quakes shake the capital", Date: 1700000000},
			want:    "1700000000_Quakes_shake_the_capital.txt",
		},
		{
			name:    "long headline truncated to 30 characters",
			article: &percept.Article{Headline: strings.Repeat("abcde ", 10), Date: 1},
			want:    "1_abcde_abcde_abcde_abcde_abcde.txt",
		},
		{
			name:    "truncation counts characters, not bytes",
			article: &percept.Article{Headline: strings.Repeat("é", 35), Date: 1},
			want:    "1_" + strings.Repeat("é", 30) + ".txt",
		},
		{
			name:    "empty headline",
			article: &percept.Article{Headline: "", Date: 2},
			want:    "2_.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, fs.ArticleFilename(tt.article))
		})
	}
}

func TestWriter_WriteArticle(t *testing.T) {
	t.Parallel()

	t.Run("writes the rendered article and returns its path", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := fs.NewWriter(dir)
		article := &percept.Article{
			Headline: "Quakes shake the capital",
			Date:     1700000000,
			Author:   "A. Reporter",
			Body: percept.Body{Elements: []percept.Element{
				percept.Paragraph{Content: []percept.Inline{percept.Text("Buildings swayed.")}},
			}},
		}

		path, err := w.WriteArticle(context.Background(), article)

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "1700000000_Quakes_shake_the_capital.txt"), path)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, percept.FormatArticle(article), string(content))
	})

	t.Run("creates the output directory when missing", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "extracted_articles")
		w := fs.NewWriter(dir)

		path, err := w.WriteArticle(context.Background(), &percept.Article{Headline: "H", Date: 1})

		require.NoError(t, err)
		assert.FileExists(t, path)
	})

	t.Run("overwrites a previous copy of the same article", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := fs.NewWriter(dir)
		article := &percept.Article{Headline: "H", Date: 1, Author: "First"}

		_, err := w.WriteArticle(context.Background(), article)
		require.NoError(t, err)

		article.Author = "Second"
		path, err := w.WriteArticle(context.Background(), article)
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "Author: Second")
	})
}
