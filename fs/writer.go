// Package fs provides file-based output for extracted articles and
// ledger exports.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fwojciec/percept"
)

// ArticleFilename derives the archive filename for an article:
// the publication timestamp followed by the first 30 characters of the
// headline, spaces replaced with underscores.
// Example: 1700000000_Quakes_shake_the_capital.txt
func ArticleFilename(a *percept.Article) string {
	headline := a.Headline
	if runes := []rune(headline); len(runes) > 30 {
		headline = string(runes[:30])
	}
	headline = strings.ReplaceAll(headline, " ", "_")
	return strconv.FormatInt(a.Date, 10) + "_" + headline + ".txt"
}

// Ensure Writer implements percept.ArticleWriter at compile time.
var _ percept.ArticleWriter = (*Writer)(nil)

// Writer saves human-readable article copies to a directory. The files
// are for readers only; canonical encoding and hashing never touch
// them.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteArticle renders the article as plain text and saves it,
// returning the path of the created file. An article with the same
// date and headline overwrites the previous copy.
func (w *Writer) WriteArticle(ctx context.Context, article *percept.Article) (string, error) {
	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(w.baseDir, ArticleFilename(article))
	content := percept.FormatArticle(article)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}

	return path, nil
}
