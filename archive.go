package percept

import "context"

// ArticleWriter saves human-readable copies of extracted articles.
// The archive is a convenience for readers; it never participates in
// canonical encoding or hashing.
type ArticleWriter interface {
	// WriteArticle renders the article as plain text and saves it,
	// returning the path of the created file.
	WriteArticle(ctx context.Context, article *Article) (path string, err error)
}
