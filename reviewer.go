package percept

import "context"

// Reviewer judges whether an extracted article is a faithful rendering
// of its source page. Judgments feed the ledger as perceptions.
type Reviewer interface {
	// Review returns true when the article looks like a valid
	// extraction for the URL.
	Review(ctx context.Context, url string, article *Article) (bool, error)
}
