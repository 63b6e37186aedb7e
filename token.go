package percept

import "context"

// TokenCounter counts model tokens in text. Reviewers use it to keep
// rendered articles within a model's prompt budget.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
