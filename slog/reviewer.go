package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/percept"
)

// Ensure LoggingReviewer implements percept.Reviewer.
var _ percept.Reviewer = (*LoggingReviewer)(nil)

// LoggingReviewer wraps a Reviewer with debug logging.
type LoggingReviewer struct {
	next   percept.Reviewer
	logger *slog.Logger
}

// NewLoggingReviewer creates a new LoggingReviewer.
func NewLoggingReviewer(next percept.Reviewer, logger *slog.Logger) *LoggingReviewer {
	return &LoggingReviewer{next: next, logger: logger}
}

// Review delegates to the wrapped reviewer and logs the verdict.
func (r *LoggingReviewer) Review(ctx context.Context, url string, article *percept.Article) (valid bool, err error) {
	defer func(begin time.Time) {
		r.logger.Info("review",
			"url", url,
			"valid", valid,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Review(ctx, url, article)
}
