package mock

import (
	"context"

	"github.com/fwojciec/percept"
)

var _ percept.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of percept.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *percept.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *percept.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
