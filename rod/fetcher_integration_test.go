//go:build integration

package rod_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/percept/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Integration_BBCNews(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(45 * time.Second))
	require.NoError(t, err)
	defer fetcher.Close()

	html, err := fetcher.Fetch(ctx, "https://www.bbc.com/news")
	require.NoError(t, err)
	assert.NotEmpty(t, html, "expected non-empty HTML response")

	// Verify HTML document structure
	lower := strings.ToLower(strings.TrimSpace(html))
	assert.True(t, strings.HasPrefix(lower, "<!doctype html>") || strings.HasPrefix(lower, "<html"),
		"expected valid HTML document start")
	assert.Contains(t, html, "</html>", "expected closing html tag")

	// The news front page carries article teasers only after rendering
	assert.Contains(t, html, "bbc", "expected site content in rendered page")
}
