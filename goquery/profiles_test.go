package goquery_test

import (
	"testing"

	"github.com/fwojciec/percept/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBBCProfile(t *testing.T) {
	t.Parallel()

	profile := goquery.BBCProfile()

	require.NoError(t, profile.Validate())
	assert.Equal(t, "bbc", profile.Name)
	assert.Equal(t, "https://www.bbc.com", profile.BaseURL)
	assert.Equal(t, "BBC News", profile.DefaultAuthor)
	assert.Equal(t, []string{"main#main-content article", "article", "main"}, profile.ContentSelectors)
}
