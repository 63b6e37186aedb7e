//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/percept"
	"github.com/fwojciec/percept/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newIntegrationReviewer(t *testing.T, ctx context.Context) *gemini.Reviewer {
	t.Helper()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	return gemini.NewReviewer(client)
}

func TestReviewer_Integration_AcceptsFaithfulArticle(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reviewer := newIntegrationReviewer(t, ctx)

	article := &percept.Article{
		Headline: "Earthquake shakes coastal city",
		Date:     time.Date(2024, time.March, 5, 11, 30, 0, 0, time.UTC).Unix(),
		Author:   "BBC News",
		Body: percept.Body{Elements: []percept.Element{
			percept.Paragraph{Content: []percept.Inline{
				percept.Text("A magnitude 5.8 earthquake struck the coastal city early on Tuesday, shaking buildings and sending residents into the streets."),
			}},
			percept.Paragraph{Content: []percept.Inline{
				percept.Text("Officials said there were no reports of serious injuries, though several older structures showed cracks."),
			}},
		}},
	}

	valid, err := reviewer.Review(ctx, "https://www.bbc.com/news/quake-coastal-city", article)

	require.NoError(t, err)
	assert.True(t, valid)
}

func TestReviewer_Integration_RejectsBoilerplateArticle(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reviewer := newIntegrationReviewer(t, ctx)

	article := &percept.Article{
		Headline: "Accept all cookies",
		Date:     time.Date(2024, time.March, 5, 11, 30, 0, 0, time.UTC).Unix(),
		Author:   "BBC News",
		Body: percept.Body{Elements: []percept.Element{
			percept.Paragraph{Content: []percept.Inline{
				percept.Text("We use cookies to personalise content and ads. Manage preferences. Sign in. Home. News. Sport. Weather."),
			}},
		}},
	}

	valid, err := reviewer.Review(ctx, "https://www.bbc.com/news/quake-coastal-city", article)

	require.NoError(t, err)
	assert.False(t, valid)
}
