package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/percept"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// DefaultMaxPromptTokens bounds the rendered article handed to the
// model. The truncation cut is proportional rather than exact, so the
// budget sits well below the model's context window.
const DefaultMaxPromptTokens = 32768

// Ensure Reviewer implements percept.Reviewer at compile time.
var _ percept.Reviewer = (*Reviewer)(nil)

// Reviewer implements percept.Reviewer using Google Gemini. It renders
// the article as plain text, asks the model whether the extraction
// looks faithful, and reads a VALID/INVALID verdict from the reply.
type Reviewer struct {
	client    *genai.Client
	counter   percept.TokenCounter
	maxTokens int
}

// Option configures a Reviewer.
type Option func(*Reviewer)

// WithTokenCounter truncates over-budget articles before review.
// Without a counter the full rendering is sent as-is.
func WithTokenCounter(counter percept.TokenCounter) Option {
	return func(r *Reviewer) {
		r.counter = counter
	}
}

// WithMaxPromptTokens overrides DefaultMaxPromptTokens.
func WithMaxPromptTokens(n int) Option {
	return func(r *Reviewer) {
		r.maxTokens = n
	}
}

// NewReviewer creates a new Reviewer.
func NewReviewer(client *genai.Client, opts ...Option) *Reviewer {
	r := &Reviewer{client: client, maxTokens: DefaultMaxPromptTokens}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Review judges whether the article is a faithful extraction of the page
// at the given URL.
func (r *Reviewer) Review(ctx context.Context, url string, article *percept.Article) (bool, error) {
	if url == "" {
		return false, percept.Errorf(percept.EINVALID, "url required")
	}
	if article == nil {
		return false, percept.Errorf(percept.EINVALID, "article required")
	}

	rendered := percept.FormatArticle(article)
	if r.counter != nil {
		truncated, err := Truncate(ctx, r.counter, rendered, r.maxTokens)
		if err != nil {
			return false, err
		}
		rendered = truncated
	}

	prompt := BuildUserPrompt(url, rendered)
	config := BuildConfig()

	result, err := r.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return false, err
	}
	if result == nil {
		return false, percept.Errorf(percept.EINTERNAL, "gemini returned nil result")
	}

	return ParseVerdict(result.Text())
}

// BuildConfig returns the GenerateContentConfig for review calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are reviewing automated article extraction. Judge whether the extracted article is a faithful capture of a news story: a real headline, a plausible author and date, and body text that reads as article prose rather than navigation menus, cookie banners, subscription prompts, or error pages. Reply with a single word: VALID or INVALID.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing the source URL and
// the rendered article.
func BuildUserPrompt(url, rendered string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<source>%s</source>\n\n", url)
	sb.WriteString("<article>\n")
	sb.WriteString(rendered)
	sb.WriteString("\n</article>\n\n")
	sb.WriteString("Is this a faithful extraction of the article at the source URL?")
	return sb.String()
}

// ParseVerdict reads the model's judgment from its reply. INVALID is
// matched first because VALID is a substring of it.
func ParseVerdict(answer string) (bool, error) {
	verdict := strings.ToUpper(answer)
	switch {
	case strings.Contains(verdict, "INVALID"):
		return false, nil
	case strings.Contains(verdict, "VALID"):
		return true, nil
	}
	return false, percept.Errorf(percept.EINTERNAL, "unrecognized verdict %q", answer)
}

// Truncate cuts text down to roughly maxTokens tokens, scaling the byte
// length by the budget's share of the measured count.
func Truncate(ctx context.Context, counter percept.TokenCounter, text string, maxTokens int) (string, error) {
	count, err := counter.CountTokens(ctx, text)
	if err != nil {
		return "", err
	}
	if count <= maxTokens {
		return text, nil
	}

	keep := len(text) * maxTokens / count
	for keep > 0 && !utf8.RuneStart(text[keep]) {
		keep--
	}
	return text[:keep] + "\n[article truncated for review]", nil
}
