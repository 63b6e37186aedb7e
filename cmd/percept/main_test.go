package main_test

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/percept"
	main "github.com/fwojciec/percept/cmd/percept"
	"github.com/fwojciec/percept/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testContext returns a background context for tests.
func testContext() context.Context {
	return context.Background()
}

// newTestMain returns a Main wired to a fresh temp database.
func newTestMain(t *testing.T) *main.Main {
	t.Helper()
	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "percept.db")
	return m
}

// storyExtractor fabricates one distinct article per URL. The headline
// derives from the URL's last path segment so no two pages share
// content and archive filenames stay path-safe.
func storyExtractor() *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(_ context.Context, url string) (*percept.Article, error) {
			return &percept.Article{
				Headline: "Story " + path.Base(url),
				Date:     1700000000,
				Author:   "Staff",
				Body: percept.Body{Elements: []percept.Element{
					percept.Paragraph{Content: []percept.Inline{
						percept.Text("Officials confirmed the tremor."),
					}},
				}},
			}, nil
		},
	}
}

func TestRunCommand(t *testing.T) {
	t.Parallel()

	t.Run("processes URLs and writes the canonical export", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		m.Extractor = storyExtractor()
		exportPath := filepath.Join(t.TempDir(), "records.txt")

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{
			"run",
			"https://news.example/news/quake-hits-city",
			"https://sport.example/sport/final-score",
			"--export", exportPath,
		}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Processing 2 URLs")
		assert.Contains(t, stdout.String(), "Extracted 2/2 articles (0 failed, 0 duplicates)")
		assert.Contains(t, stdout.String(), "Ledger: 2 rules, 2 inferences, 2 perceptions")
		assert.Contains(t, stdout.String(), "Wrote 6 records to "+exportPath)

		content, err := os.ReadFile(exportPath)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
		require.Len(t, lines, 6)
		assert.True(t, strings.HasPrefix(lines[0], "(4:rule"))
		assert.True(t, strings.HasPrefix(lines[1], "(4:rule"))
		assert.True(t, strings.HasPrefix(lines[2], "(9:inference"))
		assert.True(t, strings.HasPrefix(lines[3], "(9:inference"))
		assert.True(t, strings.HasPrefix(lines[4], "(10:perception"))
		assert.True(t, strings.HasPrefix(lines[5], "(10:perception"))

		// Synthesized rules carry the placeholder script hash, and both
		// extractions succeeded so their perceptions record valid.
		assert.Contains(t, string(content), "|"+percept.PlaceholderScriptHash+"|")
		assert.Contains(t, string(content), "(5:valid1:1)")
	})

	t.Run("skips duplicate input URLs", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		m.Extractor = storyExtractor()
		exportPath := filepath.Join(t.TempDir(), "records.txt")

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{
			"run",
			"https://news.example/news/quake-hits-city",
			"https://news.example/news/quake-hits-city",
			"--export", exportPath,
		}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Processing 1 URLs")
		assert.Contains(t, stderr.String(), "skip duplicate https://news.example/news/quake-hits-city")
		assert.Contains(t, stdout.String(), "Ledger: 1 rules, 1 inferences, 1 perceptions")
	})

	t.Run("counts URLs no rule covers as failures", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		m.Extractor = storyExtractor()
		exportPath := filepath.Join(t.TempDir(), "records.txt")

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{
			"run",
			"https://example.com/about",
			"--export", exportPath,
		}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Extracted 0/1 articles (1 failed, 0 duplicates)")
		assert.Contains(t, stdout.String(), "Ledger: 0 rules, 0 inferences, 0 perceptions")
		assert.Contains(t, stderr.String(), "fail https://example.com/about")
	})

	t.Run("saves readable copies with --save-content", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		m.Extractor = storyExtractor()
		tmp := t.TempDir()
		outputDir := filepath.Join(tmp, "articles")
		exportPath := filepath.Join(tmp, "records.txt")

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{
			"run",
			"https://news.example/news/quake-hits-city",
			"--save-content",
			"--output-dir", outputDir,
			"--export", exportPath,
		}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Saved 1 readable copies to "+outputDir)

		saved, err := os.ReadFile(filepath.Join(outputDir, "1700000000_Story_quake-hits-city.txt"))
		require.NoError(t, err)
		assert.Contains(t, string(saved), "Title: Story quake-hits-city")
		assert.Contains(t, string(saved), "Officials confirmed the tremor.")
	})

	t.Run("records the reviewer verdict with --review", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		m.Extractor = storyExtractor()
		m.Reviewer = &mock.Reviewer{
			ReviewFn: func(_ context.Context, _ string, _ *percept.Article) (bool, error) {
				return false, nil
			},
		}
		exportPath := filepath.Join(t.TempDir(), "records.txt")

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{
			"run",
			"https://news.example/news/quake-hits-city",
			"--review",
			"--export", exportPath,
		}, stdout, stderr)

		require.NoError(t, err)
		content, err := os.ReadFile(exportPath)
		require.NoError(t, err)
		assert.Contains(t, string(content), "(5:valid1:0)")
		assert.NotContains(t, string(content), "(5:valid1:1)")
	})

	t.Run("discovers URLs from a sitemap", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		m.Extractor = storyExtractor()
		m.Sitemaps = &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, baseURL string, _ *percept.URLFilter) ([]string, error) {
				assert.Equal(t, "https://news.example", baseURL)
				return []string{
					"https://news.example/news/quake-hits-city",
					"https://sport.example/sport/final-score",
				}, nil
			},
		}
		exportPath := filepath.Join(t.TempDir(), "records.txt")

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{
			"run",
			"--sitemap", "https://news.example",
			"--export", exportPath,
		}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Processing 2 URLs")
		assert.Contains(t, stdout.String(), "Extracted 2/2 articles")
	})

	t.Run("passes filters to sitemap discovery", func(t *testing.T) {
		t.Parallel()

		var receivedFilter *percept.URLFilter
		m := newTestMain(t)
		m.Extractor = storyExtractor()
		m.Sitemaps = &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string, filter *percept.URLFilter) ([]string, error) {
				receivedFilter = filter
				return []string{"https://news.example/news/quake-hits-city"}, nil
			},
		}
		exportPath := filepath.Join(t.TempDir(), "records.txt")

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{
			"run",
			"--sitemap", "https://news.example",
			"--filter", "/news/",
			"--export", exportPath,
		}, stdout, stderr)

		require.NoError(t, err)
		require.NotNil(t, receivedFilter)
		require.Len(t, receivedFilter.Include, 1)
		assert.Equal(t, "/news/", receivedFilter.Include[0].String())
	})

	t.Run("returns error for invalid filter regex", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		m.Extractor = storyExtractor()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{
			"run",
			"https://news.example/news/quake-hits-city",
			"--filter", "[invalid",
		}, stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "invalid filter pattern")
	})

	t.Run("returns error when nothing to process", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		m.Extractor = storyExtractor()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{"run"}, stdout, stderr)

		require.Error(t, err)
		assert.Equal(t, percept.EINVALID, percept.ErrorCode(err))
		assert.Contains(t, stderr.String(), "nothing to process")
	})
}

func TestRunCommand_ReviewRequiresAPIKey(t *testing.T) {
	// t.Setenv is incompatible with t.Parallel.
	t.Setenv("GEMINI_API_KEY", "")

	m := newTestMain(t)
	m.Extractor = storyExtractor()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(testContext(), []string{
		"run",
		"https://news.example/news/quake-hits-city",
		"--review",
	}, stdout, stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY not set")
	assert.Contains(t, stderr.String(), "aistudio.google.com")
}

func TestPerceiveCommand(t *testing.T) {
	t.Parallel()

	t.Run("records a judgment that export reproduces", func(t *testing.T) {
		t.Parallel()

		tmp := t.TempDir()
		dbPath := filepath.Join(tmp, "percept.db")

		m1 := main.NewMain()
		m1.DBPath = dbPath
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m1.Run(testContext(), []string{
			"perceive",
			"https://news.example/news/quake-hits-city",
			"b5SLN1hX0Ds6PFM8vsNsAI2mF6VhMzbMBFMDPS4vduk=",
			"--valid",
		}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Recorded valid perception for https://news.example/news/quake-hits-city")

		// A fresh process over the same database sees the perception.
		exportPath := filepath.Join(tmp, "records.txt")
		m2 := main.NewMain()
		m2.DBPath = dbPath
		stdout = &bytes.Buffer{}

		err = m2.Run(testContext(), []string{"export", "-o", exportPath}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Wrote 1 records to "+exportPath)

		content, err := os.ReadFile(exportPath)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(content), "(10:perception"))
		assert.Contains(t, string(content), "|b5SLN1hX0Ds6PFM8vsNsAI2mF6VhMzbMBFMDPS4vduk=|")
		assert.Contains(t, string(content), "(5:valid1:1)")
	})

	t.Run("records an invalid judgment", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{
			"perceive",
			"https://news.example/news/quake-hits-city",
			"b5SLN1hX0Ds6PFM8vsNsAI2mF6VhMzbMBFMDPS4vduk=",
			"--invalid",
		}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Recorded invalid perception")
	})

	t.Run("requires exactly one verdict flag", func(t *testing.T) {
		t.Parallel()

		for _, args := range [][]string{
			{"perceive", "https://news.example/news/q", "hash="},
			{"perceive", "https://news.example/news/q", "hash=", "--valid", "--invalid"},
		} {
			m := newTestMain(t)
			stdout := &bytes.Buffer{}
			stderr := &bytes.Buffer{}

			err := m.Run(testContext(), args, stdout, stderr)

			require.Error(t, err)
			assert.Equal(t, percept.EINVALID, percept.ErrorCode(err))
			assert.Contains(t, stderr.String(), "--valid or --invalid")
		}
	})
}

func TestRulesCommand(t *testing.T) {
	t.Parallel()

	t.Run("registered rules persist across invocations", func(t *testing.T) {
		t.Parallel()

		tmp := t.TempDir()
		dbPath := filepath.Join(tmp, "percept.db")

		m1 := main.NewMain()
		m1.DBPath = dbPath
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m1.Run(testContext(), []string{
			"rules", "add",
			`https://news\.example/news/.*`,
			"b5SLN1hX0Ds6PFM8vsNsAI2mF6VhMzbMBFMDPS4vduk=",
		}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Registered rule")

		m2 := main.NewMain()
		m2.DBPath = dbPath
		stdout = &bytes.Buffer{}

		err = m2.Run(testContext(), []string{"rules", "list"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `https://news\.example/news/.*`)
		assert.Contains(t, stdout.String(), "article")
	})

	t.Run("shows message when no rules registered", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{"rules", "list"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No rules registered")
	})

	t.Run("rejects patterns that do not compile", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{
			"rules", "add", "(unclosed", "hash=",
		}, stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}

func TestExportCommand(t *testing.T) {
	t.Parallel()

	t.Run("writes an empty export for an empty ledger", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		exportPath := filepath.Join(t.TempDir(), "records.txt")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{"export", "-o", exportPath}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Wrote 0 records to "+exportPath)

		content, err := os.ReadFile(exportPath)
		require.NoError(t, err)
		assert.Empty(t, content)
	})
}

func TestRun_NoArgs(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(testContext(), []string{}, stdout, stderr)

	// No args should show usage to stdout and return error
	require.Error(t, err)
	assert.Contains(t, stdout.String(), "Usage: percept")
}

func TestRun_HelpWithoutCreatingDB(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "should-not-exist.db")

	m := main.NewMain()
	m.DBPath = dbPath

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(testContext(), []string{"--help"}, stdout, stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Usage: percept")
	assert.Empty(t, stderr.String())

	// Verify database file was NOT created
	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr), "database file should not be created for --help")
}
