package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/percept"
	"github.com/fwojciec/percept/crawl"
	"github.com/fwojciec/percept/fs"
	"github.com/fwojciec/percept/gemini"
	"github.com/fwojciec/percept/goquery"
	"github.com/fwojciec/percept/htmltomarkdown"
	percepthttp "github.com/fwojciec/percept/http"
	"github.com/fwojciec/percept/ledger"
	"github.com/fwojciec/percept/rod"
	perceptslog "github.com/fwojciec/percept/slog"
	"github.com/fwojciec/percept/sqlite"
	"github.com/fwojciec/percept/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database backing the record store.
	DB *sqlite.DB

	// Ledger assembled by Run; exposed for end-to-end testing.
	Ledger *ledger.Ledger

	// Extractor overrides the fetch-and-parse chain when set.
	// Tests inject mocks here; Run wires the real chain otherwise.
	Extractor percept.Extractor

	// Sitemaps overrides sitemap discovery when set.
	Sitemaps percept.SitemapService

	// Reviewer overrides the Gemini reviewer when set.
	Reviewer percept.Reviewer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("percept"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'percept --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.Run.DB != "" {
		m.DBPath = cli.Run.DB
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set PERCEPT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Every command works against the store-backed ledger; resume
	// whatever records a previous run left behind.
	records := sqlite.NewRecordService(m.DB)
	m.Ledger = ledger.New(ledger.WithStore(records))
	if err := m.Ledger.Load(ctx); err != nil {
		return fmt.Errorf("failed to load ledger from %q: %w", m.DBPath, err)
	}
	deps.DB = m.DB
	deps.Ledger = m.Ledger

	// Wire the extraction pipeline for the run command
	if cmd == "run" {
		var logger *slog.Logger
		if cli.Run.Verbose {
			logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}

		sitemaps := m.Sitemaps
		if sitemaps == nil {
			sitemaps = percepthttp.NewSitemapService(nil)
		}
		if logger != nil {
			sitemaps = perceptslog.NewLoggingSitemapService(sitemaps, logger)
		}

		extractor := m.Extractor
		if extractor == nil {
			var fetcher percept.Fetcher
			if cli.Run.Browser {
				f, err := rod.NewFetcher()
				if err != nil {
					fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
					return fmt.Errorf("failed to start browser: %w", err)
				}
				fetcher = f
			} else {
				fetcher = percepthttp.NewFetcher()
			}
			fetcher = crawl.NewRetryFetcher(fetcher, crawl.WithLogFunc(func(format string, args ...any) {
				fmt.Fprintf(stderr, format+"\n", args...)
			}))
			if logger != nil {
				fetcher = perceptslog.NewLoggingFetcher(fetcher, logger)
			}
			defer fetcher.Close()

			site, err := goquery.NewExtractor(goquery.BBCProfile(), fetcher)
			if err != nil {
				return fmt.Errorf("failed to build site extractor: %w", err)
			}
			router := percept.NewExtractorRouter(trafilatura.NewExtractor(fetcher, htmltomarkdown.NewConverter()))
			router.Bind("bbc.com", site)
			router.Bind("bbc.co.uk", site)
			extractor = router
		}
		if logger != nil {
			extractor = perceptslog.NewLoggingExtractor(extractor, logger)
		}
		m.Ledger.BindExtractor(percept.ObjectTypeArticle, extractor)

		pipeline := &crawl.Pipeline{
			Ledger:   m.Ledger,
			Sitemaps: sitemaps,
			// One request per second per domain keeps batch runs polite.
			Limiter:     crawl.NewDomainLimiter(1.0),
			Concurrency: cli.Run.Concurrency,
		}
		if cli.Run.SaveContent {
			pipeline.Archive = fs.NewWriter(cli.Run.OutputDir)
		}

		if cli.Run.Review {
			reviewer := m.Reviewer
			if reviewer == nil {
				apiKey := os.Getenv("GEMINI_API_KEY")
				if apiKey == "" {
					fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
					return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
				}

				client, err := genai.NewClient(ctx, &genai.ClientConfig{
					APIKey:  apiKey,
					Backend: genai.BackendGeminiAPI,
				})
				if err != nil {
					fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
					return fmt.Errorf("failed to connect to Gemini API: %w", err)
				}

				counter, err := gemini.NewTokenCounter(tokenizerModel)
				if err != nil {
					return fmt.Errorf("failed to create token counter: %w", err)
				}
				reviewer = gemini.NewReviewer(client, gemini.WithTokenCounter(counter))
			}
			if logger != nil {
				reviewer = perceptslog.NewLoggingReviewer(reviewer, logger)
			}
			pipeline.Reviewer = reviewer
		}

		deps.Pipeline = pipeline
	}

	return kongCtx.Run(deps)
}

// tokenizerModel is used for local token counting ahead of review
// calls. It must be a model google.golang.org/genai/tokenizer supports.
const tokenizerModel = "gemini-2.5-flash"

func defaultDBPath() string {
	if path := os.Getenv("PERCEPT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "percept.db"
	}
	dir := filepath.Join(home, ".percept")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "percept.db")
}
