package main

import (
	"fmt"
	"regexp"

	"github.com/fwojciec/percept"
	"github.com/fwojciec/percept/crawl"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	if len(c.URLs) == 0 && c.Sitemap == "" {
		fmt.Fprintf(deps.Stderr, "error: nothing to process; pass article URLs or --sitemap\n")
		return percept.Errorf(percept.EINVALID, "nothing to process")
	}

	// Compile filters to URLFilter (validates regex patterns early)
	var urlFilter *percept.URLFilter
	if len(c.Filter) > 0 {
		urlFilter = &percept.URLFilter{}
		for _, pattern := range c.Filter {
			re, err := regexp.Compile(pattern)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: invalid filter pattern %q: %v\n", pattern, err)
				return err
			}
			urlFilter.Include = append(urlFilter.Include, re)
		}
	}

	urls, err := deps.Pipeline.GatherURLs(deps.Ctx, c.URLs, c.Sitemap, urlFilter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", percept.ErrorMessage(err))
		return err
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Processing %d URLs\n", event.Total)
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "\r  [%d/%d] %s", event.Completed, event.Total, crawl.TruncateURL(event.URL, 60))
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  fail %s: %v\n", event.URL, event.Error)
		case crawl.ProgressSkipped:
			fmt.Fprintf(deps.Stderr, "  skip duplicate %s\n", event.URL)
		case crawl.ProgressFinished:
			if event.Total > 0 {
				fmt.Fprintln(deps.Stdout)
			}
		}
	}

	result, err := deps.Pipeline.Run(deps.Ctx, urls, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Extracted %d/%d articles (%d failed, %d duplicates)\n",
		result.Extracted, result.Processed, result.Failed, result.Duplicates)
	if c.SaveContent {
		fmt.Fprintf(deps.Stdout, "Saved %d readable copies to %s\n", result.Archived, c.OutputDir)
	}
	if result.ReviewFailures > 0 {
		fmt.Fprintf(deps.Stderr, "  %d reviews failed; their perceptions default to valid\n", result.ReviewFailures)
	}

	stats := deps.Ledger.Stats()
	fmt.Fprintf(deps.Stdout, "Ledger: %d rules, %d inferences, %d perceptions\n",
		stats.Rules, stats.Inferences, stats.Perceptions)

	return exportLedger(deps, c.Export)
}
