package main

import (
	"context"
	"io"

	"github.com/fwojciec/percept/crawl"
	"github.com/fwojciec/percept/ledger"
	"github.com/fwojciec/percept/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	DB       *sqlite.DB
	Ledger   *ledger.Ledger
	Pipeline *crawl.Pipeline
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Run      RunCmd      `cmd:"" help:"Extract articles from URLs and record the provenance ledger"`
	Perceive PerceiveCmd `cmd:"" help:"Record a manual judgment about an extracted object"`
	Rules    RulesCmd    `cmd:"" help:"Manage extraction rules"`
	Export   ExportCmd   `cmd:"" help:"Export the ledger in canonical form"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	URLs        []string `arg:"" optional:"" help:"Article URLs to process"`
	Sitemap     string   `help:"Discover URLs from this site's sitemap"`
	Filter      []string `short:"F" name:"filter" help:"Filter discovered URLs by regex (repeatable)"`
	Export      string   `default:"pcsi_records.txt" help:"Ledger export path"`
	SaveContent bool     `help:"Save readable copies of extracted articles"`
	OutputDir   string   `default:"extracted_articles" help:"Directory for readable copies"`
	Concurrency int      `short:"c" default:"1" help:"Concurrent extraction limit"`
	Browser     bool     `help:"Render pages in a headless browser"`
	Review      bool     `help:"Judge each extraction with Gemini before recording its perception"`
	DB          string   `help:"SQLite ledger path (default: $PERCEPT_DB or ~/.percept/percept.db)"`
	Verbose     bool     `short:"v" help:"Log operation detail to stderr"`
}

// PerceiveCmd is the "perceive" subcommand.
type PerceiveCmd struct {
	URL        string `arg:"" help:"Page URL the judgment refers to"`
	ObjectHash string `arg:"" help:"Content address of the judged object"`
	Valid      bool   `help:"Record the object as a faithful capture"`
	Invalid    bool   `help:"Record the object as a failed capture"`
	ObjectType string `default:"article" help:"Object type the hash refers to"`
}

// RulesCmd groups the rule management subcommands.
type RulesCmd struct {
	List RulesListCmd `cmd:"" help:"List registered extraction rules"`
	Add  RulesAddCmd  `cmd:"" help:"Register an extraction rule"`
}

// RulesListCmd is the "rules list" subcommand.
type RulesListCmd struct{}

// RulesAddCmd is the "rules add" subcommand.
type RulesAddCmd struct {
	Pattern    string `arg:"" help:"Regex the rule covers, matched from the start of the URL"`
	ScriptHash string `arg:"" help:"Content address of the extraction script"`
	ObjectType string `default:"article" help:"Object type the rule produces"`
	Script     string `help:"Script source to embed in the record"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Output string `short:"o" default:"pcsi_records.txt" help:"Export file path"`
}
