package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/percept/crawl"
	"github.com/fwojciec/percept/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	return exportLedger(deps, c.Output)
}

// countingWriter tracks bytes written through it.
type countingWriter struct {
	w io.Writer
	n int
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += n
	return n, err
}

// exportLedger writes the full ledger in canonical form to path,
// replacing any previous export, and prints a one-line summary.
func exportLedger(deps *Dependencies, path string) error {
	stats := deps.Ledger.Stats()
	total := stats.Rules + stats.Inferences + stats.Perceptions

	file := fs.NewExportFile(path)
	cw := &countingWriter{}
	err := file.Write(func(w io.Writer) error {
		cw.w = w
		return deps.Ledger.Export(cw)
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to write export: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %d records to %s (%s)\n", total, file.Path(), crawl.FormatBytes(cw.n))
	return nil
}
