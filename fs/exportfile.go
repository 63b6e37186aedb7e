package fs

import (
	"io"
	"os"
	"path/filepath"
)

// ExportFile writes ledger exports with atomic replace semantics.
// The export streams to a temporary sibling file that is renamed over
// the final path, so readers never observe a partially written export
// and a failed export leaves the previous one intact.
type ExportFile struct {
	path string
}

// NewExportFile creates an ExportFile targeting the given path.
func NewExportFile(path string) *ExportFile {
	return &ExportFile{path: path}
}

// Path returns the final export path.
func (f *ExportFile) Path() string {
	return f.path
}

func (f *ExportFile) tempPath() string {
	return f.path + ".tmp"
}

// Write streams an export to the temporary file and moves it into
// place. The export function receives the file as its writer; any
// error it returns aborts the write and removes the temporary file.
func (f *ExportFile) Write(export func(w io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}

	tmp, err := os.Create(f.tempPath())
	if err != nil {
		return err
	}

	if err := export(tmp); err != nil {
		tmp.Close()
		os.Remove(f.tempPath())
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(f.tempPath())
		return err
	}

	return os.Rename(f.tempPath(), f.path)
}
