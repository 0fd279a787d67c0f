package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileWriter renders one collection into a file, for setups that ship
// metrics through the node_exporter textfile collector instead of scraping
// over HTTP.
type FileWriter struct {
	exporter *Exporter
	path     string
	parent   string
}

// NewFileWriter writes to path on each Export. The path's parent directory
// must exist; the CLI validates that before we get here.
func NewFileWriter(exporter *Exporter, path string) *FileWriter {
	return &FileWriter{
		exporter: exporter,
		path:     path,
		parent:   filepath.Dir(path),
	}
}

// Export collects once and atomically replaces the output file. The
// temporary file lives in the target's directory because a rename cannot
// cross filesystems.
func (w *FileWriter) Export(ctx context.Context) error {
	payload, err := w.exporter.Export(ctx)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(w.parent, ".jailmon-*")
	if err != nil {
		return fmt.Errorf("creating temporary file in %q: %w", w.parent, err)
	}

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %q: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing %q: %w", tmp.Name(), err)
	}

	// Readable by the scraper that picks the file up, not just by us.
	if err := os.Chmod(tmp.Name(), 0644); err != nil { //nolint:gomnd
		os.Remove(tmp.Name())
		return fmt.Errorf("setting mode of %q: %w", tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), w.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("renaming %q to %q: %w", tmp.Name(), w.path, err)
	}
	return nil
}
