// Package output persists the rendered document: exactly one of the
// file writer or the stdout writer runs per invocation.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"marketbrief/internal/domain"
)

// FileWriter writes the document to a fixed path, creating parent
// directories and overwriting any existing file.
type FileWriter struct {
	path string
}

func NewFileWriter(path string) *FileWriter {
	return &FileWriter{path: path}
}

func (w *FileWriter) Write(doc string) error {
	if dir := filepath.Dir(w.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w: %w", domain.ErrWrite, err)
		}
	}
	if err := os.WriteFile(w.path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write %s: %w: %w", w.path, domain.ErrWrite, err)
	}
	return nil
}

// StdoutWriter writes the document to a stream, stdout in the CLI.
type StdoutWriter struct {
	Out io.Writer
}

func (w *StdoutWriter) Write(doc string) error {
	if _, err := io.WriteString(w.Out, doc); err != nil {
		return fmt.Errorf("write stdout: %w: %w", domain.ErrWrite, err)
	}
	return nil
}
