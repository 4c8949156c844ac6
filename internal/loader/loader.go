// Package loader reads raw course material (PDF pages, PPTX slides, DOCX,
// markdown and plain text) into ordered page-level units with provenance.
package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/slidetutor/slidetutor/internal/corpus"
)

// Loader scans a directory of raw documents and produces page units.
type Loader struct {
	logger *slog.Logger
}

// New creates a Loader. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// SupportedExtensions lists the file types the loader understands.
var SupportedExtensions = []string{".pdf", ".pptx", ".docx", ".md", ".txt"}

// IsSupported reports whether the filename has a loadable extension.
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Load reads every supported file under dir, in lexicographic filename
// order so downstream chunk numbering is reproducible. A file that yields
// no extractable text contributes nothing; an unreadable file aborts the
// whole load.
func (l *Loader) Load(dir string) ([]corpus.PageUnit, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read source dir: %w", err)
	}

	var units []corpus.PageUnit
	for _, entry := range entries {
		if entry.IsDir() || !IsSupported(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		fileUnits, err := l.loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", entry.Name(), err)
		}
		l.logger.Info("loaded source file", "file", entry.Name(), "units", len(fileUnits))
		units = append(units, fileUnits...)
	}
	return units, nil
}

func (l *Loader) loadFile(path string) ([]corpus.PageUnit, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return loadPDF(path)
	case ".pptx":
		return loadPPTX(path)
	case ".docx":
		return loadDOCX(path)
	case ".md":
		return loadMarkdown(path)
	case ".txt":
		return loadText(path)
	}
	return nil, nil
}

// loadText reads a plain-text file as a single page unit.
func loadText(path string) ([]corpus.PageUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return nil, nil
	}
	return []corpus.PageUnit{{
		Content:  content,
		Source:   filepath.Base(path),
		Position: 1,
	}}, nil
}
