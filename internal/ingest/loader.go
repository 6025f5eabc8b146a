// Package ingest loads the documents directory into text fragments.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/renovalabs/insightdocs/internal/models"
)

// Loader reads a documents directory and produces fragments for chunking.
type Loader struct {
	logger *zap.Logger
}

// NewLoader returns a loader. logger may be nil.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// LoadDirectory loads every direct child file of dir whose extension is
// recognized (.pdf, .csv, .txt, .xlsx) and returns the fragments in sorted
// filename order. Subdirectories are not traversed and files with other
// extensions are skipped silently. A loader failure on any recognized file
// aborts the whole ingestion; there is no per-file recovery.
func (l *Loader) LoadDirectory(dir string) ([]models.Fragment, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read documents directory: %w", err)
	}

	var fragments []models.Fragment
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		loaded, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, loaded...)
	}
	return fragments, nil
}

// LoadFile loads a single file according to its extension. Unrecognized
// extensions return no fragments and no error.
func (l *Loader) LoadFile(path string) ([]models.Fragment, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return loadPDF(path)
	case ".csv":
		return loadCSV(path)
	case ".txt":
		return loadPlain(path)
	case ".xlsx":
		return loadExcel(path)
	default:
		l.logger.Debug("skipping unsupported file", zap.String("path", path))
		return nil, nil
	}
}
