// Package ingest loads a tabular sales export (CSV or XLSX) into a raw
// domain.Table. Structural failures surface as ErrUnreadableFile before any
// normalization starts; ingest itself applies no cleaning beyond BOM
// stripping, so the pipeline stages stay independently testable.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"retailpulse/pkg/contracts/domain"
)

// ErrUnreadableFile indicates the upload could not be parsed as tabular data.
var ErrUnreadableFile = errors.New("unreadable file")

// Loader reads tabular files into raw tables.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger falls back to the default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "ingest"))}
}

// Load reads the file at path, dispatching on its extension.
func (l *Loader) Load(path string) (domain.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer file.Close()

	return l.LoadReader(file, filepath.Base(path))
}

// LoadReader reads tabular data from r, dispatching on the extension of the
// original filename. Only .csv and .xlsx uploads are accepted.
func (l *Loader) LoadReader(r io.Reader, filename string) (domain.Table, error) {
	var (
		table domain.Table
		err   error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		table, err = l.loadCSV(r)
	case ".xlsx":
		table, err = l.loadXLSX(r)
	default:
		return domain.Table{}, fmt.Errorf("%w: unsupported file type %q (expected .csv or .xlsx)", ErrUnreadableFile, filepath.Ext(filename))
	}
	if err != nil {
		l.logger.Warn("failed to load tabular file",
			slog.String("filename", filename),
			slog.String("error", err.Error()))
		return domain.Table{}, err
	}

	l.logger.Info("tabular file loaded",
		slog.String("filename", filename),
		slog.Int("columns", len(table.Headers)),
		slog.Int("rows", len(table.Rows)))

	return table, nil
}
