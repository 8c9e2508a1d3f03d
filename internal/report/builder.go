// Package report is the rendering collaborator of the pipeline. It packages
// an enriched record set and its summary into a standalone interactive HTML
// document. The core's contract with this package is the stable record field
// names and numeric JSON types; all charting logic lives in the document's
// own script.
package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"retailpulse/internal/errors"
	"retailpulse/pkg/contracts/domain"
)

//go:embed dashboard.html.tmpl
var dashboardTemplate string

// DocumentName is the suggested filename for the downloadable report.
const DocumentName = "retail_dashboard.html"

// Builder renders pipeline results into the dashboard document.
type Builder struct {
	tmpl   *template.Template
	logger *slog.Logger
}

// NewBuilder parses the embedded dashboard template.
func NewBuilder(logger *slog.Logger) (*Builder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tmpl, err := template.New("dashboard").Parse(dashboardTemplate)
	if err != nil {
		return nil, errors.NewRenderError("failed to parse dashboard template", err)
	}
	return &Builder{
		tmpl:   tmpl,
		logger: logger.With(slog.String("component", "report")),
	}, nil
}

// templateData is what the dashboard template consumes.
type templateData struct {
	Title           string
	DefaultCurrency string
	Records         template.JS
	Summary         domain.Summary
	ItemsSold       string
	GeneratedAt     string
}

// formatCount renders an integer with comma thousands separators for the
// KPI cards, e.g. 1234567 -> "1,234,567".
func formatCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	start := 0
	if s[0] == '-' {
		start = 1
	}
	var buf strings.Builder
	buf.WriteString(s[:start])
	for i, digits := start, len(s)-start; i < len(s); i++ {
		if i > start && (digits-(i-start))%3 == 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte(s[i])
	}
	return buf.String()
}

// Build renders the dashboard for one pipeline result. Options not set fall
// back to INR and the default title, matching the report's original defaults.
func (b *Builder) Build(result *domain.Result, opts domain.ReportOptions) ([]byte, error) {
	if opts.Title == "" {
		opts.Title = "Retail Performance Analytics"
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "INR"
	}

	records, err := json.Marshal(result.Records)
	if err != nil {
		return nil, errors.NewRenderError("failed to encode records", err)
	}

	var buf bytes.Buffer
	data := templateData{
		Title:           opts.Title,
		DefaultCurrency: opts.DefaultCurrency,
		Records:         template.JS(records),
		Summary:         result.Summary,
		ItemsSold:       formatCount(result.Summary.TotalQuantity),
		GeneratedAt:     result.Summary.GeneratedAt.Format("2006-01-02 15:04 MST"),
	}
	if err := b.tmpl.Execute(&buf, data); err != nil {
		return nil, errors.NewRenderError("failed to render dashboard", err)
	}

	b.logger.Info("dashboard rendered",
		slog.String("run_id", result.Summary.RunID),
		slog.Int("records", len(result.Records)),
		slog.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

// WriteFile renders the dashboard and writes it to path.
func (b *Builder) WriteFile(path string, result *domain.Result, opts domain.ReportOptions) error {
	doc, err := b.Build(result, opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
		}
	}
	if err := os.WriteFile(path, doc, 0644); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to write report to %s", path), err)
	}
	return nil
}
