package pipeline

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"retailpulse/pkg/contracts/domain"
)

// defaultCategory fills a missing Category field.
const defaultCategory = "Uncategorized"

// orderDateLayouts are the accepted Order Date formats, tried in order.
// The exports mix ISO dates with US-style, day-first, and spelled-out month
// forms. Month-first layouts come before their day-first counterparts, so an
// ambiguous value like 01-02-2023 reads as January 2; day-first layouts only
// catch values the US forms reject (day > 12).
var orderDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"02/01/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// NormalizeStats reports what the normalizer did to the raw table.
type NormalizeStats struct {
	InputRows    int
	RetainedRows int
	DroppedRows  int
}

// Normalizer repairs column names, applies the fill rules, parses currency
// amounts, and filters rows without a parseable order date.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer. A nil logger falls back to the default.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger.With(slog.String("component", "normalizer"))}
}

// Normalize turns the raw table into typed sales records.
//
// Headers are trimmed before any column lookup. Missing Category defaults to
// "Uncategorized" and missing Sales Per to 0; Profit has no fill rule, so an
// empty Profit cell fails amount parsing and aborts the run. Rows whose
// Order Date cannot be parsed are dropped silently and only counted.
// Surviving rows keep their input order.
func (n *Normalizer) Normalize(table domain.Table) ([]domain.SalesRecord, NormalizeStats, error) {
	table = table.TrimHeaders()

	cols, err := requireColumns(table)
	if err != nil {
		return nil, NormalizeStats{}, err
	}

	stats := NormalizeStats{InputRows: len(table.Rows)}
	records := make([]domain.SalesRecord, 0, len(table.Rows))

	for i, row := range table.Rows {
		category := strings.TrimSpace(table.Cell(row, cols[domain.ColCategory]))
		if category == "" {
			category = defaultCategory
		}

		salesPer := strings.TrimSpace(table.Cell(row, cols[domain.ColSalesPer]))
		if salesPer == "" {
			salesPer = "0"
		}
		sales, err := ParseAmount(salesPer)
		if err != nil {
			return nil, NormalizeStats{}, fmt.Errorf("row %d, column %q: %w", i+1, domain.ColSalesPer, err)
		}

		profit, err := ParseAmount(table.Cell(row, cols[domain.ColProfit]))
		if err != nil {
			return nil, NormalizeStats{}, fmt.Errorf("row %d, column %q: %w", i+1, domain.ColProfit, err)
		}

		orderDate, ok := parseOrderDate(table.Cell(row, cols[domain.ColOrderDate]))
		if !ok {
			stats.DroppedRows++
			continue
		}

		records = append(records, domain.SalesRecord{
			OrderDate:  orderDate,
			Category:   category,
			SalesPer:   sales,
			Profit:     profit,
			Segment:    strings.TrimSpace(table.Cell(row, cols[domain.ColSegment])),
			State:      strings.TrimSpace(table.Cell(row, cols[domain.ColState])),
			Quantity:   parseQuantity(table.Cell(row, cols[domain.ColQuantity])),
			OrderID:    strings.TrimSpace(table.Cell(row, cols[domain.ColOrderID])),
			CustomerID: strings.TrimSpace(table.Cell(row, cols[domain.ColCustomerID])),
		})
	}

	stats.RetainedRows = len(records)

	n.logger.Info("table normalized",
		slog.Int("input_rows", stats.InputRows),
		slog.Int("retained_rows", stats.RetainedRows),
		slog.Int("dropped_rows", stats.DroppedRows))

	return records, stats, nil
}

// requireColumns resolves every required column index, collecting the names
// of all absent columns into one error so the operator sees them at once.
func requireColumns(table domain.Table) (map[string]int, error) {
	cols := make(map[string]int, len(domain.RequiredColumns))
	var missing []string
	for _, name := range domain.RequiredColumns {
		idx := table.Column(name)
		if idx < 0 {
			missing = append(missing, name)
			continue
		}
		cols[name] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

// parseOrderDate tries each accepted layout. The boolean reports success;
// failure is a filtering signal, not an error.
func parseOrderDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseQuantity reads the Quantity cell leniently. The field only feeds the
// items-sold aggregate, so a blank or malformed cell contributes 0 instead
// of failing the row.
func parseQuantity(value string) int64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if cleaned == "" {
		return 0
	}
	if q, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
		return q
	}
	if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return int64(f)
	}
	return 0
}
