package domain

import (
	"strings"
	"time"
)

// Column names the pipeline references in the uploaded export.
// Lookups happen only after header trimming; matching is exact otherwise.
const (
	ColOrderDate  = "Order Date"
	ColCategory   = "Category"
	ColSalesPer   = "Sales Per"
	ColProfit     = "Profit"
	ColSegment    = "Segment"
	ColState      = "State"
	ColQuantity   = "Quantity"
	ColOrderID    = "Order ID"
	ColCustomerID = "Customer ID"
)

// RequiredColumns lists every column the pipeline reads from the raw table.
var RequiredColumns = []string{
	ColOrderDate,
	ColCategory,
	ColSalesPer,
	ColProfit,
	ColSegment,
	ColState,
	ColQuantity,
	ColOrderID,
	ColCustomerID,
}

// Table is the raw tabular upload as loaded from CSV or XLSX.
// All cells are strings; typing happens during normalization.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Column returns the index of the named column, or -1 when absent.
// Headers are expected to be trimmed by the loader.
func (t Table) Column(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the value of the named column in the given row.
// Short rows yield an empty string, matching how spreadsheet exports
// omit trailing empty cells.
func (t Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// TrimHeaders returns a copy of the table with every header trimmed.
// The row data is shared; headers are the only thing repaired here.
func (t Table) TrimHeaders() Table {
	headers := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		headers[i] = strings.TrimSpace(h)
	}
	return Table{Headers: headers, Rows: t.Rows}
}

// SalesRecord is a normalized row: valid date, parsed amounts, defaults applied.
type SalesRecord struct {
	OrderDate  time.Time
	Category   string
	SalesPer   float64
	Profit     float64
	Segment    string
	State      string
	Quantity   int64
	OrderID    string
	CustomerID string
}

// EnrichedRecord is the final per-row output unit carrying both currencies and
// the rate used. JSON field names are the stable contract with the rendering
// collaborator and must not change.
type EnrichedRecord struct {
	YearMonth  string  `json:"YearMonth"`
	Category   string  `json:"Category"`
	Segment    string  `json:"Segment"`
	State      string  `json:"State"`
	SalesINR   float64 `json:"Sales_INR"`
	SalesUSD   float64 `json:"Sales_USD"`
	ProfitINR  float64 `json:"Profit_INR"`
	ProfitUSD  float64 `json:"Profit_USD"`
	Quantity   int64   `json:"Quantity"`
	OrderID    string  `json:"Order ID"`
	CustomerID string  `json:"Customer ID"`
	IBRRate    float64 `json:"IBR_Rate"`
}

// Summary carries the headline statistics of one pipeline run so the
// rendering collaborator does not re-derive them.
type Summary struct {
	TotalRows      int       `json:"total_rows"`
	RetainedRows   int       `json:"retained_rows"`
	DroppedRows    int       `json:"dropped_rows"`
	TotalQuantity  int64     `json:"total_quantity"`
	DistinctOrders int       `json:"distinct_orders"`
	RunID          string    `json:"run_id"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// Result is the complete output of one pipeline run.
type Result struct {
	Records []EnrichedRecord `json:"records"`
	Summary Summary          `json:"summary"`
}

// Tail returns the last n enriched records in input order, mirroring the
// operator preview of the processed table.
func (r *Result) Tail(n int) []EnrichedRecord {
	if n <= 0 || len(r.Records) == 0 {
		return []EnrichedRecord{}
	}
	if n > len(r.Records) {
		n = len(r.Records)
	}
	return r.Records[len(r.Records)-n:]
}

// ReportOptions are the operator-tunable presentation options.
type ReportOptions struct {
	Title           string `json:"title" validate:"max=120"`
	DefaultCurrency string `json:"default_currency" validate:"omitempty,oneof=INR USD"`
}
