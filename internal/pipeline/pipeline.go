package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"retailpulse/pkg/contracts/domain"
)

// Runner sequences the normalizer and the enricher over one uploaded table
// and aggregates the run statistics. Each call to Run is one isolated run;
// the runner itself holds no per-run state and is safe to share.
type Runner struct {
	normalizer *Normalizer
	enricher   *Enricher
	logger     *slog.Logger
}

// NewRunner wires a pipeline runner from its stages.
func NewRunner(rates RateSource, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		normalizer: NewNormalizer(logger),
		enricher:   NewEnricher(rates, logger),
		logger:     logger.With(slog.String("component", "pipeline")),
	}
}

// Run executes the full cleaning-and-conversion pipeline over the raw table.
//
// Any amount parse failure or missing required column aborts the run with a
// single consolidated error; no partial record set is ever returned. Rows
// with an unparseable order date are silently filtered and appear only in
// Summary.DroppedRows.
func (r *Runner) Run(ctx context.Context, table domain.Table) (*domain.Result, error) {
	runID := uuid.New().String()
	logger := r.logger.With(slog.String("run_id", runID))
	start := time.Now()

	logger.InfoContext(ctx, "pipeline run started",
		slog.Int("input_rows", len(table.Rows)),
		slog.Int("columns", len(table.Headers)))

	records, stats, err := r.normalizer.Normalize(table)
	if err != nil {
		logger.ErrorContext(ctx, "normalization failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("normalize: %w", err)
	}

	enriched, err := r.enricher.Enrich(ctx, records)
	if err != nil {
		logger.ErrorContext(ctx, "enrichment failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("enrich: %w", err)
	}

	summary := summarize(enriched, stats)
	summary.RunID = runID
	summary.GeneratedAt = time.Now().UTC()

	logger.InfoContext(ctx, "pipeline run complete",
		slog.Int("retained_rows", summary.RetainedRows),
		slog.Int("dropped_rows", summary.DroppedRows),
		slog.Int64("total_quantity", summary.TotalQuantity),
		slog.Int("distinct_orders", summary.DistinctOrders),
		slog.Duration("elapsed", time.Since(start)))

	return &domain.Result{Records: enriched, Summary: summary}, nil
}

// summarize derives the headline statistics from the enriched record set.
func summarize(records []domain.EnrichedRecord, stats NormalizeStats) domain.Summary {
	orders := make(map[string]struct{}, len(records))
	var quantity int64
	for _, rec := range records {
		quantity += rec.Quantity
		orders[rec.OrderID] = struct{}{}
	}

	return domain.Summary{
		TotalRows:      stats.InputRows,
		RetainedRows:   stats.RetainedRows,
		DroppedRows:    stats.DroppedRows,
		TotalQuantity:  quantity,
		DistinctOrders: len(orders),
	}
}
