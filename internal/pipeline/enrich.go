package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"retailpulse/pkg/contracts/domain"
)

// parallelThreshold is the record count above which enrichment fans out
// across a worker pool. Below it the per-goroutine overhead is not worth it.
const parallelThreshold = 5000

// Enricher joins normalized records to their year's interbank reference rate
// and derives the dual-currency fields. Every row is independent; output
// order always equals input order.
type Enricher struct {
	rates  RateSource
	logger *slog.Logger
}

// NewEnricher creates an enricher backed by the given rate source.
func NewEnricher(rates RateSource, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{
		rates:  rates,
		logger: logger.With(slog.String("component", "enricher")),
	}
}

// Enrich derives the enriched record set. Source amounts are defined to be
// USD; INR values are computed from the year-matched rate. Large inputs are
// chunked across workers that write by index, so ordering is preserved
// regardless of scheduling.
func (e *Enricher) Enrich(ctx context.Context, records []domain.SalesRecord) ([]domain.EnrichedRecord, error) {
	enriched := make([]domain.EnrichedRecord, len(records))

	if len(records) < parallelThreshold {
		for i, rec := range records {
			enriched[i] = e.enrichOne(rec)
		}
		return enriched, nil
	}

	workers := runtime.GOMAXPROCS(0)
	chunk := (len(records) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(records); start += chunk {
		end := start + chunk
		if end > len(records) {
			end = len(records)
		}
		start, end := start, end
		g.Go(func() error {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				enriched[i] = e.enrichOne(records[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("enrichment cancelled: %w", err)
	}

	e.logger.Debug("records enriched in parallel",
		slog.Int("records", len(records)),
		slog.Int("workers", workers))

	return enriched, nil
}

// enrichOne computes the dual-currency fields for a single record.
func (e *Enricher) enrichOne(rec domain.SalesRecord) domain.EnrichedRecord {
	rate := e.rates.ForYear(rec.OrderDate.Year())
	return domain.EnrichedRecord{
		YearMonth:  fmt.Sprintf("%04d-%02d", rec.OrderDate.Year(), int(rec.OrderDate.Month())),
		Category:   rec.Category,
		Segment:    rec.Segment,
		State:      rec.State,
		SalesUSD:   rec.SalesPer,
		SalesINR:   rec.SalesPer * rate,
		ProfitUSD:  rec.Profit,
		ProfitINR:  rec.Profit * rate,
		Quantity:   rec.Quantity,
		OrderID:    rec.OrderID,
		CustomerID: rec.CustomerID,
		IBRRate:    rate,
	}
}
