// Package pipeline implements the cleaning-and-conversion pipeline that turns
// a raw retail sales export into a validated, currency-enriched record set.
//
// # Architecture
//
// The pipeline is a sequence of pure stages, each taking an immutable input
// and returning a new value:
//
//	domain.Table → Normalizer → []domain.SalesRecord → Enricher → []domain.EnrichedRecord
//
// The Runner sequences the stages, aggregates run statistics, and is the
// single boundary where stage errors are consolidated for the operator.
//
// # Stages
//
// 1. Normalizer: repairs column headers, applies fill rules, parses currency
// amounts and order dates. Rows with an unparseable date are dropped and
// counted; an unparseable amount aborts the run.
//
// 2. Enricher: joins each record to the interbank reference rate for its
// order year and derives the dual-currency fields plus the YearMonth bucket.
// Row-local and order-preserving.
//
// # Error Handling
//
// Amount parse failures (ErrInvalidAmount) and absent required columns
// (ErrMissingColumn) are fatal to the run: a financial report built on a
// guessed amount is worse than no report. Date parse failures are an expected
// data-quality filter, visible only as the aggregate dropped-row count.
package pipeline
