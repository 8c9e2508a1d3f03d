// Command report runs the sales cleaning pipeline once over a local file and
// writes the standalone dashboard document.
//
// Usage:
//
//	report -in testdata/sales.csv -out out/retail_dashboard.html
//	report -in export.xlsx -currency USD -title "June Review"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"retailpulse/internal/config"
	"retailpulse/internal/infrastructure"
	"retailpulse/internal/ingest"
	"retailpulse/internal/pipeline"
	"retailpulse/internal/report"
	"retailpulse/pkg/contracts/domain"
)

func main() {
	var (
		inPath     = flag.String("in", "", "path to the sales export (.csv or .xlsx)")
		outPath    = flag.String("out", "", "path for the generated HTML document (default: <report dir>/"+report.DocumentName+")")
		configFile = flag.String("config", "", "optional YAML config file")
		title      = flag.String("title", "", "dashboard title override")
		currency   = flag.String("currency", "", "default currency toggle, INR or USD")
		logLevel   = flag.String("log-level", "", "log level override: debug, info, warn, error")
	)
	flag.Parse()

	if err := run(*inPath, *outPath, *configFile, *title, *currency, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(inPath, outPath, configFile, title, currency, logLevel string) error {
	if inPath == "" {
		return fmt.Errorf("missing required flag: -in")
	}
	if outPath == "" {
		outPath = report.DocumentName
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	table, err := ingest.NewLoader(logger).Load(inPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inPath, err)
	}

	runner := pipeline.NewRunner(pipeline.NewStaticRateTable(), logger)
	result, err := runner.Run(context.Background(), table)
	if err != nil {
		return fmt.Errorf("failed to process %s: %w", filepath.Base(inPath), err)
	}

	opts := domain.ReportOptions{
		Title:           cfg.Report.Title,
		DefaultCurrency: cfg.Report.DefaultCurrency,
	}
	if title != "" {
		opts.Title = title
	}
	if currency != "" {
		opts.DefaultCurrency = currency
	}

	builder, err := report.NewBuilder(logger)
	if err != nil {
		return err
	}
	if err := builder.WriteFile(outPath, result, opts); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	s := result.Summary
	fmt.Printf("Processed %d rows (%d retained, %d dropped)\n", s.TotalRows, s.RetainedRows, s.DroppedRows)
	fmt.Printf("Orders: %d distinct, %d items sold\n", s.DistinctOrders, s.TotalQuantity)
	fmt.Printf("Dashboard written to %s\n", outPath)
	return nil
}
