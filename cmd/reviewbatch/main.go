package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/mitchellh/colorstring"
	"github.com/schollz/progressbar/v3"

	"invoicedesk/internal/batch"
	"invoicedesk/internal/config"
	"invoicedesk/internal/export"
	"invoicedesk/internal/parser/providers"
	"invoicedesk/internal/validator"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dir := flag.String("dir", ".", "directory containing invoice PDFs")
	out := flag.String("out", "invoices-report.xlsx", "path of the XLSX report")
	recursive := flag.Bool("r", false, "include subdirectories")
	concurrency := flag.Int("concurrency", 0, "parallel extractions (default from INVOICEDESK_BATCH_CONCURRENCY)")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *concurrency <= 0 {
		*concurrency = cfg.Batch.Concurrency
	}

	files, err := batch.FindPDFs(*dir, *recursive)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", *dir, err)
	}
	if len(files) == 0 {
		fmt.Printf("No PDF files found in %s\n", *dir)
		return nil
	}

	docParser, err := providers.Build(&cfg.Parser)
	if err != nil {
		return fmt.Errorf("failed to initialize extraction providers: %w", err)
	}
	opts, err := validator.OptionsFromConfig(&cfg.Validation)
	if err != nil {
		return fmt.Errorf("invalid validation settings: %w", err)
	}

	fmt.Printf("Found %d files to process. Starting extraction...\n", len(files))
	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Processing invoices"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := &batch.Runner{
		Parser:      docParser,
		Validator:   validator.NewEngine(opts),
		Concurrency: *concurrency,
		Progress:    func() { _ = bar.Add(1) },
	}
	results := runner.Run(ctx, files)
	_ = bar.Finish()
	fmt.Println()

	report, err := export.NewReport()
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer func() { _ = report.Close() }()

	if err := batch.WriteReport(report, results); err != nil {
		return err
	}
	if err := report.SaveAs(*out); err != nil {
		return fmt.Errorf("saving %s: %w", *out, err)
	}

	batch.PrintSummary(os.Stdout, batch.Summarize(results), colorstring.Color)
	fmt.Printf("Report written to %s\n", *out)
	return nil
}
