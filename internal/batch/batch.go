// Package batch extracts and validates a directory of invoice PDFs without
// the database or object storage.
package batch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/parser"
	"invoicedesk/internal/pdftext"
	"invoicedesk/internal/port"
	"invoicedesk/internal/validator"
)

// Result is the outcome for one file.
type Result struct {
	Path   string
	Fields domain.FieldSet
	Report domain.ValidationReport
	Err    error
}

// Summary counts results by outcome.
type Summary struct {
	Files    int
	Clean    int
	Warnings int
	Blocked  int
	Failed   int
}

// Runner processes files with a bounded number of workers.
type Runner struct {
	Parser      port.DocumentParser
	Validator   validator.Validator
	Concurrency int
	// Progress is called once per finished file. Optional.
	Progress func()
}

// FindPDFs returns the PDF files under root, sorted. Subdirectories are
// included when recursive is set.
func FindPDFs(root string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Run processes every path and returns results in input order.
func (r *Runner) Run(ctx context.Context, paths []string) []Result {
	workers := r.Concurrency
	if workers <= 0 {
		workers = 1
	}

	results := make([]Result, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.processFile(ctx, paths[i])
				if r.Progress != nil {
					r.Progress()
				}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func (r *Runner) processFile(ctx context.Context, path string) Result {
	res := Result{Path: path}

	data, err := os.ReadFile(path)
	if err == nil && !pdftext.HasMagic(data) {
		err = domain.ErrUnsupportedFileType
	}
	var ext *parser.Extraction
	if err == nil {
		var out *port.ParseOutput
		out, err = r.Parser.Parse(ctx, port.ParseInput{
			FileBytes:   data,
			ContentType: "application/pdf",
			FileName:    filepath.Base(path),
			SessionID:   uuid.NewString(),
		})
		if err == nil {
			ext, err = parser.DecodePayload(out.Payload)
		}
	}

	if err != nil {
		log.Printf("batch.processFile: %s: %v", path, err)
		res.Err = err
		res.Fields = domain.FieldSetFromMap(nil)
	} else {
		res.Fields = ext.Fields
	}
	res.Report = r.Validator.ValidateAll(res.Fields)
	return res
}

// Summarize counts clean, warning-only, blocked and failed results.
func Summarize(results []Result) Summary {
	s := Summary{Files: len(results)}
	for _, res := range results {
		if res.Err != nil {
			s.Failed++
			continue
		}
		switch validator.Summarize(res.Report).OverallStatus {
		case domain.SeverityBad:
			s.Blocked++
		case domain.SeverityWarning:
			s.Warnings++
		default:
			s.Clean++
		}
	}
	return s
}

// ReportRows is what the XLSX report needs from a result.
type ReportRows interface {
	AddDocument(fileName, extractionErr string, fields domain.FieldSet, report domain.ValidationReport) error
}

// WriteReport adds one row per result, in order.
func WriteReport(report ReportRows, results []Result) error {
	for _, res := range results {
		errText := ""
		if res.Err != nil {
			errText = res.Err.Error()
		}
		if err := report.AddDocument(filepath.Base(res.Path), errText, res.Fields, res.Report); err != nil {
			return fmt.Errorf("writing row for %s: %w", res.Path, err)
		}
	}
	return nil
}

// PrintSummary writes a coloured one-line-per-outcome summary.
func PrintSummary(w io.Writer, s Summary, colorize func(string) string) {
	fmt.Fprintln(w, colorize(fmt.Sprintf("[bold]%d invoices processed", s.Files)))
	fmt.Fprintln(w, colorize(fmt.Sprintf("[green]  %d ready to accept", s.Clean)))
	fmt.Fprintln(w, colorize(fmt.Sprintf("[yellow]  %d with warnings", s.Warnings)))
	fmt.Fprintln(w, colorize(fmt.Sprintf("[red]  %d with blocking errors", s.Blocked)))
	fmt.Fprintln(w, colorize(fmt.Sprintf("[magenta]  %d failed extraction", s.Failed)))
}
