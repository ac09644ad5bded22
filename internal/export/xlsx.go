package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/validator"
)

// FieldSheet is the sheet name of a single-document workbook.
const FieldSheet = "Fatura"

// ReportSheet is the sheet name of the batch report workbook.
const ReportSheet = "Relatório"

// styles caches one fill style per severity plus a bold header style.
type styles struct {
	header   int
	severity map[domain.Severity]int
}

func newStyles(f *excelize.File) (*styles, error) {
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	s := &styles{header: header, severity: map[domain.Severity]int{}}
	for _, sev := range []domain.Severity{domain.SeverityGood, domain.SeverityWarning, domain.SeverityBad} {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.TrimPrefix(sev.Color(), "#")}},
		})
		if err != nil {
			return nil, err
		}
		s.severity[sev] = id
	}
	return s, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func styleCell(f *excelize.File, sheet string, col, row, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, style)
}

// WriteFieldSheet writes a workbook with one row per field; the status cell
// is filled with the verdict colour.
func WriteFieldSheet(w io.Writer, statuses []validator.FieldStatus) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", FieldSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("creating styles: %w", err)
	}

	header := make([]any, len(fieldColumns))
	for i, c := range fieldColumns {
		header[i] = c
	}
	if err := setRow(f, FieldSheet, 1, header); err != nil {
		return err
	}
	if err := f.SetCellStyle(FieldSheet, "A1", "D1", st.header); err != nil {
		return err
	}

	for i, s := range statuses {
		row := i + 2
		if err := setRow(f, FieldSheet, row, []any{s.Label, s.Value, SeverityLabel(s.Severity), s.Message}); err != nil {
			return err
		}
		if id, ok := st.severity[s.Severity]; ok {
			if err := styleCell(f, FieldSheet, 3, row, id); err != nil {
				return err
			}
		}
	}
	_ = f.SetColWidth(FieldSheet, "A", "A", 28)
	_ = f.SetColWidth(FieldSheet, "B", "B", 36)
	_ = f.SetColWidth(FieldSheet, "D", "D", 48)

	return f.Write(w)
}

// Report accumulates one row per document for the batch report workbook.
// It is not safe for concurrent use.
type Report struct {
	file   *excelize.File
	styles *styles
	row    int
}

// NewReport creates a report workbook with its header row written.
func NewReport() (*Report, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ReportSheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	st, err := newStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	header := []any{"Ficheiro", "Erro de Extração"}
	for _, fld := range domain.AllFields {
		header = append(header, fld.Label())
	}
	header = append(header, "Válidos", "Avisos", "Erros")
	if err := setRow(f, ReportSheet, 1, header); err != nil {
		_ = f.Close()
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	_ = f.SetCellStyle(ReportSheet, "A1", last, st.header)

	return &Report{file: f, styles: st, row: 2}, nil
}

// AddDocument appends a document row; each field cell is filled with its verdict colour.
func (r *Report) AddDocument(fileName, extractionErr string, fields domain.FieldSet, report domain.ValidationReport) error {
	sum := validator.Summarize(report)
	values := []any{fileName, extractionErr}
	for _, fld := range domain.AllFields {
		values = append(values, fields.Get(fld))
	}
	values = append(values, sum.Good, sum.Warning, sum.Bad)
	if err := setRow(r.file, ReportSheet, r.row, values); err != nil {
		return err
	}

	for i, fld := range domain.AllFields {
		v, ok := report[fld]
		if !ok {
			continue
		}
		if id, ok := r.styles.severity[v.Severity]; ok {
			if err := styleCell(r.file, ReportSheet, i+3, r.row, id); err != nil {
				return err
			}
		}
	}
	r.row++
	return nil
}

// Rows returns the number of document rows added.
func (r *Report) Rows() int {
	return r.row - 2
}

// SaveAs writes the workbook to path.
func (r *Report) SaveAs(path string) error {
	return r.file.SaveAs(path)
}

// WriteTo writes the workbook to w.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	return r.file.WriteTo(w)
}

// Close releases the workbook.
func (r *Report) Close() error {
	return r.file.Close()
}
