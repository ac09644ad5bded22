package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/validator"
)

// BOM is the UTF-8 byte order mark Excel needs to read accented labels.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// fieldColumns heads the per-field table of a single document.
var fieldColumns = []string{"Campo", "Valor", "Estado", "Mensagem"}

// Writer wraps csv.Writer for document exports.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteFieldTable writes the header and one row per field.
func (w *Writer) WriteFieldTable(statuses []validator.FieldStatus) error {
	if err := w.csv.Write(fieldColumns); err != nil {
		return err
	}
	for _, st := range statuses {
		if err := w.csv.Write([]string{st.Label, st.Value, SeverityLabel(st.Severity), st.Message}); err != nil {
			return err
		}
	}
	return nil
}

// documentColumns heads the listing export: file metadata, then one column per field.
func documentColumns() []string {
	cols := []string{"Ficheiro", "Estado do Documento"}
	for _, f := range domain.AllFields {
		cols = append(cols, f.Label())
	}
	return append(cols, "Válidos", "Avisos", "Erros", "Criado em")
}

// WriteDocumentHeader writes the listing header row.
func (w *Writer) WriteDocumentHeader() error {
	return w.csv.Write(documentColumns())
}

// WriteDocuments writes one row per document. Undecodable field data leaves
// the field columns empty.
func (w *Writer) WriteDocuments(docs []domain.ReviewDocument) error {
	for i := range docs {
		if err := w.csv.Write(documentRow(&docs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func documentRow(doc *domain.ReviewDocument) []string {
	row := []string{doc.FileName, string(doc.Status)}
	fields, err := doc.FieldSet()
	if err != nil {
		fields = domain.FieldSet{}
	}
	for _, f := range domain.AllFields {
		row = append(row, fields.Get(f))
	}
	return append(row,
		strconv.Itoa(doc.GoodCount),
		strconv.Itoa(doc.WarningCount),
		strconv.Itoa(doc.BadCount),
		doc.CreatedAt.UTC().Format(time.RFC3339),
	)
}
