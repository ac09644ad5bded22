// Package export renders a review document as JSON, CSV or XLSX.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/validator"
)

// ContentType returns the MIME type of an export format.
func ContentType(format domain.ExportFormat) string {
	switch format {
	case domain.ExportFormatCSV:
		return "text/csv; charset=utf-8"
	case domain.ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json; charset=utf-8"
	}
}

// ParseFormat validates a requested format; empty means JSON.
func ParseFormat(raw string) (domain.ExportFormat, error) {
	switch f := domain.ExportFormat(raw); f {
	case "":
		return domain.ExportFormatJSON, nil
	case domain.ExportFormatJSON, domain.ExportFormatCSV, domain.ExportFormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedExport, raw)
	}
}

// SeverityLabel is the Portuguese status shown in exports.
func SeverityLabel(s domain.Severity) string {
	switch s {
	case domain.SeverityGood:
		return "Válido"
	case domain.SeverityWarning:
		return "Aviso"
	case domain.SeverityBad:
		return "Erro"
	default:
		return string(s)
	}
}

// Document writes fields and their verdicts in the requested format.
func Document(w io.Writer, format domain.ExportFormat, fields domain.FieldSet, report domain.ValidationReport) error {
	switch format {
	case domain.ExportFormatJSON:
		return WriteJSON(w, fields)
	case domain.ExportFormatCSV:
		if _, err := w.Write(BOM); err != nil {
			return err
		}
		cw := NewWriter(w)
		if err := cw.WriteFieldTable(validator.ComputeFieldStatuses(fields, report)); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	case domain.ExportFormatXLSX:
		return WriteFieldSheet(w, validator.ComputeFieldStatuses(fields, report))
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedExport, format)
	}
}

// WriteJSON writes the fields as one object keyed by their labels, in display order.
func WriteJSON(w io.Writer, fields domain.FieldSet) error {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, f := range domain.AllFields {
		key, err := json.Marshal(f.Label())
		if err != nil {
			return err
		}
		val, err := json.Marshal(fields.Get(f))
		if err != nil {
			return err
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
		if i < len(domain.AllFields)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	_, err := w.Write(buf.Bytes())
	return err
}
