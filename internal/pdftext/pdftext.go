// Package pdftext reads page counts and plain text from PDF bytes.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadable is returned when the bytes cannot be opened as a PDF.
var ErrUnreadable = errors.New("unreadable PDF")

// Magic is the signature every PDF file starts with.
var Magic = []byte("%PDF-")

// HasMagic reports whether data starts with the PDF signature.
func HasMagic(data []byte) bool {
	return bytes.HasPrefix(data, Magic)
}

// open wraps pdf.NewReader; the reader panics on some malformed inputs.
func open(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, fmt.Errorf("%w: %v", ErrUnreadable, rec)
		}
	}()
	r, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return r, nil
}

// PageCount returns the number of pages in the document.
func PageCount(data []byte) (n int, err error) {
	r, err := open(data)
	if err != nil {
		return 0, err
	}
	defer func() {
		if rec := recover(); rec != nil {
			n, err = 0, fmt.Errorf("%w: %v", ErrUnreadable, rec)
		}
	}()
	return r.NumPage(), nil
}

// ExtractText returns the text of every page, one line per text row and a
// blank line between pages.
func ExtractText(data []byte) (text string, err error) {
	r, err := open(data)
	if err != nil {
		return "", err
	}
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrUnreadable, rec)
		}
	}()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("reading page %d: %w", i, err)
		}
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				words = append(words, word.S)
			}
			b.WriteString(strings.Join(words, " "))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
