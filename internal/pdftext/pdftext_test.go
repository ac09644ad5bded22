package pdftext_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/pdftext"
	"invoicedesk/internal/testutil"
)

func TestHasMagic(t *testing.T) {
	assert.True(t, pdftext.HasMagic([]byte("%PDF-1.7\n...")))
	assert.False(t, pdftext.HasMagic([]byte("PK\x03\x04")))
	assert.False(t, pdftext.HasMagic(nil))
}

func TestPageCount(t *testing.T) {
	n, err := pdftext.PageCount(testutil.MinimalPDF(1))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = pdftext.PageCount(testutil.MinimalPDF(3))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestPageCount_Unreadable(t *testing.T) {
	_, err := pdftext.PageCount([]byte("definitely not a pdf"))
	assert.ErrorIs(t, err, pdftext.ErrUnreadable)

	_, err = pdftext.PageCount([]byte("%PDF-1.4\ngarbage without xref"))
	assert.ErrorIs(t, err, pdftext.ErrUnreadable)
}

func TestExtractText_BlankPages(t *testing.T) {
	text, err := pdftext.ExtractText(testutil.MinimalPDF(2))
	require.NoError(t, err)
	assert.Empty(t, trimAll(text))
}

func trimAll(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r != '\n' && r != ' ' {
			out = append(out, r)
		}
	}
	return string(out)
}
