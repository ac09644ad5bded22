package invoice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"invoicedesk/internal/validator/invoice"
)

func TestValidNIF(t *testing.T) {
	tests := []struct {
		nif  string
		want bool
	}{
		{"123456789", true},
		{"123456780", false},
		{"501964843", true},
		{"501964840", false},
		{"12345678", false},
		{"1234567890", false},
		{"12345678a", false},
	}
	for _, tt := range tests {
		t.Run(tt.nif, func(t *testing.T) {
			assert.Equal(t, tt.want, invoice.ValidNIF(tt.nif))
		})
	}
}

func TestValidNIF_CheckDigitEdges(t *testing.T) {
	// remainder 9, check digit 2
	assert.True(t, invoice.ValidNIF("100000002"))
	// remainder 0, check digit 0
	assert.True(t, invoice.ValidNIF("000000000"))
	assert.True(t, invoice.ValidNIF("000000140"))
	// remainder 1, check digit 0
	assert.True(t, invoice.ValidNIF("000000060"))
	assert.False(t, invoice.ValidNIF("000000061"))
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "501964843", invoice.DigitsOnly("PT 501 964 843"))
	assert.Equal(t, "", invoice.DigitsOnly("abc"))
}
