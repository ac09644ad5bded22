package invoice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/validator/invoice"
)

func TestParseAmount_EquivalentSpellings(t *testing.T) {
	want := decimal.RequireFromString("1234.56")
	inputs := []string{
		"1234.56",
		"€ 1.234,56",
		"1.234,56 €",
		"1,234.56",
		"$1,234.56",
		"1 234,56",
		"1 234,56",
		"£1234.56",
		"1234,56",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, err := invoice.ParseAmount(in)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}
}

func TestParseAmount_RepeatedSeparatorsGroup(t *testing.T) {
	got, err := invoice.ParseAmount("1.234.567")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1234567).Equal(got))

	got, err = invoice.ParseAmount("1,234,567")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1234567).Equal(got))

	got, err = invoice.ParseAmount("1.234.567,89")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1234567.89").Equal(got))
}

func TestParseAmount_LoneCommaIsDecimal(t *testing.T) {
	got, err := invoice.ParseAmount("1,5")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.5").Equal(got))
}

func TestParseAmount_Negative(t *testing.T) {
	got, err := invoice.ParseAmount("-5.00")
	require.NoError(t, err)
	assert.True(t, got.IsNegative())
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "€", "abc", "12a", "1,2,3.4,5"} {
		t.Run(in, func(t *testing.T) {
			_, err := invoice.ParseAmount(in)
			assert.Error(t, err)
		})
	}
}

func TestParseAmount_RejectsExponentAndOversizedInput(t *testing.T) {
	inputs := []string{
		"1e50000000",
		"1E5",
		"-2.5e-3",
		"12abc",
		"-",
		".",
		"1234567890123456789012345678901",
		"0.1234567890123456789",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := invoice.ParseAmount(in)
			assert.Error(t, err)
		})
	}
}

func TestParseAmount_DigitLimitsInclusive(t *testing.T) {
	_, err := invoice.ParseAmount("123456789012345678901234567890.123456789012345678")
	assert.NoError(t, err)
}
