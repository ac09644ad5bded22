package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	// DefaultCurrencies is the recognized currency allow-list.
	DefaultCurrencies = []string{"EUR", "USD", "GBP", "BRL", "JPY", "CHF", "CAD", "AUD"}

	// DefaultDocumentTypes is the recognized document-type allow-list.
	DefaultDocumentTypes = []string{"Invoice", "Factura", "Receipt", "Recibo", "Credit Note", "Nota de Crédito"}
)

const DefaultMaxAgeDays = 1825

// DefaultTolerance is the largest accepted gap between the total and net + VAT.
var DefaultTolerance = decimal.RequireFromString("0.01")

// Options tunes the built-in rules. The zero value of any field means its
// default; a nil Tolerance means DefaultTolerance, while zero demands exact totals.
type Options struct {
	Currencies    []string
	DocumentTypes []string
	MaxAgeDays    int
	Tolerance     *decimal.Decimal
	Now           func() time.Time
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	tol := DefaultTolerance
	return Options{
		Currencies:    DefaultCurrencies,
		DocumentTypes: DefaultDocumentTypes,
		MaxAgeDays:    DefaultMaxAgeDays,
		Tolerance:     &tol,
		Now:           time.Now,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if len(o.Currencies) == 0 {
		o.Currencies = d.Currencies
	}
	if len(o.DocumentTypes) == 0 {
		o.DocumentTypes = d.DocumentTypes
	}
	if o.MaxAgeDays <= 0 {
		o.MaxAgeDays = d.MaxAgeDays
	}
	if o.Tolerance == nil {
		o.Tolerance = d.Tolerance
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	return o
}
