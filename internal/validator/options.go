package validator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"invoicedesk/internal/config"
	"invoicedesk/internal/validator/invoice"
)

// OptionsFromConfig converts validation settings into rule options. Unset
// values fall back to the built-in defaults.
func OptionsFromConfig(cfg *config.ValidationConfig) (invoice.Options, error) {
	opts := invoice.DefaultOptions()
	if len(cfg.Currencies) > 0 {
		opts.Currencies = cfg.Currencies
	}
	if len(cfg.DocumentTypes) > 0 {
		opts.DocumentTypes = cfg.DocumentTypes
	}
	if cfg.MaxAgeDays > 0 {
		opts.MaxAgeDays = cfg.MaxAgeDays
	}
	if raw := strings.TrimSpace(cfg.TotalTolerance); raw != "" {
		tol, err := decimal.NewFromString(raw)
		if err != nil {
			return invoice.Options{}, fmt.Errorf("invalid total tolerance %q: %w", raw, err)
		}
		if tol.IsNegative() {
			return invoice.Options{}, fmt.Errorf("total tolerance must not be negative: %s", raw)
		}
		opts.Tolerance = &tol
	}
	return opts, nil
}
