package invoice

import (
	"invoicedesk/internal/domain"
)

// BuiltinRules returns one rule per recognized field, in display order.
// Checks run format first, then range, then cross-field.
func BuiltinRules(opts Options) []FieldRule {
	opts = opts.withDefaults()

	checks := map[domain.FieldName][]Check{
		domain.FieldDocumentDate: {
			dateFormatCheck(),
			dateRangeCheck(opts.Now, opts.MaxAgeDays),
		},
		domain.FieldDocumentType: {
			documentTypeCheck(opts.DocumentTypes),
		},
		domain.FieldCurrencyCode: {
			currencyCheck(opts.Currencies),
		},
		domain.FieldTotalDocumentAmount: {
			amountFormatCheck(),
			amountRangeCheck(),
			totalConsistencyCheck(*opts.Tolerance),
		},
		domain.FieldNetDocumentAmount: {
			amountFormatCheck(),
			amountRangeCheck(),
		},
		domain.FieldVATAmount: {
			amountFormatCheck(),
			amountRangeCheck(),
		},
		domain.FieldVendorTaxID: {
			taxIDCheck(),
		},
		domain.FieldCustomerTaxID: {
			taxIDCheck(),
		},
	}

	rules := make([]FieldRule, 0, len(domain.AllFields))
	for _, f := range domain.AllFields {
		rules = append(rules, FieldRule{
			Field:    f,
			Required: IsRequired(f),
			Checks:   checks[f],
		})
	}
	return rules
}
