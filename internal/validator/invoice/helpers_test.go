package invoice_test

import (
	"time"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/validator/invoice"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testOptions() invoice.Options {
	opts := invoice.DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	return opts
}

// validFields returns a field set for which every rule yields Good.
func validFields() domain.FieldSet {
	return domain.FieldSet{
		domain.FieldDocumentType:        "Invoice",
		domain.FieldDocumentID:          "FT 2025/001",
		domain.FieldDocumentDate:        "2025-03-15",
		domain.FieldLanguage:            "pt",
		domain.FieldCurrencyCode:        "EUR",
		domain.FieldTotalDocumentAmount: "123.00",
		domain.FieldNetDocumentAmount:   "100.00",
		domain.FieldVATAmount:           "23.00",
		domain.FieldVendorName:          "Fornecedor Lda",
		domain.FieldVendorTaxID:         "123456789",
		domain.FieldVendorCountryCode:   "PT",
		domain.FieldCustomerName:        "Cliente SA",
		domain.FieldCustomerTaxID:       "PT 501964843",
		domain.FieldCustomerCountryCode: "PT",
	}
}

// runRule evaluates one field's rule the way the engine does.
func runRule(t interface{ Helper() }, field domain.FieldName, fields domain.FieldSet) domain.Verdict {
	t.Helper()
	for _, rule := range invoice.BuiltinRules(testOptions()) {
		if rule.Field != field {
			continue
		}
		value := fields.Get(field)
		if value == "" {
			return invoice.Empty(rule.Required)
		}
		for _, c := range rule.Checks {
			if v := c.Run(value, fields); v.Severity != domain.SeverityGood {
				return v
			}
		}
		return invoice.Good()
	}
	panic("no rule for " + string(field))
}

func withField(name domain.FieldName, value string) domain.FieldSet {
	fs := validFields()
	fs[name] = value
	return fs
}
