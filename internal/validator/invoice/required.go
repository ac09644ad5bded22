package invoice

import (
	"invoicedesk/internal/domain"
)

// requiredFields must carry a value; every other field is optional.
var requiredFields = map[domain.FieldName]bool{
	domain.FieldDocumentID:   true,
	domain.FieldDocumentDate: true,
	domain.FieldVendorName:   true,
	domain.FieldCustomerName: true,
}

// IsRequired reports whether the field is mandatory.
func IsRequired(f domain.FieldName) bool {
	return requiredFields[f]
}

const (
	msgRequiredEmpty = "required field empty"
	msgOptionalEmpty = "empty (optional)"
)

// Empty returns the verdict for a blank value, depending on whether the field is mandatory.
func Empty(required bool) domain.Verdict {
	if required {
		return bad(domain.VerdictMissingRequired, msgRequiredEmpty)
	}
	return warning(domain.VerdictOptionalEmpty, msgOptionalEmpty)
}
