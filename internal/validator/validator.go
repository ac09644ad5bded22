package validator

import (
	"invoicedesk/internal/domain"
)

// Validator produces per-field verdicts for an invoice field set.
// Implementations must not mutate the input.
type Validator interface {
	ValidateAll(fields domain.FieldSet) domain.ValidationReport
	ValidateField(name domain.FieldName, value string, fields domain.FieldSet) domain.Verdict
}
