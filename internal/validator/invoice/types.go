package invoice

import (
	"invoicedesk/internal/domain"
)

// Check inspects a non-empty field value, with its siblings available for
// cross-field rules. It returns a Good verdict when the value passes.
type Check struct {
	Name string
	Run  func(value string, fields domain.FieldSet) domain.Verdict
}

// FieldRule is the static rule for one field: whether it is mandatory and the
// ordered checks applied once it is non-empty.
type FieldRule struct {
	Field    domain.FieldName
	Required bool
	Checks   []Check
}

const msgValid = "valid"

// Good returns the passing verdict.
func Good() domain.Verdict {
	return domain.Verdict{Severity: domain.SeverityGood, Code: domain.VerdictValid, Message: msgValid}
}

func warning(code domain.VerdictCode, msg string) domain.Verdict {
	return domain.Verdict{Severity: domain.SeverityWarning, Code: code, Message: msg}
}

func bad(code domain.VerdictCode, msg string) domain.Verdict {
	return domain.Verdict{Severity: domain.SeverityBad, Code: code, Message: msg}
}
