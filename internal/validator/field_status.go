package validator

import (
	"invoicedesk/internal/domain"
)

// FieldStatus is the reviewer-facing view of one field and its verdict.
type FieldStatus struct {
	Field    domain.FieldName   `json:"field"`
	Label    string             `json:"label"`
	Value    string             `json:"value"`
	Severity domain.Severity    `json:"severity"`
	Code     domain.VerdictCode `json:"code"`
	Message  string             `json:"message"`
	Color    string             `json:"color"`
	Icon     string             `json:"icon"`
}

// ComputeFieldStatuses joins field values with their verdicts in display order.
// Fields missing from the report are omitted.
func ComputeFieldStatuses(fields domain.FieldSet, report domain.ValidationReport) []FieldStatus {
	out := make([]FieldStatus, 0, len(domain.AllFields))
	for _, f := range domain.AllFields {
		v, ok := report[f]
		if !ok {
			continue
		}
		out = append(out, FieldStatus{
			Field:    f,
			Label:    f.Label(),
			Value:    fields.Get(f),
			Severity: v.Severity,
			Code:     v.Code,
			Message:  v.Message,
			Color:    v.Severity.Color(),
			Icon:     v.Severity.Icon(),
		})
	}
	return out
}

// Summarize counts verdicts per severity. The overall status is the worst one.
func Summarize(report domain.ValidationReport) domain.ValidationSummary {
	s := domain.ValidationSummary{OverallStatus: domain.SeverityGood}
	for _, v := range report {
		s.Total++
		switch v.Severity {
		case domain.SeverityGood:
			s.Good++
		case domain.SeverityWarning:
			s.Warning++
		case domain.SeverityBad:
			s.Bad++
		}
		if v.Severity.Worse(s.OverallStatus) {
			s.OverallStatus = v.Severity
		}
	}
	s.CanAccept = s.Bad == 0
	return s
}

// BlockingFields lists the fields whose verdict prevents acceptance, in display order.
func BlockingFields(report domain.ValidationReport) []domain.FieldName {
	var out []domain.FieldName
	for _, f := range domain.AllFields {
		if v, ok := report[f]; ok && v.Severity == domain.SeverityBad {
			out = append(out, f)
		}
	}
	return out
}
