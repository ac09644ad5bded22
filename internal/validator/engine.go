package validator

import (
	"fmt"
	"log"
	"strings"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/validator/invoice"
)

// Engine evaluates the registered field rules. It holds no mutable state and
// is safe for concurrent use.
type Engine struct {
	registry *Registry
}

// NewEngine creates an engine over the built-in rules tuned by opts.
func NewEngine(opts invoice.Options) *Engine {
	return &Engine{registry: NewBuiltinRegistry(opts)}
}

// NewEngineWithRegistry creates an engine over a caller-supplied registry.
func NewEngineWithRegistry(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// ValidateAll returns exactly one verdict per registered field.
func (e *Engine) ValidateAll(fields domain.FieldSet) domain.ValidationReport {
	snapshot := fields.Clone()
	report := make(domain.ValidationReport, len(e.registry.order))
	for _, rule := range e.registry.All() {
		report[rule.Field] = evaluate(rule, snapshot.Get(rule.Field), snapshot)
	}
	return report
}

// ValidateField checks a single field, reading siblings from fields and using
// value in place of the field's own entry.
func (e *Engine) ValidateField(name domain.FieldName, value string, fields domain.FieldSet) domain.Verdict {
	rule, ok := e.registry.Get(name)
	if !ok {
		return domain.Verdict{
			Severity: domain.SeverityWarning,
			Code:     domain.VerdictUnrecognized,
			Message:  "unknown field",
		}
	}
	snapshot := fields.Clone()
	snapshot[name] = value
	return evaluate(rule, value, snapshot)
}

// evaluate applies the required rule and then each check in order, stopping
// at the first verdict that is not Good. A panicking check yields a Warning.
func evaluate(rule invoice.FieldRule, value string, fields domain.FieldSet) (verdict domain.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("validator.Engine: check on %s panicked: %v", rule.Field, r)
			verdict = domain.Verdict{
				Severity: domain.SeverityWarning,
				Code:     domain.VerdictInternal,
				Message:  fmt.Sprintf("validation error: %v", r),
			}
		}
	}()

	if strings.TrimSpace(value) == "" {
		return invoice.Empty(rule.Required)
	}
	for _, check := range rule.Checks {
		if v := check.Run(value, fields); v.Severity != domain.SeverityGood {
			return v
		}
	}
	return invoice.Good()
}
