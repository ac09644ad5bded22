package validator

import (
	"invoicedesk/internal/domain"
	"invoicedesk/internal/validator/invoice"
)

// Registry maps field names to their rules and remembers registration order.
type Registry struct {
	rules map[domain.FieldName]invoice.FieldRule
	order []domain.FieldName
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[domain.FieldName]invoice.FieldRule)}
}

// NewBuiltinRegistry creates a Registry holding the built-in invoice rules.
func NewBuiltinRegistry(opts invoice.Options) *Registry {
	r := NewRegistry()
	for _, rule := range invoice.BuiltinRules(opts) {
		r.Register(rule)
	}
	return r
}

// Register adds or replaces the rule for its field.
func (r *Registry) Register(rule invoice.FieldRule) {
	if _, exists := r.rules[rule.Field]; !exists {
		r.order = append(r.order, rule.Field)
	}
	r.rules[rule.Field] = rule
}

// Get returns the rule for a field and whether one is registered.
func (r *Registry) Get(field domain.FieldName) (invoice.FieldRule, bool) {
	rule, ok := r.rules[field]
	return rule, ok
}

// All returns the registered rules in registration order.
func (r *Registry) All() []invoice.FieldRule {
	out := make([]invoice.FieldRule, 0, len(r.order))
	for _, f := range r.order {
		out = append(out, r.rules[f])
	}
	return out
}
