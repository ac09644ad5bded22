package mocks

import (
	"github.com/stretchr/testify/mock"

	"invoicedesk/internal/domain"
)

// MockValidator is a mock implementation of validator.Validator.
type MockValidator struct {
	mock.Mock
}

func (m *MockValidator) ValidateAll(fields domain.FieldSet) domain.ValidationReport {
	args := m.Called(fields)
	return args.Get(0).(domain.ValidationReport)
}

func (m *MockValidator) ValidateField(name domain.FieldName, value string, fields domain.FieldSet) domain.Verdict {
	args := m.Called(name, value, fields)
	return args.Get(0).(domain.Verdict)
}
