package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/service"
)

// MockReviewService is a mock implementation of service.ReviewService.
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) docResult(args mock.Arguments) (*domain.ReviewDocument, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewDocument), args.Error(1)
}

func (m *MockReviewService) Upload(ctx context.Context, input service.UploadInput) (*domain.ReviewDocument, error) {
	return m.docResult(m.Called(ctx, input))
}

func (m *MockReviewService) Get(ctx context.Context, id uuid.UUID) (*domain.ReviewDocument, error) {
	return m.docResult(m.Called(ctx, id))
}

func (m *MockReviewService) List(ctx context.Context, status domain.DocumentStatus, offset, limit int) ([]domain.ReviewDocument, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ReviewDocument), args.Int(1), args.Error(2)
}

func (m *MockReviewService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewService) UpdateFields(ctx context.Context, id uuid.UUID, changes service.FieldChanges, reviewer string) (*domain.ReviewDocument, error) {
	return m.docResult(m.Called(ctx, id, changes, reviewer))
}

func (m *MockReviewService) Revalidate(ctx context.Context, id uuid.UUID, actor string) (*domain.ReviewDocument, error) {
	return m.docResult(m.Called(ctx, id, actor))
}

func (m *MockReviewService) Reextract(ctx context.Context, id uuid.UUID, actor string) (*domain.ReviewDocument, error) {
	return m.docResult(m.Called(ctx, id, actor))
}

func (m *MockReviewService) Accept(ctx context.Context, id uuid.UUID, reviewer string) (*domain.ReviewDocument, error) {
	return m.docResult(m.Called(ctx, id, reviewer))
}

func (m *MockReviewService) Validation(ctx context.Context, id uuid.UUID) (*service.ValidationView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ValidationView), args.Error(1)
}

func (m *MockReviewService) DownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockReviewService) Export(ctx context.Context, id uuid.UUID, format domain.ExportFormat, w io.Writer) (*domain.ReviewDocument, error) {
	return m.docResult(m.Called(ctx, id, format, w))
}

func (m *MockReviewService) ExportList(ctx context.Context, status domain.DocumentStatus, w io.Writer) error {
	args := m.Called(ctx, status, w)
	return args.Error(0)
}

func (m *MockReviewService) ValidateFields(fields map[string]string) *service.ValidationView {
	args := m.Called(fields)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*service.ValidationView)
}

func (m *MockReviewService) History(ctx context.Context, id uuid.UUID, offset, limit int) ([]domain.AuditEntry, int, error) {
	args := m.Called(ctx, id, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.AuditEntry), args.Int(1), args.Error(2)
}
