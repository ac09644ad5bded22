package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"invoicedesk/internal/domain"
)

// ReviewDocumentRepository persists review documents.
type ReviewDocumentRepository interface {
	Create(ctx context.Context, doc *domain.ReviewDocument) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewDocument, error)
	List(ctx context.Context, status domain.DocumentStatus, offset, limit int) ([]domain.ReviewDocument, int, error)
	ListRetryable(ctx context.Context, now time.Time, maxAttempts, limit int) ([]domain.ReviewDocument, error)
	// UpdateReview stores the extraction outcome together with the fields and report.
	// Accepted documents are never overwritten: it returns ErrAlreadyAccepted instead.
	UpdateReview(ctx context.Context, doc *domain.ReviewDocument) error
	MarkAccepted(ctx context.Context, doc *domain.ReviewDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
}
