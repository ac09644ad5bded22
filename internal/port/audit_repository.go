package port

import (
	"context"

	"github.com/google/uuid"

	"invoicedesk/internal/domain"
)

// AuditRepository persists the review history of documents.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	ListByDocument(ctx context.Context, documentID uuid.UUID, offset, limit int) ([]domain.AuditEntry, int, error)
}
