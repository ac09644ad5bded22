package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/port"
)

type auditRepo struct {
	db *sqlx.DB
}

// NewAuditRepo creates a new PostgreSQL-backed AuditRepository.
func NewAuditRepo(db *sqlx.DB) port.AuditRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) Create(ctx context.Context, entry *domain.AuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO review_audit_log (id, document_id, actor, action, changes)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.DocumentID, entry.Actor, entry.Action, orEmpty(entry.Changes))
	if err != nil {
		return fmt.Errorf("auditRepo.Create: %w", err)
	}
	return nil
}

func (r *auditRepo) ListByDocument(ctx context.Context, documentID uuid.UUID, offset, limit int) ([]domain.AuditEntry, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM review_audit_log WHERE document_id = $1`, documentID)
	if err != nil {
		return nil, 0, fmt.Errorf("auditRepo.ListByDocument count: %w", err)
	}

	entries := []domain.AuditEntry{}
	err = r.db.SelectContext(ctx, &entries,
		`SELECT * FROM review_audit_log
		 WHERE document_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		documentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("auditRepo.ListByDocument: %w", err)
	}
	return entries, total, nil
}
