package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/port"
)

var emptyObject = json.RawMessage(`{}`)

type reviewDocumentRepo struct {
	db *sqlx.DB
}

// NewReviewDocumentRepo creates a PostgreSQL-backed ReviewDocumentRepository.
func NewReviewDocumentRepo(db *sqlx.DB) port.ReviewDocumentRepository {
	return &reviewDocumentRepo{db: db}
}

func orEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return emptyObject
	}
	return raw
}

func (r *reviewDocumentRepo) Create(ctx context.Context, doc *domain.ReviewDocument) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	doc.Fields = orEmpty(doc.Fields)
	doc.Extras = orEmpty(doc.Extras)
	doc.Report = orEmpty(doc.Report)
	doc.Provenance = orEmpty(doc.Provenance)

	_, err := r.db.NamedExecContext(ctx, `INSERT INTO review_documents (
		id, file_name, content_type, file_size, page_count, s3_bucket, s3_key,
		status, provider, model_used, extraction_error, extraction_attempts, retry_after,
		field_provenance, fields, extras, report,
		good_count, warning_count, bad_count, uploaded_by, reviewed_by, accepted_at,
		created_at, updated_at
	) VALUES (
		:id, :file_name, :content_type, :file_size, :page_count, :s3_bucket, :s3_key,
		:status, :provider, :model_used, :extraction_error, :extraction_attempts, :retry_after,
		:field_provenance, :fields, :extras, :report,
		:good_count, :warning_count, :bad_count, :uploaded_by, :reviewed_by, :accepted_at,
		:created_at, :updated_at
	)`, doc)
	if err != nil {
		return fmt.Errorf("reviewDocumentRepo.Create: %w", err)
	}
	return nil
}

func (r *reviewDocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewDocument, error) {
	var doc domain.ReviewDocument
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM review_documents WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("reviewDocumentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

// List returns documents newest first. An empty status lists all of them.
func (r *reviewDocumentRepo) List(ctx context.Context, status domain.DocumentStatus, offset, limit int) ([]domain.ReviewDocument, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM review_documents WHERE ($1 = '' OR status = $1)", string(status))
	if err != nil {
		return nil, 0, fmt.Errorf("reviewDocumentRepo.List count: %w", err)
	}

	docs := []domain.ReviewDocument{}
	err = r.db.SelectContext(ctx, &docs,
		`SELECT * FROM review_documents WHERE ($1 = '' OR status = $1)
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		string(status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("reviewDocumentRepo.List: %w", err)
	}
	return docs, total, nil
}

// ListRetryable returns failed extractions whose rate-limit wait has elapsed,
// oldest retry first.
func (r *reviewDocumentRepo) ListRetryable(ctx context.Context, now time.Time, maxAttempts, limit int) ([]domain.ReviewDocument, error) {
	docs := []domain.ReviewDocument{}
	err := r.db.SelectContext(ctx, &docs,
		`SELECT * FROM review_documents
		 WHERE status = $1 AND retry_after IS NOT NULL AND retry_after <= $2
		   AND extraction_attempts < $3
		 ORDER BY retry_after LIMIT $4`,
		domain.DocumentStatusExtractionFailed, now, maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("reviewDocumentRepo.ListRetryable: %w", err)
	}
	return docs, nil
}

func (r *reviewDocumentRepo) UpdateReview(ctx context.Context, doc *domain.ReviewDocument) error {
	doc.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE review_documents SET
			status = $1, provider = $2, model_used = $3, extraction_error = $4,
			extraction_attempts = $5, retry_after = $6, field_provenance = $7,
			fields = $8, extras = $9, report = $10,
			good_count = $11, warning_count = $12, bad_count = $13,
			reviewed_by = $14, updated_at = $15
		 WHERE id = $16 AND status <> $17`,
		doc.Status, doc.Provider, doc.ModelUsed, doc.ExtractionError,
		doc.Attempts, doc.RetryAfter, orEmpty(doc.Provenance),
		orEmpty(doc.Fields), orEmpty(doc.Extras), orEmpty(doc.Report),
		doc.GoodCount, doc.WarningCount, doc.BadCount,
		doc.ReviewedBy, doc.UpdatedAt,
		doc.ID, domain.DocumentStatusAccepted)
	if err != nil {
		return fmt.Errorf("reviewDocumentRepo.UpdateReview: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return r.missingOrAccepted(ctx, doc.ID)
	}
	return nil
}

// missingOrAccepted explains a guarded update that touched no rows.
func (r *reviewDocumentRepo) missingOrAccepted(ctx context.Context, id uuid.UUID) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return domain.ErrAlreadyAccepted
}

// MarkAccepted stores the final report and accepts the document in one
// statement. It only succeeds while the stored fields are the ones that were
// validated; ErrStaleDocument means they were edited in the meantime.
func (r *reviewDocumentRepo) MarkAccepted(ctx context.Context, doc *domain.ReviewDocument) error {
	doc.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE review_documents SET
			status = $1, reviewed_by = $2, accepted_at = $3, updated_at = $4,
			report = $5, good_count = $6, warning_count = $7, bad_count = $8
		 WHERE id = $9 AND status <> $1 AND fields = $10::jsonb`,
		domain.DocumentStatusAccepted, doc.ReviewedBy, doc.AcceptedAt, doc.UpdatedAt,
		orEmpty(doc.Report), doc.GoodCount, doc.WarningCount, doc.BadCount,
		doc.ID, orEmpty(doc.Fields))
	if err != nil {
		return fmt.Errorf("reviewDocumentRepo.MarkAccepted: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		current, err := r.GetByID(ctx, doc.ID)
		if err != nil {
			return err
		}
		if current.Status != domain.DocumentStatusAccepted {
			return domain.ErrStaleDocument
		}
		return domain.ErrAlreadyAccepted
	}
	doc.Status = domain.DocumentStatusAccepted
	return nil
}

func (r *reviewDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM review_documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("reviewDocumentRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
