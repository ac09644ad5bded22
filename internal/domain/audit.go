package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditAction names an event in a document's review history.
type AuditAction string

const (
	AuditDocumentUploaded    AuditAction = "document.uploaded"
	AuditExtractionCompleted AuditAction = "document.extraction_completed"
	AuditExtractionFailed    AuditAction = "document.extraction_failed"
	AuditFieldsUpdated       AuditAction = "document.fields_updated"
	AuditDocumentRevalidated AuditAction = "document.revalidated"
	AuditDocumentAccepted    AuditAction = "document.accepted"
)

// AuditEntry is one event in a document's review history.
type AuditEntry struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	DocumentID uuid.UUID       `db:"document_id" json:"document_id"`
	Actor      string          `db:"actor" json:"actor"`
	Action     AuditAction     `db:"action" json:"action"`
	Changes    json.RawMessage `db:"changes" json:"changes"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// FieldChange records one edited value.
type FieldChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}
