package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ReviewDocument is an uploaded invoice together with its extracted fields and
// the latest validation report.
type ReviewDocument struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	FileName        string          `db:"file_name" json:"file_name"`
	ContentType     string          `db:"content_type" json:"content_type"`
	FileSize        int64           `db:"file_size" json:"file_size"`
	PageCount       int             `db:"page_count" json:"page_count"`
	S3Bucket        string          `db:"s3_bucket" json:"-"`
	S3Key           string          `db:"s3_key" json:"-"`
	Status          DocumentStatus  `db:"status" json:"status"`
	Provider        string          `db:"provider" json:"provider"`
	ModelUsed       string          `db:"model_used" json:"model_used,omitempty"`
	ExtractionError string          `db:"extraction_error" json:"extraction_error,omitempty"`
	Attempts        int             `db:"extraction_attempts" json:"extraction_attempts"`
	RetryAfter      *time.Time      `db:"retry_after" json:"retry_after,omitempty"`
	Provenance      json.RawMessage `db:"field_provenance" json:"field_provenance,omitempty"`
	Fields          json.RawMessage `db:"fields" json:"fields"`
	Extras          json.RawMessage `db:"extras" json:"extras"`
	Report          json.RawMessage `db:"report" json:"report"`
	GoodCount       int             `db:"good_count" json:"good_count"`
	WarningCount    int             `db:"warning_count" json:"warning_count"`
	BadCount        int             `db:"bad_count" json:"bad_count"`
	UploadedBy      string          `db:"uploaded_by" json:"uploaded_by"`
	ReviewedBy      string          `db:"reviewed_by" json:"reviewed_by,omitempty"`
	AcceptedAt      *time.Time      `db:"accepted_at" json:"accepted_at,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// FieldSet decodes the stored field values.
func (d *ReviewDocument) FieldSet() (FieldSet, error) {
	fs := FieldSet{}
	if len(d.Fields) > 0 {
		if err := json.Unmarshal(d.Fields, &fs); err != nil {
			return nil, err
		}
	}
	return fs.Clone(), nil
}

// ValidationReport decodes the stored validation report.
func (d *ReviewDocument) ValidationReport() (ValidationReport, error) {
	r := ValidationReport{}
	if len(d.Report) == 0 {
		return r, nil
	}
	if err := json.Unmarshal(d.Report, &r); err != nil {
		return nil, err
	}
	return r, nil
}

// ExtraValues decodes the extraction-only values kept alongside the fields.
func (d *ReviewDocument) ExtraValues() (map[string]string, error) {
	m := map[string]string{}
	if len(d.Extras) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(d.Extras, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ValidationSummary aggregates a report into per-severity counts.
type ValidationSummary struct {
	Total         int      `json:"total"`
	Good          int      `json:"good"`
	Warning       int      `json:"warning"`
	Bad           int      `json:"bad"`
	OverallStatus Severity `json:"overall_status"`
	CanAccept     bool     `json:"can_accept"`
}
