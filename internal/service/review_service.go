package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"invoicedesk/internal/config"
	"invoicedesk/internal/domain"
	"invoicedesk/internal/export"
	"invoicedesk/internal/parser"
	"invoicedesk/internal/pdftext"
	"invoicedesk/internal/port"
	"invoicedesk/internal/validator"
)

const exportPageSize = 100

// UploadInput is the DTO for uploading an invoice PDF.
type UploadInput struct {
	File       io.Reader
	FileName   string
	Size       int64
	UploadedBy string
}

// FieldChanges maps field names to edited values as sent by a reviewer.
type FieldChanges map[string]string

// ValidationView is a field-by-field report with its summary.
type ValidationView struct {
	Fields       []validator.FieldStatus `json:"fields"`
	Summary      domain.ValidationSummary `json:"summary"`
	Blocking     []domain.FieldName       `json:"blocking_fields"`
	Unrecognized []string                 `json:"unrecognized_fields,omitempty"`
}

// ReviewService defines the invoice review contract.
type ReviewService interface {
	Upload(ctx context.Context, input UploadInput) (*domain.ReviewDocument, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.ReviewDocument, error)
	List(ctx context.Context, status domain.DocumentStatus, offset, limit int) ([]domain.ReviewDocument, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateFields(ctx context.Context, id uuid.UUID, changes FieldChanges, reviewer string) (*domain.ReviewDocument, error)
	Revalidate(ctx context.Context, id uuid.UUID, actor string) (*domain.ReviewDocument, error)
	Reextract(ctx context.Context, id uuid.UUID, actor string) (*domain.ReviewDocument, error)
	Accept(ctx context.Context, id uuid.UUID, reviewer string) (*domain.ReviewDocument, error)
	Validation(ctx context.Context, id uuid.UUID) (*ValidationView, error)
	DownloadURL(ctx context.Context, id uuid.UUID) (string, error)
	Export(ctx context.Context, id uuid.UUID, format domain.ExportFormat, w io.Writer) (*domain.ReviewDocument, error)
	ExportList(ctx context.Context, status domain.DocumentStatus, w io.Writer) error
	ValidateFields(fields map[string]string) *ValidationView
	History(ctx context.Context, id uuid.UUID, offset, limit int) ([]domain.AuditEntry, int, error)
}

type reviewService struct {
	repo      port.ReviewDocumentRepository
	auditRepo port.AuditRepository
	storage   port.ObjectStorage
	parser    port.DocumentParser
	validator validator.Validator
	cfg       *config.S3Config
	now       func() time.Time
}

// NewReviewService creates a new ReviewService implementation. auditRepo may
// be nil, in which case no history is kept.
func NewReviewService(
	repo port.ReviewDocumentRepository,
	auditRepo port.AuditRepository,
	storage port.ObjectStorage,
	docParser port.DocumentParser,
	v validator.Validator,
	cfg *config.S3Config,
) ReviewService {
	return &reviewService{
		repo:      repo,
		auditRepo: auditRepo,
		storage:   storage,
		parser:    docParser,
		validator: v,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *reviewService) Upload(ctx context.Context, input UploadInput) (*domain.ReviewDocument, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.FileName), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(input.File, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	contentType := domain.AllowedFileTypes[fileType]
	if _, ok := domain.AllowedContentTypes[http.DetectContentType(data)]; !ok || !pdftext.HasMagic(data) {
		return nil, domain.ErrUnsupportedFileType
	}

	pages, err := pdftext.PageCount(data)
	if err != nil || pages == 0 {
		log.Printf("reviewService.Upload: %s is not a readable PDF: %v", input.FileName, err)
		return nil, domain.ErrInvalidPDF
	}

	id := uuid.New()
	doc := &domain.ReviewDocument{
		ID:          id,
		FileName:    filepath.Base(input.FileName),
		ContentType: contentType,
		FileSize:    int64(len(data)),
		PageCount:   pages,
		S3Bucket:    s.cfg.Bucket,
		S3Key:       fmt.Sprintf("documents/%s/%s", id, filepath.Base(input.FileName)),
		Status:      domain.DocumentStatusUploaded,
		UploadedBy:  input.UploadedBy,
	}

	log.Printf("reviewService.Upload: uploading %s (%d bytes, %d pages) by %s",
		doc.FileName, doc.FileSize, pages, input.UploadedBy)

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      doc.S3Bucket,
		Key:         doc.S3Key,
		Body:        bytes.NewReader(data),
		ContentType: contentType,
		Size:        doc.FileSize,
	}); err != nil {
		log.Printf("reviewService.Upload: storage upload failed for %s: %v", id, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		if delErr := s.storage.Delete(ctx, doc.S3Bucket, doc.S3Key); delErr != nil {
			log.Printf("reviewService.Upload: cleanup of %s failed: %v", doc.S3Key, delErr)
		}
		return nil, fmt.Errorf("creating document: %w", err)
	}

	s.audit(ctx, doc.ID, input.UploadedBy, domain.AuditDocumentUploaded, map[string]any{
		"file_name": doc.FileName,
		"file_size": doc.FileSize,
		"pages":     pages,
	})

	if err := s.extractAndSave(ctx, doc, data, input.UploadedBy); err != nil {
		return nil, err
	}
	return doc, nil
}

// audit records a review event. Failures are logged but never block the operation.
func (s *reviewService) audit(ctx context.Context, docID uuid.UUID, actor string, action domain.AuditAction, changes any) {
	if s.auditRepo == nil {
		return
	}
	raw, err := json.Marshal(changes)
	if err != nil {
		log.Printf("reviewService.audit: encoding %s changes for %s: %v", action, docID, err)
		raw = nil
	}
	entry := &domain.AuditEntry{
		ID:         uuid.New(),
		DocumentID: docID,
		Actor:      actor,
		Action:     action,
		Changes:    raw,
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("reviewService.audit: failed to write audit entry for %s/%s: %v", action, docID, err)
	}
}

// extractAndSave runs extraction and validation on data and persists the
// outcome. A failed extraction is stored with an all-empty field set.
func (s *reviewService) extractAndSave(ctx context.Context, doc *domain.ReviewDocument, data []byte, actor string) error {
	doc.Attempts++
	out, err := s.parser.Parse(ctx, port.ParseInput{
		FileBytes:   data,
		ContentType: doc.ContentType,
		FileName:    doc.FileName,
		SessionID:   doc.ID.String(),
	})

	var ext *parser.Extraction
	if err == nil {
		ext, err = parser.DecodePayload(out.Payload)
	}

	if err != nil {
		log.Printf("reviewService.extract: document %s extraction failed: %v", doc.ID, err)
		doc.Status = domain.DocumentStatusExtractionFailed
		doc.ExtractionError = err.Error()
		doc.RetryAfter = nil
		if wait, limited := parser.RetryAfter(err); limited {
			retryAt := s.now().UTC().Add(wait)
			doc.RetryAfter = &retryAt
		}
		ext = &parser.Extraction{Fields: domain.FieldSetFromMap(nil), Extras: map[string]string{}}
	} else {
		doc.Status = domain.DocumentStatusExtracted
		doc.ExtractionError = ""
		doc.RetryAfter = nil
		doc.Provider = out.Provider
		doc.ModelUsed = out.ModelUsed
		doc.Provenance = nil
		if len(out.FieldProvenance) > 0 {
			if b, jsonErr := json.Marshal(out.FieldProvenance); jsonErr == nil {
				doc.Provenance = b
			}
		}
		log.Printf("reviewService.extract: document %s extracted by %s", doc.ID, out.Provider)
	}

	extras, err := json.Marshal(ext.Extras)
	if err != nil {
		return fmt.Errorf("encoding extras: %w", err)
	}
	doc.Extras = extras

	if err := s.applyValidation(doc, ext.Fields); err != nil {
		return err
	}
	if err := s.repo.UpdateReview(ctx, doc); err != nil {
		return fmt.Errorf("saving extraction result: %w", err)
	}

	if doc.Status == domain.DocumentStatusExtractionFailed {
		s.audit(ctx, doc.ID, actor, domain.AuditExtractionFailed, map[string]any{
			"attempt":     doc.Attempts,
			"error":       doc.ExtractionError,
			"retry_after": doc.RetryAfter,
		})
	} else {
		s.audit(ctx, doc.ID, actor, domain.AuditExtractionCompleted, map[string]any{
			"attempt":  doc.Attempts,
			"provider": doc.Provider,
			"model":    doc.ModelUsed,
			"bad":      doc.BadCount,
			"warning":  doc.WarningCount,
		})
	}
	return nil
}

// applyValidation stores fields on doc together with a fresh report and counts.
func (s *reviewService) applyValidation(doc *domain.ReviewDocument, fields domain.FieldSet) error {
	report := s.validator.ValidateAll(fields)
	summary := validator.Summarize(report)

	fieldsJSON, err := json.Marshal(fields.Clone())
	if err != nil {
		return fmt.Errorf("encoding fields: %w", err)
	}
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	doc.Fields = fieldsJSON
	doc.Report = reportJSON
	doc.GoodCount = summary.Good
	doc.WarningCount = summary.Warning
	doc.BadCount = summary.Bad
	return nil
}

func (s *reviewService) Get(ctx context.Context, id uuid.UUID) (*domain.ReviewDocument, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *reviewService) List(ctx context.Context, status domain.DocumentStatus, offset, limit int) ([]domain.ReviewDocument, int, error) {
	return s.repo.List(ctx, status, offset, limit)
}

func (s *reviewService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, doc.S3Bucket, doc.S3Key); err != nil {
		log.Printf("reviewService.Delete: storage delete failed for %s: %v", doc.S3Key, err)
	}
	return s.repo.Delete(ctx, id)
}

// UpdateFields applies reviewer edits. Unrecognized names and unchanged values
// are ignored; when nothing is left to apply ErrNoChanges is returned.
func (s *reviewService) UpdateFields(ctx context.Context, id uuid.UUID, changes FieldChanges, reviewer string) (*domain.ReviewDocument, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.DocumentStatusAccepted {
		return nil, domain.ErrAlreadyAccepted
	}

	fields, err := doc.FieldSet()
	if err != nil {
		return nil, fmt.Errorf("decoding fields: %w", err)
	}

	var applied []string
	diff := make(map[string]domain.FieldChange, len(changes))
	for key, value := range changes {
		name := domain.FieldName(key)
		if !name.IsKnown() {
			log.Printf("reviewService.UpdateFields: ignoring unknown field %q on %s", key, id)
			continue
		}
		if fields.Get(name) == value {
			continue
		}
		diff[key] = domain.FieldChange{Old: fields.Get(name), New: value}
		fields[name] = value
		applied = append(applied, key)
	}
	if len(applied) == 0 {
		return nil, domain.ErrNoChanges
	}
	sort.Strings(applied)

	doc.ReviewedBy = reviewer
	if err := s.applyValidation(doc, fields); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateReview(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving field changes: %w", err)
	}
	log.Printf("reviewService.UpdateFields: %s updated %v on %s", reviewer, applied, id)
	s.audit(ctx, id, reviewer, domain.AuditFieldsUpdated, diff)
	return doc, nil
}

func (s *reviewService) Revalidate(ctx context.Context, id uuid.UUID, actor string) (*domain.ReviewDocument, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fields, err := doc.FieldSet()
	if err != nil {
		return nil, fmt.Errorf("decoding fields: %w", err)
	}
	if err := s.applyValidation(doc, fields); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateReview(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving validation: %w", err)
	}
	s.audit(ctx, id, actor, domain.AuditDocumentRevalidated, map[string]int{
		"good":    doc.GoodCount,
		"warning": doc.WarningCount,
		"bad":     doc.BadCount,
	})
	return doc, nil
}

// Reextract downloads the stored PDF and runs extraction again, replacing
// any reviewer edits.
func (s *reviewService) Reextract(ctx context.Context, id uuid.UUID, actor string) (*domain.ReviewDocument, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.DocumentStatusAccepted {
		return nil, domain.ErrAlreadyAccepted
	}
	data, err := s.storage.Download(ctx, doc.S3Bucket, doc.S3Key)
	if err != nil {
		return nil, fmt.Errorf("downloading document: %w", err)
	}
	if err := s.extractAndSave(ctx, doc, data, actor); err != nil {
		return nil, err
	}
	return doc, nil
}

// Accept revalidates the stored fields and marks the document accepted when
// no field is Bad.
func (s *reviewService) Accept(ctx context.Context, id uuid.UUID, reviewer string) (*domain.ReviewDocument, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.DocumentStatusAccepted {
		return nil, domain.ErrAlreadyAccepted
	}

	fields, err := doc.FieldSet()
	if err != nil {
		return nil, fmt.Errorf("decoding fields: %w", err)
	}
	report := s.validator.ValidateAll(fields)
	if blocking := validator.BlockingFields(report); len(blocking) > 0 {
		names := make([]string, len(blocking))
		for i, f := range blocking {
			names[i] = string(f)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrBlockingVerdicts, strings.Join(names, ", "))
	}

	doc.ReviewedBy = reviewer
	if err := s.applyValidation(doc, fields); err != nil {
		return nil, err
	}

	acceptedAt := s.now().UTC()
	doc.AcceptedAt = &acceptedAt
	if err := s.repo.MarkAccepted(ctx, doc); err != nil {
		return nil, err
	}
	doc.Status = domain.DocumentStatusAccepted
	log.Printf("reviewService.Accept: document %s accepted by %s", id, reviewer)
	s.audit(ctx, id, reviewer, domain.AuditDocumentAccepted, map[string]int{
		"good":    doc.GoodCount,
		"warning": doc.WarningCount,
	})
	return doc, nil
}

func (s *reviewService) Validation(ctx context.Context, id uuid.UUID) (*ValidationView, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fields, err := doc.FieldSet()
	if err != nil {
		return nil, fmt.Errorf("decoding fields: %w", err)
	}
	report, err := doc.ValidationReport()
	if err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return newValidationView(fields, report), nil
}

func (s *reviewService) DownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.storage.PresignedURL(ctx, doc.S3Bucket, doc.S3Key, time.Duration(s.cfg.PresignExpiry)*time.Second)
}

func (s *reviewService) Export(ctx context.Context, id uuid.UUID, format domain.ExportFormat, w io.Writer) (*domain.ReviewDocument, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fields, err := doc.FieldSet()
	if err != nil {
		return nil, fmt.Errorf("decoding fields: %w", err)
	}
	report, err := doc.ValidationReport()
	if err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	if err := export.Document(w, format, fields, report); err != nil {
		return nil, err
	}
	return doc, nil
}

// ExportList writes every document matching status as one CSV, page by page.
func (s *reviewService) ExportList(ctx context.Context, status domain.DocumentStatus, w io.Writer) error {
	if _, err := w.Write(export.BOM); err != nil {
		return err
	}
	cw := export.NewWriter(w)
	if err := cw.WriteDocumentHeader(); err != nil {
		return err
	}
	for offset := 0; ; offset += exportPageSize {
		docs, total, err := s.repo.List(ctx, status, offset, exportPageSize)
		if err != nil {
			return err
		}
		if err := cw.WriteDocuments(docs); err != nil {
			return err
		}
		if len(docs) < exportPageSize || offset+len(docs) >= total {
			break
		}
	}
	cw.Flush()
	return cw.Error()
}

// ValidateFields validates a field map without touching storage. Unknown
// names are reported back and otherwise ignored.
func (s *reviewService) ValidateFields(fields map[string]string) *ValidationView {
	fs := domain.FieldSetFromMap(fields)
	view := newValidationView(fs, s.validator.ValidateAll(fs))
	for key := range fields {
		if !domain.FieldName(key).IsKnown() {
			view.Unrecognized = append(view.Unrecognized, key)
		}
	}
	sort.Strings(view.Unrecognized)
	return view
}

// History lists the review events of a document, newest first.
func (s *reviewService) History(ctx context.Context, id uuid.UUID, offset, limit int) ([]domain.AuditEntry, int, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, 0, err
	}
	if s.auditRepo == nil {
		return []domain.AuditEntry{}, 0, nil
	}
	return s.auditRepo.ListByDocument(ctx, id, offset, limit)
}

func newValidationView(fields domain.FieldSet, report domain.ValidationReport) *ValidationView {
	blocking := validator.BlockingFields(report)
	if blocking == nil {
		blocking = []domain.FieldName{}
	}
	return &ValidationView{
		Fields:   validator.ComputeFieldStatuses(fields, report),
		Summary:  validator.Summarize(report),
		Blocking: blocking,
	}
}

