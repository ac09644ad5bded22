package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/export"
	"invoicedesk/internal/middleware"
	"invoicedesk/internal/service"
)

// ReviewHandler handles invoice upload, review and export endpoints.
type ReviewHandler struct {
	reviewService service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Upload handles POST /api/v1/documents
// @Summary Upload an invoice
// @Description Upload a PDF invoice. Fields are extracted and validated before the response.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Invoice PDF"
// @Success 201 {object} Response{data=domain.ReviewDocument} "Document stored and extracted"
// @Failure 400 {object} ErrorResponseBody "Missing file, unsupported type or unreadable PDF"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 500 {object} ErrorResponseBody "Upload failed"
// @Security BearerAuth
// @Router /documents [post]
func (h *ReviewHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	doc, err := h.reviewService.Upload(c.Request.Context(), service.UploadInput{
		File:       file,
		FileName:   header.Filename,
		Size:       header.Size,
		UploadedBy: middleware.GetReviewer(c),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

// List handles GET /api/v1/documents
// @Summary List documents
// @Description List uploaded invoices, newest first
// @Tags documents
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Param status query string false "Filter by status" Enums(uploaded, extracted, extraction_failed, accepted)
// @Success 200 {object} Response{data=[]domain.ReviewDocument,meta=PagMeta}
// @Failure 400 {object} ErrorResponseBody "Invalid status"
// @Security BearerAuth
// @Router /documents [get]
func (h *ReviewHandler) List(c *gin.Context) {
	status, ok := parseStatus(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	docs, total, err := h.reviewService.List(c.Request.Context(), status, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/documents/:id
// @Summary Get document by ID
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=domain.ReviewDocument}
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *ReviewHandler) GetByID(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	doc, err := h.reviewService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// UpdateFields handles PUT /api/v1/documents/:id/fields
// @Summary Edit and confirm fields
// @Description Apply reviewer edits and revalidate. Unknown names and unchanged values are ignored.
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param request body UpdateFieldsRequest true "Edited values"
// @Success 200 {object} Response{data=domain.ReviewDocument}
// @Failure 400 {object} ErrorResponseBody "Invalid request or no changes"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 409 {object} ErrorResponseBody "Document already accepted"
// @Security BearerAuth
// @Router /documents/{id}/fields [put]
func (h *ReviewHandler) UpdateFields(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	var req UpdateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Fields == nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "fields object is required")
		return
	}

	doc, err := h.reviewService.UpdateFields(c.Request.Context(), id, req.Fields, middleware.GetReviewer(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Revalidate handles POST /api/v1/documents/:id/revalidate
// @Summary Revalidate a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=domain.ReviewDocument}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/revalidate [post]
func (h *ReviewHandler) Revalidate(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	doc, err := h.reviewService.Revalidate(c.Request.Context(), id, middleware.GetReviewer(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Reextract handles POST /api/v1/documents/:id/reextract
// @Summary Extract fields again
// @Description Re-run extraction on the stored PDF. Reviewer edits are replaced.
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=domain.ReviewDocument}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 409 {object} ErrorResponseBody "Document already accepted"
// @Security BearerAuth
// @Router /documents/{id}/reextract [post]
func (h *ReviewHandler) Reextract(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	doc, err := h.reviewService.Reextract(c.Request.Context(), id, middleware.GetReviewer(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Validation handles GET /api/v1/documents/:id/validation
// @Summary Field-by-field validation report
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=service.ValidationView}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/validation [get]
func (h *ReviewHandler) Validation(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	view, err := h.reviewService.Validation(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// Accept handles POST /api/v1/documents/:id/accept
// @Summary Accept a document
// @Description Accept the invoice when no field has a blocking verdict
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=domain.ReviewDocument}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 409 {object} ErrorResponseBody "Blocking verdicts or already accepted"
// @Security BearerAuth
// @Router /documents/{id}/accept [post]
func (h *ReviewHandler) Accept(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	doc, err := h.reviewService.Accept(c.Request.Context(), id, middleware.GetReviewer(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Download handles GET /api/v1/documents/:id/download
// @Summary Presigned download link
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=DownloadURLResponse}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/download [get]
func (h *ReviewHandler) Download(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	url, err := h.reviewService.DownloadURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, DownloadURLResponse{DownloadURL: url})
}

// Export handles GET /api/v1/documents/:id/export
// @Summary Export fields
// @Description Download fields and verdicts as a JSON, CSV or XLSX attachment
// @Tags documents
// @Produce json,text/csv,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Document ID (UUID)"
// @Param format query string false "Export format" Enums(json, csv, xlsx) default(json)
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponseBody "Unsupported format"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/export [get]
func (h *ReviewHandler) Export(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(strings.ToLower(c.Query("format")))
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	doc, err := h.reviewService.Export(c.Request.Context(), id, format, &buf)
	if err != nil {
		HandleError(c, err)
		return
	}

	base := strings.TrimSuffix(doc.FileName, filepath.Ext(doc.FileName))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, base, format))
	c.Data(http.StatusOK, export.ContentType(format), buf.Bytes())
}

// ExportList handles GET /api/v1/documents/export
// @Summary Export the document list
// @Description One CSV row per document with every field value and the verdict counts
// @Tags documents
// @Produce text/csv
// @Param status query string false "Filter by status" Enums(uploaded, extracted, extraction_failed, accepted)
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponseBody "Invalid status"
// @Security BearerAuth
// @Router /documents/export [get]
func (h *ReviewHandler) ExportList(c *gin.Context) {
	status, ok := parseStatus(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.reviewService.ExportList(c.Request.Context(), status, &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("faturas-%s.csv", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentType(domain.ExportFormatCSV), buf.Bytes())
}

// History handles GET /api/v1/documents/:id/history
// @Summary Review history
// @Description Uploads, extraction outcomes, field edits and acceptance, newest first
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.AuditEntry,meta=PagMeta}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/history [get]
func (h *ReviewHandler) History(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	entries, total, err := h.reviewService.History(c.Request.Context(), id, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, entries, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Delete handles DELETE /api/v1/documents/:id
// @Summary Delete a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, MessageResponse{Message: "document deleted"})
}
