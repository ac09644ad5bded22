package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/service"
)

// ValidationHandler serves stateless validation and the field catalogue.
type ValidationHandler struct {
	reviewService service.ReviewService
}

// NewValidationHandler creates a new ValidationHandler.
func NewValidationHandler(reviewService service.ReviewService) *ValidationHandler {
	return &ValidationHandler{reviewService: reviewService}
}

// Validate handles POST /api/v1/validate
// @Summary Validate invoice fields
// @Description Validate a field map without storing anything. Unknown names are reported and ignored.
// @Tags validation
// @Accept json
// @Produce json
// @Param request body ValidateRequest true "Field values keyed by field name"
// @Success 200 {object} Response{data=service.ValidationView}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Security BearerAuth
// @Router /validate [post]
func (h *ValidationHandler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Fields == nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "fields object is required")
		return
	}
	RespondOK(c, h.reviewService.ValidateFields(req.Fields))
}

// Fields handles GET /api/v1/fields
// @Summary List invoice fields
// @Description Field names with their display labels, in display order
// @Tags validation
// @Produce json
// @Success 200 {object} Response{data=[]FieldDefinition}
// @Router /fields [get]
func (h *ValidationHandler) Fields(c *gin.Context) {
	defs := make([]FieldDefinition, 0, len(domain.AllFields))
	for _, f := range domain.AllFields {
		defs = append(defs, FieldDefinition{Name: string(f), Label: f.Label()})
	}
	RespondOK(c, defs)
}
