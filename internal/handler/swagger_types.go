package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// ValidateRequest is the body of POST /validate.
type ValidateRequest struct {
	Fields map[string]string `json:"fields" binding:"required" example:"VendorName:Fornecedor Lda,VendorTaxID:123456789"`
}

// UpdateFieldsRequest is the body of PUT /documents/{id}/fields.
type UpdateFieldsRequest struct {
	Fields map[string]string `json:"fields" binding:"required" example:"DocumentID:FT A/17"`
}

// --- Response Types ---

// FieldDefinition describes one invoice field.
type FieldDefinition struct {
	Name  string `json:"name" example:"VendorTaxID"`
	Label string `json:"label" example:"NIF do Fornecedor"`
}

// DownloadURLResponse carries a presigned link to the stored PDF.
type DownloadURLResponse struct {
	DownloadURL string `json:"download_url" example:"https://s3.eu-west-1.amazonaws.com/invoicedesk-uploads/...?X-Amz-Signature=..."`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"document deleted"`
}

// Response wraps a successful response.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
