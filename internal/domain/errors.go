package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrInvalidPDF          = errors.New("file is not a readable PDF")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrUnknownField        = errors.New("unknown invoice field")
	ErrNoChanges           = errors.New("no field changes detected")
	ErrBlockingVerdicts    = errors.New("document has fields that must be fixed")
	ErrAlreadyAccepted     = errors.New("document already accepted")
	ErrStaleDocument       = errors.New("document changed while it was being accepted")
	ErrUnsupportedExport   = errors.New("unsupported export format")
	ErrExtractionFailed    = errors.New("invoice extraction failed")
)
