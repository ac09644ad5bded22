package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf": FileTypePDF,
}

// DocumentStatus represents the lifecycle of a review document.
type DocumentStatus string

const (
	DocumentStatusUploaded         DocumentStatus = "uploaded"
	DocumentStatusExtracted        DocumentStatus = "extracted"
	DocumentStatusExtractionFailed DocumentStatus = "extraction_failed"
	DocumentStatusAccepted         DocumentStatus = "accepted"
)

// Valid reports whether s is a known document status.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusUploaded, DocumentStatusExtracted, DocumentStatusExtractionFailed, DocumentStatusAccepted:
		return true
	}
	return false
}

// Severity classifies a single field's validity. Ordering only matters for display.
type Severity string

const (
	SeverityGood    Severity = "good"
	SeverityWarning Severity = "warning"
	SeverityBad     Severity = "bad"
)

// Color returns the display colour for the severity.
func (s Severity) Color() string {
	switch s {
	case SeverityGood:
		return "#28a745"
	case SeverityWarning:
		return "#ffc107"
	case SeverityBad:
		return "#dc3545"
	default:
		return "#6c757d"
	}
}

// Icon returns the display icon for the severity.
func (s Severity) Icon() string {
	switch s {
	case SeverityGood:
		return "✅"
	case SeverityWarning:
		return "⚠️"
	case SeverityBad:
		return "❌"
	default:
		return "ℹ️"
	}
}

// rank orders severities from best to worst.
func (s Severity) rank() int {
	switch s {
	case SeverityBad:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// Worse reports whether s is more severe than other.
func (s Severity) Worse(other Severity) bool {
	return s.rank() > other.rank()
}

// VerdictCode is the machine-readable reason attached to a verdict.
type VerdictCode string

const (
	VerdictValid           VerdictCode = "valid"
	VerdictMissingRequired VerdictCode = "missing_required"
	VerdictOptionalEmpty   VerdictCode = "optional_empty"
	VerdictFormatInvalid   VerdictCode = "format_invalid"
	VerdictOutOfRange      VerdictCode = "out_of_range"
	VerdictUnrecognized    VerdictCode = "unrecognized"
	VerdictInconsistent    VerdictCode = "inconsistent"
	VerdictStale           VerdictCode = "stale"
	VerdictFutureDated     VerdictCode = "future_dated"
	VerdictInternal        VerdictCode = "internal"
)

// ExportFormat is a supported export encoding for a review document.
type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)
