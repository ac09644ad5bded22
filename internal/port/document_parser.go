package port

import (
	"context"
	"encoding/json"
)

// ParseInput carries the data needed to extract invoice fields from a document.
type ParseInput struct {
	FileBytes   []byte
	ContentType string
	FileName    string
	SessionID   string // agent conversation to run in; providers without sessions ignore it
}

// ParseOutput holds the raw extraction payload returned by a provider.
type ParseOutput struct {
	Payload         json.RawMessage
	Provider        string
	ModelUsed       string
	PromptUsed      string
	FieldProvenance map[string]string // which provider supplied each field (merge mode only)
	SecondaryModel  string
}

// DocumentParser abstracts LLM-based invoice extraction.
type DocumentParser interface {
	Parse(ctx context.Context, input ParseInput) (*ParseOutput, error)
}
