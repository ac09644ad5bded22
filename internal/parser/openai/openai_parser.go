package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"invoicedesk/internal/config"
	"invoicedesk/internal/parser"
	"invoicedesk/internal/pdftext"
	"invoicedesk/internal/port"
)

const providerName = "openai"

// ErrNoText is returned for PDFs without a text layer, such as scans.
var ErrNoText = errors.New("document has no extractable text")

// Parser implements port.DocumentParser with the OpenAI Chat Completions API.
// The PDF's text layer is sent instead of the file itself.
type Parser struct {
	client *goopenai.Client
	model  string
	textOf func([]byte) (string, error)
}

// NewParser creates an OpenAI-based document parser. A non-empty
// cfg.Endpoint replaces the API base URL.
func NewParser(cfg *config.ParserProviderConfig) *Parser {
	model := cfg.DefaultModel
	if model == "" {
		model = goopenai.GPT4oMini
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientCfg.BaseURL = cfg.Endpoint
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Parser{
		client: goopenai.NewClientWithConfig(clientCfg),
		model:  model,
		textOf: pdftext.ExtractText,
	}
}

func (p *Parser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	if input.ContentType != "application/pdf" {
		return nil, fmt.Errorf("unsupported content type for parsing: %s", input.ContentType)
	}

	text, err := p.textOf(input.FileBytes)
	if err != nil {
		return nil, fmt.Errorf("reading PDF text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}

	prompt := parser.BuildInvoicePrompt()
	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: p.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: prompt},
			{Role: goopenai.ChatMessageRoleUser, Content: parser.ExtractionRequestText + "\n\n<document>\n" + text + "\n</document>"},
		},
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, mapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API: no choices")
	}

	obj, err := parser.ExtractJSONObject(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	model := resp.Model
	if model == "" {
		model = p.model
	}
	return &port.ParseOutput{
		Payload:    json.RawMessage(obj),
		Provider:   providerName,
		ModelUsed:  model,
		PromptUsed: prompt,
	}, nil
}

// mapError turns HTTP 429 responses into parser.RateLimitError.
func mapError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return parser.NewRateLimitError(providerName, err, 0)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return parser.NewRateLimitError(providerName, err, 0)
	}
	return fmt.Errorf("calling openai API: %w", err)
}
