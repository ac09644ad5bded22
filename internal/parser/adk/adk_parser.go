// Package adk talks to an agent server that runs the invoice extraction agent.
package adk

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"invoicedesk/internal/config"
	"invoicedesk/internal/parser"
	"invoicedesk/internal/port"
)

const (
	providerName     = "adk"
	defaultSessionID = "session0"
)

// Parser implements port.DocumentParser against the agent server's
// session and /run endpoints.
type Parser struct {
	baseURL string
	appName string
	userID  string
	model   string
	client  *http.Client
}

// NewParser creates an agent-backed parser.
func NewParser(cfg *config.ParserProviderConfig, agent *config.AgentConfig) *Parser {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 90 * time.Second
	}
	baseURL := agent.BaseURL
	if cfg.Endpoint != "" {
		baseURL = cfg.Endpoint
	}
	model := cfg.DefaultModel
	if model == "" {
		model = agent.AppName
	}
	return &Parser{
		baseURL: strings.TrimRight(baseURL, "/"),
		appName: agent.AppName,
		userID:  agent.UserID,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type runRequest struct {
	AppName    string `json:"app_name"`
	UserID     string `json:"user_id"`
	SessionID  string `json:"session_id"`
	NewMessage struct {
		Role  string `json:"role"`
		Parts []part `json:"parts"`
	} `json:"new_message"`
}

type event struct {
	Content struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"content"`
}

func (p *Parser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	if err := p.ensureSession(ctx, sessionID); err != nil {
		return nil, err
	}

	var body runRequest
	body.AppName = p.appName
	body.UserID = p.userID
	body.SessionID = sessionID
	body.NewMessage.Role = "user"
	body.NewMessage.Parts = []part{
		{Text: parser.ExtractionRequestText},
		{InlineData: &inlineData{
			MimeType: "application/pdf",
			Data:     base64.StdEncoding.EncodeToString(input.FileBytes),
		}},
	}

	respBody, err := p.do(ctx, http.MethodPost, p.baseURL+"/run", body)
	if err != nil {
		return nil, err
	}

	text, err := eventText(respBody)
	if err != nil {
		return nil, err
	}
	obj, err := parser.ExtractJSONObject(text)
	if err != nil {
		return nil, err
	}

	return &port.ParseOutput{
		Payload:    json.RawMessage(obj),
		Provider:   providerName,
		ModelUsed:  p.model,
		PromptUsed: parser.ExtractionRequestText,
	}, nil
}

func (p *Parser) sessionURL(sessionID string) string {
	return fmt.Sprintf("%s/apps/%s/users/%s/sessions/%s", p.baseURL,
		url.PathEscape(p.appName), url.PathEscape(p.userID), url.PathEscape(sessionID))
}

// ensureSession creates the session when the server does not know it yet.
func (p *Parser) ensureSession(ctx context.Context, sessionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.sessionURL(sessionID), http.NoBody)
	if err != nil {
		return fmt.Errorf("creating session request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("checking agent session: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	log.Printf("adk.Parser: creating session %s for %s/%s", sessionID, p.appName, p.userID)
	_, err = p.do(ctx, http.MethodPost, p.sessionURL(sessionID), map[string]any{"state": map[string]any{}})
	return err
}

func (p *Parser) do(ctx context.Context, method, target string, payload any) ([]byte, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling agent server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, parser.StatusError(providerName, resp, respBody)
	}
	return respBody, nil
}

// eventText returns the text of the first event carrying a JSON object,
// which for a single-turn run is the first event.
func eventText(body []byte) (string, error) {
	var events []event
	if err := json.Unmarshal(body, &events); err != nil {
		return "", fmt.Errorf("unmarshaling agent events: %w", err)
	}
	if len(events) == 0 {
		return "", fmt.Errorf("empty response from agent: no events")
	}
	for _, ev := range events {
		for _, pt := range ev.Content.Parts {
			if strings.Contains(pt.Text, "{") {
				return pt.Text, nil
			}
		}
	}
	return "", fmt.Errorf("%w: agent returned %d events without text", parser.ErrNoJSONObject, len(events))
}
