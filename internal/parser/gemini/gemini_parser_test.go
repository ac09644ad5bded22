package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/config"
	"invoicedesk/internal/parser"
	"invoicedesk/internal/port"
)

func pdfInput() port.ParseInput {
	return port.ParseInput{FileBytes: []byte("%PDF-1.4"), ContentType: "application/pdf", FileName: "a.pdf"}
}

func TestParse_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		contents := body["contents"].([]any)
		parts := contents[0].(map[string]any)["parts"].([]any)
		inline := parts[0].(map[string]any)["inline_data"].(map[string]any)
		assert.Equal(t, "application/pdf", inline["mime_type"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{
					map[string]any{"text": `{"DocumentID":"A-1","Currency":"EUR"}`},
				}},
				"finishReason": "STOP",
			}},
		})
	}))
	defer srv.Close()

	p := NewParser(&config.ParserProviderConfig{APIKey: "test-key", Endpoint: srv.URL})
	out, err := p.Parse(context.Background(), pdfInput())
	require.NoError(t, err)
	assert.Equal(t, "gemini", out.Provider)
	assert.Equal(t, "gemini-1.5-flash", out.ModelUsed)
	assert.JSONEq(t, `{"DocumentID":"A-1","Currency":"EUR"}`, string(out.Payload))
	assert.Contains(t, out.PromptUsed, "json_schema")
}

func TestParse_RejectsNonPDF(t *testing.T) {
	p := NewParser(&config.ParserProviderConfig{Endpoint: "http://127.0.0.1:0"})
	_, err := p.Parse(context.Background(), port.ParseInput{ContentType: "image/png"})
	assert.Error(t, err)
}

func TestParse_RateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"quota"}`))
	}))
	defer srv.Close()

	p := NewParser(&config.ParserProviderConfig{Endpoint: srv.URL})
	_, err := p.Parse(context.Background(), pdfInput())
	var rl *parser.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "gemini", rl.Provider)
}

func TestParseResponse_NoCandidates(t *testing.T) {
	_, err := parseResponse([]byte(`{"candidates":[]}`), "m", "p")
	assert.Error(t, err)
}

func TestParseResponse_NoParts(t *testing.T) {
	_, err := parseResponse([]byte(`{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`), "m", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAFETY")
}
