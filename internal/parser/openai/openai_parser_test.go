package openai

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
	"invoicedesk/internal/testutil"
)

func withText(p *Parser, text string) *Parser {
	p.textOf = func([]byte) (string, error) { return text, nil }
	return p
}

func pdfInput() port.ParseInput {
	return port.ParseInput{FileBytes: []byte("%PDF-1.4"), ContentType: "application/pdf"}
}

func TestParse_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body["model"])
		format := body["response_format"].(map[string]any)
		assert.Equal(t, "json_object", format["type"])
		msgs := body["messages"].([]any)
		require.Len(t, msgs, 2)
		assert.Contains(t, msgs[1].(map[string]any)["content"], "FATURA FT 2024/17")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini-2024-07-18",
			"choices": []any{map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": `{"DocumentID":"FT 2024/17","DocumentTotal":"100.00"}`,
				},
			}},
		})
	}))
	defer srv.Close()

	p := withText(NewParser(&config.ParserProviderConfig{APIKey: "sk-test", Endpoint: srv.URL}), "FATURA FT 2024/17\nTotal 100,00")
	out, err := p.Parse(context.Background(), pdfInput())
	require.NoError(t, err)
	assert.Equal(t, "openai", out.Provider)
	assert.Equal(t, "gpt-4o-mini-2024-07-18", out.ModelUsed)
	assert.JSONEq(t, `{"DocumentID":"FT 2024/17","DocumentTotal":"100.00"}`, string(out.Payload))
}

func TestParse_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
	}))
	defer srv.Close()

	p := withText(NewParser(&config.ParserProviderConfig{Endpoint: srv.URL}), "some text")
	_, err := p.Parse(context.Background(), pdfInput())
	var rl *parser.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "openai", rl.Provider)
}

func TestParse_NoTextLayer(t *testing.T) {
	p := NewParser(&config.ParserProviderConfig{Endpoint: "http://127.0.0.1:0"})
	_, err := p.Parse(context.Background(), port.ParseInput{
		FileBytes:   testutil.MinimalPDF(1),
		ContentType: "application/pdf",
	})
	assert.ErrorIs(t, err, ErrNoText)
}

func TestParse_UnreadablePDF(t *testing.T) {
	p := NewParser(&config.ParserProviderConfig{Endpoint: "http://127.0.0.1:0"})
	_, err := p.Parse(context.Background(), port.ParseInput{FileBytes: []byte("nope"), ContentType: "application/pdf"})
	assert.Error(t, err)
}
