package adk

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/config"
	"invoicedesk/internal/parser"
	"invoicedesk/internal/port"
)

const sessionPath = "/apps/invoices/users/user0/sessions/doc-1"

func newTestParser(url string) *Parser {
	return NewParser(
		&config.ParserProviderConfig{Provider: "adk", Endpoint: url},
		&config.AgentConfig{AppName: "invoices", UserID: "user0"},
	)
}

func TestParse_CreatesSessionAndRuns(t *testing.T) {
	var created atomic.Bool
	pdf := []byte("%PDF-1.4 test")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == sessionPath:
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPost && r.URL.Path == sessionPath:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]any{}, body["state"])
			created.Store(true)
			_, _ = w.Write([]byte(`{"id":"doc-1"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/run":
			var body runRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "invoices", body.AppName)
			assert.Equal(t, "user0", body.UserID)
			assert.Equal(t, "doc-1", body.SessionID)
			assert.Equal(t, "user", body.NewMessage.Role)
			require.Len(t, body.NewMessage.Parts, 2)
			assert.Equal(t, parser.ExtractionRequestText, body.NewMessage.Parts[0].Text)
			require.NotNil(t, body.NewMessage.Parts[1].InlineData)
			assert.Equal(t, "application/pdf", body.NewMessage.Parts[1].InlineData.MimeType)
			assert.Equal(t, base64.StdEncoding.EncodeToString(pdf), body.NewMessage.Parts[1].InlineData.Data)

			_, _ = w.Write([]byte(`[{"content":{"parts":[{"text":"` +
				"```json\\n{\\\"DocumentID\\\": \\\"FT 1/2024\\\", \\\"DocumentTotal\\\": 12.5}\\n```" +
				`"}]}}]`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	out, err := newTestParser(srv.URL).Parse(context.Background(), port.ParseInput{
		FileBytes:   pdf,
		ContentType: "application/pdf",
		SessionID:   "doc-1",
	})
	require.NoError(t, err)
	assert.True(t, created.Load())
	assert.Equal(t, "adk", out.Provider)
	assert.JSONEq(t, `{"DocumentID":"FT 1/2024","DocumentTotal":12.5}`, string(out.Payload))
}

func TestParse_ExistingSessionSkipsCreate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`{}`))
		case r.URL.Path == "/run":
			_, _ = w.Write([]byte(`[{"content":{"parts":[{"text":"{\"VendorName\":\"ACME\"}"}]}}]`))
		default:
			t.Errorf("session should not be recreated: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	out, err := newTestParser(srv.URL).Parse(context.Background(), port.ParseInput{SessionID: "doc-1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"VendorName":"ACME"}`, string(out.Payload))
}

func TestParse_DefaultSession(t *testing.T) {
	var runSession string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/run" {
			var body runRequest
			_ = json.NewDecoder(r.Body).Decode(&body)
			runSession = body.SessionID
			_, _ = w.Write([]byte(`[{"content":{"parts":[{"text":"{}"}]}}]`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestParser(srv.URL).Parse(context.Background(), port.ParseInput{})
	require.NoError(t, err)
	assert.Equal(t, defaultSessionID, runSession)
}

func TestParse_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/run" {
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestParser(srv.URL).Parse(context.Background(), port.ParseInput{SessionID: "doc-1"})
	require.Error(t, err)
	wait, ok := parser.RetryAfter(err)
	assert.True(t, ok)
	assert.Equal(t, "7s", wait.String())
}

func TestParse_NoJSONInEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/run" {
			_, _ = w.Write([]byte(`[{"content":{"parts":[{"text":"I could not read this file."}]}}]`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestParser(srv.URL).Parse(context.Background(), port.ParseInput{SessionID: "doc-1"})
	assert.ErrorIs(t, err, parser.ErrNoJSONObject)
}

func TestEventText_EmptyList(t *testing.T) {
	_, err := eventText([]byte(`[]`))
	assert.Error(t, err)
}
