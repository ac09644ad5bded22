package providers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/config"
	"invoicedesk/internal/parser"
	"invoicedesk/internal/parser/adk"
	"invoicedesk/internal/parser/providers"
)

func TestRegister(t *testing.T) {
	providers.Register(&config.AgentConfig{BaseURL: "http://agent.test", AppName: "invoices", UserID: "user0"})

	names := parser.RegisteredProviders()
	for _, want := range []string{"adk", "claude", "gemini", "openai"} {
		assert.Contains(t, names, want)
	}
}

func TestBuild_SingleProvider(t *testing.T) {
	p, err := providers.Build(&config.ParserConfig{
		Mode:    "fallback",
		Primary: config.ParserProviderConfig{Provider: "adk"},
		Agent:   config.AgentConfig{BaseURL: "http://agent.test"},
	})
	require.NoError(t, err)
	assert.IsType(t, &adk.Parser{}, p)
}

func TestBuild_FallbackChain(t *testing.T) {
	p, err := providers.Build(&config.ParserConfig{
		Mode:      "fallback",
		Primary:   config.ParserProviderConfig{Provider: "adk"},
		Secondary: config.ParserProviderConfig{Provider: "gemini", APIKey: "k"},
	})
	require.NoError(t, err)
	assert.IsType(t, &parser.FallbackParser{}, p)
}

func TestBuild_UnknownProvider(t *testing.T) {
	_, err := providers.Build(&config.ParserConfig{Primary: config.ParserProviderConfig{Provider: "nope"}})
	assert.Error(t, err)
}
