package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/config"
)

func TestParserConfig_Chain_PrimaryOnly(t *testing.T) {
	cfg := config.ParserConfig{
		Primary: config.ParserProviderConfig{Provider: "adk"},
	}

	chain := cfg.Chain()

	require.Len(t, chain, 1)
	assert.Equal(t, "adk", chain[0].Provider)
	assert.Nil(t, cfg.SecondaryConfig())
	assert.Nil(t, cfg.TertiaryConfig())
}

func TestParserConfig_Chain_AllProviders(t *testing.T) {
	cfg := config.ParserConfig{
		Primary:   config.ParserProviderConfig{Provider: "adk"},
		Secondary: config.ParserProviderConfig{Provider: "gemini", APIKey: "gk"},
		Tertiary:  config.ParserProviderConfig{Provider: "openai", APIKey: "sk"},
	}

	chain := cfg.Chain()

	require.Len(t, chain, 3)
	assert.Equal(t, "adk", chain[0].Provider)
	assert.Equal(t, "gemini", chain[1].Provider)
	assert.Equal(t, "gk", chain[1].APIKey)
	assert.Equal(t, "openai", chain[2].Provider)
}

func TestJWTConfig_Enabled(t *testing.T) {
	assert.False(t, (&config.JWTConfig{}).Enabled())
	assert.True(t, (&config.JWTConfig{Secret: "s"}).Enabled())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("INVOICEDESK_SERVER_PORT", ":9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "adk", cfg.Parser.Primary.Provider)
	assert.Equal(t, "invoices", cfg.Parser.Agent.AppName)
	assert.Equal(t, []string{"EUR", "USD", "GBP", "BRL", "JPY", "CHF", "CAD", "AUD"}, cfg.Validation.Currencies)
	assert.Len(t, cfg.Validation.DocumentTypes, 6)
	assert.Equal(t, 1825, cfg.Validation.MaxAgeDays)
	assert.Equal(t, "0.01", cfg.Validation.TotalTolerance)
	assert.Equal(t, "user0", cfg.JWT.DefaultUser)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INVOICEDESK_VALIDATION_CURRENCIES", "eur, usd ,")
	t.Setenv("INVOICEDESK_PARSER_SECONDARY_PROVIDER", "openai")
	t.Setenv("INVOICEDESK_PARSER_SECONDARY_API_KEY", "sk-test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"eur", "usd"}, cfg.Validation.Currencies)
	require.NotNil(t, cfg.Parser.SecondaryConfig())
	assert.Equal(t, "sk-test", cfg.Parser.SecondaryConfig().APIKey)
}

func TestLoad_RetryDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.Retry.Enabled)
	assert.Equal(t, "15s", cfg.Retry.PollInterval.String())
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
}
