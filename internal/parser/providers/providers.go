// Package providers registers every built-in extraction provider with the
// parser factory.
package providers

import (
	"invoicedesk/internal/config"
	"invoicedesk/internal/parser"
	"invoicedesk/internal/parser/adk"
	"invoicedesk/internal/parser/claude"
	"invoicedesk/internal/parser/gemini"
	"invoicedesk/internal/parser/openai"
	"invoicedesk/internal/port"
)

// Register makes "adk", "gemini", "openai" and "claude" available to
// parser.NewFromConfig. The agent settings are shared by every adk entry.
func Register(agent *config.AgentConfig) {
	parser.RegisterProvider("adk", func(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
		return adk.NewParser(cfg, agent), nil
	})
	parser.RegisterProvider("gemini", func(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
		return gemini.NewParser(cfg), nil
	})
	parser.RegisterProvider("openai", func(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
		return openai.NewParser(cfg), nil
	})
	parser.RegisterProvider("claude", func(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
		return claude.NewParser(cfg), nil
	})
}

// Build registers the providers and assembles the configured chain.
func Build(cfg *config.ParserConfig) (port.DocumentParser, error) {
	Register(&cfg.Agent)
	return parser.NewFromConfig(cfg)
}
