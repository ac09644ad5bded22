package parser

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"invoicedesk/internal/config"
	"invoicedesk/internal/port"
)

// ProviderFactory is a function that creates a DocumentParser from a provider config.
type ProviderFactory func(cfg *config.ParserProviderConfig) (port.DocumentParser, error)

var (
	providersMu sync.RWMutex
	providers   = map[string]ProviderFactory{}
)

// RegisterProvider registers a parser provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = factory
}

// RegisteredProviders returns the registered provider names, sorted.
func RegisteredProviders() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()
	names := make([]string, 0, len(providers))
	for n := range providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewParser creates a DocumentParser from a provider config using the registered factory.
func NewParser(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
	providersMu.RLock()
	factory, ok := providers[cfg.Provider]
	providersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown parser provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewFromConfig builds the configured provider chain. A single provider is
// returned as is; several are wrapped in a FallbackParser, or a MergeParser
// over the first two when mode is "merge".
func NewFromConfig(cfg *config.ParserConfig) (port.DocumentParser, error) {
	chain := cfg.Chain()
	parsers := make([]port.DocumentParser, 0, len(chain))
	names := make([]string, 0, len(chain))
	for _, pc := range chain {
		p, err := NewParser(pc)
		if err != nil {
			return nil, fmt.Errorf("creating %s parser: %w", pc.Provider, err)
		}
		parsers = append(parsers, p)
		names = append(names, pc.Provider)
	}

	if cfg.Mode == "merge" && len(parsers) >= 2 {
		log.Printf("parser.NewFromConfig: merge mode (%s + %s)", names[0], names[1])
		return NewMergeParser(parsers[0], parsers[1]), nil
	}
	if len(parsers) == 1 {
		return parsers[0], nil
	}
	log.Printf("parser.NewFromConfig: fallback chain %v", names)
	return NewFallbackParser(parsers, names), nil
}
