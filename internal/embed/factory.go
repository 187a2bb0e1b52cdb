package embed

import (
	"fmt"
	"strings"
)

// ProviderType represents an embedding provider.
type ProviderType string

const (
	// ProviderOpenAI uses an OpenAI-compatible embeddings API.
	ProviderOpenAI ProviderType = "openai"

	// ProviderStatic uses hash-based embeddings (offline, deterministic).
	ProviderStatic ProviderType = "static"
)

// FactoryConfig selects and configures an embedding provider.
type FactoryConfig struct {
	Provider  ProviderType
	OpenAI    OpenAIConfig
	CacheSize int
	NoCache   bool
}

// NewEmbedder creates an embedder for the configured provider, wrapped
// with an LRU cache unless NoCache is set. An unknown provider is an
// error rather than a silent fallback.
func NewEmbedder(cfg FactoryConfig) (Embedder, error) {
	var embedder Embedder
	var err error

	switch cfg.Provider {
	case ProviderOpenAI:
		embedder, err = NewOpenAIEmbedder(cfg.OpenAI)
	case ProviderStatic, "":
		embedder = NewStaticEmbedder()
	default:
		return nil, fmt.Errorf("unknown embedding provider %q (valid: %s)",
			cfg.Provider, strings.Join(ValidProviders(), ", "))
	}
	if err != nil {
		return nil, err
	}

	if !cfg.NoCache {
		embedder = NewCachedEmbedder(embedder, cfg.CacheSize)
	}
	return embedder, nil
}

// ParseProvider converts a string to a ProviderType. Unrecognized names
// default to the static provider so the system stays usable offline.
func ParseProvider(s string) ProviderType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "openai":
		return ProviderOpenAI
	default:
		return ProviderStatic
	}
}

// String returns the string representation of the provider.
func (p ProviderType) String() string {
	return string(p)
}

// ValidProviders returns all valid provider names.
func ValidProviders() []string {
	return []string{
		string(ProviderOpenAI),
		string(ProviderStatic),
	}
}

// IsValidProvider checks if a provider name is valid.
func IsValidProvider(s string) bool {
	lower := strings.ToLower(s)
	for _, p := range ValidProviders() {
		if lower == p {
			return true
		}
	}
	return false
}
