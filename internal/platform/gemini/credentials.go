package gemini

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// KeySource looks up a candidate API key. An empty result means the source
// has nothing to offer.
type KeySource func() string

// StaticKey returns a KeySource that always offers key.
func StaticKey(key string) KeySource {
	return func() string { return key }
}

// EnvKey returns a KeySource that reads the environment variable name at
// lookup time.
func EnvKey(name string) KeySource {
	return func() string { return os.Getenv(name) }
}

// CredentialProvider holds the API key selected for generation calls. It
// implements access.CapabilityProvider.
type CredentialProvider struct {
	sources []KeySource
	logger  *slog.Logger

	mu  sync.RWMutex
	key string
}

// NewCredentialProvider creates a provider that selects the first non-empty
// key offered by sources, in order.
func NewCredentialProvider(logger *slog.Logger, sources ...KeySource) *CredentialProvider {
	return &CredentialProvider{
		sources: sources,
		logger:  logger.With("component", "gemini_credentials"),
	}
}

// HasAccess reports whether a key is currently selected.
func (p *CredentialProvider) HasAccess(ctx context.Context) (bool, error) {
	return p.APIKey() != "", nil
}

// RequestAccess selects a key from the configured sources.
func (p *CredentialProvider) RequestAccess(ctx context.Context) error {
	for _, source := range p.sources {
		key := strings.TrimSpace(source())
		if key == "" {
			continue
		}

		p.mu.Lock()
		p.key = key
		p.mu.Unlock()

		p.logger.InfoContext(ctx, "API key selected")
		return nil
	}

	return ErrNoAPIKey
}

// APIKey returns the selected key, or "" when none is selected.
func (p *CredentialProvider) APIKey() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.key
}

// Clear drops the selected key.
func (p *CredentialProvider) Clear() {
	p.mu.Lock()
	p.key = ""
	p.mu.Unlock()

	p.logger.Info("API key cleared")
}
