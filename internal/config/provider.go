package config

import "context"

// SecretProvider reads one configuration value by key. A key the provider
// does not know yields an empty string, not an error; errors are reserved
// for the source itself misbehaving.
type SecretProvider interface {
	GetSecret(ctx context.Context, key string) (string, error)
	IsAvailable(ctx context.Context) bool
}

// ChainProvider fronts an ordered list of sources. In this service that is
// file-mounted secrets first, then the process environment: a mounted secret
// always beats an inherited env var.
type ChainProvider struct {
	providers []SecretProvider
}

// NewChainProvider creates a chain over the given providers, tried in order
func NewChainProvider(providers ...SecretProvider) *ChainProvider {
	return &ChainProvider{
		providers: providers,
	}
}

// GetSecret returns the first non-empty value any available provider holds.
// A key no provider knows is empty, letting the loader's defaults apply.
func (c *ChainProvider) GetSecret(ctx context.Context, key string) (string, error) {
	for _, provider := range c.providers {
		if !provider.IsAvailable(ctx) {
			continue
		}

		value, err := provider.GetSecret(ctx, key)
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
	}
	return "", nil
}

// IsAvailable reports whether any provider in the chain is available
func (c *ChainProvider) IsAvailable(ctx context.Context) bool {
	for _, provider := range c.providers {
		if provider.IsAvailable(ctx) {
			return true
		}
	}
	return false
}
