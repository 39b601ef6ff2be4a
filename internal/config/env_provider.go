package config

import (
	"context"
	"os"
	"strings"
)

// EnvProvider reads settings from process environment variables. Values are
// trimmed so quoted-and-padded .env entries behave like their file-mounted
// counterparts.
type EnvProvider struct{}

// NewEnvProvider creates a new environment variable provider
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

// GetSecret reads a value from the environment; unset keys are empty
func (e *EnvProvider) GetSecret(ctx context.Context, key string) (string, error) {
	return strings.TrimSpace(os.Getenv(key)), nil
}

// IsAvailable always returns true, the environment is always present
func (e *EnvProvider) IsAvailable(ctx context.Context) bool {
	return true
}
