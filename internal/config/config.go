package config

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Groq completion service configuration
	Groq GroqConfig

	// Supabase data store configuration
	Supabase SupabaseConfig

	// Redis configuration (optional, backs the question history journal)
	Redis RedisConfig

	// Authentication configuration
	Auth AuthConfig

	// Server configuration
	Server ServerConfig

	// Query processing configuration
	Query QueryConfig
}

// GroqConfig holds completion service configuration
type GroqConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// SupabaseConfig holds the transactional data store configuration
type SupabaseConfig struct {
	URL     string
	AnonKey string
	Timeout time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig holds authentication configuration.
// An empty JWTSecret disables authentication entirely.
type AuthConfig struct {
	JWTSecret string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port    string
	GinMode string
}

// QueryConfig holds question processing configuration
type QueryConfig struct {
	DemoMode    bool
	HistorySize int
}

// Loader handles loading configuration from various sources
type Loader struct {
	provider SecretProvider
}

// NewLoader creates a new configuration loader with the given secret provider
func NewLoader(provider SecretProvider) *Loader {
	return &Loader{
		provider: provider,
	}
}

// NewDefaultLoader creates a loader with the default provider chain:
// 1. File-based secrets (if mounted)
// 2. Environment variables (fallback)
func NewDefaultLoader() *Loader {
	return &Loader{
		provider: NewChainProvider(
			NewFileProvider("/var/secrets"),
			NewEnvProvider(),
		),
	}
}

// Load loads the complete configuration
func (l *Loader) Load(ctx context.Context) (*Config, error) {
	cfg := &Config{}

	cfg.Groq = GroqConfig{
		APIKey:  l.getString(ctx, "GROQ_API_KEY", ""),
		Model:   l.getString(ctx, "GROQ_MODEL", "llama3-8b-8192"),
		BaseURL: l.getString(ctx, "GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		Timeout: l.getDuration(ctx, "GROQ_TIMEOUT", 30*time.Second),
	}

	cfg.Supabase = SupabaseConfig{
		URL:     l.getString(ctx, "SUPABASE_URL", ""),
		AnonKey: l.getString(ctx, "SUPABASE_ANON_KEY", ""),
		Timeout: l.getDuration(ctx, "SUPABASE_TIMEOUT", 10*time.Second),
	}

	cfg.Redis = RedisConfig{
		Addr:     l.getString(ctx, "REDIS_ADDR", ""),
		Password: l.getString(ctx, "REDIS_PASSWORD", ""),
		DB:       l.getInt(ctx, "REDIS_DB", 0),
	}

	cfg.Auth = AuthConfig{
		JWTSecret: l.getString(ctx, "JWT_SECRET", ""),
	}

	cfg.Server = ServerConfig{
		Port:    l.getString(ctx, "PORT", "8080"),
		GinMode: l.getString(ctx, "GIN_MODE", "debug"),
	}

	cfg.Query = QueryConfig{
		DemoMode:    l.getBool(ctx, "DEMO_MODE", true),
		HistorySize: l.getInt(ctx, "HISTORY_SIZE", 50),
	}

	return cfg, nil
}

// MustLoad loads configuration and panics on error, for application startup
func (l *Loader) MustLoad(ctx context.Context) *Config {
	cfg, err := l.Load(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Helper methods for retrieving and parsing configuration values

func (l *Loader) getString(ctx context.Context, key, defaultValue string) string {
	value, err := l.provider.GetSecret(ctx, key)
	if err != nil || value == "" {
		return defaultValue
	}
	return value
}

func (l *Loader) getBool(ctx context.Context, key string, defaultValue bool) bool {
	value, err := l.provider.GetSecret(ctx, key)
	if err != nil || value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func (l *Loader) getInt(ctx context.Context, key string, defaultValue int) int {
	value, err := l.provider.GetSecret(ctx, key)
	if err != nil || value == "" {
		return defaultValue
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return i
}

func (l *Loader) getDuration(ctx context.Context, key string, defaultValue time.Duration) time.Duration {
	value, err := l.provider.GetSecret(ctx, key)
	if err != nil || value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
