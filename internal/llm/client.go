package llm

import (
	"context"
	"time"
)

// Client interface for the external completion service
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Config holds configuration for completion clients
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}
