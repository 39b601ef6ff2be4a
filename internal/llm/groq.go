package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/insightloop/bizquery/internal/errors"
	"github.com/insightloop/bizquery/internal/observability"
)

const (
	// GroqBaseURL is the OpenAI-compatible endpoint of the Groq API
	GroqBaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel is used when no model is configured
	DefaultModel = "llama3-8b-8192"

	maxTokens   = 512
	temperature = 0.0 // deterministic output for intent extraction
)

// GroqClient implements the Client interface against Groq's
// OpenAI-compatible chat-completions API
type GroqClient struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewGroqClient creates a new Groq completion client. An empty API key is
// accepted at construction time; the key is checked per call so the service
// can start in a degraded posture without credentials.
func NewGroqClient(cfg Config) *GroqClient {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = GroqBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithRequestTimeout(timeout),
	)

	return &GroqClient{
		apiKey: cfg.APIKey,
		model:  model,
		client: client,
	}
}

// Complete sends a system and user prompt to the model and returns the raw
// text of the first choice
func (c *GroqClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.NewCompletionKeyError()
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.F(c.model),
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		}),
		Temperature: openai.F(temperature),
		MaxTokens:   openai.F(int64(maxTokens)),
	})
	observability.RecordCompletionMetrics(time.Since(start), err)
	if err != nil {
		return "", errors.NewCompletionError(err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.NewCompletionError(fmt.Errorf("completion returned no choices"))
	}

	return resp.Choices[0].Message.Content, nil
}
