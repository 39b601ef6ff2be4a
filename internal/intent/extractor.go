package intent

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/insightloop/bizquery/internal/llm"
	"github.com/insightloop/bizquery/internal/observability"
)

// extractionPrompt enumerates the exact allowed field values and the
// JSON-only output rule for the completion service
const extractionPrompt = `You are an intent extractor for business analytics queries.
Extract intent from the user's question and return ONLY valid JSON.

Return ONLY JSON with this structure:
{
  "metric": "revenue | profit | expenses | sales",
  "time_range": "today | last_7_days | last_month",
  "comparison": "none | previous_period",
  "breakdown": "none | product | category",
  "why_analysis": true | false
}

If the intent is unclear, return:
{"clarification_required": true}

Rules:
- Return ONLY valid JSON
- No explanations
- No markdown
- No extra text
- No additional fields`

// Extractor produces a candidate intent object from a question. The returned
// map is unvalidated; the Validator decides what it means.
type Extractor interface {
	Extract(ctx context.Context, question string) map[string]interface{}
}

// LLMExtractor extracts intent candidates via the completion service
type LLMExtractor struct {
	client llm.Client
	logger *observability.Logger
}

// NewLLMExtractor creates an extractor backed by the given completion client
func NewLLMExtractor(client llm.Client) *LLMExtractor {
	return &LLMExtractor{
		client: client,
		logger: observability.NewLogger("intent-extractor"),
	}
}

// Extract sends the question to the completion service and parses the
// response. Transport and parse failures are absorbed into the clarification
// marker; this method never surfaces an error to callers.
func (e *LLMExtractor) Extract(ctx context.Context, question string) map[string]interface{} {
	raw, err := e.client.Complete(ctx, extractionPrompt, question)
	if err != nil {
		e.logger.Warn(ctx, "Completion request failed, treating as unclear intent", map[string]interface{}{
			"error": err.Error(),
		})
		return clarificationMarker()
	}

	var candidate map[string]interface{}
	if err := json.Unmarshal([]byte(stripFences(raw)), &candidate); err != nil {
		e.logger.Warn(ctx, "Completion response was not valid JSON", map[string]interface{}{
			"response": raw,
		})
		return clarificationMarker()
	}

	return candidate
}

func clarificationMarker() map[string]interface{} {
	return map[string]interface{}{"clarification_required": true}
}

var fenceRegexp = regexp.MustCompile("```(?:json)?\n?((?s).*?)\n?```")

// stripFences removes a markdown code fence if the model wrapped its JSON in
// one despite the prompt rules
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if matches := fenceRegexp.FindStringSubmatch(s); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	return s
}
