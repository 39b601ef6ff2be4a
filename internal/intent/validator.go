package intent

import (
	"context"

	"github.com/insightloop/bizquery/internal/observability"
)

// maxAttempts bounds how many times the extractor is consulted per question.
// One transient malformed response is tolerated; the second failure degrades
// to a clarification request.
const maxAttempts = 2

// Validator resolves a question to a guaranteed-valid Intent or a
// clarification request, never anything else.
type Validator struct {
	extractor Extractor
	fallback  *KeywordExtractor
	logger    *observability.Logger
}

// NewValidator creates a validator over the given extractor
func NewValidator(extractor Extractor) *Validator {
	return &Validator{
		extractor: extractor,
		fallback:  NewKeywordExtractor(),
		logger:    observability.NewLogger("intent-validator"),
	}
}

// Resolve runs the extraction pipeline: extract, recover via keyword matching
// when extraction declines or misbehaves, retry once, then give up with a
// clarification request.
func (v *Validator) Resolve(ctx context.Context, question string) Resolution {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		candidate := v.extractor.Extract(ctx, question)

		if isClarificationMarker(candidate) {
			if recovered, ok := v.fallback.Extract(question); ok {
				observability.GetGlobalMetrics().Inc(observability.MetricFallbackExtractions, nil)
				v.logger.Info(ctx, "Recovered intent via keyword fallback", map[string]interface{}{
					"metric":     recovered.Metric,
					"time_range": recovered.TimeRange,
				})
				return Resolved(recovered)
			}
			continue
		}

		if parsed, ok := parseIntent(candidate); ok {
			return Resolved(parsed)
		}

		// Malformed shape from the extractor. The keyword fallback gets a
		// chance here too, so deterministic questions never end in
		// clarification because of a misbehaving model.
		if recovered, ok := v.fallback.Extract(question); ok {
			observability.GetGlobalMetrics().Inc(observability.MetricFallbackExtractions, nil)
			return Resolved(recovered)
		}

		v.logger.Warn(ctx, "Extractor returned an invalid intent shape", map[string]interface{}{
			"attempt": attempt,
		})
	}

	return Clarify()
}

// isClarificationMarker reports whether the candidate is exactly
// {"clarification_required": true} and nothing else. Any other combination
// involving that key is an invalid shape, not a clarification signal.
func isClarificationMarker(candidate map[string]interface{}) bool {
	if candidate == nil {
		return false
	}
	flag, present := candidate["clarification_required"]
	if !present {
		return false
	}
	required, isBool := flag.(bool)
	return isBool && required && len(candidate) == 1
}

// parseIntent converts a candidate object into a typed Intent. All five
// fields must be present and enum-valid, and why_analysis must be strictly
// boolean. Extra keys beyond the required five are tolerated.
func parseIntent(candidate map[string]interface{}) (Intent, bool) {
	if candidate == nil {
		return Intent{}, false
	}
	if _, present := candidate["clarification_required"]; present {
		return Intent{}, false
	}

	metric, ok := stringField(candidate, "metric")
	if !ok || !Metric(metric).Valid() {
		return Intent{}, false
	}
	timeRange, ok := stringField(candidate, "time_range")
	if !ok || !TimeRange(timeRange).Valid() {
		return Intent{}, false
	}
	comparison, ok := stringField(candidate, "comparison")
	if !ok || !Comparison(comparison).Valid() {
		return Intent{}, false
	}
	breakdown, ok := stringField(candidate, "breakdown")
	if !ok || !Breakdown(breakdown).Valid() {
		return Intent{}, false
	}
	whyRaw, present := candidate["why_analysis"]
	if !present {
		return Intent{}, false
	}
	why, isBool := whyRaw.(bool)
	if !isBool {
		return Intent{}, false
	}

	return Intent{
		Metric:      Metric(metric),
		TimeRange:   TimeRange(timeRange),
		Comparison:  Comparison(comparison),
		Breakdown:   Breakdown(breakdown),
		WhyAnalysis: why,
	}, true
}

func stringField(candidate map[string]interface{}, key string) (string, bool) {
	raw, present := candidate[key]
	if !present {
		return "", false
	}
	value, isString := raw.(string)
	return value, isString
}
