package intent

import (
	"strings"
)

// metricPhrase maps a literal question phrase to a metric. Longer phrases
// are listed before shorter overlapping ones so the most specific wins.
type metricPhrase struct {
	phrase string
	metric Metric
}

var metricPhrases = []metricPhrase{
	{"expenses", MetricExpenses},
	{"expense", MetricExpenses},
	{"spending", MetricExpenses},
	{"revenue", MetricRevenue},
	{"income", MetricRevenue},
	{"profit", MetricProfit},
	{"sales", MetricSales},
}

type timeRangePhrase struct {
	phrase    string
	timeRange TimeRange
}

var timeRangePhrases = []timeRangePhrase{
	{"last 7 days", TimeRangeLast7Days},
	{"last seven days", TimeRangeLast7Days},
	{"past 7 days", TimeRangeLast7Days},
	{"past week", TimeRangeLast7Days},
	{"last week", TimeRangeLast7Days},
	{"previous month", TimeRangeLastMonth},
	{"past month", TimeRangeLastMonth},
	{"last month", TimeRangeLastMonth},
	{"today", TimeRangeToday},
}

// KeywordExtractor recovers an intent from fixed phrase vocabularies without
// calling any external service. It only answers when both a metric and a
// time range are literally present in the question.
type KeywordExtractor struct{}

// NewKeywordExtractor creates a new keyword extractor
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

// Extract attempts to synthesize an intent from the question. The second
// return value is false when either the metric or the time range is missing.
func (k *KeywordExtractor) Extract(question string) (Intent, bool) {
	lowered := strings.ToLower(question)

	var metric Metric
	found := false
	for _, mp := range metricPhrases {
		if strings.Contains(lowered, mp.phrase) {
			metric = mp.metric
			found = true
			break
		}
	}
	if !found {
		return Intent{}, false
	}

	var timeRange TimeRange
	found = false
	for _, tp := range timeRangePhrases {
		if strings.Contains(lowered, tp.phrase) {
			timeRange = tp.timeRange
			found = true
			break
		}
	}
	if !found {
		return Intent{}, false
	}

	return Intent{
		Metric:      metric,
		TimeRange:   timeRange,
		Comparison:  ComparisonNone,
		Breakdown:   BreakdownNone,
		WhyAnalysis: containsWord(lowered, "why"),
	}, true
}

// containsWord reports whether text contains word as a whole token
func containsWord(text, word string) bool {
	for _, token := range strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9')
	}) {
		if token == word {
			return true
		}
	}
	return false
}
