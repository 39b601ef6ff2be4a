// Package training holds a fixed table of pre-written answers for common
// business analytics questions, matched by keyword overlap. No external AI
// dependencies; matching is rule based and side-effect free.
package training

import (
	"strings"
	"unicode"
)

// confidenceThreshold is the minimum keyword overlap ratio for a match.
// Matching uses threshold-overlap scoring rather than strict keyword-subset
// matching; the two policies draw different accept boundaries and this table
// was tuned for the former.
const confidenceThreshold = 0.3

// Answer is a pre-written response returned verbatim on a confident match
type Answer struct {
	Answer string        `json:"answer"`
	Why    []interface{} `json:"why"`
}

type qaPair struct {
	keywords []string
	answer   string
}

// qaPairs is the fixed training table. Order is significant: on tied scores
// the earlier entry wins.
var qaPairs = []qaPair{
	{
		keywords: []string{"revenue", "sales", "income", "earnings"},
		answer:   "Revenue represents the total income generated from sales of goods or services. To track revenue, monitor monthly/quarterly sales figures, identify peak seasons, and compare year-over-year growth. Analyze revenue by product line or customer segment to understand which areas drive the most income.",
	},
	{
		keywords: []string{"growth", "increase", "expand", "scale"},
		answer:   "Business growth can be measured by revenue increase, customer acquisition rate, market expansion, and product development. Focus on sustainable growth by monitoring: 1) YoY growth percentage, 2) Customer retention, 3) Market share, 4) Operational efficiency. Set realistic growth targets based on industry benchmarks and your resources.",
	},
	{
		keywords: []string{"performance", "metrics", "kpi", "efficiency"},
		answer:   "Performance is measured through Key Performance Indicators (KPIs) specific to your business. Common metrics include: revenue growth, profit margin, customer acquisition cost (CAC), lifetime value (LTV), conversion rate, and operational efficiency. Track these metrics regularly and compare against historical data and industry standards to identify trends.",
	},
	{
		keywords: []string{"trend", "pattern", "analysis", "forecast"},
		answer:   "Trend analysis helps identify patterns in your business data over time. Look for seasonal variations, cyclical patterns, and growth trajectories. Tools include: moving averages for smoothing data, year-over-year comparisons, cohort analysis, and forecasting models. Use historical trends to make informed predictions about future performance and adjust strategies accordingly.",
	},
	{
		keywords: []string{"profit", "margin", "cost", "expense"},
		answer:   "Profit margin is calculated as (Revenue - Expenses) / Revenue × 100. Track all costs including: COGS (cost of goods sold), operating expenses, and overhead. Improve profitability by: 1) Increasing revenue per transaction, 2) Reducing variable costs, 3) Optimizing operations. Regular expense audits help identify cost-saving opportunities.",
	},
	{
		keywords: []string{"customer", "client", "market", "segment"},
		answer:   "Understanding your customer segments is crucial for targeted growth. Analyze: demographics, purchase behavior, lifetime value by segment, and retention rates. Segment customers by: acquisition channel, revenue contribution, product preference, and engagement level. Use these insights to tailor marketing, pricing, and product development strategies.",
	},
}

// Match finds a trained answer for the question. The second return value is
// false when no entry reaches the confidence threshold.
func Match(question string) (*Answer, bool) {
	if strings.TrimSpace(question) == "" {
		return nil, false
	}

	questionWords := wordSet(question)

	var best *qaPair
	bestScore := 0.0
	for i := range qaPairs {
		score := overlapScore(questionWords, qaPairs[i].keywords)
		if score > bestScore {
			bestScore = score
			best = &qaPairs[i]
		}
	}

	if best == nil || bestScore < confidenceThreshold {
		return nil, false
	}

	return &Answer{
		Answer: best.answer,
		Why:    []interface{}{},
	}, true
}

// overlapScore is the ratio of table keywords present in the question
func overlapScore(questionWords map[string]bool, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}

	overlap := 0
	for _, kw := range keywords {
		if questionWords[kw] {
			overlap++
		}
	}
	return float64(overlap) / float64(len(keywords))
}

// wordSet normalizes the question (lowercase, punctuation stripped, collapsed
// whitespace) and returns its distinct words
func wordSet(text string) map[string]bool {
	var sb strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		sb.WriteRune(r)
	}

	words := make(map[string]bool)
	for _, w := range strings.Fields(sb.String()) {
		words[w] = true
	}
	return words
}
