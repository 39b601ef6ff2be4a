// Package intent turns natural-language business questions into a validated,
// fixed-shape query intent, with an LLM extractor, a deterministic keyword
// fallback, and a bounded-retry validator in front of both.
package intent

// Metric identifies the business measure a question asks about
type Metric string

const (
	MetricRevenue  Metric = "revenue"
	MetricProfit   Metric = "profit"
	MetricExpenses Metric = "expenses"
	MetricSales    Metric = "sales"
)

// Valid reports whether the metric is one of the allowed values
func (m Metric) Valid() bool {
	switch m {
	case MetricRevenue, MetricProfit, MetricExpenses, MetricSales:
		return true
	}
	return false
}

// TimeRange identifies the reporting window a question asks about
type TimeRange string

const (
	TimeRangeToday     TimeRange = "today"
	TimeRangeLast7Days TimeRange = "last_7_days"
	TimeRangeLastMonth TimeRange = "last_month"
)

// Valid reports whether the time range is one of the allowed values
func (t TimeRange) Valid() bool {
	switch t {
	case TimeRangeToday, TimeRangeLast7Days, TimeRangeLastMonth:
		return true
	}
	return false
}

// Comparison identifies whether the question asks to compare against a baseline
type Comparison string

const (
	ComparisonNone           Comparison = "none"
	ComparisonPreviousPeriod Comparison = "previous_period"
)

// Valid reports whether the comparison is one of the allowed values
func (c Comparison) Valid() bool {
	return c == ComparisonNone || c == ComparisonPreviousPeriod
}

// Breakdown identifies an optional grouping dimension
type Breakdown string

const (
	BreakdownNone     Breakdown = "none"
	BreakdownProduct  Breakdown = "product"
	BreakdownCategory Breakdown = "category"
)

// Valid reports whether the breakdown is one of the allowed values
func (b Breakdown) Valid() bool {
	switch b {
	case BreakdownNone, BreakdownProduct, BreakdownCategory:
		return true
	}
	return false
}

// Intent is a fully validated query intent. An Intent value always carries
// all five fields within their enumerated domains; partial intents never
// leave this package.
type Intent struct {
	Metric      Metric     `json:"metric"`
	TimeRange   TimeRange  `json:"time_range"`
	Comparison  Comparison `json:"comparison"`
	Breakdown   Breakdown  `json:"breakdown"`
	WhyAnalysis bool       `json:"why_analysis"`
}

// Valid reports whether every field is within its enumerated domain
func (i Intent) Valid() bool {
	return i.Metric.Valid() && i.TimeRange.Valid() && i.Comparison.Valid() && i.Breakdown.Valid()
}

// Resolution is the outcome of intent resolution: either a valid Intent or a
// clarification request, never anything in between.
type Resolution struct {
	Intent        *Intent
	Clarification bool
}

// Resolved wraps a valid intent into a resolution
func Resolved(i Intent) Resolution {
	return Resolution{Intent: &i}
}

// Clarify returns the clarification-needed resolution
func Clarify() Resolution {
	return Resolution{Clarification: true}
}

// NeedsClarification reports whether the resolution carries no usable intent
func (r Resolution) NeedsClarification() bool {
	return r.Intent == nil
}
