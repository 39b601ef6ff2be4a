package observability

import (
	"sync"
	"time"
)

// MetricType represents the type of metric
type MetricType string

const (
	MetricTypeCounter   MetricType = "counter"
	MetricTypeGauge     MetricType = "gauge"
	MetricTypeHistogram MetricType = "histogram"
)

// Metric represents a single metric
type Metric struct {
	Name      string                 `json:"name"`
	Type      MetricType             `json:"type"`
	Value     float64                `json:"value"`
	Labels    map[string]string      `json:"labels,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

// MetricsCollector collects and stores application metrics
type MetricsCollector struct {
	mu      sync.RWMutex
	metrics map[string]*Metric
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*Metric),
	}
}

func metricKey(name string, labels map[string]string) string {
	key := name
	for k, v := range labels {
		key += "." + k + "=" + v
	}
	return key
}

// Inc increments a counter metric
func (mc *MetricsCollector) Inc(name string, labels map[string]string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	key := metricKey(name, labels)
	if metric, exists := mc.metrics[key]; exists {
		metric.Value++
		metric.Timestamp = time.Now()
	} else {
		mc.metrics[key] = &Metric{
			Name:      name,
			Type:      MetricTypeCounter,
			Value:     1,
			Labels:    labels,
			Timestamp: time.Now(),
		}
	}
}

// Set sets a gauge metric value
func (mc *MetricsCollector) Set(name string, value float64, labels map[string]string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	key := metricKey(name, labels)
	mc.metrics[key] = &Metric{
		Name:      name,
		Type:      MetricTypeGauge,
		Value:     value,
		Labels:    labels,
		Timestamp: time.Now(),
	}
}

// Observe records a histogram observation tracking count, sum and running average
func (mc *MetricsCollector) Observe(name string, value float64, labels map[string]string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	key := metricKey(name, labels)
	if metric, exists := mc.metrics[key]; exists {
		if metric.Extra == nil {
			metric.Extra = make(map[string]interface{})
		}
		count := 1.0
		sum := value
		if c, ok := metric.Extra["count"].(float64); ok {
			count = c + 1
		}
		if s, ok := metric.Extra["sum"].(float64); ok {
			sum = s + value
		}
		metric.Extra["count"] = count
		metric.Extra["sum"] = sum
		metric.Value = sum / count
		metric.Timestamp = time.Now()
	} else {
		mc.metrics[key] = &Metric{
			Name:      name,
			Type:      MetricTypeHistogram,
			Value:     value,
			Labels:    labels,
			Timestamp: time.Now(),
			Extra: map[string]interface{}{
				"count": 1.0,
				"sum":   value,
			},
		}
	}
}

// Get retrieves a metric by name and labels
func (mc *MetricsCollector) Get(name string, labels map[string]string) (*Metric, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	metric, exists := mc.metrics[metricKey(name, labels)]
	return metric, exists
}

// GetAll retrieves a copy of all metrics
func (mc *MetricsCollector) GetAll() map[string]*Metric {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	result := make(map[string]*Metric, len(mc.metrics))
	for k, v := range mc.metrics {
		result[k] = v
	}
	return result
}

// Reset clears all metrics
func (mc *MetricsCollector) Reset() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.metrics = make(map[string]*Metric)
}

// Standard metric names
const (
	// Question metrics
	MetricQuestionsTotal      = "bizquery_questions_total"
	MetricQuestionDuration    = "bizquery_question_duration_seconds"
	MetricQuestionsAnswered   = "bizquery_questions_answered_total"
	MetricQuestionsFailed     = "bizquery_questions_failed_total"
	MetricCannedAnswers       = "bizquery_canned_answers_total"
	MetricClarifications      = "bizquery_clarifications_total"
	MetricDemoFallbacks       = "bizquery_demo_fallbacks_total"
	MetricFallbackExtractions = "bizquery_fallback_extractions_total"

	// Completion service metrics
	MetricCompletionRequests = "completion_requests_total"
	MetricCompletionDuration = "completion_request_duration_seconds"
	MetricCompletionErrors   = "completion_errors_total"

	// Data store metrics
	MetricStoreQueries  = "store_queries_total"
	MetricStoreDuration = "store_query_duration_seconds"
	MetricStoreErrors   = "store_errors_total"

	// HTTP metrics
	MetricHTTPRequests     = "http_requests_total"
	MetricHTTPDuration     = "http_request_duration_seconds"
	MetricHTTPResponseSize = "http_response_size_bytes"
)

// Global metrics collector instance
var globalMetrics = NewMetricsCollector()

// GetGlobalMetrics returns the global metrics collector
func GetGlobalMetrics() *MetricsCollector {
	return globalMetrics
}

// RecordQuestionMetrics records metrics for one answered question
func RecordQuestionMetrics(duration time.Duration, success bool, outcome string) {
	metrics := GetGlobalMetrics()

	metrics.Inc(MetricQuestionsTotal, nil)
	if success {
		metrics.Inc(MetricQuestionsAnswered, map[string]string{"outcome": outcome})
	} else {
		metrics.Inc(MetricQuestionsFailed, map[string]string{"outcome": outcome})
	}
	metrics.Observe(MetricQuestionDuration, duration.Seconds(), nil)
}

// RecordCompletionMetrics records metrics for completion service calls
func RecordCompletionMetrics(duration time.Duration, err error) {
	metrics := GetGlobalMetrics()

	metrics.Inc(MetricCompletionRequests, nil)
	metrics.Observe(MetricCompletionDuration, duration.Seconds(), nil)
	if err != nil {
		metrics.Inc(MetricCompletionErrors, nil)
	}
}

// RecordStoreMetrics records metrics for data store calls
func RecordStoreMetrics(table string, duration time.Duration, err error) {
	metrics := GetGlobalMetrics()

	labels := map[string]string{"table": table}
	metrics.Inc(MetricStoreQueries, labels)
	metrics.Observe(MetricStoreDuration, duration.Seconds(), labels)
	if err != nil {
		metrics.Inc(MetricStoreErrors, labels)
	}
}

// RecordHTTPMetrics records metrics for HTTP requests
func RecordHTTPMetrics(method, path string, statusCode int, duration time.Duration, responseSize int) {
	metrics := GetGlobalMetrics()

	labels := map[string]string{
		"method": method,
		"path":   path,
	}
	metrics.Inc(MetricHTTPRequests, labels)
	metrics.Observe(MetricHTTPDuration, duration.Seconds(), labels)
	metrics.Observe(MetricHTTPResponseSize, float64(responseSize), labels)
}
