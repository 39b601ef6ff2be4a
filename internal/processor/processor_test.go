package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightloop/bizquery/internal/demo"
	"github.com/insightloop/bizquery/internal/errors"
	"github.com/insightloop/bizquery/internal/intent"
	"github.com/insightloop/bizquery/internal/query"
	"github.com/insightloop/bizquery/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubResolver returns a fixed resolution and counts invocations
type stubResolver struct {
	resolution intent.Resolution
	calls      int
}

func (s *stubResolver) Resolve(ctx context.Context, question string) intent.Resolution {
	s.calls++
	return s.resolution
}

// stubExecutor returns a fixed result or error
type stubExecutor struct {
	result *query.Result
	err    error
	calls  int
}

func (s *stubExecutor) Run(ctx context.Context, it intent.Intent) (*query.Result, error) {
	s.calls++
	return s.result, s.err
}

func resolvedIntent(m intent.Metric, tr intent.TimeRange, comparison intent.Comparison, why bool) intent.Resolution {
	return intent.Resolved(intent.Intent{
		Metric:      m,
		TimeRange:   tr,
		Comparison:  comparison,
		Breakdown:   intent.BreakdownNone,
		WhyAnalysis: why,
	})
}

func TestProcessQuestionCannedAnswerShortCircuits(t *testing.T) {
	resolver := &stubResolver{}
	executor := &stubExecutor{}
	qp := NewQueryProcessor(resolver, executor, nil, true)

	response, outcome, err := qp.ProcessQuestion(context.Background(), "How do I track revenue from sales?")

	require.NoError(t, err)
	assert.Equal(t, OutcomeCanned, outcome)
	assert.Contains(t, response.Answer, "Revenue represents the total income")
	assert.Empty(t, response.Why)
	assert.Equal(t, 0, resolver.calls, "canned answers must not consult the extractor")
	assert.Equal(t, 0, executor.calls, "canned answers must not query the store")
}

func TestProcessQuestionAnsweredFlow(t *testing.T) {
	resolver := &stubResolver{
		resolution: resolvedIntent(intent.MetricRevenue, intent.TimeRangeLast7Days, intent.ComparisonNone, false),
	}
	executor := &stubExecutor{
		result: &query.Result{
			Value: 15,
			Rows:  []store.Row{{"revenue": 10.0}, {"revenue": 5.0}},
		},
	}
	qp := NewQueryProcessor(resolver, executor, nil, true)

	response, outcome, err := qp.ProcessQuestion(context.Background(), "question without trained keywords")

	require.NoError(t, err)
	assert.Equal(t, OutcomeAnswered, outcome)
	assert.Equal(t, "Your revenue for last 7 days is 15.", response.Answer)
	assert.Empty(t, response.Why)
	assert.Len(t, response.Table, 2)
	assert.Equal(t, map[string]interface{}{}, response.Explainability)
}

func TestProcessQuestionZeroRowResultKeepsFullResponseShape(t *testing.T) {
	resolver := &stubResolver{
		resolution: resolvedIntent(intent.MetricRevenue, intent.TimeRangeToday, intent.ComparisonNone, false),
	}
	executor := &stubExecutor{
		result: &query.Result{Value: 0, Rows: []store.Row{}},
	}
	qp := NewQueryProcessor(resolver, executor, nil, true)

	response, outcome, err := qp.ProcessQuestion(context.Background(), "question without trained keywords")

	require.NoError(t, err)
	assert.Equal(t, OutcomeAnswered, outcome)
	assert.Equal(t, "Your revenue for today is 0.", response.Answer)

	// An empty result set is a valid answer and serializes with every key,
	// table and explainability included
	data, err := json.Marshal(response)
	require.NoError(t, err)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &body))
	require.Contains(t, body, "answer")
	require.Contains(t, body, "why")
	require.Contains(t, body, "table")
	require.Contains(t, body, "explainability")
	assert.Equal(t, "[]", string(body["table"]))
	assert.Equal(t, "{}", string(body["explainability"]))
}

func TestProcessQuestionWhyAnalysisAttachesChange(t *testing.T) {
	tests := []struct {
		name       string
		comparison intent.Comparison
		why        bool
	}{
		{"previous period comparison", intent.ComparisonPreviousPeriod, false},
		{"why analysis", intent.ComparisonNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &stubResolver{
				resolution: resolvedIntent(intent.MetricExpenses, intent.TimeRangeLastMonth, tt.comparison, tt.why),
			}
			executor := &stubExecutor{
				result: &query.Result{Value: 100, Rows: []store.Row{}},
			}
			qp := NewQueryProcessor(resolver, executor, nil, true)

			response, outcome, err := qp.ProcessQuestion(context.Background(), "a question with no trained keywords")

			require.NoError(t, err)
			assert.Equal(t, OutcomeAnswered, outcome)
			require.Len(t, response.Why, 1)
			assert.NotEmpty(t, response.Why[0].Reason)
			assert.NotNil(t, response.Explainability)
		})
	}
}

func TestProcessQuestionClarificationDemoMode(t *testing.T) {
	resolver := &stubResolver{resolution: intent.Clarify()}
	executor := &stubExecutor{}
	qp := NewQueryProcessor(resolver, executor, nil, true)

	response, outcome, err := qp.ProcessQuestion(context.Background(), "hello there")

	require.NoError(t, err)
	assert.Equal(t, OutcomeClarification, outcome)
	assert.Equal(t, demo.ClarificationPrompt, response.Answer)
	assert.Equal(t, 0, executor.calls)
}

func TestProcessQuestionClarificationStrictMode(t *testing.T) {
	resolver := &stubResolver{resolution: intent.Clarify()}
	qp := NewQueryProcessor(resolver, &stubExecutor{}, nil, false)

	response, outcome, err := qp.ProcessQuestion(context.Background(), "hello there")

	require.NoError(t, err)
	assert.Equal(t, OutcomeClarification, outcome)
	assert.Equal(t, "Could you please clarify your question?", response.Answer)
	assert.NotNil(t, response.Table)
	assert.NotNil(t, response.Explainability)
}

func TestProcessQuestionStoreErrorPropagates(t *testing.T) {
	resolver := &stubResolver{
		resolution: resolvedIntent(intent.MetricRevenue, intent.TimeRangeToday, intent.ComparisonNone, false),
	}
	executor := &stubExecutor{err: errors.NewStoreQueryError(assert.AnError, "sales")}
	qp := NewQueryProcessor(resolver, executor, nil, true)

	response, outcome, err := qp.ProcessQuestion(context.Background(), "some unanswerable question")

	assert.Error(t, err)
	assert.Nil(t, response)
	assert.Equal(t, OutcomeError, outcome)
}

func postQuery(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHandleQueryBindError(t *testing.T) {
	qp := NewQueryProcessor(&stubResolver{}, &stubExecutor{}, nil, true)
	router := qp.SetupRoutes(nil)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"missing question", `{}`},
		{"wrong type", `{"question": 42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postQuery(router, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, string(errors.ErrCodeInvalidInput), body["error"]["code"])
		})
	}
}

func TestHandleQueryDemoModeMasksFailures(t *testing.T) {
	question := "some question that hits a broken store"
	resolver := &stubResolver{
		resolution: resolvedIntent(intent.MetricRevenue, intent.TimeRangeToday, intent.ComparisonNone, false),
	}
	executor := &stubExecutor{err: errors.NewStoreMisconfiguredError("SUPABASE_URL")}
	qp := NewQueryProcessor(resolver, executor, nil, true)
	router := qp.SetupRoutes(nil)

	w := postQuery(router, `{"question": "`+question+`"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var response QueryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, demo.FallbackAnswer(question), response.Answer)
	assert.Empty(t, response.Why)
}

func TestHandleQueryStrictModeSurfacesFailures(t *testing.T) {
	resolver := &stubResolver{
		resolution: resolvedIntent(intent.MetricRevenue, intent.TimeRangeToday, intent.ComparisonNone, false),
	}
	executor := &stubExecutor{err: errors.NewStoreQueryError(assert.AnError, "sales")}
	qp := NewQueryProcessor(resolver, executor, nil, false)
	router := qp.SetupRoutes(nil)

	w := postQuery(router, `{"question": "what broke"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var body map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(errors.ErrCodeStoreQuery), body["error"]["code"])
}

func TestHandleQuerySuccessResponseShape(t *testing.T) {
	resolver := &stubResolver{
		resolution: resolvedIntent(intent.MetricSales, intent.TimeRangeToday, intent.ComparisonNone, false),
	}
	executor := &stubExecutor{
		result: &query.Result{Value: 3, Rows: []store.Row{{"id": 1.0}, {"id": 2.0}, {"id": 3.0}}},
	}
	qp := NewQueryProcessor(resolver, executor, nil, true)
	router := qp.SetupRoutes(nil)

	w := postQuery(router, `{"question": "a plain question"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var response QueryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Your sales for today is 3.", response.Answer)
	assert.Len(t, response.Table, 3)
}

func TestHandleGetHistoryWithoutJournal(t *testing.T) {
	qp := NewQueryProcessor(&stubResolver{}, &stubExecutor{}, nil, true)
	router := qp.SetupRoutes(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["count"])
}

func TestHealthEndpointWithoutChecker(t *testing.T) {
	qp := NewQueryProcessor(&stubResolver{}, &stubExecutor{}, nil, true)
	router := qp.SetupRoutes(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bizquery")
}

func TestMetricsEndpoint(t *testing.T) {
	qp := NewQueryProcessor(&stubResolver{}, &stubExecutor{}, nil, true)
	router := qp.SetupRoutes(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "metrics")
}

func TestCORSPreflight(t *testing.T) {
	qp := NewQueryProcessor(&stubResolver{}, &stubExecutor{}, nil, true)
	router := qp.SetupRoutes(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/query", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestComposeAnswerFormatsTimeRangeAndValue(t *testing.T) {
	tests := []struct {
		name     string
		it       intent.Intent
		value    float64
		expected string
	}{
		{
			name:     "underscores become spaces",
			it:       intent.Intent{Metric: intent.MetricRevenue, TimeRange: intent.TimeRangeLast7Days},
			value:    1234.5,
			expected: "Your revenue for last 7 days is 1234.5.",
		},
		{
			name:     "whole value renders without trailing zeros",
			it:       intent.Intent{Metric: intent.MetricSales, TimeRange: intent.TimeRangeToday},
			value:    42,
			expected: "Your sales for today is 42.",
		},
		{
			name:     "last month",
			it:       intent.Intent{Metric: intent.MetricExpenses, TimeRange: intent.TimeRangeLastMonth},
			value:    0,
			expected: "Your expenses for last month is 0.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, composeAnswer(tt.it, tt.value))
		})
	}
}
