// Package processor sequences the answer pipeline: canned-answer matching,
// intent resolution, aggregation, change analysis, and response shaping.
package processor

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/insightloop/bizquery/internal/demo"
	"github.com/insightloop/bizquery/internal/errors"
	"github.com/insightloop/bizquery/internal/history"
	"github.com/insightloop/bizquery/internal/insight"
	"github.com/insightloop/bizquery/internal/intent"
	"github.com/insightloop/bizquery/internal/observability"
	"github.com/insightloop/bizquery/internal/query"
	"github.com/insightloop/bizquery/internal/store"
	"github.com/insightloop/bizquery/internal/training"
)

// QueryRequest represents an incoming natural language question
type QueryRequest struct {
	Question string `json:"question" binding:"required"`
}

// QueryResponse represents the shaped answer. All four keys are always
// present: a zero-row aggregation is a valid result and still carries an
// empty table and explainability object.
type QueryResponse struct {
	Answer         string           `json:"answer"`
	Why            []insight.Change `json:"why"`
	Table          []store.Row      `json:"table"`
	Explainability interface{}      `json:"explainability"`
}

// newResponse builds a response with the full key set and empty collections
func newResponse(answer string) *QueryResponse {
	return &QueryResponse{
		Answer:         answer,
		Why:            []insight.Change{},
		Table:          []store.Row{},
		Explainability: map[string]interface{}{},
	}
}

// Outcome labels how a question was answered, for metrics and history
const (
	OutcomeCanned        = "canned"
	OutcomeAnswered      = "answered"
	OutcomeClarification = "clarification"
	OutcomeDemoFallback  = "demo_fallback"
	OutcomeError         = "error"
)

// Executor is the slice of the aggregation executor the processor needs
type Executor interface {
	Run(ctx context.Context, it intent.Intent) (*query.Result, error)
}

// Resolver is the slice of the intent validator the processor needs
type Resolver interface {
	Resolve(ctx context.Context, question string) intent.Resolution
}

// QueryProcessor is the main service struct
type QueryProcessor struct {
	resolver      Resolver
	executor      Executor
	journal       *history.Journal
	logger        *observability.Logger
	healthChecker *observability.HealthChecker
	demoMode      bool
}

// NewQueryProcessor creates a new query processor instance
func NewQueryProcessor(resolver Resolver, executor Executor, journal *history.Journal, demoMode bool) *QueryProcessor {
	return &QueryProcessor{
		resolver: resolver,
		executor: executor,
		journal:  journal,
		logger:   observability.NewLogger("query-processor"),
		demoMode: demoMode,
	}
}

// SetHealthChecker sets the health checker for the processor
func (qp *QueryProcessor) SetHealthChecker(healthChecker *observability.HealthChecker) {
	qp.healthChecker = healthChecker
}

// ProcessQuestion runs the full answer pipeline for one question. Failures
// from the store propagate unchanged; the HTTP handler decides whether the
// demo posture masks them.
func (qp *QueryProcessor) ProcessQuestion(ctx context.Context, question string) (*QueryResponse, string, error) {
	start := time.Now()

	var outcome string
	var processingErr error
	defer func() {
		duration := time.Since(start)
		observability.RecordQuestionMetrics(duration, processingErr == nil, outcome)
		if processingErr != nil {
			qp.logger.Error(ctx, "Question processing failed", processingErr, map[string]interface{}{
				"question":    question,
				"duration_ms": duration.Milliseconds(),
			})
		} else {
			qp.logger.Info(ctx, "Question processed", map[string]interface{}{
				"question":    question,
				"outcome":     outcome,
				"duration_ms": duration.Milliseconds(),
			})
		}
	}()

	// Trained canned answers short-circuit everything else
	if trained, ok := training.Match(question); ok {
		outcome = OutcomeCanned
		observability.GetGlobalMetrics().Inc(observability.MetricCannedAnswers, nil)
		return newResponse(trained.Answer), outcome, nil
	}

	resolution := qp.resolver.Resolve(ctx, question)
	if resolution.NeedsClarification() {
		outcome = OutcomeClarification
		observability.GetGlobalMetrics().Inc(observability.MetricClarifications, nil)
		return qp.clarificationResponse(), outcome, nil
	}

	it := *resolution.Intent
	result, err := qp.executor.Run(ctx, it)
	if err != nil {
		outcome = OutcomeError
		processingErr = err
		return nil, outcome, err
	}

	response := newResponse(composeAnswer(it, result.Value))
	response.Table = result.Rows

	if it.Comparison == intent.ComparisonPreviousPeriod || it.WhyAnalysis {
		// Placeholder baseline until a real previous-period query exists
		previous := result.Value * 1.2
		change := insight.Analyze(result.Value, previous, string(it.Metric))
		response.Why = []insight.Change{change}
		response.Explainability = change
	}

	outcome = OutcomeAnswered
	return response, outcome, nil
}

// clarificationResponse shapes the reply when intent cannot be determined.
// The demo posture replies with a helpful pitch instead of a bare request to
// rephrase.
func (qp *QueryProcessor) clarificationResponse() *QueryResponse {
	if qp.demoMode {
		return newResponse(demo.ClarificationPrompt)
	}
	return newResponse("Could you please clarify your question?")
}

// composeAnswer builds the human-readable answer sentence
func composeAnswer(it intent.Intent, value float64) string {
	timeRange := strings.ReplaceAll(string(it.TimeRange), "_", " ")
	return fmt.Sprintf("Your %s for %s is %s.", it.Metric, timeRange, formatValue(value))
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// recordHistory journals the outcome, best effort
func (qp *QueryProcessor) recordHistory(ctx context.Context, question, answer, outcome string) {
	if qp.journal == nil || !qp.journal.Enabled() {
		return
	}
	err := qp.journal.Record(ctx, history.Entry{
		Question: question,
		Answer:   answer,
		Outcome:  outcome,
	})
	if err != nil {
		qp.logger.Warn(ctx, "Failed to record question history", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// AuthMiddleware is the interface for the optional authentication middleware
type AuthMiddleware interface {
	Handler() gin.HandlerFunc
}

// SetupRoutes configures the HTTP surface
func (qp *QueryProcessor) SetupRoutes(authMiddleware AuthMiddleware) *gin.Engine {
	r := gin.New()

	logger := observability.NewLogger("http")
	r.Use(observability.RecoveryMiddleware(logger))
	r.Use(observability.RequestLoggingMiddleware(logger))

	// CORS for the browser frontend
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		if qp.healthChecker != nil {
			response := qp.healthChecker.GetHealthResponse(c.Request.Context())
			statusCode := http.StatusOK
			if response.Status == observability.HealthStatusUnhealthy {
				statusCode = http.StatusServiceUnavailable
			}
			c.JSON(statusCode, response)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "bizquery",
		})
	})

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"metrics":   observability.GetGlobalMetrics().GetAll(),
			"timestamp": time.Now(),
		})
	})

	api := r.Group("/api/v1")
	if authMiddleware != nil {
		api.Use(authMiddleware.Handler())
	}
	{
		api.POST("/query", qp.handleQuery)
		api.GET("/history", qp.handleGetHistory)
	}

	return r
}

// handleQuery is the single question endpoint
func (qp *QueryProcessor) handleQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		inputErr := errors.NewInvalidInputError("question", err.Error())
		c.JSON(http.StatusBadRequest, formatErrorResponse(inputErr))
		return
	}

	ctx := c.Request.Context()
	response, outcome, err := qp.ProcessQuestion(ctx, req.Question)
	if err != nil {
		if qp.demoMode {
			// The demo posture masks hard failures behind a confident,
			// deterministic canned answer
			observability.GetGlobalMetrics().Inc(observability.MetricDemoFallbacks, nil)
			answer := demo.FallbackAnswer(req.Question)
			qp.recordHistory(ctx, req.Question, answer, OutcomeDemoFallback)
			c.JSON(http.StatusOK, newResponse(answer))
			return
		}
		c.JSON(getErrorStatusCode(err), formatErrorResponse(err))
		return
	}

	qp.recordHistory(ctx, req.Question, response.Answer, outcome)
	c.JSON(http.StatusOK, response)
}

// handleGetHistory returns the recent question journal
func (qp *QueryProcessor) handleGetHistory(c *gin.Context) {
	if qp.journal == nil || !qp.journal.Enabled() {
		c.JSON(http.StatusOK, gin.H{"entries": []history.Entry{}, "count": 0})
		return
	}

	entries, err := qp.journal.Recent(c.Request.Context())
	if err != nil {
		readErr := errors.NewHistoryReadError(err)
		c.JSON(http.StatusInternalServerError, formatErrorResponse(readErr))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// formatErrorResponse formats an error into a user-friendly response
func formatErrorResponse(err error) gin.H {
	if enhancedErr, ok := err.(*errors.EnhancedError); ok {
		errBody := gin.H{
			"code":    enhancedErr.Code,
			"message": enhancedErr.Message,
		}
		if enhancedErr.Details != "" {
			errBody["details"] = enhancedErr.Details
		}
		if enhancedErr.Suggestion != "" {
			errBody["suggestion"] = enhancedErr.Suggestion
		}
		if len(enhancedErr.Metadata) > 0 {
			errBody["metadata"] = enhancedErr.Metadata
		}
		return gin.H{"error": errBody}
	}

	return gin.H{
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": err.Error(),
		},
	}
}

// getErrorStatusCode returns the appropriate HTTP status code for an error
func getErrorStatusCode(err error) int {
	if enhancedErr, ok := err.(*errors.EnhancedError); ok {
		switch enhancedErr.Code {
		case errors.ErrCodeInvalidInput, errors.ErrCodeMissingRequired:
			return http.StatusBadRequest
		case errors.ErrCodeNotAuthenticated:
			return http.StatusUnauthorized
		case errors.ErrCodeStoreQuery:
			return http.StatusBadGateway
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
