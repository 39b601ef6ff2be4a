package observability

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck represents a health check result for a component
type HealthCheck struct {
	Name        string                 `json:"name"`
	Status      HealthStatus           `json:"status"`
	Message     string                 `json:"message,omitempty"`
	LastChecked time.Time              `json:"last_checked"`
	Duration    time.Duration          `json:"duration_ms"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// HealthCheckFunc is a function that performs a health check
type HealthCheckFunc func(context.Context) *HealthCheck

// HealthChecker performs health checks on dependencies
type HealthChecker struct {
	checks map[string]HealthCheckFunc
	cache  map[string]*HealthCheck
	mu     sync.Mutex
	ttl    time.Duration
}

// NewHealthChecker creates a new health checker
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]HealthCheckFunc),
		cache:  make(map[string]*HealthCheck),
		ttl:    5 * time.Second,
	}
}

// Register registers a health check
func (hc *HealthChecker) Register(name string, check HealthCheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[name] = check
}

// Check performs all health checks, serving cached results within the TTL
func (hc *HealthChecker) Check(ctx context.Context) map[string]*HealthCheck {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	results := make(map[string]*HealthCheck)
	now := time.Now()

	for name, checkFunc := range hc.checks {
		if cached, exists := hc.cache[name]; exists {
			if now.Sub(cached.LastChecked) < hc.ttl {
				results[name] = cached
				continue
			}
		}

		result := checkFunc(ctx)
		result.LastChecked = time.Now()
		hc.cache[name] = result
		results[name] = result
	}

	return results
}

// GetOverallStatus determines the overall health status
func (hc *HealthChecker) GetOverallStatus(ctx context.Context) HealthStatus {
	checks := hc.Check(ctx)

	hasUnhealthy := false
	hasDegraded := false
	for _, check := range checks {
		switch check.Status {
		case HealthStatusUnhealthy:
			hasUnhealthy = true
		case HealthStatusDegraded:
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return HealthStatusUnhealthy
	}
	if hasDegraded {
		return HealthStatusDegraded
	}
	return HealthStatusHealthy
}

// HealthResponse represents the complete health check response
type HealthResponse struct {
	Status    HealthStatus            `json:"status"`
	Timestamp time.Time               `json:"timestamp"`
	Checks    map[string]*HealthCheck `json:"checks"`
	Metadata  map[string]interface{}  `json:"metadata,omitempty"`
}

// GetHealthResponse returns a complete health response
func (hc *HealthChecker) GetHealthResponse(ctx context.Context) *HealthResponse {
	return &HealthResponse{
		Status:    hc.GetOverallStatus(ctx),
		Timestamp: time.Now(),
		Checks:    hc.Check(ctx),
		Metadata: map[string]interface{}{
			"version": "1.0.0",
			"service": "bizquery",
		},
	}
}

// StoreHealthCheck creates a health check for data store reachability
func StoreHealthCheck(pingFunc func(context.Context) error) HealthCheckFunc {
	return func(ctx context.Context) *HealthCheck {
		start := time.Now()

		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		err := pingFunc(ctx)
		duration := time.Since(start)

		if err != nil {
			return &HealthCheck{
				Name:     "store",
				Status:   HealthStatusUnhealthy,
				Message:  fmt.Sprintf("Data store unreachable: %v", err),
				Duration: duration,
			}
		}

		return &HealthCheck{
			Name:     "store",
			Status:   HealthStatusHealthy,
			Message:  "Data store reachable",
			Duration: duration,
			Metadata: map[string]interface{}{
				"response_time_ms": duration.Milliseconds(),
			},
		}
	}
}

// RedisHealthCheck creates a health check for Redis connectivity
func RedisHealthCheck(pingFunc func(context.Context) error) HealthCheckFunc {
	return func(ctx context.Context) *HealthCheck {
		start := time.Now()

		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		err := pingFunc(ctx)
		duration := time.Since(start)

		if err != nil {
			// Redis only backs the optional history journal
			return &HealthCheck{
				Name:     "redis",
				Status:   HealthStatusDegraded,
				Message:  fmt.Sprintf("Redis connection failed: %v", err),
				Duration: duration,
			}
		}

		return &HealthCheck{
			Name:     "redis",
			Status:   HealthStatusHealthy,
			Message:  "Redis connection successful",
			Duration: duration,
		}
	}
}

// CompletionHealthCheck creates a health check for the completion service.
// The service degrades to keyword extraction when the model is down, so this
// never reports unhealthy.
func CompletionHealthCheck(checkFunc func(context.Context) error) HealthCheckFunc {
	return func(ctx context.Context) *HealthCheck {
		start := time.Now()

		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		err := checkFunc(ctx)
		duration := time.Since(start)

		if err != nil {
			return &HealthCheck{
				Name:     "completion_service",
				Status:   HealthStatusDegraded,
				Message:  fmt.Sprintf("Completion service unavailable: %v", err),
				Duration: duration,
			}
		}

		return &HealthCheck{
			Name:     "completion_service",
			Status:   HealthStatusHealthy,
			Message:  "Completion service available",
			Duration: duration,
		}
	}
}
