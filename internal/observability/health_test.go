package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticCheck(name string, status HealthStatus) HealthCheckFunc {
	return func(ctx context.Context) *HealthCheck {
		return &HealthCheck{Name: name, Status: status}
	}
}

func TestOverallStatusAggregation(t *testing.T) {
	tests := []struct {
		name     string
		statuses []HealthStatus
		expected HealthStatus
	}{
		{"all healthy", []HealthStatus{HealthStatusHealthy, HealthStatusHealthy}, HealthStatusHealthy},
		{"one degraded", []HealthStatus{HealthStatusHealthy, HealthStatusDegraded}, HealthStatusDegraded},
		{"unhealthy wins over degraded", []HealthStatus{HealthStatusDegraded, HealthStatusUnhealthy}, HealthStatusUnhealthy},
		{"no checks is healthy", nil, HealthStatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()
			for i, status := range tt.statuses {
				hc.Register(fmt.Sprintf("check%d", i), staticCheck(fmt.Sprintf("check%d", i), status))
			}

			assert.Equal(t, tt.expected, hc.GetOverallStatus(context.Background()))
		})
	}
}

func TestCheckResultsAreCached(t *testing.T) {
	calls := 0
	hc := NewHealthChecker()
	hc.Register("counted", func(ctx context.Context) *HealthCheck {
		calls++
		return &HealthCheck{Name: "counted", Status: HealthStatusHealthy}
	})

	hc.Check(context.Background())
	hc.Check(context.Background())
	hc.Check(context.Background())

	assert.Equal(t, 1, calls, "repeated checks within the TTL should hit the cache")
}

func TestGetHealthResponseShape(t *testing.T) {
	hc := NewHealthChecker()
	hc.Register("store", staticCheck("store", HealthStatusHealthy))

	response := hc.GetHealthResponse(context.Background())

	require.NotNil(t, response)
	assert.Equal(t, HealthStatusHealthy, response.Status)
	assert.Contains(t, response.Checks, "store")
	assert.Equal(t, "bizquery", response.Metadata["service"])
	assert.False(t, response.Timestamp.IsZero())
}

func TestStoreHealthCheck(t *testing.T) {
	healthy := StoreHealthCheck(func(ctx context.Context) error { return nil })
	result := healthy(context.Background())
	assert.Equal(t, HealthStatusHealthy, result.Status)

	// The store is required, so failure means unhealthy
	failing := StoreHealthCheck(func(ctx context.Context) error { return fmt.Errorf("no route to host") })
	result = failing(context.Background())
	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Contains(t, result.Message, "no route to host")
}

func TestOptionalDependenciesDegradeOnly(t *testing.T) {
	redisCheck := RedisHealthCheck(func(ctx context.Context) error { return fmt.Errorf("connection refused") })
	assert.Equal(t, HealthStatusDegraded, redisCheck(context.Background()).Status)

	completionCheck := CompletionHealthCheck(func(ctx context.Context) error { return fmt.Errorf("no api key") })
	assert.Equal(t, HealthStatusDegraded, completionCheck(context.Background()).Status)
}

func TestHealthCheckHonorsTimeout(t *testing.T) {
	slow := StoreHealthCheck(func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Second):
			return nil
		}
	})

	start := time.Now()
	result := slow(context.Background())
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, HealthStatusUnhealthy, result.Status)
}
