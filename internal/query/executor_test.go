package query

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightloop/bizquery/internal/intent"
	"github.com/insightloop/bizquery/internal/store"
)

// stubStore records the query it receives and replays canned rows
type stubStore struct {
	rows  []store.Row
	err   error
	calls int
	table string
	floor time.Time
}

func (s *stubStore) SelectSince(ctx context.Context, table string, floor time.Time) ([]store.Row, error) {
	s.calls++
	s.table = table
	s.floor = floor
	return s.rows, s.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStartDate(t *testing.T) {
	now := time.Date(2024, time.January, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		timeRange intent.TimeRange
		expected  time.Time
	}{
		{
			name:      "today truncates to midnight",
			timeRange: intent.TimeRangeToday,
			expected:  time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "last 7 days",
			timeRange: intent.TimeRangeLast7Days,
			expected:  time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "last month rolls the year over",
			timeRange: intent.TimeRangeLastMonth,
			expected:  time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StartDate(tt.timeRange, now))
		})
	}
}

func TestStartDateMidYear(t *testing.T) {
	now := time.Date(2024, time.July, 3, 9, 0, 0, 0, time.UTC)

	assert.Equal(t,
		time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		StartDate(intent.TimeRangeLastMonth, now))
	assert.Equal(t,
		time.Date(2024, time.June, 26, 0, 0, 0, 0, time.UTC),
		StartDate(intent.TimeRangeLast7Days, now))
}

func TestRunRevenueSumsRevenueField(t *testing.T) {
	s := &stubStore{rows: []store.Row{
		{"revenue": 10.5, "date": "2024-01-10"},
		{"revenue": 4.5, "date": "2024-01-12"},
		{"date": "2024-01-13"}, // missing field counts as zero
	}}
	e := NewExecutor(s).WithClock(fixedClock(time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)))

	result, err := e.Run(context.Background(), intent.Intent{
		Metric:    intent.MetricRevenue,
		TimeRange: intent.TimeRangeLast7Days,
	})

	require.NoError(t, err)
	assert.Equal(t, 15.0, result.Value)
	assert.Len(t, result.Rows, 3)
	assert.Equal(t, "sales", s.table)
	assert.Equal(t, time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC), s.floor)
}

func TestRunSalesCountsRows(t *testing.T) {
	s := &stubStore{rows: []store.Row{
		{"revenue": 10.0},
		{"revenue": 20.0},
	}}
	e := NewExecutor(s).WithClock(fixedClock(time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)))

	result, err := e.Run(context.Background(), intent.Intent{
		Metric:    intent.MetricSales,
		TimeRange: intent.TimeRangeToday,
	})

	require.NoError(t, err)
	assert.Equal(t, 2.0, result.Value)
	assert.Equal(t, "sales", s.table)
}

func TestRunExpensesSumsAmountField(t *testing.T) {
	s := &stubStore{rows: []store.Row{
		{"amount": 100.0, "category": "rent"},
		{"amount": 25.5, "category": "software"},
	}}
	e := NewExecutor(s).WithClock(fixedClock(time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)))

	result, err := e.Run(context.Background(), intent.Intent{
		Metric:    intent.MetricExpenses,
		TimeRange: intent.TimeRangeLastMonth,
	})

	require.NoError(t, err)
	assert.Equal(t, 125.5, result.Value)
	assert.Equal(t, "expenses", s.table)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), s.floor)
}

func TestRunProfitHasNoBackingTable(t *testing.T) {
	s := &stubStore{}
	e := NewExecutor(s)

	result, err := e.Run(context.Background(), intent.Intent{
		Metric:    intent.MetricProfit,
		TimeRange: intent.TimeRangeToday,
	})

	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Value)
	assert.NotNil(t, result.Rows)
	assert.Empty(t, result.Rows)
	assert.Equal(t, 0, s.calls, "store should not be queried for an unbacked metric")
}

func TestRunEmptyResultSetIsZeroNotError(t *testing.T) {
	s := &stubStore{rows: nil}
	e := NewExecutor(s)

	result, err := e.Run(context.Background(), intent.Intent{
		Metric:    intent.MetricRevenue,
		TimeRange: intent.TimeRangeToday,
	})

	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Value)
	assert.NotNil(t, result.Rows)
	assert.Empty(t, result.Rows)
}

func TestRunPropagatesStoreError(t *testing.T) {
	s := &stubStore{err: fmt.Errorf("store unreachable")}
	e := NewExecutor(s)

	result, err := e.Run(context.Background(), intent.Intent{
		Metric:    intent.MetricExpenses,
		TimeRange: intent.TimeRangeToday,
	})

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestToFloatHandlesNumericTypes(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected float64
	}{
		{"float64", 1.5, 1.5},
		{"int", 3, 3.0},
		{"int64", int64(7), 7.0},
		{"string is zero", "12", 0.0},
		{"nil is zero", nil, 0.0},
		{"bool is zero", true, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, toFloat(tt.value))
		})
	}
}
