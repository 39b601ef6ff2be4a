// Package query executes aggregation queries against the transactional
// records store based on a validated intent.
package query

import (
	"context"
	"encoding/json"
	"time"

	"github.com/insightloop/bizquery/internal/intent"
	"github.com/insightloop/bizquery/internal/observability"
	"github.com/insightloop/bizquery/internal/store"
)

// Store is the slice of the records store client the executor needs
type Store interface {
	SelectSince(ctx context.Context, table string, floor time.Time) ([]store.Row, error)
}

// Result holds the scalar aggregate and the raw rows it was computed from.
// Results are constructed fresh per request and never persisted.
type Result struct {
	Value float64     `json:"value"`
	Rows  []store.Row `json:"rows"`
}

// Executor resolves an intent into one store query and a scalar aggregate
type Executor struct {
	store  Store
	now    func() time.Time
	logger *observability.Logger
}

// NewExecutor creates an executor over the given store
func NewExecutor(s Store) *Executor {
	return &Executor{
		store:  s,
		now:    time.Now,
		logger: observability.NewLogger("query-executor"),
	}
}

// WithClock overrides the executor's clock, for tests
func (e *Executor) WithClock(now func() time.Time) *Executor {
	e.now = now
	return e
}

// StartDate resolves the inclusive floor date for a time range relative to
// now. last_month always resolves to the 1st of the previous calendar month,
// including month and year rollover.
func StartDate(tr intent.TimeRange, now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch tr {
	case intent.TimeRangeToday:
		return today
	case intent.TimeRangeLast7Days:
		return today.AddDate(0, 0, -7)
	case intent.TimeRangeLastMonth:
		firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return firstOfThisMonth.AddDate(0, -1, 0)
	default:
		return today
	}
}

// tableFor selects the backing table for a metric. An empty string means the
// metric has no backing table and the query short-circuits to a zero result.
func tableFor(m intent.Metric) string {
	switch m {
	case intent.MetricRevenue, intent.MetricSales:
		return "sales"
	case intent.MetricExpenses:
		return "expenses"
	default:
		return ""
	}
}

// Run executes the aggregation query for the intent. Store failures propagate
// unchanged; an empty result set is a valid zero-row result, not an error.
func (e *Executor) Run(ctx context.Context, it intent.Intent) (*Result, error) {
	table := tableFor(it.Metric)
	if table == "" {
		return &Result{Value: 0, Rows: []store.Row{}}, nil
	}

	floor := StartDate(it.TimeRange, e.now())
	rows, err := e.store.SelectSince(ctx, table, floor)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []store.Row{}
	}

	e.logger.Debug(ctx, "Store query completed", map[string]interface{}{
		"table": table,
		"floor": floor.Format("2006-01-02"),
		"rows":  len(rows),
	})

	return &Result{
		Value: aggregate(it.Metric, rows),
		Rows:  rows,
	}, nil
}

func aggregate(m intent.Metric, rows []store.Row) float64 {
	switch m {
	case intent.MetricSales:
		return float64(len(rows))
	case intent.MetricRevenue:
		return sumField(rows, "revenue")
	case intent.MetricExpenses:
		return sumField(rows, "amount")
	default:
		return 0
	}
}

// sumField sums a numeric field across rows, treating missing or non-numeric
// values as zero
func sumField(rows []store.Row, field string) float64 {
	var total float64
	for _, row := range rows {
		total += toFloat(row[field])
	}
	return total
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
