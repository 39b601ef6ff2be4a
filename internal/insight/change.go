// Package insight explains changes between two aggregate values
package insight

import (
	"fmt"
	"math"
	"strings"
)

// Direction labels which way a metric moved
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
)

// Change describes the movement of a metric between two periods
type Change struct {
	ChangePercent float64   `json:"change_percent"`
	Direction     Direction `json:"direction"`
	Reason        string    `json:"reason"`
}

// Analyze computes the percent change between current and previous and labels
// its direction. A zero previous value is treated as "no previous data", not
// as a division error.
func Analyze(current, previous float64, metric string) Change {
	if previous == 0 {
		return Change{
			ChangePercent: 0,
			Direction:     DirectionNeutral,
			Reason:        fmt.Sprintf("No previous data available for %s.", metric),
		}
	}

	change := round2((current - previous) / previous * 100)

	switch {
	case change > 0:
		return Change{
			ChangePercent: change,
			Direction:     DirectionUp,
			Reason:        fmt.Sprintf("%s increased compared to the previous period.", capitalize(metric)),
		}
	case change < 0:
		return Change{
			ChangePercent: change,
			Direction:     DirectionDown,
			Reason:        fmt.Sprintf("%s decreased compared to the previous period.", capitalize(metric)),
		}
	default:
		return Change{
			ChangePercent: change,
			Direction:     DirectionNeutral,
			Reason:        fmt.Sprintf("%s remained stable.", capitalize(metric)),
		}
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
