package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name          string
		current       float64
		previous      float64
		metric        string
		wantPercent   float64
		wantDirection Direction
		wantReason    string
	}{
		{
			name:          "increase",
			current:       120,
			previous:      100,
			metric:        "revenue",
			wantPercent:   20,
			wantDirection: DirectionUp,
			wantReason:    "Revenue increased compared to the previous period.",
		},
		{
			name:          "decrease",
			current:       80,
			previous:      100,
			metric:        "expenses",
			wantPercent:   -20,
			wantDirection: DirectionDown,
			wantReason:    "Expenses decreased compared to the previous period.",
		},
		{
			name:          "stable",
			current:       100,
			previous:      100,
			metric:        "sales",
			wantPercent:   0,
			wantDirection: DirectionNeutral,
			wantReason:    "Sales remained stable.",
		},
		{
			name:          "zero previous is no data not a division error",
			current:       50,
			previous:      0,
			metric:        "profit",
			wantPercent:   0,
			wantDirection: DirectionNeutral,
			wantReason:    "No previous data available for profit.",
		},
		{
			name:          "rounds to two decimals",
			current:       100,
			previous:      120,
			metric:        "revenue",
			wantPercent:   -16.67,
			wantDirection: DirectionDown,
			wantReason:    "Revenue decreased compared to the previous period.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change := Analyze(tt.current, tt.previous, tt.metric)

			assert.Equal(t, tt.wantPercent, change.ChangePercent)
			assert.Equal(t, tt.wantDirection, change.Direction)
			assert.Equal(t, tt.wantReason, change.Reason)
		})
	}
}
