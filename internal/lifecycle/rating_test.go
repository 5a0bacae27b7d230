package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtlprog/hrtask/internal/lifecycle"
)

func TestRate_Boundaries(t *testing.T) {
	tests := []struct {
		name       string
		totalHours float64
		required   float64
		want       int
	}{
		{"under half of estimate", 4, 10, 4},
		{"exactly on time", 10, 10, 5},
		{"half hour early", 9.5, 10, 5},
		{"0.4h early", 9.6, 10, 5},
		{"0.75h early", 9.25, 10, 4},
		{"exactly 1h early", 9, 10, 4},
		{"1.5h early, not under half", 8.5, 10, 1},
		{"half hour over", 10.5, 10, 4},
		{"0.8h over", 10.8, 10, 3},
		{"exactly 1h over", 11, 10, 3},
		{"1.5h over", 11.5, 10, 2},
		{"exactly 2h over", 12, 10, 2},
		{"5h over", 15, 10, 1},
		{"exactly half is not under half", 0.5, 1, 5},
		{"just under half", 0.49, 1, 4},
		{"zero time spent", 0, 2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lifecycle.Rate(tt.totalHours, tt.required))
		})
	}
}

func TestRate_AlwaysInRange(t *testing.T) {
	for required := 0.25; required <= 12; required += 0.25 {
		for total := 0.0; total <= 30; total += 0.07 {
			r := lifecycle.Rate(total, required)
			assert.GreaterOrEqual(t, r, 1)
			assert.LessOrEqual(t, r, 5)
		}
	}
}
