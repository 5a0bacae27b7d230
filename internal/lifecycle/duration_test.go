package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtlprog/hrtask/internal/lifecycle"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0h 0m 0s"},
		{999, "0h 0m 0s"},
		{1000, "0h 0m 1s"},
		{59_999, "0h 0m 59s"},
		{60_000, "0h 1m 0s"},
		{3_600_000, "1h 0m 0s"},
		{4_800_000, "1h 20m 0s"},
		{3_661_500, "1h 1m 1s"},
		{90_000_000, "25h 0m 0s"},
		{-5_000, "0h 0m 0s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, lifecycle.FormatDuration(tt.ms))
		})
	}
}
