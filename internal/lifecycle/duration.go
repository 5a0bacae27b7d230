package lifecycle

import "fmt"

// FormatDuration renders milliseconds as "{h}h {m}m {s}s".
// Sub-second remainders are truncated, not rounded. Negative input counts as 0.
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	seconds := ms / 1000
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
