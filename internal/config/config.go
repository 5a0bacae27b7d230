package config

import (
	"strings"
	"time"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultKafkaTopic receives task lifecycle events.
	DefaultKafkaTopic = "hrtask.task-lifecycle"

	// DefaultCacheTTL bounds how long completed task snapshots stay in Redis.
	DefaultCacheTTL = 10 * time.Minute

	// DefaultMaxActive is how long a timer may run before the sweep pauses it.
	DefaultMaxActive = 12 * time.Hour

	// MetricsNamespace prefixes every exported Prometheus metric.
	MetricsNamespace = "hrtask"
)

// ParseBrokers splits a comma-separated broker list, dropping blanks.
func ParseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
