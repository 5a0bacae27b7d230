// Package cache provides a small key-value cache used to serve task reads
// without a database round trip. Only completed tasks are cached, and entries
// are dropped whenever a task changes.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a JSON-serializing key-value cache.
type Cache interface {
	// Get fills dest (a pointer) on a hit and reports whether the key existed.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores val under key for ttl.
	Set(ctx context.Context, key string, val interface{}, ttl time.Duration) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error
}

// TaskKey returns the cache key for a task snapshot.
func TaskKey(taskID string) string {
	return fmt.Sprintf("hrtask:task:%s", taskID)
}

// Nop is a Cache that never hits. It is used when no Redis address is configured.
type Nop struct{}

func (Nop) Get(context.Context, string, interface{}) (bool, error)        { return false, nil }
func (Nop) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (Nop) Delete(context.Context, string) error                          { return nil }
