// Package cache provides a small response cache in front of the backend
// services, mirroring the TTL cache the data API applies on its own side.
package cache

import (
	"context"
	"time"
)

// Store is a byte-level TTL cache. Implementations must be safe for
// concurrent use. Lookup misses and storage failures are not errors a caller
// can act on, so the interface does not surface them.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Noop is the Store used when no cache backend is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (Noop) Set(context.Context, string, []byte, time.Duration) {}
