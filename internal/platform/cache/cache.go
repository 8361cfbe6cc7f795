package cache

import (
	"context"
	"time"
)

// Cache is a JSON key/value store with per-entry TTL.
// Get reports false without error on a miss.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// LookupObserver receives one event per tier lookup ("hit", "miss", "error").
type LookupObserver interface {
	ObserveCacheLookup(tier, result string)
}

type nopObserver struct{}

func (nopObserver) ObserveCacheLookup(string, string) {}

func observe(o LookupObserver, tier string, hit bool, err error) {
	if o == nil {
		return
	}
	switch {
	case err != nil:
		o.ObserveCacheLookup(tier, "error")
	case hit:
		o.ObserveCacheLookup(tier, "hit")
	default:
		o.ObserveCacheLookup(tier, "miss")
	}
}
