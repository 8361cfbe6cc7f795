package cache

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	gocache "github.com/patrickmn/go-cache"
)

// Local is an in-process cache. Values are stored encoded so callers never share memory.
type Local struct {
	c   *gocache.Cache
	obs LookupObserver
}

func NewLocal(defaultTTL, cleanup time.Duration, obs LookupObserver) *Local {
	if obs == nil {
		obs = nopObserver{}
	}
	return &Local{c: gocache.New(defaultTTL, cleanup), obs: obs}
}

func (l *Local) Get(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := l.c.Get(key)
	if !ok {
		observe(l.obs, "local", false, nil)
		return false, nil
	}
	b, _ := raw.([]byte)
	if err := json.Unmarshal(b, dst); err != nil {
		observe(l.obs, "local", false, err)
		l.c.Delete(key)
		return false, err
	}
	observe(l.obs, "local", true, nil)
	return true, nil
}

func (l *Local) Set(_ context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	l.c.Set(key, b, ttl)
	return nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	l.c.Delete(key)
	return nil
}

func (l *Local) Ping(context.Context) error { return nil }

func (l *Local) Len() int { return l.c.ItemCount() }
