package cache

import (
	"context"
	"time"

	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
)

// Tiered reads through a local L1 to a shared L2 and writes both.
// L2 failures degrade to L1-only and are logged, never returned.
type Tiered struct {
	log   *logger.Logger
	l1    *Local
	l2    Cache
	l1TTL time.Duration
}

func NewTiered(log *logger.Logger, l1 *Local, l2 Cache, l1TTL time.Duration) *Tiered {
	return &Tiered{log: log, l1: l1, l2: l2, l1TTL: l1TTL}
}

func (t *Tiered) Get(ctx context.Context, key string, dst any) (bool, error) {
	if ok, err := t.l1.Get(ctx, key, dst); ok && err == nil {
		return true, nil
	}
	if t.l2 == nil {
		return false, nil
	}
	ok, err := t.l2.Get(ctx, key, dst)
	if err != nil {
		t.log.Warn("shared cache read failed", "key", key, "error", err)
		return false, nil
	}
	if ok {
		_ = t.l1.Set(ctx, key, dst, t.l1TTL)
	}
	return ok, nil
}

func (t *Tiered) Set(ctx context.Context, key string, val any, ttl time.Duration) error {
	l1TTL := t.l1TTL
	if ttl > 0 && ttl < l1TTL {
		l1TTL = ttl
	}
	if err := t.l1.Set(ctx, key, val, l1TTL); err != nil {
		return err
	}
	if t.l2 == nil {
		return nil
	}
	if err := t.l2.Set(ctx, key, val, ttl); err != nil {
		t.log.Warn("shared cache write failed", "key", key, "error", err)
	}
	return nil
}

func (t *Tiered) Delete(ctx context.Context, key string) error {
	_ = t.l1.Delete(ctx, key)
	if t.l2 == nil {
		return nil
	}
	return t.l2.Delete(ctx, key)
}

func (t *Tiered) Ping(ctx context.Context) error {
	if t.l2 == nil {
		return nil
	}
	return t.l2.Ping(ctx)
}
