package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	URL            string
	DB             int
	Timeout        time.Duration
	MaxConnections int
	KeyPrefix      string
}

type Redis struct {
	rdb    *goredis.Client
	prefix string
	obs    LookupObserver
}

// NewRedis parses cfg.URL and builds a client. It does not dial.
func NewRedis(cfg RedisConfig, obs LookupObserver) (*Redis, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, fmt.Errorf("missing REDIS_URL")
	}
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	if cfg.DB > 0 {
		opts.DB = cfg.DB
	}
	if cfg.Timeout > 0 {
		opts.DialTimeout = cfg.Timeout
		opts.ReadTimeout = cfg.Timeout
		opts.WriteTimeout = cfg.Timeout
	}
	if cfg.MaxConnections > 0 {
		opts.PoolSize = cfg.MaxConnections
	}
	return NewRedisFromClient(goredis.NewClient(opts), cfg.KeyPrefix, obs), nil
}

func NewRedisFromClient(rdb *goredis.Client, prefix string, obs LookupObserver) *Redis {
	if obs == nil {
		obs = nopObserver{}
	}
	return &Redis{rdb: rdb, prefix: prefix, obs: obs}
}

func (r *Redis) key(k string) string { return r.prefix + k }

func (r *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		observe(r.obs, "redis", false, nil)
		return false, nil
	}
	if err != nil {
		observe(r.obs, "redis", false, err)
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		observe(r.obs, "redis", false, err)
		return false, err
	}
	observe(r.obs, "redis", true, nil)
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key(key), b, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.key(key)).Err()
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Client exposes the underlying client for health probes.
func (r *Redis) Client() *goredis.Client { return r.rdb }

func (r *Redis) Close() error { return r.rdb.Close() }
