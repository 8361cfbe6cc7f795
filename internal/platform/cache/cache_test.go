package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
)

type payload struct {
	Source     string   `json:"source"`
	Objectives []string `json:"objectives"`
}

type countingObserver struct{ events map[string]int }

func (c *countingObserver) ObserveCacheLookup(tier, result string) {
	c.events[tier+":"+result]++
}

func newRedis(t *testing.T, obs LookupObserver) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisFromClient(rdb, "ai:", obs), mr
}

func TestRedisRoundTripAndTTL(t *testing.T) {
	obs := &countingObserver{events: map[string]int{}}
	r, mr := newRedis(t, obs)
	ctx := context.Background()

	in := payload{Source: "gemini", Objectives: []string{"limits", "derivatives"}}
	require.NoError(t, r.Set(ctx, "gemini_learning_path:u1:abc", in, time.Minute))
	require.True(t, mr.Exists("ai:gemini_learning_path:u1:abc"))

	var out payload
	ok, err := r.Get(ctx, "gemini_learning_path:u1:abc", &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, in, out)

	mr.FastForward(2 * time.Minute)
	ok, err = r.Get(ctx, "gemini_learning_path:u1:abc", &out)
	require.NoError(t, err)
	require.False(t, ok)

	require.Equal(t, 1, obs.events["redis:hit"])
	require.Equal(t, 1, obs.events["redis:miss"])
}

func TestLocalDoesNotShareMemory(t *testing.T) {
	l := NewLocal(time.Minute, time.Minute, nil)
	ctx := context.Background()
	in := payload{Objectives: []string{"a"}}
	require.NoError(t, l.Set(ctx, "k", in, 0))
	in.Objectives[0] = "mutated"

	var out payload
	ok, err := l.Get(ctx, "k", &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a", out.Objectives[0])
}

func TestTieredPromotesFromSharedTier(t *testing.T) {
	r, _ := newRedis(t, nil)
	l1 := NewLocal(time.Minute, time.Minute, nil)
	tc := NewTiered(logger.Nop(), l1, r, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "shared-only", payload{Source: "openai"}, time.Minute))

	var out payload
	ok, err := tc.Get(ctx, "shared-only", &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "openai", out.Source)
	require.Equal(t, 1, l1.Len())
}

type failingCache struct{}

func (failingCache) Get(context.Context, string, any) (bool, error) { return false, errors.New("down") }
func (failingCache) Set(context.Context, string, any, time.Duration) error {
	return errors.New("down")
}
func (failingCache) Delete(context.Context, string) error { return errors.New("down") }
func (failingCache) Ping(context.Context) error           { return errors.New("down") }

func TestTieredSurvivesSharedTierOutage(t *testing.T) {
	tc := NewTiered(logger.Nop(), NewLocal(time.Minute, time.Minute, nil), failingCache{}, time.Minute)
	ctx := context.Background()

	require.NoError(t, tc.Set(ctx, "k", payload{Source: "fallback"}, time.Hour))
	var out payload
	ok, err := tc.Get(ctx, "k", &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "fallback", out.Source)
	require.Error(t, tc.Ping(ctx))
}
