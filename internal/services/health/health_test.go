package health

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/apierr"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/pinecone"
	"github.com/yungbote/lusilearn-ai-service/internal/providers"
)

type probeProvider struct {
	configured bool
	latency    time.Duration
	err        error
}

func (p probeProvider) Name() domain.ProviderName { return domain.ProviderOpenAI }
func (p probeProvider) Configured() bool          { return p.configured }
func (p probeProvider) GeneratePath(context.Context, domain.LearningPathRequest) providers.Result[*domain.LearningPath] {
	return providers.Result[*domain.LearningPath]{}
}
func (p probeProvider) Recommend(context.Context, domain.ContentRecommendationRequest) providers.Result[[]domain.ContentRecommendation] {
	return providers.Result[[]domain.ContentRecommendation]{}
}
func (p probeProvider) Embed(context.Context, []string, string) providers.Result[providers.Embedding] {
	return providers.Result[providers.Embedding]{}
}
func (p probeProvider) Probe(context.Context) providers.Result[time.Duration] {
	if p.err != nil {
		return providers.Fail[time.Duration](domain.ProviderOpenAI, p.err)
	}
	return providers.OK(domain.ProviderOpenAI, p.latency)
}

type statsFunc func(ctx context.Context) (*pinecone.IndexStats, error)

func (f statsFunc) Stats(ctx context.Context) (*pinecone.IndexStats, error) { return f(ctx) }

type fixedChecker struct {
	name   string
	result Result
}

func (c fixedChecker) Name() string                 { return c.name }
func (c fixedChecker) Check(context.Context) Result { return c.result }

type recordingObserver struct {
	mu   sync.Mutex
	seen map[string]string
}

func (o *recordingObserver) ObserveHealth(service, status string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.seen == nil {
		o.seen = map[string]string{}
	}
	o.seen[service] = status
}

func TestRedisChecker(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	res := NewRedisChecker(rdb).Check(context.Background())
	require.Equal(t, StatusHealthy, res.Status, "error=%s", res.Error)
	require.False(t, mr.Exists(redisProbeKey))

	require.Equal(t, StatusDegraded, NewRedisChecker(nil).Check(context.Background()).Status)

	mr.Close()
	res = NewRedisChecker(rdb).Check(context.Background())
	require.Equal(t, StatusUnhealthy, res.Status)
	require.NotEmpty(t, res.Error)
}

func TestParseInfo(t *testing.T) {
	fields := parseInfo("# Memory\r\nused_memory:2048\r\nused_memory_human:2K\r\n# Clients\r\nconnected_clients:3\r\n")
	require.Equal(t, int64(2048), fields["used_memory"])
	require.Equal(t, int64(3), fields["connected_clients"])
	_, ok := fields["used_memory_human"]
	require.False(t, ok)
}

func TestProviderChecker(t *testing.T) {
	cases := []struct {
		name string
		p    probeProvider
		want string
	}{
		{"not configured", probeProvider{}, StatusDegraded},
		{"healthy", probeProvider{configured: true, latency: 40 * time.Millisecond}, StatusHealthy},
		{"slow", probeProvider{configured: true, latency: 6 * time.Second}, StatusDegraded},
		{"rate limited", probeProvider{configured: true, err: apierr.RateLimited("probe", 0)}, StatusDegraded},
		{"failing", probeProvider{configured: true, err: errors.New("401 unauthorized")}, StatusUnhealthy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewProviderChecker(tc.p).Check(context.Background())
			if got.Status != tc.want {
				t.Fatalf("status: got=%s want=%s (%+v)", got.Status, tc.want, got)
			}
		})
	}
}

func TestPineconeChecker(t *testing.T) {
	require.Equal(t, StatusDegraded, NewPineconeChecker(nil).Check(context.Background()).Status)

	full := statsFunc(func(context.Context) (*pinecone.IndexStats, error) {
		return &pinecone.IndexStats{Dimension: 1536, IndexFullness: 0.95, TotalVectorCount: 10}, nil
	})
	res := NewPineconeChecker(full).Check(context.Background())
	require.Equal(t, StatusDegraded, res.Status)
	require.Equal(t, 1536, *res.Dimension)

	ok := statsFunc(func(context.Context) (*pinecone.IndexStats, error) {
		return &pinecone.IndexStats{Dimension: 1536, IndexFullness: 0.1}, nil
	})
	require.Equal(t, StatusHealthy, NewPineconeChecker(ok).Check(context.Background()).Status)

	down := statsFunc(func(context.Context) (*pinecone.IndexStats, error) { return nil, errors.New("unreachable") })
	require.Equal(t, StatusUnhealthy, NewPineconeChecker(down).Check(context.Background()).Status)
}

func TestSystemChecker(t *testing.T) {
	cases := []struct {
		u    Usage
		want string
	}{
		{Usage{CPU: 10, Memory: 20, Disk: 30}, StatusHealthy},
		{Usage{CPU: 75, Memory: 20, Disk: 30}, StatusDegraded},
		{Usage{CPU: 10, Memory: 20, Disk: 95}, StatusUnhealthy},
	}
	for _, tc := range cases {
		u := tc.u
		got := NewSystemChecker(func(context.Context) (Usage, error) { return u, nil }).Check(context.Background())
		if got.Status != tc.want {
			t.Fatalf("usage %+v: got=%s want=%s", u, got.Status, tc.want)
		}
	}
	failing := NewSystemChecker(func(context.Context) (Usage, error) { return Usage{}, errors.New("no proc") })
	require.Equal(t, StatusUnknown, failing.Check(context.Background()).Status)
}

func TestMonitorAggregates(t *testing.T) {
	obs := &recordingObserver{}
	m := NewMonitor(nil, time.Hour, obs,
		fixedChecker{"redis", Result{Status: StatusHealthy}},
		fixedChecker{"openai", Result{Status: StatusDegraded, LatencyMS: 7}},
		fixedChecker{"system", Result{Status: StatusUnknown}},
	)
	require.Equal(t, StatusUnknown, m.Status().Status)
	require.Equal(t, StatusUnknown, m.Metrics()["current_status"])

	rep := m.Check(context.Background())
	require.Equal(t, StatusDegraded, rep.Status)
	require.Len(t, rep.Services, 3)
	require.Equal(t, StatusDegraded, obs.seen["openai"])

	st := m.Status()
	st.Services["redis"] = Result{Status: StatusUnhealthy}
	require.Equal(t, StatusHealthy, m.Status().Services["redis"].Status)

	metrics := m.Metrics()
	require.Equal(t, int64(1), metrics["health_checks_performed"])
	require.Equal(t, StatusDegraded, metrics["openai_status"])
	require.Equal(t, int64(7), metrics["openai_latency_ms"])

	m.checkers = append(m.checkers, fixedChecker{"pinecone", Result{Status: StatusUnhealthy}})
	require.Equal(t, StatusUnhealthy, m.Check(context.Background()).Status)
}

type panicChecker struct{}

func (panicChecker) Name() string                 { return "broken" }
func (panicChecker) Check(context.Context) Result { panic("boom") }

func TestMonitorSurvivesPanickingCheck(t *testing.T) {
	m := NewMonitor(nil, time.Hour, nil, panicChecker{})
	rep := m.Check(context.Background())
	require.Equal(t, StatusUnhealthy, rep.Services["broken"].Status)
}

func TestMonitorStartStop(t *testing.T) {
	m := NewMonitor(nil, 5*time.Millisecond, nil, fixedChecker{"redis", Result{Status: StatusHealthy}})
	m.Start(context.Background())
	m.Start(context.Background())
	require.Eventually(t, func() bool {
		return m.Metrics()["health_checks_performed"].(int64) >= 2
	}, time.Second, 5*time.Millisecond)
	m.Stop()
	n := m.Metrics()["health_checks_performed"].(int64)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, n, m.Metrics()["health_checks_performed"].(int64))
	m.Stop()
}
