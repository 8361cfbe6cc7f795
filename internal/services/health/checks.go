package health

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/yungbote/lusilearn-ai-service/internal/platform/apierr"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/pinecone"
	"github.com/yungbote/lusilearn-ai-service/internal/providers"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
	StatusUnknown   = "unknown"
)

// Result is one dependency's health. Only the fields relevant to the
// dependency are set.
type Result struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`

	Model            string   `json:"model,omitempty"`
	MemoryUsageBytes *int64   `json:"memory_usage_bytes,omitempty"`
	ConnectedClients *int64   `json:"connected_clients,omitempty"`
	VectorCount      *int64   `json:"vector_count,omitempty"`
	IndexFullness    *float64 `json:"index_fullness,omitempty"`
	Dimension        *int     `json:"dimension,omitempty"`
	CPUPercent       *float64 `json:"cpu_percent,omitempty"`
	MemoryPercent    *float64 `json:"memory_percent,omitempty"`
	DiskPercent      *float64 `json:"disk_percent,omitempty"`
}

type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

func since(start time.Time) int64 { return time.Since(start).Milliseconds() }

// -------------------- redis --------------------

const (
	redisSlow      = time.Second
	redisMaxMemory = 1 << 30
	redisProbeKey  = "health_check_test"
)

type RedisChecker struct {
	rdb *goredis.Client
}

// NewRedisChecker accepts a nil client, which reports as not configured.
func NewRedisChecker(rdb *goredis.Client) *RedisChecker { return &RedisChecker{rdb: rdb} }

func (c *RedisChecker) Name() string { return "redis" }

func (c *RedisChecker) Check(ctx context.Context) Result {
	if c.rdb == nil {
		return Result{Status: StatusDegraded, Error: "redis not configured"}
	}
	start := time.Now()
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return Result{Status: StatusUnhealthy, LatencyMS: since(start), Error: err.Error()}
	}
	want := fmt.Sprintf("test_%d", start.UnixNano())
	if err := c.rdb.Set(ctx, redisProbeKey, want, time.Minute).Err(); err != nil {
		return Result{Status: StatusUnhealthy, LatencyMS: since(start), Error: err.Error()}
	}
	got, err := c.rdb.Get(ctx, redisProbeKey).Result()
	_ = c.rdb.Del(ctx, redisProbeKey).Err()
	if err != nil {
		return Result{Status: StatusUnhealthy, LatencyMS: since(start), Error: err.Error()}
	}
	if got != want {
		return Result{Status: StatusUnhealthy, LatencyMS: since(start), Error: "redis read/write test failed"}
	}

	res := Result{Status: StatusHealthy}
	if info, err := c.rdb.Info(ctx, "memory", "clients").Result(); err == nil {
		fields := parseInfo(info)
		if v, ok := fields["used_memory"]; ok {
			res.MemoryUsageBytes = &v
		}
		if v, ok := fields["connected_clients"]; ok {
			res.ConnectedClients = &v
		}
	}
	res.LatencyMS = since(start)
	if res.LatencyMS > redisSlow.Milliseconds() || (res.MemoryUsageBytes != nil && *res.MemoryUsageBytes > redisMaxMemory) {
		res.Status = StatusDegraded
	}
	return res
}

// parseInfo reads the integer fields of a Redis INFO reply.
func parseInfo(info string) map[string]int64 {
	out := map[string]int64{}
	sc := bufio.NewScanner(strings.NewReader(info))
	for sc.Scan() {
		k, v, ok := strings.Cut(strings.TrimSpace(sc.Text()), ":")
		if !ok || strings.HasPrefix(k, "#") {
			continue
		}
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			out[k] = n
		}
	}
	return out
}

// -------------------- providers --------------------

const providerSlow = 5 * time.Second

type ProviderChecker struct {
	p providers.Provider
}

func NewProviderChecker(p providers.Provider) *ProviderChecker { return &ProviderChecker{p: p} }

func (c *ProviderChecker) Name() string { return string(c.p.Name()) }

func (c *ProviderChecker) Check(ctx context.Context) Result {
	if !c.p.Configured() {
		return Result{Status: StatusDegraded, Error: string(c.p.Name()) + " not configured"}
	}
	start := time.Now()
	res := c.p.Probe(ctx)
	switch {
	case errors.Is(res.Err, providers.ErrNotConfigured):
		return Result{Status: StatusDegraded, Error: string(c.p.Name()) + " not configured"}
	case apierr.IsRateLimit(res.Err):
		return Result{Status: StatusDegraded, LatencyMS: since(start), Error: "Rate limit exceeded"}
	case res.Err != nil:
		return Result{Status: StatusUnhealthy, LatencyMS: since(start), Error: res.Err.Error()}
	}
	out := Result{Status: StatusHealthy, LatencyMS: res.Value.Milliseconds()}
	if res.Value > providerSlow {
		out.Status = StatusDegraded
	}
	return out
}

// -------------------- pinecone --------------------

const (
	pineconeSlow        = 3 * time.Second
	pineconeMaxFullness = 0.9
)

// IndexStatter is satisfied by *pinecone.VectorStore.
type IndexStatter interface {
	Stats(ctx context.Context) (*pinecone.IndexStats, error)
}

type PineconeChecker struct {
	store IndexStatter
}

// NewPineconeChecker accepts a nil store, which reports as not configured.
func NewPineconeChecker(store IndexStatter) *PineconeChecker { return &PineconeChecker{store: store} }

func (c *PineconeChecker) Name() string { return "pinecone" }

func (c *PineconeChecker) Check(ctx context.Context) Result {
	if c.store == nil {
		return Result{Status: StatusDegraded, Error: "Pinecone not available or not configured"}
	}
	start := time.Now()
	stats, err := c.store.Stats(ctx)
	if err != nil {
		return Result{Status: StatusUnhealthy, LatencyMS: since(start), Error: err.Error()}
	}
	res := Result{
		Status:        StatusHealthy,
		LatencyMS:     since(start),
		VectorCount:   &stats.TotalVectorCount,
		IndexFullness: &stats.IndexFullness,
		Dimension:     &stats.Dimension,
	}
	if res.LatencyMS > pineconeSlow.Milliseconds() || stats.IndexFullness > pineconeMaxFullness {
		res.Status = StatusDegraded
	}
	return res
}

// -------------------- system --------------------

const (
	systemDegraded  = 70.0
	systemUnhealthy = 90.0
)

type Usage struct {
	CPU, Memory, Disk float64
}

// Sampler reads host utilisation percentages.
type Sampler func(ctx context.Context) (Usage, error)

// HostSampler samples cpu over one second, memory, and the root filesystem.
func HostSampler(ctx context.Context) (Usage, error) {
	cpus, err := cpu.PercentWithContext(ctx, time.Second, false)
	if err != nil {
		return Usage{}, fmt.Errorf("cpu: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Usage{}, fmt.Errorf("memory: %w", err)
	}
	du, err := disk.UsageWithContext(ctx, "/")
	if err != nil {
		return Usage{}, fmt.Errorf("disk: %w", err)
	}
	u := Usage{Memory: vm.UsedPercent, Disk: du.UsedPercent}
	if len(cpus) > 0 {
		u.CPU = cpus[0]
	}
	return u, nil
}

type SystemChecker struct {
	sample Sampler
}

// NewSystemChecker uses HostSampler when sample is nil.
func NewSystemChecker(sample Sampler) *SystemChecker {
	if sample == nil {
		sample = HostSampler
	}
	return &SystemChecker{sample: sample}
}

func (c *SystemChecker) Name() string { return "system" }

func (c *SystemChecker) Check(ctx context.Context) Result {
	start := time.Now()
	u, err := c.sample(ctx)
	if err != nil {
		return Result{Status: StatusUnknown, LatencyMS: since(start), Error: err.Error()}
	}
	res := Result{
		Status:        StatusHealthy,
		LatencyMS:     since(start),
		CPUPercent:    &u.CPU,
		MemoryPercent: &u.Memory,
		DiskPercent:   &u.Disk,
	}
	switch {
	case u.CPU > systemUnhealthy || u.Memory > systemUnhealthy || u.Disk > systemUnhealthy:
		res.Status = StatusUnhealthy
	case u.CPU > systemDegraded || u.Memory > systemDegraded || u.Disk > systemDegraded:
		res.Status = StatusDegraded
	}
	return res
}
