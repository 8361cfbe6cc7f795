package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
)

const (
	defaultInterval = 30 * time.Second
	checkTimeout    = 10 * time.Second
)

type Report struct {
	Status           string            `json:"status"`
	Timestamp        *time.Time        `json:"timestamp"`
	Services         map[string]Result `json:"services"`
	OverallLatencyMS int64             `json:"overall_latency_ms"`
}

// StatusObserver receives every per-dependency result.
type StatusObserver interface {
	ObserveHealth(service, status string, latency time.Duration)
}

type Monitor struct {
	log      *logger.Logger
	checkers []Checker
	interval time.Duration
	obs      StatusObserver
	now      func() time.Time
	started  time.Time

	mu     sync.RWMutex
	last   Report
	checks int64

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewMonitor(log *logger.Logger, interval time.Duration, obs StatusObserver, checkers ...Checker) *Monitor {
	if log == nil {
		log = logger.Nop()
	}
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Monitor{
		log:      log.With("service", "HealthMonitor"),
		checkers: checkers,
		interval: interval,
		obs:      obs,
		now:      time.Now,
		started:  time.Now(),
		last:     Report{Status: StatusUnknown, Services: map[string]Result{}},
	}
}

// Check probes every dependency concurrently and stores the report.
func (m *Monitor) Check(ctx context.Context) Report {
	start := m.now()
	results := make([]Result, len(m.checkers))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range m.checkers {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					results[i] = Result{Status: StatusUnhealthy, Error: fmt.Sprintf("check panicked: %v", r)}
				}
			}()
			cctx, cancel := context.WithTimeout(gctx, checkTimeout)
			defer cancel()
			results[i] = c.Check(cctx)
			return nil
		})
	}
	_ = g.Wait()

	ts := start.UTC()
	rep := Report{
		Status:    StatusHealthy,
		Timestamp: &ts,
		Services:  make(map[string]Result, len(results)),
	}
	for i, c := range m.checkers {
		r := results[i]
		rep.Services[c.Name()] = r
		rep.Status = worse(rep.Status, r.Status)
		if m.obs != nil {
			m.obs.ObserveHealth(c.Name(), r.Status, time.Duration(r.LatencyMS)*time.Millisecond)
		}
	}
	rep.OverallLatencyMS = m.now().Sub(start).Milliseconds()

	m.mu.Lock()
	m.last = rep
	m.checks++
	m.mu.Unlock()

	m.log.Info("Health check completed", "status", rep.Status, "latency_ms", rep.OverallLatencyMS)
	return rep
}

// worse orders healthy < degraded < unhealthy. Unknown results do not move
// the overall status.
func worse(overall, s string) string {
	rank := map[string]int{StatusHealthy: 0, StatusDegraded: 1, StatusUnhealthy: 2}
	r, ok := rank[s]
	if !ok {
		return overall
	}
	if r > rank[overall] {
		return s
	}
	return overall
}

// Status returns a copy of the last report.
func (m *Monitor) Status() Report {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.last
	out.Services = make(map[string]Result, len(m.last.Services))
	for k, v := range m.last.Services {
		out.Services[k] = v
	}
	return out
}

func (m *Monitor) Metrics() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string]any{
		"timestamp":               m.now().UTC(),
		"uptime_seconds":          int64(m.now().Sub(m.started).Seconds()),
		"health_checks_performed": m.checks,
		"last_health_check":       m.last.Timestamp,
		"current_status":          m.last.Status,
	}
	for name, r := range m.last.Services {
		out[name+"_status"] = r.Status
		out[name+"_latency_ms"] = r.LatencyMS
	}
	return out
}

// Start runs a check every interval until ctx is cancelled or Stop is
// called. Calling Start on a running monitor is a no-op.
func (m *Monitor) Start(ctx context.Context) {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	if m.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.loop(ctx, m.done)
	m.log.Info("Health monitoring started", "interval", m.interval.String(), "checks", len(m.checkers))
}

func (m *Monitor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(m.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			m.log.Info("Health monitoring loop cancelled")
			return
		case <-t.C:
			m.round(ctx)
		}
	}
}

// round isolates one check so a panic does not end the loop.
func (m *Monitor) round(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("Error in monitoring loop", "error", fmt.Sprint(r))
		}
	}()
	m.Check(ctx)
}

// Stop cancels the loop and waits for it to exit.
func (m *Monitor) Stop() {
	m.runMu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.runMu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
