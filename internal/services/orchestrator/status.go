package orchestrator

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
	"github.com/yungbote/lusilearn-ai-service/internal/providers"
)

const (
	StatusHealthy       = "healthy"
	StatusNotConfigured = "not_configured"
	StatusError         = "error"
)

// ProviderStatus probes both providers concurrently.
func (o *orchestrator) ProviderStatus(ctx context.Context) StatusReport {
	results := o.bothProviders(ctx, func(ctx context.Context, p providers.Provider) any {
		if !p.Configured() {
			return ProviderState{Status: StatusNotConfigured}
		}
		res := p.Probe(ctx)
		if !res.Ok() {
			st := ProviderState{Configured: true, Status: StatusError, Error: res.Err.Error()}
			if errors.Is(res.Err, providers.ErrNotConfigured) {
				st = ProviderState{Status: StatusNotConfigured}
			}
			return st
		}
		return ProviderState{
			Available:  true,
			Configured: true,
			Status:     StatusHealthy,
			LatencyMS:  float64(res.Value.Microseconds()) / 1000,
		}
	})
	out := StatusReport{
		CurrentProvider: o.CurrentProvider(),
		Providers:       make(map[domain.ProviderName]ProviderState, len(results)),
	}
	for name, v := range results {
		out.Providers[name] = v.(ProviderState)
	}
	return out
}

// bothProviders runs fn against every provider concurrently.
func (o *orchestrator) bothProviders(ctx context.Context, fn func(context.Context, providers.Provider) any) map[domain.ProviderName]any {
	var (
		mu  sync.Mutex
		out = make(map[domain.ProviderName]any, len(o.providers))
		g   errgroup.Group
	)
	for name, p := range o.providers {
		g.Go(func() error {
			v := fn(ctx, p)
			mu.Lock()
			out[name] = v
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}
