package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lusilearn-ai-service/internal/config"
	apphttp "github.com/yungbote/lusilearn-ai-service/internal/http"
	"github.com/yungbote/lusilearn-ai-service/internal/observability"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
)

const serviceDisplayName = "LusiLearn AI Service"

type App struct {
	Log      *logger.Logger
	Cfg      config.Config
	Metrics  *observability.Metrics
	Clients  Clients
	Services Services
	Server   *apphttp.Server

	shutdownOTel func(context.Context) error
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig wires every dependency from cfg. Missing provider or vector
// credentials leave those dependencies unconfigured instead of failing.
func NewWithConfig(cfg config.Config) (*App, error) {
	log, err := logger.NewWithFile(cfg.Log.Mode, logger.FileSink{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.FileMaxMB,
		MaxBackups: cfg.Log.FileBackups,
		MaxAgeDays: cfg.Log.FileMaxAge,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	var metrics *observability.Metrics
	if cfg.Telemetry.MetricsEnabled {
		metrics = observability.NewMetrics()
	}
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		Enabled:     cfg.Telemetry.OTelEnabled,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Insecure:    cfg.Telemetry.OTLPInsecure,
		SampleRatio: cfg.Telemetry.SampleRatio,
	})

	clients := wireClients(log, cfg, metrics)
	services, err := wireServices(log, cfg, clients, metrics)
	if err != nil {
		clients.Close()
		log.Sync()
		return nil, err
	}
	handlers := wireHandlers(log, cfg, services)
	server := wireServer(log, cfg, metrics, handlers)

	log.Info("AI service initialized",
		"environment", cfg.Environment,
		"provider", cfg.AI.Provider,
		"fallbacks", cfg.AI.EnableFallbacks,
		"metrics", metrics != nil,
		"tracing", cfg.Telemetry.OTelEnabled,
	)
	return &App{
		Log:          log,
		Cfg:          cfg,
		Metrics:      metrics,
		Clients:      clients,
		Services:     services,
		Server:       server,
		shutdownOTel: shutdownOTel,
	}, nil
}

// Run starts the health loop and serves HTTP until ctx is cancelled or the
// listener fails, then releases every resource.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	defer a.Close()

	a.Services.Health.Start(ctx)

	addr := a.Cfg.API.Addr()
	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("HTTP server listening", "addr", addr)
		errCh <- a.Server.Run(addr)
	}()

	select {
	case <-ctx.Done():
		a.Log.Info("Shutting down AI service")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Cfg.API.ShutdownTimeout)
		defer cancel()
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			a.Log.Warn("HTTP shutdown incomplete", "error", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// Close stops background work and flushes telemetry. Safe to call more than once.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Services.Health != nil {
		a.Services.Health.Stop()
	}
	a.Clients.Close()
	if a.shutdownOTel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.shutdownOTel(ctx); err != nil && a.Log != nil {
			a.Log.Warn("Tracer shutdown failed", "error", err)
		}
		cancel()
		a.shutdownOTel = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
