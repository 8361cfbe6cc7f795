package app

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/lusilearn-ai-service/internal/config"
	"github.com/yungbote/lusilearn-ai-service/internal/domain"
	"github.com/yungbote/lusilearn-ai-service/internal/learning/pathalgo"
	"github.com/yungbote/lusilearn-ai-service/internal/observability"
	"github.com/yungbote/lusilearn-ai-service/internal/peermatch"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
	"github.com/yungbote/lusilearn-ai-service/internal/providers"
	"github.com/yungbote/lusilearn-ai-service/internal/recommend"
	"github.com/yungbote/lusilearn-ai-service/internal/services/health"
	"github.com/yungbote/lusilearn-ai-service/internal/services/orchestrator"
)

const vectorCandidateTopK = 10

type Services struct {
	OpenAI       *providers.LLMProvider
	Gemini       *providers.LLMProvider
	Paths        *pathalgo.Algorithm
	Engine       *recommend.Engine
	Peers        *peermatch.Engine
	Orchestrator orchestrator.Orchestrator
	Health       *health.Monitor
}

func wireServices(log *logger.Logger, cfg config.Config, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	opts := providers.Options{
		Cache:     clients.Response,
		CacheTTL:  cfg.AI.FallbackCacheTTL,
		BatchSize: cfg.Limits.EmbeddingBatchSize,
		Observer:  metrics,
	}
	openaiP := providers.NewOpenAI(log, clients.OpenAI, opts)
	geminiP := providers.NewGemini(log, clients.Gemini, cfg.Gemini.EmbedModel, opts)

	recOpts := recommend.Options{VectorCache: clients.VectorCache}
	if openaiP.Configured() || geminiP.Configured() {
		recOpts.Embedder = recommend.NewProviderEmbedder("provider", orchestrator.EmbedChain(openaiP, geminiP))
	}
	if clients.Vectors != nil {
		recOpts.Source = recommend.NewVectorSource(clients.Vectors, vectorCandidateTopK)
	}
	engine := recommend.New(log, recOpts)
	paths := pathalgo.New(log)

	defaultProvider, err := domain.ParseProvider(cfg.AI.Provider)
	if err != nil {
		return Services{}, fmt.Errorf("AI_PROVIDER: %w", err)
	}
	orch, err := orchestrator.New(log, orchestrator.Config{
		DefaultProvider:    defaultProvider,
		EnableFallbacks:    cfg.AI.EnableFallbacks,
		MaxRecommendations: cfg.Limits.MaxContentRecommendations,
	}, orchestrator.Deps{
		OpenAI:   openaiP,
		Gemini:   geminiP,
		Paths:    paths,
		Engine:   engine,
		Observer: metrics,
	})
	if err != nil {
		return Services{}, fmt.Errorf("wire orchestrator: %w", err)
	}

	var rdb *goredis.Client
	if clients.Redis != nil {
		rdb = clients.Redis.Client()
	}
	monitor := health.NewMonitor(log, cfg.Limits.HealthCheckInterval, metrics,
		health.NewRedisChecker(rdb),
		health.NewProviderChecker(openaiP),
		health.NewProviderChecker(geminiP),
		health.NewPineconeChecker(clients.Vectors),
		health.NewSystemChecker(health.HostSampler),
	)

	return Services{
		OpenAI:       openaiP,
		Gemini:       geminiP,
		Paths:        paths,
		Engine:       engine,
		Peers:        peermatch.New(log),
		Orchestrator: orch,
		Health:       monitor,
	}, nil
}
