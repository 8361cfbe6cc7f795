package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
	"github.com/yungbote/lusilearn-ai-service/internal/learning/pathalgo"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/apierr"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
	"github.com/yungbote/lusilearn-ai-service/internal/providers"
	"github.com/yungbote/lusilearn-ai-service/internal/recommend"
)

const (
	// maxProviderItems bounds how many provider recommendations lead the merged list.
	maxProviderItems          = 6
	defaultMaxRecommendations = 10
)

type Orchestrator interface {
	CurrentProvider() domain.ProviderName
	SetProvider(raw string) (domain.ProviderName, error)
	GenerateLearningPath(ctx context.Context, req domain.LearningPathRequest, override domain.ProviderName) (*domain.LearningPath, error)
	GetContentRecommendations(ctx context.Context, req domain.ContentRecommendationRequest, override domain.ProviderName, strategy recommend.Strategy) (Recommendations, error)
	CreateEmbeddings(ctx context.Context, texts []string, model string, override domain.ProviderName) (EmbeddingResult, error)
	ProviderStatus(ctx context.Context) StatusReport
	CompareLearningPaths(ctx context.Context, req domain.LearningPathRequest) PathComparison
	CompareRecommendations(ctx context.Context, req domain.ContentRecommendationRequest) RecommendationComparison
}

// FallbackObserver counts every degradation step the orchestrator takes.
type FallbackObserver interface {
	ObserveFallback(operation, kind string)
}

type Config struct {
	DefaultProvider    domain.ProviderName
	EnableFallbacks    bool
	MaxRecommendations int
}

type Deps struct {
	OpenAI   providers.Provider
	Gemini   providers.Provider
	Paths    *pathalgo.Algorithm
	Engine   *recommend.Engine
	Observer FallbackObserver
}

type orchestrator struct {
	log       *logger.Logger
	cfg       Config
	providers map[domain.ProviderName]providers.Provider
	paths     *pathalgo.Algorithm
	engine    *recommend.Engine
	hash      *recommend.HashEmbedder
	obs       FallbackObserver

	mu      sync.RWMutex
	current domain.ProviderName
}

func New(log *logger.Logger, cfg Config, deps Deps) (Orchestrator, error) {
	if log == nil {
		log = logger.Nop()
	}
	if deps.OpenAI == nil || deps.Gemini == nil {
		return nil, errors.New("orchestrator: both providers are required")
	}
	if deps.Paths == nil || deps.Engine == nil {
		return nil, errors.New("orchestrator: path algorithm and recommendation engine are required")
	}
	if cfg.DefaultProvider == "" {
		cfg.DefaultProvider = domain.ProviderOpenAI
	}
	if _, err := domain.ParseProvider(string(cfg.DefaultProvider)); err != nil {
		return nil, apierr.Configuration(err)
	}
	if cfg.MaxRecommendations <= 0 {
		cfg.MaxRecommendations = defaultMaxRecommendations
	}
	o := &orchestrator{
		log: log.With("service", "AIOrchestrator"),
		cfg: cfg,
		providers: map[domain.ProviderName]providers.Provider{
			domain.ProviderOpenAI: deps.OpenAI,
			domain.ProviderGemini: deps.Gemini,
		},
		paths:   deps.Paths,
		engine:  deps.Engine,
		hash:    recommend.NewHashEmbedder(),
		obs:     deps.Observer,
		current: cfg.DefaultProvider,
	}
	o.log.Info("AI orchestrator initialized",
		"default_provider", cfg.DefaultProvider,
		"fallbacks", cfg.EnableFallbacks,
		"openai_configured", deps.OpenAI.Configured(),
		"gemini_configured", deps.Gemini.Configured(),
	)
	return o, nil
}

func (o *orchestrator) CurrentProvider() domain.ProviderName {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.current
}

func (o *orchestrator) SetProvider(raw string) (domain.ProviderName, error) {
	name, err := domain.ParseProvider(raw)
	if err != nil {
		return "", apierr.Configuration(err)
	}
	o.mu.Lock()
	prev := o.current
	o.current = name
	o.mu.Unlock()
	o.log.Info("AI provider switched", "from", prev, "to", name)
	return name, nil
}

// chain lists the providers to try in order. The secondary is only included
// when fallbacks are enabled.
func (o *orchestrator) chain(override domain.ProviderName) []providers.Provider {
	chosen := override
	if chosen == "" {
		chosen = o.CurrentProvider()
	}
	out := []providers.Provider{o.providers[chosen]}
	if o.cfg.EnableFallbacks {
		out = append(out, o.providers[chosen.Other()])
	}
	return out
}

func (o *orchestrator) observe(op, kind string) {
	if o.obs != nil {
		o.obs.ObserveFallback(op, kind)
	}
}

// failure keeps rate-limit and provider errors as they are; anything else is
// reported as a provider failure.
func failure(p domain.ProviderName, err error) error {
	if err == nil {
		return apierr.Provider(string(p), errors.New("no provider answered"))
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae
	}
	return apierr.Provider(string(p), err)
}

func wordCount(texts []string) int {
	n := 0
	for _, t := range texts {
		n += len(strings.Fields(t))
	}
	return n
}
