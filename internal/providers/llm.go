package providers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
	"github.com/yungbote/lusilearn-ai-service/internal/learning/prompts"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/apierr"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/cache"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/gemini"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/httpx"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/openai"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/ratelimit"
)

const (
	OpLearningPath    = "learning_path"
	OpRecommendations = "recommendations"
	OpEmbeddings      = "embeddings"
)

// Limits caps calls per wall-clock minute, per operation.
type Limits map[string]int

var (
	OpenAILimits = Limits{OpLearningPath: 10, OpRecommendations: 20, OpEmbeddings: 100}
	GeminiLimits = Limits{OpLearningPath: 15, OpRecommendations: 30, OpEmbeddings: 60}
)

// Observer receives one event per provider call.
type Observer interface {
	ObserveProviderRequest(provider, operation, outcome string, d time.Duration)
}

type Options struct {
	Limits Limits
	// Cache stores generated paths and recommendations. Nil disables caching.
	Cache    cache.Cache
	CacheTTL time.Duration
	// BatchSize splits embedding requests; BatchInterval paces the batches.
	BatchSize       int
	BatchInterval   time.Duration
	BreakerFailures uint32
	BreakerTimeout  time.Duration
	Observer        Observer
}

// LLMProvider adapts a chat/embedding backend to Provider with rate limiting,
// response caching and a circuit breaker.
type LLMProvider struct {
	name     domain.ProviderName
	log      *logger.Logger
	chat     Completer
	embed    EmbeddingClient
	limits   Limits
	counter  *ratelimit.MinuteCounter
	breaker  *gobreaker.CircuitBreaker[any]
	cache    cache.Cache
	cacheTTL time.Duration
	batch    int
	pacer    *rate.Limiter
	obs      Observer
	now      func() time.Time
}

func NewLLMProvider(log *logger.Logger, name domain.ProviderName, chat Completer, embed EmbeddingClient, opts Options) *LLMProvider {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("provider", string(name))
	failures := opts.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	timeout := opts.BreakerTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	batch := opts.BatchSize
	if batch <= 0 {
		batch = 100
	}
	interval := opts.BatchInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	p := &LLMProvider{
		name:     name,
		log:      log,
		chat:     chat,
		embed:    embed,
		limits:   opts.Limits,
		counter:  ratelimit.NewMinuteCounter(),
		cache:    opts.Cache,
		cacheTTL: ttl,
		batch:    batch,
		pacer:    rate.NewLimiter(rate.Every(interval), 1),
		obs:      opts.Observer,
		now:      time.Now,
	}
	p.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        string(name),
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Provider circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	})
	return p
}

// NewOpenAI wraps c. A nil client yields an unconfigured provider.
func NewOpenAI(log *logger.Logger, c openai.Client, opts Options) *LLMProvider {
	if opts.Limits == nil {
		opts.Limits = OpenAILimits
	}
	if c == nil {
		return NewLLMProvider(log, domain.ProviderOpenAI, nil, nil, opts)
	}
	b := openaiBackend{c: c}
	return NewLLMProvider(log, domain.ProviderOpenAI, b, b, opts)
}

// NewGemini wraps c. A nil client yields an unconfigured provider.
func NewGemini(log *logger.Logger, c gemini.Client, embedModel string, opts Options) *LLMProvider {
	if opts.Limits == nil {
		opts.Limits = GeminiLimits
	}
	if c == nil {
		return NewLLMProvider(log, domain.ProviderGemini, nil, nil, opts)
	}
	if embedModel == "" {
		embedModel = gemini.DefaultEmbedModel
	}
	b := geminiBackend{c: c, embedModel: embedModel}
	return NewLLMProvider(log, domain.ProviderGemini, b, b, opts)
}

func (p *LLMProvider) Name() domain.ProviderName { return p.name }

func (p *LLMProvider) Configured() bool { return p.chat != nil }

// BreakerState reports the circuit breaker state ("closed", "open", "half-open").
func (p *LLMProvider) BreakerState() string { return p.breaker.State().String() }

func (p *LLMProvider) GeneratePath(ctx context.Context, req domain.LearningPathRequest) Result[*domain.LearningPath] {
	key := p.cacheKey(OpLearningPath, req.UserID, req)
	var cached domain.LearningPath
	if p.cacheGet(ctx, key, &cached) {
		p.log.Info("Returning cached learning path", "user_id", req.UserID)
		p.observe(OpLearningPath, "cache_hit", 0)
		return OK(p.name, &cached)
	}

	res := call(ctx, p, OpLearningPath, func(ctx context.Context) (*domain.LearningPath, error) {
		prompt, err := prompts.Build(prompts.PromptLearningPath, prompts.Input{
			EducationLevel:   string(req.EducationLevel),
			Subject:          req.Subject,
			CurrentLevel:     string(req.CurrentLevel),
			LearningGoalsCSV: strings.Join(req.LearningGoals, ", "),
			TimeCommitment:   req.TimeCommitment,
			LearningStyle:    string(req.LearningStyle),
			PrerequisitesCSV: strings.Join(req.Prerequisites, ", "),
		})
		if err != nil {
			return nil, err
		}
		text, err := p.chat.Complete(ctx, prompt.System, prompt.User, CompleteOptions{})
		if err != nil {
			return nil, err
		}
		return parseLearningPath(p.name, text, req, p.now()), nil
	})
	if res.Ok() {
		p.cacheSet(ctx, key, res.Value)
	}
	return res
}

func (p *LLMProvider) Recommend(ctx context.Context, req domain.ContentRecommendationRequest) Result[[]domain.ContentRecommendation] {
	key := p.cacheKey(OpRecommendations, req.UserID, req)
	var cached []domain.ContentRecommendation
	if p.cacheGet(ctx, key, &cached) {
		p.log.Info("Returning cached recommendations", "user_id", req.UserID)
		p.observe(OpRecommendations, "cache_hit", 0)
		return OK(p.name, cached)
	}

	res := call(ctx, p, OpRecommendations, func(ctx context.Context) ([]domain.ContentRecommendation, error) {
		formats := make([]string, 0, len(req.PreferredFormats))
		for _, f := range req.PreferredFormats {
			formats = append(formats, string(f))
		}
		prompt, err := prompts.Build(prompts.PromptContentRecommendations, prompts.Input{
			EducationLevel:      string(req.EducationLevel),
			CurrentTopic:        req.CurrentTopic,
			SkillLevel:          string(req.SkillLevel),
			LearningContext:     string(req.LearningContext),
			PreferredFormatsCSV: strings.Join(formats, ", "),
			MaxDuration:         req.MaxDurationOrDefault(),
		})
		if err != nil {
			return nil, err
		}
		temp := 0.5
		text, err := p.chat.Complete(ctx, prompt.System, prompt.User, CompleteOptions{MaxTokens: 800, Temperature: &temp})
		if err != nil {
			return nil, err
		}
		return parseRecommendations(p.name, text, req), nil
	})
	if res.Ok() {
		p.cacheSet(ctx, key, res.Value)
	}
	return res
}

// Embed splits texts into batches and paces them with a token bucket.
func (p *LLMProvider) Embed(ctx context.Context, texts []string, model string) Result[Embedding] {
	return call(ctx, p, OpEmbeddings, func(ctx context.Context) (Embedding, error) {
		out := Embedding{Vectors: make([][]float32, 0, len(texts))}
		for start := 0; start < len(texts); start += p.batch {
			end := start + p.batch
			if end > len(texts) {
				end = len(texts)
			}
			if err := p.pacer.Wait(ctx); err != nil {
				return Embedding{}, err
			}
			part, err := p.embed.EmbedBatch(ctx, model, texts[start:end])
			if err != nil {
				return Embedding{}, err
			}
			if len(part.Vectors) != end-start {
				return Embedding{}, fmt.Errorf("embedding batch returned %d vectors for %d texts", len(part.Vectors), end-start)
			}
			out.Vectors = append(out.Vectors, part.Vectors...)
			out.TotalTokens += part.TotalTokens
			if out.Model == "" {
				out.Model = part.Model
			}
		}
		if out.Model == "" {
			out.Model = model
		}
		return out, nil
	})
}

// Probe bypasses the rate limiter and breaker so health checks observe the backend directly.
func (p *LLMProvider) Probe(ctx context.Context) Result[time.Duration] {
	if !p.Configured() {
		return Fail[time.Duration](p.name, ErrNotConfigured)
	}
	prompt, err := prompts.Build(prompts.PromptHealthProbe, prompts.Input{})
	if err != nil {
		return Fail[time.Duration](p.name, err)
	}
	zero := 0.0
	start := time.Now()
	if _, err := p.chat.Complete(ctx, "", prompt.User, CompleteOptions{MaxTokens: 5, Temperature: &zero}); err != nil {
		return Fail[time.Duration](p.name, p.classify("probe", err))
	}
	return OK(p.name, time.Since(start))
}

func call[T any](ctx context.Context, p *LLMProvider, op string, fn func(context.Context) (T, error)) Result[T] {
	start := time.Now()
	if !p.Configured() {
		p.observe(op, "not_configured", 0)
		return Fail[T](p.name, apierr.Provider(string(p.name), ErrNotConfigured))
	}
	if !p.counter.Allow(op, p.limits[op]) {
		p.log.Warn("Provider rate limit reached", "operation", op, "limit", p.limits[op])
		p.observe(op, "rate_limited", time.Since(start))
		return Fail[T](p.name, apierr.RateLimited(op, apierr.DefaultRetryAfter))
	}

	out, err := p.breaker.Execute(func() (v any, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in %s: %v", op, r)
			}
		}()
		return fn(ctx)
	})
	if err != nil {
		classified := p.classify(op, err)
		p.log.Warn("Provider request failed", "operation", op, "error", err.Error())
		p.observe(op, outcome(classified, err), time.Since(start))
		return Fail[T](p.name, classified)
	}
	p.observe(op, "success", time.Since(start))
	v, _ := out.(T)
	return OK(p.name, v)
}

// classify maps a backend error onto the API error taxonomy.
func (p *LLMProvider) classify(op string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apierr.Provider(string(p.name), fmt.Errorf("circuit open: %w", err))
	}
	var gerr *gemini.APIError
	if errors.As(err, &gerr) && gerr.IsRateLimitError() {
		return apierr.RateLimited(op, apierr.DefaultRetryAfter)
	}
	var serr *httpx.StatusError
	if errors.As(err, &serr) && serr.StatusCode == 429 {
		return apierr.RateLimited(op, int(serr.RetryAfter.Seconds()))
	}
	return apierr.Provider(string(p.name), err)
}

func outcome(classified, raw error) string {
	switch {
	case errors.Is(raw, gobreaker.ErrOpenState), errors.Is(raw, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case apierr.IsRateLimit(classified):
		return "rate_limited"
	default:
		return "error"
	}
}

func (p *LLMProvider) observe(op, outcome string, d time.Duration) {
	if p.obs != nil {
		p.obs.ObserveProviderRequest(string(p.name), op, outcome, d)
	}
}

// cacheKey is "{provider}:{op}:{user}:{sha256(request)[:16]}".
func (p *LLMProvider) cacheKey(op, userID string, req any) string {
	raw, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("%s:%s:%s:%s", p.name, op, userID, hex.EncodeToString(sum[:])[:16])
}

func (p *LLMProvider) cacheGet(ctx context.Context, key string, dst any) bool {
	if p.cache == nil || key == "" || !p.Configured() {
		return false
	}
	hit, err := p.cache.Get(ctx, key, dst)
	if err != nil {
		p.log.Warn("Provider cache read failed", "key", key, "error", err.Error())
		return false
	}
	return hit
}

func (p *LLMProvider) cacheSet(ctx context.Context, key string, val any) {
	if p.cache == nil || key == "" {
		return
	}
	if err := p.cache.Set(ctx, key, val, p.cacheTTL); err != nil {
		p.log.Warn("Provider cache write failed", "key", key, "error", err.Error())
	}
}
