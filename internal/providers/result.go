package providers

import (
	"context"
	"errors"
	"time"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
)

// ErrNotConfigured is returned by every operation of a provider without credentials.
var ErrNotConfigured = errors.New("provider not configured")

// Result is the outcome of one provider call. Exactly one of Value and Err is meaningful.
type Result[T any] struct {
	Value    T
	Err      error
	Provider domain.ProviderName
}

func OK[T any](p domain.ProviderName, v T) Result[T] {
	return Result[T]{Value: v, Provider: p}
}

func Fail[T any](p domain.ProviderName, err error) Result[T] {
	return Result[T]{Err: err, Provider: p}
}

func (r Result[T]) Ok() bool { return r.Err == nil }

type Embedding struct {
	Vectors     [][]float32 `json:"embeddings"`
	Model       string      `json:"model"`
	TotalTokens int         `json:"total_tokens"`
}

// Provider is one LLM backend as seen by the orchestrator. Implementations
// never panic across this boundary; failures come back as Result.Err.
type Provider interface {
	Name() domain.ProviderName
	Configured() bool
	GeneratePath(ctx context.Context, req domain.LearningPathRequest) Result[*domain.LearningPath]
	Recommend(ctx context.Context, req domain.ContentRecommendationRequest) Result[[]domain.ContentRecommendation]
	// Embed uses the provider's default embedding model when model is empty.
	Embed(ctx context.Context, texts []string, model string) Result[Embedding]
	// Probe issues a minimal request and reports its latency.
	Probe(ctx context.Context) Result[time.Duration]
}
