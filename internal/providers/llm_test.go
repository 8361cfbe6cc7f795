package providers

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/apierr"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/cache"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/httpx"
)

const pathJSON = `Here you go:
{"objectives":[
  {"id":"a","title":"Foundations","difficulty":"beginner","estimated_hours":"6 hours"},
  {"title":"Applications","difficulty":"expert","estimated_hours":4,"prerequisites":["Foundations"]}
],"difficulty_progression":"beginner -> advanced"}
Good luck!`

type fakeCompleter struct {
	calls int32
	text  string
	err   error
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string, opts CompleteOptions) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.text, f.err
}

type fakeEmbedder struct {
	calls int32
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, model string, texts []string) (Embedding, error) {
	atomic.AddInt32(&f.calls, 1)
	out := Embedding{Model: "fake-embed", TotalTokens: len(texts)}
	for range texts {
		out.Vectors = append(out.Vectors, []float32{1, 0})
	}
	return out, nil
}

func pathRequest(user string) domain.LearningPathRequest {
	return domain.LearningPathRequest{
		UserID:         user,
		Subject:        "mathematics",
		EducationLevel: domain.EducationCollege,
		CurrentLevel:   domain.Beginner,
		LearningGoals:  []string{"algebra"},
		TimeCommitment: 5,
		LearningStyle:  domain.StyleVisual,
	}
}

func TestNotConfigured(t *testing.T) {
	p := NewOpenAI(nil, nil, Options{})
	require.False(t, p.Configured())

	res := p.GeneratePath(context.Background(), pathRequest("u1"))
	require.False(t, res.Ok())
	require.True(t, errors.Is(res.Err, ErrNotConfigured))
	require.Equal(t, apierr.CodeProvider, apierr.As(res.Err).Code)
	require.Equal(t, domain.ProviderOpenAI, res.Provider)

	probe := p.Probe(context.Background())
	require.ErrorIs(t, probe.Err, ErrNotConfigured)
}

func TestGeneratePathParsesJSON(t *testing.T) {
	chat := &fakeCompleter{text: pathJSON}
	p := NewLLMProvider(nil, domain.ProviderGemini, chat, &fakeEmbedder{}, Options{})
	p.now = func() time.Time { return time.Unix(1700000000, 0) }

	res := p.GeneratePath(context.Background(), pathRequest("u1"))
	require.True(t, res.Ok(), "err=%v", res.Err)
	path := res.Value
	require.Equal(t, "gemini_path_u1_1700000000", path.PathID)
	require.Equal(t, SourceAIGenerated, path.Source)
	require.Len(t, path.Objectives, 2)
	require.Equal(t, 6, path.Objectives[0].EstimatedHours)
	require.Equal(t, domain.Beginner, path.Objectives[1].Difficulty)
	require.Equal(t, []string{"a"}, path.Objectives[1].Prerequisites)
	require.Equal(t, 10, path.TotalEstimatedHours)
	require.Equal(t, domain.Advanced, path.DifficultyProgression.TargetLevel)
	require.Len(t, path.Milestones, 1)
}

func TestRateLimitPerOperation(t *testing.T) {
	chat := &fakeCompleter{text: pathJSON}
	p := NewLLMProvider(nil, domain.ProviderOpenAI, chat, &fakeEmbedder{}, Options{Limits: Limits{OpLearningPath: 1}})

	require.True(t, p.GeneratePath(context.Background(), pathRequest("u1")).Ok())
	res := p.GeneratePath(context.Background(), pathRequest("u2"))
	require.True(t, apierr.IsRateLimit(res.Err), "err=%v", res.Err)
	require.Equal(t, apierr.DefaultRetryAfter, apierr.As(res.Err).RetryAfter)
	require.EqualValues(t, 1, atomic.LoadInt32(&chat.calls))

	// Other operations keep their own budget.
	rec := p.Recommend(context.Background(), domain.ContentRecommendationRequest{UserID: "u1", CurrentTopic: "algebra"})
	require.True(t, rec.Ok(), "err=%v", rec.Err)
}

func TestUpstreamRateLimitMapsToRateLimited(t *testing.T) {
	chat := &fakeCompleter{err: &httpx.StatusError{Service: "openai", StatusCode: 429, RetryAfter: 5 * time.Second}}
	p := NewLLMProvider(nil, domain.ProviderOpenAI, chat, &fakeEmbedder{}, Options{})

	res := p.GeneratePath(context.Background(), pathRequest("u1"))
	require.True(t, apierr.IsRateLimit(res.Err))
	require.Equal(t, 5, apierr.As(res.Err).RetryAfter)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	chat := &fakeCompleter{err: errors.New("boom")}
	p := NewLLMProvider(nil, domain.ProviderOpenAI, chat, &fakeEmbedder{}, Options{BreakerFailures: 2, BreakerTimeout: time.Minute})

	for i := 0; i < 2; i++ {
		res := p.GeneratePath(context.Background(), pathRequest("u1"))
		require.Equal(t, apierr.CodeProvider, apierr.As(res.Err).Code)
	}
	require.Equal(t, "open", p.BreakerState())

	res := p.GeneratePath(context.Background(), pathRequest("u1"))
	require.Error(t, res.Err)
	require.Contains(t, res.Err.Error(), "circuit open")
	require.EqualValues(t, 2, atomic.LoadInt32(&chat.calls))
}

func TestResponsesAreCached(t *testing.T) {
	chat := &fakeCompleter{text: `[{"title":"Intro video","format":"video","duration":"12 minutes"}]`}
	c := cache.NewLocal(time.Minute, time.Minute, nil)
	p := NewLLMProvider(nil, domain.ProviderOpenAI, chat, &fakeEmbedder{}, Options{Cache: c, CacheTTL: time.Minute})
	req := domain.ContentRecommendationRequest{UserID: "u1", CurrentTopic: "algebra", SkillLevel: domain.Beginner}

	first := p.Recommend(context.Background(), req)
	second := p.Recommend(context.Background(), req)
	require.True(t, first.Ok())
	require.True(t, second.Ok())
	require.Equal(t, first.Value, second.Value)
	require.EqualValues(t, 1, atomic.LoadInt32(&chat.calls))
	require.Equal(t, 1, c.Len())

	key := p.cacheKey(OpRecommendations, "u1", req)
	require.True(t, strings.HasPrefix(key, "openai:recommendations:u1:"))
	require.Len(t, strings.TrimPrefix(key, "openai:recommendations:u1:"), 16)
}

func TestEmbedBatches(t *testing.T) {
	emb := &fakeEmbedder{}
	p := NewLLMProvider(nil, domain.ProviderOpenAI, &fakeCompleter{}, emb, Options{BatchSize: 2, BatchInterval: time.Millisecond})

	res := p.Embed(context.Background(), []string{"a", "b", "c", "d", "e"}, "")
	require.True(t, res.Ok(), "err=%v", res.Err)
	require.Len(t, res.Value.Vectors, 5)
	require.Equal(t, 5, res.Value.TotalTokens)
	require.Equal(t, "fake-embed", res.Value.Model)
	require.EqualValues(t, 3, atomic.LoadInt32(&emb.calls))
}

func TestProbe(t *testing.T) {
	chat := &fakeCompleter{text: "OK"}
	p := NewLLMProvider(nil, domain.ProviderGemini, chat, &fakeEmbedder{}, Options{})
	res := p.Probe(context.Background())
	require.True(t, res.Ok())
	require.GreaterOrEqual(t, res.Value, time.Duration(0))

	chat.err = &httpx.StatusError{StatusCode: 429}
	res = p.Probe(context.Background())
	require.True(t, apierr.IsRateLimit(res.Err))
}
