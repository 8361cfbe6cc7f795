package orchestrator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
	"github.com/yungbote/lusilearn-ai-service/internal/providers"
	"github.com/yungbote/lusilearn-ai-service/internal/recommend"
)

// GetContentRecommendations runs the provider chain and the recommendation
// engine side by side and merges their output, provider items first.
func (o *orchestrator) GetContentRecommendations(ctx context.Context, req domain.ContentRecommendationRequest, override domain.ProviderName, strategy recommend.Strategy) (Recommendations, error) {
	chain := o.chain(override)
	profile := domain.ProfileFromRecommendationRequest(req)

	var (
		fromProvider []domain.ContentRecommendation
		answered     providers.Provider
		secondary    bool
		lastErr      error
		fromEngine   []domain.ContentRecommendation
	)
	var g errgroup.Group
	g.Go(func() error {
		for i, p := range chain {
			res := p.Recommend(ctx, req)
			if res.Ok() {
				fromProvider, answered, secondary = res.Value, p, i > 0
				return nil
			}
			lastErr = res.Err
			o.log.Warn("Recommendation provider failed", "provider", p.Name(), "user_id", req.UserID, "error", errString(res.Err))
		}
		return nil
	})
	g.Go(func() error {
		fromEngine = o.engine.GetPersonalizedRecommendations(ctx, req, &profile, strategy, o.cfg.MaxRecommendations)
		return nil
	})
	_ = g.Wait()

	if answered == nil {
		if !o.cfg.EnableFallbacks {
			return Recommendations{}, failure(chain[0].Name(), lastErr)
		}
		if len(fromEngine) == 0 {
			o.observe(providers.OpRecommendations, "static_content")
			return Recommendations{Items: o.engine.FallbackRecommendations(req), Source: domain.SourceFallback}, nil
		}
		o.observe(providers.OpRecommendations, "algorithm")
		return Recommendations{Items: fromEngine, Source: SourceAlgorithmic}, nil
	}
	if secondary {
		o.observe(providers.OpRecommendations, "secondary_provider")
	}
	return Recommendations{
		Items:  merge(fromProvider, fromEngine, answered.Name(), secondary, o.cfg.MaxRecommendations),
		Source: SourceAIEnhanced,
	}, nil
}

// merge keeps at most maxProviderItems provider items and fills the
// remaining slots with engine items whose ids are not already present.
func merge(fromProvider, fromEngine []domain.ContentRecommendation, p domain.ProviderName, secondary bool, total int) []domain.ContentRecommendation {
	out := make([]domain.ContentRecommendation, 0, total)
	seen := map[string]bool{}
	for _, r := range fromProvider {
		if len(out) == maxProviderItems || len(out) == total {
			break
		}
		if seen[r.ContentID] {
			continue
		}
		r.AIProvider = p
		r.FallbackUsed = secondary
		seen[r.ContentID] = true
		out = append(out, r)
	}
	for _, r := range fromEngine {
		if len(out) == total {
			break
		}
		if seen[r.ContentID] {
			continue
		}
		r.AlgorithmicEnhanced = true
		seen[r.ContentID] = true
		out = append(out, r)
	}
	return out
}

// CompareRecommendations calls each provider directly, without fallbacks.
func (o *orchestrator) CompareRecommendations(ctx context.Context, req domain.ContentRecommendationRequest) RecommendationComparison {
	out := RecommendationComparison{
		Request:               req,
		OpenAIRecommendations: []domain.ContentRecommendation{},
		GeminiRecommendations: []domain.ContentRecommendation{},
	}
	results := o.bothProviders(ctx, func(ctx context.Context, p providers.Provider) any {
		return p.Recommend(ctx, req)
	})
	for name, v := range results {
		res := v.(providers.Result[[]domain.ContentRecommendation])
		if !res.Ok() {
			if out.Errors == nil {
				out.Errors = map[domain.ProviderName]string{}
			}
			out.Errors[name] = res.Err.Error()
			continue
		}
		for i := range res.Value {
			res.Value[i].AIProvider = name
		}
		if name == domain.ProviderOpenAI {
			out.OpenAIRecommendations = res.Value
		} else {
			out.GeminiRecommendations = res.Value
		}
	}
	out.Comparison = map[string]int{
		"openai_count": len(out.OpenAIRecommendations),
		"gemini_count": len(out.GeminiRecommendations),
	}
	return out
}
