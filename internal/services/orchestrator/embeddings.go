package orchestrator

import (
	"context"
	"fmt"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/apierr"
	"github.com/yungbote/lusilearn-ai-service/internal/providers"
	"github.com/yungbote/lusilearn-ai-service/internal/recommend"
)

// CreateEmbeddings embeds texts with the provider chain. An explicit model is
// only meaningful to the primary provider, so it disables the secondary.
func (o *orchestrator) CreateEmbeddings(ctx context.Context, texts []string, model string, override domain.ProviderName) (EmbeddingResult, error) {
	if len(texts) == 0 || len(texts) > domain.MaxEmbeddingTexts {
		return EmbeddingResult{}, apierr.Validation(
			fmt.Errorf("texts must contain between 1 and %d entries, got %d", domain.MaxEmbeddingTexts, len(texts)),
			map[string]string{"texts": "min=1,max=100"},
		)
	}
	chain := o.chain(override)
	if model != "" {
		chain = chain[:1]
	}
	var lastErr error
	for i, p := range chain {
		res := p.Embed(ctx, texts, model)
		if res.Ok() {
			if i > 0 {
				o.observe(providers.OpEmbeddings, "secondary_provider")
			}
			return EmbeddingResult{
				Embeddings:   res.Value.Vectors,
				Model:        res.Value.Model,
				Provider:     p.Name(),
				TotalTokens:  wordCount(texts),
				FallbackUsed: i > 0,
			}, nil
		}
		lastErr = res.Err
		o.log.Warn("Embedding provider failed", "provider", p.Name(), "texts", len(texts), "error", errString(res.Err))
	}
	if !o.cfg.EnableFallbacks {
		return EmbeddingResult{}, failure(chain[0].Name(), lastErr)
	}

	vecs, err := o.hash.Embed(ctx, texts)
	if err != nil {
		return EmbeddingResult{}, apierr.Internal(err)
	}
	o.observe(providers.OpEmbeddings, "hash")
	return EmbeddingResult{
		Embeddings:   vecs,
		Model:        HashFallbackModel,
		Provider:     "hash",
		TotalTokens:  wordCount(texts),
		FallbackUsed: true,
	}, nil
}

// EmbedChain returns an embedding function for the recommendation engine that
// tries each configured provider in order. It never falls back to hashing;
// the engine does that itself.
func EmbedChain(ps ...providers.Provider) recommend.EmbedFunc {
	return func(ctx context.Context, texts []string) ([][]float32, error) {
		var lastErr error
		for _, p := range ps {
			if p == nil || !p.Configured() {
				continue
			}
			res := p.Embed(ctx, texts, "")
			if res.Ok() {
				return res.Value.Vectors, nil
			}
			lastErr = res.Err
		}
		if lastErr == nil {
			lastErr = providers.ErrNotConfigured
		}
		return nil, lastErr
	}
}
