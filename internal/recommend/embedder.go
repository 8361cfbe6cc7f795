package recommend

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"strconv"
)

// Embedder turns texts into vectors of a fixed, embedder-defined dimension.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// HashDims is the width of HashEmbedder vectors.
const HashDims = 128

// HashEmbedder derives pseudo-embeddings from FNV-1a hashes. It needs no
// network and never fails, which makes it the fallback of last resort and the
// embedder used in tests. Its vectors carry no semantic meaning.
type HashEmbedder struct {
	Dims int
}

func NewHashEmbedder() *HashEmbedder { return &HashEmbedder{Dims: HashDims} }

func (h *HashEmbedder) Name() string { return "hash" }

func (h *HashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	dims := h.Dims
	if dims <= 0 {
		dims = HashDims
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, dims)
		for d := range v {
			f := fnv.New64a()
			_, _ = f.Write([]byte(t + strconv.Itoa(d)))
			v[d] = float32(f.Sum64()%100) / 100
		}
		out[i] = v
	}
	return out, nil
}

// EmbedFunc is the shape of the orchestrator's embedding chain.
type EmbedFunc func(ctx context.Context, texts []string) ([][]float32, error)

// ProviderEmbedder adapts a provider-backed embedding call.
type ProviderEmbedder struct {
	name string
	fn   EmbedFunc
}

func NewProviderEmbedder(name string, fn EmbedFunc) *ProviderEmbedder {
	return &ProviderEmbedder{name: name, fn: fn}
}

func (p *ProviderEmbedder) Name() string { return p.name }

func (p *ProviderEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if p.fn == nil {
		return nil, errors.New("embedder not configured")
	}
	vecs, err := p.fn(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(texts) {
		return nil, errors.New("embedder returned wrong number of vectors")
	}
	return vecs, nil
}

// CosineSimilarity maps cosine similarity onto [0,1]. Mismatched or zero
// vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return (sim + 1) / 2
}
