package app

import (
	"context"
	"time"

	"github.com/yungbote/lusilearn-ai-service/internal/platform/pinecone"
)

// vectorIndex is the read side of the vector store used by recommendations
// and the health monitor.
type vectorIndex interface {
	SearchSimilar(ctx context.Context, vector []float32, topK int, f pinecone.Filters) ([]pinecone.Match, error)
	Stats(ctx context.Context) (*pinecone.IndexStats, error)
}

type upstreamObserver interface {
	ObserveUpstreamRequest(service, endpoint, status string, d time.Duration)
}

type instrumentedVectorIndex struct {
	inner   vectorIndex
	metrics upstreamObserver
}

func instrumentVectorIndex(inner vectorIndex, metrics upstreamObserver) vectorIndex {
	if inner == nil {
		return nil
	}
	return &instrumentedVectorIndex{inner: inner, metrics: metrics}
}

func (s *instrumentedVectorIndex) SearchSimilar(ctx context.Context, vector []float32, topK int, f pinecone.Filters) ([]pinecone.Match, error) {
	start := time.Now()
	out, err := s.inner.SearchSimilar(ctx, vector, topK, f)
	s.observe("search_similar", err, time.Since(start))
	return out, err
}

func (s *instrumentedVectorIndex) Stats(ctx context.Context) (*pinecone.IndexStats, error) {
	start := time.Now()
	out, err := s.inner.Stats(ctx)
	s.observe("describe_index_stats", err, time.Since(start))
	return out, err
}

func (s *instrumentedVectorIndex) observe(operation string, err error, dur time.Duration) {
	if s == nil || s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.ObserveUpstreamRequest("pinecone", operation, status, dur)
}
