package recommend

import (
	"context"
	"fmt"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/pinecone"
)

// Searcher is the slice of the vector store the engine needs.
type Searcher interface {
	SearchSimilar(ctx context.Context, vector []float32, topK int, f pinecone.Filters) ([]pinecone.Match, error)
}

// VectorSource pulls indexed content close to the topic embedding.
type VectorSource struct {
	store Searcher
	topK  int
}

func NewVectorSource(store Searcher, topK int) *VectorSource {
	if topK <= 0 {
		topK = 10
	}
	return &VectorSource{store: store, topK: topK}
}

func (s *VectorSource) Candidates(ctx context.Context, req domain.ContentRecommendationRequest, topicVector []float32) ([]domain.ContentItem, error) {
	matches, err := s.store.SearchSimilar(ctx, topicVector, s.topK, pinecone.Filters{Difficulty: string(req.SkillLevel)})
	if err != nil {
		return nil, fmt.Errorf("vector candidate search: %w", err)
	}
	out := make([]domain.ContentItem, 0, len(matches))
	for _, m := range matches {
		out = append(out, itemFromMatch(m, req))
	}
	return out, nil
}

func itemFromMatch(m pinecone.Match, req domain.ContentRecommendationRequest) domain.ContentItem {
	md := m.Metadata
	str := func(key, def string) string {
		if v, ok := md[key].(string); ok && v != "" {
			return v
		}
		return def
	}
	format := domain.ContentFormat(str("content_type", str("format", "")))
	if !format.Valid() {
		format = domain.FormatVideo
		if len(req.PreferredFormats) > 0 {
			format = req.PreferredFormats[0]
		}
	}
	diff := domain.DifficultyLevel(str("difficulty", string(req.SkillLevel)))
	if !diff.Valid() {
		diff = req.SkillLevel
	}
	duration := 30
	if v, ok := md["duration_minutes"].(float64); ok && v > 0 {
		duration = int(v)
	}
	var topics []string
	switch v := md["topics"].(type) {
	case []string:
		topics = v
	case []any:
		for _, t := range v {
			if s, ok := t.(string); ok {
				topics = append(topics, s)
			}
		}
	}
	meta := map[string]any{"vector_score": m.Score}
	for _, k := range []string{"verified", "expert_reviewed"} {
		if b, ok := md[k].(bool); ok {
			meta[k] = b
		}
	}
	return domain.ContentItem{
		ContentID:       m.ID,
		Title:           str("title", m.ID),
		Description:     str("description", ""),
		Subject:         str("subject", req.CurrentTopic),
		Topics:          topics,
		Difficulty:      diff,
		Format:          format,
		DurationMinutes: duration,
		Source:          str("source", "vector_store"),
		URL:             str("url", ""),
		Metadata:        meta,
	}
}
