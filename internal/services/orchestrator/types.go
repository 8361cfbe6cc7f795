package orchestrator

import (
	"github.com/yungbote/lusilearn-ai-service/internal/domain"
)

const (
	SourceAIEnhanced  = "ai_enhanced"
	SourceAlgorithmic = "algorithmic"
	// HashFallbackModel names vectors produced without any provider.
	HashFallbackModel = "hash-fallback"
)

type Recommendations struct {
	Items  []domain.ContentRecommendation
	Source string
}

type EmbeddingResult struct {
	Embeddings   [][]float32         `json:"embeddings"`
	Model        string              `json:"model"`
	Provider     domain.ProviderName `json:"provider"`
	TotalTokens  int                 `json:"total_tokens"`
	FallbackUsed bool                `json:"fallback_used"`
}

type ProviderState struct {
	Available  bool    `json:"available"`
	Configured bool    `json:"configured"`
	Status     string  `json:"status"`
	LatencyMS  float64 `json:"latency_ms,omitempty"`
	Error      string  `json:"error,omitempty"`
}

type StatusReport struct {
	CurrentProvider domain.ProviderName                   `json:"current_provider"`
	Providers       map[domain.ProviderName]ProviderState `json:"providers"`
}

type PathComparison struct {
	Request    domain.LearningPathRequest  `json:"request"`
	Responses  map[domain.ProviderName]any `json:"responses"`
	Comparison map[string]any              `json:"comparison"`
}

type RecommendationComparison struct {
	Request               domain.ContentRecommendationRequest `json:"request"`
	OpenAIRecommendations []domain.ContentRecommendation      `json:"openai_recommendations"`
	GeminiRecommendations []domain.ContentRecommendation      `json:"gemini_recommendations"`
	Errors                map[domain.ProviderName]string      `json:"errors,omitempty"`
	Comparison            map[string]int                      `json:"comparison"`
}
