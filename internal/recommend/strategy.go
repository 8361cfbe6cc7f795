package recommend

import (
	"fmt"
	"strings"

	"github.com/yungbote/lusilearn-ai-service/internal/platform/apierr"
)

type Strategy string

const (
	VectorSimilarity       Strategy = "vector_similarity"
	CollaborativeFiltering Strategy = "collaborative_filtering"
	LearningStyleBased     Strategy = "learning_style_based"
	Hybrid                 Strategy = "hybrid"
)

type StrategyInfo struct {
	Name        Strategy `json:"name"`
	Description string   `json:"description"`
}

var strategyInfo = []StrategyInfo{
	{VectorSimilarity, "Semantic similarity between the topic and content embeddings"},
	{CollaborativeFiltering, "Scores from similar learners and peer success rates"},
	{LearningStyleBased, "Format fit for the learner's style and stated format preferences"},
	{Hybrid, "Weighted blend of vector, collaborative and learning-style scores"},
}

// ParseStrategy maps a query value onto a strategy. Empty selects def.
func ParseStrategy(raw string, def Strategy) (Strategy, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return def, nil
	}
	for _, s := range strategyInfo {
		if string(s.Name) == raw {
			return s.Name, nil
		}
	}
	return "", apierr.Validation(fmt.Errorf("unknown recommendation strategy %q", raw), map[string]string{"strategy": "oneof"})
}
