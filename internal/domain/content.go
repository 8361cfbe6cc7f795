package domain

type ContentItem struct {
	ContentID       string          `json:"content_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Subject         string          `json:"subject"`
	Topics          []string        `json:"topics"`
	Difficulty      DifficultyLevel `json:"difficulty"`
	Format          ContentFormat   `json:"format"`
	DurationMinutes int             `json:"duration_minutes"`
	Source          string          `json:"source"`
	URL             string          `json:"url,omitempty"`
	Embedding       []float32       `json:"embedding,omitempty"`
	Metadata        map[string]any  `json:"metadata,omitempty"`
}

type ContentRecommendation struct {
	ContentID           string          `json:"content_id"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	URL                 string          `json:"url,omitempty"`
	Difficulty          DifficultyLevel `json:"difficulty"`
	Format              ContentFormat   `json:"format"`
	DurationMinutes     int             `json:"duration_minutes"`
	Topics              []string        `json:"topics"`
	Source              string          `json:"source"`
	RelevanceScore      float64         `json:"relevance_score"`
	QualityScore        float64         `json:"quality_score"`
	AIProvider          ProviderName    `json:"ai_provider,omitempty"`
	FallbackUsed        bool            `json:"fallback_used,omitempty"`
	AlgorithmicEnhanced bool            `json:"algorithmic_enhanced,omitempty"`
}

// RecommendationFromItem copies the descriptive fields of item.
func RecommendationFromItem(item ContentItem, relevance, quality float64) ContentRecommendation {
	return ContentRecommendation{
		ContentID:       item.ContentID,
		Title:           item.Title,
		Description:     item.Description,
		URL:             item.URL,
		Difficulty:      item.Difficulty,
		Format:          item.Format,
		DurationMinutes: item.DurationMinutes,
		Topics:          append([]string(nil), item.Topics...),
		Source:          item.Source,
		RelevanceScore:  relevance,
		QualityScore:    quality,
	}
}

func Clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
