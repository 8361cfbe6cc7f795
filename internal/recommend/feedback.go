package recommend

type Analytics struct {
	UserID                 string   `json:"user_id"`
	TimePeriodDays         int      `json:"time_period_days"`
	TotalRecommendations   int      `json:"total_recommendations"`
	ClickedRecommendations int      `json:"clicked_recommendations"`
	ClickThroughRate       float64  `json:"click_through_rate"`
	CompletedContent       int      `json:"completed_content"`
	CompletionRate         float64  `json:"completion_rate"`
	AverageRating          float64  `json:"average_rating"`
	TopTopics              []string `json:"top_topics"`
	PreferredFormats       []string `json:"preferred_formats"`
	RecommendationAccuracy float64  `json:"recommendation_accuracy"`
	RecordedInteractions   int      `json:"recorded_interactions"`
	AverageInteraction     float64  `json:"average_interaction_score"`
}

type Status struct {
	Status          string     `json:"status"`
	Strategies      []Strategy `json:"strategies"`
	DefaultStrategy Strategy   `json:"default_strategy"`
	Embedder        string     `json:"embedder"`
	CandidateSource bool       `json:"candidate_source"`
	TrackedUsers    int        `json:"tracked_users"`
	TrackedContent  int        `json:"tracked_success_rates"`
	CachedVectors   int        `json:"cached_vectors"`
}

// UpdateUserInteraction records the latest score a user gave a piece of content.
func (e *Engine) UpdateUserInteraction(userID, contentID string, score float64) {
	e.mu.Lock()
	row, ok := e.interactions[userID]
	if !ok {
		row = map[string]float64{}
		e.interactions[userID] = row
	}
	row[contentID] = score
	e.mu.Unlock()
	e.log.Info("Updated user interaction", "user_id", userID, "content_id", contentID, "score", score)
}

func (e *Engine) UpdatePeerSuccessRate(contentID string, rate float64) {
	e.mu.Lock()
	e.successRates[contentID] = rate
	e.mu.Unlock()
	e.log.Info("Updated peer success rate", "content_id", contentID, "success_rate", rate)
}

// Analytics reports aggregate engagement figures for userID. Only the
// interaction counters are live; the engagement aggregates are fixed until a
// click stream exists.
func (e *Engine) Analytics(userID string, days int) Analytics {
	if days <= 0 {
		days = 30
	}
	e.mu.RLock()
	row := e.interactions[userID]
	n := len(row)
	sum := 0.0
	for _, s := range row {
		sum += s
	}
	e.mu.RUnlock()

	a := Analytics{
		UserID:                 userID,
		TimePeriodDays:         days,
		TotalRecommendations:   150,
		ClickedRecommendations: 45,
		ClickThroughRate:       0.3,
		CompletedContent:       32,
		CompletionRate:         0.71,
		AverageRating:          4.2,
		TopTopics:              []string{"mathematics", "programming", "science"},
		PreferredFormats:       []string{"video", "interactive", "article"},
		RecommendationAccuracy: 0.78,
		RecordedInteractions:   n,
	}
	if n > 0 {
		a.AverageInteraction = sum / float64(n)
	}
	return a
}

func (e *Engine) Strategies() []StrategyInfo {
	return append([]StrategyInfo(nil), strategyInfo...)
}

func (e *Engine) Status() Status {
	e.mu.RLock()
	users, content := len(e.interactions), len(e.successRates)
	e.mu.RUnlock()
	names := make([]Strategy, 0, len(strategyInfo))
	for _, s := range strategyInfo {
		names = append(names, s.Name)
	}
	return Status{
		Status:          "active",
		Strategies:      names,
		DefaultStrategy: Hybrid,
		Embedder:        e.embedder.Name(),
		CandidateSource: e.source != nil,
		TrackedUsers:    users,
		TrackedContent:  content,
		CachedVectors:   e.vectors.Len(),
	}
}
