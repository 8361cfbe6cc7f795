package peermatch

import (
	"github.com/yungbote/lusilearn-ai-service/internal/domain"
)

// successThreshold is the feedback score at which a match counts as successful.
const successThreshold = 0.7

type Status struct {
	Status          string                           `json:"status"`
	Strategies      []Strategy                       `json:"strategies"`
	DefaultStrategy Strategy                         `json:"default_strategy"`
	CandidatePool   int                              `json:"candidate_pool"`
	TrackedUsers    int                              `json:"tracked_users"`
	SafetyRules     map[domain.SafetyTier]SafetyRule `json:"safety_rules"`
}

func (e *Engine) UpdateMatchFeedback(fb domain.MatchFeedback) {
	e.mu.Lock()
	h, ok := e.history[fb.UserID]
	if !ok {
		h = &feedback{}
		e.history[fb.UserID] = h
	}
	h.total++
	h.scores = append(h.scores, fb.FeedbackScore)
	if fb.FeedbackScore >= successThreshold {
		h.successful++
	}
	e.mu.Unlock()
	e.log.Info("Updated match feedback", "user_id", fb.UserID, "peer_id", fb.PeerID, "score", fb.FeedbackScore, "type", fb.FeedbackType)
}

// Analytics summarizes recorded feedback for userID. days only labels the window.
func (e *Engine) Analytics(userID string, days int) domain.MatchingAnalytics {
	if days <= 0 {
		days = 30
	}
	out := domain.MatchingAnalytics{
		UserID:           userID,
		TimePeriodDays:   days,
		MatchingAccuracy: 0.78,
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	h, ok := e.history[userID]
	if !ok {
		return out
	}
	out.TotalMatches = h.total
	out.SuccessfulMatches = h.successful
	total := h.total
	if total < 1 {
		total = 1
	}
	out.SuccessRate = float64(h.successful) / float64(total)
	if len(h.scores) > 0 {
		sum := 0.0
		for _, s := range h.scores {
			sum += s
		}
		out.AverageFeedbackScore = sum / float64(len(h.scores))
	}
	return out
}

func (e *Engine) Strategies() []StrategyInfo {
	return append([]StrategyInfo(nil), strategyInfo...)
}

func (e *Engine) Status() Status {
	e.mu.RLock()
	users := len(e.history)
	e.mu.RUnlock()
	names := make([]Strategy, 0, len(strategyInfo))
	for _, s := range strategyInfo {
		names = append(names, s.Name)
	}
	rules := make(map[domain.SafetyTier]SafetyRule, len(safetyRules))
	for k, v := range safetyRules {
		v.AllowedCommunication = append([]string(nil), v.AllowedCommunication...)
		rules[k] = v
	}
	return Status{
		Status:          "active",
		Strategies:      names,
		DefaultStrategy: Comprehensive,
		CandidatePool:   20,
		TrackedUsers:    users,
		SafetyRules:     rules,
	}
}
