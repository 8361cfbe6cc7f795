package peermatch

import (
	"fmt"
	"strings"

	"github.com/yungbote/lusilearn-ai-service/internal/platform/apierr"
)

type Strategy string

const (
	SkillComplementarity       Strategy = "skill_complementarity"
	LearningGoalAlignment      Strategy = "learning_goal_alignment"
	CommunicationCompatibility Strategy = "communication_compatibility"
	SafetyFocused              Strategy = "safety_focused"
	Comprehensive              Strategy = "comprehensive"
)

type StrategyInfo struct {
	Name        Strategy `json:"name"`
	Description string   `json:"description"`
}

var strategyInfo = []StrategyInfo{
	{SkillComplementarity, "Pairs learners one skill level apart in shared subjects"},
	{LearningGoalAlignment, "Jaccard overlap of stated learning goals"},
	{CommunicationCompatibility, "Shared communication channels and overlapping availability"},
	{SafetyFocused, "Only safety-compatible peers, weighted by tier"},
	{Comprehensive, "Weighted blend of skill, goal, communication and safety scores"},
}

// ParseStrategy maps a query value onto a strategy. Empty selects comprehensive.
func ParseStrategy(raw string) (Strategy, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return Comprehensive, nil
	}
	for _, s := range strategyInfo {
		if string(s.Name) == raw {
			return s.Name, nil
		}
	}
	return "", apierr.Validation(fmt.Errorf("unknown matching strategy %q", raw), map[string]string{"strategy": "oneof"})
}
