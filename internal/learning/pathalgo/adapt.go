package pathalgo

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
)

const (
	AdjustDecrease = "decrease"
	AdjustIncrease = "increase"
	AdjustMaintain = "maintain"
)

// defaultComprehension is assumed when the learner reported no score.
const defaultComprehension = 75.0

// AdaptPathBasedOnPerformance returns a copy of path adjusted to the reported
// performance. The input path is left untouched and its adaptation history is
// carried over with exactly one new record appended.
func (a *Algorithm) AdaptPathBasedOnPerformance(path *domain.LearningPath, perf domain.PerformanceData, profile domain.UserProfile) (*domain.LearningPath, error) {
	if path == nil {
		return nil, errors.New("adapt learning path: no current path")
	}
	a.log.Info("Adapting path based on performance", "user_id", profile.UserID, "path_id", path.PathID)

	analysis := analyzePerformance(perf)
	adjustment := difficultyAdjustment(analysis.AverageComprehension)
	objectives, modified := adaptObjectives(path.Objectives, analysis.StrugglingConcepts, analysis.MasteredConcepts)

	now := a.now()
	out := *path
	out.Objectives = objectives
	out.TotalEstimatedHours = domain.TotalHours(objectives)
	out.Milestones = append([]domain.Milestone(nil), path.Milestones...)
	out.Warnings = append([]domain.SequencingWarning(nil), path.Warnings...)
	out.ProviderAttempts = append([]domain.ProviderAttempt(nil), path.ProviderAttempts...)

	progression := path.DifficultyProgression
	progression.Milestones = append([]domain.ProgressionStep(nil), path.DifficultyProgression.Milestones...)
	progression.LastAdjustment = &domain.Adjustment{
		Timestamp:  now,
		Adjustment: adjustment,
		Reason:     fmt.Sprintf("Performance analysis: %s%% comprehension", strconv.FormatFloat(analysis.AverageComprehension, 'f', -1, 64)),
	}
	out.DifficultyProgression = progression

	history := make([]domain.AdaptationRecord, 0, len(path.AdaptationHistory)+1)
	history = append(history, path.AdaptationHistory...)
	history = append(history, domain.AdaptationRecord{
		Timestamp: now,
		Reason:    "performance_based_adaptation",
		Changes: domain.AdaptationChanges{
			DifficultyAdjustment: adjustment,
			AddedObjectives:      []string{},
			RemovedObjectives:    []string{},
			ModifiedObjectives:   modified,
		},
		PerformanceMetrics: analysis,
	})
	out.AdaptationHistory = history
	out.UpdatedAt = &now

	a.log.Debug("Path adapted", "path_id", path.PathID, "adjustment", adjustment, "modified", len(modified))
	return &out, nil
}

func analyzePerformance(perf domain.PerformanceData) domain.PerformanceAnalysis {
	avg := defaultComprehension
	if perf.ComprehensionScore != nil {
		avg = *perf.ComprehensionScore
	}
	return domain.PerformanceAnalysis{
		AverageComprehension: avg,
		StrugglingConcepts:   append([]string{}, perf.StrugglingConcepts...),
		MasteredConcepts:     append([]string{}, perf.MasteredConcepts...),
		EngagementTrend:      "stable",
	}
}

func difficultyAdjustment(avg float64) string {
	switch {
	case avg < 60:
		return AdjustDecrease
	case avg > 90:
		return AdjustIncrease
	default:
		return AdjustMaintain
	}
}

// adaptObjectives scales hours from each objective's original estimate. An
// objective touching both lists ends up accelerated.
func adaptObjectives(objs []domain.LearningObjective, struggling, mastered []string) ([]domain.LearningObjective, []string) {
	out := domain.CloneObjectives(objs)
	modified := []string{}
	for i := range out {
		hours := objs[i].EstimatedHours
		if hours <= 0 {
			hours = 2
		}
		changed := false
		if objs[i].HasTopic(struggling) {
			out[i].RemedialContent = true
			out[i].EstimatedHours = int(float64(hours) * 1.5)
			changed = true
		}
		if objs[i].HasTopic(mastered) {
			out[i].Accelerated = true
			out[i].EstimatedHours = max(1, int(float64(hours)*0.7))
			changed = true
		}
		if changed {
			modified = append(modified, out[i].Key())
		}
	}
	return out, modified
}

// Summary condenses the latest adaptation record of path.
type Summary struct {
	Adjustment           string   `json:"difficulty_adjustment"`
	AverageComprehension float64  `json:"average_comprehension"`
	ModifiedObjectives   []string `json:"modified_objectives"`
	RemedialCount        int      `json:"remedial_count"`
	AcceleratedCount     int      `json:"accelerated_count"`
	TotalAdaptations     int      `json:"total_adaptations"`
}

func Summarize(path *domain.LearningPath) Summary {
	var s Summary
	if path == nil {
		return s
	}
	s.TotalAdaptations = len(path.AdaptationHistory)
	if n := len(path.AdaptationHistory); n > 0 {
		last := path.AdaptationHistory[n-1]
		s.Adjustment = last.Changes.DifficultyAdjustment
		s.AverageComprehension = last.PerformanceMetrics.AverageComprehension
		s.ModifiedObjectives = last.Changes.ModifiedObjectives
	}
	for _, o := range path.Objectives {
		if o.RemedialContent {
			s.RemedialCount++
		}
		if o.Accelerated {
			s.AcceleratedCount++
		}
	}
	return s
}
