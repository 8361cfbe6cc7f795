package pathalgo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
)

const defaultWeeklyHours = 10

// CreateFallbackPath builds a path from the static curriculum tables. It never
// fails; an internal fault degrades to a single-objective minimal path.
func (a *Algorithm) CreateFallbackPath(level domain.EducationLevel, subject string, goals []string, weeklyHours int) (path *domain.LearningPath) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("Fallback path construction failed", "subject", subject, "error", r)
			path = a.minimalPath(level, subject)
		}
	}()
	if weeklyHours <= 0 {
		weeklyHours = defaultWeeklyHours
	}
	a.log.Info("Creating fallback path", "education_level", level, "subject", subject, "goals", len(goals))

	curriculum := fallbackCurriculum(level, subject)
	objs := make([]domain.LearningObjective, 0, len(curriculum))
	for i, topic := range curriculum {
		diff := domain.Intermediate
		if i < 2 {
			diff = domain.Beginner
		}
		o := domain.LearningObjective{
			ID:             fmt.Sprintf("fallback_obj_%d", i+1),
			Title:          topic,
			Description:    "Learn and understand " + strings.ToLower(topic),
			Difficulty:     diff,
			EstimatedHours: max(2, weeklyHours/len(curriculum)),
			SkillsGained:   []string{skillSlug(topic)},
			Prerequisites:  []string{},
		}
		if i > 0 {
			o.Prerequisites = []string{fmt.Sprintf("fallback_obj_%d", i)}
		}
		objs = append(objs, o)
	}
	sort.SliceStable(objs, func(i, j int) bool {
		ri, rj := objs[i].Difficulty.Rank(), objs[j].Difficulty.Rank()
		if ri != rj {
			return ri < rj
		}
		return len(objs[i].Prerequisites) < len(objs[j].Prerequisites)
	})

	now := a.now()
	return &domain.LearningPath{
		PathID:                fmt.Sprintf("fallback_%s_%s_%d", subject, level, now.Unix()),
		Subject:               subject,
		EducationLevel:        level,
		Objectives:            objs,
		TotalEstimatedHours:   domain.TotalHours(objs),
		DifficultyProgression: defaultProgression(level),
		Milestones:            chunkMilestones(objs, 2, "Learning Milestone", basicMilestoneCriteria, false),
		CreatedAt:             now,
		Source:                domain.SourceFallbackAlgo,
	}
}

func (a *Algorithm) minimalPath(level domain.EducationLevel, subject string) *domain.LearningPath {
	now := a.now()
	return &domain.LearningPath{
		PathID:         fmt.Sprintf("minimal_fallback_%s_%d", subject, now.Unix()),
		Subject:        subject,
		EducationLevel: level,
		Objectives: []domain.LearningObjective{{
			ID:             "obj_1",
			Title:          "Introduction to " + subject,
			Description:    "Basic concepts and fundamentals of " + subject,
			Difficulty:     domain.Beginner,
			EstimatedHours: 4,
			SkillsGained:   []string{subject + "_basics"},
		}},
		TotalEstimatedHours:   4,
		DifficultyProgression: domain.DifficultyProgression{StartingLevel: domain.Beginner},
		Milestones:            []domain.Milestone{},
		CreatedAt:             now,
		Source:                domain.SourceMinimalFallback,
	}
}
