package pathalgo

import (
	"testing"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
)

func TestCreateFallbackPathKnownCurriculum(t *testing.T) {
	p := fixedAlgorithm().CreateFallbackPath(domain.EducationK12, "mathematics", nil, 10)
	if p.Source != domain.SourceFallbackAlgo {
		t.Fatalf("source: got=%s", p.Source)
	}
	if len(p.Objectives) != 5 {
		t.Fatalf("objectives: got=%d want=5", len(p.Objectives))
	}
	if p.Objectives[0].ID != "fallback_obj_1" || p.Objectives[0].Title != "Basic arithmetic operations" {
		t.Fatalf("first: %+v", p.Objectives[0])
	}
	if p.Objectives[0].EstimatedHours != 2 {
		t.Fatalf("hours: got=%d want=2", p.Objectives[0].EstimatedHours)
	}
	if p.TotalEstimatedHours != 10 {
		t.Fatalf("total: got=%d", p.TotalEstimatedHours)
	}
	if len(p.Milestones) != 3 || p.Milestones[0].Title != "Learning Milestone 1" {
		t.Fatalf("milestones: %+v", p.Milestones)
	}
	if p.DifficultyProgression.ProgressionRate != "gradual" {
		t.Fatalf("progression: %+v", p.DifficultyProgression)
	}
}

func TestCreateFallbackPathGenericCurriculum(t *testing.T) {
	p := fixedAlgorithm().CreateFallbackPath(domain.EducationProfessional, "Physics", []string{"optics"}, 0)
	if len(p.Objectives) != 4 {
		t.Fatalf("objectives: got=%d want=4", len(p.Objectives))
	}
	if p.Objectives[0].Title != "Introduction to Physics" {
		t.Fatalf("title: %s", p.Objectives[0].Title)
	}
	// weekly hours default to 10: max(2, 10/4)
	if p.Objectives[3].EstimatedHours != 2 || p.Objectives[3].Difficulty != domain.Intermediate {
		t.Fatalf("last objective: %+v", p.Objectives[3])
	}
	if p.DifficultyProgression.ProgressionRate != "accelerated" {
		t.Fatalf("progression: %+v", p.DifficultyProgression)
	}
}

func TestMinimalPath(t *testing.T) {
	p := fixedAlgorithm().minimalPath(domain.EducationK12, "art")
	if p.Source != domain.SourceMinimalFallback || len(p.Objectives) != 1 || p.TotalEstimatedHours != 4 {
		t.Fatalf("minimal: %+v", p)
	}
}
