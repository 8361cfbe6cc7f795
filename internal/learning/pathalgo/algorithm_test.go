package pathalgo

import (
	"strings"
	"testing"
	"time"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
)

func fixedAlgorithm() *Algorithm {
	a := New(nil)
	a.now = func() time.Time { return time.Unix(1700000000, 0) }
	return a
}

func TestGeneratePersonalizedPathFromTaxonomy(t *testing.T) {
	a := fixedAlgorithm()
	profile := domain.UserProfile{
		UserID:         "u1",
		EducationLevel: domain.EducationCollege,
		SkillLevels:    map[string]domain.DifficultyLevel{"computer_science": domain.Intermediate},
		LearningPreferences: domain.Preferences{
			LearningStyle:    domain.StyleVisual,
			PreferredFormats: []domain.ContentFormat{domain.FormatVideo},
		},
	}
	path, err := a.GeneratePersonalizedPath(profile, "computer_science", []string{"Sorting"}, 5)
	if err != nil {
		t.Fatalf("GeneratePersonalizedPath: %v", err)
	}
	if path.PathID != "path_u1_computer_science_1700000000" {
		t.Fatalf("path id: got=%s", path.PathID)
	}
	if path.Source != domain.SourceAlgorithm {
		t.Fatalf("source: got=%s", path.Source)
	}
	if len(path.Objectives) != 4 {
		t.Fatalf("objectives: got=%d want=4 (algorithms category)", len(path.Objectives))
	}
	if path.Objectives[0].ID != "obj_algorithms_sorting" {
		t.Fatalf("first objective: got=%s", path.Objectives[0].ID)
	}
	for _, o := range path.Objectives {
		// beginner base 2h with one skill: 2 * 1.5
		if o.EstimatedHours != 3 {
			t.Fatalf("hours for %s: got=%d want=3", o.ID, o.EstimatedHours)
		}
		if len(o.RecommendedFormats) != 1 || o.RecommendedFormats[0] != "video" {
			t.Fatalf("formats for %s: got=%v", o.ID, o.RecommendedFormats)
		}
	}
	if path.TotalEstimatedHours != 12 {
		t.Fatalf("total hours: got=%d want=12", path.TotalEstimatedHours)
	}
	if len(path.Milestones) != 2 || len(path.Milestones[0].Objectives) != 3 {
		t.Fatalf("milestones: %+v", path.Milestones)
	}
	if got := path.DifficultyProgression.Milestones; len(got) != 1 || got[0].ObjectiveIndex != 3 || got[0].TargetLevel != domain.Advanced {
		t.Fatalf("progression steps: %+v", got)
	}
	if path.AdaptationStrategy == nil || path.AdaptationStrategy.PerformanceThresholds.Mastery != 0.9 {
		t.Fatalf("adaptation strategy missing")
	}
}

func TestGeneratePersonalizedPathIsDeterministic(t *testing.T) {
	a := fixedAlgorithm()
	profile := domain.UserProfile{UserID: "u", EducationLevel: domain.EducationK12}
	p1, err := a.GeneratePersonalizedPath(profile, "mathematics", []string{"equations", "area"}, 4)
	if err != nil {
		t.Fatal(err)
	}
	p2, _ := a.GeneratePersonalizedPath(profile, "mathematics", []string{"equations", "area"}, 4)
	if strings.Join(ids(p1.Objectives), ",") != strings.Join(ids(p2.Objectives), ",") {
		t.Fatalf("non-deterministic ordering")
	}
}

func TestGeneratePersonalizedPathDefaultsAndRemedials(t *testing.T) {
	a := fixedAlgorithm()
	profile := domain.UserProfile{
		UserID:         "u2",
		EducationLevel: domain.EducationProfessional,
		InteractionHistory: []domain.InteractionRecord{
			{Subject: "chemistry", Topics: []string{"stoichiometry"}, SuccessRate: 0.4},
			{Subject: "chemistry", Topics: []string{"stoichiometry"}, SuccessRate: 0.5},
			{Subject: "biology", Topics: []string{"cells"}, SuccessRate: 0.1},
		},
	}
	path, err := a.GeneratePersonalizedPath(profile, "chemistry", nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	got := ids(path.Objectives)
	want := []string{"remedial_obj_1", "default_obj_1_chemistry", "default_obj_2_chemistry"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("objectives: got=%v want=%v", got, want)
	}
	if !path.Objectives[0].Remedial || path.Objectives[0].Title != "Review stoichiometry" {
		t.Fatalf("remedial objective: %+v", path.Objectives[0])
	}
	// no preferences set: visual style filtered by the video/interactive defaults
	if f := path.Objectives[0].RecommendedFormats; len(f) != 1 || f[0] != "video" {
		t.Fatalf("formats: got=%v", f)
	}
}

func TestGeneratePersonalizedPathFiltersStrengths(t *testing.T) {
	a := fixedAlgorithm()
	profile := domain.UserProfile{
		UserID:         "u3",
		EducationLevel: domain.EducationK12,
		InteractionHistory: []domain.InteractionRecord{
			{Subject: "mathematics", Topics: []string{"addition"}, SuccessRate: 0.95},
		},
	}
	path, err := a.GeneratePersonalizedPath(profile, "mathematics", []string{"arithmetic addition"}, 5)
	if err != nil {
		t.Fatal(err)
	}
	for _, o := range path.Objectives {
		if o.ID == "obj_arithmetic_addition" {
			t.Fatalf("mastered topic was not filtered")
		}
	}
	if len(path.Objectives) != 3 {
		t.Fatalf("objectives: got=%v", ids(path.Objectives))
	}
}

func TestGeneratePersonalizedPathRejectsZeroHours(t *testing.T) {
	if _, err := fixedAlgorithm().GeneratePersonalizedPath(domain.UserProfile{}, "x", nil, 0); err == nil {
		t.Fatalf("expected error for zero weekly hours")
	}
}

func TestAssessSkillsConfidence(t *testing.T) {
	profile := domain.UserProfile{InteractionHistory: []domain.InteractionRecord{
		{Subject: "s", SuccessRate: 0.2},
		{Subject: "s", SuccessRate: 0.8},
		{Subject: "other", SuccessRate: 1},
	}}
	got := assessSkills(profile, "s")
	if got.confidence != 0.5 {
		t.Fatalf("confidence: got=%v want=0.5", got.confidence)
	}
	if got := assessSkills(domain.UserProfile{}, "s"); got.confidence != 0.5 || got.currentLevel != domain.Beginner {
		t.Fatalf("empty assessment: %+v", got)
	}
}
