package pathalgo

import (
	"fmt"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
)

type category struct {
	Name   string
	Topics []string
}

// subjectTaxonomy is ordered so goal mapping is deterministic.
var subjectTaxonomy = map[string]map[domain.EducationLevel][]category{
	"mathematics": {
		domain.EducationK12: {
			{"arithmetic", []string{"addition", "subtraction", "multiplication", "division"}},
			{"algebra", []string{"variables", "equations", "functions", "graphing"}},
			{"geometry", []string{"shapes", "area", "volume", "proofs"}},
			{"statistics", []string{"data_analysis", "probability", "distributions"}},
		},
		domain.EducationCollege: {
			{"calculus", []string{"limits", "derivatives", "integrals", "series"}},
			{"linear_algebra", []string{"vectors", "matrices", "eigenvalues", "transformations"}},
			{"discrete_math", []string{"logic", "sets", "combinatorics", "graph_theory"}},
		},
	},
	"computer_science": {
		domain.EducationK12: {
			{"programming_basics", []string{"variables", "loops", "conditionals", "functions"}},
			{"problem_solving", []string{"algorithms", "debugging", "testing", "documentation"}},
		},
		domain.EducationCollege: {
			{"data_structures", []string{"arrays", "lists", "trees", "graphs", "hash_tables"}},
			{"algorithms", []string{"sorting", "searching", "dynamic_programming", "greedy"}},
			{"software_engineering", []string{"design_patterns", "testing", "version_control"}},
		},
	},
}

type curriculumKey struct {
	level   domain.EducationLevel
	subject string
}

var fallbackCurricula = map[curriculumKey][]string{
	{domain.EducationK12, "mathematics"}: {
		"Basic arithmetic operations",
		"Fractions and decimals",
		"Introduction to algebra",
		"Geometry fundamentals",
		"Basic statistics",
	},
	{domain.EducationCollege, "computer_science"}: {
		"Programming fundamentals",
		"Data structures",
		"Algorithm design",
		"Software development practices",
		"System design basics",
	},
}

func fallbackCurriculum(level domain.EducationLevel, subject string) []string {
	if c, ok := fallbackCurricula[curriculumKey{level, normalizeSubject(subject)}]; ok {
		return c
	}
	return []string{
		fmt.Sprintf("Introduction to %s", subject),
		fmt.Sprintf("Fundamental concepts in %s", subject),
		fmt.Sprintf("Intermediate %s topics", subject),
		fmt.Sprintf("Advanced %s applications", subject),
	}
}

func defaultProgression(level domain.EducationLevel) domain.DifficultyProgression {
	switch level {
	case domain.EducationCollege:
		return domain.DifficultyProgression{StartingLevel: domain.Intermediate, TargetLevel: domain.Advanced, ProgressionRate: "moderate"}
	case domain.EducationProfessional:
		return domain.DifficultyProgression{StartingLevel: domain.Intermediate, TargetLevel: domain.Advanced, ProgressionRate: "accelerated"}
	default:
		return domain.DifficultyProgression{StartingLevel: domain.Beginner, TargetLevel: domain.Intermediate, ProgressionRate: "gradual"}
	}
}

// styleFormats lists the delivery channels suited to each learning style.
var styleFormats = map[domain.LearningStyle][]string{
	domain.StyleVisual:      {"video", "infographic", "diagram"},
	domain.StyleAuditory:    {"audio", "podcast", "lecture"},
	domain.StyleKinesthetic: {"interactive", "simulation", "hands_on"},
}

var readingFormats = []string{"article", "document", "text"}

var baseHours = map[domain.DifficultyLevel]int{
	domain.Beginner:     2,
	domain.Intermediate: 3,
	domain.Advanced:     4,
}

func defaultAdaptationStrategy() *domain.AdaptationStrategy {
	return &domain.AdaptationStrategy{
		PerformanceThresholds: domain.PerformanceThresholds{
			Struggling:   0.6,
			Mastery:      0.9,
			OptimalRange: [2]float64{0.7, 0.85},
		},
		AdaptationTriggers: []string{
			"consecutive_low_performance",
			"rapid_mastery",
			"engagement_drop",
			"time_constraint_changes",
		},
		AdaptationMethods: []string{
			"difficulty_adjustment",
			"content_format_change",
			"prerequisite_reinforcement",
			"advanced_content_introduction",
		},
	}
}

var milestoneCriteria = []string{
	"Complete all assigned objectives",
	"Pass milestone assessment with 80% or higher",
	"Demonstrate practical application of concepts",
}

var basicMilestoneCriteria = []string{
	"Complete assigned objectives",
	"Demonstrate understanding",
}
