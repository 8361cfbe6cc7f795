package domain

import (
	"fmt"
	"time"
)

type LearningObjective struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Difficulty         DifficultyLevel `json:"difficulty"`
	EstimatedHours     int             `json:"estimated_hours"`
	EstimatedWeeks     int             `json:"estimated_weeks,omitempty"`
	Prerequisites      []string        `json:"prerequisites"`
	SkillsGained       []string        `json:"skills_gained"`
	Topics             []string        `json:"topics,omitempty"`
	Category           string          `json:"category,omitempty"`
	Remedial           bool            `json:"remedial,omitempty"`
	RemedialContent    bool            `json:"remedial_content,omitempty"`
	Accelerated        bool            `json:"accelerated,omitempty"`
	RecommendedFormats []string        `json:"recommended_formats,omitempty"`
	SequenceNumber     int             `json:"sequence_number,omitempty"`
	PrerequisitesMet   *bool           `json:"prerequisites_met,omitempty"`
}

// Clone returns a copy that shares no slices with o.
func (o LearningObjective) Clone() LearningObjective {
	c := o
	c.Prerequisites = append([]string(nil), o.Prerequisites...)
	c.SkillsGained = append([]string(nil), o.SkillsGained...)
	c.Topics = append([]string(nil), o.Topics...)
	c.RecommendedFormats = append([]string(nil), o.RecommendedFormats...)
	if o.PrerequisitesMet != nil {
		v := *o.PrerequisitesMet
		c.PrerequisitesMet = &v
	}
	return c
}

// Key identifies the objective for sequencing; title stands in for a missing id.
func (o LearningObjective) Key() string {
	if o.ID != "" {
		return o.ID
	}
	return o.Title
}

// HasTopic reports whether any of concepts is one of the objective's topics.
func (o LearningObjective) HasTopic(concepts []string) bool {
	for _, c := range concepts {
		for _, t := range o.Topics {
			if t == c {
				return true
			}
		}
	}
	return false
}

func CloneObjectives(in []LearningObjective) []LearningObjective {
	out := make([]LearningObjective, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

func TotalHours(objs []LearningObjective) int {
	total := 0
	for _, o := range objs {
		if o.EstimatedHours > 0 {
			total += o.EstimatedHours
		} else {
			total += 2
		}
	}
	return total
}

type ProgressionStep struct {
	ObjectiveIndex     int             `json:"objective_index"`
	TargetLevel        DifficultyLevel `json:"target_level"`
	AssessmentRequired bool            `json:"assessment_required"`
}

type Adjustment struct {
	Timestamp  time.Time `json:"timestamp"`
	Adjustment string    `json:"adjustment"`
	Reason     string    `json:"reason"`
}

type DifficultyProgression struct {
	StartingLevel   DifficultyLevel   `json:"starting_level"`
	TargetLevel     DifficultyLevel   `json:"target_level,omitempty"`
	ProgressionRate string            `json:"progression_rate,omitempty"`
	Milestones      []ProgressionStep `json:"milestones,omitempty"`
	LastAdjustment  *Adjustment       `json:"last_adjustment,omitempty"`
}

// Describe renders the progression as "start -> target".
func (p DifficultyProgression) Describe() string {
	start := p.StartingLevel
	if start == "" {
		start = Beginner
	}
	target := p.TargetLevel
	if target == "" {
		target = start.Next()
	}
	return fmt.Sprintf("%s -> %s", start, target)
}

type Milestone struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Objectives          []string `json:"objectives"`
	CompletionCriteria  []string `json:"completion_criteria"`
	EstimatedCompletion int      `json:"estimated_completion,omitempty"`
}

type PerformanceThresholds struct {
	Struggling   float64    `json:"struggling"`
	Mastery      float64    `json:"mastery"`
	OptimalRange [2]float64 `json:"optimal_range"`
}

type AdaptationStrategy struct {
	PerformanceThresholds PerformanceThresholds `json:"performance_thresholds"`
	AdaptationTriggers    []string              `json:"adaptation_triggers"`
	AdaptationMethods     []string              `json:"adaptation_methods"`
}

// PerformanceData is the learner signal fed into path adaptation.
// ComprehensionScore is a percentage; nil means not reported.
type PerformanceData struct {
	ComprehensionScore *float64 `json:"comprehension_score,omitempty"`
	StrugglingConcepts []string `json:"struggling_concepts,omitempty"`
	MasteredConcepts   []string `json:"mastered_concepts,omitempty"`
}

type PerformanceAnalysis struct {
	AverageComprehension float64  `json:"average_comprehension"`
	StrugglingConcepts   []string `json:"struggling_concepts"`
	MasteredConcepts     []string `json:"mastered_concepts"`
	EngagementTrend      string   `json:"engagement_trend"`
}

type AdaptationChanges struct {
	DifficultyAdjustment string   `json:"difficulty_adjustment"`
	AddedObjectives      []string `json:"added_objectives"`
	RemovedObjectives    []string `json:"removed_objectives"`
	ModifiedObjectives   []string `json:"modified_objectives"`
}

type AdaptationRecord struct {
	Timestamp          time.Time           `json:"timestamp"`
	Reason             string              `json:"reason"`
	Changes            AdaptationChanges   `json:"changes"`
	PerformanceMetrics PerformanceAnalysis `json:"performance_metrics"`
}

const (
	WarningCyclicPrerequisites  = "cyclic_prerequisites"
	WarningMissingPrerequisites = "missing_prerequisites"
)

// SequencingWarning records an objective admitted before its prerequisites were satisfied.
type SequencingWarning struct {
	Kind         string   `json:"kind"`
	ObjectiveIDs []string `json:"objective_ids"`
	Admitted     string   `json:"admitted"`
	Message      string   `json:"message"`
}

type ProviderAttempt struct {
	Provider ProviderName `json:"provider"`
	Error    string       `json:"error,omitempty"`
}

type LearningPath struct {
	PathID                string                `json:"path_id"`
	UserID                string                `json:"user_id,omitempty"`
	Subject               string                `json:"subject"`
	EducationLevel        EducationLevel        `json:"education_level,omitempty"`
	Objectives            []LearningObjective   `json:"objectives"`
	TotalEstimatedHours   int                   `json:"total_estimated_hours"`
	DifficultyProgression DifficultyProgression `json:"difficulty_progression"`
	Milestones            []Milestone           `json:"milestones"`
	AdaptationStrategy    *AdaptationStrategy   `json:"adaptation_strategy,omitempty"`
	AdaptationHistory     []AdaptationRecord    `json:"adaptation_history,omitempty"`
	Warnings              []SequencingWarning   `json:"warnings,omitempty"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             *time.Time            `json:"updated_at,omitempty"`
	Source                string                `json:"source"`
	AIProvider            ProviderName          `json:"ai_provider,omitempty"`
	FallbackUsed          bool                  `json:"fallback_used,omitempty"`
	ProviderAttempts      []ProviderAttempt     `json:"provider_attempts,omitempty"`
}

const (
	SourceAlgorithm        = "algorithm_generated"
	SourceFallbackAlgo     = "fallback_algorithm"
	SourceMinimalFallback  = "minimal_fallback"
	SourceFallback         = "fallback"
	SourceAlgorithmicBlend = "algorithmic_enhanced"
)
