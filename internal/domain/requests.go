package domain

type LearningPathRequest struct {
	UserID         string          `json:"user_id" validate:"required"`
	Subject        string          `json:"subject" validate:"required"`
	EducationLevel EducationLevel  `json:"education_level" validate:"required,oneof=k12 college professional"`
	CurrentLevel   DifficultyLevel `json:"current_level" validate:"required,oneof=beginner intermediate advanced"`
	LearningGoals  []string        `json:"learning_goals" validate:"required"`
	TimeCommitment int             `json:"time_commitment" validate:"min=1,max=40"`
	LearningStyle  LearningStyle   `json:"learning_style" validate:"required,oneof=visual auditory kinesthetic reading"`
	Prerequisites  []string        `json:"prerequisites,omitempty"`
}

// DefaultMaxDuration applies when a recommendation request omits max_duration.
const DefaultMaxDuration = 60

type ContentRecommendationRequest struct {
	UserID           string          `json:"user_id" validate:"required"`
	CurrentTopic     string          `json:"current_topic" validate:"required"`
	EducationLevel   EducationLevel  `json:"education_level" validate:"required,oneof=k12 college professional"`
	SkillLevel       DifficultyLevel `json:"skill_level" validate:"required,oneof=beginner intermediate advanced"`
	LearningContext  LearningContext `json:"learning_context" validate:"required,oneof=self_paced classroom group_study exam_prep"`
	PreferredFormats []ContentFormat `json:"preferred_formats" validate:"required,dive,oneof=video article interactive audio document"`
	MaxDuration      int             `json:"max_duration,omitempty" validate:"min=0"`
	ExcludeContent   []string        `json:"exclude_content,omitempty"`
}

// MaxDurationOrDefault returns the duration cap in minutes.
func (r ContentRecommendationRequest) MaxDurationOrDefault() int {
	if r.MaxDuration > 0 {
		return r.MaxDuration
	}
	return DefaultMaxDuration
}

func (r ContentRecommendationRequest) Excludes(contentID string) bool {
	for _, id := range r.ExcludeContent {
		if id == contentID {
			return true
		}
	}
	return false
}

type PeerMatchingRequest struct {
	UserID                   string                     `json:"user_id" validate:"required"`
	EducationLevel           EducationLevel             `json:"education_level" validate:"required,oneof=k12 college professional"`
	Subjects                 []string                   `json:"subjects" validate:"required"`
	SkillLevels              map[string]DifficultyLevel `json:"skill_levels" validate:"required,dive,oneof=beginner intermediate advanced"`
	LearningGoals            []string                   `json:"learning_goals" validate:"required"`
	Availability             map[string][]string        `json:"availability" validate:"required"`
	CommunicationPreferences []string                   `json:"communication_preferences" validate:"required"`
	AgeRange                 string                     `json:"age_range,omitempty"`
}

// MaxEmbeddingTexts caps one embedding request.
const MaxEmbeddingTexts = 100

type EmbeddingRequest struct {
	Texts []string `json:"texts" validate:"required,min=1,max=100"`
	Model string   `json:"model,omitempty"`
}

type AdaptPathRequest struct {
	CurrentPath     LearningPath    `json:"current_path"`
	PerformanceData PerformanceData `json:"performance_data"`
	UserProfile     UserProfile     `json:"user_profile"`
}

type SequenceRequest struct {
	Objectives          []LearningObjective `json:"objectives" validate:"required,dive"`
	CompletedObjectives []string            `json:"completed_objectives,omitempty"`
}

type FallbackPathRequest struct {
	EducationLevel EducationLevel `json:"education_level" validate:"required,oneof=k12 college professional"`
	Subject        string         `json:"subject" validate:"required"`
	LearningGoals  []string       `json:"learning_goals,omitempty"`
	TimeCommitment int            `json:"time_commitment,omitempty" validate:"min=0,max=40"`
}

type InteractionUpdate struct {
	UserID           string  `json:"user_id" validate:"required"`
	ContentID        string  `json:"content_id" validate:"required"`
	InteractionScore float64 `json:"interaction_score" validate:"min=0,max=1"`
}

type SuccessRateUpdate struct {
	ContentID   string  `json:"content_id" validate:"required"`
	SuccessRate float64 `json:"success_rate" validate:"min=0,max=1"`
}

type MatchFeedback struct {
	UserID        string  `json:"user_id" validate:"required"`
	PeerID        string  `json:"peer_id" validate:"required"`
	FeedbackScore float64 `json:"feedback_score" validate:"min=0,max=1"`
	FeedbackType  string  `json:"feedback_type,omitempty"`
}
