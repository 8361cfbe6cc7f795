package domain

type PeerProfile struct {
	UserID                   string                     `json:"user_id"`
	EducationLevel           EducationLevel             `json:"education_level"`
	Subjects                 []string                   `json:"subjects"`
	SkillLevels              map[string]DifficultyLevel `json:"skill_levels"`
	LearningGoals            []string                   `json:"learning_goals"`
	Availability             map[string][]string        `json:"availability"`
	CommunicationPreferences []string                   `json:"communication_preferences"`
	AgeRange                 string                     `json:"age_range,omitempty"`
}

type PeerMatch struct {
	UserID              string            `json:"user_id"`
	CompatibilityScore  float64           `json:"compatibility_score"`
	SharedSubjects      []string          `json:"shared_subjects"`
	ComplementarySkills map[string]string `json:"complementary_skills"`
	CommonGoals         []string          `json:"common_goals"`
	AvailabilityOverlap []string          `json:"availability_overlap"`
	CommunicationMatch  []string          `json:"communication_match"`
	MatchReasons        []string          `json:"match_reasons"`
}

type MatchingAnalytics struct {
	UserID               string  `json:"user_id"`
	TimePeriodDays       int     `json:"time_period_days"`
	TotalMatches         int     `json:"total_matches"`
	SuccessfulMatches    int     `json:"successful_matches"`
	SuccessRate          float64 `json:"success_rate"`
	AverageFeedbackScore float64 `json:"average_feedback_score"`
	MatchingAccuracy     float64 `json:"matching_accuracy"`
}
