package domain

// InteractionRecord is one past study session.
type InteractionRecord struct {
	Subject     string   `json:"subject"`
	Topics      []string `json:"topics,omitempty"`
	SuccessRate float64  `json:"success_rate"`
}

type Preferences struct {
	LearningStyle    LearningStyle   `json:"learning_style,omitempty"`
	PreferredFormats []ContentFormat `json:"preferred_formats,omitempty"`
	WeeklyHours      int             `json:"weekly_hours,omitempty"`
}

// UserProfile is built per request and never persisted.
type UserProfile struct {
	UserID              string                     `json:"user_id"`
	EducationLevel      EducationLevel             `json:"education_level"`
	AgeRange            string                     `json:"age_range,omitempty"`
	Subjects            []string                   `json:"subjects,omitempty"`
	SkillLevels         map[string]DifficultyLevel `json:"skill_levels,omitempty"`
	LearningPreferences Preferences                `json:"learning_preferences"`
	Goals               []string                   `json:"goals,omitempty"`
	InteractionHistory  []InteractionRecord        `json:"interaction_history,omitempty"`
}

// MaxInteractionHistory bounds the history carried on a profile.
const MaxInteractionHistory = 50

// SkillIn returns the recorded level for subject, defaulting to beginner.
func (p UserProfile) SkillIn(subject string) DifficultyLevel {
	if lvl, ok := p.SkillLevels[subject]; ok && lvl.Valid() {
		return lvl
	}
	return Beginner
}

// Style returns the profile's learning style, defaulting to visual.
func (p UserProfile) Style() LearningStyle {
	if p.LearningPreferences.LearningStyle != "" {
		return p.LearningPreferences.LearningStyle
	}
	return StyleVisual
}

// Formats returns the preferred formats, defaulting to video and interactive.
func (p UserProfile) Formats() []ContentFormat {
	if len(p.LearningPreferences.PreferredFormats) > 0 {
		return p.LearningPreferences.PreferredFormats
	}
	return []ContentFormat{FormatVideo, FormatInteractive}
}

// Bounded returns a copy whose history keeps only the most recent MaxInteractionHistory entries.
func (p UserProfile) Bounded() UserProfile {
	if len(p.InteractionHistory) > MaxInteractionHistory {
		p.InteractionHistory = append([]InteractionRecord(nil), p.InteractionHistory[len(p.InteractionHistory)-MaxInteractionHistory:]...)
	}
	return p
}

// ProfileFromLearningPathRequest converts request data into a profile.
func ProfileFromLearningPathRequest(req LearningPathRequest) UserProfile {
	return UserProfile{
		UserID:         req.UserID,
		EducationLevel: req.EducationLevel,
		Subjects:       []string{req.Subject},
		SkillLevels:    map[string]DifficultyLevel{req.Subject: req.CurrentLevel},
		LearningPreferences: Preferences{
			LearningStyle: req.LearningStyle,
			WeeklyHours:   req.TimeCommitment,
		},
		Goals: append([]string(nil), req.LearningGoals...),
	}
}

// ProfileFromRecommendationRequest converts request data into a profile.
func ProfileFromRecommendationRequest(req ContentRecommendationRequest) UserProfile {
	return UserProfile{
		UserID:         req.UserID,
		EducationLevel: req.EducationLevel,
		Subjects:       []string{req.CurrentTopic},
		SkillLevels:    map[string]DifficultyLevel{req.CurrentTopic: req.SkillLevel},
		LearningPreferences: Preferences{
			PreferredFormats: append([]ContentFormat(nil), req.PreferredFormats...),
		},
	}
}
