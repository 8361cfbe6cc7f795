package domain

import (
	"fmt"
	"strings"
)

type EducationLevel string

const (
	EducationK12          EducationLevel = "k12"
	EducationCollege      EducationLevel = "college"
	EducationProfessional EducationLevel = "professional"
)

type DifficultyLevel string

const (
	Beginner     DifficultyLevel = "beginner"
	Intermediate DifficultyLevel = "intermediate"
	Advanced     DifficultyLevel = "advanced"
)

// Rank maps beginner/intermediate/advanced to 1/2/3. Unknown values rank as beginner.
func (d DifficultyLevel) Rank() int {
	switch d {
	case Intermediate:
		return 2
	case Advanced:
		return 3
	default:
		return 1
	}
}

// Next returns the following level, saturating at advanced.
func (d DifficultyLevel) Next() DifficultyLevel {
	switch d {
	case Beginner:
		return Intermediate
	case Intermediate, Advanced:
		return Advanced
	default:
		return Intermediate
	}
}

func (d DifficultyLevel) Valid() bool {
	return d == Beginner || d == Intermediate || d == Advanced
}

// DifficultyLevels lists levels in ascending order.
var DifficultyLevels = []DifficultyLevel{Beginner, Intermediate, Advanced}

type LearningStyle string

const (
	StyleVisual      LearningStyle = "visual"
	StyleAuditory    LearningStyle = "auditory"
	StyleKinesthetic LearningStyle = "kinesthetic"
	StyleReading     LearningStyle = "reading"
)

type ContentFormat string

const (
	FormatVideo       ContentFormat = "video"
	FormatArticle     ContentFormat = "article"
	FormatInteractive ContentFormat = "interactive"
	FormatAudio       ContentFormat = "audio"
	FormatDocument    ContentFormat = "document"
)

func (f ContentFormat) Valid() bool {
	switch f {
	case FormatVideo, FormatArticle, FormatInteractive, FormatAudio, FormatDocument:
		return true
	}
	return false
}

type LearningContext string

const (
	ContextSelfPaced  LearningContext = "self_paced"
	ContextClassroom  LearningContext = "classroom"
	ContextGroupStudy LearningContext = "group_study"
	ContextExamPrep   LearningContext = "exam_prep"
)

type ProviderName string

const (
	ProviderOpenAI ProviderName = "openai"
	ProviderGemini ProviderName = "gemini"
)

// Other returns the opposite provider.
func (p ProviderName) Other() ProviderName {
	if p == ProviderGemini {
		return ProviderOpenAI
	}
	return ProviderGemini
}

// ParseProvider accepts "openai" or "gemini" in any case.
func ParseProvider(raw string) (ProviderName, error) {
	switch ProviderName(strings.ToLower(strings.TrimSpace(raw))) {
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderGemini:
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("invalid AI provider: %s. Must be 'openai' or 'gemini'", raw)
	}
}

// SafetyTier groups learners for peer matching. Minors are always high.
type SafetyTier string

const (
	SafetyHigh     SafetyTier = "high"
	SafetyMedium   SafetyTier = "medium"
	SafetyStandard SafetyTier = "standard"
)
