package recommend

import "github.com/yungbote/lusilearn-ai-service/internal/domain"

type relation struct {
	key     string
	related []string
}

// topicRelations is ordered so partial matches resolve the same way every time.
var topicRelations = []relation{
	{"mathematics", []string{"algebra", "geometry", "calculus", "statistics"}},
	{"programming", []string{"algorithms", "data_structures", "software_engineering"}},
	{"science", []string{"physics", "chemistry", "biology"}},
	{"history", []string{"world_history", "american_history", "ancient_history"}},
	{"language", []string{"grammar", "vocabulary", "writing", "literature"}},
}

var stylePreferences = map[domain.LearningStyle]map[domain.ContentFormat]float64{
	domain.StyleVisual: {
		domain.FormatVideo:       0.9,
		domain.FormatInteractive: 0.8,
		domain.FormatArticle:     0.6,
		domain.FormatAudio:       0.3,
		domain.FormatDocument:    0.5,
	},
	domain.StyleAuditory: {
		domain.FormatAudio:       0.9,
		domain.FormatVideo:       0.7,
		domain.FormatInteractive: 0.5,
		domain.FormatArticle:     0.4,
		domain.FormatDocument:    0.4,
	},
	domain.StyleKinesthetic: {
		domain.FormatInteractive: 0.9,
		domain.FormatVideo:       0.6,
		domain.FormatAudio:       0.4,
		domain.FormatArticle:     0.3,
		domain.FormatDocument:    0.3,
	},
	domain.StyleReading: {
		domain.FormatArticle:     0.9,
		domain.FormatDocument:    0.8,
		domain.FormatInteractive: 0.6,
		domain.FormatVideo:       0.5,
		domain.FormatAudio:       0.4,
	},
}

// signatureFormat is the channel that earns the style boost.
var signatureFormat = map[domain.LearningStyle]domain.ContentFormat{
	domain.StyleVisual:      domain.FormatVideo,
	domain.StyleAuditory:    domain.FormatAudio,
	domain.StyleKinesthetic: domain.FormatInteractive,
	domain.StyleReading:     domain.FormatArticle,
}

var sourceQuality = map[string]float64{
	"khan_academy":   0.9,
	"coursera":       0.85,
	"youtube":        0.7,
	"sample_content": 0.6,
}

var skillMultiplier = map[domain.DifficultyLevel]float32{
	domain.Beginner:     0.3,
	domain.Intermediate: 0.6,
	domain.Advanced:     0.9,
}

var contextOffset = map[domain.LearningContext]float32{
	domain.ContextSelfPaced:  0.1,
	domain.ContextClassroom:  0.2,
	domain.ContextGroupStudy: 0.15,
	domain.ContextExamPrep:   0.3,
}

// Seed data for collaborative filtering until real interactions arrive.
func seedInteractions() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"user_1": {"content_math_1": 0.8, "content_science_1": 0.6},
		"user_2": {"content_math_1": 0.9, "content_programming_1": 0.7},
		"user_3": {"content_science_1": 0.7, "content_history_1": 0.8},
	}
}

func seedSuccessRates() map[string]float64 {
	return map[string]float64{
		"content_math_1":        0.85,
		"content_science_1":     0.78,
		"content_programming_1": 0.82,
		"content_history_1":     0.75,
	}
}
