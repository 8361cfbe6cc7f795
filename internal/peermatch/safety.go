package peermatch

import (
	"strings"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
)

// SafetyRule constrains how two learners in a tier may interact.
type SafetyRule struct {
	MaxAgeDifference     int      `json:"max_age_difference,omitempty"`
	RequireSupervision   bool     `json:"require_supervision"`
	AllowedCommunication []string `json:"allowed_communication"`
}

var safetyRules = map[domain.SafetyTier]SafetyRule{
	domain.SafetyHigh: {
		MaxAgeDifference:     2,
		RequireSupervision:   true,
		AllowedCommunication: []string{"chat", "video_call_supervised"},
	},
	domain.SafetyMedium: {
		MaxAgeDifference:     5,
		AllowedCommunication: []string{"chat", "video_call", "email"},
	},
	domain.SafetyStandard: {
		AllowedCommunication: []string{"chat", "video_call", "email", "phone"},
	},
}

// minorReason is appended to every match returned to a high-tier requester.
const minorReason = "Age-appropriate and safe for minors"

// TierFor resolves a learner's safety tier. An age range mentioning "under"
// or a K-12 education level is always high.
func TierFor(ageRange string, level domain.EducationLevel) domain.SafetyTier {
	switch {
	case strings.Contains(strings.ToLower(ageRange), "under") || level == domain.EducationK12:
		return domain.SafetyHigh
	case strings.Contains(ageRange, "18-25") || level == domain.EducationCollege:
		return domain.SafetyMedium
	default:
		return domain.SafetyStandard
	}
}

// Compatible reports whether a requester in tier user may be matched with a
// peer in tier peer. High only meets high; nobody else meets high.
func Compatible(user, peer domain.SafetyTier) bool {
	switch user {
	case domain.SafetyHigh:
		return peer == domain.SafetyHigh
	case domain.SafetyMedium:
		return peer == domain.SafetyMedium || peer == domain.SafetyStandard
	case domain.SafetyStandard:
		return peer != domain.SafetyHigh
	default:
		return true
	}
}

func safetyWeight(user, peer domain.SafetyTier) float64 {
	switch {
	case user == peer:
		return 1.0
	case Compatible(user, peer):
		return 0.8
	default:
		return 0.1
	}
}
