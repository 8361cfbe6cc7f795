package peermatch

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
)

// DefaultMaxMatches applies when a caller passes a non-positive limit.
const DefaultMaxMatches = 10

var (
	candidateLevels   = []domain.EducationLevel{domain.EducationK12, domain.EducationCollege, domain.EducationProfessional}
	candidateSubjects = []string{"mathematics", "science", "programming", "history", "language"}
	candidateChannels = []string{"video_call", "chat", "email"}
)

type feedback struct {
	total      int
	successful int
	scores     []float64
}

// Engine scores candidate peers for a learner and enforces safety tiers.
type Engine struct {
	log *logger.Logger

	mu      sync.RWMutex
	history map[string]*feedback
}

func New(log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	e := &Engine{
		log:     log.With("component", "PeerMatchingEngine"),
		history: map[string]*feedback{},
	}
	e.log.Info("Peer matching engine initialized", "candidate_pool", 20)
	return e
}

// FindPeerMatches scores the candidate pool with strategy, drops every
// safety-incompatible pair and returns at most maxMatches ordered by score.
// Failures are logged and yield an empty list.
func (e *Engine) FindPeerMatches(ctx context.Context, req domain.PeerMatchingRequest, strategy Strategy, maxMatches int) (matches []domain.PeerMatch) {
	if maxMatches <= 0 {
		maxMatches = DefaultMaxMatches
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("Error finding peer matches", "user_id", req.UserID, "error", fmt.Sprint(r))
			matches = []domain.PeerMatch{}
		}
	}()
	if err := ctx.Err(); err != nil {
		e.log.Warn("Peer matching cancelled", "user_id", req.UserID, "error", err)
		return []domain.PeerMatch{}
	}

	e.log.Info("Finding peer matches", "user_id", req.UserID, "strategy", strategy)
	peers := candidatePeers(req.UserID)
	if len(peers) == 0 {
		return []domain.PeerMatch{}
	}

	var scored []domain.PeerMatch
	switch strategy {
	case SkillComplementarity:
		scored = scoreEach(req, peers, func(p domain.PeerProfile) (float64, []string) {
			s := skillComplementarity(req.SkillLevels, p.SkillLevels)
			return s, []string{fmt.Sprintf("Skill complementarity score: %.2f", s)}
		})
	case LearningGoalAlignment:
		scored = scoreEach(req, peers, func(p domain.PeerProfile) (float64, []string) {
			s := goalAlignment(req.LearningGoals, p.LearningGoals)
			return s, []string{fmt.Sprintf("Goal alignment score: %.2f", s)}
		})
	case CommunicationCompatibility:
		scored = scoreEach(req, peers, func(p domain.PeerProfile) (float64, []string) {
			comm := communicationScore(req.CommunicationPreferences, p.CommunicationPreferences)
			slots := totalSlots(req.Availability)
			if slots < 1 {
				slots = 1
			}
			avail := float64(len(availabilityOverlap(req.Availability, p.Availability))) / float64(slots)
			s := (comm + avail) / 2
			return s, []string{fmt.Sprintf("Communication compatibility: %.2f", s)}
		})
	case SafetyFocused:
		scored = safetyFocused(req, peers)
	default:
		scored = scoreEach(req, peers, func(p domain.PeerProfile) (float64, []string) {
			s := 0.3*skillComplementarity(req.SkillLevels, p.SkillLevels) +
				0.25*goalAlignment(req.LearningGoals, p.LearningGoals) +
				0.25*communicationScore(req.CommunicationPreferences, p.CommunicationPreferences) +
				0.2*0.8
			return s, []string{fmt.Sprintf("Overall compatibility: %.2f", s)}
		})
	}

	safe := applySafetyFilter(req, peers, scored)
	sort.SliceStable(safe, func(i, j int) bool {
		return safe[i].CompatibilityScore > safe[j].CompatibilityScore
	})
	if len(safe) > maxMatches {
		safe = safe[:maxMatches]
	}
	e.log.Debug("Peer matches scored", "user_id", req.UserID, "candidates", len(peers), "returned", len(safe))
	return safe
}

// candidatePeers builds the deterministic 20-peer pool for userID.
func candidatePeers(userID string) []domain.PeerProfile {
	n := len(candidateSubjects)
	out := make([]domain.PeerProfile, 0, 20)
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("peer_%s_%d", userID, i)
		if id == userID {
			continue
		}
		start := i % n
		end := start + 2
		if end > n {
			end = n
		}
		age := "25-35"
		if i%3 == 0 {
			age = "18-25"
		}
		out = append(out, domain.PeerProfile{
			UserID:         id,
			EducationLevel: candidateLevels[i%len(candidateLevels)],
			Subjects:       append([]string(nil), candidateSubjects[start:end]...),
			SkillLevels: map[string]domain.DifficultyLevel{
				candidateSubjects[start]: domain.DifficultyLevels[i%3],
			},
			LearningGoals: []string{
				"learn " + candidateSubjects[start],
				"master " + candidateSubjects[(i+1)%n],
			},
			Availability: map[string][]string{
				"monday":    {"09:00-11:00", "14:00-16:00"},
				"wednesday": {"10:00-12:00"},
				"friday":    {"15:00-17:00"},
			},
			CommunicationPreferences: append([]string(nil), candidateChannels[:i%3+1]...),
			AgeRange:                 age,
		})
	}
	return out
}

type scoreFunc func(domain.PeerProfile) (float64, []string)

func scoreEach(req domain.PeerMatchingRequest, peers []domain.PeerProfile, fn scoreFunc) []domain.PeerMatch {
	out := make([]domain.PeerMatch, 0, len(peers))
	for _, p := range peers {
		score, reasons := fn(p)
		out = append(out, newMatch(req, p, score, reasons))
	}
	return out
}

func safetyFocused(req domain.PeerMatchingRequest, peers []domain.PeerProfile) []domain.PeerMatch {
	userTier := TierFor(req.AgeRange, req.EducationLevel)
	out := []domain.PeerMatch{}
	for _, p := range peers {
		peerTier := TierFor(p.AgeRange, p.EducationLevel)
		if !Compatible(userTier, peerTier) {
			continue
		}
		score := 0.5 * safetyWeight(userTier, peerTier)
		reasons := []string{fmt.Sprintf("Safety-verified compatibility: %.2f", score)}
		if userTier == domain.SafetyHigh {
			reasons = append(reasons, "Age-appropriate matching with enhanced safety")
		}
		out = append(out, newMatch(req, p, score, reasons))
	}
	return out
}

func newMatch(req domain.PeerMatchingRequest, p domain.PeerProfile, score float64, reasons []string) domain.PeerMatch {
	return domain.PeerMatch{
		UserID:              p.UserID,
		CompatibilityScore:  domain.Clamp01(score),
		SharedSubjects:      intersect(req.Subjects, p.Subjects),
		ComplementarySkills: complementarySkills(req.SkillLevels, p.SkillLevels),
		CommonGoals:         intersect(req.LearningGoals, p.LearningGoals),
		AvailabilityOverlap: availabilityOverlap(req.Availability, p.Availability),
		CommunicationMatch:  intersect(req.CommunicationPreferences, p.CommunicationPreferences),
		MatchReasons:        reasons,
	}
}

// applySafetyFilter resolves each match's peer tier from the candidate pool
// it was scored against. Unknown peers resolve to standard.
func applySafetyFilter(req domain.PeerMatchingRequest, peers []domain.PeerProfile, matches []domain.PeerMatch) []domain.PeerMatch {
	byID := make(map[string]domain.PeerProfile, len(peers))
	for _, p := range peers {
		byID[p.UserID] = p
	}
	userTier := TierFor(req.AgeRange, req.EducationLevel)
	out := make([]domain.PeerMatch, 0, len(matches))
	for _, m := range matches {
		p := byID[m.UserID]
		if !Compatible(userTier, TierFor(p.AgeRange, p.EducationLevel)) {
			continue
		}
		if userTier == domain.SafetyHigh {
			m.MatchReasons = append(m.MatchReasons, minorReason)
		}
		out = append(out, m)
	}
	return out
}
