package pathalgo

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
)

// Algorithm builds, sequences and adapts learning paths without calling any
// model provider. It holds no mutable state and is safe for concurrent use.
type Algorithm struct {
	log *logger.Logger
	now func() time.Time
}

func New(log *logger.Logger) *Algorithm {
	if log == nil {
		log = logger.Nop()
	}
	return &Algorithm{log: log.With("component", "PathAlgorithm"), now: time.Now}
}

type skillAssessment struct {
	currentLevel domain.DifficultyLevel
	gaps         []string
	strengths    []string
	confidence   float64
}

// GeneratePersonalizedPath builds a sequenced path for subject from the
// learner's goals, history and weekly time budget.
func (a *Algorithm) GeneratePersonalizedPath(profile domain.UserProfile, subject string, goals []string, weeklyHours int) (path *domain.LearningPath, err error) {
	if weeklyHours < 1 {
		return nil, fmt.Errorf("generate learning path: weekly hours must be positive, got %d", weeklyHours)
	}
	defer func() {
		if r := recover(); r != nil {
			path = nil
			err = fmt.Errorf("generate learning path: %v", r)
		}
	}()

	profile = profile.Bounded()
	a.log.Info("Generating personalized path", "user_id", profile.UserID, "subject", subject, "goals", len(goals))

	assessment := assessSkills(profile, subject)
	a.log.Debug("Skill assessment",
		"user_id", profile.UserID,
		"level", assessment.currentLevel,
		"gaps", len(assessment.gaps),
		"strengths", len(assessment.strengths),
		"confidence", assessment.confidence,
	)
	objectives := mapGoalsToObjectives(goals, subject, profile.EducationLevel)

	// Mastered topics are dropped; gaps are reviewed first.
	filtered := make([]domain.LearningObjective, 0, len(objectives))
	for _, o := range objectives {
		if !o.HasTopic(assessment.strengths) {
			filtered = append(filtered, o)
		}
	}
	all := append(remedialObjectives(assessment.gaps), filtered...)

	seq := Sequence(all, nil)
	if len(seq.Warnings) > 0 {
		a.log.Warn("Objectives admitted out of prerequisite order", "user_id", profile.UserID, "warnings", len(seq.Warnings))
	}

	adapted := adaptForLearningStyle(seq.Objectives, profile.Style(), profile.Formats())
	timed := estimateTime(adapted, weeklyHours)

	now := a.now()
	return &domain.LearningPath{
		PathID:                fmt.Sprintf("path_%s_%s_%d", profile.UserID, subject, now.Unix()),
		UserID:                profile.UserID,
		Subject:               subject,
		EducationLevel:        profile.EducationLevel,
		Objectives:            timed,
		TotalEstimatedHours:   domain.TotalHours(timed),
		DifficultyProgression: buildProgression(timed, assessment.currentLevel),
		Milestones:            buildMilestones(timed),
		AdaptationStrategy:    defaultAdaptationStrategy(),
		Warnings:              seq.Warnings,
		CreatedAt:             now,
		Source:                domain.SourceAlgorithm,
	}, nil
}

func assessSkills(profile domain.UserProfile, subject string) skillAssessment {
	history := profile.InteractionHistory
	recent := history
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}

	var gaps, strengths []string
	for _, rec := range recent {
		if rec.Subject != subject {
			continue
		}
		switch {
		case rec.SuccessRate < 0.7:
			gaps = appendUnique(gaps, rec.Topics...)
		case rec.SuccessRate > 0.9:
			strengths = appendUnique(strengths, rec.Topics...)
		}
	}

	var rates []float64
	for _, rec := range history {
		if rec.Subject == subject {
			rates = append(rates, rec.SuccessRate)
		}
	}
	confidence := 0.5
	if len(rates) > 0 {
		if len(rates) > 5 {
			rates = rates[len(rates)-5:]
		}
		sum := 0.0
		for _, r := range rates {
			sum += r
		}
		confidence = sum / float64(len(rates))
	}

	return skillAssessment{
		currentLevel: profile.SkillIn(subject),
		gaps:         gaps,
		strengths:    strengths,
		confidence:   confidence,
	}
}

func mapGoalsToObjectives(goals []string, subject string, level domain.EducationLevel) []domain.LearningObjective {
	categories := subjectTaxonomy[normalizeSubject(subject)][level]
	seen := map[string]bool{}
	var out []domain.LearningObjective
	for _, goal := range goals {
		g := strings.ToLower(strings.TrimSpace(goal))
		if g == "" {
			continue
		}
		for _, cat := range categories {
			if !categoryMatches(g, cat.Topics) {
				continue
			}
			for _, topic := range cat.Topics {
				id := fmt.Sprintf("obj_%s_%s", cat.Name, topic)
				if seen[id] {
					continue
				}
				seen[id] = true
				out = append(out, domain.LearningObjective{
					ID:           id,
					Title:        "Learn " + topic,
					Description:  fmt.Sprintf("Master %s concepts and applications", topic),
					Difficulty:   domain.Beginner,
					Topics:       []string{topic},
					Category:     cat.Name,
					SkillsGained: []string{skillSlug(topic)},
				})
			}
		}
	}
	if len(out) == 0 {
		return defaultObjectives(subject)
	}
	return out
}

func categoryMatches(goal string, topics []string) bool {
	for _, t := range topics {
		t = strings.ToLower(t)
		if strings.Contains(goal, t) || strings.Contains(t, goal) {
			return true
		}
	}
	return false
}

func defaultObjectives(subject string) []domain.LearningObjective {
	first := "default_obj_1_" + subject
	return []domain.LearningObjective{
		{
			ID:             first,
			Title:          "Introduction to " + subject,
			Description:    "Learn fundamental concepts of " + subject,
			Difficulty:     domain.Beginner,
			EstimatedHours: 4,
			SkillsGained:   []string{subject + "_fundamentals"},
		},
		{
			ID:             "default_obj_2_" + subject,
			Title:          "Intermediate " + subject,
			Description:    fmt.Sprintf("Build on %s fundamentals", subject),
			Difficulty:     domain.Intermediate,
			EstimatedHours: 6,
			Prerequisites:  []string{first},
			SkillsGained:   []string{subject + "_intermediate"},
		},
	}
}

func remedialObjectives(gaps []string) []domain.LearningObjective {
	out := make([]domain.LearningObjective, 0, len(gaps))
	for i, gap := range gaps {
		out = append(out, domain.LearningObjective{
			ID:             fmt.Sprintf("remedial_obj_%d", i+1),
			Title:          "Review " + gap,
			Description:    "Strengthen understanding of " + gap,
			Difficulty:     domain.Beginner,
			EstimatedHours: 2,
			Remedial:       true,
			Topics:         []string{gap},
			SkillsGained:   []string{skillSlug(gap)},
		})
	}
	return out
}

func adaptForLearningStyle(objs []domain.LearningObjective, style domain.LearningStyle, preferred []domain.ContentFormat) []domain.LearningObjective {
	formats, ok := styleFormats[style]
	if !ok {
		formats = readingFormats
	}
	allowed := make(map[string]bool, len(preferred))
	for _, f := range preferred {
		allowed[string(f)] = true
	}

	out := domain.CloneObjectives(objs)
	for i := range out {
		rec := make([]string, 0, len(formats))
		for _, f := range formats {
			if len(allowed) == 0 || allowed[f] {
				rec = append(rec, f)
			}
		}
		out[i].RecommendedFormats = rec
	}
	return out
}

func estimateTime(objs []domain.LearningObjective, weeklyHours int) []domain.LearningObjective {
	out := domain.CloneObjectives(objs)
	for i := range out {
		base, ok := baseHours[out[i].Difficulty]
		if !ok {
			base = 2
		}
		hours := int(float64(base) * (1 + 0.5*float64(len(out[i].SkillsGained))))
		out[i].EstimatedHours = hours
		out[i].EstimatedWeeks = max(1, hours/weeklyHours)
	}
	return out
}

// buildProgression raises the target level one step every third objective.
func buildProgression(objs []domain.LearningObjective, start domain.DifficultyLevel) domain.DifficultyProgression {
	p := domain.DifficultyProgression{
		StartingLevel:   start,
		TargetLevel:     domain.Advanced,
		ProgressionRate: "adaptive",
	}
	level := start
	for i := range objs {
		if i == 0 || i%3 != 0 {
			continue
		}
		level = level.Next()
		p.Milestones = append(p.Milestones, domain.ProgressionStep{
			ObjectiveIndex:     i,
			TargetLevel:        level,
			AssessmentRequired: true,
		})
	}
	return p
}

func buildMilestones(objs []domain.LearningObjective) []domain.Milestone {
	return chunkMilestones(objs, 3, "Milestone", milestoneCriteria, true)
}

func chunkMilestones(objs []domain.LearningObjective, size int, title string, criteria []string, withHours bool) []domain.Milestone {
	var out []domain.Milestone
	for i := 0; i < len(objs); i += size {
		end := min(i+size, len(objs))
		chunk := objs[i:end]
		n := i/size + 1
		m := domain.Milestone{
			ID:                 fmt.Sprintf("milestone_%d", n),
			Title:              fmt.Sprintf("%s %d", title, n),
			Description:        fmt.Sprintf("Complete objectives %d-%d", i+1, end),
			CompletionCriteria: append([]string(nil), criteria...),
		}
		for j, o := range chunk {
			id := o.Key()
			if id == "" {
				id = fmt.Sprintf("obj_%d", j)
			}
			m.Objectives = append(m.Objectives, id)
			if withHours {
				h := o.EstimatedHours
				if h <= 0 {
					h = 2
				}
				m.EstimatedCompletion += h
			}
		}
		out = append(out, m)
	}
	return out
}

func normalizeSubject(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

func skillSlug(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "_")
}

func appendUnique(dst []string, vals ...string) []string {
	for _, v := range vals {
		dup := false
		for _, d := range dst {
			if d == v {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, v)
		}
	}
	return dst
}
