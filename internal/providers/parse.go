package providers

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
)

const (
	defaultObjectiveHours   = 4
	defaultContentMinutes   = 30
	defaultProviderRelevant = 0.8
	defaultProviderQuality  = 0.75
)

// SourceAIGenerated tags paths and recommendations parsed from model JSON.
const SourceAIGenerated = "ai_generated"

func textFallbackSource(p domain.ProviderName) string { return string(p) + "_text_fallback" }

// extractJSON returns the text between the first open and the last close delimiter.
func extractJSON(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func parseLearningPath(p domain.ProviderName, text string, req domain.LearningPathRequest, now time.Time) *domain.LearningPath {
	path := &domain.LearningPath{
		PathID:         fmt.Sprintf("%s_path_%s_%d", p, req.UserID, now.Unix()),
		UserID:         req.UserID,
		Subject:        req.Subject,
		EducationLevel: req.EducationLevel,
		CreatedAt:      now.UTC(),
		Source:         SourceAIGenerated,
		AIProvider:     p,
		DifficultyProgression: domain.DifficultyProgression{
			StartingLevel: startLevel(req.CurrentLevel),
			TargetLevel:   startLevel(req.CurrentLevel).Next(),
		},
	}

	var doc map[string]any
	raw, ok := extractJSON(text, '{', '}')
	if ok {
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			doc = nil
		}
	}
	objectives := normalizeObjectives(p, doc["objectives"], req)
	if doc == nil || len(objectives) == 0 {
		hours := req.TimeCommitment * 4
		if hours < 1 {
			hours = defaultObjectiveHours
		}
		path.Source = textFallbackSource(p)
		path.Objectives = []domain.LearningObjective{{
			ID:             string(p) + "_text_obj_1",
			Title:          "Parse and structure the learning content",
			Description:    truncate(strings.TrimSpace(text), 500),
			Difficulty:     startLevel(req.CurrentLevel),
			EstimatedHours: hours,
			Prerequisites:  []string{},
			SkillsGained:   []string{},
		}}
		path.TotalEstimatedHours = hours
		path.Milestones = chunkMilestones(path.Objectives)
		return path
	}

	path.Objectives = objectives
	path.TotalEstimatedHours = domain.TotalHours(objectives)
	if h, ok := asInt(doc["total_hours"]); ok && h > 0 {
		path.TotalEstimatedHours = h
	}
	if s := asString(doc["difficulty_progression"]); s != "" {
		if lvl, ok := lastLevel(s); ok {
			path.DifficultyProgression.TargetLevel = lvl
		}
	}
	path.Milestones = normalizeMilestones(doc["milestones"], objectives)
	return path
}

func startLevel(l domain.DifficultyLevel) domain.DifficultyLevel {
	if l.Valid() {
		return l
	}
	return domain.Beginner
}

func normalizeObjectives(p domain.ProviderName, v any, req domain.LearningPathRequest) []domain.LearningObjective {
	items, _ := v.([]any)
	out := make([]domain.LearningObjective, 0, len(items))
	titleToID := map[string]string{}
	for i, item := range items {
		obj := domain.LearningObjective{
			ID:            fmt.Sprintf("%s_obj_%d", p, i+1),
			Difficulty:    startLevel(req.CurrentLevel),
			Prerequisites: []string{},
			SkillsGained:  []string{},
		}
		switch t := item.(type) {
		case string:
			obj.Title = strings.TrimSpace(t)
			obj.EstimatedHours = defaultObjectiveHours
		case map[string]any:
			if id := asString(t["id"]); id != "" {
				obj.ID = id
			}
			obj.Title = firstString(t, "title", "name", "objective")
			obj.Description = asString(t["description"])
			if d := domain.DifficultyLevel(strings.ToLower(asString(t["difficulty"]))); d.Valid() {
				obj.Difficulty = d
			}
			obj.EstimatedHours = parseHours(firstValue(t, "estimated_hours", "hours", "timeline", "duration"), req.TimeCommitment)
			obj.Prerequisites = asStrings(t["prerequisites"])
			obj.Topics = asStrings(t["topics"])
			obj.SkillsGained = asStrings(t["skills_gained"])
			obj.RecommendedFormats = asStrings(firstValue(t, "content_types", "recommended_content_types", "formats"))
		default:
			continue
		}
		if obj.Title == "" {
			obj.Title = fmt.Sprintf("Objective %d", i+1)
		}
		titleToID[strings.ToLower(obj.Title)] = obj.ID
		out = append(out, obj)
	}
	// Models often list prerequisites by title.
	for i := range out {
		for j, pre := range out[i].Prerequisites {
			if id, ok := titleToID[strings.ToLower(pre)]; ok {
				out[i].Prerequisites[j] = id
			}
		}
	}
	return out
}

func normalizeMilestones(v any, objectives []domain.LearningObjective) []domain.Milestone {
	items, _ := v.([]any)
	out := make([]domain.Milestone, 0, len(items))
	for i, item := range items {
		m := domain.Milestone{ID: fmt.Sprintf("milestone_%d", i+1), Objectives: []string{}, CompletionCriteria: []string{}}
		switch t := item.(type) {
		case string:
			m.Title = t
		case map[string]any:
			m.Title = firstString(t, "title", "name", "milestone")
			m.Description = asString(t["description"])
			m.Objectives = asStrings(firstValue(t, "objective_ids", "objectives"))
			m.CompletionCriteria = asStrings(t["completion_criteria"])
		default:
			continue
		}
		if m.Title == "" {
			m.Title = fmt.Sprintf("Milestone %d", i+1)
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return chunkMilestones(objectives)
	}
	return out
}

// chunkMilestones groups objectives in threes.
func chunkMilestones(objectives []domain.LearningObjective) []domain.Milestone {
	var out []domain.Milestone
	for i := 0; i < len(objectives); i += 3 {
		end := i + 3
		if end > len(objectives) {
			end = len(objectives)
		}
		ids := make([]string, 0, end-i)
		for _, o := range objectives[i:end] {
			ids = append(ids, o.ID)
		}
		n := len(out) + 1
		out = append(out, domain.Milestone{
			ID:                 fmt.Sprintf("milestone_%d", n),
			Title:              fmt.Sprintf("Milestone %d", n),
			Description:        fmt.Sprintf("Complete objectives %d-%d", i+1, end),
			Objectives:         ids,
			CompletionCriteria: []string{"Complete all objectives", "Pass assessment"},
		})
	}
	return out
}

func parseRecommendations(p domain.ProviderName, text string, req domain.ContentRecommendationRequest) []domain.ContentRecommendation {
	var items []any
	raw, ok := extractJSON(text, '[', ']')
	if ok {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			items = nil
		}
	}
	out := make([]domain.ContentRecommendation, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rec := domain.ContentRecommendation{
			ContentID:       fmt.Sprintf("%s_rec_%d", p, i+1),
			Title:           firstString(m, "title", "name"),
			Description:     asString(m["description"]),
			URL:             asString(m["url"]),
			Difficulty:      req.SkillLevel,
			Format:          defaultFormat(req),
			DurationMinutes: parseMinutes(firstValue(m, "duration", "duration_minutes", "estimated_duration")),
			Topics:          asStrings(firstValue(m, "topics", "learning_objectives", "objectives")),
			Source:          SourceAIGenerated,
			RelevanceScore:  defaultProviderRelevant,
			QualityScore:    defaultProviderQuality,
			AIProvider:      p,
		}
		if id := firstString(m, "content_id", "id"); id != "" {
			rec.ContentID = id
		}
		if rec.Title == "" {
			continue
		}
		if d := domain.DifficultyLevel(strings.ToLower(asString(m["difficulty"]))); d.Valid() {
			rec.Difficulty = d
		}
		if f := domain.ContentFormat(strings.ToLower(asString(firstValue(m, "format", "content_format")))); f.Valid() {
			rec.Format = f
		}
		if len(rec.Topics) == 0 {
			rec.Topics = []string{req.CurrentTopic}
		}
		if s, ok := asFloat(m["relevance_score"]); ok {
			rec.RelevanceScore = domain.Clamp01(s)
		}
		if s, ok := asFloat(m["quality_score"]); ok {
			rec.QualityScore = domain.Clamp01(s)
		}
		if req.Excludes(rec.ContentID) {
			continue
		}
		out = append(out, rec)
	}
	if len(out) > 0 {
		return out
	}
	return []domain.ContentRecommendation{{
		ContentID:       textFallbackSource(p) + "_1",
		Title:           "Educational Content",
		Description:     truncate(strings.TrimSpace(text), 200) + "...",
		Difficulty:      domain.Intermediate,
		Format:          defaultFormat(req),
		DurationMinutes: defaultContentMinutes,
		Topics:          []string{req.CurrentTopic},
		Source:          textFallbackSource(p),
		RelevanceScore:  0.5,
		QualityScore:    0.5,
		AIProvider:      p,
	}}
}

func defaultFormat(req domain.ContentRecommendationRequest) domain.ContentFormat {
	if len(req.PreferredFormats) > 0 && req.PreferredFormats[0].Valid() {
		return req.PreferredFormats[0]
	}
	return domain.FormatArticle
}

// parseMinutes reads 30, "30", "30 minutes", "1 hour" or "1.5 hours".
func parseMinutes(v any) int {
	n, unit, ok := numberAndUnit(v)
	if !ok || n <= 0 {
		return defaultContentMinutes
	}
	if strings.HasPrefix(unit, "h") {
		n *= 60
	}
	return int(math.Round(n))
}

// parseHours reads 5, "5 hours", "2 weeks" (at weekly hours) or "90 minutes".
func parseHours(v any, weekly int) int {
	n, unit, ok := numberAndUnit(v)
	if !ok || n <= 0 {
		return defaultObjectiveHours
	}
	switch {
	case strings.HasPrefix(unit, "week"):
		if weekly <= 0 {
			weekly = 10
		}
		n *= float64(weekly)
	case strings.HasPrefix(unit, "min"):
		n /= 60
	case strings.HasPrefix(unit, "day"):
		n *= 2
	}
	h := int(math.Round(n))
	if h < 1 {
		h = 1
	}
	return h
}

func numberAndUnit(v any) (float64, string, bool) {
	switch t := v.(type) {
	case float64:
		return t, "", true
	case string:
		fields := strings.Fields(strings.ToLower(t))
		if len(fields) == 0 {
			return 0, "", false
		}
		// "4-6 weeks" takes the lower bound.
		num, _, _ := strings.Cut(fields[0], "-")
		f, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, "", false
		}
		unit := ""
		if len(fields) > 1 {
			unit = fields[1]
		}
		return f, unit, true
	}
	return 0, "", false
}

func lastLevel(s string) (domain.DifficultyLevel, bool) {
	s = strings.ToLower(s)
	best, pos := domain.DifficultyLevel(""), -1
	for _, l := range domain.DifficultyLevels {
		if i := strings.LastIndex(s, string(l)); i > pos {
			best, pos = l, i
		}
	}
	return best, pos >= 0
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func asInt(v any) (int, bool) {
	f, ok := asFloat(v)
	if !ok {
		return 0, false
	}
	return int(math.Round(f)), true
}

// asStrings accepts a list of strings or a comma-separated string.
func asStrings(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []any:
		for _, e := range t {
			if s := asString(e); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, part := range strings.Split(t, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func firstValue(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := asString(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
