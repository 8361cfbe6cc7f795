package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/cache"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
)

// CandidateSource contributes stored content near the topic vector.
type CandidateSource interface {
	Candidates(ctx context.Context, req domain.ContentRecommendationRequest, topicVector []float32) ([]domain.ContentItem, error)
}

type Options struct {
	// Embedder defaults to the hash embedder when nil.
	Embedder Embedder
	Source   CandidateSource
	// VectorCache holds content vectors between requests.
	VectorCache *cache.Local
	VectorTTL   time.Duration
}

// Engine scores synthesized candidate content against a learner request.
type Engine struct {
	log      *logger.Logger
	embedder Embedder
	hash     *HashEmbedder
	source   CandidateSource
	vectors  *cache.Local
	ttl      time.Duration

	mu           sync.RWMutex
	interactions map[string]map[string]float64
	successRates map[string]float64
}

func New(log *logger.Logger, opts Options) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	hash := NewHashEmbedder()
	emb := opts.Embedder
	if emb == nil {
		emb = hash
	}
	vc := opts.VectorCache
	if vc == nil {
		vc = cache.NewLocal(time.Hour, 10*time.Minute, nil)
	}
	ttl := opts.VectorTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	e := &Engine{
		log:          log.With("component", "ContentRecommendationEngine"),
		embedder:     emb,
		hash:         hash,
		source:       opts.Source,
		vectors:      vc,
		ttl:          ttl,
		interactions: seedInteractions(),
		successRates: seedSuccessRates(),
	}
	e.log.Info("Content recommendation engine initialized", "embedder", emb.Name(), "candidate_source", opts.Source != nil)
	return e
}

// request carries per-call embedding state; the embedder may be swapped for
// the hash embedder mid-request if the configured one fails.
type request struct {
	req      domain.ContentRecommendationRequest
	profile  *domain.UserProfile
	embedder Embedder
	topicVec []float32
}

// GetPersonalizedRecommendations returns at most maxN recommendations ordered
// by final score. It never fails; internal faults yield the canned fallback.
func (e *Engine) GetPersonalizedRecommendations(ctx context.Context, req domain.ContentRecommendationRequest, profile *domain.UserProfile, strategy Strategy, maxN int) (out []domain.ContentRecommendation) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("Recommendation generation failed", "user_id", req.UserID, "error", r)
			out = e.FallbackRecommendations(req)
		}
	}()
	if maxN <= 0 {
		maxN = 10
	}
	if strategy == "" {
		strategy = Hybrid
	}
	e.log.Info("Generating recommendations", "user_id", req.UserID, "strategy", strategy)

	r := &request{req: req, profile: profile, embedder: e.embedder}
	e.embedTopic(ctx, r)

	candidates := e.candidateContent(ctx, r)
	if len(candidates) == 0 {
		e.log.Warn("No candidate content found", "topic", req.CurrentTopic)
		return e.FallbackRecommendations(req)
	}

	var scored []domain.ContentRecommendation
	switch strategy {
	case VectorSimilarity:
		scored = e.vectorSimilarity(ctx, r, candidates)
	case CollaborativeFiltering:
		scored = e.collaborative(r, candidates)
	case LearningStyleBased:
		scored = e.learningStyle(r, candidates)
	default:
		scored = e.hybrid(ctx, r, candidates)
	}

	final := applyFinalFilters(scored, req.EducationLevel)
	if len(final) > maxN {
		final = final[:maxN]
	}
	e.log.Info("Generated recommendations", "user_id", req.UserID, "count", len(final))
	return final
}

func (e *Engine) embedTopic(ctx context.Context, r *request) {
	vecs, err := r.embedder.Embed(ctx, []string{r.req.CurrentTopic})
	if err != nil || len(vecs) != 1 {
		e.log.Warn("Topic embedding failed, using hash embedder", "embedder", r.embedder.Name(), "error", err)
		r.embedder = e.hash
		vecs, _ = e.hash.Embed(ctx, []string{r.req.CurrentTopic})
	}
	r.topicVec = vecs[0]
}

func (e *Engine) candidateContent(ctx context.Context, r *request) []domain.ContentItem {
	req := r.req
	topic := strings.ToLower(req.CurrentTopic)
	topics := append([]string{topic}, relatedTopics(req.CurrentTopic)...)
	if len(topics) > 5 {
		topics = topics[:5]
	}
	maxDur := req.MaxDurationOrDefault()

	var out []domain.ContentItem
	seen := map[string]bool{}
	for i, t := range topics {
		for j := 0; j < 3; j++ {
			id := fmt.Sprintf("content_%s_%d_%d", t, i, j)
			format := domain.FormatVideo
			if n := len(req.PreferredFormats); n > 0 {
				format = req.PreferredFormats[j%n]
			}
			item := domain.ContentItem{
				ContentID:       id,
				Title:           fmt.Sprintf("%s - Part %d", titleCase(t), j+1),
				Description:     fmt.Sprintf("Learn about %s with this comprehensive guide", t),
				Subject:         req.CurrentTopic,
				Topics:          []string{t},
				Difficulty:      req.SkillLevel,
				Format:          format,
				DurationMinutes: min(maxDur, 30+j*15),
				Source:          "sample_content",
				URL:             "https://example.com/content/" + id,
				Metadata: map[string]any{
					"education_level":  string(req.EducationLevel),
					"learning_context": string(req.LearningContext),
				},
			}
			if keepCandidate(item, req, maxDur) {
				out = append(out, item)
				seen[id] = true
			}
		}
	}

	// Stored content only makes sense against real embeddings.
	if e.source != nil && r.embedder != Embedder(e.hash) {
		stored, err := e.source.Candidates(ctx, req, r.topicVec)
		if err != nil {
			e.log.Warn("Candidate source unavailable", "topic", req.CurrentTopic, "error", err)
		}
		for _, item := range stored {
			if !seen[item.ContentID] && keepCandidate(item, req, maxDur) {
				out = append(out, item)
				seen[item.ContentID] = true
			}
		}
	}
	return out
}

func keepCandidate(item domain.ContentItem, req domain.ContentRecommendationRequest, maxDur int) bool {
	return item.DurationMinutes <= maxDur && !req.Excludes(item.ContentID)
}

func relatedTopics(topic string) []string {
	t := strings.ToLower(topic)
	for _, rel := range topicRelations {
		if rel.key == t {
			return append([]string(nil), rel.related...)
		}
	}
	for _, rel := range topicRelations {
		if strings.Contains(rel.key, t) || strings.Contains(t, rel.key) {
			return append([]string(nil), rel.related...)
		}
		for _, r := range rel.related {
			if r == t {
				out := []string{rel.key}
				for _, o := range rel.related {
					if o != t {
						out = append(out, o)
					}
				}
				return out
			}
		}
	}
	return nil
}

// -------------------- strategies --------------------

func (e *Engine) vectorSimilarity(ctx context.Context, r *request, items []domain.ContentItem) []domain.ContentRecommendation {
	vecs := e.contentVectors(ctx, r, items)
	query := queryVector(r.topicVec, r.req)
	out := make([]domain.ContentRecommendation, 0, len(items))
	for i, item := range items {
		out = append(out, domain.RecommendationFromItem(item, CosineSimilarity(query, vecs[i]), qualityScore(item)))
	}
	sortByRelevance(out)
	return out
}

func queryVector(topic []float32, req domain.ContentRecommendationRequest) []float32 {
	mult, ok := skillMultiplier[req.SkillLevel]
	if !ok {
		mult = 0.5
	}
	off, ok := contextOffset[req.LearningContext]
	if !ok {
		off = 0.1
	}
	out := make([]float32, len(topic))
	for i, v := range topic {
		out[i] = v*mult + off
	}
	return out
}

// contentVectors embeds items, reusing cached vectors. Provider failure moves
// the whole request onto the hash embedder so dimensions stay consistent.
func (e *Engine) contentVectors(ctx context.Context, r *request, items []domain.ContentItem) [][]float32 {
	out := make([][]float32, len(items))
	var missing []int
	var texts []string
	for i, item := range items {
		var v []float32
		if ok, _ := e.vectors.Get(ctx, e.vectorKey(r.embedder, item.ContentID), &v); ok && len(v) > 0 {
			out[i] = v
			continue
		}
		missing = append(missing, i)
		texts = append(texts, e.contentText(r.embedder, item))
	}
	if len(missing) == 0 {
		return out
	}

	vecs, err := r.embedder.Embed(ctx, texts)
	if err != nil || len(vecs) != len(texts) {
		if r.embedder == Embedder(e.hash) {
			panic(fmt.Sprintf("hash embedder failed: %v", err))
		}
		e.log.Warn("Content embedding failed, using hash embedder", "embedder", r.embedder.Name(), "error", err)
		r.embedder = e.hash
		e.embedTopic(ctx, r)
		return e.contentVectors(ctx, r, items)
	}
	for k, idx := range missing {
		out[idx] = vecs[k]
		_ = e.vectors.Set(ctx, e.vectorKey(r.embedder, items[idx].ContentID), vecs[k], e.ttl)
	}
	return out
}

func (e *Engine) vectorKey(emb Embedder, contentID string) string {
	return emb.Name() + ":" + contentID
}

func (e *Engine) contentText(emb Embedder, item domain.ContentItem) string {
	if emb == Embedder(e.hash) {
		return item.ContentID
	}
	return strings.TrimSpace(item.Title + " " + strings.Join(item.Topics, " "))
}

func (e *Engine) collaborative(r *request, items []domain.ContentItem) []domain.ContentRecommendation {
	similar := similarUsers(r.req.UserID, r.profile)

	e.mu.RLock()
	out := make([]domain.ContentRecommendation, 0, len(items))
	for _, item := range items {
		cf := e.collaborativeScoreLocked(item.ContentID, similar)
		peer, ok := e.successRates[item.ContentID]
		if !ok {
			peer = 0.5
		}
		out = append(out, domain.RecommendationFromItem(item, cf*0.7+peer*0.3, qualityScore(item)))
	}
	e.mu.RUnlock()

	sortByRelevance(out)
	return out
}

func similarUsers(userID string, profile *domain.UserProfile) []string {
	if profile == nil {
		return []string{"user_0", "user_1", "user_2"}
	}
	out := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		out = append(out, fmt.Sprintf("similar_user_%s_%d", userID, i))
	}
	return out
}

func (e *Engine) collaborativeScoreLocked(contentID string, users []string) float64 {
	total, n := 0.0, 0
	for _, u := range users {
		if s, ok := e.interactions[u][contentID]; ok {
			total += s
			n++
		}
	}
	if n == 0 {
		return 0.5
	}
	return domain.Clamp01(total / float64(n))
}

func (e *Engine) learningStyle(r *request, items []domain.ContentItem) []domain.ContentRecommendation {
	style := domain.StyleVisual
	if r.profile != nil {
		style = r.profile.Style()
	}
	out := make([]domain.ContentRecommendation, 0, len(items))
	for _, item := range items {
		rel := styleScore(style, item.Format)*0.6 + formatPreferenceScore(item.Format, r.req.PreferredFormats)*0.4
		out = append(out, domain.RecommendationFromItem(item, rel, qualityScore(item)))
	}
	sortByRelevance(out)
	return out
}

func styleScore(style domain.LearningStyle, format domain.ContentFormat) float64 {
	score, ok := stylePreferences[style][format]
	if !ok {
		score = 0.5
	}
	if sig, ok := signatureFormat[style]; ok && sig == format {
		score *= 1.2
	}
	return min(1.0, score)
}

func formatPreferenceScore(format domain.ContentFormat, preferred []domain.ContentFormat) float64 {
	if len(preferred) == 0 {
		return 0.5
	}
	for i, p := range preferred {
		if p == format {
			return 1.0 - float64(i)*0.1
		}
	}
	return 0.3
}

func (e *Engine) hybrid(ctx context.Context, r *request, items []domain.ContentItem) []domain.ContentRecommendation {
	combined := make(map[string]float64, len(items))
	add := func(recs []domain.ContentRecommendation, w float64) {
		for _, rec := range recs {
			combined[rec.ContentID] += rec.RelevanceScore * w
		}
	}
	add(e.vectorSimilarity(ctx, r, items), 0.4)
	add(e.collaborative(r, items), 0.35)
	add(e.learningStyle(r, items), 0.25)

	out := make([]domain.ContentRecommendation, 0, len(items))
	for _, item := range items {
		out = append(out, domain.RecommendationFromItem(item, combined[item.ContentID], qualityScore(item)))
	}
	sortByRelevance(out)
	return out
}

// -------------------- post-processing --------------------

func qualityScore(item domain.ContentItem) float64 {
	q, ok := sourceQuality[item.Source]
	if !ok {
		q = 0.5
	}
	if v, _ := item.Metadata["verified"].(bool); v {
		q += 0.1
	}
	if v, _ := item.Metadata["expert_reviewed"].(bool); v {
		q += 0.1
	}
	return min(1.0, q)
}

func applyFinalFilters(recs []domain.ContentRecommendation, level domain.EducationLevel) []domain.ContentRecommendation {
	kept := make([]domain.ContentRecommendation, 0, len(recs))
	for _, rec := range recs {
		if level == domain.EducationK12 && rec.QualityScore < 0.6 {
			continue
		}
		if rec.QualityScore < 0.3 || rec.RelevanceScore < 0.2 {
			continue
		}
		kept = append(kept, rec)
	}
	kept = diversityFilter(kept)
	for i := range kept {
		kept[i].RelevanceScore = kept[i].RelevanceScore*0.7 + kept[i].QualityScore*0.3
	}
	sortByRelevance(kept)
	return kept
}

// diversityFilter keeps the first three items, then only items that add a new
// format without repeating two or more topics, stopping at ten.
func diversityFilter(recs []domain.ContentRecommendation) []domain.ContentRecommendation {
	if len(recs) <= 5 {
		return recs
	}
	usedTopics := map[string]bool{}
	usedFormats := map[domain.ContentFormat]bool{}
	out := make([]domain.ContentRecommendation, 0, 10)
	for _, rec := range recs {
		overlap := 0
		for _, t := range uniq(rec.Topics) {
			if usedTopics[t] {
				overlap++
			}
		}
		if len(out) < 3 || (overlap < 2 && !usedFormats[rec.Format]) {
			out = append(out, rec)
			for _, t := range rec.Topics {
				usedTopics[t] = true
			}
			usedFormats[rec.Format] = true
		}
		if len(out) >= 10 {
			break
		}
	}
	return out
}

func sortByRelevance(recs []domain.ContentRecommendation) {
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].RelevanceScore > recs[j].RelevanceScore })
}

// FallbackRecommendations builds five introductory items straight from the topic.
func (e *Engine) FallbackRecommendations(req domain.ContentRecommendationRequest) []domain.ContentRecommendation {
	e.log.Info("Using fallback recommendations", "topic", req.CurrentTopic)
	format := domain.FormatVideo
	if len(req.PreferredFormats) > 0 {
		format = req.PreferredFormats[0]
	}
	out := make([]domain.ContentRecommendation, 0, 5)
	for i := 0; i < 5; i++ {
		out = append(out, domain.ContentRecommendation{
			ContentID:       fmt.Sprintf("fallback_%s_%d", req.CurrentTopic, i),
			Title:           fmt.Sprintf("%s - Introduction %d", req.CurrentTopic, i+1),
			Description:     "Learn the basics of " + req.CurrentTopic,
			Difficulty:      req.SkillLevel,
			Format:          format,
			DurationMinutes: min(req.MaxDurationOrDefault(), 30),
			Topics:          []string{strings.ToLower(req.CurrentTopic)},
			Source:          domain.SourceFallback,
			RelevanceScore:  0.5,
			QualityScore:    0.6,
		})
	}
	return out
}

func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

func uniq(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
