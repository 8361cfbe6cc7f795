package orchestrator

import (
	"context"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
	"github.com/yungbote/lusilearn-ai-service/internal/providers"
)

// GenerateLearningPath tries the chosen provider, then the other one, then the
// path algorithm. Provider output is re-sequenced so objectives always follow
// their prerequisites.
func (o *orchestrator) GenerateLearningPath(ctx context.Context, req domain.LearningPathRequest, override domain.ProviderName) (*domain.LearningPath, error) {
	chain := o.chain(override)
	attempts := make([]domain.ProviderAttempt, 0, len(chain))
	var lastErr error
	for i, p := range chain {
		res := p.GeneratePath(ctx, req)
		if res.Ok() && res.Value != nil {
			attempts = append(attempts, domain.ProviderAttempt{Provider: p.Name()})
			path := o.sequenceProviderPath(res.Value, req)
			path.AIProvider = p.Name()
			path.FallbackUsed = i > 0
			path.ProviderAttempts = attempts
			if i > 0 {
				o.observe(providers.OpLearningPath, "secondary_provider")
			}
			return path, nil
		}
		lastErr = res.Err
		attempts = append(attempts, domain.ProviderAttempt{Provider: p.Name(), Error: errString(res.Err)})
		o.log.Warn("Learning path provider failed", "provider", p.Name(), "user_id", req.UserID, "error", errString(res.Err))
	}

	if !o.cfg.EnableFallbacks {
		return nil, failure(chain[0].Name(), lastErr)
	}

	o.log.Info("Falling back to algorithmic learning path", "user_id", req.UserID, "subject", req.Subject)
	path, err := o.paths.GeneratePersonalizedPath(domain.ProfileFromLearningPathRequest(req), req.Subject, req.LearningGoals, req.TimeCommitment)
	if err != nil || path == nil {
		o.log.Error("Algorithmic learning path failed", "user_id", req.UserID, "error", errString(err))
		path = o.paths.CreateFallbackPath(req.EducationLevel, req.Subject, req.LearningGoals, req.TimeCommitment)
		o.observe(providers.OpLearningPath, "static_curriculum")
	} else {
		o.observe(providers.OpLearningPath, "algorithm")
	}
	path.UserID = req.UserID
	path.FallbackUsed = true
	path.ProviderAttempts = attempts
	return path, nil
}

func (o *orchestrator) sequenceProviderPath(path *domain.LearningPath, req domain.LearningPathRequest) *domain.LearningPath {
	out := *path
	seq := o.paths.Sequence(path.Objectives, req.Prerequisites)
	out.Objectives = seq.Objectives
	out.Warnings = append(append([]domain.SequencingWarning(nil), path.Warnings...), seq.Warnings...)
	if out.TotalEstimatedHours <= 0 {
		out.TotalEstimatedHours = domain.TotalHours(out.Objectives)
	}
	if out.UserID == "" {
		out.UserID = req.UserID
	}
	return &out
}

// CompareLearningPaths calls each provider directly, without fallbacks.
func (o *orchestrator) CompareLearningPaths(ctx context.Context, req domain.LearningPathRequest) PathComparison {
	out := PathComparison{
		Request:   req,
		Responses: map[domain.ProviderName]any{},
	}
	results := o.bothProviders(ctx, func(ctx context.Context, p providers.Provider) any {
		res := p.GeneratePath(ctx, req)
		if !res.Ok() {
			return res.Err
		}
		return res.Value
	})
	counts := map[domain.ProviderName]int{}
	ok := map[domain.ProviderName]bool{}
	for name, v := range results {
		switch t := v.(type) {
		case *domain.LearningPath:
			out.Responses[name] = t
			counts[name] = len(t.Objectives)
			ok[name] = true
		case error:
			out.Responses[name] = map[string]string{"error": t.Error()}
		}
	}
	if ok[domain.ProviderOpenAI] && ok[domain.ProviderGemini] {
		out.Comparison = map[string]any{
			"openai_objectives_count": counts[domain.ProviderOpenAI],
			"gemini_objectives_count": counts[domain.ProviderGemini],
			"both_successful":         true,
		}
	} else {
		out.Comparison = map[string]any{
			"both_successful": false,
			"openai_success":  ok[domain.ProviderOpenAI],
			"gemini_success":  ok[domain.ProviderGemini],
		}
	}
	return out
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
