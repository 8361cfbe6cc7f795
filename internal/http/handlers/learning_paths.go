package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
	"github.com/yungbote/lusilearn-ai-service/internal/http/response"
	"github.com/yungbote/lusilearn-ai-service/internal/learning/pathalgo"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/apierr"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
	"github.com/yungbote/lusilearn-ai-service/internal/services/orchestrator"
)

// defaultFallbackHours applies when a fallback request omits time_commitment.
const defaultFallbackHours = 10

type LearningPathHandlerDeps struct {
	Log          *logger.Logger
	Orchestrator orchestrator.Orchestrator
	Paths        *pathalgo.Algorithm
}

type LearningPathHandler struct {
	log   *logger.Logger
	orch  orchestrator.Orchestrator
	paths *pathalgo.Algorithm
}

func NewLearningPathHandlerWithDeps(deps LearningPathHandlerDeps) *LearningPathHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &LearningPathHandler{
		log:   log.With("handler", "LearningPathHandler"),
		orch:  deps.Orchestrator,
		paths: deps.Paths,
	}
}

// LearningPathResponse is the flattened path returned by the provider-backed routes.
type LearningPathResponse struct {
	PathID                string                     `json:"path_id"`
	UserID                string                     `json:"user_id"`
	Subject               string                     `json:"subject"`
	Objectives            []domain.LearningObjective `json:"objectives"`
	TotalEstimatedHours   int                        `json:"total_estimated_hours"`
	DifficultyProgression string                     `json:"difficulty_progression"`
	Milestones            []domain.Milestone         `json:"milestones"`
	Warnings              []domain.SequencingWarning `json:"warnings,omitempty"`
	CreatedAt             time.Time                  `json:"created_at"`
	Source                string                     `json:"source"`
	AIProvider            domain.ProviderName        `json:"ai_provider,omitempty"`
	FallbackUsed          bool                       `json:"fallback_used"`
	ProviderAttempts      []domain.ProviderAttempt   `json:"provider_attempts,omitempty"`
}

func NewLearningPathResponse(p *domain.LearningPath) LearningPathResponse {
	return LearningPathResponse{
		PathID:                p.PathID,
		UserID:                p.UserID,
		Subject:               p.Subject,
		Objectives:            p.Objectives,
		TotalEstimatedHours:   p.TotalEstimatedHours,
		DifficultyProgression: p.DifficultyProgression.Describe(),
		Milestones:            p.Milestones,
		Warnings:              p.Warnings,
		CreatedAt:             p.CreatedAt,
		Source:                p.Source,
		AIProvider:            p.AIProvider,
		FallbackUsed:          p.FallbackUsed,
		ProviderAttempts:      p.ProviderAttempts,
	}
}

// POST /api/v1/learning-paths/
func (h *LearningPathHandler) Generate(c *gin.Context) {
	h.generate(c, "")
}

// POST /api/v1/learning-paths/provider/:provider
func (h *LearningPathHandler) GenerateWithProvider(c *gin.Context) {
	p, err := domain.ParseProvider(c.Param("provider"))
	if err != nil {
		response.RespondError(c, apierr.Configuration(err))
		return
	}
	h.generate(c, p)
}

func (h *LearningPathHandler) generate(c *gin.Context, override domain.ProviderName) {
	var req domain.LearningPathRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	path, err := h.orch.GenerateLearningPath(c.Request.Context(), req, override)
	if err != nil {
		h.log.Warn("Learning path generation failed", "user_id", req.UserID, "provider", override, "error", err)
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, NewLearningPathResponse(path))
}

// POST /api/v1/learning-paths/algorithmic
func (h *LearningPathHandler) Algorithmic(c *gin.Context) {
	var req domain.LearningPathRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	profile := domain.ProfileFromLearningPathRequest(req)
	path, err := h.paths.GeneratePersonalizedPath(profile, req.Subject, req.LearningGoals, req.TimeCommitment)
	if err != nil {
		h.log.Error("Algorithmic path generation failed", "user_id", req.UserID, "error", err)
		response.RespondError(c, apierr.Internal(err))
		return
	}
	response.RespondOK(c, path)
}

// POST /api/v1/learning-paths/adapt
func (h *LearningPathHandler) Adapt(c *gin.Context) {
	var req domain.AdaptPathRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	if req.CurrentPath.PathID == "" {
		response.RespondError(c, apierr.Validation(errors.New("current_path.path_id is required"), map[string]string{"current_path.path_id": "required"}))
		return
	}
	adapted, err := h.paths.AdaptPathBasedOnPerformance(&req.CurrentPath, req.PerformanceData, req.UserProfile)
	if err != nil {
		response.RespondError(c, apierr.Validation(err, nil))
		return
	}
	response.RespondOK(c, gin.H{
		"adapted_path":       adapted,
		"adaptation_summary": pathalgo.Summarize(adapted),
	})
}

// POST /api/v1/learning-paths/sequence
func (h *LearningPathHandler) Sequence(c *gin.Context) {
	var req domain.SequenceRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	res := h.paths.Sequence(req.Objectives, req.CompletedObjectives)
	warnings := res.Warnings
	if warnings == nil {
		warnings = []domain.SequencingWarning{}
	}
	response.RespondOK(c, gin.H{
		"sequenced_objectives": res.Objectives,
		"total_objectives":     len(res.Objectives),
		"warnings":             warnings,
	})
}

// POST /api/v1/learning-paths/fallback
func (h *LearningPathHandler) Fallback(c *gin.Context) {
	var req domain.FallbackPathRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	hours := req.TimeCommitment
	if hours <= 0 {
		hours = defaultFallbackHours
	}
	response.RespondOK(c, h.paths.CreateFallbackPath(req.EducationLevel, req.Subject, req.LearningGoals, hours))
}

// POST /api/v1/learning-paths/compare
func (h *LearningPathHandler) Compare(c *gin.Context) {
	var req domain.LearningPathRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, h.orch.CompareLearningPaths(c.Request.Context(), req))
}
