package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
	"github.com/yungbote/lusilearn-ai-service/internal/http/response"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
	"github.com/yungbote/lusilearn-ai-service/internal/recommend"
	"github.com/yungbote/lusilearn-ai-service/internal/services/orchestrator"
)

const (
	defaultRecommendations    = 10
	defaultMaxRecommendations = 20
)

type RecommendationHandlerDeps struct {
	Log                *logger.Logger
	Orchestrator       orchestrator.Orchestrator
	Engine             *recommend.Engine
	MaxRecommendations int
}

type RecommendationHandler struct {
	log     *logger.Logger
	orch    orchestrator.Orchestrator
	engine  *recommend.Engine
	maxRecs int
}

func NewRecommendationHandlerWithDeps(deps RecommendationHandlerDeps) *RecommendationHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	maxRecs := deps.MaxRecommendations
	if maxRecs <= 0 {
		maxRecs = defaultMaxRecommendations
	}
	return &RecommendationHandler{
		log:     log.With("handler", "RecommendationHandler"),
		orch:    deps.Orchestrator,
		engine:  deps.Engine,
		maxRecs: maxRecs,
	}
}

type RecommendationsResponse struct {
	UserID          string                         `json:"user_id"`
	Topic           string                         `json:"topic"`
	Recommendations []domain.ContentRecommendation `json:"recommendations"`
	TotalCount      int                            `json:"total_count"`
	GeneratedAt     time.Time                      `json:"generated_at"`
	Source          string                         `json:"source"`
}

func newRecommendationsResponse(req domain.ContentRecommendationRequest, items []domain.ContentRecommendation, source string) RecommendationsResponse {
	if items == nil {
		items = []domain.ContentRecommendation{}
	}
	return RecommendationsResponse{
		UserID:          req.UserID,
		Topic:           req.CurrentTopic,
		Recommendations: items,
		TotalCount:      len(items),
		GeneratedAt:     time.Now().UTC(),
		Source:          source,
	}
}

// POST /api/v1/recommendations/
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var req domain.ContentRecommendationRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	strategy, err := recommend.ParseStrategy(c.Query("strategy"), recommend.Hybrid)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	recs, err := h.orch.GetContentRecommendations(c.Request.Context(), req, "", strategy)
	if err != nil {
		h.log.Warn("Recommendations failed", "user_id", req.UserID, "error", err)
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, newRecommendationsResponse(req, recs.Items, recs.Source))
}

// POST /api/v1/recommendations/algorithmic
func (h *RecommendationHandler) Algorithmic(c *gin.Context) {
	var req domain.ContentRecommendationRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	strategy, err := recommend.ParseStrategy(c.Query("strategy"), recommend.Hybrid)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	maxN, err := queryInt(c, "max_recommendations", defaultRecommendations, 1, h.maxRecs)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	profile := domain.ProfileFromRecommendationRequest(req)
	items := h.engine.GetPersonalizedRecommendations(c.Request.Context(), req, &profile, strategy, maxN)
	source := orchestrator.SourceAlgorithmic
	if len(items) == 0 {
		items = h.engine.FallbackRecommendations(req)
		source = domain.SourceFallback
	}
	if len(items) > maxN {
		items = items[:maxN]
	}
	response.RespondOK(c, newRecommendationsResponse(req, items, source))
}

// POST /api/v1/recommendations/embeddings
func (h *RecommendationHandler) Embeddings(c *gin.Context) {
	var req domain.EmbeddingRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	res, err := h.orch.CreateEmbeddings(c.Request.Context(), req.Texts, req.Model, "")
	if err != nil {
		h.log.Warn("Embeddings failed", "texts", len(req.Texts), "error", err)
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/v1/recommendations/provider/:provider
func (h *RecommendationHandler) SetProvider(c *gin.Context) {
	p, err := h.orch.SetProvider(c.Param("provider"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"message":          fmt.Sprintf("AI provider switched to %s", p),
		"current_provider": p,
	})
}

// GET /api/v1/recommendations/provider
func (h *RecommendationHandler) CurrentProvider(c *gin.Context) {
	response.RespondOK(c, gin.H{"current_provider": h.orch.CurrentProvider()})
}

// GET /api/v1/recommendations/provider/status
func (h *RecommendationHandler) ProviderStatus(c *gin.Context) {
	response.RespondOK(c, h.orch.ProviderStatus(c.Request.Context()))
}

// POST /api/v1/recommendations/compare
func (h *RecommendationHandler) Compare(c *gin.Context) {
	var req domain.ContentRecommendationRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, h.orch.CompareRecommendations(c.Request.Context(), req))
}

// POST /api/v1/recommendations/interaction/update
func (h *RecommendationHandler) UpdateInteraction(c *gin.Context) {
	var req domain.InteractionUpdate
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	h.engine.UpdateUserInteraction(req.UserID, req.ContentID, req.InteractionScore)
	response.RespondOK(c, gin.H{
		"status":     "updated",
		"user_id":    req.UserID,
		"content_id": req.ContentID,
	})
}

// POST /api/v1/recommendations/success-rate/update
func (h *RecommendationHandler) UpdateSuccessRate(c *gin.Context) {
	var req domain.SuccessRateUpdate
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	h.engine.UpdatePeerSuccessRate(req.ContentID, req.SuccessRate)
	response.RespondOK(c, gin.H{
		"status":     "updated",
		"content_id": req.ContentID,
	})
}

// GET /api/v1/recommendations/analytics/:user_id
func (h *RecommendationHandler) Analytics(c *gin.Context) {
	days, err := timePeriod(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, h.engine.Analytics(c.Param("user_id"), days))
}

// GET /api/v1/recommendations/strategies
func (h *RecommendationHandler) Strategies(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"strategies": h.engine.Strategies(),
		"default":    recommend.Hybrid,
	})
}

// GET /api/v1/recommendations/engine/status
func (h *RecommendationHandler) EngineStatus(c *gin.Context) {
	response.RespondOK(c, h.engine.Status())
}
