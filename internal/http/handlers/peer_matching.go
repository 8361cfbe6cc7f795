package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
	"github.com/yungbote/lusilearn-ai-service/internal/http/response"
	"github.com/yungbote/lusilearn-ai-service/internal/peermatch"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
)

type PeerMatchingHandlerDeps struct {
	Log        *logger.Logger
	Engine     *peermatch.Engine
	MaxMatches int
}

type PeerMatchingHandler struct {
	log        *logger.Logger
	engine     *peermatch.Engine
	maxMatches int
}

func NewPeerMatchingHandlerWithDeps(deps PeerMatchingHandlerDeps) *PeerMatchingHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	maxMatches := deps.MaxMatches
	if maxMatches <= 0 {
		maxMatches = peermatch.DefaultMaxMatches
	}
	return &PeerMatchingHandler{
		log:        log.With("handler", "PeerMatchingHandler"),
		engine:     deps.Engine,
		maxMatches: maxMatches,
	}
}

type PeerMatchesResponse struct {
	UserID       string             `json:"user_id"`
	Matches      []domain.PeerMatch `json:"matches"`
	TotalMatches int                `json:"total_matches"`
	Strategy     peermatch.Strategy `json:"strategy"`
	GeneratedAt  time.Time          `json:"generated_at"`
	Source       string             `json:"source"`
}

// POST /api/v1/peer-matching/
func (h *PeerMatchingHandler) FindMatches(c *gin.Context) {
	var req domain.PeerMatchingRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	strategy, err := peermatch.ParseStrategy(c.Query("strategy"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	maxMatches, err := queryInt(c, "max_matches", h.maxMatches, 1, h.maxMatches)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	matches := h.engine.FindPeerMatches(c.Request.Context(), req, strategy, maxMatches)
	if matches == nil {
		matches = []domain.PeerMatch{}
	}
	response.RespondOK(c, PeerMatchesResponse{
		UserID:       req.UserID,
		Matches:      matches,
		TotalMatches: len(matches),
		Strategy:     strategy,
		GeneratedAt:  time.Now().UTC(),
		Source:       "algorithmic",
	})
}

// POST /api/v1/peer-matching/feedback
func (h *PeerMatchingHandler) Feedback(c *gin.Context) {
	var fb domain.MatchFeedback
	if err := bindJSON(c, &fb); err != nil {
		response.RespondError(c, err)
		return
	}
	h.engine.UpdateMatchFeedback(fb)
	response.RespondOK(c, gin.H{
		"status":  "recorded",
		"user_id": fb.UserID,
		"peer_id": fb.PeerID,
	})
}

// GET /api/v1/peer-matching/analytics/:user_id
func (h *PeerMatchingHandler) Analytics(c *gin.Context) {
	days, err := timePeriod(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, h.engine.Analytics(c.Param("user_id"), days))
}

// GET /api/v1/peer-matching/strategies
func (h *PeerMatchingHandler) Strategies(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"strategies": h.engine.Strategies(),
		"default":    peermatch.Comprehensive,
	})
}

// GET /api/v1/peer-matching/engine/status
func (h *PeerMatchingHandler) EngineStatus(c *gin.Context) {
	response.RespondOK(c, h.engine.Status())
}
