package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/lusilearn-ai-service/internal/http/response"
	"github.com/yungbote/lusilearn-ai-service/internal/services/health"
)

type HealthHandler struct {
	monitor *health.Monitor
}

func NewHealthHandler(monitor *health.Monitor) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

// GET /health/
func (h *HealthHandler) Check(c *gin.Context) {
	response.RespondOK(c, h.monitor.Check(c.Request.Context()))
}

// GET /health/status
func (h *HealthHandler) Status(c *gin.Context) {
	response.RespondOK(c, h.monitor.Status())
}

// GET /health/metrics
func (h *HealthHandler) Metrics(c *gin.Context) {
	response.RespondOK(c, h.monitor.Metrics())
}
