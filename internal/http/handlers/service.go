package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lusilearn-ai-service/internal/http/response"
)

type ServiceHandler struct {
	name        string
	version     string
	environment string
}

func NewServiceHandler(name, version, environment string) *ServiceHandler {
	return &ServiceHandler{name: name, version: version, environment: environment}
}

// GET /
func (h *ServiceHandler) Root(c *gin.Context) {
	docs := "/docs"
	if strings.EqualFold(h.environment, "production") {
		docs = "disabled"
	}
	response.RespondOK(c, gin.H{
		"service": h.name,
		"version": h.version,
		"status":  "running",
		"docs":    docs,
	})
}
