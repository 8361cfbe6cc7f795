package app

import (
	"github.com/yungbote/lusilearn-ai-service/internal/config"
	apphttp "github.com/yungbote/lusilearn-ai-service/internal/http"
	"github.com/yungbote/lusilearn-ai-service/internal/observability"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg config.Config, metrics *observability.Metrics, h Handlers) *apphttp.Server {
	log.Info("Wiring HTTP server...")
	rc := apphttp.RouterConfig{
		Log:                   log,
		Metrics:               metrics,
		AllowedOrigins:        cfg.API.AllowedOrigins,
		ServiceHandler:        h.Service,
		LearningPathHandler:   h.LearningPath,
		RecommendationHandler: h.Recommendation,
		PeerMatchingHandler:   h.PeerMatching,
		HealthHandler:         h.Health,
	}
	if cfg.Telemetry.OTelEnabled {
		rc.TracingService = cfg.ServiceName
	}
	return apphttp.NewServer(rc, cfg.API.RateLimitPerMinute)
}
