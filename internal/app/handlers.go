package app

import (
	"github.com/yungbote/lusilearn-ai-service/internal/config"
	httpH "github.com/yungbote/lusilearn-ai-service/internal/http/handlers"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
)

type Handlers struct {
	Service        *httpH.ServiceHandler
	LearningPath   *httpH.LearningPathHandler
	Recommendation *httpH.RecommendationHandler
	PeerMatching   *httpH.PeerMatchingHandler
	Health         *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, cfg config.Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Service: httpH.NewServiceHandler(serviceDisplayName, cfg.Version, cfg.Environment),
		LearningPath: httpH.NewLearningPathHandlerWithDeps(httpH.LearningPathHandlerDeps{
			Log:          log,
			Orchestrator: services.Orchestrator,
			Paths:        services.Paths,
		}),
		Recommendation: httpH.NewRecommendationHandlerWithDeps(httpH.RecommendationHandlerDeps{
			Log:                log,
			Orchestrator:       services.Orchestrator,
			Engine:             services.Engine,
			MaxRecommendations: cfg.Limits.MaxContentRecommendations,
		}),
		PeerMatching: httpH.NewPeerMatchingHandlerWithDeps(httpH.PeerMatchingHandlerDeps{
			Log:        log,
			Engine:     services.Peers,
			MaxMatches: cfg.Limits.MaxPeerMatches,
		}),
		Health: httpH.NewHealthHandler(services.Health),
	}
}
