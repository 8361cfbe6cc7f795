package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/lusilearn-ai-service/internal/http/handlers"
	httpMW "github.com/yungbote/lusilearn-ai-service/internal/http/middleware"
	"github.com/yungbote/lusilearn-ai-service/internal/http/response"
	"github.com/yungbote/lusilearn-ai-service/internal/observability"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/apierr"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	AllowedOrigins []string
	// TracingService names the otelgin spans. Empty disables route tracing.
	TracingService string

	ServiceHandler        *httpH.ServiceHandler
	LearningPathHandler   *httpH.LearningPathHandler
	RecommendationHandler *httpH.RecommendationHandler
	PeerMatchingHandler   *httpH.PeerMatchingHandler
	HealthHandler         *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Recovery(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))

	if cfg.ServiceHandler != nil {
		r.GET("/", cfg.ServiceHandler.Root)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Health
	if cfg.HealthHandler != nil {
		health := r.Group("/health")
		health.GET("/", cfg.HealthHandler.Check)
		health.GET("/status", cfg.HealthHandler.Status)
		health.GET("/metrics", cfg.HealthHandler.Metrics)
	}

	api := r.Group("/api/v1")

	// Learning paths
	if h := cfg.LearningPathHandler; h != nil {
		paths := api.Group("/learning-paths")
		paths.POST("/", h.Generate)
		paths.POST("/algorithmic", h.Algorithmic)
		paths.POST("/adapt", h.Adapt)
		paths.POST("/sequence", h.Sequence)
		paths.POST("/fallback", h.Fallback)
		paths.POST("/provider/:provider", h.GenerateWithProvider)
		paths.POST("/compare", h.Compare)
	}

	// Recommendations
	if h := cfg.RecommendationHandler; h != nil {
		recs := api.Group("/recommendations")
		recs.POST("/", h.Recommend)
		recs.POST("/algorithmic", h.Algorithmic)
		recs.POST("/embeddings", h.Embeddings)
		recs.POST("/provider/:provider", h.SetProvider)
		recs.GET("/provider", h.CurrentProvider)
		recs.GET("/provider/status", h.ProviderStatus)
		recs.POST("/compare", h.Compare)
		recs.POST("/interaction/update", h.UpdateInteraction)
		recs.POST("/success-rate/update", h.UpdateSuccessRate)
		recs.GET("/analytics/:user_id", h.Analytics)
		recs.GET("/strategies", h.Strategies)
		recs.GET("/engine/status", h.EngineStatus)
	}

	// Peer matching
	if h := cfg.PeerMatchingHandler; h != nil {
		peers := api.Group("/peer-matching")
		peers.POST("/", h.FindMatches)
		peers.POST("/feedback", h.Feedback)
		peers.GET("/analytics/:user_id", h.Analytics)
		peers.GET("/strategies", h.Strategies)
		peers.GET("/engine/status", h.EngineStatus)
	}

	r.NoRoute(func(c *gin.Context) {
		response.RespondError(c, apierr.NotFound(fmt.Errorf("no route for %s %s", c.Request.Method, c.Request.URL.Path)))
	})
	return r
}
