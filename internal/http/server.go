package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	httpMW "github.com/yungbote/lusilearn-ai-service/internal/http/middleware"
)

type Server struct {
	Engine  *gin.Engine
	Handler http.Handler

	srv *http.Server
}

// NewServer builds the router and, when rateLimitPerMinute is positive, a per-IP limiter in front of it.
func NewServer(cfg RouterConfig, rateLimitPerMinute int) *Server {
	engine := NewRouter(cfg)
	handler := httpMW.RateLimitByIP(rateLimitPerMinute, engine)
	return &Server{
		Engine:  engine,
		Handler: handler,
		srv: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves on address until Shutdown is called.
func (s *Server) Run(address string) error {
	s.srv.Addr = address
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
