package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lusilearn-ai-service/internal/platform/apierr"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/ctxutil"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
)

// quietRoutes are polled by probes and scrapers; successful hits log at debug.
var quietRoutes = map[string]bool{
	"/metrics":       true,
	"/health/":       true,
	"/health/status": true,
}

// RequestLogger writes one line per request once the handler chain returns.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		kv := append([]interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"bytes", c.Writer.Size(),
		}, ctxutil.LogFields(c.Request.Context())...)
		if last := c.Errors.Last(); last != nil {
			kv = append(kv, "error", last.Err.Error())
			if e := apierr.As(last.Err); e != nil {
				kv = append(kv, "error_code", e.Code)
			}
		}

		switch {
		case status >= 500:
			log.Error("Request failed", kv...)
		case status >= 400:
			log.Warn("Request rejected", kv...)
		case quietRoutes[route]:
			log.Debug("Request served", kv...)
		default:
			log.Info("Request served", kv...)
		}
	}
}
