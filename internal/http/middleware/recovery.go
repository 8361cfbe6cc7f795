package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lusilearn-ai-service/internal/http/response"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/apierr"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/ctxutil"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
)

// Recovery turns a handler panic into the internal error envelope.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if log != nil {
				fields := append([]interface{}{"panic", rec, "path", c.Request.URL.Path}, ctxutil.LogFields(c.Request.Context())...)
				log.Error("handler panic", fields...)
			}
			response.RespondError(c, apierr.Internal(fmt.Errorf("panic: %v", rec)))
		}()
		c.Next()
	}
}
