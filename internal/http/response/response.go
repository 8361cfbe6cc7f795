package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lusilearn-ai-service/internal/platform/apierr"
)

type ErrorEnvelope struct {
	Error             string            `json:"error"`
	Message           string            `json:"message"`
	Code              string            `json:"error_code"`
	Details           map[string]string `json:"details,omitempty"`
	RetryAfter        int               `json:"retry_after,omitempty"`
	FallbackAvailable *bool             `json:"fallback_available,omitempty"`
}

// Envelope renders err the way RespondError writes it.
func Envelope(err error) (int, ErrorEnvelope) {
	e := apierr.As(err)
	if e == nil {
		e = apierr.Internal(nil)
	}
	status := e.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	msg := "unknown error"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	env := ErrorEnvelope{
		Error:   e.Label(),
		Message: msg,
		Code:    e.Code,
		Details: e.Details,
	}
	if env.Code == "" {
		env.Code = apierr.CodeInternal
	}
	switch e.Code {
	case apierr.CodeRateLimit:
		env.RetryAfter = e.RetryAfter
		if env.RetryAfter <= 0 {
			env.RetryAfter = apierr.DefaultRetryAfter
		}
	case apierr.CodeProvider:
		yes := true
		env.FallbackAvailable = &yes
	}
	return status, env
}

func RespondError(c *gin.Context, err error) {
	status, env := Envelope(err)
	if env.RetryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(env.RetryAfter))
	}
	c.AbortWithStatusJSON(status, env)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
