package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	json "github.com/goccy/go-json"

	"github.com/yungbote/lusilearn-ai-service/internal/http/response"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/apierr"
)

// RateLimitByIP wraps next with a per-client-IP limit of perMinute requests. A non-positive limit disables it.
func RateLimitByIP(perMinute int, next http.Handler) http.Handler {
	if perMinute <= 0 {
		return next
	}
	limiter := httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(writeRateLimited),
	)
	return limiter(next)
}

func writeRateLimited(w http.ResponseWriter, r *http.Request) {
	status, env := response.Envelope(apierr.RateLimited("api", apierr.DefaultRetryAfter))
	body, _ := json.Marshal(env)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
