package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/apierr"
)

const (
	defaultTimePeriodDays = 30
	maxTimePeriodDays     = 365
)

// bindJSON decodes the request body into dst and validates it.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apierr.Validation(fmt.Errorf("invalid request body: %w", err), nil)
	}
	return domain.Validate(dst)
}

// queryInt reads an integer query parameter clamped to [lo, hi].
func queryInt(c *gin.Context, name string, def, lo, hi int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return clamp(def, lo, hi), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierr.Validation(errors.New(name+" must be an integer"), map[string]string{name: "int"})
	}
	return clamp(n, lo, hi), nil
}

func timePeriod(c *gin.Context) (int, error) {
	return queryInt(c, "time_period", defaultTimePeriodDays, 1, maxTimePeriodDays)
}

func clamp(n, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	switch {
	case n < lo:
		return lo
	case n > hi:
		return hi
	default:
		return n
	}
}
