package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/yungbote/lusilearn-ai-service/internal/observability"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/ctxutil"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
)

func TestAttachTraceContextPropagatesAndMints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == nil || seen.RequestID != "req-1" {
		t.Fatalf("request id: got=%+v want=req-1", seen)
	}
	if seen.TraceID == "" {
		t.Fatalf("trace id was not minted")
	}
	if got := rec.Header().Get(HeaderTraceID); got != seen.TraceID {
		t.Fatalf("trace header: got=%q want=%q", got, seen.TraceID)
	}
	if got := rec.Header().Get(HeaderRequestID); got != "req-1" {
		t.Fatalf("request header: got=%q want=req-1", got)
	}
}

func TestInboundID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  req-1 ", "req-1"},
		{"", ""},
		{"has space", ""},
		{"tab\tid", ""},
		{strings.Repeat("a", maxInboundIDLen), strings.Repeat("a", maxInboundIDLen)},
		{strings.Repeat("a", maxInboundIDLen+1), ""},
	}
	for _, tc := range cases {
		if got := inboundID(tc.in); got != tc.want {
			t.Fatalf("inboundID(%q): got=%q want=%q", tc.in, got, tc.want)
		}
	}
}

func TestRecoveryWritesInternalEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(logger.Nop()), Recovery(logger.Nop()))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got=%d want=500", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error_code"] != "INTERNAL_ERROR" || body["error"] != "Internal server error" {
		t.Fatalf("envelope: got=%v", body)
	}
}

func TestRateLimitByIP(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	if h := RateLimitByIP(0, ok); h == nil {
		t.Fatalf("disabled limiter returned nil handler")
	}

	h := RateLimitByIP(2, ok)
	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/strategies", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			if got := rec.Header().Get("Retry-After"); got != "60" {
				t.Fatalf("retry-after: got=%q want=60", got)
			}
			if !strings.Contains(rec.Body.String(), `"error_code":"RATE_LIMIT_ERROR"`) {
				t.Fatalf("body: got=%s", rec.Body.String())
			}
		}
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes: got=%v want=[200 200 429]", codes)
	}
}

func TestMetricsRecordsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/v1/peer-matching/analytics/:user_id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/peer-matching/analytics/u1", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	want := `route="/api/v1/peer-matching/analytics/:user_id"`
	if !strings.Contains(rec.Body.String(), want) {
		t.Fatalf("metrics output missing %s", want)
	}
}
