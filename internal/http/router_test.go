package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
	httpH "github.com/yungbote/lusilearn-ai-service/internal/http/handlers"
	"github.com/yungbote/lusilearn-ai-service/internal/learning/pathalgo"
	"github.com/yungbote/lusilearn-ai-service/internal/observability"
	"github.com/yungbote/lusilearn-ai-service/internal/peermatch"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/apierr"
	"github.com/yungbote/lusilearn-ai-service/internal/providers"
	"github.com/yungbote/lusilearn-ai-service/internal/recommend"
	"github.com/yungbote/lusilearn-ai-service/internal/services/health"
	"github.com/yungbote/lusilearn-ai-service/internal/services/orchestrator"
)

const (
	pathBody = `{"user_id":"u1","subject":"mathematics","education_level":"college","current_level":"beginner",
		"learning_goals":["algebra"],"time_commitment":5,"learning_style":"visual"}`
	recBody = `{"user_id":"u1","current_topic":"mathematics","education_level":"college","skill_level":"beginner",
		"learning_context":"self_paced","preferred_formats":["video","article"]}`
	peerBody = `{"user_id":"u1","education_level":"college","subjects":["mathematics"],
		"skill_levels":{"mathematics":"beginner"},"learning_goals":["algebra"],
		"availability":{"monday":["18:00-20:00"]},"communication_preferences":["chat"]}`
)

// newTestServer wires real engines behind unconfigured providers, so every
// provider-backed route exercises its fallback.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	metrics := observability.NewMetrics()
	paths := pathalgo.New(nil)
	engine := recommend.New(nil, recommend.Options{})
	orch, err := orchestrator.New(nil, orchestrator.Config{EnableFallbacks: true}, orchestrator.Deps{
		OpenAI:   providers.NewLLMProvider(nil, domain.ProviderOpenAI, nil, nil, providers.Options{}),
		Gemini:   providers.NewLLMProvider(nil, domain.ProviderGemini, nil, nil, providers.Options{}),
		Paths:    paths,
		Engine:   engine,
		Observer: metrics,
	})
	require.NoError(t, err)

	return NewServer(RouterConfig{
		Metrics:        metrics,
		AllowedOrigins: []string{"*"},
		ServiceHandler: httpH.NewServiceHandler("LusiLearn AI Service", "1.0.0", "development"),
		LearningPathHandler: httpH.NewLearningPathHandlerWithDeps(httpH.LearningPathHandlerDeps{
			Orchestrator: orch,
			Paths:        paths,
		}),
		RecommendationHandler: httpH.NewRecommendationHandlerWithDeps(httpH.RecommendationHandlerDeps{
			Orchestrator:       orch,
			Engine:             engine,
			MaxRecommendations: 20,
		}),
		PeerMatchingHandler: httpH.NewPeerMatchingHandlerWithDeps(httpH.PeerMatchingHandlerDeps{
			Engine:     peermatch.New(nil),
			MaxMatches: 3,
		}),
		HealthHandler: httpH.NewHealthHandler(health.NewMonitor(nil, 0, metrics)),
	}, 0)
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rdr *bytes.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return rec, out
}

func TestRoot(t *testing.T) {
	s := newTestServer(t)
	rec, body := do(t, s, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d want=200", rec.Code)
	}
	if body["status"] != "running" || body["docs"] != "/docs" || body["version"] != "1.0.0" {
		t.Fatalf("root: got=%v", body)
	}
}

func TestGenerateLearningPathFallsBackToAlgorithm(t *testing.T) {
	s := newTestServer(t)
	rec, body := do(t, s, http.MethodPost, "/api/v1/learning-paths/", pathBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d want=200 body=%s", rec.Code, rec.Body.String())
	}
	if body["source"] != domain.SourceAlgorithm {
		t.Fatalf("source: got=%v want=%s", body["source"], domain.SourceAlgorithm)
	}
	if body["fallback_used"] != true {
		t.Fatalf("fallback_used: got=%v want=true", body["fallback_used"])
	}
	if _, ok := body["difficulty_progression"].(string); !ok {
		t.Fatalf("difficulty_progression: got=%T want=string", body["difficulty_progression"])
	}
	attempts, _ := body["provider_attempts"].([]any)
	if len(attempts) != 2 {
		t.Fatalf("provider_attempts: got=%d want=2", len(attempts))
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("missing X-Request-Id header")
	}
}

func TestLearningPathValidation(t *testing.T) {
	s := newTestServer(t)
	bad := strings.Replace(pathBody, `"time_commitment":5`, `"time_commitment":0`, 1)
	rec, body := do(t, s, http.MethodPost, "/api/v1/learning-paths/", bad)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got=%d want=400", rec.Code)
	}
	if body["error_code"] != "VALIDATION_ERROR" {
		t.Fatalf("error_code: got=%v", body["error_code"])
	}
	details, _ := body["details"].(map[string]any)
	if details["time_commitment"] != "min=1" {
		t.Fatalf("details: got=%v", details)
	}

	rec, _ = do(t, s, http.MethodPost, "/api/v1/learning-paths/", `{"user_id":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status: got=%d want=400", rec.Code)
	}
}

func TestUnknownProviderIsConfigurationError(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/v1/learning-paths/provider/claude", "/api/v1/recommendations/provider/claude"} {
		body := ""
		if strings.Contains(path, "learning-paths") {
			body = pathBody
		}
		rec, out := do(t, s, http.MethodPost, path, body)
		if rec.Code != http.StatusBadRequest || out["error_code"] != "CONFIGURATION_ERROR" {
			t.Fatalf("%s: got=%d %v", path, rec.Code, out)
		}
	}
}

func TestSequenceRoute(t *testing.T) {
	s := newTestServer(t)
	body := `{"objectives":[
		{"id":"b","title":"B","estimated_hours":2,"prerequisites":["a"]},
		{"id":"a","title":"A","estimated_hours":3,"prerequisites":[]}]}`
	rec, out := do(t, s, http.MethodPost, "/api/v1/learning-paths/sequence", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	objs, _ := out["sequenced_objectives"].([]any)
	if len(objs) != 2 || objs[0].(map[string]any)["id"] != "a" {
		t.Fatalf("order: got=%v", objs)
	}
	if out["total_objectives"] != float64(2) {
		t.Fatalf("total_objectives: got=%v want=2", out["total_objectives"])
	}
	if w, _ := out["warnings"].([]any); len(w) != 0 {
		t.Fatalf("warnings: got=%v want=[]", w)
	}
}

func TestFallbackPathDefaultsHours(t *testing.T) {
	s := newTestServer(t)
	rec, out := do(t, s, http.MethodPost, "/api/v1/learning-paths/fallback", `{"education_level":"k12","subject":"science"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	if objs, _ := out["objectives"].([]any); len(objs) == 0 {
		t.Fatalf("fallback path has no objectives")
	}
}

func TestRecommendationRoutes(t *testing.T) {
	s := newTestServer(t)

	rec, out := do(t, s, http.MethodPost, "/api/v1/recommendations/?strategy=telepathy", recBody)
	if rec.Code != http.StatusBadRequest || out["error_code"] != "VALIDATION_ERROR" {
		t.Fatalf("unknown strategy: got=%d %v", rec.Code, out)
	}

	rec, out = do(t, s, http.MethodPost, "/api/v1/recommendations/", recBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("recommend status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	if out["topic"] != "mathematics" || out["source"] == "" {
		t.Fatalf("recommend: got=%v", out)
	}

	rec, out = do(t, s, http.MethodPost, "/api/v1/recommendations/algorithmic?strategy=learning_style_based&max_recommendations=2", recBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("algorithmic status: got=%d", rec.Code)
	}
	recs, _ := out["recommendations"].([]any)
	if len(recs) == 0 || len(recs) > 2 || out["total_count"] != float64(len(recs)) {
		t.Fatalf("algorithmic: got=%d recs total=%v", len(recs), out["total_count"])
	}
}

func TestProviderSwitching(t *testing.T) {
	s := newTestServer(t)
	rec, out := do(t, s, http.MethodPost, "/api/v1/recommendations/provider/GEMINI", "")
	if rec.Code != http.StatusOK || out["current_provider"] != "gemini" {
		t.Fatalf("switch: got=%d %v", rec.Code, out)
	}
	_, out = do(t, s, http.MethodGet, "/api/v1/recommendations/provider", "")
	if out["current_provider"] != "gemini" {
		t.Fatalf("current provider: got=%v want=gemini", out["current_provider"])
	}
	_, out = do(t, s, http.MethodGet, "/api/v1/recommendations/provider/status", "")
	ps, _ := out["providers"].(map[string]any)
	openai, _ := ps["openai"].(map[string]any)
	if openai["status"] != orchestrator.StatusNotConfigured {
		t.Fatalf("openai status: got=%v", openai)
	}
}

func TestEmbeddingsUseHashFallback(t *testing.T) {
	s := newTestServer(t)
	rec, out := do(t, s, http.MethodPost, "/api/v1/recommendations/embeddings", `{"texts":["newton laws","cell biology"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	if out["model"] != orchestrator.HashFallbackModel || out["fallback_used"] != true {
		t.Fatalf("embeddings: got model=%v fallback=%v", out["model"], out["fallback_used"])
	}
	if embs, _ := out["embeddings"].([]any); len(embs) != 2 {
		t.Fatalf("embeddings: got=%d want=2", len(embs))
	}

	rec, _ = do(t, s, http.MethodPost, "/api/v1/recommendations/embeddings", `{"texts":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty texts: got=%d want=400", rec.Code)
	}
}

func TestFeedbackAndAnalyticsRoutes(t *testing.T) {
	s := newTestServer(t)
	rec, _ := do(t, s, http.MethodPost, "/api/v1/recommendations/interaction/update", `{"user_id":"u1","content_id":"c1","interaction_score":0.9}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("interaction: got=%d", rec.Code)
	}
	rec, _ = do(t, s, http.MethodPost, "/api/v1/recommendations/success-rate/update", `{"content_id":"c1","success_rate":1.5}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("success rate out of range: got=%d want=400", rec.Code)
	}
	rec, out := do(t, s, http.MethodGet, "/api/v1/recommendations/analytics/u1?time_period=7", "")
	if rec.Code != http.StatusOK || out["time_period_days"] != float64(7) {
		t.Fatalf("analytics: got=%d %v", rec.Code, out)
	}
	rec, out = do(t, s, http.MethodGet, "/api/v1/recommendations/strategies", "")
	if rec.Code != http.StatusOK || out["default"] != string(recommend.Hybrid) {
		t.Fatalf("strategies: got=%d %v", rec.Code, out)
	}

	rec, out = do(t, s, http.MethodPost, "/api/v1/peer-matching/feedback", `{"user_id":"u1","peer_id":"p1","feedback_score":0.8}`)
	if rec.Code != http.StatusOK || out["peer_id"] != "p1" {
		t.Fatalf("peer feedback: got=%d %v", rec.Code, out)
	}
	rec, out = do(t, s, http.MethodGet, "/api/v1/peer-matching/analytics/u1", "")
	if rec.Code != http.StatusOK || out["time_period_days"] != float64(30) {
		t.Fatalf("peer analytics: got=%d %v", rec.Code, out)
	}
}

func TestPeerMatchingClampsMaxMatches(t *testing.T) {
	s := newTestServer(t)
	rec, out := do(t, s, http.MethodPost, "/api/v1/peer-matching/?max_matches=500", peerBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	if n, _ := out["total_matches"].(float64); n > 3 {
		t.Fatalf("total_matches: got=%v want<=3", n)
	}
	rec, _ = do(t, s, http.MethodPost, "/api/v1/peer-matching/?strategy=astrology", peerBody)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown strategy: got=%d want=400", rec.Code)
	}
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	s := newTestServer(t)
	_, out := do(t, s, http.MethodGet, "/health/status", "")
	if out["status"] != health.StatusUnknown {
		t.Fatalf("status before check: got=%v want=unknown", out["status"])
	}
	rec, out := do(t, s, http.MethodGet, "/health/", "")
	if rec.Code != http.StatusOK || out["status"] != health.StatusHealthy {
		t.Fatalf("health: got=%d %v", rec.Code, out)
	}
	_, out = do(t, s, http.MethodGet, "/health/metrics", "")
	if out["health_checks_performed"] != float64(1) {
		t.Fatalf("health metrics: got=%v", out)
	}

	rec, _ = do(t, s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ai_service_api_requests_total") {
		t.Fatalf("metrics exposition missing request counter")
	}

	rec, out = do(t, s, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound || out["error"] != "Not found" {
		t.Fatalf("no route: got=%d %v", rec.Code, out)
	}
	if out["error_code"] != apierr.CodeNotFound || out["message"] != "no route for GET /nope" {
		t.Fatalf("no route envelope: got=%v want error_code=%s", out, apierr.CodeNotFound)
	}
}
