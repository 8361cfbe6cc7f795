package app

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lusilearn-ai-service/internal/config"
	"github.com/yungbote/lusilearn-ai-service/internal/services/health"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg := config.Defaults()
	cfg.Redis.URL = "redis://" + mr.Addr()
	cfg.Telemetry.OTelEnabled = false
	cfg.API.RateLimitPerMinute = 0
	return cfg
}

func TestNewWithConfigWiresUnconfiguredProviders(t *testing.T) {
	a, err := NewWithConfig(testConfig(t))
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Clients.Redis)
	require.Nil(t, a.Clients.OpenAI)
	require.Nil(t, a.Clients.Gemini)
	require.Nil(t, a.Clients.Vectors)
	require.False(t, a.Services.OpenAI.Configured())
	require.False(t, a.Services.Gemini.Configured())

	body := `{"user_id":"u1","subject":"python","education_level":"college","current_level":"beginner","learning_goals":["basics"],"time_commitment":6,"learning_style":"visual"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/learning-paths/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, "algorithm_generated", out["source"])
	require.Equal(t, true, out["fallback_used"])
}

func TestNewWithConfigRedisUnavailable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Redis.URL = "not a url"
	a, err := NewWithConfig(cfg)
	require.NoError(t, err)
	defer a.Close()

	require.Nil(t, a.Clients.Redis)
	require.NotNil(t, a.Clients.Response)

	rep := a.Services.Health.Check(context.Background())
	require.Equal(t, health.StatusDegraded, rep.Services["redis"].Status)
}

func TestNewWithConfigRejectsUnknownProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI.Provider = "claude"
	_, err := NewWithConfig(cfg)
	require.Error(t, err)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.API.Host = "127.0.0.1"
	cfg.API.Port = freePort(t)
	cfg.API.ShutdownTimeout = 2 * time.Second
	a, err := NewWithConfig(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	url := "http://" + cfg.API.Addr() + "/"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}
