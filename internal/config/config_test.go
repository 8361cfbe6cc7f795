package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Port != 8001 || cfg.API.Addr() != "0.0.0.0:8001" {
		t.Fatalf("api: got=%+v", cfg.API)
	}
	if cfg.AI.Provider != "openai" || !cfg.AI.EnableFallbacks {
		t.Fatalf("ai: got=%+v", cfg.AI)
	}
	if cfg.OpenAI.Model != "gpt-3.5-turbo" || cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Fatalf("models: got=%s/%s", cfg.OpenAI.Model, cfg.Gemini.Model)
	}
	if cfg.Limits.MaxContentRecommendations != 20 || cfg.Limits.MaxPeerMatches != 10 {
		t.Fatalf("limits: got=%+v", cfg.Limits)
	}
	if cfg.Production() {
		t.Fatalf("default environment should not be production")
	}
}

func TestLoadLayersYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
environment: staging
api:
  port: 9000
  allowed_origins: ["https://app.lusilearn.com"]
ai:
  provider: gemini
openai:
  timeout: 45s
limits:
  max_peer_matches: 4
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("API_PORT", "9100")
	t.Setenv("VECTOR_DB_INDEX", "legacy-index")
	t.Setenv("HEALTH_CHECK_INTERVAL", "15")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Environment != "staging" {
		t.Fatalf("environment: got=%s want=staging", cfg.Environment)
	}
	if cfg.API.Port != 9100 {
		t.Fatalf("env should override yaml port: got=%d want=9100", cfg.API.Port)
	}
	if len(cfg.API.AllowedOrigins) != 1 || cfg.API.AllowedOrigins[0] != "https://app.lusilearn.com" {
		t.Fatalf("origins: got=%v", cfg.API.AllowedOrigins)
	}
	if cfg.AI.Provider != "gemini" {
		t.Fatalf("provider: got=%s want=gemini", cfg.AI.Provider)
	}
	if cfg.OpenAI.Timeout != 45*time.Second {
		t.Fatalf("openai timeout: got=%v want=45s", cfg.OpenAI.Timeout)
	}
	if cfg.Limits.MaxPeerMatches != 4 || cfg.Limits.MaxContentRecommendations != 20 {
		t.Fatalf("limits: got=%+v", cfg.Limits)
	}
	if cfg.Pinecone.IndexName != "legacy-index" {
		t.Fatalf("index alias: got=%s want=legacy-index", cfg.Pinecone.IndexName)
	}
	if cfg.Limits.HealthCheckInterval != 15*time.Second {
		t.Fatalf("interval: got=%v want=15s", cfg.Limits.HealthCheckInterval)
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("AI_PROVIDER", "claude")
	t.Setenv("MAX_PEER_MATCHES", "0")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"AI_PROVIDER", "MAX_PEER_MATCHES"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestAIProviderIsCaseInsensitive(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("AI_PROVIDER", "Gemini")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.Provider != "gemini" {
		t.Fatalf("provider: got=%s want=gemini", cfg.AI.Provider)
	}
}
