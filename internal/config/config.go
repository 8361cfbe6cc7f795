package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/envutil"
)

const defaultConfigPath = "config/config.yaml"

type Config struct {
	Environment string    `yaml:"environment"`
	ServiceName string    `yaml:"service_name"`
	Version     string    `yaml:"version"`
	Log         Log       `yaml:"log"`
	API         API       `yaml:"api"`
	AI          AI        `yaml:"ai"`
	OpenAI      OpenAI    `yaml:"openai"`
	Gemini      Gemini    `yaml:"gemini"`
	Pinecone    Pinecone  `yaml:"pinecone"`
	Redis       Redis     `yaml:"redis"`
	Limits      Limits    `yaml:"limits"`
	Telemetry   Telemetry `yaml:"telemetry"`
}

type Log struct {
	Mode          string `yaml:"mode"`
	File          string `yaml:"file"`
	FileMaxMB     int    `yaml:"file_max_mb"`
	FileBackups   int    `yaml:"file_max_backups"`
	FileMaxAge    int    `yaml:"file_max_age_days"`
	RedactEnabled bool   `yaml:"redaction_enabled"`
}

type API struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	AllowedOrigins     []string      `yaml:"allowed_origins"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
}

// Addr is the listen address.
func (a API) Addr() string { return fmt.Sprintf("%s:%d", a.Host, a.Port) }

type AI struct {
	Provider         string        `yaml:"provider"`
	EnableFallbacks  bool          `yaml:"enable_fallbacks"`
	FallbackCacheTTL time.Duration `yaml:"fallback_cache_ttl"`
}

type OpenAI struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	EmbedModel  string        `yaml:"embed_model"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
}

type Gemini struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	EmbedModel  string        `yaml:"embed_model"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

type Pinecone struct {
	APIKey    string `yaml:"api_key"`
	IndexName string `yaml:"index_name"`
	IndexHost string `yaml:"index_host"`
	Dimension int    `yaml:"dimension"`
	Namespace string `yaml:"namespace"`
}

type Redis struct {
	URL            string        `yaml:"url"`
	DB             int           `yaml:"db"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxConnections int           `yaml:"max_connections"`
}

type Limits struct {
	HealthCheckInterval       time.Duration `yaml:"health_check_interval"`
	MaxContentRecommendations int           `yaml:"max_content_recommendations"`
	MaxPeerMatches            int           `yaml:"max_peer_matches"`
	EmbeddingBatchSize        int           `yaml:"embedding_batch_size"`
}

type Telemetry struct {
	OTelEnabled    bool    `yaml:"otel_enabled"`
	OTLPEndpoint   string  `yaml:"otlp_endpoint"`
	OTLPInsecure   bool    `yaml:"otlp_insecure"`
	SampleRatio    float64 `yaml:"sample_ratio"`
	MetricsEnabled bool    `yaml:"metrics_enabled"`
}

func Defaults() Config {
	return Config{
		Environment: "development",
		ServiceName: "lusilearn-ai-service",
		Version:     "1.0.0",
		Log: Log{
			Mode:          "development",
			FileMaxMB:     50,
			FileBackups:   5,
			FileMaxAge:    14,
			RedactEnabled: true,
		},
		API: API{
			Host:            "0.0.0.0",
			Port:            8001,
			AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:3001"},
			ShutdownTimeout: 15 * time.Second,
		},
		AI: AI{
			Provider:         string(domain.ProviderOpenAI),
			EnableFallbacks:  true,
			FallbackCacheTTL: time.Hour,
		},
		OpenAI: OpenAI{
			BaseURL:     "https://api.openai.com",
			Model:       "gpt-3.5-turbo",
			EmbedModel:  "text-embedding-ada-002",
			MaxTokens:   1000,
			Temperature: 0.7,
			Timeout:     30 * time.Second,
			MaxRetries:  3,
		},
		Gemini: Gemini{
			BaseURL:     "https://generativelanguage.googleapis.com",
			Model:       "gemini-2.0-flash",
			EmbedModel:  "models/embedding-001",
			MaxTokens:   1000,
			Temperature: 0.7,
			Timeout:     30 * time.Second,
		},
		Pinecone: Pinecone{
			IndexName: "lusilearn-content",
			Dimension: 1536,
			Namespace: "content",
		},
		Redis: Redis{
			URL:            "redis://localhost:6379",
			Timeout:        5 * time.Second,
			MaxConnections: 10,
		},
		Limits: Limits{
			HealthCheckInterval:       60 * time.Second,
			MaxContentRecommendations: 20,
			MaxPeerMatches:            10,
			EmbeddingBatchSize:        100,
		},
		Telemetry: Telemetry{
			SampleRatio:    0.1,
			MetricsEnabled: true,
		},
	}
}

// Load layers compiled defaults, an optional YAML file, an optional .env file
// and the process environment, then validates the result.
func Load() (Config, error) {
	cfg := Defaults()

	path := strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	if err := mergeYAML(&cfg, path, explicit); err != nil {
		return Config{}, err
	}

	// godotenv never overrides variables already present in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeYAML(cfg *Config, path string, required bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Environment = envutil.String(cfg.Environment, "ENVIRONMENT")
	cfg.ServiceName = envutil.String(cfg.ServiceName, "SERVICE_NAME", "OTEL_SERVICE_NAME")
	cfg.Version = envutil.String(cfg.Version, "SERVICE_VERSION")

	cfg.Log.Mode = envutil.String(cfg.Log.Mode, "LOG_MODE")
	cfg.Log.File = envutil.String(cfg.Log.File, "LOG_FILE")
	cfg.Log.FileMaxMB = envutil.Int("LOG_FILE_MAX_MB", cfg.Log.FileMaxMB)
	cfg.Log.FileBackups = envutil.Int("LOG_FILE_MAX_BACKUPS", cfg.Log.FileBackups)
	cfg.Log.FileMaxAge = envutil.Int("LOG_FILE_MAX_AGE_DAYS", cfg.Log.FileMaxAge)
	cfg.Log.RedactEnabled = envutil.Bool("LOG_REDACTION_ENABLED", cfg.Log.RedactEnabled)

	cfg.API.Host = envutil.String(cfg.API.Host, "API_HOST")
	cfg.API.Port = envutil.Int("API_PORT", cfg.API.Port)
	cfg.API.AllowedOrigins = envutil.CSV("ALLOWED_ORIGINS", cfg.API.AllowedOrigins)
	cfg.API.RateLimitPerMinute = envutil.Int("API_RATE_LIMIT_PER_MINUTE", cfg.API.RateLimitPerMinute)
	cfg.API.ShutdownTimeout = envutil.Seconds("HTTP_SHUTDOWN_TIMEOUT", cfg.API.ShutdownTimeout)

	cfg.AI.Provider = strings.ToLower(envutil.String(cfg.AI.Provider, "AI_PROVIDER"))
	cfg.AI.EnableFallbacks = envutil.Bool("ENABLE_FALLBACKS", cfg.AI.EnableFallbacks)
	cfg.AI.FallbackCacheTTL = envutil.Seconds("FALLBACK_CACHE_TTL", cfg.AI.FallbackCacheTTL)

	cfg.OpenAI.APIKey = envutil.String(cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	cfg.OpenAI.BaseURL = envutil.String(cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	cfg.OpenAI.Model = envutil.String(cfg.OpenAI.Model, "OPENAI_MODEL")
	cfg.OpenAI.EmbedModel = envutil.String(cfg.OpenAI.EmbedModel, "OPENAI_EMBED_MODEL")
	cfg.OpenAI.MaxTokens = envutil.Int("OPENAI_MAX_TOKENS", cfg.OpenAI.MaxTokens)
	cfg.OpenAI.Temperature = envutil.Float("OPENAI_TEMPERATURE", cfg.OpenAI.Temperature)
	cfg.OpenAI.Timeout = envutil.Seconds("OPENAI_TIMEOUT", cfg.OpenAI.Timeout)
	cfg.OpenAI.MaxRetries = envutil.Int("OPENAI_MAX_RETRIES", cfg.OpenAI.MaxRetries)

	cfg.Gemini.APIKey = envutil.String(cfg.Gemini.APIKey, "GEMINI_API_KEY")
	cfg.Gemini.BaseURL = envutil.String(cfg.Gemini.BaseURL, "GEMINI_BASE_URL")
	cfg.Gemini.Model = envutil.String(cfg.Gemini.Model, "GEMINI_MODEL")
	cfg.Gemini.EmbedModel = envutil.String(cfg.Gemini.EmbedModel, "GEMINI_EMBED_MODEL")
	cfg.Gemini.MaxTokens = envutil.Int("GEMINI_MAX_TOKENS", cfg.Gemini.MaxTokens)
	cfg.Gemini.Temperature = envutil.Float("GEMINI_TEMPERATURE", cfg.Gemini.Temperature)
	cfg.Gemini.Timeout = envutil.Seconds("GEMINI_TIMEOUT", cfg.Gemini.Timeout)

	cfg.Pinecone.APIKey = envutil.String(cfg.Pinecone.APIKey, "PINECONE_API_KEY", "VECTOR_DB_API_KEY")
	cfg.Pinecone.IndexName = envutil.String(cfg.Pinecone.IndexName, "PINECONE_INDEX_NAME", "VECTOR_DB_INDEX")
	cfg.Pinecone.IndexHost = envutil.String(cfg.Pinecone.IndexHost, "PINECONE_INDEX_HOST")
	cfg.Pinecone.Dimension = envutil.Int("PINECONE_DIMENSION", cfg.Pinecone.Dimension)
	cfg.Pinecone.Namespace = envutil.String(cfg.Pinecone.Namespace, "PINECONE_NAMESPACE")

	cfg.Redis.URL = envutil.String(cfg.Redis.URL, "REDIS_URL")
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.Timeout = envutil.Seconds("REDIS_TIMEOUT", cfg.Redis.Timeout)
	cfg.Redis.MaxConnections = envutil.Int("REDIS_MAX_CONNECTIONS", cfg.Redis.MaxConnections)

	cfg.Limits.HealthCheckInterval = envutil.Seconds("HEALTH_CHECK_INTERVAL", cfg.Limits.HealthCheckInterval)
	cfg.Limits.MaxContentRecommendations = envutil.Int("MAX_CONTENT_RECOMMENDATIONS", cfg.Limits.MaxContentRecommendations)
	cfg.Limits.MaxPeerMatches = envutil.Int("MAX_PEER_MATCHES", cfg.Limits.MaxPeerMatches)
	cfg.Limits.EmbeddingBatchSize = envutil.Int("EMBEDDING_BATCH_SIZE", cfg.Limits.EmbeddingBatchSize)

	cfg.Telemetry.OTelEnabled = envutil.Bool("OTEL_ENABLED", cfg.Telemetry.OTelEnabled)
	cfg.Telemetry.OTLPEndpoint = envutil.String(cfg.Telemetry.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	cfg.Telemetry.OTLPInsecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Telemetry.OTLPInsecure)
	cfg.Telemetry.SampleRatio = envutil.Float("OTEL_SAMPLE_RATIO", cfg.Telemetry.SampleRatio)
	cfg.Telemetry.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.Telemetry.MetricsEnabled)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := domain.ParseProvider(c.AI.Provider); err != nil {
		errs = append(errs, fmt.Errorf("AI_PROVIDER: %w", err))
	}
	positive := []struct {
		name string
		v    int
	}{
		{"API_PORT", c.API.Port},
		{"OPENAI_MAX_TOKENS", c.OpenAI.MaxTokens},
		{"GEMINI_MAX_TOKENS", c.Gemini.MaxTokens},
		{"PINECONE_DIMENSION", c.Pinecone.Dimension},
		{"REDIS_MAX_CONNECTIONS", c.Redis.MaxConnections},
		{"MAX_CONTENT_RECOMMENDATIONS", c.Limits.MaxContentRecommendations},
		{"MAX_PEER_MATCHES", c.Limits.MaxPeerMatches},
		{"EMBEDDING_BATCH_SIZE", c.Limits.EmbeddingBatchSize},
	}
	for _, p := range positive {
		if p.v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", p.name, p.v))
		}
	}
	if c.API.Port > 65535 {
		errs = append(errs, fmt.Errorf("API_PORT out of range: %d", c.API.Port))
	}
	if c.API.RateLimitPerMinute < 0 {
		errs = append(errs, fmt.Errorf("API_RATE_LIMIT_PER_MINUTE must not be negative, got %d", c.API.RateLimitPerMinute))
	}
	if c.OpenAI.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("OPENAI_MAX_RETRIES must not be negative, got %d", c.OpenAI.MaxRetries))
	}
	if c.Limits.HealthCheckInterval <= 0 {
		errs = append(errs, errors.New("HEALTH_CHECK_INTERVAL must be positive"))
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("OTEL_SAMPLE_RATIO must be within [0,1], got %v", c.Telemetry.SampleRatio))
	}
	return errors.Join(errs...)
}

// Production reports whether the service runs with production settings.
func (c Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}
