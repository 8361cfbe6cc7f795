package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/lusilearn-ai-service/internal/config"
	"github.com/yungbote/lusilearn-ai-service/internal/observability"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/cache"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/gemini"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/openai"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/pinecone"
)

const (
	redisKeyPrefix   = "ai:"
	localCacheTTL    = 5 * time.Minute
	localCacheSweep  = 10 * time.Minute
	vectorCacheTTL   = time.Hour
	redisDialTimeout = 3 * time.Second
)

// Clients holds the external connections. Nil fields are unconfigured.
type Clients struct {
	OpenAI      openai.Client
	Gemini      gemini.Client
	Vectors     vectorIndex
	Redis       *cache.Redis
	Response    cache.Cache
	VectorCache *cache.Local

	closeOnce *sync.Once
}

func wireClients(log *logger.Logger, cfg config.Config, metrics *observability.Metrics) Clients {
	log.Info("Wiring clients...")
	out := Clients{closeOnce: &sync.Once{}}

	if strings.TrimSpace(cfg.OpenAI.APIKey) != "" {
		c, err := openai.NewClient(log, openai.Config{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.OpenAI.Model,
			EmbedModel:  cfg.OpenAI.EmbedModel,
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Temperature: cfg.OpenAI.Temperature,
			Timeout:     cfg.OpenAI.Timeout,
			MaxRetries:  cfg.OpenAI.MaxRetries,
			Observer:    metrics,
		})
		if err != nil {
			log.Warn("OpenAI client unavailable", "error", err)
		} else {
			out.OpenAI = c
		}
	} else {
		log.Warn("OPENAI_API_KEY not set; OpenAI provider disabled")
	}

	if strings.TrimSpace(cfg.Gemini.APIKey) != "" {
		c, err := gemini.NewClient(log, gemini.Config{
			APIKey:      cfg.Gemini.APIKey,
			BaseURL:     cfg.Gemini.BaseURL,
			Model:       cfg.Gemini.Model,
			EmbedModel:  cfg.Gemini.EmbedModel,
			MaxTokens:   cfg.Gemini.MaxTokens,
			Temperature: cfg.Gemini.Temperature,
			Timeout:     cfg.Gemini.Timeout,
		})
		if err != nil {
			log.Warn("Gemini client unavailable", "error", err)
		} else {
			out.Gemini = c
		}
	} else {
		log.Warn("GEMINI_API_KEY not set; Gemini provider disabled")
	}

	if strings.TrimSpace(cfg.Pinecone.APIKey) != "" {
		pc, err := pinecone.New(log, pinecone.Config{APIKey: cfg.Pinecone.APIKey})
		if err == nil {
			var store *pinecone.VectorStore
			store, err = pinecone.NewVectorStore(log, pc, pinecone.StoreConfig{
				IndexName: cfg.Pinecone.IndexName,
				IndexHost: cfg.Pinecone.IndexHost,
				Namespace: cfg.Pinecone.Namespace,
			})
			if err == nil {
				out.Vectors = instrumentVectorIndex(store, metrics)
			}
		}
		if err != nil {
			log.Warn("Pinecone vector store unavailable", "error", err)
		}
	} else {
		log.Warn("PINECONE_API_KEY not set; vector candidates disabled")
	}

	local := cache.NewLocal(localCacheTTL, localCacheSweep, metrics)
	out.Response = local
	if rc, err := cache.NewRedis(cache.RedisConfig{
		URL:            cfg.Redis.URL,
		DB:             cfg.Redis.DB,
		Timeout:        cfg.Redis.Timeout,
		MaxConnections: cfg.Redis.MaxConnections,
		KeyPrefix:      redisKeyPrefix,
	}, metrics); err != nil {
		log.Warn("Redis cache disabled", "error", err)
	} else {
		out.Redis = rc
		out.Response = cache.NewTiered(log, local, rc, localCacheTTL)
		ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
		if err := rc.Ping(ctx); err != nil {
			log.Warn("Redis not reachable at startup; responses cache in process until it recovers", "error", err)
		}
		cancel()
	}
	out.VectorCache = cache.NewLocal(vectorCacheTTL, localCacheSweep, metrics)
	return out
}

func (c Clients) Close() {
	if c.closeOnce == nil {
		return
	}
	c.closeOnce.Do(func() {
		if c.Redis != nil {
			_ = c.Redis.Close()
		}
	})
}
