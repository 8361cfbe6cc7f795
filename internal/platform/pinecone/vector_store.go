package pinecone

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
)

// Match is one similarity hit with its metadata flattened back into Go types.
type Match struct {
	ID       string
	Score    float64
	Metadata map[string]any
}

// Filters narrows a similarity search. Scalar keys become $eq clauses and
// Topics becomes a $in clause.
type Filters struct {
	Subject    string
	Difficulty string
	Format     string
	Source     string
	Topics     []string
}

func (f Filters) toPinecone() map[string]any {
	out := map[string]any{}
	eq := func(key, val string) {
		if strings.TrimSpace(val) != "" {
			out[key] = map[string]any{"$eq": val}
		}
	}
	eq("subject", f.Subject)
	eq("difficulty", f.Difficulty)
	eq("content_type", f.Format)
	eq("source", f.Source)
	if len(f.Topics) > 0 {
		out["topics"] = map[string]any{"$in": f.Topics}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

type StoreConfig struct {
	IndexName string
	IndexHost string
	Namespace string
}

type VectorStore struct {
	log *logger.Logger
	pc  Client
	cfg StoreConfig

	mu   sync.Mutex
	host string
}

func NewVectorStore(log *logger.Logger, pc Client, cfg StoreConfig) (*VectorStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if pc == nil {
		return nil, fmt.Errorf("pinecone client required")
	}
	if strings.TrimSpace(cfg.IndexName) == "" && strings.TrimSpace(cfg.IndexHost) == "" {
		return nil, fmt.Errorf("missing PINECONE_INDEX_NAME")
	}
	return &VectorStore{
		log:  log.With("service", "PineconeVectorStore"),
		pc:   pc,
		cfg:  cfg,
		host: strings.TrimSpace(cfg.IndexHost),
	}, nil
}

// indexHost resolves the data-plane host through describe_index on first use.
func (s *VectorStore) indexHost(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.host != "" {
		return s.host, nil
	}
	desc, err := s.pc.DescribeIndex(ctx, s.cfg.IndexName)
	if err != nil {
		return "", err
	}
	s.host = strings.TrimSpace(desc.Host)
	s.log.Warn("PINECONE_INDEX_HOST not set; resolved via describe_index",
		"index_name", s.cfg.IndexName,
		"index_host", s.host,
	)
	return s.host, nil
}

func (s *VectorStore) SearchSimilar(ctx context.Context, vector []float32, topK int, f Filters) ([]Match, error) {
	host, err := s.indexHost(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := s.pc.Query(ctx, host, QueryRequest{
		Namespace:       s.cfg.Namespace,
		Vector:          vector,
		TopK:            topK,
		Filter:          f.toPinecone(),
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, err
	}
	out := make([]Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if strings.TrimSpace(m.ID) == "" {
			continue
		}
		md := m.Metadata
		if raw, ok := md["topics"].(string); ok {
			md["topics"] = splitTopics(raw)
		}
		out = append(out, Match{ID: m.ID, Score: m.Score, Metadata: md})
	}
	s.log.Debug("Similarity search", "namespace", s.cfg.Namespace, "matches", len(out))
	return out, nil
}

func (s *VectorStore) Stats(ctx context.Context) (*IndexStats, error) {
	host, err := s.indexHost(ctx)
	if err != nil {
		return nil, err
	}
	return s.pc.DescribeIndexStats(ctx, host)
}

// Topics are stored as a comma-joined string because metadata values are flat.
func splitTopics(raw string) []string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
