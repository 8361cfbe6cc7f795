package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/yungbote/lusilearn-ai-service/internal/platform/httpx"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func System(content string) Message { return Message{Role: "system", Content: content} }
func User(content string) Message   { return Message{Role: "user", Content: content} }

// ChatOptions overrides client defaults for one call. Zero values keep the defaults.
type ChatOptions struct {
	Model       string
	MaxTokens   int
	Temperature *float64
}

type ChatResult struct {
	Text             string
	Model            string
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
}

type Embeddings struct {
	Vectors     [][]float32
	Model       string
	TotalTokens int
}

type Client interface {
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (ChatResult, error)
	// Embed returns one vector per input, in input order. Empty model uses the configured embedding model.
	Embed(ctx context.Context, model string, inputs []string) (Embeddings, error)
}

// RequestObserver receives one observation per completed upstream call.
type RequestObserver interface {
	ObserveUpstreamRequest(service, endpoint, status string, d time.Duration)
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	EmbedModel  string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int
	// HTTPClient replaces the default client; Timeout is ignored when set.
	HTTPClient *http.Client
	Observer   RequestObserver
}

type client struct {
	log         *logger.Logger
	baseURL     string
	apiKey      string
	model       string
	embedModel  string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	maxRetries  int
	obs         RequestObserver
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	embed := strings.TrimSpace(cfg.EmbedModel)
	if embed == "" {
		embed = "text-embedding-ada-002"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &client{
		log:         log.With("service", "OpenAIClient"),
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		embedModel:  embed,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		httpClient:  hc,
		maxRetries:  retries,
		obs:         cfg.Observer,
	}, nil
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpx.StatusError{
			Service:    "openai",
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			RetryAfter: httpx.RetryAfter(resp),
		}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	backoff := 1 * time.Second
	start := time.Now()

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			c.observe(path, statusFrom(resp, nil), start)
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("openai decode error: %w", uErr)
			}
			return nil
		}

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			c.observe(path, statusFrom(resp, err), start)
			return err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("OpenAI request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if sErr := httpx.Sleep(ctx, sleepFor); sErr != nil {
			return sErr
		}
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}

func (c *client) observe(path, status string, start time.Time) {
	if c.obs != nil {
		c.obs.ObserveUpstreamRequest("openai", path, status, time.Since(start))
	}
}

func statusFrom(resp *http.Response, err error) string {
	if code := httpx.StatusCode(err); code != 0 {
		return fmt.Sprintf("%d", code)
	}
	if err != nil {
		return "error"
	}
	if resp == nil {
		return "unknown"
	}
	return fmt.Sprintf("%d", resp.StatusCode)
}

// -------------------- Chat completions --------------------

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (c *client) Chat(ctx context.Context, messages []Message, opts ChatOptions) (ChatResult, error) {
	if len(messages) == 0 {
		return ChatResult{}, fmt.Errorf("openai chat: no messages")
	}
	req := chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
	if opts.Model != "" {
		req.Model = opts.Model
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature != nil {
		req.Temperature = *opts.Temperature
	}

	var resp chatResponse
	if err := c.do(ctx, http.MethodPost, "/v1/chat/completions", req, &resp); err != nil {
		return ChatResult{}, err
	}
	if len(resp.Choices) == 0 {
		return ChatResult{}, fmt.Errorf("openai chat: empty choices")
	}
	model := resp.Model
	if model == "" {
		model = req.Model
	}
	return ChatResult{
		Text:             resp.Choices[0].Message.Content,
		Model:            model,
		FinishReason:     resp.Choices[0].FinishReason,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

// -------------------- Embeddings --------------------

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

func (c *client) Embed(ctx context.Context, model string, inputs []string) (Embeddings, error) {
	if model == "" {
		model = c.embedModel
	}
	if len(inputs) == 0 {
		return Embeddings{Vectors: [][]float32{}, Model: model}, nil
	}

	clean := make([]string, len(inputs))
	for i := range inputs {
		s := strings.TrimSpace(inputs[i])
		if s == "" {
			s = " "
		}
		clean[i] = s
	}
	req := embeddingsRequest{Model: model, Input: clean}

	var resp embeddingsResponse
	if err := c.do(ctx, http.MethodPost, "/v1/embeddings", req, &resp); err != nil {
		return Embeddings{}, err
	}
	out := orderEmbeddings(resp, len(clean))
	if hasMissingEmbeddings(out) {
		c.log.Warn("Embeddings response missing indices; retrying once",
			"requested", len(clean),
			"returned", len(resp.Data),
			"model", model,
		)
		resp = embeddingsResponse{}
		if err := c.do(ctx, http.MethodPost, "/v1/embeddings", req, &resp); err != nil {
			return Embeddings{}, err
		}
		out = orderEmbeddings(resp, len(clean))
		if hasMissingEmbeddings(out) {
			return Embeddings{}, fmt.Errorf("openai embeddings missing indices after retry: requested=%d returned=%d model=%s", len(clean), len(resp.Data), model)
		}
	}
	if resp.Model != "" {
		model = resp.Model
	}
	return Embeddings{Vectors: out, Model: model, TotalTokens: resp.Usage.TotalTokens}, nil
}

// orderEmbeddings places vectors by their reported index, falling back to
// response order when indices are absent and the counts agree.
func orderEmbeddings(resp embeddingsResponse, n int) [][]float32 {
	out := make([][]float32, n)
	for _, d := range resp.Data {
		if d.Index >= 0 && d.Index < n && out[d.Index] == nil {
			out[d.Index] = toFloat32(d.Embedding)
		}
	}
	if hasMissingEmbeddings(out) && len(resp.Data) == n {
		for i := 0; i < n; i++ {
			if out[i] == nil {
				out[i] = toFloat32(resp.Data[i].Embedding)
			}
		}
	}
	return out
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}

func hasMissingEmbeddings(v [][]float32) bool {
	for i := range v {
		if len(v[i]) == 0 {
			return true
		}
	}
	return false
}
