package gemini

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/yungbote/lusilearn-ai-service/internal/platform/logger"
)

const (
	DefaultBaseURL     = "https://generativelanguage.googleapis.com"
	DefaultAPIVersion  = "v1beta"
	DefaultModel       = "gemini-2.0-flash"
	DefaultEmbedModel  = "models/embedding-001"
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
	DefaultTimeout     = 30 * time.Second
)

// HTTPClient lets tests substitute the transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	APIKey      string
	BaseURL     string
	APIVersion  string
	Model       string
	EmbedModel  string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

type GenerateOptions struct {
	Model       string
	MaxTokens   int
	Temperature *float64
}

type Generation struct {
	Text         string
	Model        string
	FinishReason string
	InputTokens  int
	OutputTokens int
}

type Client interface {
	GenerateContent(ctx context.Context, prompt, system string, opts GenerateOptions) (Generation, error)
	// EmbedContent embeds one text. Empty model uses the configured embedding model.
	EmbedContent(ctx context.Context, model, text string) ([]float32, error)
}

type client struct {
	log         *logger.Logger
	apiKey      string
	baseURL     string
	apiVersion  string
	model       string
	embedModel  string
	maxTokens   int
	temperature float64
	http        HTTPClient
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	return newClient(log, cfg, nil)
}

// NewClientWithHTTP is NewClient with an injected transport.
func NewClientWithHTTP(log *logger.Logger, cfg Config, hc HTTPClient) (Client, error) {
	return newClient(log, cfg, hc)
}

func newClient(log *logger.Logger, cfg Config, hc HTTPClient) (*client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = DefaultEmbedModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &client{
		log:         log.With("service", "GeminiClient"),
		apiKey:      strings.TrimSpace(cfg.APIKey),
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiVersion:  cfg.APIVersion,
		model:       cfg.Model,
		embedModel:  cfg.EmbedModel,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		http:        hc,
	}, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type generateRequest struct {
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata,omitempty"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

func (c *client) GenerateContent(ctx context.Context, prompt, system string, opts GenerateOptions) (Generation, error) {
	model := c.model
	if opts.Model != "" {
		model = opts.Model
	}
	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			MaxOutputTokens: c.maxTokens,
			Temperature:     c.temperature,
		},
	}
	if opts.MaxTokens > 0 {
		req.GenerationConfig.MaxOutputTokens = opts.MaxTokens
	}
	if opts.Temperature != nil {
		req.GenerationConfig.Temperature = *opts.Temperature
	}
	if strings.TrimSpace(system) != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}

	var resp generateResponse
	if err := c.post(ctx, modelPath(model)+":generateContent", req, &resp); err != nil {
		return Generation{}, err
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return Generation{}, fmt.Errorf("gemini blocked prompt: %s", resp.PromptFeedback.BlockReason)
		}
		return Generation{}, fmt.Errorf("gemini returned no candidates")
	}
	cand := resp.Candidates[0]
	var text strings.Builder
	for _, p := range cand.Content.Parts {
		text.WriteString(p.Text)
	}
	out := Generation{
		Text:         text.String(),
		Model:        model,
		FinishReason: mapFinishReason(cand.FinishReason),
	}
	if resp.UsageMetadata != nil {
		out.InputTokens = resp.UsageMetadata.PromptTokenCount
		out.OutputTokens = resp.UsageMetadata.CandidatesTokenCount
	}
	return out, nil
}

type embedRequest struct {
	Model    string  `json:"model"`
	Content  content `json:"content"`
	TaskType string  `json:"taskType,omitempty"`
}

type embedResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

func (c *client) EmbedContent(ctx context.Context, model, text string) ([]float32, error) {
	if model == "" {
		model = c.embedModel
	}
	path := modelPath(model)
	req := embedRequest{
		Model:    path,
		Content:  content{Parts: []part{{Text: text}}},
		TaskType: "RETRIEVAL_DOCUMENT",
	}
	var resp embedResponse
	if err := c.post(ctx, path+":embedContent", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini returned an empty embedding")
	}
	out := make([]float32, len(resp.Embedding.Values))
	for i, v := range resp.Embedding.Values {
		out[i] = float32(v)
	}
	return out, nil
}

func (c *client) post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/%s/%s?key=%s", c.baseURL, c.apiVersion, path, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gemini API error: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("gemini read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		apiErr := parseAPIError(resp.StatusCode, data)
		c.log.Warn("Gemini request failed", "path", path, "status", resp.StatusCode, "error", apiErr.Error())
		return apiErr
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// modelPath accepts "gemini-2.0-flash" or "models/gemini-2.0-flash".
func modelPath(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

func parseAPIError(statusCode int, body []byte) *APIError {
	var errResp struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
		return &APIError{StatusCode: statusCode, Message: strings.TrimSpace(string(body))}
	}
	return &APIError{
		StatusCode: statusCode,
		Code:       errResp.Error.Code,
		Status:     errResp.Error.Status,
		Message:    errResp.Error.Message,
	}
}

func mapFinishReason(reason string) string {
	switch reason {
	case "STOP":
		return "stop"
	case "MAX_TOKENS":
		return "max_tokens"
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT":
		return "content_filter"
	case "":
		return "unknown"
	default:
		return strings.ToLower(reason)
	}
}

type APIError struct {
	StatusCode int
	Code       int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API error (status %d, code %d, %s): %s",
		e.StatusCode, e.Code, e.Status, e.Message)
}

func (e *APIError) HTTPStatusCode() int { return e.StatusCode }

func (e *APIError) IsRateLimitError() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.Status == "RESOURCE_EXHAUSTED"
}

func (e *APIError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized ||
		e.StatusCode == http.StatusForbidden ||
		e.Status == "UNAUTHENTICATED" ||
		e.Status == "PERMISSION_DENIED"
}
