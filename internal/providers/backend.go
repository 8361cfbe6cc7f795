package providers

import (
	"context"

	"github.com/yungbote/lusilearn-ai-service/internal/platform/gemini"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/openai"
)

type CompleteOptions struct {
	MaxTokens   int
	Temperature *float64
}

// Completer turns a system and user prompt into model text.
type Completer interface {
	Complete(ctx context.Context, system, user string, opts CompleteOptions) (string, error)
}

// EmbeddingClient embeds one batch. An empty model selects the backend default.
type EmbeddingClient interface {
	EmbedBatch(ctx context.Context, model string, texts []string) (Embedding, error)
}

type openaiBackend struct {
	c openai.Client
}

func (b openaiBackend) Complete(ctx context.Context, system, user string, opts CompleteOptions) (string, error) {
	msgs := make([]openai.Message, 0, 2)
	if system != "" {
		msgs = append(msgs, openai.System(system))
	}
	msgs = append(msgs, openai.User(user))
	res, err := b.c.Chat(ctx, msgs, openai.ChatOptions{MaxTokens: opts.MaxTokens, Temperature: opts.Temperature})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

func (b openaiBackend) EmbedBatch(ctx context.Context, model string, texts []string) (Embedding, error) {
	res, err := b.c.Embed(ctx, model, texts)
	if err != nil {
		return Embedding{}, err
	}
	return Embedding{Vectors: res.Vectors, Model: res.Model, TotalTokens: res.TotalTokens}, nil
}

type geminiBackend struct {
	c          gemini.Client
	embedModel string
}

func (b geminiBackend) Complete(ctx context.Context, system, user string, opts CompleteOptions) (string, error) {
	gen, err := b.c.GenerateContent(ctx, user, system, gemini.GenerateOptions{MaxTokens: opts.MaxTokens, Temperature: opts.Temperature})
	if err != nil {
		return "", err
	}
	return gen.Text, nil
}

// EmbedBatch calls embedContent once per text; the API has no batch form here.
func (b geminiBackend) EmbedBatch(ctx context.Context, model string, texts []string) (Embedding, error) {
	if model == "" {
		model = b.embedModel
	}
	out := Embedding{Vectors: make([][]float32, 0, len(texts)), Model: model}
	for _, t := range texts {
		vec, err := b.c.EmbedContent(ctx, model, t)
		if err != nil {
			return Embedding{}, err
		}
		out.Vectors = append(out.Vectors, vec)
	}
	return out, nil
}
