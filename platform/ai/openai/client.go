// Package openai wraps the OpenAI chat completion and embedding APIs.
// This is part of the platform layer and contains no business logic.
package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"convosell_backend/platform/config"
)

// Message is a single turn in a chat completion request.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// CompletionOptions override per-request generation settings.
// Zero values fall back to the configured defaults.
type CompletionOptions struct {
	Temperature float32
	MaxTokens   int
	JSONMode    bool
}

// Client calls the OpenAI API with configured model defaults.
type Client struct {
	api            *goopenai.Client
	model          string
	temperature    float32
	maxTokens      int
	embeddingModel string
}

// NewClient creates a new OpenAI client from configuration.
func NewClient(cfg config.OpenAIConfig) *Client {
	return &Client{
		api:            goopenai.NewClient(cfg.GetOpenAIAPIKey()),
		model:          cfg.GetOpenAIModel(),
		temperature:    cfg.GetOpenAITemperature(),
		maxTokens:      cfg.GetOpenAIMaxTokens(),
		embeddingModel: cfg.GetOpenAIEmbeddingModel(),
	}
}

// Complete runs a chat completion. The system prompt is prepended before the
// conversation messages. Unknown roles are sent as user turns.
func (c *Client) Complete(ctx context.Context, systemPrompt string, messages []Message, opts CompletionOptions) (string, error) {
	chatMessages := make([]goopenai.ChatCompletionMessage, 0, len(messages)+1)
	if systemPrompt != "" {
		chatMessages = append(chatMessages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	for _, m := range messages {
		role := goopenai.ChatMessageRoleUser
		if m.Role == "assistant" {
			role = goopenai.ChatMessageRoleAssistant
		}
		chatMessages = append(chatMessages, goopenai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	req := goopenai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    chatMessages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	if opts.Temperature > 0 {
		req.Temperature = opts.Temperature
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	if opts.JSONMode {
		req.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// Embed returns embedding vectors for the given texts, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := c.api.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Model: goopenai.EmbeddingModel(c.embeddingModel),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("create embeddings: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("create embeddings: index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}
