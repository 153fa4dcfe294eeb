package adapters

import (
	"context"

	"convosell_backend/internal/chat/pipeline"
	"convosell_backend/platform/ai/openai"
)

// LLMGenerator adapts the OpenAI client to the pipeline's Generator port.
type LLMGenerator struct {
	client *openai.Client
}

// NewLLMGenerator creates a new generator adapter.
func NewLLMGenerator(client *openai.Client) *LLMGenerator {
	return &LLMGenerator{client: client}
}

// Generate runs a chat completion with the pipeline's per-call options.
func (a *LLMGenerator) Generate(ctx context.Context, messages []pipeline.Message, opts pipeline.Options) (string, error) {
	converted := make([]openai.Message, len(messages))
	for i, m := range messages {
		converted[i] = openai.Message{Role: m.Role, Content: m.Content}
	}

	return a.client.Complete(ctx, opts.SystemPrompt, converted, openai.CompletionOptions{
		Temperature: opts.Temperature,
		JSONMode:    opts.JSONMode,
	})
}

// Compile-time check that LLMGenerator implements pipeline.Generator.
var _ pipeline.Generator = (*LLMGenerator)(nil)
