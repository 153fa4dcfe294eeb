package pipeline

import "context"

// Options tune a single generation call.
type Options struct {
	// SystemPrompt is prepended as a system turn when non-empty.
	SystemPrompt string
	// Temperature overrides the model default when > 0.
	Temperature float32
	// JSONMode requests structured JSON output (used for lead extraction).
	JSONMode bool
}

// Generator wraps the hosted language model.
type Generator interface {
	Generate(ctx context.Context, messages []Message, opts Options) (string, error)
}

// Match is a single knowledge-base search hit.
type Match struct {
	ID       string
	Score    float64
	Text     string
	Metadata map[string]interface{}
}

// Retriever wraps the vector similarity search service. Results are ordered
// by descending score and scoped to the agent's namespace.
type Retriever interface {
	Search(ctx context.Context, namespace, query string, topK int) ([]Match, error)
}
