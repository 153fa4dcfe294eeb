package adapters

import (
	"context"

	"convosell_backend/internal/chat/pipeline"
	"convosell_backend/internal/knowledge"
)

// KnowledgeRetriever adapts the knowledge service to the pipeline's
// Retriever port. The namespace is the agent ID.
type KnowledgeRetriever struct {
	svc *knowledge.Service
}

// NewKnowledgeRetriever creates a new retriever adapter.
func NewKnowledgeRetriever(svc *knowledge.Service) *KnowledgeRetriever {
	return &KnowledgeRetriever{svc: svc}
}

// Search runs a tenant-scoped similarity search.
func (a *KnowledgeRetriever) Search(ctx context.Context, namespace, query string, topK int) ([]pipeline.Match, error) {
	documents, err := a.svc.Search(ctx, namespace, query, topK)
	if err != nil {
		return nil, err
	}

	matches := make([]pipeline.Match, len(documents))
	for i, doc := range documents {
		matches[i] = pipeline.Match{
			ID:       doc.ID,
			Score:    doc.Score,
			Text:     doc.Text,
			Metadata: doc.Metadata,
		}
	}
	return matches, nil
}

// Compile-time check that KnowledgeRetriever implements pipeline.Retriever.
var _ pipeline.Retriever = (*KnowledgeRetriever)(nil)
