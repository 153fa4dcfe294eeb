// Package knowledge is the retrieval gateway: it chunks and embeds agent
// documents into the vector store and serves tenant-scoped similarity search.
// It exposes no HTTP routes; the training and chat modules call into it.
package knowledge

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"convosell_backend/platform/config"
	"convosell_backend/platform/logger"
	"convosell_backend/platform/qdrant"
)

const (
	// embeddingDimensions matches the text-embedding-ada-002 output size.
	embeddingDimensions = 1536
	upsertBatchSize     = 100
	embedBatchSize      = 64
	embedConcurrency    = 4
)

// payloadFieldAgentID scopes every vector to its owning agent.
const payloadFieldAgentID = "agent_id"

// VectorStore is the subset of the Qdrant client the service needs.
type VectorStore interface {
	Search(ctx context.Context, vector []float32, limit int, filter *qdrant.Filter) ([]qdrant.SearchResult, error)
	Upsert(ctx context.Context, points []qdrant.Point) error
	DeleteByFilter(ctx context.Context, filter qdrant.Filter) error
	CountByFilter(ctx context.Context, filter qdrant.Filter) (int64, error)
	EnsureCollection(ctx context.Context, vectorSize int) error
}

// Embedder produces embedding vectors for texts, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Splitter chunks a document before embedding.
type Splitter interface {
	Split(text string) []string
}

// Document is a single similarity search hit.
type Document struct {
	ID       string
	Score    float64
	Text     string
	Metadata map[string]interface{}
}

// Service implements the knowledge base operations.
type Service struct {
	store     VectorStore
	embedder  Embedder
	splitter  Splitter
	topK      int
	threshold float64
	log       *logger.Logger
}

// NewService creates the knowledge service.
func NewService(store VectorStore, embedder Embedder, splitter Splitter, cfg config.RetrievalConfig, log *logger.Logger) *Service {
	topK := cfg.GetVectorTopK()
	if topK <= 0 {
		topK = 3
	}
	return &Service{
		store:     store,
		embedder:  embedder,
		splitter:  splitter,
		topK:      topK,
		threshold: cfg.GetVectorSimilarityThreshold(),
		log:       log,
	}
}

// Bootstrap ensures the vector collection exists. Called once at startup.
func (s *Service) Bootstrap(ctx context.Context) error {
	if err := s.store.EnsureCollection(ctx, embeddingDimensions); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}
	return nil
}

type chunkRecord struct {
	text    string
	payload map[string]interface{}
}

// AddDocuments chunks, embeds, and upserts documents into the agent's
// namespace. Returns the number of chunks written. Metadata is attached to
// every chunk's payload alongside the namespace and position fields.
func (s *Service) AddDocuments(ctx context.Context, agentID string, texts []string, metadata map[string]interface{}) (int, error) {
	var records []chunkRecord
	for docIdx, text := range texts {
		for chunkIdx, chunk := range s.splitter.Split(text) {
			payload := make(map[string]interface{}, len(metadata)+4)
			for k, v := range metadata {
				payload[k] = v
			}
			payload[payloadFieldAgentID] = agentID
			payload["doc_index"] = docIdx
			payload["chunk_index"] = chunkIdx
			payload["text"] = chunk
			records = append(records, chunkRecord{text: chunk, payload: payload})
		}
	}
	if len(records) == 0 {
		return 0, nil
	}

	vectors, err := s.embedAll(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("embed documents: %w", err)
	}

	points := make([]qdrant.Point, len(records))
	for i, rec := range records {
		points[i] = qdrant.Point{
			ID:      uuid.NewString(),
			Vector:  vectors[i],
			Payload: rec.payload,
		}
	}

	for start := 0; start < len(points); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(points) {
			end = len(points)
		}
		if err := s.store.Upsert(ctx, points[start:end]); err != nil {
			return 0, fmt.Errorf("upsert points: %w", err)
		}
	}

	s.log.Info("knowledge base updated", "agent_id", agentID, "documents", len(texts), "chunks", len(points))
	return len(points), nil
}

// embedAll embeds chunk texts in concurrent batches, preserving input order.
func (s *Service) embedAll(ctx context.Context, records []chunkRecord) ([][]float32, error) {
	vectors := make([][]float32, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	for start := 0; start < len(records); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(records) {
			end = len(records)
		}
		start, end := start, end
		g.Go(func() error {
			texts := make([]string, 0, end-start)
			for _, rec := range records[start:end] {
				texts = append(texts, rec.text)
			}
			batch, err := s.embedder.Embed(gctx, texts)
			if err != nil {
				return err
			}
			copy(vectors[start:end], batch)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

// Search runs a similarity search scoped to the agent's namespace. Results
// below the similarity threshold are dropped; at most topK are returned.
// A non-positive topK uses the configured default.
func (s *Service) Search(ctx context.Context, agentID, query string, topK int) ([]Document, error) {
	if topK <= 0 {
		topK = s.topK
	}

	queryVectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(queryVectors) == 0 {
		return nil, fmt.Errorf("embed query: no vector returned")
	}

	filter := qdrant.MatchField(payloadFieldAgentID, agentID)
	results, err := s.store.Search(ctx, queryVectors[0], topK, &filter)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	documents := make([]Document, 0, len(results))
	for _, r := range results {
		if r.Score < s.threshold {
			continue
		}
		text, _ := r.Payload["text"].(string)
		documents = append(documents, Document{
			ID:       fmt.Sprint(r.ID),
			Score:    r.Score,
			Text:     text,
			Metadata: r.Payload,
		})
	}
	return documents, nil
}

// DeleteAgent removes every vector in the agent's namespace.
func (s *Service) DeleteAgent(ctx context.Context, agentID string) error {
	if err := s.store.DeleteByFilter(ctx, qdrant.MatchField(payloadFieldAgentID, agentID)); err != nil {
		return fmt.Errorf("delete agent vectors: %w", err)
	}
	s.log.Info("knowledge base cleared", "agent_id", agentID)
	return nil
}

// VectorCount returns the number of stored vectors for the agent.
func (s *Service) VectorCount(ctx context.Context, agentID string) (int64, error) {
	count, err := s.store.CountByFilter(ctx, qdrant.MatchField(payloadFieldAgentID, agentID))
	if err != nil {
		return 0, fmt.Errorf("count agent vectors: %w", err)
	}
	return count, nil
}
