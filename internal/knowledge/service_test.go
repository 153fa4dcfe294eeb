package knowledge

import (
	"context"
	"errors"
	"testing"

	"convosell_backend/platform/logger"
	"convosell_backend/platform/qdrant"
)

type fakeStore struct {
	points        []qdrant.Point
	searchResults []qdrant.SearchResult
	searchFilter  *qdrant.Filter
	searchLimit   int
	deleteFilter  *qdrant.Filter
	count         int64
	err           error
}

func (f *fakeStore) Search(ctx context.Context, vector []float32, limit int, filter *qdrant.Filter) ([]qdrant.SearchResult, error) {
	f.searchFilter = filter
	f.searchLimit = limit
	return f.searchResults, f.err
}

func (f *fakeStore) Upsert(ctx context.Context, points []qdrant.Point) error {
	if f.err != nil {
		return f.err
	}
	f.points = append(f.points, points...)
	return nil
}

func (f *fakeStore) DeleteByFilter(ctx context.Context, filter qdrant.Filter) error {
	f.deleteFilter = &filter
	return f.err
}

func (f *fakeStore) CountByFilter(ctx context.Context, filter qdrant.Filter) (int64, error) {
	return f.count, f.err
}

func (f *fakeStore) EnsureCollection(ctx context.Context, vectorSize int) error {
	return f.err
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(len(texts[i]))}
	}
	return vectors, nil
}

type fakeSplitter struct{}

func (fakeSplitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	return []string{text}
}

type retrievalCfg struct {
	topK      int
	threshold float64
}

func (c retrievalCfg) GetVectorTopK() int                    { return c.topK }
func (c retrievalCfg) GetVectorSimilarityThreshold() float64 { return c.threshold }
func (c retrievalCfg) GetChunkSize() int                     { return 1000 }
func (c retrievalCfg) GetChunkOverlap() int                  { return 200 }

func newTestService(store *fakeStore, embedder *fakeEmbedder) *Service {
	return NewService(store, embedder, fakeSplitter{}, retrievalCfg{topK: 3, threshold: 0.7}, logger.New("test"))
}

func TestAddDocuments_ScopesPayloadToAgent(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeEmbedder{})

	count, err := svc.AddDocuments(context.Background(), "agent-1", []string{"doc one", "doc two"}, map[string]interface{}{"source_type": "text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 chunks, got %d", count)
	}
	if len(store.points) != 2 {
		t.Fatalf("expected 2 upserted points, got %d", len(store.points))
	}
	for _, p := range store.points {
		if p.Payload[payloadFieldAgentID] != "agent-1" {
			t.Fatalf("expected agent scoping in payload, got %v", p.Payload)
		}
		if p.Payload["source_type"] != "text" {
			t.Fatalf("expected metadata carried into payload, got %v", p.Payload)
		}
		if p.Payload["text"] == "" {
			t.Fatal("expected chunk text in payload")
		}
	}
}

func TestAddDocuments_EmptyInputIsNoop(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeEmbedder{})

	count, err := svc.AddDocuments(context.Background(), "agent-1", []string{""}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 || len(store.points) != 0 {
		t.Fatalf("expected no chunks written, got count=%d points=%d", count, len(store.points))
	}
}

func TestAddDocuments_EmbedderFailurePropagates(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeEmbedder{err: errors.New("embedding quota")})

	if _, err := svc.AddDocuments(context.Background(), "agent-1", []string{"doc"}, nil); err == nil {
		t.Fatal("expected error from failing embedder")
	}
	if len(store.points) != 0 {
		t.Fatal("expected no points written after embed failure")
	}
}

func TestSearch_FiltersByAgentAndThreshold(t *testing.T) {
	store := &fakeStore{searchResults: []qdrant.SearchResult{
		{ID: "a", Score: 0.92, Payload: map[string]interface{}{"text": "kept"}},
		{ID: "b", Score: 0.41, Payload: map[string]interface{}{"text": "dropped"}},
	}}
	svc := newTestService(store, &fakeEmbedder{})

	docs, err := svc.Search(context.Background(), "agent-1", "warranty", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document above threshold, got %d", len(docs))
	}
	if docs[0].Text != "kept" {
		t.Fatalf("expected surviving document, got %q", docs[0].Text)
	}
	if store.searchLimit != 3 {
		t.Fatalf("expected configured topK 3, got %d", store.searchLimit)
	}
	if store.searchFilter == nil || len(store.searchFilter.Must) != 1 || store.searchFilter.Must[0].Key != payloadFieldAgentID {
		t.Fatalf("expected agent filter on search, got %+v", store.searchFilter)
	}
}

func TestDeleteAgent_UsesAgentFilter(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeEmbedder{})

	if err := svc.DeleteAgent(context.Background(), "agent-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.deleteFilter == nil || store.deleteFilter.Must[0].Match.Value != "agent-1" {
		t.Fatalf("expected delete scoped to agent, got %+v", store.deleteFilter)
	}
}

func TestVectorCount(t *testing.T) {
	store := &fakeStore{count: 42}
	svc := newTestService(store, &fakeEmbedder{})

	count, err := svc.VectorCount(context.Background(), "agent-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 42 {
		t.Fatalf("expected 42, got %d", count)
	}
}
