// Package service implements training source ingestion.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"convosell_backend/internal/events"
	"convosell_backend/internal/training/pdfextract"
	"convosell_backend/internal/training/repository"
	"convosell_backend/internal/training/scraper"
	"convosell_backend/platform/apperr"
	"convosell_backend/platform/logger"
)

const minTextLength = 50

// AgentGuard verifies that a user owns an agent before training it.
type AgentGuard interface {
	OwnsAgent(ctx context.Context, ownerID, agentID uuid.UUID) error
}

// Knowledge is the knowledge-base port the training flow writes to.
type Knowledge interface {
	AddDocuments(ctx context.Context, agentID string, texts []string, metadata map[string]interface{}) (int, error)
	DeleteAgent(ctx context.Context, agentID string) error
}

// PageScraper fetches and cleans a web page during URL ingestion.
type PageScraper interface {
	Scrape(ctx context.Context, url string) (*scraper.Page, error)
}

// IngestPayload is the unit of ingestion work. It is JSON-serializable so it
// can travel through the task queue.
type IngestPayload struct {
	TrainingDataID uuid.UUID              `json:"trainingDataId"`
	AgentID        uuid.UUID              `json:"agentId"`
	SourceType     string                 `json:"sourceType"`
	Texts          []string               `json:"texts,omitempty"`
	URL            string                 `json:"url,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// Dispatcher hands an ingest payload to the background queue.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload IngestPayload) error
}

// FAQItem is one question/answer pair.
type FAQItem struct {
	Question string
	Answer   string
}

// Receipt reports the outcome of submitting a training source. When
// ingestion runs in the background the status is "processing" and the chunk
// count is not yet known.
type Receipt struct {
	TrainingDataID uuid.UUID
	Status         string
	ChunksCreated  int
	Message        string
}

// Service implements the training operations. A nil dispatcher runs
// ingestion inline; a nil knowledge port disables training entirely.
type Service struct {
	repo       *repository.Repository
	guard      AgentGuard
	knowledge  Knowledge
	scraper    PageScraper
	dispatcher Dispatcher
	maxUpload  int64
	bus        events.Bus
	log        *logger.Logger
}

// New creates the training service.
func New(repo *repository.Repository, guard AgentGuard, knowledge Knowledge, pages PageScraper, dispatcher Dispatcher, maxUpload int64, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		guard:      guard,
		knowledge:  knowledge,
		scraper:    pages,
		dispatcher: dispatcher,
		maxUpload:  maxUpload,
		bus:        bus,
		log:        log,
	}
}

// TrainFromPDF extracts the document text inline and submits it for
// ingestion. The raw file never enters the queue.
func (s *Service) TrainFromPDF(ctx context.Context, ownerID, agentID uuid.UUID, filename string, content []byte) (*Receipt, error) {
	if err := s.precheck(ctx, ownerID, agentID); err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return nil, apperr.BadRequest("only PDF files are allowed")
	}
	if int64(len(content)) > s.maxUpload {
		return nil, apperr.BadRequest(fmt.Sprintf("file too large, maximum size is %dMB", s.maxUpload/(1024*1024)))
	}

	extracted, err := pdfextract.Extract(content)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, "failed to read PDF", err)
	}
	if len(extracted.Texts) == 0 {
		return nil, apperr.BadRequest("no text could be extracted from PDF")
	}

	record, err := s.repo.Create(ctx, agentID, repository.SourcePDF, map[string]interface{}{
		"filename":        filename,
		"pages":           extracted.Pages,
		"extracted_pages": len(extracted.Texts),
	})
	if err != nil {
		return nil, err
	}

	return s.submit(ctx, record, IngestPayload{
		TrainingDataID: record.ID,
		AgentID:        agentID,
		SourceType:     repository.SourcePDF,
		Texts:          extracted.Texts,
		Metadata: map[string]interface{}{
			"filename":        filename,
			"pages":           extracted.Pages,
			"extracted_pages": len(extracted.Texts),
		},
	})
}

// TrainFromURL submits a web page for scraping and ingestion.
func (s *Service) TrainFromURL(ctx context.Context, ownerID, agentID uuid.UUID, url string) (*Receipt, error) {
	if err := s.precheck(ctx, ownerID, agentID); err != nil {
		return nil, err
	}

	record, err := s.repo.Create(ctx, agentID, repository.SourceURL, map[string]interface{}{"url": url})
	if err != nil {
		return nil, err
	}

	return s.submit(ctx, record, IngestPayload{
		TrainingDataID: record.ID,
		AgentID:        agentID,
		SourceType:     repository.SourceURL,
		URL:            url,
		Metadata:       map[string]interface{}{"url": url},
	})
}

// TrainFromFAQ formats question/answer pairs and submits them for ingestion.
// Pairs with a blank question or answer are dropped.
func (s *Service) TrainFromFAQ(ctx context.Context, ownerID, agentID uuid.UUID, items []FAQItem) (*Receipt, error) {
	if err := s.precheck(ctx, ownerID, agentID); err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(items))
	for _, item := range items {
		if item.Question == "" || item.Answer == "" {
			continue
		}
		texts = append(texts, fmt.Sprintf("Q: %s\n\nA: %s", item.Question, item.Answer))
	}
	if len(texts) == 0 {
		return nil, apperr.BadRequest("no valid FAQ items provided")
	}

	record, err := s.repo.Create(ctx, agentID, repository.SourceFAQ, map[string]interface{}{"item_count": len(texts)})
	if err != nil {
		return nil, err
	}

	return s.submit(ctx, record, IngestPayload{
		TrainingDataID: record.ID,
		AgentID:        agentID,
		SourceType:     repository.SourceFAQ,
		Texts:          texts,
		Metadata:       map[string]interface{}{"item_count": len(texts)},
	})
}

// TrainFromText submits raw text for ingestion.
func (s *Service) TrainFromText(ctx context.Context, ownerID, agentID uuid.UUID, text string) (*Receipt, error) {
	if err := s.precheck(ctx, ownerID, agentID); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(text)) < minTextLength {
		return nil, apperr.BadRequest(fmt.Sprintf("text is too short, minimum %d characters", minTextLength))
	}

	record, err := s.repo.Create(ctx, agentID, repository.SourceText, map[string]interface{}{"length": len(text)})
	if err != nil {
		return nil, err
	}

	return s.submit(ctx, record, IngestPayload{
		TrainingDataID: record.ID,
		AgentID:        agentID,
		SourceType:     repository.SourceText,
		Texts:          []string{text},
		Metadata:       map[string]interface{}{"length": len(text)},
	})
}

// List returns an agent's training records.
func (s *Service) List(ctx context.Context, ownerID, agentID uuid.UUID) ([]repository.Record, error) {
	if err := s.guard.OwnsAgent(ctx, ownerID, agentID); err != nil {
		return nil, err
	}
	return s.repo.ListByAgent(ctx, agentID)
}

// Clear removes an agent's knowledge base vectors and training records.
func (s *Service) Clear(ctx context.Context, ownerID, agentID uuid.UUID) error {
	if err := s.precheck(ctx, ownerID, agentID); err != nil {
		return err
	}
	if err := s.knowledge.DeleteAgent(ctx, agentID.String()); err != nil {
		return err
	}
	return s.repo.DeleteByAgent(ctx, agentID)
}

func (s *Service) precheck(ctx context.Context, ownerID, agentID uuid.UUID) error {
	if s.knowledge == nil {
		return apperr.Unavailable("knowledge base is not configured")
	}
	return s.guard.OwnsAgent(ctx, ownerID, agentID)
}

// submit routes the payload to the queue when a dispatcher is configured,
// otherwise ingestion runs inline and the receipt carries the final outcome.
func (s *Service) submit(ctx context.Context, record *repository.Record, payload IngestPayload) (*Receipt, error) {
	if s.dispatcher != nil {
		if err := s.dispatcher.Dispatch(ctx, payload); err != nil {
			s.markFailed(ctx, payload, "failed to queue ingestion")
			return nil, apperr.Wrap(apperr.KindInternal, "failed to queue ingestion", err)
		}
		return &Receipt{
			TrainingDataID: record.ID,
			Status:         repository.StatusProcessing,
			Message:        "training source accepted for processing",
		}, nil
	}

	chunks, err := s.ProcessIngest(ctx, payload)
	if err != nil {
		return nil, err
	}
	return &Receipt{
		TrainingDataID: record.ID,
		Status:         repository.StatusCompleted,
		ChunksCreated:  chunks,
		Message:        fmt.Sprintf("%s processed successfully. %d chunks added to knowledge base.", sourceLabel(payload.SourceType), chunks),
	}, nil
}

// ProcessIngest performs the ingestion work for one payload. It is the entry
// point for both inline mode and the queue worker. The record status and the
// completion events are managed here.
func (s *Service) ProcessIngest(ctx context.Context, payload IngestPayload) (int, error) {
	if s.knowledge == nil {
		return 0, apperr.Unavailable("knowledge base is not configured")
	}

	metadata := make(map[string]interface{}, len(payload.Metadata)+2)
	for k, v := range payload.Metadata {
		metadata[k] = v
	}
	metadata["training_id"] = payload.TrainingDataID.String()
	metadata["type"] = payload.SourceType

	texts := payload.Texts
	if payload.SourceType == repository.SourceURL {
		page, err := s.scraper.Scrape(ctx, payload.URL)
		if err != nil {
			s.markFailed(ctx, payload, err.Error())
			return 0, apperr.Wrap(apperr.KindBadRequest, "failed to process URL", err)
		}
		texts = []string{page.Text}
		metadata["source_url"] = page.URL
		metadata["title"] = page.Title
		metadata["content_length"] = len(page.Text)
	}

	chunks, err := s.knowledge.AddDocuments(ctx, payload.AgentID.String(), texts, metadata)
	if err != nil {
		s.markFailed(ctx, payload, err.Error())
		return 0, apperr.Wrap(apperr.KindUnavailable, "failed to ingest training source", err)
	}

	completed := make(map[string]interface{}, len(metadata)+1)
	for k, v := range metadata {
		completed[k] = v
	}
	completed["chunks_created"] = chunks
	if err := s.repo.UpdateStatus(ctx, payload.TrainingDataID, repository.StatusCompleted, completed); err != nil {
		s.log.DatabaseError("mark training completed", err)
	}

	s.bus.Publish(ctx, events.TrainingCompleted{
		BaseEvent:      events.NewBaseEvent(),
		AgentID:        payload.AgentID,
		TrainingDataID: payload.TrainingDataID,
		SourceType:     payload.SourceType,
		ChunkCount:     chunks,
	})
	return chunks, nil
}

func (s *Service) markFailed(ctx context.Context, payload IngestPayload, reason string) {
	metadata := make(map[string]interface{}, len(payload.Metadata)+1)
	for k, v := range payload.Metadata {
		metadata[k] = v
	}
	metadata["error"] = reason

	if err := s.repo.UpdateStatus(ctx, payload.TrainingDataID, repository.StatusFailed, metadata); err != nil {
		s.log.DatabaseError("mark training failed", err)
	}

	s.bus.Publish(ctx, events.TrainingFailed{
		BaseEvent:      events.NewBaseEvent(),
		AgentID:        payload.AgentID,
		TrainingDataID: payload.TrainingDataID,
		SourceType:     payload.SourceType,
		Reason:         reason,
	})
}

func sourceLabel(sourceType string) string {
	switch sourceType {
	case repository.SourcePDF:
		return "PDF"
	case repository.SourceURL:
		return "URL"
	case repository.SourceFAQ:
		return "FAQ"
	default:
		return "Text"
	}
}
