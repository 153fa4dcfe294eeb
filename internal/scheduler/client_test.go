package scheduler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	trainingservice "convosell_backend/internal/training/service"
)

type schedCfg struct {
	redisURL string
	queue    string
}

func (c schedCfg) GetRedisURL() string       { return c.redisURL }
func (c schedCfg) GetAsynqQueueName() string { return c.queue }

func TestNewClient_RequiresRedisURL(t *testing.T) {
	if _, err := NewClient(schedCfg{}); err == nil {
		t.Fatal("expected error without redis url")
	}
}

func TestNewClient_RejectsMalformedURL(t *testing.T) {
	if _, err := NewClient(schedCfg{redisURL: "not-a-url"}); err == nil {
		t.Fatal("expected error for malformed redis url")
	}
}

func TestDispatch_EnqueuesTrainingIngest(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := schedCfg{redisURL: "redis://" + mr.Addr(), queue: "training"}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	payload := trainingservice.IngestPayload{
		TrainingDataID: uuid.New(),
		AgentID:        uuid.New(),
		SourceType:     "faq",
		Texts:          []string{"Q: hours?\n\nA: 9 to 5"},
	}
	if err := client.Dispatch(context.Background(), payload); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	opt, err := redis.ParseURL(cfg.redisURL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: opt.Addr})
	defer inspector.Close()

	pending, err := inspector.ListPendingTasks("training", asynq.PageSize(10))
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending task, got %d", len(pending))
	}
	if pending[0].Type != TaskTrainingIngest {
		t.Fatalf("expected task type %q, got %q", TaskTrainingIngest, pending[0].Type)
	}

	decoded, err := ParseTrainingIngestPayload(asynq.NewTask(pending[0].Type, pending[0].Payload))
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if decoded.AgentID != payload.AgentID || decoded.SourceType != "faq" {
		t.Fatalf("payload round trip mismatch: %+v", decoded)
	}
}

func TestTrainingIngestTask_RoundTrip(t *testing.T) {
	payload := trainingservice.IngestPayload{
		TrainingDataID: uuid.New(),
		AgentID:        uuid.New(),
		SourceType:     "url",
		URL:            "https://example.com/pricing",
		Metadata:       map[string]interface{}{"url": "https://example.com/pricing"},
	}

	task, err := NewTrainingIngestTask(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Type() != TaskTrainingIngest {
		t.Fatalf("expected type %q, got %q", TaskTrainingIngest, task.Type())
	}

	decoded, err := ParseTrainingIngestPayload(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.TrainingDataID != payload.TrainingDataID || decoded.URL != payload.URL {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}
