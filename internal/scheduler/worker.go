package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	trainingservice "convosell_backend/internal/training/service"
	"convosell_backend/platform/config"
	"convosell_backend/platform/logger"
)

const workerConcurrency = 10

// Worker consumes background jobs from the queue.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	training *trainingservice.Service
	log      *logger.Logger
}

// NewWorker creates the queue worker.
func NewWorker(cfg config.SchedulerConfig, training *trainingservice.Service, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: workerConcurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		training: training,
		log:      log,
	}

	mux.HandleFunc(TaskTrainingIngest, w.handleTrainingIngest)

	return w, nil
}

// Run serves the queue until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("queue worker stopped", "error", err)
	}
}

func (w *Worker) handleTrainingIngest(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseTrainingIngestPayload(task)
	if err != nil {
		return err
	}

	chunks, err := w.training.ProcessIngest(ctx, payload)
	if err != nil {
		// Record status and failure events are handled inside ProcessIngest;
		// returning the error lets asynq apply its retry policy.
		return err
	}

	w.log.Info("training source ingested",
		"training_data_id", payload.TrainingDataID.String(),
		"agent_id", payload.AgentID.String(),
		"source_type", payload.SourceType,
		"chunks", chunks,
	)
	return nil
}
