// Package scheduler provides the asynq-backed background job queue.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	trainingservice "convosell_backend/internal/training/service"
)

// TaskTrainingIngest ingests one training source into the knowledge base.
const TaskTrainingIngest = "training.ingest"

// NewTrainingIngestTask wraps an ingest payload as an asynq task.
func NewTrainingIngestTask(payload trainingservice.IngestPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTrainingIngest, data), nil
}

// ParseTrainingIngestPayload unwraps an ingest payload from an asynq task.
func ParseTrainingIngestPayload(task *asynq.Task) (trainingservice.IngestPayload, error) {
	var payload trainingservice.IngestPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return trainingservice.IngestPayload{}, err
	}
	return payload, nil
}
