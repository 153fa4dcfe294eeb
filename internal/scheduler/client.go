package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	trainingservice "convosell_backend/internal/training/service"
	"convosell_backend/platform/config"
)

// Client enqueues background jobs. It implements the training service's
// Dispatcher port.
type Client struct {
	client *asynq.Client
	queue  string
}

// NewClient creates the queue client. Fails when no redis URL is configured;
// the caller then falls back to inline processing.
func NewClient(cfg config.SchedulerConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

// Close releases the underlying redis connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Dispatch enqueues a training ingest payload.
func (c *Client) Dispatch(ctx context.Context, payload trainingservice.IngestPayload) error {
	task, err := NewTrainingIngestTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(3))
	return err
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

// Compile-time check against the training dispatcher port.
var _ trainingservice.Dispatcher = (*Client)(nil)
