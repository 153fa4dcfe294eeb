// The worker binary consumes queued training jobs. It shares the API's
// composition for everything the ingest flow touches: the knowledge base,
// the training service and email notifications.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"convosell_backend/internal/adapters"
	"convosell_backend/internal/agents"
	"convosell_backend/internal/auth"
	chatrepo "convosell_backend/internal/chat/repository"
	"convosell_backend/internal/email"
	"convosell_backend/internal/events"
	"convosell_backend/internal/knowledge"
	"convosell_backend/internal/knowledge/chunker"
	"convosell_backend/internal/notification"
	"convosell_backend/internal/scheduler"
	"convosell_backend/internal/training"
	"convosell_backend/platform/ai/openai"
	"convosell_backend/platform/config"
	"convosell_backend/platform/db"
	"convosell_backend/platform/logger"
	"convosell_backend/platform/qdrant"
	"convosell_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting queue worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.GetRedisURL() == "" {
		log.Error("REDIS_URL not configured; nothing to consume")
		panic("REDIS_URL not configured")
	}
	if !cfg.IsQdrantEnabled() {
		log.Error("QDRANT_URL not configured; training ingestion requires the vector store")
		panic("QDRANT_URL not configured")
	}

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	openaiClient := openai.NewClient(cfg)
	qdrantClient := qdrant.NewClient(qdrant.Config{
		BaseURL:    cfg.GetQdrantURL(),
		APIKey:     cfg.GetQdrantAPIKey(),
		Collection: cfg.GetQdrantCollection(),
	})
	splitter := chunker.NewSplitter(cfg.GetChunkSize(), cfg.GetChunkOverlap())
	knowledgeSvc := knowledge.NewService(qdrantClient, openaiClient, splitter, cfg, log)

	if err := withRetry(ctx, log, "qdrant collection bootstrap", 5, 2*time.Second, func() error {
		return knowledgeSvc.Bootstrap(ctx)
	}); err != nil {
		log.Error("failed to bootstrap vector collection", "error", err)
		panic("failed to bootstrap vector collection: " + err.Error())
	}
	knowledge.RegisterSubscribers(eventBus, knowledgeSvc)

	authModule := auth.NewModule(pool, cfg, eventBus, val, log)
	agentsModule := agents.NewModule(pool, adapters.NewAgentKnowledgeStats(knowledgeSvc), chatrepo.New(pool), eventBus, val, log)
	guard := adapters.NewAgentOwnershipGuard(agentsModule.Repository())

	// The worker processes jobs itself, so the training service runs with a
	// nil dispatcher and ingests inline.
	trainingModule := training.NewModule(pool, guard, knowledgeSvc, nil, cfg, eventBus, val, log)

	if cfg.GetEmailEnabled() {
		sender := email.NewSMTPSender(
			cfg.GetSMTPHost(),
			cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(),
			cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(),
			cfg.GetEmailFromName(),
		)
		notifier := notification.NewNotifier(
			sender,
			adapters.NewNotificationAgentSource(agentsModule.Repository()),
			adapters.NewNotificationUserDirectory(authModule.Repository()),
			log,
		)
		notification.RegisterSubscribers(eventBus, notifier)
		log.Info("email notifications enabled", "from", cfg.GetEmailFromAddress())
	}

	worker, err := scheduler.NewWorker(cfg, trainingModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize queue worker", "error", err)
		panic("failed to initialize queue worker: " + err.Error())
	}

	log.Info("queue worker listening", "queue", cfg.GetAsynqQueueName())
	worker.Run(ctx)
	log.Info("queue worker stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
