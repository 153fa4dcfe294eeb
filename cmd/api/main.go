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
	"convosell_backend/internal/adapters/storage"
	"convosell_backend/internal/agents"
	"convosell_backend/internal/analytics"
	"convosell_backend/internal/auth"
	"convosell_backend/internal/builder"
	"convosell_backend/internal/chat"
	"convosell_backend/internal/chat/pipeline"
	chatrepo "convosell_backend/internal/chat/repository"
	"convosell_backend/internal/email"
	"convosell_backend/internal/events"
	apphttp "convosell_backend/internal/http"
	"convosell_backend/internal/http/router"
	"convosell_backend/internal/knowledge"
	"convosell_backend/internal/knowledge/chunker"
	"convosell_backend/internal/notification"
	"convosell_backend/internal/orders"
	"convosell_backend/internal/products"
	"convosell_backend/internal/scheduler"
	"convosell_backend/internal/training"
	trainingservice "convosell_backend/internal/training/service"
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

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.Migrate(cfg.DatabaseURL, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// OpenAI client serves both chat completions and embeddings
	openaiClient := openai.NewClient(cfg)

	// Knowledge base (Qdrant). Optional: without it the pipeline runs with
	// an empty retrieval stage and training ingestion is refused.
	var knowledgeSvc *knowledge.Service
	if cfg.IsQdrantEnabled() {
		qdrantClient := qdrant.NewClient(qdrant.Config{
			BaseURL:    cfg.GetQdrantURL(),
			APIKey:     cfg.GetQdrantAPIKey(),
			Collection: cfg.GetQdrantCollection(),
		})
		splitter := chunker.NewSplitter(cfg.GetChunkSize(), cfg.GetChunkOverlap())
		knowledgeSvc = knowledge.NewService(qdrantClient, openaiClient, splitter, cfg, log)

		if err := withRetry(ctx, log, "qdrant collection bootstrap", 5, 2*time.Second, func() error {
			return knowledgeSvc.Bootstrap(ctx)
		}); err != nil {
			log.Error("failed to bootstrap vector collection", "error", err)
			panic("failed to bootstrap vector collection: " + err.Error())
		}
		knowledge.RegisterSubscribers(eventBus, knowledgeSvc)
		log.Info("knowledge base initialized", "collection", cfg.GetQdrantCollection())
	} else {
		log.Warn("QDRANT_URL not configured; retrieval and training ingestion disabled")
	}

	var retriever pipeline.Retriever
	if knowledgeSvc != nil {
		retriever = adapters.NewKnowledgeRetriever(knowledgeSvc)
	}
	pipe := pipeline.New(adapters.NewLLMGenerator(openaiClient), retriever, pipeline.Config{
		TopK:             cfg.GetVectorTopK(),
		HistoryWindow:    cfg.GetMaxConversationHistory(),
		RetrievalTimeout: cfg.GetRetrievalTimeout(),
	}, log)

	// Storage service for product image uploads (MinIO). Optional.
	var store storage.Service
	if cfg.IsMinIOEnabled() {
		minioSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure product images bucket", 5, 2*time.Second, func() error {
			return minioSvc.EnsureBucketExists(ctx, cfg.GetMinioBucketProductImages())
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		store = minioSvc
		log.Info("storage service initialized", "productImagesBucket", cfg.GetMinioBucketProductImages())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; product image uploads disabled")
	}

	// Background queue client (asynq). Optional: without Redis, training
	// sources are ingested inline on the request path.
	var dispatcher trainingservice.Dispatcher
	if cfg.GetRedisURL() != "" {
		schedClient, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize scheduler client", "error", err)
			panic("failed to initialize scheduler client: " + err.Error())
		}
		defer schedClient.Close()
		dispatcher = schedClient
		log.Info("training dispatcher initialized", "queue", cfg.GetAsynqQueueName())
	} else {
		log.Warn("REDIS_URL not configured; training sources are processed inline")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule := auth.NewModule(pool, cfg, eventBus, val, log)

	// The chat module builds its own repository; agents only needs the
	// conversation counter, so a second stateless instance avoids a
	// construction cycle between the two modules.
	chatConversations := chatrepo.New(pool)
	agentsModule := agents.NewModule(pool, adapters.NewAgentKnowledgeStats(knowledgeSvc), chatConversations, eventBus, val, log)

	guard := adapters.NewAgentOwnershipGuard(agentsModule.Repository())
	productsModule := products.NewModule(pool, guard, store, cfg, val, log)

	chatModule := chat.NewModule(
		pool,
		adapters.NewChatAgentSource(agentsModule.Repository()),
		adapters.NewChatProductSource(productsModule.Repository()),
		pipe,
		eventBus,
		val,
		log,
	)

	var trainingKnowledge trainingservice.Knowledge
	if knowledgeSvc != nil {
		trainingKnowledge = knowledgeSvc
	}
	trainingModule := training.NewModule(pool, guard, trainingKnowledge, dispatcher, cfg, eventBus, val, log)

	// The conversational builder drives agent setup through the other
	// modules' services so the usual defaults and events apply.
	builderModule := builder.NewModule(
		adapters.NewLLMGenerator(openaiClient),
		adapters.NewBuilderAgentDirectory(agentsModule.Service()),
		adapters.NewBuilderCatalog(productsModule.Service()),
		adapters.NewBuilderTrainer(trainingModule.Service()),
		val,
		log,
	)

	ordersModule := orders.NewModule(pool, guard, eventBus, val, log)
	analyticsModule := analytics.NewModule(pool, adapters.NewAnalyticsAgentDirectory(agentsModule.Repository()), eventBus, log)

	// Email notifications subscribe to domain events (not HTTP-facing)
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

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			agentsModule,
			productsModule,
			chatModule,
			trainingModule,
			builderModule,
			ordersModule,
			analyticsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
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
