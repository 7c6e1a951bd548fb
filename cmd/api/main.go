package main

import (
	"context"
	"crypto/tls"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/staywise/concierge/cmd/mainconfig"
	"github.com/staywise/concierge/internal/api/router"
	"github.com/staywise/concierge/internal/bookings"
	"github.com/staywise/concierge/internal/cache"
	appconfig "github.com/staywise/concierge/internal/config"
	"github.com/staywise/concierge/internal/conversation"
	"github.com/staywise/concierge/internal/http/handlers"
	"github.com/staywise/concierge/internal/inventory"
	"github.com/staywise/concierge/internal/llm"
	"github.com/staywise/concierge/internal/messaging/whatsappclient"
	observemetrics "github.com/staywise/concierge/internal/observability/metrics"
	"github.com/staywise/concierge/internal/session"
	"github.com/staywise/concierge/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting concierge API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	catalog, err := inventory.Load(cfg.InventoryPath)
	if err != nil {
		logger.Error("failed to load inventory", "error", err, "path", cfg.InventoryPath)
		os.Exit(1)
	}

	metrics := observemetrics.NewPipelineMetrics(nil)

	// Reply cache: Redis when configured, in-process otherwise.
	var replyCache cache.ReplyCache = cache.NewMemoryCache()
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		replyCache = cache.NewRedisCache(redis.NewClient(opts))
		logger.Info("using redis reply cache", "addr", cfg.RedisAddr)
	}

	// Bookings: Postgres when configured, in-memory otherwise.
	var bookingRepo bookings.Repository = bookings.NewMemoryRepository()
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		bookingRepo = bookings.NewPostgresRepository(pool)
		logger.Info("using postgres bookings repository")
	}

	// AWS config is only needed for the Bedrock fallback tier and the SQS queue.
	var awsCfg aws.Config
	if cfg.BedrockModelID != "" || !cfg.UseMemoryQueue {
		awsCfg, err = mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
	}

	// Generation backends: Gemini primary, Bedrock fallback tier.
	geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}
	defer func() { _ = geminiClient.Close() }()

	var generation llm.Client = geminiClient
	if cfg.BedrockModelID != "" {
		bedrock := llm.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg))
		generation = llm.NewFallbackClient(geminiClient, bedrock, cfg.BedrockModelID, logger.Logger)
		logger.Info("bedrock fallback tier enabled", "model_id", cfg.BedrockModelID)
	}

	generator := conversation.NewReplyGenerator(generation, replyCache, conversation.GeneratorConfig{
		Model:       cfg.GeminiModelID,
		System:      "You are a concise, friendly hotel concierge. Answer in a few sentences.",
		MaxTokens:   512,
		Temperature: 0.7,
		Delay:       cfg.GenerateDelay,
		Timeout:     cfg.GenerateTimeout,
		CacheTTL:    cfg.ReplyCacheTTL,
	}, logger)

	sessions := session.NewMemoryStore()
	fallbacks := conversation.NewFallbackReplies(rand.New(rand.NewSource(time.Now().UnixNano())))
	orchestrator := conversation.NewOrchestrator(catalog, sessions, bookingRepo, generator, fallbacks, metrics, logger)

	whatsapp, err := whatsappclient.New(whatsappclient.Config{
		BaseURL:       cfg.GraphBaseURL,
		Token:         cfg.MetaToken,
		PhoneNumberID: cfg.PhoneNumberID,
		MaxChars:      cfg.ReplyMaxChars,
		Timeout:       cfg.SendTimeout,
		Logger:        logger.Logger,
	})
	if err != nil {
		logger.Error("failed to create whatsapp client", "error", err)
		os.Exit(1)
	}

	// Delivery pipeline: in-memory channel by default, SQS when configured.
	var queue conversation.Queue = conversation.NewMemoryQueue(256)
	if !cfg.UseMemoryQueue {
		queue = conversation.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.QueueURL)
		logger.Info("using SQS conversation queue", "queue_url", cfg.QueueURL)
	}

	publisher := conversation.NewPublisher(queue, logger)
	worker := conversation.NewWorker(orchestrator, queue, whatsapp, metrics, logger,
		conversation.WithWorkerCount(cfg.WorkerCount),
		conversation.WithSendTimeout(cfg.SendTimeout),
	)

	workerCtx, stopWorkers := context.WithCancel(ctx)
	worker.Start(workerCtx)

	webhookHandler := handlers.NewWhatsAppWebhookHandler(handlers.WhatsAppWebhookConfig{
		Publisher:   publisher,
		VerifyToken: cfg.VerifyToken,
		Logger:      logger,
		Metrics:     metrics,
	})

	r := router.New(&router.Config{
		Logger:           logger,
		WhatsAppWebhooks: webhookHandler,
		MetricsHandler:   promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	stopWorkers()
	worker.Wait()

	logger.Info("server stopped")
}
