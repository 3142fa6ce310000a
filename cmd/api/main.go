package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/postop-assist/backend/internal/api/handlers"
	rediscache "github.com/postop-assist/backend/internal/cache/redis"
	"github.com/postop-assist/backend/internal/chat"
	"github.com/postop-assist/backend/internal/index"
	"github.com/postop-assist/backend/internal/knowledge"
	"github.com/postop-assist/backend/internal/logsink"
	"github.com/postop-assist/backend/internal/metrics"
	"github.com/postop-assist/backend/internal/middleware/ratelimit"
	"github.com/postop-assist/backend/internal/middleware/security"
	"github.com/postop-assist/backend/internal/middleware/validation"
	"github.com/postop-assist/backend/internal/normalizer"
	"github.com/postop-assist/backend/internal/responder"
	"github.com/postop-assist/backend/internal/safety"
	"github.com/postop-assist/backend/internal/session"
	"github.com/postop-assist/backend/internal/storage/sqlite"
	"github.com/postop-assist/backend/pkg/config"
	appLogger "github.com/postop-assist/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting postoperative-care assistant API server")

	metrics.Init()

	db, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	// The knowledge base and index are built exactly once per process; a
	// corrupt or partial load aborts startup rather than answering from
	// gaps.
	norm := normalizer.ForMode(cfg.Chat.VectorizerMode, cfg.Chat.Stopwords)
	base, err := knowledge.LoadFile(cfg.Knowledge.Path, norm)
	if err != nil {
		appLogger.Fatal("Failed to load knowledge base", zap.Error(err))
	}
	metrics.KnowledgeEntries.Set(float64(len(base.Entries)))

	ix, err := index.Build(base.Corpus, index.Config{
		Mode:     cfg.Chat.VectorizerMode,
		NGramMin: cfg.Chat.NGramMin,
		NGramMax: cfg.Chat.NGramMax,
	})
	if err != nil {
		appLogger.Fatal("Failed to build similarity index", zap.Error(err))
	}
	appLogger.Info("Similarity index built",
		zap.Int("entries", ix.Len()),
		zap.String("mode", cfg.Chat.VectorizerMode),
	)

	guard := safety.New(norm, safety.DefaultEmergencyTerms(), safety.DefaultOutOfScopeTerms())

	var sinks logsink.MultiSink
	sinks = append(sinks, logsink.NewSQLiteSink(db))
	if cfg.Sheets.Enabled {
		sinks = append(sinks, logsink.NewSheetsSink(logsink.SheetsConfig{
			WebhookURL:  cfg.Sheets.WebhookURL,
			Timeout:     time.Duration(cfg.Sheets.TimeoutSec) * time.Second,
			MaxAttempts: cfg.Sheets.MaxAttempts,
		}))
	}
	asyncSink := logsink.NewAsyncSink(sinks, cfg.Sheets.QueueSize)
	defer asyncSink.Close()

	composer := responder.New(guard, norm, base, ix, asyncSink, responder.Config{
		MatchThreshold:  cfg.Chat.MatchThreshold,
		ShortQueryWords: cfg.Chat.ShortQueryWords,
		QuickMaxWords:   cfg.Chat.QuickMaxWords,
	})

	if cfg.Redis.Enabled {
		cache, err := rediscache.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSec)*time.Second,
		)
		if err != nil {
			appLogger.Warn("Redis unavailable, running without match cache", zap.Error(err))
		} else {
			defer cache.Close()
			composer.WithCache(cache)
		}
	}

	sessions := session.NewStore()
	engine := chat.NewEngine(composer, sessions, db)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-Session-ID",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Logger:               appLogger.Log,
	})
	defer limiter.Stop()
	app.Use(limiter.Middleware())

	app.Use(validation.Middleware(validation.Config{
		MaxMessageLength: cfg.Chat.MaxMessageLength,
		Logger:           appLogger.Log,
	}))

	chatHandler := handlers.NewChatHandler(engine)
	feedbackHandler := handlers.NewFeedbackHandler(db, asyncSink)
	patientHandler := handlers.NewPatientHandler(db)
	wsHandler := handlers.NewWebSocketHandler(engine)

	api := app.Group("/api/v1")

	api.Post("/chat", chatHandler.HandleTurn)
	api.Get("/chat/history", chatHandler.GetHistory)
	api.Delete("/sessions/:id", chatHandler.ResetSession)

	api.Post("/feedback", feedbackHandler.SubmitFeedback)
	api.Get("/unanswered", feedbackHandler.ListUnanswered)

	api.Post("/patients", patientHandler.Register)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"entries": ix.Len(),
			"time":    time.Now().Unix(),
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat", websocket.New(wsHandler.HandleConnection))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
