package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-generator/internal/adapter"
	"quiz-generator/internal/adapter/contentapi"
	"quiz-generator/internal/adapter/textgen"
	"quiz-generator/internal/cache"
	"quiz-generator/internal/config"
	"quiz-generator/internal/database"
	"quiz-generator/internal/domain"
	"quiz-generator/internal/handler"
	"quiz-generator/internal/logger"
	"quiz-generator/internal/middleware"
	"quiz-generator/internal/repository"
	"quiz-generator/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to postgres
	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to postgres", zap.String("host", cfg.DB.Host))

	// Connect to redis; the cache is optional, the service degrades to
	// storage-only reads without it.
	var quizCache domain.Cache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Warn("Redis unavailable, quiz read cache disabled", zap.Error(err))
	} else {
		quizCache = adapter.NewRedisCacheAdapter(redisClient)
		defer redisClient.Close()
	}

	// Initialize the AI generator
	generator, err := textgen.NewAnthropicGenerator(
		cfg.Anthropic.APIKey,
		cfg.Anthropic.Model,
		cfg.Generation.AttemptTimeout,
		appLogger,
	)
	if err != nil {
		appLogger.Fatal("Failed to create Anthropic generator", zap.Error(err))
	}

	// Content-processor client, used when a request carries no content.
	var contentFetcher domain.ContentFetcher
	if cfg.ContentProcessor.BaseURL != "" {
		contentFetcher = contentapi.NewClient(cfg.ContentProcessor.BaseURL, cfg.ContentProcessor.Timeout, appLogger)
	}

	quizRepo := repository.NewQuizDatabaseAdapter(db)
	quizService := service.NewQuizService(quizRepo, generator, quizCache, contentFetcher, cfg.Generation, appLogger)
	quizHandler := handler.NewQuizHandler(quizService)
	healthHandler := handler.NewHealthHandler(quizRepo, quizCache)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(requestLogger())

	app.Post("/generate-quiz", quizHandler.GenerateQuiz)
	app.Get("/quizzes/:quiz_id", quizHandler.GetQuiz)
	app.Get("/quizzes", quizHandler.ListQuizzes)
	app.Delete("/quizzes/:quiz_id", quizHandler.DeleteQuiz)
	app.Get("/health", healthHandler.Health)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		appLogger.Info("Starting server", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("Server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
