package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pkompalli/QBank-Generator/internal/adapter"
	"github.com/pkompalli/QBank-Generator/internal/adapter/imagegen"
	"github.com/pkompalli/QBank-Generator/internal/adapter/llmclient"
	"github.com/pkompalli/QBank-Generator/internal/adapter/qbankgen"
	"github.com/pkompalli/QBank-Generator/internal/cache"
	"github.com/pkompalli/QBank-Generator/internal/catalog"
	"github.com/pkompalli/QBank-Generator/internal/config"
	"github.com/pkompalli/QBank-Generator/internal/database"
	"github.com/pkompalli/QBank-Generator/internal/domain"
	"github.com/pkompalli/QBank-Generator/internal/handler"
	"github.com/pkompalli/QBank-Generator/internal/imagepipe"
	"github.com/pkompalli/QBank-Generator/internal/logger"
	"github.com/pkompalli/QBank-Generator/internal/middleware"
	"github.com/pkompalli/QBank-Generator/internal/repository"
	"github.com/pkompalli/QBank-Generator/internal/review"
	"github.com/pkompalli/QBank-Generator/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tmc/langchaingo/llms/anthropic"
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

func buildCache(cfg *config.Config, appLogger *zap.Logger) domain.Cache {
	if cfg.Image.CacheBackend == "redis" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		appLogger.Info("Using Redis image cache", zap.String("address", cfg.Redis.Address))
		return adapter.NewRedisCacheAdapter(redisClient)
	}

	fileCache, err := adapter.NewFileCacheAdapter(cfg.Image.CacheFilePath)
	if err != nil {
		appLogger.Fatal("Failed to open file cache", zap.Error(err))
	}
	appLogger.Info("Using file image cache", zap.String("path", cfg.Image.CacheFilePath))
	return fileCache
}

func buildMediaSources(cfg *config.Config, appLogger *zap.Logger) []domain.MediaSource {
	var sources []domain.MediaSource
	for _, name := range cfg.Image.Sources {
		switch name {
		case "openi":
			sources = append(sources, imagepipe.NewOpenIAdapter(15*time.Second))
		case "wikimedia":
			sources = append(sources, imagepipe.NewWikimediaAdapter(15*time.Second))
		default:
			appLogger.Warn("Unknown media source in config; skipping", zap.String("source", name))
		}
	}
	return sources
}

func loadExamplesOrWarn(path string, appLogger *zap.Logger) []domain.ContentItem {
	if path == "" {
		return nil
	}
	examples, err := catalog.LoadExamples(path, 3)
	if err != nil {
		appLogger.Warn("Could not load few-shot examples; generating without them",
			zap.String("path", path),
			zap.Error(err),
		)
		return nil
	}
	return examples
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

	// LLM client (review passes, generation, vision scoring, localization)
	model, err := anthropic.New(
		anthropic.WithToken(cfg.LLM.AnthropicAPIKey),
		anthropic.WithModel(cfg.LLM.Model),
	)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	llm := llmclient.New(model, cfg.LLM.Timeout)

	// Vision calls (candidate scoring, marker localization) can run on a
	// different model than the text passes.
	visionLLM := llm
	if cfg.LLM.VisionModelName() != cfg.LLM.Model {
		visionModel, err := anthropic.New(
			anthropic.WithToken(cfg.LLM.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLM.VisionModelName()),
		)
		if err != nil {
			appLogger.Fatal("Failed to create vision LLM client", zap.Error(err))
		}
		visionLLM = llmclient.New(visionModel, cfg.LLM.Timeout)
	}

	// Connect to database
	db, err := database.NewSQLXSQLiteDB(cfg.DB.Path)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	questionSetRepo, err := repository.NewQuestionSetDatabaseAdapter(db)
	if err != nil {
		appLogger.Fatal("Failed to initialize question set repository", zap.Error(err))
	}

	// Image resolution pipeline
	imageCache := buildCache(cfg, appLogger)
	fetcher := imagepipe.NewFetcher(30 * time.Second)
	collector := imagepipe.NewMultiSource(buildMediaSources(cfg, appLogger), cfg.Image.MaxCandidates, appLogger)
	scorer := imagepipe.NewLLMVisionScorer(visionLLM, fetcher, cfg.Image.RequestsPerSecond, appLogger)
	annotator := imagepipe.NewVisionAnnotator(visionLLM, appLogger)

	var generator domain.ImageGenerator
	if cfg.LLM.OpenAIAPIKey != "" {
		generator = imagegen.NewOpenAIGenerator(cfg.LLM.OpenAIAPIKey, cfg.Image.MediaDir, appLogger)
	} else {
		appLogger.Warn("OPENAI_API_KEY not set; generative image fallback disabled")
	}

	resolver := imagepipe.NewResolver(imageCache, collector, scorer, generator, annotator, fetcher, cfg.Image.MediaDir, cfg.Image.ScoreThreshold, appLogger)

	// Review pipeline
	prescreener := review.NewPreScreener(appLogger)
	reviewer := review.NewBatchReviewer(llm, fetcher.Fetch, cfg.Review, cfg.LLM, appLogger)

	// Question generation
	questionGenerator := qbankgen.NewGenerator(
		llm,
		cfg.LLM.MaxTokens,
		loadExamplesOrWarn(cfg.Generation.ExamplePaths[domain.CourseNEETPG], appLogger),
		loadExamplesOrWarn(cfg.Generation.ExamplePaths[domain.CourseUSMLE], appLogger),
		appLogger,
	)

	// Catalog
	courseCatalog, err := catalog.Load(cfg.Generation.CatalogPaths)
	if err != nil {
		appLogger.Fatal("Failed to load course catalog", zap.Error(err))
	}

	// Initialize services
	reviewService := service.NewReviewService(prescreener, reviewer, appLogger)
	imageService := service.NewImageService(resolver, appLogger)
	generationService := service.NewGenerationService(questionGenerator, questionSetRepo, cfg.Generation, appLogger)

	// Initialize handlers
	reviewHandler := handler.NewReviewHandler(reviewService)
	imageHandler := handler.NewImageHandler(imageService)
	generationHandler := handler.NewGenerationHandler(generationService)
	catalogHandler := handler.NewCatalogHandler(courseCatalog)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API group
	apiGroup := app.Group("/api")

	apiGroup.Post("/review", reviewHandler.Review)
	apiGroup.Post("/images/resolve", imageHandler.Resolve)
	apiGroup.Post("/images/resolve-batch", imageHandler.ResolveBatch)
	apiGroup.Post("/generate", generationHandler.Generate)
	apiGroup.Get("/question-sets", generationHandler.ListQuestionSets)
	apiGroup.Get("/question-sets/:id", generationHandler.GetQuestionSet)

	apiGroup.Get("/subjects/:course", catalogHandler.GetSubjects)
	apiGroup.Get("/topics/:course/:subject", catalogHandler.GetTopics)
	apiGroup.Get("/chapters/:course/:subject/:topic", catalogHandler.GetChapters)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
