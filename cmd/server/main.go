package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/joho/godotenv"

	_ "github.com/lib/pq"

	"github.com/arturoeanton/go-chaindocs/internal/adapter/ai"
	"github.com/arturoeanton/go-chaindocs/internal/adapter/index/memory"
	"github.com/arturoeanton/go-chaindocs/internal/adapter/index/pgvector"
	"github.com/arturoeanton/go-chaindocs/internal/adapter/index/qdrant"
	"github.com/arturoeanton/go-chaindocs/internal/handler"
	"github.com/arturoeanton/go-chaindocs/internal/port"
	"github.com/arturoeanton/go-chaindocs/internal/service"
	"github.com/arturoeanton/go-chaindocs/pkg/config"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting ChainDocs",
		"port", cfg.Port,
		"vector_backend", cfg.VectorBackend,
		"collection", cfg.QdrantCollection,
		"embed_model", cfg.EmbedModel,
	)

	// ── Adapters ─────────────────────────────────────────────────────────
	embedder := ai.NewOllamaEmbedder(cfg.OllamaURL, cfg.EmbedModel, cfg.EmbeddingDimension)

	index, err := buildIndex(cfg)
	if err != nil {
		slog.Error("failed to build vector index", "error", err)
		os.Exit(1)
	}

	generator := ai.Resolve(ai.ResolveConfig{
		LocalModelPath: cfg.LocalModelPath,
		OllamaURL:      cfg.OllamaURL,
		LocalModel:     cfg.LocalModel,
		TogetherAPIKey: cfg.TogetherAPIKey,
		TogetherModel:  cfg.TogetherModel,
		TogetherURL:    cfg.TogetherURL,
	})

	// ── Services ─────────────────────────────────────────────────────────
	retriever := service.NewRetriever(embedder, index, cfg.TopK)
	queryService := service.NewQueryService(retriever, generator)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	// ── Routes ───────────────────────────────────────────────────────────
	handler.NewHealthHandler(cfg.StatusMessage, cfg.QdrantCollection, embedder, index).Register(app)
	handler.NewAskHandler(queryService).Register(app)

	// Chat UI
	app.Get("/", static.New("./static/index.html"))
	app.Get("/static/*", static.New("./static"))

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// buildIndex picks the vector index backend from configuration.
func buildIndex(cfg *config.Config) (port.VectorIndex, error) {
	switch cfg.VectorBackend {
	case "qdrant", "":
		return qdrant.New(qdrant.Config{
			URL:        cfg.QdrantURL,
			APIKey:     cfg.QdrantAPIKey,
			Collection: cfg.QdrantCollection,
		}), nil
	case "pgvector":
		return pgvector.New(cfg.DatabaseURL, cfg.QdrantCollection)
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.VectorBackend)
	}
}
