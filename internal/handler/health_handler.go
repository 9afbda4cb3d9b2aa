package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/go-chaindocs/internal/port"
)

// HealthHandler reports whether the embedder and vector index are wired up,
// for uptime monitoring.
type HealthHandler struct {
	status     string
	collection string
	embedder   port.Embedder
	index      port.VectorIndex
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(status, collection string, embedder port.Embedder, index port.VectorIndex) *HealthHandler {
	return &HealthHandler{status: status, collection: collection, embedder: embedder, index: index}
}

// Register sets up the health route.
func (h *HealthHandler) Register(router fiber.Router) {
	router.Get("/health", h.Health)
}

// Health returns the heartbeat payload.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":            h.status,
		"embedder":          h.embedder.ModelName(),
		"qdrant_configured": h.index.Ready(c.Context()),
		"collection":        h.collection,
	})
}
