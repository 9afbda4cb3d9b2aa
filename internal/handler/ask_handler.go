package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/go-chaindocs/internal/port"
	"github.com/arturoeanton/go-chaindocs/internal/service"
)

// AskHandler exposes the question-answering endpoint.
type AskHandler struct {
	query *service.QueryService
}

// NewAskHandler creates a new ask handler.
func NewAskHandler(query *service.QueryService) *AskHandler {
	return &AskHandler{query: query}
}

// Register sets up the ask route.
func (h *AskHandler) Register(router fiber.Router) {
	router.Post("/ask", h.Ask)
}

// Ask answers a question using RAG over the document corpus. Error kinds map
// to statuses: caller mistakes are 400, a deployment without any generation
// backend is 503, a failed remote generation call is a retryable 502.
func (h *AskHandler) Ask(c fiber.Ctx) error {
	var body struct {
		Query string `json:"query"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	answer, err := h.query.Ask(c.Context(), body.Query)
	if err != nil {
		switch {
		case errors.Is(err, port.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, port.ErrNotConfigured):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, port.ErrUpstreamGeneration):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(answer)
}
