package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arturoeanton/go-chaindocs/internal/domain"
	"github.com/arturoeanton/go-chaindocs/internal/port"
)

// QueryService composes retrieval, prompt assembly and generation into one
// synchronous request/response cycle.
type QueryService struct {
	retriever *Retriever
	generator port.Generator
}

// NewQueryService creates the orchestrator.
func NewQueryService(retriever *Retriever, generator port.Generator) *QueryService {
	return &QueryService{retriever: retriever, generator: generator}
}

// Ask answers one question. An empty query fails with ErrInvalidInput before
// anything else runs; retrieval never fails the request; generation errors
// keep their kind so the transport can map them to a status.
func (s *QueryService) Ask(ctx context.Context, query string) (*domain.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", port.ErrInvalidInput)
	}

	slog.Info("RAG query", "question", query, "generator", s.generator.Name())

	chunks, sources, err := s.retriever.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(chunks, query)
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	if sources == nil {
		sources = []string{}
	}
	return &domain.Answer{Text: answer, Sources: sources}, nil
}
