package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/arturoeanton/go-chaindocs/internal/port"
)

// TogetherGenerator calls the Together AI chat-completions API. One synchronous
// call per prompt, bounded by the client timeout; failures surface as the
// retryable port.ErrUpstreamGeneration and are never retried here.
type TogetherGenerator struct {
	url        string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewTogetherGenerator creates a remote generator with the given credential.
func NewTogetherGenerator(url, apiKey, model string) *TogetherGenerator {
	return &TogetherGenerator{
		url:        url,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Name returns the remote model identifier.
func (g *TogetherGenerator) Name() string { return "together:" + g.model }

// Generate sends the prompt as a single user message and returns the trimmed
// completion text.
func (g *TogetherGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		// Timeouts and transport failures are retryable by the caller.
		return "", fmt.Errorf("%w: %v", port.ErrUpstreamGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: together API returned %s: %s", port.ErrUpstreamGeneration, resp.Status, string(body))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", port.ErrUpstreamGeneration, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", port.ErrUpstreamGeneration)
	}

	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
