package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// OllamaEmbedder implements port.Embedder against the Ollama REST API.
type OllamaEmbedder struct {
	baseURL    string
	model      string
	dimension  int
	httpClient *http.Client
}

// NewOllamaEmbedder creates an embedder for the given model. The dimension is
// declared per model and must match the collection the vectors are loaded into.
func NewOllamaEmbedder(baseURL, model string, dimension int) *OllamaEmbedder {
	return &OllamaEmbedder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		dimension:  dimension,
		httpClient: &http.Client{},
	}
}

// ModelName returns the embedding model identifier.
func (e *OllamaEmbedder) ModelName() string { return e.model }

// Dimension returns the declared output dimension.
func (e *OllamaEmbedder) Dimension() int { return e.dimension }

// Embed generates a vector embedding for the given text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("ollama embed: empty response")
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one call, preserving
// input order.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	payload := map[string]any{
		"model": e.model,
		"input": texts,
	}

	body, err := postJSON(ctx, e.httpClient, e.baseURL+"/api/embed", payload)
	if err != nil {
		return nil, fmt.Errorf("ollama embed batch: %w", err)
	}

	var resp struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ollama embed batch decode: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama embed batch: got %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}
	return resp.Embeddings, nil
}

const (
	localMaxNewTokens = 512
	localStopMarker   = "</s>"
)

// LocalGenerator runs bounded generation against a model served by the local
// Ollama runtime. The model is loaded into memory on first use; the load and
// every generation call share one mutex because local inference is not
// reentrant.
type LocalGenerator struct {
	baseURL    string
	model      string
	httpClient *http.Client

	mu     sync.Mutex
	loaded bool
}

// NewLocalGenerator creates a generator backed by the local runtime.
func NewLocalGenerator(baseURL, model string) *LocalGenerator {
	return &LocalGenerator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{},
	}
}

// Name returns the local model identifier.
func (g *LocalGenerator) Name() string { return "local:" + g.model }

// Generate runs one bounded completion. The first successful call loads the
// model and keeps it resident; a failed load is not cached, the next call
// retries it.
func (g *LocalGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.loaded {
		if err := g.load(ctx); err != nil {
			return "", fmt.Errorf("load local model: %w", err)
		}
		g.loaded = true
	}

	payload := map[string]any{
		"model":  g.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"num_predict": localMaxNewTokens,
			"stop":        []string{localStopMarker},
		},
	}

	body, err := postJSON(ctx, g.httpClient, g.baseURL+"/api/generate", payload)
	if err != nil {
		return "", fmt.Errorf("local generate: %w", err)
	}

	var resp struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("local generate decode: %w", err)
	}

	answer := strings.ReplaceAll(resp.Response, localStopMarker, "")
	return strings.TrimSpace(answer), nil
}

// load asks the runtime to load the model and keep it resident. An empty
// prompt is the documented load request.
func (g *LocalGenerator) load(ctx context.Context) error {
	payload := map[string]any{
		"model":      g.model,
		"keep_alive": -1,
	}
	_, err := postJSON(ctx, g.httpClient, g.baseURL+"/api/generate", payload)
	return err
}

// postJSON posts a JSON payload and returns the raw response body.
func postJSON(ctx context.Context, client *http.Client, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
