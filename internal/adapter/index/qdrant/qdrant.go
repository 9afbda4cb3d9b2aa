package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/arturoeanton/go-chaindocs/internal/domain"
	"github.com/arturoeanton/go-chaindocs/internal/port"
)

// Index is a minimal REST client to Qdrant holding one collection with cosine
// distance. A connection failure or a missing collection is reported as
// port.ErrIndexUnavailable so callers can degrade instead of failing.
type Index struct {
	baseURL    string
	apiKey     string
	collection string
	httpClient *http.Client
}

// Config contains connection details for a Qdrant collection.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// New creates a client; it does not touch the network.
func New(cfg Config) *Index {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Index{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// EnsureCollection creates the collection if missing. An existing collection
// with a different vector size is explicitly deleted and recreated, since
// mixing dimensions would corrupt the similarity space.
func (x *Index) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("qdrant: invalid dimension %d", dimension)
	}

	var info struct {
		Result struct {
			Config struct {
				Params struct {
					Vectors struct {
						Size int `json:"size"`
					} `json:"vectors"`
				} `json:"params"`
			} `json:"config"`
		} `json:"result"`
	}
	status, err := x.do(ctx, http.MethodGet, x.collectionPath(), nil, &info)
	if err != nil {
		return fmt.Errorf("%w: %v", port.ErrIndexUnavailable, err)
	}

	switch {
	case status == http.StatusOK && info.Result.Config.Params.Vectors.Size == dimension:
		return nil
	case status == http.StatusOK:
		slog.Warn("recreating collection with new dimension",
			"collection", x.collection,
			"old", info.Result.Config.Params.Vectors.Size,
			"new", dimension,
		)
		if status, err = x.do(ctx, http.MethodDelete, x.collectionPath(), nil, nil); err != nil {
			return fmt.Errorf("%w: delete collection: %v", port.ErrIndexUnavailable, err)
		} else if status >= 300 {
			return fmt.Errorf("qdrant: delete collection returned %d", status)
		}
	case status != http.StatusNotFound:
		return fmt.Errorf("qdrant: get collection returned %d", status)
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	status, err = x.do(ctx, http.MethodPut, x.collectionPath(), body, nil)
	if err != nil {
		return fmt.Errorf("%w: create collection: %v", port.ErrIndexUnavailable, err)
	}
	if status >= 300 {
		return fmt.Errorf("qdrant: create collection returned %d", status)
	}
	return nil
}

// Upsert inserts or replaces points by id. The wait flag makes the write
// visible before returning.
func (x *Index) Upsert(ctx context.Context, points []domain.Point) error {
	if len(points) == 0 {
		return nil
	}
	body := map[string]any{"points": points}
	status, err := x.do(ctx, http.MethodPut, x.collectionPath()+"/points?wait=true", body, nil)
	if err != nil {
		return fmt.Errorf("%w: upsert: %v", port.ErrIndexUnavailable, err)
	}
	if status >= 300 {
		return fmt.Errorf("qdrant: upsert returned %d", status)
	}
	return nil
}

// Search returns up to k points ranked by descending cosine similarity.
func (x *Index) Search(ctx context.Context, vector []float32, k int) ([]domain.ScoredPoint, error) {
	if k <= 0 {
		k = 5
	}
	body := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload domain.Payload `json:"payload"`
		} `json:"result"`
	}
	status, err := x.do(ctx, http.MethodPost, x.collectionPath()+"/points/search", body, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", port.ErrIndexUnavailable, err)
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: collection %q does not exist", port.ErrIndexUnavailable, x.collection)
	}
	if status >= 300 {
		return nil, fmt.Errorf("qdrant: search returned %d", status)
	}

	hits := make([]domain.ScoredPoint, 0, len(resp.Result))
	for _, r := range resp.Result {
		hits = append(hits, domain.ScoredPoint{
			Point: domain.Point{ID: fmt.Sprint(r.ID), Payload: r.Payload},
			Score: r.Score,
		})
	}
	return hits, nil
}

// Ready reports whether the collection is reachable.
func (x *Index) Ready(ctx context.Context) bool {
	status, err := x.do(ctx, http.MethodGet, x.collectionPath(), nil, nil)
	return err == nil && status == http.StatusOK
}

func (x *Index) collectionPath() string {
	return fmt.Sprintf("%s/collections/%s", x.baseURL, x.collection)
}

// do performs one JSON request and decodes the response into out when given.
// Transport errors are returned as-is; HTTP status handling is the caller's.
func (x *Index) do(ctx context.Context, method, url string, body, out any) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
	}

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, context.Canceled) {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
