package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	_ "github.com/lib/pq"

	"github.com/arturoeanton/go-chaindocs/internal/adapter/ai"
	"github.com/arturoeanton/go-chaindocs/internal/adapter/index/memory"
	"github.com/arturoeanton/go-chaindocs/internal/adapter/index/pgvector"
	"github.com/arturoeanton/go-chaindocs/internal/adapter/index/qdrant"
	"github.com/arturoeanton/go-chaindocs/internal/adapter/store/sqlite"
	"github.com/arturoeanton/go-chaindocs/internal/chunker"
	"github.com/arturoeanton/go-chaindocs/internal/crawler"
	"github.com/arturoeanton/go-chaindocs/internal/domain"
	"github.com/arturoeanton/go-chaindocs/internal/port"
	"github.com/arturoeanton/go-chaindocs/internal/service"
	"github.com/arturoeanton/go-chaindocs/pkg/config"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "chaindocs",
		Short:         "ChainDocs corpus tools and query client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(crawlCmd(), embedCmd(), askCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorize("Error:", "1;31"), err)
		os.Exit(1)
	}
}

// crawlCmd fetches documentation pages into the local page store.
func crawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the configured documentation sites into the page store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			store, err := sqlite.New(cfg.DocsDBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			stored, err := crawler.New(store, cfg.CrawlStart, cfg.CrawlMaxPages).Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("stored %d pages in %s\n", stored, cfg.DocsDBPath)
			return nil
		},
	}
}

// embedCmd runs one full ingestion pass over the stored pages.
func embedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "embed",
		Short: "Chunk, embed and load all stored pages into the vector index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			store, err := sqlite.New(cfg.DocsDBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			index, err := buildIndex(cfg)
			if err != nil {
				return err
			}

			ch, err := chunker.New(cfg.ChunkTokens, cfg.ChunkOverlap)
			if err != nil {
				return err
			}
			embedder := ai.NewOllamaEmbedder(cfg.OllamaURL, cfg.EmbedModel, cfg.EmbeddingDimension)

			summary, err := service.NewIngestService(store, ch, embedder, index).Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("ingested %d documents (%d points, %d failed)\n",
				summary.Documents, summary.Points, summary.Failed)
			return nil
		},
	}
}

// askCmd posts a question to a running ChainDocs server and prints the
// answer with its sources.
func askCmd() *cobra.Command {
	var host string
	cmd := &cobra.Command{
		Use:   "ask \"question\"",
		Short: "Ask a running ChainDocs API a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, _ := json.Marshal(map[string]string{"query": args[0]})

			client := &http.Client{Timeout: 60 * time.Second}
			resp, err := client.Post(host+"/ask", "application/json", bytes.NewReader(payload))
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("API returned %s: %s", resp.Status, body)
			}

			var answer domain.Answer
			if err := json.Unmarshal(body, &answer); err != nil {
				return fmt.Errorf("invalid JSON received from API: %w", err)
			}

			fmt.Println(colorize("\nAnswer", "1;32"))
			fmt.Println(answer.Text)
			fmt.Println(colorize("\nSources", "1;34"))
			if len(answer.Sources) == 0 {
				fmt.Println("  (none)")
			}
			for _, src := range answer.Sources {
				fmt.Printf("  – %s\n", src)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&host, "host", "http://localhost:8000", "Base URL of the ChainDocs API")
	return cmd
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

func colorize(text, code string) string {
	return "\033[" + code + "m" + text + "\033[0m"
}
