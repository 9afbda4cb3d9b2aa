package ai

import (
	"context"
	"log/slog"
	"os"

	"github.com/arturoeanton/go-chaindocs/internal/port"
)

// ResolveConfig carries everything needed to pick a generation variant.
type ResolveConfig struct {
	// LocalModelPath is the GGUF artifact whose presence on disk selects
	// local generation.
	LocalModelPath string
	// OllamaURL and LocalModel configure the local runtime.
	OllamaURL  string
	LocalModel string
	// TogetherAPIKey selects the remote fallback when no artifact exists.
	TogetherAPIKey string
	TogetherModel  string
	TogetherURL    string
}

// Resolve picks the generation variant once at startup rather than re-probing
// per request: a local model artifact on disk wins, otherwise a remote
// credential, otherwise every call reports the service as unconfigured.
func Resolve(cfg ResolveConfig) port.Generator {
	if cfg.LocalModelPath != "" {
		if _, err := os.Stat(cfg.LocalModelPath); err == nil {
			slog.Info("generation: local model", "path", cfg.LocalModelPath, "model", cfg.LocalModel)
			return NewLocalGenerator(cfg.OllamaURL, cfg.LocalModel)
		}
	}
	if cfg.TogetherAPIKey != "" {
		slog.Info("generation: remote API", "model", cfg.TogetherModel)
		return NewTogetherGenerator(cfg.TogetherURL, cfg.TogetherAPIKey, cfg.TogetherModel)
	}
	slog.Warn("generation: no local model and no remote credential")
	return unconfiguredGenerator{}
}

type unconfiguredGenerator struct{}

func (unconfiguredGenerator) Name() string { return "unconfigured" }

func (unconfiguredGenerator) Generate(context.Context, string) (string, error) {
	return "", port.ErrNotConfigured
}
