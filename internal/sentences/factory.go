package sentences

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/drillcast/drillcast-core/internal/config"
)

// NewFromConfig selects a Generator backend from configuration.
func NewFromConfig(ctx context.Context, cfg config.GeneratorConfig, logger *slog.Logger) (Generator, error) {
	switch cfg.Mode {
	case "mock":
		return NewMockGenerator(cfg.SentenceCount), nil
	case "gemini":
		return NewGeminiGenerator(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown generator mode %q", cfg.Mode)
	}
}
