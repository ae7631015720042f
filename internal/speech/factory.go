package speech

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/drillcast/drillcast-core/internal/config"
)

// NewFromConfig selects a Synthesizer backend from configuration.
func NewFromConfig(ctx context.Context, cfg config.TTSConfig, logger *slog.Logger) (Synthesizer, error) {
	switch cfg.Mode {
	case "mock":
		return NewMockSynth(cfg.SampleRate, cfg.Channels), nil
	case "google":
		return NewGoogleSynth(ctx, cfg, logger)
	case "exec":
		return NewExecSynth(cfg)
	default:
		return nil, fmt.Errorf("unknown tts mode %q", cfg.Mode)
	}
}
