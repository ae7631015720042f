package sentences

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/drillcast/drillcast-core/internal/config"
)

type geminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float64
	count       int
	topic       string
	logger      *slog.Logger
}

// NewGeminiGenerator builds a Generator backed by the Gemini API. The key is
// passed in explicitly so tests and multi-tenant setups can run their own
// configurations side by side instead of sharing ambient process state.
func NewGeminiGenerator(ctx context.Context, cfg config.GeneratorConfig, logger *slog.Logger) (Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &geminiGenerator{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		count:       cfg.SentenceCount,
		topic:       cfg.Topic,
		logger:      logger.With(slog.String("component", "gemini-generator")),
	}, nil
}

func (g *geminiGenerator) FetchBatch(ctx context.Context, count int) (Batch, error) {
	if count <= 0 {
		count = g.count
	}
	prompt := buildPrompt(count, g.topic)

	started := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(g.temperature)),
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, &UpstreamError{Op: "request", Err: fmt.Errorf("gemini status %d: %s",
				apiErr.Code, strings.TrimSpace(apiErr.Message))}
		}
		return nil, &UpstreamError{Op: "request", Err: err}
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, &UpstreamError{Op: "parse", Err: fmt.Errorf("model returned no text")}
	}

	batch, err := ParseBatch(text)
	if err != nil {
		return nil, err
	}
	g.logger.Info("fetched sentence batch",
		slog.Int("count", len(batch)),
		slog.Duration("latency", time.Since(started)))
	return batch, nil
}
