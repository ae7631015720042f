package history

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/drillcast/drillcast-core/internal/config"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestOpenEphemeral(t *testing.T) {
	ctx := context.Background()
	cfg := config.HistoryConfig{RetentionMode: "ephemeral"}
	s, err := Open(ctx, cfg, newLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.BeginRun(ctx, "run-1", 5); err != nil {
		t.Fatalf("begin run: %v", err)
	}
	events, err := s.ListRunEvents(ctx, "run-1", 10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if events != nil {
		t.Fatal("ephemeral store must record nothing")
	}
}

func TestRunLifecycle(t *testing.T) {
	tmp := t.TempDir()
	cfg := config.HistoryConfig{Path: filepath.Join(tmp, "runs.db"), RetentionMode: "session"}
	s, err := Open(context.Background(), cfg, newLogger())
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	runID := "run-123"
	if err := s.BeginRun(context.Background(), runID, 5); err != nil {
		t.Fatalf("begin run: %v", err)
	}
	if err := s.AppendEvent(context.Background(), Event{RunID: runID, Type: "item.done", Payload: []byte(`{"index":1}`)}); err != nil {
		t.Fatalf("append event: %v", err)
	}
	if err := s.AppendEvent(context.Background(), Event{RunID: runID, Type: "run.done", Payload: []byte(`{}`)}); err != nil {
		t.Fatalf("append event: %v", err)
	}
	if err := s.FinishRun(context.Background(), runID, StatusComplete); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	events, err := s.ListRunEvents(context.Background(), runID, 10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != "item.done" || events[1].Type != "run.done" {
		t.Fatalf("events out of order: %s, %s", events[0].Type, events[1].Type)
	}
}

func TestPruneByDaysAndRuns(t *testing.T) {
	tmp := t.TempDir()
	cfg := config.HistoryConfig{Path: filepath.Join(tmp, "runs.db"), RetentionMode: "persistent", RetentionDays: 1, MaxRuns: 1}
	s, err := Open(context.Background(), cfg, newLogger())
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	s.clock = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	if err := s.BeginRun(context.Background(), "old-run", 5); err != nil {
		t.Fatalf("begin run: %v", err)
	}
	if err := s.AppendEvent(context.Background(), Event{RunID: "old-run", Type: "item.done"}); err != nil {
		t.Fatalf("append event: %v", err)
	}

	s.clock = func() time.Time { return time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC) }
	if err := s.BeginRun(context.Background(), "new-run", 5); err != nil {
		t.Fatalf("begin run: %v", err)
	}
	if err := s.Prune(context.Background()); err != nil {
		t.Fatalf("prune: %v", err)
	}

	events, err := s.ListRunEvents(context.Background(), "old-run", 10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 0 {
		t.Fatal("expected old run pruned")
	}
}
