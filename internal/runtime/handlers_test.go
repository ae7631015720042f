package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/drillcast/drillcast-core/internal/audio"
	"github.com/drillcast/drillcast-core/internal/config"
	"github.com/drillcast/drillcast-core/internal/history"
	"github.com/drillcast/drillcast-core/internal/sentences"
	"github.com/drillcast/drillcast-core/internal/speech"
	"github.com/drillcast/drillcast-core/internal/track"
)

// failingGenerator simulates an upstream model returning garbage on every call.
type failingGenerator struct{}

func (failingGenerator) FetchBatch(ctx context.Context, count int) (sentences.Batch, error) {
	return nil, &sentences.UpstreamError{Op: "parse", Err: errors.New("model returned no JSON array")}
}

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()

	cfg := config.Default()
	// shrink pauses and repetitions so mock builds stay fast
	cfg.Track.ShortPauseMS = 100
	cfg.Track.LongPauseMS = 200
	cfg.Track.Repetitions = 1
	cfg.History.Path = filepath.Join(t.TempDir(), "runs.db")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := history.Open(context.Background(), cfg.History, logger)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	rt := New(cfg, logger)
	rt.store = store
	rt.source = sentences.NewMockGenerator(cfg.Generator.SentenceCount)
	rt.assembler = track.New(cfg.Track, cfg.TTS,
		speech.NewMockSynth(cfg.TTS.SampleRate, cfg.TTS.Channels), logger)
	return rt
}

func buildTrack(t *testing.T, rt *Runtime, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	rt.handleBuildTrack(rec, httptest.NewRequest(http.MethodPost, target, nil))
	return rec
}

func fetchRunEvents(t *testing.T, rt *Runtime, runID string) []runEventView {
	t.Helper()
	rec := httptest.NewRecorder()
	rt.handleRunEvents(rec, httptest.NewRequest(http.MethodGet, "/v1/runs/"+runID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list run events: status %d: %s", rec.Code, rec.Body.String())
	}
	var views []runEventView
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode run events: %v", err)
	}
	return views
}

func countEvents(views []runEventView, eventType string) int {
	n := 0
	for _, v := range views {
		if v.Type == eventType {
			n++
		}
	}
	return n
}

func TestBuildTrackSuccess(t *testing.T) {
	rt := newTestRuntime(t)

	rec := buildTrack(t, rt, "/v1/tracks")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "audio/wav" {
		t.Fatalf("expected audio/wav, got %q", ct)
	}
	runID := rec.Header().Get("X-Drillcast-Run-Id")
	if runID == "" {
		t.Fatal("missing run id header")
	}

	clip, err := audio.DecodeWAV(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if clip.Duration() <= 0 {
		t.Fatal("expected non-empty track")
	}

	events := fetchRunEvents(t, rt, runID)
	if got := countEvents(events, "item.done"); got != rt.cfg.Generator.SentenceCount {
		t.Fatalf("expected %d item.done events, got %d", rt.cfg.Generator.SentenceCount, got)
	}
	if countEvents(events, "run.done") != 1 {
		t.Fatalf("expected one run.done event, got %v", events)
	}
}

func TestBuildTrackCountOverride(t *testing.T) {
	rt := newTestRuntime(t)

	rec := buildTrack(t, rt, "/v1/tracks?count=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	events := fetchRunEvents(t, rt, rec.Header().Get("X-Drillcast-Run-Id"))
	if got := countEvents(events, "item.done"); got != 2 {
		t.Fatalf("expected 2 item.done events for count=2, got %d", got)
	}

	overridden, err := audio.DecodeWAV(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}
	full := buildTrack(t, rt, "/v1/tracks")
	defaulted, err := audio.DecodeWAV(full.Body.Bytes())
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if overridden.Duration() >= defaulted.Duration() {
		t.Fatalf("count=2 track (%v) should be shorter than the default %d-item track (%v)",
			overridden.Duration(), rt.cfg.Generator.SentenceCount, defaulted.Duration())
	}
}

func TestBuildTrackRejectsBadCount(t *testing.T) {
	rt := newTestRuntime(t)
	for _, target := range []string{"/v1/tracks?count=0", "/v1/tracks?count=-3", "/v1/tracks?count=five"} {
		if rec := buildTrack(t, rt, target); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestBuildTrackMethodNotAllowed(t *testing.T) {
	rt := newTestRuntime(t)
	rec := httptest.NewRecorder()
	rt.handleBuildTrack(rec, httptest.NewRequest(http.MethodGet, "/v1/tracks", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestBuildTrackUpstreamFailureKeepsServing(t *testing.T) {
	rt := newTestRuntime(t)
	rt.source = failingGenerator{}

	rec := buildTrack(t, rt, "/v1/tracks")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for upstream failure, got %d", rec.Code)
	}
	runID := rec.Header().Get("X-Drillcast-Run-Id")
	if runID == "" {
		t.Fatal("failed run should still carry a run id")
	}
	events := fetchRunEvents(t, rt, runID)
	if countEvents(events, "run.failed") != 1 {
		t.Fatalf("expected one run.failed event, got %v", events)
	}
	if countEvents(events, "item.done") != 0 {
		t.Fatalf("no items should complete on a failed fetch, got %v", events)
	}

	// a failed run must not wedge the runtime
	rt.source = sentences.NewMockGenerator(rt.cfg.Generator.SentenceCount)
	if rec := buildTrack(t, rt, "/v1/tracks"); rec.Code != http.StatusOK {
		t.Fatalf("expected next run to succeed, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRunEventsUnknownRun(t *testing.T) {
	rt := newTestRuntime(t)

	rec := httptest.NewRecorder()
	rt.handleRunEvents(rec, httptest.NewRequest(http.MethodGet, "/v1/runs/no-such-run", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var views []runEventView
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("expected no events, got %v", views)
	}

	rec = httptest.NewRecorder()
	rt.handleRunEvents(rec, httptest.NewRequest(http.MethodGet, "/v1/runs/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing run id, got %d", rec.Code)
	}
}
