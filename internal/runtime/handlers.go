package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/drillcast/drillcast-core/internal/audio"
	"github.com/drillcast/drillcast-core/internal/history"
	"github.com/drillcast/drillcast-core/internal/protocol"
	"github.com/drillcast/drillcast-core/internal/sentences"
	"github.com/drillcast/drillcast-core/internal/speech"
	"github.com/drillcast/drillcast-core/internal/track"
)

func (r *Runtime) handleBuildTrack(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requested := r.cfg.Generator.SentenceCount
	if raw := req.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, fmt.Sprintf("invalid count %q: must be a positive integer", raw), http.StatusBadRequest)
			return
		}
		requested = n
	}

	r.buildMu.Lock()
	defer r.buildMu.Unlock()

	ctx, span := otel.Tracer("drillcast").Start(req.Context(), "build-track")
	defer span.End()

	runID := uuid.NewString()
	span.SetAttributes(attribute.String("run.id", runID), attribute.Int("run.requested", requested))
	logger := r.logger.With(slog.String("run_id", runID))
	// set before any status is written so failed runs stay inspectable too
	w.Header().Set("X-Drillcast-Run-Id", runID)

	if err := r.store.BeginRun(ctx, runID, requested); err != nil {
		logger.Warn("failed to record run start", slog.String("error", err.Error()))
	}
	r.busClient.Publish(protocol.SubjectRunStarted, protocol.RunStarted{
		RunID:     runID,
		Requested: requested,
		Timestamp: time.Now().UTC(),
	})

	batch, err := r.source.FetchBatch(ctx, requested)
	if err != nil {
		r.failRun(ctx, w, logger, runID, err)
		return
	}

	var done, total int
	hooks := track.Hooks{
		Progress: func(d, t int) { done, total = d, t },
		Item: func(s sentences.Sentence) {
			evt := protocol.ItemDone{
				RunID:     runID,
				Index:     done,
				Total:     total,
				Sentence:  s,
				Timestamp: time.Now().UTC(),
			}
			logger.Info("drill item assembled",
				slog.Int("index", done),
				slog.Int("total", total),
				slog.String("text", s.Text))
			r.busClient.Publish(protocol.SubjectItemDone, evt)
			r.appendRunEvent(ctx, logger, runID, "item.done", evt)
		},
	}

	clip, err := r.assembler.Build(ctx, batch, hooks)
	if err != nil {
		r.failRun(ctx, w, logger, runID, err)
		return
	}
	wavData, err := audio.EncodeWAV(clip)
	if err != nil {
		r.failRun(ctx, w, logger, runID, err)
		return
	}

	doneEvt := protocol.RunDone{
		RunID:      runID,
		Items:      len(batch),
		DurationMS: clip.Duration().Milliseconds(),
		Timestamp:  time.Now().UTC(),
	}
	r.busClient.Publish(protocol.SubjectRunDone, doneEvt)
	r.appendRunEvent(ctx, logger, runID, "run.done", doneEvt)
	if err := r.store.FinishRun(ctx, runID, history.StatusComplete); err != nil {
		logger.Warn("failed to record run completion", slog.String("error", err.Error()))
	}

	logger.Info("track built",
		slog.Int("items", len(batch)),
		slog.Duration("duration", clip.Duration()),
		slog.Int("bytes", len(wavData)))

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(wavData)))
	_, _ = w.Write(wavData)
}

// failRun surfaces a run abort: nothing partial leaves the process, and the
// runtime stays serviceable for the next request.
func (r *Runtime) failRun(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, runID string, err error) {
	logger.Error("run aborted", slog.String("error", err.Error()))

	failEvt := protocol.RunFailed{RunID: runID, Error: err.Error(), Timestamp: time.Now().UTC()}
	r.busClient.Publish(protocol.SubjectRunFailed, failEvt)
	r.appendRunEvent(ctx, logger, runID, "run.failed", failEvt)
	if serr := r.store.FinishRun(ctx, runID, history.StatusFailed); serr != nil {
		logger.Warn("failed to record run failure", slog.String("error", serr.Error()))
	}

	status := http.StatusInternalServerError
	var upstream *sentences.UpstreamError
	var synth *speech.SynthesisError
	if errors.As(err, &upstream) || errors.As(err, &synth) {
		status = http.StatusBadGateway
	}
	http.Error(w, err.Error(), status)
}

func (r *Runtime) appendRunEvent(ctx context.Context, logger *slog.Logger, runID, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Warn("failed to marshal run event", slog.String("error", err.Error()))
		return
	}
	if err := r.store.AppendEvent(ctx, history.Event{RunID: runID, Type: eventType, Payload: data}); err != nil {
		logger.Warn("failed to record run event", slog.String("error", err.Error()))
	}
}

type runEventView struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

func (r *Runtime) handleRunEvents(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	runID := strings.TrimPrefix(req.URL.Path, "/v1/runs/")
	if runID == "" || strings.Contains(runID, "/") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	events, err := r.store.ListRunEvents(req.Context(), runID, 500)
	if err != nil {
		http.Error(w, fmt.Sprintf("list run events: %v", err), http.StatusInternalServerError)
		return
	}

	views := make([]runEventView, 0, len(events))
	for _, e := range events {
		views = append(views, runEventView{Type: e.Type, Payload: e.Payload, CreatedAt: e.CreatedAt})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(views); err != nil {
		r.logger.Warn("failed to encode run events", slog.String("error", err.Error()))
	}
}
