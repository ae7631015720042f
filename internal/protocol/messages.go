package protocol

import (
	"time"

	"github.com/drillcast/drillcast-core/internal/sentences"
)

// RunStarted announces a new track build.
type RunStarted struct {
	RunID     string    `json:"run_id"`
	Requested int       `json:"requested"`
	Timestamp time.Time `json:"timestamp"`
}

// ItemDone reports one assembled record, published synchronously after each
// record so subscribers can render incremental progress.
type ItemDone struct {
	RunID     string             `json:"run_id"`
	Index     int                `json:"index"`
	Total     int                `json:"total"`
	Sentence  sentences.Sentence `json:"sentence"`
	Timestamp time.Time          `json:"timestamp"`
}

// RunDone reports a completed track.
type RunDone struct {
	RunID      string    `json:"run_id"`
	Items      int       `json:"items"`
	DurationMS int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// RunFailed reports an aborted run.
type RunFailed struct {
	RunID     string    `json:"run_id"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	SubjectRunStarted = "track.run.started"
	SubjectItemDone   = "track.item.done"
	SubjectRunDone    = "track.run.done"
	SubjectRunFailed  = "track.run.failed"
)
