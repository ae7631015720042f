package sentences

import "context"

// Sentence is one drill item: the exam-language phrase, a native-script
// reading of how it actually sounds, and its meaning. The JSON keys are the
// field names the generation prompt demands from the model.
type Sentence struct {
	Text    string `json:"eng"`
	Reading string `json:"kor_pron"`
	Meaning string `json:"mean"`
}

// Batch is an ordered set of sentences from one generation call.
type Batch []Sentence

// Generator produces a fresh batch per call. Implementations must not cache:
// every fetch re-queries the backing model. A count of zero or less asks for
// the implementation's configured default.
type Generator interface {
	FetchBatch(ctx context.Context, count int) (Batch, error)
}
