package speech

import (
	"context"

	"github.com/drillcast/drillcast-core/internal/audio"
)

// Synthesizer converts text in a given language into a decoded clip. The text
// is rendered verbatim; any punctuation policy belongs to the caller.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, languageCode string) (audio.Clip, error)
}
