package speech

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/drillcast/drillcast-core/internal/audio"
)

type mockSynth struct {
	sampleRate int
	channels   int
}

// NewMockSynth returns a Synthesizer producing silent clips whose duration
// scales with text length, so assembly timing is exercised without a backend.
func NewMockSynth(sampleRate, channels int) Synthesizer {
	return &mockSynth{sampleRate: sampleRate, channels: channels}
}

// MockClipDuration is the duration NewMockSynth assigns to a given text.
func MockClipDuration(text string) time.Duration {
	return 100*time.Millisecond + 40*time.Millisecond*time.Duration(utf8.RuneCountInString(text))
}

func (m *mockSynth) Synthesize(ctx context.Context, text, languageCode string) (audio.Clip, error) {
	if text == "" {
		return audio.Clip{}, &SynthesisError{Language: languageCode, Err: fmt.Errorf("empty text")}
	}
	select {
	case <-ctx.Done():
		return audio.Clip{}, ctx.Err()
	case <-time.After(5 * time.Millisecond):
	}
	return audio.Silence(MockClipDuration(text), m.sampleRate, m.channels), nil
}
