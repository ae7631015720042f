package track

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/drillcast/drillcast-core/internal/audio"
	"github.com/drillcast/drillcast-core/internal/config"
	"github.com/drillcast/drillcast-core/internal/sentences"
	"github.com/drillcast/drillcast-core/internal/speech"
)

// Hooks receive assembly progress. Both fire synchronously after each record
// finishes, before the next one begins, so consumers see incremental state.
// Nil hooks are skipped.
type Hooks struct {
	Progress func(done, total int)
	Item     func(s sentences.Sentence)
}

// Assembler builds one drill track from a sentence batch: per record it
// synthesizes the exam phrase, the rate-shifted phonetic guide, and the
// translation, then joins them with timed pauses.
type Assembler struct {
	cfg        config.TrackConfig
	synth      speech.Synthesizer
	sampleRate int
	channels   int
	logger     *slog.Logger
}

func New(cfg config.TrackConfig, ttsCfg config.TTSConfig, synth speech.Synthesizer, logger *slog.Logger) *Assembler {
	return &Assembler{
		cfg:        cfg,
		synth:      synth,
		sampleRate: ttsCfg.SampleRate,
		channels:   ttsCfg.Channels,
		logger:     logger.With(slog.String("component", "track-assembler")),
	}
}

// Build assembles the batch in order into a single clip. Any synthesis
// failure aborts the whole build; nothing partial is returned. An empty batch
// yields a zero-duration clip without error.
func (a *Assembler) Build(ctx context.Context, batch sentences.Batch, hooks Hooks) (audio.Clip, error) {
	track := audio.Clip{SampleRate: a.sampleRate, Channels: a.channels}
	if len(batch) == 0 {
		return track, nil
	}

	shortPause := audio.Silence(time.Duration(a.cfg.ShortPauseMS)*time.Millisecond, a.sampleRate, a.channels)
	longPause := audio.Silence(time.Duration(a.cfg.LongPauseMS)*time.Millisecond, a.sampleRate, a.channels)

	segments := make([]audio.Clip, 0, len(batch)*a.cfg.Repetitions)
	for i, item := range batch {
		segment, err := a.buildSegment(ctx, item, shortPause, longPause)
		if err != nil {
			return audio.Clip{}, fmt.Errorf("item %d: %w", i+1, err)
		}
		for r := 0; r < a.cfg.Repetitions; r++ {
			segments = append(segments, segment)
		}

		if hooks.Progress != nil {
			hooks.Progress(i+1, len(batch))
		}
		if hooks.Item != nil {
			hooks.Item(item)
		}
	}

	track, err := audio.Concat(segments...)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("join segments: %w", err)
	}
	a.logger.Info("track assembled",
		slog.Int("items", len(batch)),
		slog.Duration("duration", track.Duration()))
	return track, nil
}

// BuildWAV runs Build and encodes the result for delivery.
func (a *Assembler) BuildWAV(ctx context.Context, batch sentences.Batch, hooks Hooks) ([]byte, error) {
	clip, err := a.Build(ctx, batch, hooks)
	if err != nil {
		return nil, err
	}
	return audio.EncodeWAV(clip)
}

func (a *Assembler) buildSegment(ctx context.Context, item sentences.Sentence, shortPause, longPause audio.Clip) (audio.Clip, error) {
	phrase, err := a.synth.Synthesize(ctx, item.Text, a.cfg.ExamLanguage)
	if err != nil {
		return audio.Clip{}, err
	}

	rawGuide, err := a.synth.Synthesize(ctx, FlattenIntonation(item.Reading), a.cfg.NativeLanguage)
	if err != nil {
		return audio.Clip{}, err
	}
	guide, err := rawGuide.RateShift(a.cfg.GuideSpeed)
	if err != nil {
		return audio.Clip{}, err
	}

	meaningText := item.Meaning
	if a.cfg.FlattenTranslation {
		meaningText = FlattenIntonation(meaningText)
	}
	rawMeaning, err := a.synth.Synthesize(ctx, meaningText, a.cfg.NativeLanguage)
	if err != nil {
		return audio.Clip{}, err
	}
	meaning, err := rawMeaning.RateShift(a.cfg.TranslationSpeed)
	if err != nil {
		return audio.Clip{}, err
	}

	return audio.Concat(phrase, shortPause, guide, shortPause, meaning, longPause)
}
