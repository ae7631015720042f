package speech

import (
	"context"
	"fmt"
	"log/slog"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"

	"github.com/drillcast/drillcast-core/internal/audio"
	"github.com/drillcast/drillcast-core/internal/config"
)

type googleSynth struct {
	client     *texttospeech.Client
	sampleRate int
	voices     map[string]string
	logger     *slog.Logger
}

// NewGoogleSynth builds a Synthesizer on Google Cloud Text-to-Speech. Audio
// comes back as LINEAR16, which the API delivers inside a WAV container.
func NewGoogleSynth(ctx context.Context, cfg config.TTSConfig, logger *slog.Logger) (Synthesizer, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create texttospeech client: %w", err)
	}
	return &googleSynth{
		client:     client,
		sampleRate: cfg.SampleRate,
		voices:     cfg.Voices,
		logger:     logger.With(slog.String("component", "google-tts")),
	}, nil
}

func (g *googleSynth) Synthesize(ctx context.Context, text, languageCode string) (audio.Clip, error) {
	voice := &texttospeechpb.VoiceSelectionParams{LanguageCode: languageCode}
	if name, ok := g.voices[languageCode]; ok {
		voice.Name = name
	}

	resp, err := g.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: voice,
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding:   texttospeechpb.AudioEncoding_LINEAR16,
			SampleRateHertz: int32(g.sampleRate),
		},
	})
	if err != nil {
		return audio.Clip{}, &SynthesisError{Language: languageCode, Err: err}
	}

	clip, err := audio.DecodeWAV(resp.GetAudioContent())
	if err != nil {
		return audio.Clip{}, &SynthesisError{Language: languageCode, Err: err}
	}
	if clip.Empty() {
		return audio.Clip{}, &SynthesisError{Language: languageCode, Err: fmt.Errorf("empty audio for %d chars", len(text))}
	}
	return clip, nil
}
