package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os/exec"
	"sync"

	"github.com/mattn/go-shellwords"

	"github.com/drillcast/drillcast-core/internal/audio"
	"github.com/drillcast/drillcast-core/internal/config"
)

// execSynth bridges to an external synthesis command for deployments without
// cloud credentials. The command reads one JSON request on stdin and writes
// one JSON response with base64 PCM on stdout.
type execSynth struct {
	cmd        []string
	sampleRate int
	channels   int
	mu         sync.Mutex
}

type execRequest struct {
	Text       string `json:"text"`
	Language   string `json:"language"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

type execResponse struct {
	PCMBase64 string `json:"pcm_base64"`
}

func NewExecSynth(cfg config.TTSConfig) (Synthesizer, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("parse tts command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("tts command empty")
	}
	return &execSynth{cmd: args, sampleRate: cfg.SampleRate, channels: cfg.Channels}, nil
}

func (e *execSynth) Synthesize(ctx context.Context, text, languageCode string) (audio.Clip, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	payload, err := json.Marshal(execRequest{
		Text:       text,
		Language:   languageCode,
		SampleRate: e.sampleRate,
		Channels:   e.channels,
	})
	if err != nil {
		return audio.Clip{}, &SynthesisError{Language: languageCode, Err: err}
	}

	base := e.cmd[0]
	args := append([]string{}, e.cmd[1:]...)
	cmd := exec.CommandContext(ctx, base, args...)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return audio.Clip{}, &SynthesisError{Language: languageCode,
			Err: fmt.Errorf("tts command failed: %w: %s", err, stderr.String())}
	}

	var resp execResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return audio.Clip{}, &SynthesisError{Language: languageCode,
			Err: fmt.Errorf("decode tts response: %w", err)}
	}
	pcm, err := base64.StdEncoding.DecodeString(resp.PCMBase64)
	if err != nil {
		return audio.Clip{}, &SynthesisError{Language: languageCode,
			Err: fmt.Errorf("decode pcm payload: %w", err)}
	}
	if len(pcm) == 0 || len(pcm)%2 != 0 {
		return audio.Clip{}, &SynthesisError{Language: languageCode,
			Err: fmt.Errorf("pcm payload not aligned: %d bytes", len(pcm))}
	}

	clip := audio.Clip{
		SampleRate: e.sampleRate,
		Channels:   e.channels,
		Samples:    make([]int16, len(pcm)/2),
	}
	for i := range clip.Samples {
		clip.Samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}
	return clip, nil
}
