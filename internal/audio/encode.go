package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// EncodeWAV renders the clip as a 16-bit PCM WAV file in memory.
func EncodeWAV(c Clip) ([]byte, error) {
	if c.SampleRate <= 0 {
		return nil, fmt.Errorf("encode wav: sample rate %d", c.SampleRate)
	}
	channels := c.Channels
	if channels <= 0 {
		channels = 1
	}

	buffer := &gaudio.IntBuffer{Format: &gaudio.Format{NumChannels: channels, SampleRate: c.SampleRate}}
	samples := make([]int, len(c.Samples))
	for i, s := range c.Samples {
		samples[i] = int(s)
	}
	buffer.Data = samples

	var ws writeSeeker
	enc := wav.NewEncoder(&ws, c.SampleRate, 16, channels, 1)
	if err := enc.Write(buffer); err != nil {
		return nil, fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close wav encoder: %w", err)
	}
	return ws.data, nil
}

// DecodeWAV parses a 16-bit PCM WAV payload into a clip.
func DecodeWAV(data []byte) (Clip, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	buffer, err := dec.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("decode wav: %w", err)
	}
	if buffer == nil || buffer.Format == nil {
		return Clip{}, errors.New("decode wav: empty buffer")
	}

	c := Clip{
		SampleRate: buffer.Format.SampleRate,
		Channels:   buffer.Format.NumChannels,
		Samples:    make([]int16, len(buffer.Data)),
	}
	for i, s := range buffer.Data {
		c.Samples[i] = int16(s)
	}
	return c, nil
}

// writeSeeker is the in-memory io.WriteSeeker the wav encoder needs for its
// header rewrite on Close. Tracks are ephemeral, so nothing touches disk.
type writeSeeker struct {
	data []byte
	pos  int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	if grow := w.pos + len(p) - len(w.data); grow > 0 {
		w.data = append(w.data, make([]byte, grow)...)
	}
	copy(w.data[w.pos:], p)
	w.pos += len(p)
	return len(p), nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(w.pos) + offset
	case io.SeekEnd:
		abs = int64(len(w.data)) + offset
	default:
		return 0, fmt.Errorf("seek: invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, errors.New("seek: negative position")
	}
	w.pos = int(abs)
	return abs, nil
}
