package audio

import (
	"fmt"
	"math"
	"time"
)

// Clip holds decoded 16-bit PCM audio. Clips are value types: operations
// return new clips and never mutate their inputs.
type Clip struct {
	SampleRate int
	Channels   int
	Samples    []int16
}

// Silence returns a clip of zero samples lasting d.
func Silence(d time.Duration, sampleRate, channels int) Clip {
	frames := int(math.Round(d.Seconds() * float64(sampleRate)))
	if frames < 0 {
		frames = 0
	}
	return Clip{
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    make([]int16, frames*channels),
	}
}

// Empty reports whether the clip carries no samples.
func (c Clip) Empty() bool { return len(c.Samples) == 0 }

// Frames returns the per-channel sample count.
func (c Clip) Frames() int {
	if c.Channels <= 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// Duration returns the playback duration at the clip's nominal rate.
func (c Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(c.Frames()) / float64(c.SampleRate) * float64(time.Second))
}

// Concat joins clips in order into one new clip. All non-empty clips must
// share a sample rate and channel count. Concatenating nothing (or only
// empty clips) yields the zero clip.
func Concat(clips ...Clip) (Clip, error) {
	var out Clip
	for _, c := range clips {
		if c.Empty() {
			continue
		}
		if out.Empty() && out.SampleRate == 0 {
			out = Clip{SampleRate: c.SampleRate, Channels: c.Channels}
		}
		if c.SampleRate != out.SampleRate || c.Channels != out.Channels {
			return Clip{}, fmt.Errorf("concat format mismatch: %dHz/%dch vs %dHz/%dch",
				c.SampleRate, c.Channels, out.SampleRate, out.Channels)
		}
		out.Samples = append(out.Samples, c.Samples...)
	}
	return out, nil
}

// RateShift speeds playback up by factor: the clip is treated as if recorded
// at rate*factor and resampled back to its nominal rate, so duration shrinks
// to roughly 1/factor and pitch rises proportionally. That pitch shift is the
// point of the technique. factor of exactly 1.0 returns the clip unchanged.
func (c Clip) RateShift(factor float64) (Clip, error) {
	if factor <= 0 {
		return Clip{}, fmt.Errorf("rate shift factor must be positive, got %v", factor)
	}
	if factor == 1.0 || c.Empty() {
		return c, nil
	}

	declared := float64(c.SampleRate) * factor
	inFrames := c.Frames()
	outFrames := int(math.Round(float64(inFrames) * float64(c.SampleRate) / declared))
	if outFrames < 1 {
		outFrames = 1
	}

	out := Clip{
		SampleRate: c.SampleRate,
		Channels:   c.Channels,
		Samples:    make([]int16, outFrames*c.Channels),
	}
	step := declared / float64(c.SampleRate)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * step
		lo := int(pos)
		if lo >= inFrames-1 {
			lo = inFrames - 1
		}
		hi := lo + 1
		if hi >= inFrames {
			hi = inFrames - 1
		}
		frac := pos - float64(lo)
		for ch := 0; ch < c.Channels; ch++ {
			a := float64(c.Samples[lo*c.Channels+ch])
			b := float64(c.Samples[hi*c.Channels+ch])
			out.Samples[i*c.Channels+ch] = int16(math.Round(a + (b-a)*frac))
		}
	}
	return out, nil
}
