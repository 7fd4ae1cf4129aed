package wavsynth

import (
	"fmt"

	"github.com/go-audio/audio"
)

// Voice routes one waveform to an output channel at a given gain. Several
// voices may target the same channel; they are summed.
type Voice struct {
	Spec    WaveformSpec `json:"spec"`
	Gain    float64      `json:"gain"`
	Channel int          `json:"channel"`
}

// Compose mixes voices into an interleaved buffer whose channel count is the
// highest channel index used plus one.
func Compose(voices ...Voice) (*audio.FloatBuffer, error) {
	numChans := 0
	for _, v := range voices {
		numChans = max(numChans, v.Channel+1)
	}

	return ComposeChannels(numChans, voices...)
}

// ComposeChannels mixes voices into a buffer with exactly numChans channels.
// Channels no voice targets stay silent. Summed values are not clipped;
// clamping happens in Quantize.
func ComposeChannels(numChans int, voices ...Voice) (*audio.FloatBuffer, error) {
	if len(voices) == 0 {
		return nil, fmt.Errorf("%w: no voices to compose", ErrInvalidSpec)
	}

	if numChans < 1 {
		return nil, fmt.Errorf("%w: channel count must be > 0, got %d", ErrInvalidSpec, numChans)
	}

	generators := make([]*Generator, len(voices))

	ref := voices[0].Spec
	for i, v := range voices {
		if v.Channel < 0 || v.Channel >= numChans {
			return nil, fmt.Errorf("%w: voice %d targets channel %d of %d", ErrInvalidSpec, i, v.Channel, numChans)
		}

		if !isFinite(v.Gain) {
			return nil, fmt.Errorf("%w: voice %d gain must be finite", ErrInvalidSpec, i)
		}

		gen, err := NewGenerator(v.Spec)
		if err != nil {
			return nil, fmt.Errorf("voice %d: %w", i, err)
		}

		if v.Spec.SampleRateHz != ref.SampleRateHz {
			return nil, fmt.Errorf("%w: voice %d sample rate %d Hz, voice 0 has %d Hz",
				ErrMismatchedFormat, i, v.Spec.SampleRateHz, ref.SampleRateHz)
		}

		if v.Spec.DurationSeconds != ref.DurationSeconds {
			return nil, fmt.Errorf("%w: voice %d lasts %vs, voice 0 lasts %vs",
				ErrMismatchedFormat, i, v.Spec.DurationSeconds, ref.DurationSeconds)
		}

		generators[i] = gen
	}

	frames := generators[0].Len()
	buf := &audio.FloatBuffer{
		Format: &audio.Format{
			NumChannels: numChans,
			SampleRate:  ref.SampleRateHz,
		},
		Data: make([]float64, frames*numChans),
	}

	for i, gen := range generators {
		gain := voices[i].Gain
		ch := voices[i].Channel

		for n, s := range gen.All() {
			buf.Data[n*numChans+ch] += gain * s
		}
	}

	return buf, nil
}
