package wavsynth

import (
	"fmt"
	"math"

	"github.com/go-audio/audio"
)

// Quantized holds interleaved sample codes ready for the encoder. Exactly one
// of Ints (PCMInteger) or Floats (IEEEFloat) is populated.
type Quantized struct {
	Format FormatDescriptor
	Frames int
	// Ints are signed codes in [-2^(bits-1), 2^(bits-1)-1], 8-bit included.
	Ints []int
	// Floats are already rounded to the target float width.
	Floats []float64
	// Clipped counts samples clamped to the integer range.
	Clipped int
}

// Diagnostic returns a *ClippingError when samples were clamped, nil
// otherwise. It never signals a failed quantization.
func (q *Quantized) Diagnostic() error {
	if q == nil {
		return nil
	}

	return clippingDiagnostic(q.Clipped)
}

// Len is the total number of samples across channels.
func (q *Quantized) Len() int {
	if q.Format.Encoding == IEEEFloat {
		return len(q.Floats)
	}

	return len(q.Ints)
}

// IntBuffer exposes the PCM codes as a go-audio buffer.
func (q *Quantized) IntBuffer() *audio.IntBuffer {
	return &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: q.Format.Channels,
			SampleRate:  q.Format.SampleRateHz,
		},
		Data:           append([]int(nil), q.Ints...),
		SourceBitDepth: q.Format.BitsPerSample,
	}
}

// Float maps the codes back to normalized floats, the inverse of Quantize up
// to rounding.
func (q *Quantized) Float() *audio.FloatBuffer {
	buf := &audio.FloatBuffer{
		Format: &audio.Format{
			NumChannels: q.Format.Channels,
			SampleRate:  q.Format.SampleRateHz,
		},
	}

	if q.Format.Encoding == IEEEFloat {
		buf.Data = append([]float64(nil), q.Floats...)
		return buf
	}

	scale := float64(maxCode(q.Format.BitsPerSample))

	buf.Data = make([]float64, len(q.Ints))
	for i, code := range q.Ints {
		buf.Data[i] = float64(code) / scale
	}

	return buf
}

// Quantize converts a float buffer to the codes of format. Integer formats
// map s to round(s × (2^(bits-1) − 1)), rounding half away from zero, and
// hard clip to the signed range. Float formats pass values through at the
// target width without clamping.
func Quantize(buf *audio.FloatBuffer, format FormatDescriptor) (*Quantized, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("%w: nil buffer", ErrInvalidSpec)
	}

	if buf.Format.NumChannels != format.Channels {
		return nil, fmt.Errorf("%w: buffer has %d channels, format wants %d",
			ErrMismatchedFormat, buf.Format.NumChannels, format.Channels)
	}

	if buf.Format.SampleRate != format.SampleRateHz {
		return nil, fmt.Errorf("%w: buffer is %d Hz, format wants %d Hz",
			ErrMismatchedFormat, buf.Format.SampleRate, format.SampleRateHz)
	}

	if len(buf.Data)%format.Channels != 0 {
		return nil, fmt.Errorf("%w: %d samples don't fill %d-channel frames",
			ErrMismatchedFormat, len(buf.Data), format.Channels)
	}

	q := &Quantized{
		Format: format,
		Frames: len(buf.Data) / format.Channels,
	}

	if format.Encoding == IEEEFloat {
		q.Floats = make([]float64, len(buf.Data))
		for i, s := range buf.Data {
			q.Floats[i] = toFloatWidth(s, format.BitsPerSample)
		}

		return q, nil
	}

	q.Ints = make([]int, len(buf.Data))
	for i, s := range buf.Data {
		code, clipped := quantizeSample(s, format.BitsPerSample)
		if clipped {
			q.Clipped++
		}

		q.Ints[i] = code
	}

	return q, nil
}

// quantizeSample returns the integer code for s and whether it was clamped.
// NaN maps to 0 and counts as clipped.
func quantizeSample(s float64, bitDepth int) (int, bool) {
	if math.IsNaN(s) {
		return 0, true
	}

	hi, lo := maxCode(bitDepth), minCode(bitDepth)

	scaled := math.Round(s * float64(hi))
	if scaled > float64(hi) {
		return int(hi), true
	}

	if scaled < float64(lo) {
		return int(lo), true
	}

	return int(scaled), false
}

func toFloatWidth(s float64, bitDepth int) float64 {
	if bitDepth == 32 {
		return float64(float32(s))
	}

	return s
}
