package wavsynth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSpec indicates bad synthesis parameters.
	ErrInvalidSpec = errors.New("invalid waveform spec")
	// ErrMismatchedFormat indicates voices or buffers that disagree on sample
	// rate, duration or channel layout.
	ErrMismatchedFormat = errors.New("mismatched format")
	// ErrUnsupportedFormat indicates a bit depth, encoding or channel count the
	// container can't carry.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrInvalidState is returned when the encoder is driven out of order.
	ErrInvalidState = errors.New("invalid encoder state")
	// ErrClippingDetected is the non-fatal diagnostic wrapped by ClippingError.
	ErrClippingDetected = errors.New("clipping detected")
	// ErrNotWAVE is returned by the decoder for non RIFF/WAVE input.
	ErrNotWAVE = errors.New("not a RIFF/WAVE stream")
	// ErrMissingDataChunk is returned when no data chunk could be found.
	ErrMissingDataChunk = errors.New("data chunk not found")
)

// ClippingError reports how many samples were clamped during quantization.
// It is a diagnostic: synthesis output is still valid.
type ClippingError struct {
	Count int
}

func (e *ClippingError) Error() string {
	return fmt.Sprintf("%s: %d samples", ErrClippingDetected, e.Count)
}

func (e *ClippingError) Unwrap() error {
	return ErrClippingDetected
}

func clippingDiagnostic(count int) error {
	if count <= 0 {
		return nil
	}

	return &ClippingError{Count: count}
}
