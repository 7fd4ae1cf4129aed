package wavsynth

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/orcaman/writerseeker"
)

// EncodeAIFF writes PCM codes as a big endian AIFF file. AIFF has no float
// encoding in this package; IEEEFloat formats yield ErrUnsupportedFormat.
func EncodeAIFF(q *Quantized) (*EncodedFile, error) {
	if q == nil {
		return nil, fmt.Errorf("%w: nil samples", ErrInvalidSpec)
	}

	if err := q.Format.Validate(); err != nil {
		return nil, err
	}

	if q.Format.Encoding != PCMInteger {
		return nil, fmt.Errorf("%w: aiff carries pcm only, got %s", ErrUnsupportedFormat, q.Format.Encoding)
	}

	ws := &writerseeker.WriterSeeker{}
	encoder := aiff.NewEncoder(ws, q.Format.SampleRateHz, q.Format.BitsPerSample, q.Format.Channels)

	if err := encoder.Write(q.IntBuffer()); err != nil {
		return nil, fmt.Errorf("failed to write aiff samples: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to close aiff encoder: %w", err)
	}

	data, err := io.ReadAll(ws.Reader())
	if err != nil {
		return nil, fmt.Errorf("failed to read encoded bytes: %w", err)
	}

	return &EncodedFile{
		data:           data,
		Container:      ContainerAIFF,
		Format:         q.Format,
		Frames:         q.Frames,
		DataByteLength: uint32(q.Frames * q.Format.BlockAlign()),
		TotalSize:      uint32(len(data) - 8),
		Clipped:        q.Clipped,
	}, nil
}
