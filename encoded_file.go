package wavsynth

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"
)

// Container selects the file format Render produces.
type Container uint8

const (
	ContainerWAV Container = iota
	ContainerAIFF
)

func (c Container) String() string {
	switch c {
	case ContainerWAV:
		return "wav"
	case ContainerAIFF:
		return "aiff"
	default:
		return fmt.Sprintf("container(%d)", uint8(c))
	}
}

// Ext is the file extension, dot included.
func (c Container) Ext() string {
	if c == ContainerAIFF {
		return ".aiff"
	}

	return ".wav"
}

// MediaType is the MIME type served for the container.
func (c Container) MediaType() string {
	if c == ContainerAIFF {
		return "audio/aiff"
	}

	return "audio/wav"
}

// ParseContainer accepts "wav"/"wave" and "aiff"/"aif".
func ParseContainer(name string) (Container, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "wav", "wave":
		return ContainerWAV, nil
	case "aiff", "aif":
		return ContainerAIFF, nil
	default:
		return 0, fmt.Errorf("%w: unknown container %q", ErrUnsupportedFormat, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Container) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Container) UnmarshalText(text []byte) error {
	parsed, err := ParseContainer(string(text))
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}

// EncodedFile is a finished, immutable audio file.
type EncodedFile struct {
	data []byte

	Container Container
	Format    FormatDescriptor
	Frames    int
	// DataByteLength is the sample payload size, pad byte excluded.
	DataByteLength uint32
	// TotalSize is the value of the outer chunk size field: file length - 8.
	TotalSize uint32
	Clipped   int
}

// Bytes returns a copy of the encoded file.
func (f *EncodedFile) Bytes() []byte {
	return bytes.Clone(f.data)
}

// Len is the file length in bytes.
func (f *EncodedFile) Len() int {
	return len(f.data)
}

// Reader returns a fresh reader over the file.
func (f *EncodedFile) Reader() *bytes.Reader {
	return bytes.NewReader(f.data)
}

// WriteTo implements io.WriterTo.
func (f *EncodedFile) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.data)
	if err != nil {
		return int64(n), fmt.Errorf("failed to write %s file: %w", f.Container, err)
	}

	return int64(n), nil
}

// Duration is the playing time of the sample data.
func (f *EncodedFile) Duration() time.Duration {
	return framesDuration(f.Frames, f.Format.SampleRateHz)
}

// Diagnostic returns a *ClippingError when quantization clamped samples.
func (f *EncodedFile) Diagnostic() error {
	return clippingDiagnostic(f.Clipped)
}
