package wavsynth

import (
	"fmt"
	"strings"
)

const (
	wavFormatPCM       = 1
	wavFormatIEEEFloat = 3

	fmtChunkSize = 16
	// headerSize is the canonical RIFF + fmt + data header length.
	headerSize = 44
)

// SampleEncoding is the sample representation inside the data chunk.
type SampleEncoding uint8

const (
	PCMInteger SampleEncoding = iota
	IEEEFloat
)

func (e SampleEncoding) String() string {
	switch e {
	case PCMInteger:
		return "pcm"
	case IEEEFloat:
		return "float"
	default:
		return fmt.Sprintf("encoding(%d)", uint8(e))
	}
}

// FormatTag is the WAVE fmt chunk category code: 1 for PCM, 3 for IEEE float.
func (e SampleEncoding) FormatTag() uint16 {
	if e == IEEEFloat {
		return wavFormatIEEEFloat
	}

	return wavFormatPCM
}

// ParseSampleEncoding accepts "pcm"/"int" and "float"/"ieee".
func ParseSampleEncoding(name string) (SampleEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "pcm", "int", "integer":
		return PCMInteger, nil
	case "float", "ieee", "ieeefloat":
		return IEEEFloat, nil
	default:
		return 0, fmt.Errorf("%w: unknown sample encoding %q", ErrUnsupportedFormat, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e SampleEncoding) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *SampleEncoding) UnmarshalText(text []byte) error {
	parsed, err := ParseSampleEncoding(string(text))
	if err != nil {
		return err
	}

	*e = parsed

	return nil
}

func encodingFromTag(tag uint16) (SampleEncoding, error) {
	switch tag {
	case wavFormatPCM:
		return PCMInteger, nil
	case wavFormatIEEEFloat:
		return IEEEFloat, nil
	default:
		return 0, fmt.Errorf("%w: wav format tag %d", ErrUnsupportedFormat, tag)
	}
}

// FormatDescriptor describes the output sample layout.
type FormatDescriptor struct {
	Channels      int            `json:"channels"`
	SampleRateHz  int            `json:"sampleRate"`
	BitsPerSample int            `json:"bitsPerSample"`
	Encoding      SampleEncoding `json:"encoding"`
}

// Validate reports ErrUnsupportedFormat for layouts the encoder can't write.
func (f FormatDescriptor) Validate() error {
	if f.Channels < 1 || f.Channels > 0xFFFF {
		return fmt.Errorf("%w: channel count %d", ErrUnsupportedFormat, f.Channels)
	}

	if f.SampleRateHz <= 0 || int64(f.SampleRateHz) > 0xFFFFFFFF {
		return fmt.Errorf("%w: sample rate %d", ErrUnsupportedFormat, f.SampleRateHz)
	}

	switch f.Encoding {
	case PCMInteger:
		switch f.BitsPerSample {
		case 8, 16, 24, 32:
		default:
			return fmt.Errorf("%w: %d-bit pcm", ErrUnsupportedFormat, f.BitsPerSample)
		}
	case IEEEFloat:
		switch f.BitsPerSample {
		case 32, 64:
		default:
			return fmt.Errorf("%w: %d-bit float", ErrUnsupportedFormat, f.BitsPerSample)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.Encoding)
	}

	if int64(f.ByteRate()) > 0xFFFFFFFF || f.BlockAlign() > 0xFFFF {
		return fmt.Errorf("%w: byte rate overflows the fmt chunk", ErrUnsupportedFormat)
	}

	return nil
}

// BytesPerSample is the storage width of one sample of one channel.
func (f FormatDescriptor) BytesPerSample() int {
	return bytesPerSample(f.BitsPerSample)
}

// BlockAlign is the byte length of one interleaved frame.
func (f FormatDescriptor) BlockAlign() int {
	return f.Channels * f.BytesPerSample()
}

// ByteRate is sampleRate × blockAlign.
func (f FormatDescriptor) ByteRate() int {
	return f.SampleRateHz * f.BlockAlign()
}

func (f FormatDescriptor) String() string {
	return fmt.Sprintf("%d ch, %d Hz, %d-bit %s", f.Channels, f.SampleRateHz, f.BitsPerSample, f.Encoding)
}

// fmtChunk mirrors the 16 byte WAVE fmt chunk.
type fmtChunk struct {
	FormatTag      uint16
	NumChannels    uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
}

func newFmtChunk(f FormatDescriptor) fmtChunk {
	return fmtChunk{
		FormatTag:      f.Encoding.FormatTag(),
		NumChannels:    uint16(f.Channels),
		SampleRate:     uint32(f.SampleRateHz),
		AvgBytesPerSec: uint32(f.ByteRate()),
		BlockAlign:     uint16(f.BlockAlign()),
		BitsPerSample:  uint16(f.BitsPerSample),
	}
}

func (c fmtChunk) descriptor() (FormatDescriptor, error) {
	enc, err := encodingFromTag(c.FormatTag)
	if err != nil {
		return FormatDescriptor{}, err
	}

	return FormatDescriptor{
		Channels:      int(c.NumChannels),
		SampleRateHz:  int(c.SampleRate),
		BitsPerSample: int(c.BitsPerSample),
		Encoding:      enc,
	}, nil
}
