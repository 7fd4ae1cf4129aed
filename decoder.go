package wavsynth

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
)

var errNilChunk = errors.New("nil chunk pointer")

// Header is the parsed layout of a RIFF/WAVE stream.
type Header struct {
	Format FormatDescriptor
	// TotalSize is the RIFF size field as stored.
	TotalSize uint32
	// ByteRate and BlockAlign are the fmt chunk values as stored.
	ByteRate       uint32
	BlockAlign     uint16
	DataByteLength uint32
	Metadata       *Metadata
}

// Frames is the number of whole frames in the data chunk.
func (h *Header) Frames() int {
	if h.BlockAlign == 0 {
		return 0
	}

	return int(h.DataByteLength) / int(h.BlockAlign)
}

// Duration is the playing time of the data chunk.
func (h *Header) Duration() time.Duration {
	return framesDuration(h.Frames(), h.Format.SampleRateHz)
}

// Decoder reads back RIFF/WAVE streams written by Encoder or by other tools.
// The stream is consumed once; chunks other than fmt, data and LIST are
// skipped.
type Decoder struct {
	r      io.Reader
	parser *riff.Parser

	header *Header
	data   []byte
	err    error
}

// NewDecoder creates a decoder for the passed wav reader.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:      r,
		parser: riff.New(r),
	}
}

// ReadHeader parses the whole container and returns its layout. It is safe to
// call multiple times.
func (d *Decoder) ReadHeader() (*Header, error) {
	if d.header == nil && d.err == nil {
		d.header, d.err = d.readChunks()
	}

	return d.header, d.err
}

// ReadSamples returns the integer or float codes stored in the data chunk. A
// trailing partial frame is ignored.
func (d *Decoder) ReadSamples() (*Quantized, error) {
	h, err := d.ReadHeader()
	if err != nil {
		return nil, err
	}

	frames := h.Frames()
	n := frames * h.Format.Channels
	width := h.Format.BytesPerSample()

	q := &Quantized{
		Format: h.Format,
		Frames: frames,
	}

	if h.Format.Encoding == IEEEFloat {
		q.Floats = make([]float64, n)
		for i := range q.Floats {
			b := d.data[i*width : (i+1)*width]
			if width == 4 {
				q.Floats[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
			} else {
				q.Floats[i] = math.Float64frombits(binary.LittleEndian.Uint64(b))
			}
		}

		return q, nil
	}

	decodeF, err := sampleDecodeFunc(h.Format.BitsPerSample)
	if err != nil {
		return nil, err
	}

	q.Ints = make([]int, n)
	for i := range q.Ints {
		q.Ints[i] = decodeF(d.data[i*width : (i+1)*width])
	}

	return q, nil
}

func (d *Decoder) readChunks() (*Header, error) {
	id, size, err := d.parser.IDnSize()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read chunk ID and size: %w", ErrNotWAVE, err)
	}

	d.parser.ID = id
	if d.parser.ID != riff.RiffID {
		return nil, fmt.Errorf("%w: %q - %w", ErrNotWAVE, d.parser.ID[:], riff.ErrFmtNotSupported)
	}

	d.parser.Size = size

	if err := binary.Read(d.r, binary.BigEndian, &d.parser.Format); err != nil {
		return nil, fmt.Errorf("%w: failed to read format: %w", ErrNotWAVE, err)
	}

	if d.parser.Format != riff.WavFormatID {
		return nil, fmt.Errorf("%w: RIFF form %q", ErrNotWAVE, d.parser.Format[:])
	}

	h := &Header{TotalSize: size}

	var seenFmt, seenData bool

	for {
		chunk, err := d.nextChunk()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, err
		}

		switch chunk.ID {
		case riff.FmtID:
			if err := d.decodeFmtChunk(chunk, h); err != nil {
				return nil, err
			}

			seenFmt = true
		case riff.DataFormatID:
			d.data, err = io.ReadAll(chunk)
			if err != nil {
				return nil, fmt.Errorf("failed to read the data chunk - %w", err)
			}

			if len(d.data) < chunk.Size {
				return nil, fmt.Errorf("data chunk holds %d of %d bytes - %w", len(d.data), chunk.Size, io.ErrUnexpectedEOF)
			}

			h.DataByteLength = uint32(chunk.Size)
			seenData = true
		case CIDList:
			payload := make([]byte, chunk.Size)
			if _, err := io.ReadFull(chunk, payload); err != nil {
				return nil, fmt.Errorf("failed to read the LIST chunk - %w", err)
			}

			meta, err := decodeInfoChunk(payload)
			if err != nil {
				return nil, err
			}

			if meta != nil {
				h.Metadata = meta
			}
		}

		chunk.Drain()
		d.skipPad(chunk)
	}

	if !seenFmt {
		return nil, fmt.Errorf("%w: fmt chunk not found", ErrNotWAVE)
	}

	if !seenData {
		return nil, ErrMissingDataChunk
	}

	return h, nil
}

// nextChunk reads the next chunk header. Unlike riff.Parser.NextChunk the
// size is kept as stored; the word alignment byte is skipped by skipPad.
func (d *Decoder) nextChunk() (*riff.Chunk, error) {
	id, size, err := d.parser.IDnSize()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		return nil, fmt.Errorf("error reading chunk header - %w", err)
	}

	return &riff.Chunk{
		ID:   id,
		Size: int(size),
		R:    io.LimitReader(d.r, int64(size)),
	}, nil
}

func (d *Decoder) skipPad(chunk *riff.Chunk) {
	if chunk.Size%2 == 1 {
		// some writers omit the final pad byte
		io.CopyN(io.Discard, d.r, 1)
	}
}

func (d *Decoder) decodeFmtChunk(chunk *riff.Chunk, h *Header) error {
	if chunk == nil {
		return errNilChunk
	}

	if chunk.Size < fmtChunkSize {
		return fmt.Errorf("%w: fmt chunk of %d bytes", ErrUnsupportedFormat, chunk.Size)
	}

	var fc fmtChunk
	if err := chunk.ReadLE(&fc); err != nil {
		return fmt.Errorf("failed to read the fmt chunk: %w", err)
	}

	format, err := fc.descriptor()
	if err != nil {
		return err
	}

	if err := format.Validate(); err != nil {
		return err
	}

	if int(fc.BlockAlign) != format.BlockAlign() {
		return fmt.Errorf("%w: block align %d, expected %d", ErrUnsupportedFormat, fc.BlockAlign, format.BlockAlign())
	}

	h.Format = format
	h.ByteRate = fc.AvgBytesPerSec
	h.BlockAlign = fc.BlockAlign

	return nil
}

// sampleDecodeFunc returns a function that converts a little endian sample to
// its signed code. 8-bit samples are stored unsigned.
func sampleDecodeFunc(bitsPerSample int) (func([]byte) int, error) {
	switch bitsPerSample {
	case 8:
		return func(b []byte) int {
			return int(b[0]) - 128
		}, nil
	case 16:
		return func(b []byte) int {
			return int(int16(binary.LittleEndian.Uint16(b)))
		}, nil
	case 24:
		return func(b []byte) int {
			return int(audio.Int24LETo32(b))
		}, nil
	case 32:
		return func(b []byte) int {
			return int(int32(binary.LittleEndian.Uint32(b)))
		}, nil
	default:
		return nil, fmt.Errorf("%w: %d-bit pcm", ErrUnsupportedFormat, bitsPerSample)
	}
}
