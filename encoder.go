package wavsynth

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
	"github.com/orcaman/writerseeker"
)

// EncoderState is the position of an Encoder in its one-way lifecycle.
type EncoderState uint8

const (
	StateUninitialized EncoderState = iota
	StateHeaderWritten
	StateFormatWritten
	StateDataWritten
	StateFinalized
)

func (s EncoderState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateHeaderWritten:
		return "header written"
	case StateFormatWritten:
		return "format written"
	case StateDataWritten:
		return "data written"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// maxDataBytes keeps the RIFF size field (data + 36 + pad) inside uint32.
const maxDataBytes = math.MaxUint32 - headerSize

// Encoder assembles a RIFF/WAVE file in memory. The header, fmt chunk, data
// chunk and trailer are written in that order; size fields are written as
// placeholders and patched by Finalize.
type Encoder struct {
	ws  *writerseeker.WriterSeeker
	buf *bytes.Buffer

	Format FormatDescriptor
	// Metadata, when set, is written as a LIST/INFO chunk after the data.
	Metadata *Metadata

	WrittenBytes int
	frames       int
	clipped      int
	dataSizePos  int
	state        EncoderState
}

// NewEncoder returns an encoder for format, or ErrUnsupportedFormat.
func NewEncoder(format FormatDescriptor) (*Encoder, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	return &Encoder{
		ws:     &writerseeker.WriterSeeker{},
		buf:    &bytes.Buffer{},
		Format: format,
	}, nil
}

// State returns the current lifecycle state.
func (e *Encoder) State() EncoderState {
	return e.state
}

// Frames is the number of frames written so far.
func (e *Encoder) Frames() int {
	return e.frames
}

func (e *Encoder) expect(op string, allowed ...EncoderState) error {
	for _, s := range allowed {
		if e.state == s {
			return nil
		}
	}

	return fmt.Errorf("%w: can't %s in state %q", ErrInvalidState, op, e.state)
}

func (e *Encoder) addLE(src any) error {
	e.WrittenBytes += binary.Size(src)

	err := binary.Write(e.ws, binary.LittleEndian, src)
	if err != nil {
		return fmt.Errorf("failed to write little endian: %w", err)
	}

	return nil
}

// patchLE overwrites a previously written uint32 without moving the end of
// the stream.
func (e *Encoder) patchLE(pos int, v uint32) error {
	if _, err := e.ws.Seek(int64(pos), io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to offset %d: %w", pos, err)
	}

	if err := binary.Write(e.ws, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("failed to patch offset %d: %w", pos, err)
	}

	if _, err := e.ws.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}

	return nil
}

// WriteHeader writes the 12 byte RIFF/WAVE master header.
func (e *Encoder) WriteHeader() error {
	if err := e.expect("write header", StateUninitialized); err != nil {
		return err
	}

	if err := e.addLE(riff.RiffID); err != nil {
		return err
	}

	// total size, patched on Finalize
	if err := e.addLE(uint32(0)); err != nil {
		return err
	}

	if err := e.addLE(riff.WavFormatID); err != nil {
		return err
	}

	e.state = StateHeaderWritten

	return nil
}

// WriteFormat writes the 16 byte fmt chunk.
func (e *Encoder) WriteFormat() error {
	if err := e.expect("write format", StateHeaderWritten); err != nil {
		return err
	}

	if err := e.addLE(riff.FmtID); err != nil {
		return err
	}

	if err := e.addLE(uint32(fmtChunkSize)); err != nil {
		return fmt.Errorf("error encoding the fmt chunk size - %w", err)
	}

	if err := e.addLE(newFmtChunk(e.Format)); err != nil {
		return fmt.Errorf("error encoding the fmt chunk - %w", err)
	}

	e.state = StateFormatWritten

	return nil
}

// WriteData appends interleaved samples to the data chunk. It may be called
// repeatedly until Finalize.
func (e *Encoder) WriteData(q *Quantized) error {
	if err := e.expect("write data", StateFormatWritten, StateDataWritten); err != nil {
		return err
	}

	if q == nil {
		return fmt.Errorf("%w: nil samples", ErrInvalidSpec)
	}

	if q.Format != e.Format {
		return fmt.Errorf("%w: samples are %s, encoder writes %s", ErrMismatchedFormat, q.Format, e.Format)
	}

	if q.Len() != q.Frames*e.Format.Channels {
		return fmt.Errorf("%w: %d samples for %d frames of %d channels",
			ErrMismatchedFormat, q.Len(), q.Frames, e.Format.Channels)
	}

	if (e.frames+q.Frames)*e.Format.BlockAlign() > maxDataBytes {
		return fmt.Errorf("%w: data chunk exceeds %d bytes", ErrUnsupportedFormat, maxDataBytes)
	}

	if e.state == StateFormatWritten {
		if err := e.addLE(riff.DataFormatID); err != nil {
			return fmt.Errorf("error encoding sound header %w", err)
		}

		e.dataSizePos = e.WrittenBytes

		// data size, patched on Finalize
		if err := e.addLE(uint32(0)); err != nil {
			return fmt.Errorf("%w when writing wav data chunk size header", err)
		}

		e.state = StateDataWritten
	}

	if err := e.packSamples(q); err != nil {
		return err
	}

	n, err := e.ws.Write(e.buf.Bytes())
	e.WrittenBytes += n

	if err != nil {
		return fmt.Errorf("failed to write buffer: %w", err)
	}

	e.buf.Reset()
	e.frames += q.Frames
	e.clipped += q.Clipped

	return nil
}

func (e *Encoder) packSamples(q *Quantized) error {
	var scratch [8]byte

	e.buf.Grow(q.Len() * e.Format.BytesPerSample())

	if e.Format.Encoding == IEEEFloat {
		for _, v := range q.Floats {
			switch e.Format.BitsPerSample {
			case 32:
				binary.LittleEndian.PutUint32(scratch[:4], math.Float32bits(float32(v)))
				e.buf.Write(scratch[:4])
			case 64:
				binary.LittleEndian.PutUint64(scratch[:8], math.Float64bits(v))
				e.buf.Write(scratch[:8])
			default:
				return fmt.Errorf("%w: %d-bit float", ErrUnsupportedFormat, e.Format.BitsPerSample)
			}
		}

		return nil
	}

	for _, code := range q.Ints {
		switch e.Format.BitsPerSample {
		case 8:
			// 8-bit WAVE samples are unsigned with a 128 midpoint
			e.buf.WriteByte(uint8(code + 128))
		case 16:
			binary.LittleEndian.PutUint16(scratch[:2], uint16(int16(code)))
			e.buf.Write(scratch[:2])
		case 24:
			e.buf.Write(audio.Int32toInt24LEBytes(int32(code)))
		case 32:
			binary.LittleEndian.PutUint32(scratch[:4], uint32(int32(code)))
			e.buf.Write(scratch[:4])
		default:
			return fmt.Errorf("%w: %d-bit pcm", ErrUnsupportedFormat, e.Format.BitsPerSample)
		}
	}

	return nil
}

// Finalize pads the data chunk to an even length, writes the optional INFO
// chunk, patches both size fields and returns the finished file. The encoder
// accepts no further calls.
func (e *Encoder) Finalize() (*EncodedFile, error) {
	if err := e.expect("finalize", StateDataWritten); err != nil {
		return nil, err
	}

	dataLen := e.frames * e.Format.BlockAlign()

	// RIFF chunks are word aligned; the pad byte is not part of the data size
	if dataLen%2 == 1 {
		if err := e.addLE(uint8(0)); err != nil {
			return nil, fmt.Errorf("failed to write data padding: %w", err)
		}
	}

	if err := e.writeMetadata(); err != nil {
		return nil, fmt.Errorf("failed to write metadata - %w", err)
	}

	totalSize := uint32(e.WrittenBytes - 8)

	if err := e.patchLE(4, totalSize); err != nil {
		return nil, fmt.Errorf("%w when writing the total written bytes", err)
	}

	if err := e.patchLE(e.dataSizePos, uint32(dataLen)); err != nil {
		return nil, fmt.Errorf("%w when writing wav data chunk size header", err)
	}

	data, err := io.ReadAll(e.ws.Reader())
	if err != nil {
		return nil, fmt.Errorf("failed to read encoded bytes: %w", err)
	}

	e.state = StateFinalized

	return &EncodedFile{
		data:           data,
		Container:      ContainerWAV,
		Format:         e.Format,
		Frames:         e.frames,
		DataByteLength: uint32(dataLen),
		TotalSize:      totalSize,
		Clipped:        e.clipped,
	}, nil
}

func (e *Encoder) writeMetadata() error {
	chunkData := encodeInfoChunk(e.Metadata)
	if len(chunkData) == 0 {
		return nil
	}

	if err := e.addLE(CIDList); err != nil {
		return fmt.Errorf("failed to write the LIST chunk ID: %w", err)
	}

	if err := e.addLE(uint32(len(chunkData))); err != nil {
		return fmt.Errorf("failed to write the LIST chunk size: %w", err)
	}

	return e.addLE(chunkData)
}

// Encode runs the full encoder lifecycle over q.
func Encode(q *Quantized, format FormatDescriptor) (*EncodedFile, error) {
	return encode(q, format, nil)
}

func encode(q *Quantized, format FormatDescriptor, meta *Metadata) (*EncodedFile, error) {
	enc, err := NewEncoder(format)
	if err != nil {
		return nil, err
	}

	enc.Metadata = meta

	if err := enc.WriteHeader(); err != nil {
		return nil, err
	}

	if err := enc.WriteFormat(); err != nil {
		return nil, err
	}

	if err := enc.WriteData(q); err != nil {
		return nil, err
	}

	return enc.Finalize()
}
