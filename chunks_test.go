package wavsynth

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/riff"
)

// chunkEntry is a top level chunk as stored: the size excludes the pad byte.
type chunkEntry struct {
	id   string
	size uint32
}

// layout is the top level chunk order of a wav file and the payload of its
// LIST chunk, if any.
type layout struct {
	chunks []chunkEntry
	list   []byte
}

var errChunkPastEOF = errors.New("chunk runs past the end of the file")

// walkChunks lists the chunks following the RIFF/WAVE header. It reads chunk
// headers with riff.Parser.IDnSize rather than NextChunk, which rounds odd
// sizes up.
func walkChunks(data []byte) (*layout, error) {
	r := bytes.NewReader(data)
	p := riff.New(r)

	if err := p.ParseHeaders(); err != nil {
		return nil, err
	}

	if p.Format != riff.WavFormatID {
		return nil, fmt.Errorf("%w: %q", ErrNotWAVE, p.Format[:])
	}

	out := &layout{}

	for {
		id, size, err := p.IDnSize()
		if errors.Is(err, io.EOF) {
			return out, nil
		}

		if err != nil {
			return nil, err
		}

		stored := int(size) + int(size%2)
		if int(size) > r.Len() {
			return nil, fmt.Errorf("%w: %q", errChunkPastEOF, id[:])
		}

		ch := &riff.Chunk{ID: id, Size: stored, R: r}
		if id == CIDList {
			out.list = make([]byte, size)
			if _, err := io.ReadFull(ch, out.list); err != nil {
				return nil, err
			}
		}

		ch.Drain()

		out.chunks = append(out.chunks, chunkEntry{id: string(id[:]), size: size})
	}
}

func walkChunksInFile(path string) (*layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return walkChunks(data)
}
