package wavsynth

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// CIDList is the chunk ID for a LIST chunk.
	CIDList = [4]byte{'L', 'I', 'S', 'T'}
	// CIDInfo is the list type of an INFO list.
	CIDInfo = [4]byte{'I', 'N', 'F', 'O'}

	// See http://bwfmetaedit.sourceforge.net/listinfo.html
	markerIART = [4]byte{'I', 'A', 'R', 'T'}
	markerISFT = [4]byte{'I', 'S', 'F', 'T'}
	markerICRD = [4]byte{'I', 'C', 'R', 'D'}
	markerICOP = [4]byte{'I', 'C', 'O', 'P'}
	markerINAM = [4]byte{'I', 'N', 'A', 'M'}
	markerIGNR = [4]byte{'I', 'G', 'N', 'R'}
	markerISRC = [4]byte{'I', 'S', 'R', 'C'}
	markerISBJ = [4]byte{'I', 'S', 'B', 'J'}
	markerICMT = [4]byte{'I', 'C', 'M', 'T'}
	markerIKEY = [4]byte{'I', 'K', 'E', 'Y'}

	errListTruncated = errors.New("truncated LIST chunk")
)

// Metadata is the subset of RIFF INFO tags written after the data chunk.
type Metadata struct {
	Title        string `json:"title,omitempty"`
	Artist       string `json:"artist,omitempty"`
	Comments     string `json:"comments,omitempty"`
	Copyright    string `json:"copyright,omitempty"`
	CreationDate string `json:"creationDate,omitempty"`
	Software     string `json:"software,omitempty"`
	Subject      string `json:"subject,omitempty"`
	Keywords     string `json:"keywords,omitempty"`
	Genre        string `json:"genre,omitempty"`
	Source       string `json:"source,omitempty"`
}

// IsZero reports whether no tag is set.
func (m *Metadata) IsZero() bool {
	return m == nil || *m == Metadata{}
}

func (m *Metadata) fields() []struct {
	marker [4]byte
	value  *string
} {
	return []struct {
		marker [4]byte
		value  *string
	}{
		{markerIART, &m.Artist},
		{markerICMT, &m.Comments},
		{markerICOP, &m.Copyright},
		{markerICRD, &m.CreationDate},
		{markerIGNR, &m.Genre},
		{markerIKEY, &m.Keywords},
		{markerINAM, &m.Title},
		{markerISBJ, &m.Subject},
		{markerISFT, &m.Software},
		{markerISRC, &m.Source},
	}
}

// encodeInfoChunk returns the LIST payload ("INFO" + sub chunks) or nil when
// there is nothing to write. Every sub chunk is NUL terminated and padded to
// an even length.
func encodeInfoChunk(m *Metadata) []byte {
	if m.IsZero() {
		return nil
	}

	buf := bytes.NewBuffer(nil)
	buf.Write(CIDInfo[:])

	for _, field := range m.fields() {
		val := *field.value
		if val == "" {
			continue
		}

		size := len(val) + 1

		buf.Write(field.marker[:])
		binary.Write(buf, binary.LittleEndian, uint32(size))
		buf.WriteString(val)
		buf.WriteByte(0)

		if size%2 == 1 {
			buf.WriteByte(0)
		}
	}

	return buf.Bytes()
}

// decodeInfoChunk parses a LIST payload. Lists other than INFO yield nil.
func decodeInfoChunk(payload []byte) (*Metadata, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("%w: %d bytes", errListTruncated, len(payload))
	}

	if !bytes.Equal(payload[:4], CIDInfo[:]) {
		return nil, nil
	}

	m := &Metadata{}
	fields := m.fields()

	for rest := payload[4:]; len(rest) >= 8; {
		var id [4]byte
		copy(id[:], rest[:4])

		size := int(binary.LittleEndian.Uint32(rest[4:8]))
		rest = rest[8:]

		if size > len(rest) {
			return nil, fmt.Errorf("%w: %s needs %d bytes, %d left", errListTruncated, id, size, len(rest))
		}

		value := nullTermStr(rest[:size])

		for _, field := range fields {
			if field.marker == id {
				*field.value = value
			}
		}

		rest = rest[size:]
		if size%2 == 1 && len(rest) > 0 {
			rest = rest[1:]
		}
	}

	return m, nil
}
