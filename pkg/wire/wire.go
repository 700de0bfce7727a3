// Package wire implements the length-prefixed chunk framing used to stream
// completion output to clients. Each chunk on the wire is a 1-byte type,
// a 4-byte little-endian unsigned payload length, and the UTF-8 payload.
// The stream has no end marker; the transport closing mid-frame is a clean
// "done" signal for readers.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

type ChunkType byte

const (
	// ChunkText carries user-visible answer text.
	ChunkText ChunkType = 0
	// ChunkDebug carries a JSON-encoded CompletionDebug payload.
	ChunkDebug ChunkType = 1
)

type Chunk struct {
	Type    ChunkType
	Payload string
}

// Encoder frames chunks onto an io.Writer.
type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) WriteText(s string) error {
	return e.write(ChunkText, s)
}

func (e *Encoder) WriteDebug(s string) error {
	return e.write(ChunkDebug, s)
}

func (e *Encoder) write(t ChunkType, s string) error {
	payload := []byte(s)
	header := make([]byte, 5)
	header[0] = byte(t)
	binary.LittleEndian.PutUint32(header[1:], uint32(len(payload)))
	if _, err := e.w.Write(header); err != nil {
		return fmt.Errorf("write chunk header: %w", err)
	}
	if _, err := e.w.Write(payload); err != nil {
		return fmt.Errorf("write chunk payload: %w", err)
	}
	return nil
}

// Decoder reassembles chunks from a byte stream. It buffers incoming bytes
// and only decodes once a full frame is available, so chunk boundaries may
// split the type byte, the length field, or the payload arbitrarily.
type Decoder struct {
	r   io.Reader
	buf []byte
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Next returns the next chunk. It returns io.EOF when the stream ends
// cleanly, including when the transport closes in the middle of a frame.
// Any other transport error is returned as-is.
func (d *Decoder) Next() (*Chunk, error) {
	header, err := d.take(5)
	if err != nil {
		return nil, err
	}
	length := binary.LittleEndian.Uint32(header[1:])
	payload, err := d.take(int(length))
	if err != nil {
		return nil, err
	}
	return &Chunk{Type: ChunkType(header[0]), Payload: string(payload)}, nil
}

// take blocks until n bytes are buffered and consumes them. EOF before n
// bytes arrive is reported as io.EOF, the clean end-of-stream signal.
func (d *Decoder) take(n int) ([]byte, error) {
	for len(d.buf) < n {
		chunk := make([]byte, 4096)
		read, err := d.r.Read(chunk)
		if read > 0 {
			d.buf = append(d.buf, chunk[:read]...)
		}
		if err != nil {
			if len(d.buf) >= n {
				break
			}
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, err
		}
	}
	out := d.buf[:n]
	d.buf = d.buf[n:]
	return out, nil
}
