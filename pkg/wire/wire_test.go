package wire

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fragmentedReader hands out one byte per Read call to exercise frame
// reassembly across arbitrary fragmentation.
type fragmentedReader struct {
	data []byte
	pos  int
}

func (r *fragmentedReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	p[0] = r.data[r.pos]
	r.pos++
	return 1, nil
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.WriteText("Hello "))
	require.NoError(t, enc.WriteText("world, äöü"))
	require.NoError(t, enc.WriteDebug(`{"query":"q"}`))

	dec := NewDecoder(&buf)

	chunk, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, ChunkText, chunk.Type)
	assert.Equal(t, "Hello ", chunk.Payload)

	chunk, err = dec.Next()
	require.NoError(t, err)
	assert.Equal(t, "world, äöü", chunk.Payload)

	chunk, err = dec.Next()
	require.NoError(t, err)
	assert.Equal(t, ChunkDebug, chunk.Type)
	assert.Equal(t, `{"query":"q"}`, chunk.Payload)

	_, err = dec.Next()
	assert.Equal(t, io.EOF, err)
}

func TestDecodeFragmentedStream(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.WriteText("first"))
	require.NoError(t, enc.WriteText("second"))

	dec := NewDecoder(&fragmentedReader{data: buf.Bytes()})

	chunk, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, "first", chunk.Payload)

	chunk, err = dec.Next()
	require.NoError(t, err)
	assert.Equal(t, "second", chunk.Payload)

	_, err = dec.Next()
	assert.Equal(t, io.EOF, err)
}

func TestDecodeZeroLengthPayload(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.WriteText(""))

	dec := NewDecoder(&buf)
	chunk, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, ChunkText, chunk.Type)
	assert.Equal(t, "", chunk.Payload)
}

func TestPartialFrameAtEOFIsCleanDone(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.WriteText("complete"))
	// A frame cut off mid-payload: the transport closed, which readers
	// must treat as end of stream, not an error.
	truncated := append(buf.Bytes(), 0, 10, 0, 0, 0, 'p', 'a', 'r')

	dec := NewDecoder(bytes.NewReader(truncated))

	chunk, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, "complete", chunk.Payload)

	_, err = dec.Next()
	assert.Equal(t, io.EOF, err)
}
