package embedder

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// On-disk embedding format, all integers and doubles big-endian:
//
//	int32 docCount
//	repeat docCount:
//	  int32 uriLen;   bytes uri (utf-8)
//	  int32 titleLen; bytes title (utf-8)
//	  int32 segmentCount
//	  repeat segmentCount:
//	    int32 textLen; bytes text (utf-8)
//	    int32 tokenCount
//	    int32 embeddingDim
//	    double[embeddingDim] embedding
//
// The whole-document embedding is not stored; it is recomputed as the
// per-dimension mean of the segment embeddings on every load.

const (
	writeBufferSize = 10 * 1024 * 1024
	readBufferSize  = 1 * 1024 * 1024
)

// WriteDocuments serializes docs to path, replacing any existing file.
func WriteDocuments(path string, docs []*Document) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriterSize(file, writeBufferSize)
	if err := writeInt32(w, int32(len(docs))); err != nil {
		return err
	}
	for _, doc := range docs {
		if err := writeString(w, doc.URI); err != nil {
			return err
		}
		if err := writeString(w, doc.Title); err != nil {
			return err
		}
		if err := writeInt32(w, int32(len(doc.Segments))); err != nil {
			return err
		}
		for _, segment := range doc.Segments {
			if err := writeString(w, segment.Text); err != nil {
				return err
			}
			if err := writeInt32(w, int32(segment.TokenCount)); err != nil {
				return err
			}
			if err := writeInt32(w, int32(len(segment.Embedding))); err != nil {
				return err
			}
			for _, v := range segment.Embedding {
				if err := writeFloat64(w, v); err != nil {
					return err
				}
			}
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return file.Close()
}

// ReadDocuments deserializes docs from path using a refilling read buffer.
// Truncated input is an error, never silently treated as end of data.
func ReadDocuments(path string) ([]*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return readDocuments(bufio.NewReaderSize(file, readBufferSize), path)
}

// ReadDocumentsInMemory loads the whole file into memory first. Faster for
// small corpora, avoids buffered refills.
func ReadDocumentsInMemory(path string) ([]*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return readDocuments(&memoryBuffer{data: data}, path)
}

type memoryBuffer struct {
	data   []byte
	offset int
}

func (b *memoryBuffer) Read(p []byte) (int, error) {
	if b.offset >= len(b.data) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.offset:])
	b.offset += n
	return n, nil
}

func readDocuments(r io.Reader, path string) ([]*Document, error) {
	docCount, err := readInt32(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if docCount < 0 {
		return nil, fmt.Errorf("read %s: corrupt document count %d", path, docCount)
	}
	docs := make([]*Document, 0, docCount)
	for i := int32(0); i < docCount; i++ {
		doc := &Document{}
		if doc.URI, err = readString(r); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if doc.Title, err = readString(r); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		segmentCount, err := readInt32(r)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if segmentCount < 0 {
			return nil, fmt.Errorf("read %s: corrupt segment count %d", path, segmentCount)
		}
		doc.Segments = make([]*DocumentSegment, 0, segmentCount)
		for j := int32(0); j < segmentCount; j++ {
			segment := &DocumentSegment{Index: int(j), Doc: doc}
			if segment.Text, err = readString(r); err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			tokenCount, err := readInt32(r)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			segment.TokenCount = int(tokenCount)
			dims, err := readInt32(r)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			if dims < 0 {
				return nil, fmt.Errorf("read %s: corrupt embedding dimension %d", path, dims)
			}
			segment.Embedding = make([]float64, dims)
			for k := int32(0); k < dims; k++ {
				if segment.Embedding[k], err = readFloat64(r); err != nil {
					return nil, fmt.Errorf("read %s: %w", path, err)
				}
			}
			doc.Segments = append(doc.Segments, segment)
		}
		doc.Embedding = doc.MeanEmbedding()
		docs = append(docs, doc)
	}
	return docs, nil
}

func writeInt32(w io.Writer, v int32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	_, err := w.Write(buf[:])
	return err
}

func writeFloat64(w io.Writer, v float64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
	_, err := w.Write(buf[:])
	return err
}

func writeString(w io.Writer, s string) error {
	data := []byte(s)
	if err := writeInt32(w, int32(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

func readInt32(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, readError(err)
	}
	return int32(binary.BigEndian.Uint32(buf[:])), nil
}

func readFloat64(r io.Reader) (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, readError(err)
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf[:])), nil
}

func readString(r io.Reader) (string, error) {
	length, err := readInt32(r)
	if err != nil {
		return "", err
	}
	// A negative length means the file is corrupt, not merely truncated;
	// it must never reach make.
	if length < 0 {
		return "", fmt.Errorf("corrupt string length %d", length)
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return "", readError(err)
	}
	return string(data), nil
}

func readError(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("reading past end of file")
	}
	return err
}
