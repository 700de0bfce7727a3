package embedder

// DocumentSegment is a bounded-length chunk of a source document carrying
// its own token count and embedding vector.
type DocumentSegment struct {
	Text       string    `json:"text"`
	TokenCount int       `json:"tokenCount"`
	Embedding  []float64 `json:"embedding"`
	Index      int       `json:"index,omitempty"`

	// Doc points back at the owning document. Populated by the splitter
	// and when documents are read back from disk; not serialized.
	Doc *Document `json:"-"`
}

// Document is one source document together with its segments and an
// optional whole-document embedding (the per-dimension mean of its segment
// embeddings, recomputed on every load and never stored on disk).
type Document struct {
	URI       string             `json:"uri"`
	Title     string             `json:"title"`
	Text      string             `json:"text"`
	Embedding []float64          `json:"embedding,omitempty"`
	Segments  []*DocumentSegment `json:"segments"`
}

// MeanEmbedding computes the per-dimension arithmetic mean of the segment
// embeddings. Returns nil if the document has no embedded segments.
func (d *Document) MeanEmbedding() []float64 {
	if len(d.Segments) == 0 {
		return nil
	}
	dims := len(d.Segments[0].Embedding)
	if dims == 0 {
		return nil
	}
	mean := make([]float64, dims)
	for _, segment := range d.Segments {
		for i, v := range segment.Embedding {
			mean[i] += v
		}
	}
	n := float64(len(d.Segments))
	for i := range mean {
		mean[i] /= n
	}
	return mean
}
