// Package vector defines the similarity-search boundary used for context
// retrieval, plus a pgvector-backed implementation.
package vector

import (
	"context"

	"docuchat-be/pkg/embedder"
)

// Hit is one nearest-neighbor result. ID encodes either a document key or
// a "docUri|segmentIndex" composite, depending on the configured
// granularity; Distance is the backend's distance metric where lower means
// more relevant.
type Hit struct {
	ID       string
	Distance float64
}

// Document is a retrieval row as exposed to corpus inspection endpoints.
type Document struct {
	SourceID   string  `json:"sourceId"`
	DocURI     string  `json:"docUri"`
	DocTitle   string  `json:"docTitle"`
	Index      int     `json:"index"`
	Text       string  `json:"text"`
	TokenCount int     `json:"tokenCount"`
	Distance   float64 `json:"distance"`
}

// Store is the per-source similarity index.
type Store interface {
	// Update replaces all vectors of a source with the segments of docs.
	Update(ctx context.Context, sourceID string, docs []*embedder.Document, log embedder.Logger) error

	// Query returns up to k nearest hits for the query vector within one
	// source, ordered ascending by distance.
	Query(ctx context.Context, sourceID string, queryVector []float64, k int) ([]Hit, error)

	// GetDocuments pages through a source's stored segments.
	GetDocuments(ctx context.Context, sourceID string, offset, limit int) ([]Document, error)

	// DeleteSource removes all vectors of a source.
	DeleteSource(ctx context.Context, sourceID string) error
}
