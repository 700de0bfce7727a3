// Package rag implements context retrieval for grounded chat completions:
// per-source collections over a vector store, query expansion, optional
// reranking, and token-budget packing of the final prompt.
package rag

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"docuchat-be/pkg/embedder"
	"docuchat-be/pkg/vector"
)

// ScoredSegment is a retrieved document segment with its query distance.
// Lower distance means more relevant.
type ScoredSegment struct {
	Segment  *embedder.DocumentSegment
	Distance float64
}

// Collection resolves vector hits of one source back to the segments of
// its loaded documents.
type Collection struct {
	sourceID  string
	store     vector.Store
	docsByURI map[string]*embedder.Document
}

func NewCollection(sourceID string, store vector.Store, docs []*embedder.Document) *Collection {
	docsByURI := make(map[string]*embedder.Document, len(docs))
	for _, doc := range docs {
		docsByURI[doc.URI] = doc
	}
	return &Collection{
		sourceID:  sourceID,
		store:     store,
		docsByURI: docsByURI,
	}
}

func (c *Collection) SourceID() string {
	return c.sourceID
}

// Query runs a nearest-neighbor search and maps the resulting
// "docUri|segmentIndex" ids back to loaded segments. Stale ids that no
// longer resolve are skipped, not fatal.
func (c *Collection) Query(ctx context.Context, queryVector []float64, k int) ([]ScoredSegment, error) {
	hits, err := c.store.Query(ctx, c.sourceID, queryVector, k)
	if err != nil {
		return nil, err
	}

	segments := make([]ScoredSegment, 0, len(hits))
	for _, hit := range hits {
		docURI, index, ok := splitSegmentID(hit.ID)
		if !ok {
			continue
		}
		doc := c.docsByURI[docURI]
		if doc == nil {
			continue
		}
		if index < 0 || index >= len(doc.Segments) {
			continue
		}
		segments = append(segments, ScoredSegment{
			Segment:  doc.Segments[index],
			Distance: hit.Distance,
		})
	}
	return segments, nil
}

// QueryAll queries every collection concurrently with the same vector and
// merges the results into one list sorted ascending by distance. The
// cross-collection merge, not per-collection top-k alone, determines the
// final ranking.
func QueryAll(ctx context.Context, collections []*Collection, queryVector []float64, k int) ([]ScoredSegment, error) {
	var mu sync.Mutex
	merged := make([]ScoredSegment, 0)

	g, groupCtx := errgroup.WithContext(ctx)
	for _, collection := range collections {
		g.Go(func() error {
			segments, err := collection.Query(groupCtx, queryVector, k)
			if err != nil {
				return err
			}
			mu.Lock()
			merged = append(merged, segments...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Distance < merged[j].Distance
	})
	return merged, nil
}

func splitSegmentID(id string) (docURI string, segmentIndex int, ok bool) {
	pos := strings.LastIndex(id, "|")
	if pos < 0 {
		return "", 0, false
	}
	index, err := strconv.Atoi(id[pos+1:])
	if err != nil {
		return "", 0, false
	}
	return id[:pos], index, true
}
