// Package embedder builds the retrieval corpus: it splits source documents
// into segments, computes embeddings for them in token-bounded batches, and
// persists them in a compact binary format for fast reload.
package embedder

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"docuchat-be/pkg/embedding"
)

// maxBatchTokens stays a little below the embedding API's real request
// limit to absorb tokenizer inaccuracy.
const maxBatchTokens = 7000

// maxConcurrentBatches caps how many embedding requests are in flight at
// once.
const maxConcurrentBatches = 25

// ErrStopped is returned when a cooperative stop check asks the pipeline
// to abort between batch groups.
var ErrStopped = errors.New("job stopped by user")

// Logger receives human-readable progress messages from the pipeline.
type Logger func(message string)

// Batch groups segments whose combined token count fits one API request.
type Batch struct {
	TokenCount int
	Segments   []*DocumentSegment
}

// Pipeline embeds documents through an external embedding backend.
type Pipeline struct {
	provider    embedding.Provider
	countTokens TokenCounter
	log         Logger
}

func NewPipeline(provider embedding.Provider, countTokens TokenCounter, log Logger) *Pipeline {
	if log == nil {
		log = func(string) {}
	}
	return &Pipeline{
		provider:    provider,
		countTokens: countTokens,
		log:         log,
	}
}

// EmbedDocuments splits every document into segments, embeds all segments
// in token-bounded batches, and assigns the vectors back onto the
// documents in place. shouldStop is consulted between batch groups; when
// it reports true the pipeline aborts with ErrStopped.
func (p *Pipeline) EmbedDocuments(ctx context.Context, docs []*Document, shouldStop func(ctx context.Context) (bool, error)) error {
	if shouldStop == nil {
		shouldStop = func(context.Context) (bool, error) { return false, nil }
	}

	p.log(fmt.Sprintf("Splitting %d docs into segments", len(docs)))
	totalTokens := 0
	for i, doc := range docs {
		SplitDocument(doc, p.countTokens)
		for _, segment := range doc.Segments {
			totalTokens += segment.TokenCount
		}
		if (i+1)%50 == 0 {
			p.log(fmt.Sprintf("Split %d/%d docs", i+1, len(docs)))
		}
	}

	segments := make([]*DocumentSegment, 0)
	for _, doc := range docs {
		segments = append(segments, doc.Segments...)
	}
	total := len(segments)
	p.log(fmt.Sprintf("Split into %d segments, %d tokens", total, totalTokens))

	batches := assembleBatches(segments)
	p.log(fmt.Sprintf("Assembled %d batches", len(batches)))

	processed := 0
	processedTokens := 0
	for len(batches) > 0 {
		group := batches
		if len(group) > maxConcurrentBatches {
			group = batches[:maxConcurrentBatches]
		}
		batches = batches[len(group):]

		g, groupCtx := errgroup.WithContext(ctx)
		for _, batch := range group {
			g.Go(func() error {
				return p.embedBatch(groupCtx, batch)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for _, batch := range group {
			processed += len(batch.Segments)
			processedTokens += batch.TokenCount
		}
		p.log(fmt.Sprintf("Embedded %d/%d segments, %d/%d tokens", processed, total, processedTokens, totalTokens))

		stop, err := shouldStop(ctx)
		if err != nil {
			return fmt.Errorf("stop check: %w", err)
		}
		if stop {
			return ErrStopped
		}
	}
	return nil
}

// assembleBatches greedily packs segments from the tail of the remaining
// queue into batches under the token ceiling. A single over-budget segment
// still gets its own batch so the pipeline cannot stall.
func assembleBatches(segments []*DocumentSegment) []*Batch {
	remaining := make([]*DocumentSegment, len(segments))
	copy(remaining, segments)

	var batches []*Batch
	for len(remaining) > 0 {
		batch := &Batch{}
		for len(remaining) > 0 {
			next := remaining[len(remaining)-1]
			if len(batch.Segments) > 0 && batch.TokenCount+next.TokenCount > maxBatchTokens {
				break
			}
			batch.TokenCount += next.TokenCount
			batch.Segments = append(batch.Segments, next)
			remaining = remaining[:len(remaining)-1]
		}
		batches = append(batches, batch)
	}
	return batches
}

func (p *Pipeline) embedBatch(ctx context.Context, batch *Batch) error {
	// A zero-token batch means empty documents. Fill zero vectors locally
	// instead of burning an API call.
	if batch.TokenCount == 0 {
		for _, segment := range batch.Segments {
			segment.Embedding = make([]float64, p.provider.Dimensions())
		}
		return nil
	}

	texts := make([]string, len(batch.Segments))
	for i, segment := range batch.Segments {
		texts[i] = segment.Text
	}
	vectors, err := p.provider.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed batch of %d segments: %w", len(batch.Segments), err)
	}
	if len(vectors) != len(batch.Segments) {
		return fmt.Errorf("embedding backend returned %d vectors for %d segments", len(vectors), len(batch.Segments))
	}
	for i, segment := range batch.Segments {
		segment.Embedding = vectors[i]
	}
	return nil
}
