package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"docuchat-be/internal/pkg/logger"
	"docuchat-be/pkg/embedder"
	"docuchat-be/pkg/rag"
	"docuchat-be/pkg/vector"
)

type ICollectionService interface {
	// Collection returns the retrieval collection of a source, loading its
	// embedded corpus file on first use.
	Collection(ctx context.Context, sourceID string) (*rag.Collection, error)

	// Invalidate drops a cached collection so the next access reloads the
	// corpus file. Called after a source has been reprocessed.
	Invalidate(sourceID string)

	// CorpusPath returns where the embedded corpus file of a source lives.
	CorpusPath(sourceID string) string
}

type collectionService struct {
	mu          sync.Mutex
	dataDir     string
	store       vector.Store
	collections map[string]*rag.Collection
	logger      logger.ILogger
}

func NewCollectionService(dataDir string, store vector.Store, log logger.ILogger) ICollectionService {
	return &collectionService{
		dataDir:     dataDir,
		store:       store,
		collections: make(map[string]*rag.Collection),
		logger:      log,
	}
}

func (s *collectionService) CorpusPath(sourceID string) string {
	return filepath.Join(s.dataDir, sourceID+".bin")
}

func (s *collectionService) Collection(ctx context.Context, sourceID string) (*rag.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if collection, ok := s.collections[sourceID]; ok {
		return collection, nil
	}

	// A source without a corpus file has not been processed yet; it still
	// gets an (empty) collection so bots referencing it keep working.
	var docs []*embedder.Document
	path := s.CorpusPath(sourceID)
	if _, err := os.Stat(path); err == nil {
		docs, err = embedder.ReadDocumentsInMemory(path)
		if err != nil {
			return nil, fmt.Errorf("load corpus of source %s: %w", sourceID, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat corpus of source %s: %w", sourceID, err)
	} else {
		s.logger.Warn("collection", "source has no corpus file yet", map[string]interface{}{
			"sourceId": sourceID,
		})
	}

	collection := rag.NewCollection(sourceID, s.store, docs)
	s.collections[sourceID] = collection
	s.logger.Info("collection", "loaded collection", map[string]interface{}{
		"sourceId": sourceID,
		"docs":     len(docs),
	})
	return collection, nil
}

func (s *collectionService) Invalidate(sourceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, sourceID)
}
