package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"docuchat-be/internal/entity"
	"docuchat-be/pkg/embedder"
)

// rawDocument is the on-disk shape of one unprocessed document.
type rawDocument struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// FileDocumentLoader reads a source's raw documents from a JSON file that
// an external ingestion adapter dropped into the data directory.
type FileDocumentLoader struct {
	dataDir string
}

var _ DocumentLoader = &FileDocumentLoader{}

func NewFileDocumentLoader(dataDir string) *FileDocumentLoader {
	return &FileDocumentLoader{dataDir: dataDir}
}

func (l *FileDocumentLoader) Load(ctx context.Context, source *entity.Source, log embedder.Logger) ([]*embedder.Document, error) {
	path := filepath.Join(l.dataDir, source.Id.String()+".json")
	log("Reading raw documents from " + path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read raw documents: %w", err)
	}

	var raw []rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse raw documents: %w", err)
	}

	docs := make([]*embedder.Document, len(raw))
	for i, doc := range raw {
		docs[i] = &embedder.Document{
			URI:   doc.URI,
			Title: doc.Title,
			Text:  doc.Text,
		}
	}
	return docs, nil
}
