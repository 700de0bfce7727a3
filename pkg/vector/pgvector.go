package vector

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"docuchat-be/pkg/embedder"
)

const insertChunkSize = 500

// segmentRow is the persisted form of one embedded document segment.
type segmentRow struct {
	ID           string `gorm:"primaryKey"`
	SourceID     string `gorm:"index"`
	DocURI       string
	DocTitle     string
	SegmentIndex int
	Text         string
	TokenCount   int
	Embedding    pgvector.Vector `gorm:"type:vector(1536)"`
}

func (segmentRow) TableName() string {
	return "segment_embeddings"
}

// SegmentID builds the composite id a stored vector is keyed by.
func SegmentID(docURI string, segmentIndex int) string {
	return fmt.Sprintf("%s|%d", docURI, segmentIndex)
}

// PgStore keeps segment vectors in Postgres with the pgvector extension.
type PgStore struct {
	db *gorm.DB
}

var _ Store = &PgStore{}

func NewPgStore(db *gorm.DB) *PgStore {
	return &PgStore{db: db}
}

// Migrate creates the pgvector extension and the segment table.
func (s *PgStore) Migrate() error {
	if err := s.db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}
	if err := s.db.AutoMigrate(&segmentRow{}); err != nil {
		return fmt.Errorf("migrate segment embeddings: %w", err)
	}
	return nil
}

func (s *PgStore) Update(ctx context.Context, sourceID string, docs []*embedder.Document, log embedder.Logger) error {
	if log == nil {
		log = func(string) {}
	}

	rows := make([]segmentRow, 0)
	for _, doc := range docs {
		for _, segment := range doc.Segments {
			rows = append(rows, segmentRow{
				ID:           SegmentID(doc.URI, segment.Index),
				SourceID:     sourceID,
				DocURI:       doc.URI,
				DocTitle:     doc.Title,
				SegmentIndex: segment.Index,
				Text:         segment.Text,
				TokenCount:   segment.TokenCount,
				Embedding:    toVector(segment.Embedding),
			})
		}
	}

	log(fmt.Sprintf("Replacing vectors of source %s with %d segments", sourceID, len(rows)))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source_id = ?", sourceID).Delete(&segmentRow{}).Error; err != nil {
			return fmt.Errorf("delete old vectors: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, insertChunkSize).Error; err != nil {
			return fmt.Errorf("insert vectors: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log(fmt.Sprintf("Stored %d vectors for source %s", len(rows), sourceID))
	return nil
}

func (s *PgStore) Query(ctx context.Context, sourceID string, queryVector []float64, k int) ([]Hit, error) {
	var hits []Hit
	err := s.db.WithContext(ctx).
		Model(&segmentRow{}).
		Select("id, embedding <=> ? AS distance", toVector(queryVector)).
		Where("source_id = ?", sourceID).
		Order("distance ASC").
		Limit(k).
		Scan(&hits).Error
	if err != nil {
		return nil, fmt.Errorf("query vectors of source %s: %w", sourceID, err)
	}
	return hits, nil
}

func (s *PgStore) GetDocuments(ctx context.Context, sourceID string, offset, limit int) ([]Document, error) {
	var rows []segmentRow
	err := s.db.WithContext(ctx).
		Where("source_id = ?", sourceID).
		Order("doc_uri ASC, segment_index ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load documents of source %s: %w", sourceID, err)
	}

	docs := make([]Document, len(rows))
	for i, row := range rows {
		docs[i] = Document{
			SourceID:   row.SourceID,
			DocURI:     row.DocURI,
			DocTitle:   row.DocTitle,
			Index:      row.SegmentIndex,
			Text:       row.Text,
			TokenCount: row.TokenCount,
		}
	}
	return docs, nil
}

func (s *PgStore) DeleteSource(ctx context.Context, sourceID string) error {
	if err := s.db.WithContext(ctx).Where("source_id = ?", sourceID).Delete(&segmentRow{}).Error; err != nil {
		return fmt.Errorf("delete vectors of source %s: %w", sourceID, err)
	}
	return nil
}

func toVector(values []float64) pgvector.Vector {
	converted := make([]float32, len(values))
	for i, v := range values {
		converted[i] = float32(v)
	}
	return pgvector.NewVector(converted)
}
