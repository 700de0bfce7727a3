package entity

import (
	"time"

	"github.com/google/uuid"
)

// Source is one ingestible document corpus. The actual ingestion adapters
// live outside this service; a source only carries enough to locate its
// raw documents and its embedded corpus file.
type Source struct {
	Id          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
