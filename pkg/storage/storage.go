package storage

import (
	"context"

	"github.com/Aum2411/Task-4-Raag/pkg/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// Stats summarizes the knowledge base contents.
type Stats struct {
	Documents int `json:"documents" db:"documents"`
	Chunks    int `json:"chunks" db:"chunks"`
}

// VectorStore defines the knowledge base operations.
type VectorStore interface {
	// AddChunks stores embedded chunks. All chunks are stored or none.
	AddChunks(ctx context.Context, chunks []models.Chunk) error

	// Query returns the k chunks nearest to the embedding, closest first.
	Query(ctx context.Context, embedding []float32, k int) ([]models.KBMatch, error)

	// DeleteDocument removes every chunk of a document. Missing documents
	// return ErrNotFound.
	DeleteDocument(ctx context.Context, documentID uuid.UUID) error

	// Stats reports document and chunk counts.
	Stats(ctx context.Context) (Stats, error)

	Close() error
}
