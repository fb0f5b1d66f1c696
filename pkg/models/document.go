package models

import (
	"time"

	"github.com/google/uuid"
)

// Document represents a file ingested into the knowledge base.
type Document struct {
	ID      uuid.UUID `json:"id" db:"id"`
	Source  string    `json:"source" db:"source"` // file path or URL the content came from
	Title   string    `json:"title" db:"title"`
	Chunks  int       `json:"chunks" db:"chunks"`
	AddedAt time.Time `json:"added_at" db:"added_at"`
}

// Chunk is a slice of a document, embedded and stored for retrieval.
type Chunk struct {
	ID         uuid.UUID `json:"id" db:"id"`
	DocumentID uuid.UUID `json:"document_id" db:"document_id"`
	Source     string    `json:"source" db:"source"`
	Ordinal    int       `json:"ordinal" db:"ordinal"` // position within the document
	Content    string    `json:"content" db:"content"`
	Embedding  []float32 `json:"-" db:"-"`
}

// KBMatch is a chunk returned by a similarity query together with its
// distance from the query embedding.
type KBMatch struct {
	Chunk
	Distance float64 `json:"distance"`
}

// Relevance converts the distance into a score in [0, 1], higher is closer.
func (m KBMatch) Relevance() float64 {
	rel := 1 - m.Distance
	if rel < 0 {
		return 0
	}
	if rel > 1 {
		return 1
	}
	return rel
}
