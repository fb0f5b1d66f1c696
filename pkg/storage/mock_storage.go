package storage

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/Aum2411/Task-4-Raag/pkg/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// mockStore implements VectorStore with in-memory storage and an exact
// nearest-neighbour scan. Intended for tests and examples.
type mockStore struct {
	mu     sync.RWMutex
	chunks []models.Chunk
}

func NewMockStore() VectorStore {
	return &mockStore{}
}

func (m *mockStore) AddChunks(ctx context.Context, chunks []models.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			return errors.Errorf("chunk %d of %s has no embedding", c.Ordinal, c.Source)
		}
		if len(m.chunks) > 0 && len(c.Embedding) != len(m.chunks[0].Embedding) {
			return errors.New("embedding dimension mismatch")
		}
	}
	m.chunks = append(m.chunks, chunks...)
	return nil
}

func (m *mockStore) Query(ctx context.Context, embedding []float32, k int) ([]models.KBMatch, error) {
	if k <= 0 {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]models.KBMatch, 0, len(m.chunks))
	for _, c := range m.chunks {
		if len(c.Embedding) != len(embedding) {
			return nil, errors.New("embedding dimension mismatch")
		}
		matches = append(matches, models.KBMatch{Chunk: c, Distance: l2Distance(embedding, c.Embedding)})
	}
	// order by distance, then source and ordinal so ties are stable
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		if matches[i].Source != matches[j].Source {
			return matches[i].Source < matches[j].Source
		}
		return matches[i].Ordinal < matches[j].Ordinal
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (m *mockStore) DeleteDocument(ctx context.Context, documentID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.chunks[:0]
	removed := 0
	for _, c := range m.chunks {
		if c.DocumentID == documentID {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	m.chunks = kept
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mockStore) Stats(ctx context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make(map[uuid.UUID]struct{})
	for _, c := range m.chunks {
		docs[c.DocumentID] = struct{}{}
	}
	return Stats{Documents: len(docs), Chunks: len(m.chunks)}, nil
}

func (m *mockStore) Close() error {
	return nil
}

func l2Distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
