package storage

import (
	"github.com/Aum2411/Task-4-Raag/internal/log"
	"github.com/Aum2411/Task-4-Raag/pkg/storage"
)

// InitStore opens the pgvector-backed knowledge base, or an in-memory one
// when no connection string is configured.
func InitStore(dbConnStr string) (storage.VectorStore, error) {
	if dbConnStr == "" {
		log.GetLogger().Warn("No database configured; using in-memory knowledge base")
		return storage.NewMockStore(), nil
	}
	return NewPgvectorStore(dbConnStr)
}
