package storage

import (
	"context"
	"database/sql"

	"github.com/Aum2411/Task-4-Raag/pkg/models"
	"github.com/Aum2411/Task-4-Raag/pkg/storage"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"
)

type DBInterface interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// PgvectorStore keeps the knowledge base in Postgres with the pgvector
// extension. Similarity queries use the L2 distance operator.
type PgvectorStore struct {
	db DBInterface
}

func NewPgvectorStore(connStr string) (*PgvectorStore, error) {
	db, err := sqlx.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PgvectorStore{db: db}, nil
}

// Begin returns a store running inside a transaction.
func (s *PgvectorStore) Begin() (*PgvectorStore, error) {
	if db, ok := s.db.(*sqlx.DB); ok {
		tx, err := db.Beginx()
		if err != nil {
			return nil, err
		}
		return &PgvectorStore{db: tx}, nil
	}
	return nil, errors.New("cannot begin transaction on unknown type")
}

func (s *PgvectorStore) Commit() error {
	if tx, ok := s.db.(*sqlx.Tx); ok {
		return tx.Commit()
	}
	return errors.New("cannot commit: not a transaction")
}

func (s *PgvectorStore) Rollback() error {
	if tx, ok := s.db.(*sqlx.Tx); ok {
		return tx.Rollback()
	}
	return errors.New("cannot rollback: not a transaction")
}

func (s *PgvectorStore) Close() error {
	if db, ok := s.db.(*sqlx.DB); ok {
		return db.Close()
	}
	return nil // No-op for *sqlx.Tx
}

// AddChunks inserts all chunks in one transaction.
func (s *PgvectorStore) AddChunks(ctx context.Context, chunks []models.Chunk) (err error) {
	if len(chunks) == 0 {
		return nil
	}

	exec := s.db
	if db, ok := s.db.(*sqlx.DB); ok {
		var tx *sqlx.Tx
		tx, err = db.BeginTxx(ctx, nil)
		if err != nil {
			return errors.Wrap(err, "begin transaction")
		}
		defer func() {
			if err != nil {
				if rollbackErr := tx.Rollback(); rollbackErr != nil {
					err = errors.Wrapf(err, "rollback also failed: %v", rollbackErr)
				}
				return
			}
			err = tx.Commit()
		}()
		exec = tx
	}

	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			err = errors.Errorf("chunk %d of %s has no embedding", c.Ordinal, c.Source)
			return err
		}
		_, err = exec.ExecContext(ctx,
			`INSERT INTO chunks (id, document_id, source, ordinal, content, embedding)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			c.ID, c.DocumentID, c.Source, c.Ordinal, c.Content, pgvector.NewVector(c.Embedding))
		if err != nil {
			err = errors.Wrapf(err, "insert chunk %d of %s", c.Ordinal, c.Source)
			return err
		}
	}
	return nil
}

type chunkRow struct {
	ID         uuid.UUID `db:"id"`
	DocumentID uuid.UUID `db:"document_id"`
	Source     string    `db:"source"`
	Ordinal    int       `db:"ordinal"`
	Content    string    `db:"content"`
	Distance   float64   `db:"distance"`
}

// Query returns the k nearest chunks, closest first.
func (s *PgvectorStore) Query(ctx context.Context, embedding []float32, k int) ([]models.KBMatch, error) {
	if k <= 0 {
		return nil, nil
	}

	var rows []chunkRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, document_id, source, ordinal, content, embedding <-> $1 AS distance
		 FROM chunks
		 ORDER BY embedding <-> $1, source, ordinal
		 LIMIT $2`,
		pgvector.NewVector(embedding), k)
	if err != nil {
		return nil, errors.Wrap(err, "query chunks")
	}

	matches := make([]models.KBMatch, 0, len(rows))
	for _, r := range rows {
		matches = append(matches, models.KBMatch{
			Chunk: models.Chunk{
				ID:         r.ID,
				DocumentID: r.DocumentID,
				Source:     r.Source,
				Ordinal:    r.Ordinal,
				Content:    r.Content,
			},
			Distance: r.Distance,
		})
	}
	return matches, nil
}

func (s *PgvectorStore) DeleteDocument(ctx context.Context, documentID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = $1", documentID)
	if err != nil {
		return errors.Wrap(err, "delete document")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *PgvectorStore) Stats(ctx context.Context) (storage.Stats, error) {
	var stats storage.Stats
	err := s.db.GetContext(ctx, &stats,
		"SELECT COUNT(DISTINCT document_id) AS documents, COUNT(*) AS chunks FROM chunks")
	if err != nil {
		return storage.Stats{}, errors.Wrap(err, "knowledge base stats")
	}
	return stats, nil
}
