package vectorstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

const chunkTable = "doc_chunks"

// PGStore persists vector records in Postgres with the pgvector extension.
type PGStore struct {
	db *sqlx.DB
}

func OpenPG(dsn string) (*PGStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect vector store: %w", err)
	}
	return &PGStore{db: db}, nil
}

func NewPGStore(db *sqlx.DB) *PGStore {
	return &PGStore{db: db}
}

// EnsureSchema creates the extension, table and cosine index if absent, the
// once-at-startup equivalent of creating a remote index with a fixed
// dimension and metric.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			embedding vector(%d) NOT NULL,
			text TEXT NOT NULL,
			url TEXT NOT NULL
		)`, chunkTable, Dimension),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s
			USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)`, chunkTable, chunkTable),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure vector schema: %w", err)
		}
	}
	return nil
}

func (s *PGStore) Upsert(ctx context.Context, rec Record) error {
	if len(rec.Embedding) != Dimension {
		return fmt.Errorf("embedding has %d dimensions, want %d", len(rec.Embedding), Dimension)
	}
	const query = `
		INSERT INTO doc_chunks (id, embedding, text, url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			text = EXCLUDED.text,
			url = EXCLUDED.url
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		pgvector.NewVector(rec.Embedding),
		rec.Text,
		rec.URL,
	)
	return err
}

func (s *PGStore) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		return nil, nil
	}
	const query = `
		SELECT text, url, 1 - (embedding <=> $1) AS score
		FROM doc_chunks
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, pgvector.NewVector(vector), topK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.Text, &m.URL, &m.Score); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *PGStore) Stats(ctx context.Context) (Stats, error) {
	sqlStr, args, err := builder.BuildSelect(chunkTable, nil, []string{"count(*)", "count(distinct url)"})
	if err != nil {
		return Stats{}, err
	}
	row := s.db.QueryRowContext(ctx, s.db.Rebind(sqlStr), args...)
	var stats Stats
	if err := row.Scan(&stats.Records, &stats.Sources); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func (s *PGStore) ListSources(ctx context.Context) ([]string, error) {
	sqlStr, args, err := builder.BuildSelect(chunkTable, nil, []string{"distinct url"})
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(sqlStr), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, rows.Err()
}

func (s *PGStore) Close() error {
	return s.db.Close()
}

// IsMisconfigured reports whether a store error means the index itself
// cannot be resolved (missing table, extension or database) as opposed to a
// transient query failure.
func IsMisconfigured(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "42P01", // undefined_table
		"3D000", // invalid_catalog_name
		"58P01": // undefined_file (extension not installed)
		return true
	}
	return false
}
