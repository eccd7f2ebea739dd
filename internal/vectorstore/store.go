package vectorstore

import "context"

// Dimension is the fixed embedding dimension of every stored vector.
const Dimension = 1536

// Record is one (id, vector, metadata) triple. Records are only ever
// overwritten whole by a re-upsert with the same id, never mutated.
type Record struct {
	ID        string
	Embedding []float32
	Text      string
	URL       string
}

// Match is a similarity query hit. Score is a descending-sorted cosine
// similarity in [0, 1].
type Match struct {
	Text  string
	URL   string
	Score float32
}

type Stats struct {
	Records int64 `json:"records"`
	Sources int64 `json:"sources"`
}

// Store is the nearest-neighbor index the pipelines write to and read from.
// Concurrent upserts are safe: each record has a unique id and the backend
// applies last-writer-wins per id.
type Store interface {
	Upsert(ctx context.Context, rec Record) error
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
	Stats(ctx context.Context) (Stats, error)
}

// SourceLister is implemented by backends that can enumerate the distinct
// source URLs currently indexed. The refresh job uses it.
type SourceLister interface {
	ListSources(ctx context.Context) ([]string, error)
}
