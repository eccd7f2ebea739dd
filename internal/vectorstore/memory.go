package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemStore is an in-process Store used in tests and store-less dev runs.
// Ranking uses the same cosine metric as the Postgres backend.
type MemStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemStore() *MemStore {
	return &MemStore{records: make(map[string]Record)}
}

func (s *MemStore) Upsert(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return nil
}

func (s *MemStore) Query(_ context.Context, vector []float32, topK int) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := make([]Match, 0, len(s.records))
	for _, rec := range s.records {
		matches = append(matches, Match{
			Text:  rec.Text,
			URL:   rec.URL,
			Score: cosineSimilarity(vector, rec.Embedding),
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

func (s *MemStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sources := make(map[string]struct{})
	for _, rec := range s.records {
		sources[rec.URL] = struct{}{}
	}
	return Stats{
		Records: int64(len(s.records)),
		Sources: int64(len(sources)),
	}, nil
}

func (s *MemStore) ListSources(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	var urls []string
	for _, rec := range s.records {
		if _, ok := seen[rec.URL]; ok {
			continue
		}
		seen[rec.URL] = struct{}{}
		urls = append(urls, rec.URL)
	}
	sort.Strings(urls)
	return urls, nil
}

// IDs returns the stored record ids, sorted. Test helper.
func (s *MemStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Get returns the record stored under id. Test helper.
func (s *MemStore) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	return rec, ok
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
