package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemStoreUpsertOverwritesByID(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, Record{ID: "u-0", Embedding: []float32{1, 0}, Text: "old", URL: "u"}))
	require.NoError(t, store.Upsert(ctx, Record{ID: "u-0", Embedding: []float32{1, 0}, Text: "new", URL: "u"}))

	require.Equal(t, []string{"u-0"}, store.IDs())
	rec, ok := store.Get("u-0")
	require.True(t, ok)
	require.Equal(t, "new", rec.Text)
}

func TestMemStoreQueryRanking(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, Record{ID: "a", Embedding: []float32{1, 0, 0}, Text: "exact", URL: "u"}))
	require.NoError(t, store.Upsert(ctx, Record{ID: "b", Embedding: []float32{1, 1, 0}, Text: "close", URL: "u"}))
	require.NoError(t, store.Upsert(ctx, Record{ID: "c", Embedding: []float32{0, 0, 1}, Text: "far", URL: "u"}))

	matches, err := store.Query(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, "exact", matches[0].Text)
	require.Equal(t, "close", matches[1].Text)
	require.Greater(t, matches[0].Score, matches[1].Score)
}

func TestMemStoreQueryEmpty(t *testing.T) {
	store := NewMemStore()
	matches, err := store.Query(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestMemStoreStatsAndSources(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, Record{ID: "x-0", Embedding: []float32{1}, Text: "t", URL: "http://x"}))
	require.NoError(t, store.Upsert(ctx, Record{ID: "x-1", Embedding: []float32{1}, Text: "t", URL: "http://x"}))
	require.NoError(t, store.Upsert(ctx, Record{ID: "y-0", Embedding: []float32{1}, Text: "t", URL: "http://y"}))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, stats.Records)
	require.EqualValues(t, 2, stats.Sources)

	urls, err := store.ListSources(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"http://x", "http://y"}, urls)
}

func TestCosineSimilarity(t *testing.T) {
	require.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-6)
	require.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	require.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1}))
}
