package job

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docbrain/docbrain/internal/extract"
	"github.com/docbrain/docbrain/internal/service"
	"github.com/docbrain/docbrain/internal/vectorstore"
)

type countingEmbedder struct {
	calls atomic.Int64
}

func (c *countingEmbedder) Embed(context.Context, string) ([]float32, error) {
	c.calls.Add(1)
	return []float32{1, 0}, nil
}

func TestRefreshJobReindexesKnownSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><article><p>fresh content</p></article></body></html>`))
	}))
	t.Cleanup(srv.Close)

	store := vectorstore.NewMemStore()
	embedder := &countingEmbedder{}
	indexer := service.NewIndexer(extract.NewExtractor(nil), embedder, store, 0, 0)

	_, err := indexer.Index(context.Background(), srv.URL)
	require.NoError(t, err)
	callsAfterIndex := embedder.calls.Load()

	refresh := NewRefreshJob(store, indexer)
	require.Equal(t, "doc_refresh", refresh.Name())
	require.NoError(t, refresh.Run(context.Background()))

	// One known source, so the refresh embeds its chunks once more.
	require.Equal(t, callsAfterIndex*2, embedder.calls.Load())
	ids := store.IDs()
	require.Len(t, ids, int(callsAfterIndex))
}

func TestRefreshJobSkipsBrokenSource(t *testing.T) {
	store := vectorstore.NewMemStore()
	require.NoError(t, store.Upsert(context.Background(), vectorstore.Record{
		ID: "gone-0", Embedding: []float32{1, 0}, Text: "t", URL: "http://127.0.0.1:1/gone",
	}))
	embedder := &countingEmbedder{}
	indexer := service.NewIndexer(extract.NewExtractor(nil), embedder, store, 0, 0)

	refresh := NewRefreshJob(store, indexer)
	require.NoError(t, refresh.Run(context.Background()))
}
