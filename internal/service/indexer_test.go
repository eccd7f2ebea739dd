package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docbrain/docbrain/internal/extract"
	"github.com/docbrain/docbrain/internal/pkg/apperr"
	"github.com/docbrain/docbrain/internal/vectorstore"
)

func serveDoc(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, "<html><body><article><p>%s</p></article></body></html>", body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestIndexStoresChunksWithSequentialIDs(t *testing.T) {
	srv := serveDoc(t, strings.Repeat("many words of documentation text here ", 20))
	store := vectorstore.NewMemStore()
	indexer := NewIndexer(extract.NewExtractor(nil), &fakeEmbedder{}, store, 100, 2)

	report, err := indexer.Index(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Greater(t, report.Chunks, 1)
	require.Equal(t, report.Chunks, report.Indexed)
	require.Zero(t, report.Failed)

	ids := store.IDs()
	require.Len(t, ids, report.Chunks)
	for _, id := range ids {
		require.True(t, strings.HasPrefix(id, srv.URL+"-"))
		rec, ok := store.Get(id)
		require.True(t, ok)
		require.NotEmpty(t, rec.Text)
		require.Equal(t, srv.URL, rec.URL)
	}
}

func TestIndexIdempotent(t *testing.T) {
	srv := serveDoc(t, strings.Repeat("stable documentation content ", 30))
	store := vectorstore.NewMemStore()
	indexer := NewIndexer(extract.NewExtractor(nil), &fakeEmbedder{}, store, 120, 2)

	first, err := indexer.Index(context.Background(), srv.URL)
	require.NoError(t, err)
	idsAfterFirst := store.IDs()

	second, err := indexer.Index(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, first.Chunks, second.Chunks)
	require.Equal(t, idsAfterFirst, store.IDs())
}

func TestIndexPerChunkFailureIsolation(t *testing.T) {
	// The marker word lands in the first chunk only; its failure must not
	// stop the remaining chunks from being indexed.
	content := "FAILMARK " + strings.Repeat("ordinary words fill the rest of the document ", 10)
	srv := serveDoc(t, content)
	store := vectorstore.NewMemStore()
	indexer := NewIndexer(extract.NewExtractor(nil), &fakeEmbedder{failOn: "FAILMARK"}, store, 80, 1)

	report, err := indexer.Index(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, 1, report.Failed)
	require.Equal(t, report.Chunks-1, report.Indexed)
	require.Len(t, store.IDs(), report.Indexed)
}

func TestIndexAllChunksFailingStillSucceeds(t *testing.T) {
	srv := serveDoc(t, strings.Repeat("content ", 40))
	store := vectorstore.NewMemStore()
	indexer := NewIndexer(extract.NewExtractor(nil), failingEmbedder{}, store, 100, 2)

	report, err := indexer.Index(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, report.Chunks, report.Failed)
	require.Empty(t, store.IDs())
}

func TestIndexEmptyURL(t *testing.T) {
	indexer := NewIndexer(extract.NewExtractor(nil), &fakeEmbedder{}, vectorstore.NewMemStore(), 0, 0)
	_, err := indexer.Index(context.Background(), "   ")
	require.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestIndexBadScheme(t *testing.T) {
	indexer := NewIndexer(extract.NewExtractor(nil), &fakeEmbedder{}, vectorstore.NewMemStore(), 0, 0)
	_, err := indexer.Index(context.Background(), "file:///etc/passwd")
	require.ErrorIs(t, err, apperr.ErrInvalidInput)
}
