package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/docbrain/docbrain/internal/ai"
	"github.com/docbrain/docbrain/internal/chunker"
	"github.com/docbrain/docbrain/internal/extract"
	"github.com/docbrain/docbrain/internal/pkg/apperr"
	"github.com/docbrain/docbrain/internal/vectorstore"
)

const defaultIndexWorkers = 4

// IndexReport summarizes one ingestion run. Indexing is best-effort: the
// run succeeds once every chunk has been attempted, however many failed.
type IndexReport struct {
	Chunks  int
	Indexed int
	Failed  int
}

// Indexer is the ingestion pipeline: fetch and extract a documentation
// page, chunk it, embed each chunk and upsert it into the vector store.
type Indexer struct {
	extractor *extract.Extractor
	embedder  ai.IEmbedder
	store     vectorstore.Store
	chunkSize int
	workers   int
}

// NewIndexer builds the pipeline. chunkSize and workers fall back to their
// defaults when zero.
func NewIndexer(extractor *extract.Extractor, embedder ai.IEmbedder, store vectorstore.Store, chunkSize int, workers int) *Indexer {
	if chunkSize <= 0 {
		chunkSize = chunker.DefaultSize
	}
	if workers <= 0 {
		workers = defaultIndexWorkers
	}
	return &Indexer{
		extractor: extractor,
		embedder:  embedder,
		store:     store,
		chunkSize: chunkSize,
		workers:   workers,
	}
}

func (s *Indexer) Index(ctx context.Context, url string) (IndexReport, error) {
	if strings.TrimSpace(url) == "" {
		return IndexReport{}, apperr.Wrap(apperr.ErrInvalidInput, "URL cannot be empty")
	}
	logger := logutil.GetLogger(ctx).With(zap.String("url", url))

	content, err := s.extractor.Extract(ctx, url)
	if err != nil {
		return IndexReport{}, err
	}
	if strings.TrimSpace(content) == "" {
		return IndexReport{}, apperr.Wrap(apperr.ErrExtraction, "no content could be extracted from the URL")
	}

	chunks := chunker.Split(content, s.chunkSize)
	logger.Info("indexing documentation", zap.Int("chunks", len(chunks)))

	var indexed, failed atomic.Int64
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)
	for i, chunk := range chunks {
		group.Go(func() error {
			// Per-chunk failures are swallowed: one bad chunk must not
			// abort ingestion of its siblings.
			if err := s.indexChunk(groupCtx, url, i, chunk); err != nil {
				failed.Add(1)
				logger.Error("chunk indexing failed", zap.Int("chunk", i), zap.Error(err))
				return nil
			}
			indexed.Add(1)
			return nil
		})
	}
	_ = group.Wait()

	report := IndexReport{
		Chunks:  len(chunks),
		Indexed: int(indexed.Load()),
		Failed:  int(failed.Load()),
	}
	logger.Info("indexing finished",
		zap.Int("chunks", report.Chunks),
		zap.Int("indexed", report.Indexed),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func (s *Indexer) indexChunk(ctx context.Context, url string, seq int, chunk string) error {
	vector, err := s.embedder.Embed(ctx, chunk)
	if err != nil {
		return fmt.Errorf("embed chunk: %w", err)
	}
	rec := vectorstore.Record{
		ID:        fmt.Sprintf("%s-%d", url, seq),
		Embedding: vector,
		Text:      chunk,
		URL:       url,
	}
	if err := s.store.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("upsert chunk: %w", err)
	}
	return nil
}
