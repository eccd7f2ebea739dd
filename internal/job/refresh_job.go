package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/docbrain/docbrain/internal/service"
	"github.com/docbrain/docbrain/internal/vectorstore"
)

// RefreshJob re-ingests every previously indexed source URL so long-lived
// deployments track upstream documentation changes. Re-indexing is
// idempotent: chunk ids are derived from url and position, so unchanged
// content overwrites itself.
type RefreshJob struct {
	sources vectorstore.SourceLister
	indexer *service.Indexer
}

func NewRefreshJob(sources vectorstore.SourceLister, indexer *service.Indexer) *RefreshJob {
	return &RefreshJob{sources: sources, indexer: indexer}
}

func (j *RefreshJob) Name() string {
	return "doc_refresh"
}

func (j *RefreshJob) Run(ctx context.Context) error {
	urls, err := j.sources.ListSources(ctx)
	if err != nil {
		return err
	}
	logger := logutil.GetLogger(ctx)
	for _, url := range urls {
		report, err := j.indexer.Index(ctx, url)
		if err != nil {
			// A source gone bad must not block refreshing the others.
			logger.Error("refresh source failed", zap.String("url", url), zap.Error(err))
			continue
		}
		logger.Info("source refreshed",
			zap.String("url", url),
			zap.Int("chunks", report.Chunks),
			zap.Int("failed", report.Failed),
		)
	}
	return nil
}
