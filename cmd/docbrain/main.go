package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/docbrain/docbrain/internal/ai"
	"github.com/docbrain/docbrain/internal/config"
	"github.com/docbrain/docbrain/internal/extract"
	"github.com/docbrain/docbrain/internal/handler"
	"github.com/docbrain/docbrain/internal/job"
	"github.com/docbrain/docbrain/internal/middleware"
	"github.com/docbrain/docbrain/internal/schedule"
	"github.com/docbrain/docbrain/internal/service"
	"github.com/docbrain/docbrain/internal/vectorstore"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "docbrain",
		Short: "documentation question-answering backend",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the docbrain server",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			return runServer(cfg)
		},
	}

	rootCmd.AddCommand(runCmd)
	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logutil.GetLogger(ctx)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	provider, err := ai.NewProvider(cfg.Provider, cfg.ProviderArgs())
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	embedder := ai.NewEmbedder(provider, cfg.EmbedModel)
	completer := ai.NewCompleter(provider, cfg.ChatModel)

	extractor := extract.NewExtractor(nil)
	indexer := service.NewIndexer(extractor, embedder, store, 0, 0)
	chat := service.NewChat(embedder, completer, store)

	scheduler := schedule.NewCronScheduler()
	if cfg.RefreshCron != "" {
		sources, ok := store.(vectorstore.SourceLister)
		if !ok {
			return fmt.Errorf("refresh job requires a store that can list sources")
		}
		if err := scheduler.AddJob(job.NewRefreshJob(sources, indexer), cfg.RefreshCron); err != nil {
			return err
		}
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.CORS(cfg.CORSOrigins),
		gzip.Gzip(gzip.DefaultCompression),
	)
	handler.RegisterRoutes(engine, handler.RouterDeps{
		Documents: handler.NewDocumentHandler(indexer),
		Chat:      handler.NewChatHandler(chat),
		Health:    handler.NewHealthHandler(store),
	})

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: engine}
	log.Info("http server listening",
		zap.String("addr", addr),
		zap.String("provider", cfg.Provider),
		zap.String("store", cfg.StoreType),
	)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("server stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openStore builds the configured vector store and runs the one-time
// connectivity self-test, creating the index schema if absent.
func openStore(ctx context.Context, cfg *config.Config) (vectorstore.Store, error) {
	log := logutil.GetLogger(ctx)
	if cfg.StoreType == config.StoreTypeMemory {
		log.Warn("using in-memory vector store, indexed data will not survive restarts")
		return vectorstore.NewMemStore(), nil
	}
	store, err := vectorstore.OpenPG(cfg.StoreDSN)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("vector store self-test: %w", err)
	}
	log.Info("vector store ready",
		zap.Int64("records", stats.Records),
		zap.Int64("sources", stats.Sources),
	)
	return store, nil
}
