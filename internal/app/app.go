package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/common"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/handlers"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/interfaces"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/services/chunker"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/services/cleanup"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/services/documents"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/services/enhancer"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/services/llm"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/services/pdf"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/services/rag"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/services/registry"
	badgerstore "github.com/lakkakula-saidev/smartdocs-ai/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	ctx       context.Context
	cancelCtx context.CancelFunc

	// Core services
	VectorIndex     interfaces.VectorIndex
	Generation      interfaces.GenerationService
	Embedding       interfaces.EmbeddingService
	Registry        interfaces.DocumentRegistry
	DocumentService interfaces.DocumentService
	ChatService     interfaces.ChatService
	Janitor         *cleanup.Janitor

	// HTTP handlers
	DocumentHandler *handlers.DocumentHandler
	ChatHandler     *handlers.ChatHandler
	APIHandler      *handlers.APIHandler
}

// New wires the full dependency graph from configuration. Construction
// fails fast on missing API keys or unusable storage paths.
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		Config:    cfg,
		Logger:    logger,
		ctx:       ctx,
		cancelCtx: cancel,
	}

	vectorIndex, err := badgerstore.NewVectorIndex(cfg.Storage.VectorDir, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}
	a.VectorIndex = vectorIndex

	generation, embedding, err := llm.NewProviders(ctx, cfg, logger)
	if err != nil {
		vectorIndex.Close()
		cancel()
		return nil, err
	}
	a.Generation = generation
	a.Embedding = embedding

	a.Registry = registry.NewService(vectorIndex, embedding, logger)

	extractor := pdf.NewExtractor(logger)
	textChunker := chunker.NewChunker(cfg.Chunking, logger)
	a.DocumentService = documents.NewService(cfg, extractor, textChunker, embedding, vectorIndex, a.Registry, logger)

	a.ChatService = rag.NewService(cfg, a.Registry, generation, enhancer.NewService(logger), logger)

	if cfg.Cleanup.Enabled {
		janitor, err := cleanup.NewJanitor(&cfg.Cleanup, cfg.Storage.UploadDir, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		if err := janitor.Start(); err != nil {
			a.Close()
			return nil, err
		}
		a.Janitor = janitor
	}

	a.DocumentHandler = handlers.NewDocumentHandler(a.DocumentService, logger)
	a.ChatHandler = handlers.NewChatHandler(a.ChatService, logger)
	a.APIHandler = handlers.NewAPIHandler(a.Registry, logger)

	logger.Info().
		Str("vector_dir", cfg.Storage.VectorDir).
		Str("upload_dir", cfg.Storage.UploadDir).
		Msg("Application initialized")

	return a, nil
}

// Close releases all resources in reverse dependency order.
func (a *App) Close() error {
	a.cancelCtx()

	if a.Janitor != nil {
		a.Janitor.Stop()
	}
	if a.Generation != nil {
		if err := a.Generation.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close generation service")
		}
	}
	if a.Embedding != nil {
		if err := a.Embedding.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close embedding service")
		}
	}
	if a.VectorIndex != nil {
		if err := a.VectorIndex.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close vector index")
			return err
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
