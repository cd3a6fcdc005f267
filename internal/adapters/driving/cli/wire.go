package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/qa-agent/internal/adapters/driven/ai"
	"github.com/custodia-labs/qa-agent/internal/adapters/driven/loader"
	"github.com/custodia-labs/qa-agent/internal/adapters/driven/storage"
	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driving"
	"github.com/custodia-labs/qa-agent/internal/core/services"
	"github.com/custodia-labs/qa-agent/internal/logger"
	"github.com/custodia-labs/qa-agent/internal/postprocessors"
	"github.com/custodia-labs/qa-agent/internal/preprocessors"
)

// app holds the services assembled for one command run.
type app struct {
	agent     driving.Agent
	documents driving.DocumentService
	close     func()
}

// Close releases clients and stores.
func (a *app) Close() {
	if a.close != nil {
		a.close()
	}
}

// Factories replaced in tests.
var (
	appFactory       = newApp
	documentsFactory = newDocumentService
	serviceChecker   = checkServices
)

func newLoader(cfg domain.Config) *loader.Loader {
	return loader.New(loader.Config{
		CacheDir:  cfg.Loader.CacheDir,
		Timeout:   cfg.Loader.Timeout,
		UserAgent: "qa-agent/" + version,
	})
}

// newDocumentService builds the loader-backed document service. It needs no
// AI provider, so cache commands work before one is configured.
func newDocumentService(cfg domain.Config) driving.DocumentService {
	ld := newLoader(cfg)
	return services.NewDocumentService(ld, preprocessors.NewDefaultRegistry())
}

// newApp wires the full pipeline from a validated config.
func newApp(ctx context.Context, cfg domain.Config) (*app, error) {
	ld := newLoader(cfg)
	registry := preprocessors.NewDefaultRegistry()

	splitter, err := postprocessors.NewSplitter(cfg.Index)
	if err != nil {
		return nil, err
	}

	clients, err := ai.NewServices(ctx, cfg.Embedding, cfg.LLM)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewVectorStore(cfg.VectorStore, cfg.Index.Collection, clients.Embedding.Dimensions())
	if err != nil {
		clients.Close()
		return nil, err
	}

	indexer := services.NewIndexerService(ld, registry, splitter, clients.Embedding, store)
	retriever := services.NewRetrieverService(clients.Embedding, store, cfg.Index.TopK)
	generator := services.NewGeneratorService(clients.LLM, cfg.LLM)

	return &app{
		agent:     services.NewAgentService(indexer, retriever, generator, store),
		documents: services.NewDocumentService(ld, registry),
		close: func() {
			store.Close() //nolint:errcheck
			clients.Close()
		},
	}, nil
}

// checkServices pings the embedding and LLM models and counts the vector store.
func checkServices(ctx context.Context, cfg domain.Config) error {
	clients, err := ai.NewServices(ctx, cfg.Embedding, cfg.LLM)
	if err != nil {
		return err
	}
	defer clients.Close()

	errs := []error{clients.Check(ctx)}

	store, err := storage.NewVectorStore(cfg.VectorStore, cfg.Index.Collection, clients.Embedding.Dimensions())
	if err != nil {
		errs = append(errs, err)
	} else {
		defer store.Close() //nolint:errcheck
		if _, err := store.Count(ctx); err != nil {
			errs = append(errs, fmt.Errorf("vector store %s: %w", cfg.VectorStore.Backend, err))
		}
	}
	return errors.Join(errs...)
}

// openApp loads config and builds the pipeline.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return appFactory(ctx, cfg)
}

// openOneShotApp is openApp for commands that exit after a single operation.
// The memory backend dies with the process, so such commands cannot share
// an index through it.
func openOneShotApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.VectorStore.Backend == domain.BackendMemory {
		logger.Warn("the memory backend is not persisted: records from this command are lost on exit; use --backend sqlite")
	}
	return appFactory(ctx, cfg)
}
