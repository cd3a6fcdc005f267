package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driving"
)

// Ensure AgentService implements the interface.
var _ driving.Agent = (*AgentService)(nil)

// AgentService composes indexing, retrieval and generation.
type AgentService struct {
	indexer   driving.Indexer
	retriever driving.Retriever
	generator driving.Generator
	store     driven.VectorStore

	// indexing serialises reset+insert runs and deletes against the collection.
	indexing sync.Mutex
}

// NewAgentService creates the agent facade.
func NewAgentService(
	indexer driving.Indexer,
	retriever driving.Retriever,
	generator driving.Generator,
	store driven.VectorStore,
) *AgentService {
	return &AgentService{
		indexer:   indexer,
		retriever: retriever,
		generator: generator,
		store:     store,
	}
}

// Index rebuilds the index from uri. A second call while one is running
// fails with domain.ErrIndexInProgress instead of waiting.
func (a *AgentService) Index(ctx context.Context, uri string) (domain.IndexReport, error) {
	if !a.indexing.TryLock() {
		return domain.IndexReport{URI: uri}, fmt.Errorf("%w: %s", domain.ErrIndexInProgress, uri)
	}
	defer a.indexing.Unlock()

	return a.indexer.Index(ctx, uri)
}

// Query answers question from the indexed context.
func (a *AgentService) Query(ctx context.Context, question string) (string, error) {
	retrieved, err := a.retriever.Retrieve(ctx, question)
	if err != nil {
		return "", err
	}
	return a.generator.Generate(ctx, question, retrieved)
}

// Context returns the retrieved context without generating an answer.
func (a *AgentService) Context(ctx context.Context, question string) (string, error) {
	return a.retriever.Retrieve(ctx, question)
}

// Count returns the number of indexed records.
func (a *AgentService) Count(ctx context.Context) (int, error) {
	n, err := a.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// DeleteIndex drops every record from the collection. It shares the indexing
// lock so a delete never interleaves with a reset+insert run.
func (a *AgentService) DeleteIndex(ctx context.Context) error {
	if !a.indexing.TryLock() {
		return fmt.Errorf("%w: delete index", domain.ErrIndexInProgress)
	}
	defer a.indexing.Unlock()

	if err := a.store.ResetIndex(ctx); err != nil {
		return fmt.Errorf("delete index: %w", err)
	}
	return nil
}
