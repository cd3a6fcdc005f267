package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driving"
	"github.com/custodia-labs/qa-agent/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.Retriever = (*RetrieverService)(nil)

// ContextSeparator joins retrieved chunks.
const ContextSeparator = "\n\n"

// RetrieverService embeds a question and collects the closest chunks.
type RetrieverService struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	topK     int
}

// NewRetrieverService creates a retriever returning up to topK chunks.
// A non-positive topK uses domain.DefaultTopK.
func NewRetrieverService(embedder driven.EmbeddingService, store driven.VectorStore, topK int) *RetrieverService {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &RetrieverService{embedder: embedder, store: store, topK: topK}
}

// Retrieve returns the top-k chunks joined by blank lines in rank order.
func (s *RetrieverService) Retrieve(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	logger.Section("Retrieval")
	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}

	chunks, err := s.store.Retrieve(ctx, vector, s.topK)
	if err != nil {
		return "", fmt.Errorf("retrieve chunks: %w", err)
	}
	logger.Debug("Retrieved %d of up to %d chunks", len(chunks), s.topK)

	return strings.Join(chunks, ContextSeparator), nil
}
