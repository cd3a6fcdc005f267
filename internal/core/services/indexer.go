package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driving"
	"github.com/custodia-labs/qa-agent/internal/logger"
)

// Ensure IndexerService implements the interface.
var _ driving.Indexer = (*IndexerService)(nil)

// IndexerService builds the vector index for one document.
type IndexerService struct {
	loader        driven.DocumentLoader
	preprocessors driven.PreprocessorRegistry
	splitter      driven.TextSplitter
	embedder      driven.EmbeddingService
	store         driven.VectorStore
}

// NewIndexerService creates a new indexer.
func NewIndexerService(
	loader driven.DocumentLoader,
	preprocessors driven.PreprocessorRegistry,
	splitter driven.TextSplitter,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
) *IndexerService {
	return &IndexerService{
		loader:        loader,
		preprocessors: preprocessors,
		splitter:      splitter,
		embedder:      embedder,
		store:         store,
	}
}

// Index runs select, load, clean, split, embed, reset and insert in that
// order. Errors from any stage are returned with the stage name; a failure
// after the reset leaves the index empty or partially written.
func (s *IndexerService) Index(ctx context.Context, uri string) (domain.IndexReport, error) {
	start := time.Now()
	report := domain.IndexReport{URI: uri}

	logger.Section("Indexing")
	logger.Debug("URI: %s", uri)

	pre, err := s.preprocessors.Select(uri)
	if err != nil {
		return report, err
	}
	report.Shape = pre.Shape()
	logger.Debug("Document shape: %s", report.Shape)

	raw, err := s.loader.Load(ctx, uri)
	if err != nil {
		return report, fmt.Errorf("load %s: %w", uri, err)
	}
	logger.Debug("Loaded %d bytes (cache: %s)", len(raw), s.loader.CachePath(uri))

	text, err := pre.GetText(raw)
	if err != nil {
		return report, fmt.Errorf("extract text: %w", err)
	}
	report.Words = len(strings.Fields(text))

	chunks, err := s.splitter.Split(text)
	if err != nil {
		return report, fmt.Errorf("split text: %w", err)
	}
	report.Chunks = len(chunks)
	logger.Debug("Split %d words into %d chunks with %s splitter", report.Words, report.Chunks, s.splitter.Name())

	embedStart := time.Now()
	vectors, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return report, fmt.Errorf("embed chunks: %w", err)
	}
	logger.Timed("embed", embedStart)

	if err := s.store.ResetIndex(ctx); err != nil {
		return report, fmt.Errorf("reset index: %w", err)
	}

	if len(chunks) > 0 {
		if err := s.store.Insert(ctx, chunks, vectors); err != nil {
			return report, fmt.Errorf("insert records: %w", err)
		}
	}
	report.Records = len(chunks)
	report.Duration = time.Since(start)

	logger.Debug("Indexed %d records in %s", report.Records, report.Duration.Round(time.Millisecond))
	return report, nil
}
