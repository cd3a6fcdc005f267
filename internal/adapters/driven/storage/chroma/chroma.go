// Package chroma provides a VectorStore backed by a Chroma server.
package chroma

import (
	"context"
	"errors"
	"fmt"
	"sync"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// Collection metadata keys.
const (
	spaceKey      = "hnsw:space"
	chunkIndexKey = "chunk_index"
)

// Config holds configuration for the Chroma store.
type Config struct {
	// URL is the server address, e.g. http://localhost:8000 (required).
	URL string

	// APIKey is sent as an X-Chroma-Token header when set.
	APIKey string

	// Collection is the collection name (required).
	Collection string
}

// VectorStore stores records in one Chroma collection. Vectors are always
// supplied by the caller so the collection's embedding function is unused.
type VectorStore struct {
	client chromago.Client
	name   string

	mu         sync.Mutex
	collection chromago.Collection
}

// NewVectorStore creates a Chroma store. The collection is resolved lazily.
func NewVectorStore(cfg Config) (*VectorStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: chroma: url is required", domain.ErrNotConfigured)
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("%w: chroma: collection is required", domain.ErrInvalidInput)
	}

	opts := []chromago.ClientOption{chromago.WithBaseURL(cfg.URL)}
	if cfg.APIKey != "" {
		opts = append(opts, chromago.WithAuth(
			chromago.NewTokenAuthCredentialsProvider(cfg.APIKey, chromago.XChromaTokenHeader)))
	}

	client, err := chromago.NewHTTPClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: chroma: creating client: %w", domain.ErrBackendUnavailable, err)
	}

	return &VectorStore{client: client, name: cfg.Collection}, nil
}

// errMissingVectors is returned if the client ever asks to embed text itself.
var errMissingVectors = errors.New("chroma: records and queries must carry their own vectors")

// precomputed stands in for the collection embedding function. Without one
// the client falls back to a local ONNX model that it downloads on first use.
type precomputed struct{}

func (precomputed) EmbedDocuments(context.Context, []string) ([]embeddings.Embedding, error) {
	return nil, errMissingVectors
}

func (precomputed) EmbedQuery(context.Context, string) (embeddings.Embedding, error) {
	return nil, errMissingVectors
}

// collectionOptions creates collections in cosine space with caller-supplied vectors.
func collectionOptions() []chromago.CreateCollectionOption {
	return []chromago.CreateCollectionOption{
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(chromago.NewStringAttribute(spaceKey, "cosine")),
		),
		chromago.WithEmbeddingFunctionCreate(precomputed{}),
	}
}

// current returns the bound collection, creating it if needed.
func (s *VectorStore) current(ctx context.Context) (chromago.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collection != nil {
		return s.collection, nil
	}
	col, err := s.client.GetOrCreateCollection(ctx, s.name, collectionOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%w: chroma: get collection %q: %w", domain.ErrBackendUnavailable, s.name, err)
	}
	s.collection = col
	return col, nil
}

// ResetIndex deletes the collection and creates it again with cosine space.
// Get-or-create runs first so the delete never targets a missing collection.
func (s *VectorStore) ResetIndex(ctx context.Context) error {
	if _, err := s.current(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection = nil

	if err := s.client.DeleteCollection(ctx, s.name); err != nil {
		return fmt.Errorf("%w: chroma: delete collection %q: %w", domain.ErrBackendUnavailable, s.name, err)
	}
	col, err := s.client.CreateCollection(ctx, s.name, collectionOptions()...)
	if err != nil {
		return fmt.Errorf("%w: chroma: create collection %q: %w", domain.ErrBackendUnavailable, s.name, err)
	}
	s.collection = col
	return nil
}

// Insert upserts one record per chunk with its ordinal as id.
func (s *VectorStore) Insert(ctx context.Context, chunks []string, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks, %d vectors", domain.ErrShapeMismatch, len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	col, err := s.current(ctx)
	if err != nil {
		return err
	}

	ids := make([]chromago.DocumentID, len(chunks))
	embs := make([]embeddings.Embedding, len(chunks))
	metas := make([]chromago.DocumentMetadata, len(chunks))
	for i := range chunks {
		ids[i] = chromago.DocumentID(domain.RecordID(i))
		embs[i] = embeddings.NewEmbeddingFromFloat32(vectors[i])
		metas[i] = chromago.NewDocumentMetadata(chromago.NewIntAttribute(chunkIndexKey, int64(i)))
	}

	err = col.Upsert(ctx,
		chromago.WithIDs(ids...),
		chromago.WithTexts(chunks...),
		chromago.WithEmbeddings(embs...),
		chromago.WithMetadatas(metas...),
	)
	if err != nil {
		return fmt.Errorf("%w: chroma: upsert: %w", domain.ErrBackendUnavailable, err)
	}
	return nil
}

// Retrieve queries by embedding. k is clamped to the collection size so an
// empty collection returns an empty result without a query.
func (s *VectorStore) Retrieve(ctx context.Context, vector []float32, k int) ([]string, error) {
	if k <= 0 {
		return []string{}, nil
	}
	col, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	n, err := col.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: chroma: count: %w", domain.ErrBackendUnavailable, err)
	}
	if n == 0 {
		return []string{}, nil
	}
	if k > n {
		k = n
	}

	results, err := col.Query(ctx,
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(vector)),
		chromago.WithNResults(k),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: chroma: query: %w", domain.ErrBackendUnavailable, err)
	}

	groups := results.GetDocumentsGroups()
	if len(groups) == 0 {
		return []string{}, nil
	}
	out := make([]string, 0, len(groups[0]))
	for _, doc := range groups[0] {
		out = append(out, doc.ContentString())
	}
	return out, nil
}

// Count returns the number of records.
func (s *VectorStore) Count(ctx context.Context) (int, error) {
	col, err := s.current(ctx)
	if err != nil {
		return 0, err
	}
	n, err := col.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: chroma: count: %w", domain.ErrBackendUnavailable, err)
	}
	return n, nil
}

// Close releases the client.
func (s *VectorStore) Close() error {
	return s.client.Close()
}
