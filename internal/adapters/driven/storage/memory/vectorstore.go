package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is the in-process reference backend. Records live in a map
// keyed by chunk ordinal and are ranked by brute-force cosine similarity.
type VectorStore struct {
	mu         sync.RWMutex
	collection string
	dimensions int
	records    map[string]domain.IndexedRecord
}

// NewVectorStore creates an empty store for the named collection.
// A dimensions value of 0 accepts vectors of any length.
func NewVectorStore(collection string, dimensions int) *VectorStore {
	return &VectorStore{
		collection: collection,
		dimensions: dimensions,
		records:    make(map[string]domain.IndexedRecord),
	}
}

// ResetIndex drops every record.
func (s *VectorStore) ResetIndex(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]domain.IndexedRecord)
	return nil
}

// Insert upserts one record per chunk.
func (s *VectorStore) Insert(_ context.Context, chunks []string, vectors [][]float32) error {
	if err := checkShape(chunks, vectors, s.dimensions); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, chunk := range chunks {
		vec := make([]float32, len(vectors[i]))
		copy(vec, vectors[i])
		id := domain.RecordID(i)
		s.records[id] = domain.IndexedRecord{
			ID:         id,
			Chunk:      chunk,
			ChunkIndex: i,
			Vector:     vec,
		}
	}
	return nil
}

// Retrieve returns up to k chunk texts, most similar first.
func (s *VectorStore) Retrieve(_ context.Context, vector []float32, k int) ([]string, error) {
	s.mu.RLock()
	records := make([]domain.IndexedRecord, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool { return records[i].ChunkIndex < records[j].ChunkIndex })
	ranked, err := domain.RankRecords(records, vector, k)
	if err != nil {
		return nil, fmt.Errorf("memory %s: %w", s.collection, err)
	}
	return ranked, nil
}

// Count returns the number of records.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}

func checkShape(chunks []string, vectors [][]float32, dimensions int) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks, %d vectors", domain.ErrShapeMismatch, len(chunks), len(vectors))
	}
	if dimensions <= 0 {
		return nil
	}
	for i, v := range vectors {
		if len(v) != dimensions {
			return fmt.Errorf("%w: vector %d has %d dimensions, index expects %d",
				domain.ErrShapeMismatch, i, len(v), dimensions)
		}
	}
	return nil
}
