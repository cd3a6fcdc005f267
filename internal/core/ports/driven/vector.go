package driven

import "context"

// VectorStore is the capability contract shared by every vector database backend.
// A store is bound to one named collection holding records of
// {id, chunk text, chunk index, vector}.
//
// Connectivity failures wrap domain.ErrBackendUnavailable.
// Implementations perform no caching or retries.
type VectorStore interface {
	// ResetIndex deletes the collection if it exists and recreates it empty.
	// A missing collection is not an error.
	ResetIndex(ctx context.Context) error

	// Insert writes one record per chunk, using the chunk ordinal as identifier.
	// len(chunks) must equal len(vectors), otherwise domain.ErrShapeMismatch is
	// returned before anything is written. Colliding identifiers overwrite.
	Insert(ctx context.Context, chunks []string, vectors [][]float32) error

	// Retrieve returns up to k chunk texts ranked by cosine similarity, best first.
	// An empty collection yields an empty result.
	Retrieve(ctx context.Context, vector []float32, k int) ([]string, error)

	// Count returns the number of records, or 0 if the collection is absent.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
