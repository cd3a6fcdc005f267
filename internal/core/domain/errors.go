package domain

import "errors"

// Domain errors represent pipeline failures.
// Adapters wrap these with context; callers match them with errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates a required service has no usable configuration.
	ErrNotConfigured = errors.New("not configured")

	// Pipeline Errors.

	// ErrFetch indicates a document could not be retrieved over the network,
	// either because of a transport failure or a non-success HTTP status.
	ErrFetch = errors.New("fetch failed")

	// ErrUnsupportedDocument indicates no preprocessor is registered for a URI.
	ErrUnsupportedDocument = errors.New("unsupported document URI")

	// ErrShapeMismatch indicates the number of chunks and vectors differ.
	ErrShapeMismatch = errors.New("chunk and vector counts differ")

	// ErrEmbeddingService indicates the embedding service failed.
	ErrEmbeddingService = errors.New("embedding service error")

	// ErrBackendUnavailable indicates the vector store could not be reached
	// or rejected the request.
	ErrBackendUnavailable = errors.New("vector store backend unavailable")

	// ErrGenerationService indicates the language model failed to produce an answer.
	ErrGenerationService = errors.New("generation service error")

	// ErrIndexInProgress indicates another indexing run holds the index.
	ErrIndexInProgress = errors.New("indexing already in progress")
)
