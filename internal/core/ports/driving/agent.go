package driving

import (
	"context"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
)

// Indexer builds a vector index from a document URI.
type Indexer interface {
	// Index replaces the index contents with the chunks of the document at uri.
	// The run is not transactional: a failure after the reset leaves the index
	// empty or partially populated.
	Index(ctx context.Context, uri string) (domain.IndexReport, error)
}

// Retriever turns a question into a context string of the best-matching chunks.
type Retriever interface {
	// Retrieve returns the top-k chunks joined by blank lines, best match first.
	// An empty index yields an empty string.
	Retrieve(ctx context.Context, question string) (string, error)
}

// Generator synthesises an answer from a question and retrieved context.
type Generator interface {
	// Generate returns the model's answer verbatim.
	Generate(ctx context.Context, question, retrieved string) (string, error)
}

// Agent is the facade used by the CLI, MCP, HTTP and TUI surfaces.
type Agent interface {
	Indexer

	// Query retrieves context for the question and returns the generated answer.
	Query(ctx context.Context, question string) (string, error)

	// Context returns the retrieved context without calling the generator.
	Context(ctx context.Context, question string) (string, error)

	// Count returns the number of records currently indexed.
	Count(ctx context.Context) (int, error)

	// DeleteIndex empties the collection. It fails with
	// domain.ErrIndexInProgress while an indexing run holds the collection.
	DeleteIndex(ctx context.Context) error
}
