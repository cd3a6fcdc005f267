// Package storage selects and constructs the configured VectorStore backend.
package storage

import (
	"fmt"

	"github.com/custodia-labs/qa-agent/internal/adapters/driven/storage/chroma"
	"github.com/custodia-labs/qa-agent/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/qa-agent/internal/adapters/driven/storage/qdrant"
	"github.com/custodia-labs/qa-agent/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
)

// NewVectorStore returns the backend named by cfg.Backend, bound to the
// given collection. dimensions is the embedding size; backends that create
// typed collections need it.
func NewVectorStore(cfg domain.VectorStoreSettings, collection string, dimensions int) (driven.VectorStore, error) {
	switch cfg.Backend {
	case domain.BackendMemory, "":
		return memory.NewVectorStore(collection, dimensions), nil

	case domain.BackendSQLite:
		return sqlite.NewVectorStore(cfg.DataDir, collection, dimensions)

	case domain.BackendQdrant:
		return qdrant.NewVectorStore(qdrant.Config{
			URL:        cfg.URL,
			APIKey:     cfg.APIKey,
			Collection: collection,
			Dimensions: dimensions,
		})

	case domain.BackendChroma:
		return chroma.NewVectorStore(chroma.Config{
			URL:        cfg.URL,
			APIKey:     cfg.APIKey,
			Collection: collection,
		})

	default:
		return nil, fmt.Errorf("%w: unknown vector store backend %q", domain.ErrInvalidInput, cfg.Backend)
	}
}
