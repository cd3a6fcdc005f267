package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
)

// DocumentService exposes the supported documents and their cache state.
type DocumentService interface {
	// List returns every supported document in URI order.
	List(ctx context.Context) ([]DocumentInfo, error)

	// Content returns the cleaned text of uri, fetching it through the cache.
	// Unknown URIs fail with domain.ErrUnsupportedDocument.
	Content(ctx context.Context, uri string) (string, error)

	// ClearCache removes every cached document.
	ClearCache() error
}

// DocumentInfo describes one supported document.
type DocumentInfo struct {
	// URI is the document location.
	URI string `json:"uri"`

	// Shape selects the extraction strategy.
	Shape domain.DocumentShape `json:"shape"`

	// CachePath is where the raw document is or will be cached.
	CachePath string `json:"cache_path"`

	// Cached is true when the raw document is on disk.
	Cached bool `json:"cached"`

	// Size is the cached size in bytes.
	Size int64 `json:"size,omitempty"`

	// CachedAt is the cache file modification time.
	CachedAt time.Time `json:"cached_at,omitzero"`
}
