package driven

import "context"

// DocumentLoader fetches raw document content by URI.
// Implementations cache fetched bytes locally; a cached URI is never fetched again
// until the cache is cleared.
type DocumentLoader interface {
	// Load returns the raw content for uri.
	// Network and non-success HTTP failures wrap domain.ErrFetch.
	Load(ctx context.Context, uri string) (string, error)

	// CachePath returns the cache file location for uri, whether or not it exists.
	CachePath(uri string) string

	// Clear removes every cached document.
	Clear() error
}
