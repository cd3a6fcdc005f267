// Package preprocessors selects the text extraction strategy for a document URI.
//
// The set of supported documents is closed: each known URI is registered with
// exactly one shape-specific preprocessor. Adding a document shape means adding
// a package and one Register call in RegisterDefaults.
package preprocessors

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
	"github.com/custodia-labs/qa-agent/internal/preprocessors/arxiv"
	"github.com/custodia-labs/qa-agent/internal/preprocessors/blogpost"
)

// Verify interface compliance.
var _ driven.PreprocessorRegistry = (*Registry)(nil)

// Registry maps document URIs to preprocessors.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]driven.Preprocessor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]driven.Preprocessor),
	}
}

// NewDefaultRegistry creates a registry with the built-in documents registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// RegisterDefaults registers the blog post and the arXiv paper.
func RegisterDefaults(r *Registry) {
	r.Register(domain.BlogPostURI, blogpost.New())
	r.Register(domain.ArxivPaperURI, arxiv.New())
}

// Register associates uri with p, replacing any previous entry.
func (r *Registry) Register(uri string, p driven.Preprocessor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[uri] = p
}

// Select returns the preprocessor registered for uri.
// The match is exact; unknown URIs wrap domain.ErrUnsupportedDocument.
func (r *Registry) Select(uri string) (driven.Preprocessor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.entries[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedDocument, uri)
	}
	return p, nil
}

// URIs returns the registered URIs in sorted order.
func (r *Registry) URIs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	uris := make([]string, 0, len(r.entries))
	for uri := range r.entries {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}
