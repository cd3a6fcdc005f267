// Package mcp provides an MCP (Model Context Protocol) server adapter for qa-agent.
// It lets AI assistants index the supported documents and ask questions against them.
package mcp

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
)

// ErrMissingAgent is returned when the agent service is not provided.
var ErrMissingAgent = errors.New("mcp: agent service is required")

// errorKinds maps pipeline errors to the stable prefix used in tool error results.
var errorKinds = []struct {
	err  error
	kind string
}{
	{domain.ErrInvalidInput, "invalid_input"},
	{domain.ErrUnsupportedDocument, "unsupported_document"},
	{domain.ErrFetch, "fetch_failed"},
	{domain.ErrEmbeddingService, "embedding_failed"},
	{domain.ErrGenerationService, "generation_failed"},
	{domain.ErrBackendUnavailable, "backend_unavailable"},
	{domain.ErrIndexInProgress, "index_in_progress"},
	{domain.ErrShapeMismatch, "shape_mismatch"},
}

// errorKind classifies err. Unknown errors are "internal".
func errorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "internal"
}

// toolError prefixes err with its kind. The SDK reports handler errors as
// tool results with isError set.
func toolError(err error) error {
	return fmt.Errorf("%s: %w", errorKind(err), err)
}
