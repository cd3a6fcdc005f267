// Package domain defines the core business entities for qa-agent.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentShape: The closed set of document layouts that can be indexed
//   - Chunk: A contiguous window of words taken from a cleaned document
//   - IndexedRecord: A chunk persisted in a vector store with its embedding
//   - Config: Validated application configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
