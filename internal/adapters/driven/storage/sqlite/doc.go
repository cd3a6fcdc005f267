// Package sqlite provides a VectorStore persisted in a local SQLite database.
//
// The adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, accessed through github.com/jmoiron/sqlx. Every collection
// shares one database file; records are keyed by (collection, id).
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Applied versions are tracked in schema_migrations.
//
// # Vectors
//
// Vectors are stored as little-endian float32 blobs. Retrieval loads the
// collection and ranks it by cosine similarity in Go, which suits the
// single-document indexes this tool builds.
//
// # Thread Safety
//
// All operations are safe for concurrent use. The database runs in WAL mode
// with a busy timeout.
package sqlite
