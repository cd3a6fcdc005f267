package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is a driven.VectorStore bound to one collection of a Store.
type VectorStore struct {
	store      *Store
	collection string
	dimensions int
	owned      bool
}

// recordRow maps the records table.
type recordRow struct {
	Collection string `db:"collection"`
	ID         string `db:"id"`
	Chunk      string `db:"chunk"`
	ChunkIndex int    `db:"chunk_index"`
	Vector     []byte `db:"vector"`
}

const upsertRecord = `
	INSERT INTO records (collection, id, chunk, chunk_index, vector)
	VALUES (:collection, :id, :chunk, :chunk_index, :vector)
	ON CONFLICT(collection, id) DO UPDATE SET
		chunk = excluded.chunk,
		chunk_index = excluded.chunk_index,
		vector = excluded.vector`

// NewVectorStore opens the database in dataDir and binds the named collection.
// Closing the returned store closes the database.
func NewVectorStore(dataDir, collection string, dimensions int) (*VectorStore, error) {
	store, err := NewStore(dataDir)
	if err != nil {
		return nil, err
	}
	vs := store.Collection(collection, dimensions)
	vs.owned = true
	return vs, nil
}

// Collection binds a collection of an already open store. The caller keeps
// ownership of the store.
func (s *Store) Collection(name string, dimensions int) *VectorStore {
	return &VectorStore{store: s, collection: name, dimensions: dimensions}
}

// ResetIndex deletes the collection and its records, then recreates it empty.
func (v *VectorStore) ResetIndex(ctx context.Context) error {
	tx, err := v.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: sqlite: begin reset: %w", domain.ErrBackendUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE collection = ?", v.collection); err != nil {
		return fmt.Errorf("%w: sqlite: clearing records: %w", domain.ErrBackendUnavailable, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", v.collection); err != nil {
		return fmt.Errorf("%w: sqlite: dropping collection: %w", domain.ErrBackendUnavailable, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO collections (name, dimensions) VALUES (?, ?)", v.collection, v.dimensions); err != nil {
		return fmt.Errorf("%w: sqlite: creating collection: %w", domain.ErrBackendUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: sqlite: commit reset: %w", domain.ErrBackendUnavailable, err)
	}
	return nil
}

// Insert upserts one record per chunk in a single transaction. The collection
// is created if it does not exist yet.
func (v *VectorStore) Insert(ctx context.Context, chunks []string, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks, %d vectors", domain.ErrShapeMismatch, len(chunks), len(vectors))
	}
	if v.dimensions > 0 {
		for i, vec := range vectors {
			if len(vec) != v.dimensions {
				return fmt.Errorf("%w: vector %d has %d dimensions, index expects %d",
					domain.ErrShapeMismatch, i, len(vec), v.dimensions)
			}
		}
	}

	tx, err := v.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: sqlite: begin insert: %w", domain.ErrBackendUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO collections (name, dimensions) VALUES (?, ?)", v.collection, v.dimensions); err != nil {
		return fmt.Errorf("%w: sqlite: ensuring collection: %w", domain.ErrBackendUnavailable, err)
	}

	for i, chunk := range chunks {
		row := recordRow{
			Collection: v.collection,
			ID:         domain.RecordID(i),
			Chunk:      chunk,
			ChunkIndex: i,
			Vector:     float32SliceToBytes(vectors[i]),
		}
		if _, err := tx.NamedExecContext(ctx, upsertRecord, row); err != nil {
			return fmt.Errorf("%w: sqlite: inserting record %d: %w", domain.ErrBackendUnavailable, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: sqlite: commit insert: %w", domain.ErrBackendUnavailable, err)
	}
	return nil
}

// Retrieve loads the collection and ranks it by cosine similarity.
func (v *VectorStore) Retrieve(ctx context.Context, vector []float32, k int) ([]string, error) {
	if k <= 0 {
		return []string{}, nil
	}

	var rows []recordRow
	err := v.store.db.SelectContext(ctx, &rows, `
		SELECT collection, id, chunk, chunk_index, vector
		FROM records WHERE collection = ?
		ORDER BY chunk_index`, v.collection)
	if err != nil {
		return nil, fmt.Errorf("%w: sqlite: loading records: %w", domain.ErrBackendUnavailable, err)
	}

	records := make([]domain.IndexedRecord, len(rows))
	for i, r := range rows {
		records[i] = domain.IndexedRecord{
			ID:         r.ID,
			Chunk:      r.Chunk,
			ChunkIndex: r.ChunkIndex,
			Vector:     bytesToFloat32Slice(r.Vector),
		}
	}
	return domain.RankRecords(records, vector, k)
}

// Count returns the number of records in the collection.
func (v *VectorStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := v.store.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM records WHERE collection = ?", v.collection); err != nil {
		return 0, fmt.Errorf("%w: sqlite: counting records: %w", domain.ErrBackendUnavailable, err)
	}
	return n, nil
}

// Close closes the database if this store opened it.
func (v *VectorStore) Close() error {
	if v.owned {
		return v.store.Close()
	}
	return nil
}
