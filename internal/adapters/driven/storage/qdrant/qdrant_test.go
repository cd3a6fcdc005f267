package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
)

// fakeQdrant is a tiny in-memory stand-in for the Qdrant REST endpoints the
// store uses.
type fakeQdrant struct {
	mu      sync.Mutex
	exists  bool
	size    int
	points  map[string]point
	apiKeys []string
}

func (f *fakeQdrant) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apiKeys = append(f.apiKeys, r.Header.Get("api-key"))

	notFound := func() {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":{"error":"Not found: Collection doesn't exist"}}`))
	}

	switch {
	case r.Method == http.MethodDelete && r.URL.Path == "/collections/docs":
		if !f.exists {
			notFound()
			return
		}
		f.exists, f.points = false, nil
		_, _ = w.Write([]byte(`{"result":true}`))

	case r.Method == http.MethodPut && r.URL.Path == "/collections/docs":
		var body struct {
			Vectors struct {
				Size     int    `json:"size"`
				Distance string `json:"distance"`
			} `json:"vectors"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Vectors.Distance != "Cosine" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.exists, f.size, f.points = true, body.Vectors.Size, map[string]point{}
		_, _ = w.Write([]byte(`{"result":true}`))

	case r.Method == http.MethodPut && r.URL.Path == "/collections/docs/points":
		if !f.exists {
			notFound()
			return
		}
		var body struct {
			Points []point `json:"points"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		for _, p := range body.Points {
			f.points[p.ID] = p
		}
		_, _ = w.Write([]byte(`{"result":{"status":"completed"}}`))

	case r.Method == http.MethodPost && r.URL.Path == "/collections/docs/points/search":
		if !f.exists {
			notFound()
			return
		}
		var body struct {
			Vector []float32 `json:"vector"`
			Limit  int       `json:"limit"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		records := make([]domain.IndexedRecord, 0, len(f.points))
		for _, p := range f.points {
			records = append(records, domain.IndexedRecord{Chunk: p.Payload.Chunk, ChunkIndex: p.Payload.ChunkIndex, Vector: p.Vector})
		}
		type hit struct {
			Payload payload `json:"payload"`
		}
		var hits []hit
		ranked, _ := domain.RankRecords(sortByIndex(records), body.Vector, body.Limit)
		for _, chunk := range ranked {
			hits = append(hits, hit{Payload: payload{Chunk: chunk}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"result": hits})

	case r.Method == http.MethodPost && r.URL.Path == "/collections/docs/points/count":
		if !f.exists {
			notFound()
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"result": map[string]int{"count": len(f.points)}})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func sortByIndex(records []domain.IndexedRecord) []domain.IndexedRecord {
	out := make([]domain.IndexedRecord, len(records))
	for _, r := range records {
		if r.ChunkIndex < len(out) {
			out[r.ChunkIndex] = r
		}
	}
	return out
}

func newTestStore(t *testing.T) (*VectorStore, *fakeQdrant) {
	t.Helper()
	fake := &fakeQdrant{}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	store, err := NewVectorStore(Config{URL: server.URL + "/", APIKey: "secret", Collection: "docs", Dimensions: 2})
	require.NoError(t, err)
	return store, fake
}

func TestNewVectorStore_Validation(t *testing.T) {
	_, err := NewVectorStore(Config{Collection: "docs"})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	_, err = NewVectorStore(Config{URL: "http://localhost:6333"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVectorStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store, fake := newTestStore(t)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "absent collection counts zero")

	got, err := store.Retrieve(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, store.ResetIndex(ctx), "reset succeeds when the collection is absent")
	assert.Equal(t, 2, fake.size)

	require.NoError(t, store.Insert(ctx, []string{"alpha", "beta"}, [][]float32{{1, 0}, {0, 1}}))

	got, err = store.Retrieve(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"beta"}, got)

	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.ResetIndex(ctx))
	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	for _, key := range fake.apiKeys {
		assert.Equal(t, "secret", key)
	}
}

func TestVectorStore_CollidingIDsOverwrite(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	require.NoError(t, store.ResetIndex(ctx))

	require.NoError(t, store.Insert(ctx, []string{"first"}, [][]float32{{1, 0}}))
	require.NoError(t, store.Insert(ctx, []string{"second"}, [][]float32{{1, 0}}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestVectorStore_ShapeMismatch(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.Insert(context.Background(), []string{"a", "b"}, [][]float32{{1, 0}})
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestVectorStore_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	store, err := NewVectorStore(Config{URL: server.URL, Collection: "docs", Dimensions: 2})
	require.NoError(t, err)

	_, err = store.Count(context.Background())
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)

	err = store.ResetIndex(context.Background())
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestPointID(t *testing.T) {
	id := PointID("docs", "0")
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, PointID("docs", "0"))
	assert.NotEqual(t, id, PointID("docs", "1"))
	assert.NotEqual(t, id, PointID("other", "0"))
}
