package chroma

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
)

const collectionsPath = "/api/v2/tenants/default_tenant/databases/default_database/collections"

// fakeCollection is one collection held by fakeChroma.
type fakeCollection struct {
	id       string
	name     string
	metadata map[string]any
	ids      []string
	docs     []string
	vectors  [][]float32
	metas    []map[string]any
}

func (c *fakeCollection) upsert(id, doc string, vector []float32, meta map[string]any) {
	for i, existing := range c.ids {
		if existing == id {
			c.docs[i], c.vectors[i], c.metas[i] = doc, vector, meta
			return
		}
	}
	c.ids = append(c.ids, id)
	c.docs = append(c.docs, doc)
	c.vectors = append(c.vectors, vector)
	c.metas = append(c.metas, meta)
}

// fakeChroma is an in-memory stand-in for the Chroma v2 REST routes the
// store uses.
type fakeChroma struct {
	mu       sync.Mutex
	byName   map[string]*fakeCollection
	byID     map[string]*fakeCollection
	nextID   int
	created  []map[string]any
	deleted  []string
	nResults []int
	tokens   []string
}

func newFakeChroma() *fakeChroma {
	return &fakeChroma{byName: map[string]*fakeCollection{}, byID: map[string]*fakeCollection{}}
}

func (f *fakeChroma) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v2/pre-flight-checks", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"max_batch_size": 1000})
	})
	mux.HandleFunc("POST "+collectionsPath, f.createCollection)
	mux.HandleFunc("DELETE "+collectionsPath+"/{name}", f.deleteCollection)
	mux.HandleFunc("POST "+collectionsPath+"/{id}/upsert", f.upsert)
	mux.HandleFunc("GET "+collectionsPath+"/{id}/count", f.count)
	mux.HandleFunc("POST "+collectionsPath+"/{id}/query", f.query)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.tokens = append(f.tokens, r.Header.Get("X-Chroma-Token"))
		mux.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Error", "message": msg})
}

func (f *fakeChroma) collectionJSON(c *fakeCollection) map[string]any {
	return map[string]any{
		"id":       c.id,
		"name":     c.name,
		"metadata": c.metadata,
		"tenant":   "default_tenant",
		"database": "default_database",
	}
}

func (f *fakeChroma) createCollection(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string         `json:"name"`
		GetOrCreate bool           `json:"get_or_create"`
		Metadata    map[string]any `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f.created = append(f.created, map[string]any{"name": body.Name, "get_or_create": body.GetOrCreate, "metadata": body.Metadata})

	if c, ok := f.byName[body.Name]; ok {
		if !body.GetOrCreate {
			writeError(w, http.StatusConflict, fmt.Sprintf("Collection %s already exists", body.Name))
			return
		}
		writeJSON(w, f.collectionJSON(c))
		return
	}

	f.nextID++
	c := &fakeCollection{id: fmt.Sprintf("00000000-0000-0000-0000-%012d", f.nextID), name: body.Name, metadata: body.Metadata}
	f.byName[c.name] = c
	f.byID[c.id] = c
	writeJSON(w, f.collectionJSON(c))
}

func (f *fakeChroma) deleteCollection(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	c, ok := f.byName[name]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Collection %s does not exist", name))
		return
	}
	delete(f.byName, name)
	delete(f.byID, c.id)
	f.deleted = append(f.deleted, name)
	writeJSON(w, map[string]any{})
}

func (f *fakeChroma) lookup(w http.ResponseWriter, r *http.Request) (*fakeCollection, bool) {
	c, ok := f.byID[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Collection does not exist")
	}
	return c, ok
}

func (f *fakeChroma) upsert(w http.ResponseWriter, r *http.Request) {
	c, ok := f.lookup(w, r)
	if !ok {
		return
	}
	var body struct {
		IDs        []string         `json:"ids"`
		Documents  []string         `json:"documents"`
		Metadatas  []map[string]any `json:"metadatas"`
		Embeddings [][]float32      `json:"embeddings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(body.Embeddings) != len(body.IDs) || len(body.Documents) != len(body.IDs) || len(body.Metadatas) != len(body.IDs) {
		writeError(w, http.StatusBadRequest, "ids, documents, metadatas and embeddings differ in length")
		return
	}
	for i, id := range body.IDs {
		c.upsert(id, body.Documents[i], body.Embeddings[i], body.Metadatas[i])
	}
	writeJSON(w, map[string]any{})
}

func (f *fakeChroma) count(w http.ResponseWriter, r *http.Request) {
	c, ok := f.lookup(w, r)
	if !ok {
		return
	}
	_, _ = w.Write([]byte(strconv.Itoa(len(c.ids))))
}

// query ranks by cosine similarity. Asking for more results than the
// collection holds is rejected, as older Chroma servers do.
func (f *fakeChroma) query(w http.ResponseWriter, r *http.Request) {
	c, ok := f.lookup(w, r)
	if !ok {
		return
	}
	var body struct {
		QueryEmbeddings [][]float32 `json:"query_embeddings"`
		NResults        int         `json:"n_results"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.QueryEmbeddings) != 1 {
		writeError(w, http.StatusBadRequest, "expected one query embedding")
		return
	}
	f.nResults = append(f.nResults, body.NResults)
	if body.NResults > len(c.ids) {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Number of requested results %d is greater than number of elements in index %d", body.NResults, len(c.ids)))
		return
	}

	records := make([]domain.IndexedRecord, len(c.ids))
	for i := range c.ids {
		index, _ := c.metas[i][chunkIndexKey].(float64)
		records[i] = domain.IndexedRecord{ID: c.ids[i], Chunk: c.docs[i], ChunkIndex: int(index), Vector: c.vectors[i]}
	}
	ranked, err := domain.RankRecords(records, body.QueryEmbeddings[0], body.NResults)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ids := make([]string, len(ranked))
	for i, chunk := range ranked {
		for j, doc := range c.docs {
			if doc == chunk {
				ids[i] = c.ids[j]
				break
			}
		}
	}
	writeJSON(w, map[string]any{
		"ids":       [][]string{ids},
		"documents": [][]string{ranked},
	})
}
