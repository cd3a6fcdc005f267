// Package qdrant provides a VectorStore backed by a Qdrant server over its REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// DefaultTimeout bounds each REST call.
const DefaultTimeout = 15 * time.Second

// pointNamespace seeds the name-based UUIDs used as point ids, since Qdrant
// only accepts unsigned integers or UUIDs.
var pointNamespace = uuid.MustParse("6f1c3a52-4b7e-5d2a-9c1e-7a0b9d3e2f41")

// Config holds configuration for the Qdrant store.
type Config struct {
	// URL is the server address, e.g. http://localhost:6333 (required).
	URL string

	// APIKey is sent as the api-key header when set.
	APIKey string

	// Collection is the collection name (required).
	Collection string

	// Dimensions is the vector size used when creating the collection.
	Dimensions int

	// Timeout is the per-request timeout (default: 15s).
	Timeout time.Duration

	// HTTPClient overrides the HTTP client.
	HTTPClient *http.Client
}

// VectorStore is a minimal REST client for one Qdrant collection.
type VectorStore struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	collection string
	dimensions int
}

// payload is stored alongside each point.
type payload struct {
	Chunk      string `json:"chunk"`
	ChunkIndex int    `json:"chunk_index"`
}

type point struct {
	ID      string    `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload payload   `json:"payload"`
}

// NewVectorStore creates a Qdrant store. No request is made until first use.
func NewVectorStore(cfg Config) (*VectorStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: qdrant: url is required", domain.ErrNotConfigured)
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("%w: qdrant: collection is required", domain.ErrInvalidInput)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &VectorStore{
		client:     client,
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimensions: cfg.Dimensions,
	}, nil
}

// PointID returns the point UUID for a record id.
func PointID(collection, recordID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(collection+"/"+recordID)).String()
}

// ResetIndex deletes the collection (ignoring absence) and recreates it.
func (s *VectorStore) ResetIndex(ctx context.Context) error {
	if s.dimensions <= 0 {
		return fmt.Errorf("%w: qdrant: vector dimensions must be known to create a collection", domain.ErrInvalidInput)
	}

	status, _, err := s.do(ctx, http.MethodDelete, s.collectionPath(""), nil)
	if err != nil {
		return err
	}
	if status != http.StatusNotFound && status >= 300 {
		return fmt.Errorf("%w: qdrant: delete collection returned status %d", domain.ErrBackendUnavailable, status)
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     s.dimensions,
			"distance": "Cosine",
		},
	}
	return s.expectOK(ctx, http.MethodPut, s.collectionPath(""), body, nil)
}

// Insert upserts one point per chunk and waits for the write to apply.
func (s *VectorStore) Insert(ctx context.Context, chunks []string, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks, %d vectors", domain.ErrShapeMismatch, len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	points := make([]point, len(chunks))
	for i, chunk := range chunks {
		points[i] = point{
			ID:      PointID(s.collection, domain.RecordID(i)),
			Vector:  vectors[i],
			Payload: payload{Chunk: chunk, ChunkIndex: i},
		}
	}
	return s.expectOK(ctx, http.MethodPut, s.collectionPath("/points?wait=true"),
		map[string]any{"points": points}, nil)
}

// Retrieve searches by vector. A missing collection yields an empty result.
func (s *VectorStore) Retrieve(ctx context.Context, vector []float32, k int) ([]string, error) {
	if k <= 0 {
		return []string{}, nil
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64 `json:"score"`
			Payload payload `json:"payload"`
		} `json:"result"`
	}
	status, body, err := s.do(ctx, http.MethodPost, s.collectionPath("/points/search"), req)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return []string{}, nil
	}
	if err := decode(status, body, &resp); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(resp.Result))
	for _, r := range resp.Result {
		out = append(out, r.Payload.Chunk)
	}
	return out, nil
}

// Count returns the exact number of points, or 0 if the collection is absent.
func (s *VectorStore) Count(ctx context.Context) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	status, body, err := s.do(ctx, http.MethodPost, s.collectionPath("/points/count"), map[string]any{"exact": true})
	if err != nil {
		return 0, err
	}
	if status == http.StatusNotFound {
		return 0, nil
	}
	if err := decode(status, body, &resp); err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

// Close releases resources.
func (s *VectorStore) Close() error {
	return nil
}

func (s *VectorStore) collectionPath(suffix string) string {
	return s.baseURL + "/collections/" + url.PathEscape(s.collection) + suffix
}

func (s *VectorStore) expectOK(ctx context.Context, method, endpoint string, in, out any) error {
	status, body, err := s.do(ctx, method, endpoint, in)
	if err != nil {
		return err
	}
	return decode(status, body, out)
}

// do sends a JSON request. Transport failures wrap ErrBackendUnavailable;
// HTTP status handling is left to the caller.
func (s *VectorStore) do(ctx context.Context, method, endpoint string, in any) (int, []byte, error) {
	var reader io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, nil, fmt.Errorf("qdrant: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: qdrant: create request: %w", domain.ErrBackendUnavailable, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: qdrant: %s %s: %w", domain.ErrBackendUnavailable, method, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: qdrant: read response: %w", domain.ErrBackendUnavailable, err)
	}
	return resp.StatusCode, body, nil
}

func decode(status int, body []byte, out any) error {
	if status >= 300 {
		return fmt.Errorf("%w: qdrant: status %d: %s", domain.ErrBackendUnavailable, status, strings.TrimSpace(string(body)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: qdrant: decode response: %w", domain.ErrBackendUnavailable, err)
	}
	return nil
}
