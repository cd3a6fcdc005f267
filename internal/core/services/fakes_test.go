package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
)

// fakeLoader serves documents from a map.
type fakeLoader struct {
	docs  map[string]string
	err   error
	loads int
}

func (f *fakeLoader) Load(_ context.Context, uri string) (string, error) {
	f.loads++
	if f.err != nil {
		return "", f.err
	}
	doc, ok := f.docs[uri]
	if !ok {
		return "", fmt.Errorf("%w: status 404", domain.ErrFetch)
	}
	return doc, nil
}

func (f *fakeLoader) CachePath(uri string) string { return "/cache/" + uri }
func (f *fakeLoader) Clear() error                { return nil }

// passthrough returns its input as the cleaned text.
type passthrough struct{}

func (passthrough) Shape() domain.DocumentShape        { return domain.ShapeBlogPost }
func (passthrough) GetText(raw string) (string, error) { return raw, nil }

// fakeRegistry accepts exactly one URI.
type fakeRegistry struct {
	uri string
	p   driven.Preprocessor
}

func (r *fakeRegistry) Register(uri string, p driven.Preprocessor) { r.uri, r.p = uri, p }
func (r *fakeRegistry) URIs() []string                             { return []string{r.uri} }
func (r *fakeRegistry) Select(uri string) (driven.Preprocessor, error) {
	if uri != r.uri {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedDocument, uri)
	}
	return r.p, nil
}

// fakeEmbedder maps text to a 3-dimensional vector derived from its first
// word, so identical leading words embed identically.
type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) vector(text string) []float32 {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return []float32{0, 0, 1}
	}
	var sum float32
	for _, r := range fields[0] {
		sum += float32(r)
	}
	return []float32{sum, float32(len(fields[0])), 1}
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector(text), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.vector(t)
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int            { return 3 }
func (f *fakeEmbedder) ModelName() string          { return "fake-embed" }
func (f *fakeEmbedder) Ping(context.Context) error { return nil }
func (f *fakeEmbedder) Close() error               { return nil }

// recordingStore records calls in order and delegates to a slice.
type recordingStore struct {
	mu        sync.Mutex
	calls     []string
	records   []string
	resetErr  error
	insertErr error
	countErr  error
	retrieved []string
}

func (s *recordingStore) ResetIndex(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "reset")
	if s.resetErr != nil {
		return s.resetErr
	}
	s.records = nil
	return nil
}

func (s *recordingStore) Insert(_ context.Context, chunks []string, vectors [][]float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "insert")
	if s.insertErr != nil {
		return s.insertErr
	}
	if len(chunks) != len(vectors) {
		return domain.ErrShapeMismatch
	}
	s.records = append([]string(nil), chunks...)
	return nil
}

func (s *recordingStore) Retrieve(_ context.Context, _ []float32, k int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fmt.Sprintf("retrieve k=%d", k))
	if len(s.retrieved) > k {
		return s.retrieved[:k], nil
	}
	return s.retrieved, nil
}

func (s *recordingStore) Count(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countErr != nil {
		return 0, s.countErr
	}
	return len(s.records), nil
}

func (s *recordingStore) Close() error { return nil }

// fakeLLM captures the last request.
type fakeLLM struct {
	answer   string
	err      error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (f *fakeLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	f.messages, f.opts = messages, opts
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) ModelName() string          { return "fake-llm" }
func (f *fakeLLM) Ping(context.Context) error { return nil }
func (f *fakeLLM) Close() error               { return nil }
