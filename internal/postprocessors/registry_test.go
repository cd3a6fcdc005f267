package postprocessors

import (
	"errors"
	"strings"
	"testing"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
)

// registryMockSplitter is a simple mock for testing registry functionality.
type registryMockSplitter struct {
	name string
}

func (m *registryMockSplitter) Name() string { return m.name }
func (m *registryMockSplitter) Split(text string) ([]string, error) {
	return []string{text}, nil
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry returned nil")
	}
	if len(r.builders) != 0 {
		t.Errorf("expected empty builders, got %d", len(r.builders))
	}
}

func TestRegistry_Build_Success(t *testing.T) {
	r := NewRegistry()

	r.Register("test", func(cfg map[string]any) (driven.TextSplitter, error) {
		name := "default"
		if n, ok := cfg["name"].(string); ok {
			name = n
		}
		return &registryMockSplitter{name: name}, nil
	})

	s, err := r.Build("test", map[string]any{"name": "custom"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if s.Name() != "custom" {
		t.Errorf("expected name 'custom', got %q", s.Name())
	}
}

func TestRegistry_Build_Unknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Build("unknown", nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRegisterDefaults(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	names := r.Names()
	if strings.Join(names, ",") != "recursive,words" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestBuildChunker_FromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     map[string]any
		wantErr bool
	}{
		{"nil config uses defaults", nil, false},
		{"int values", map[string]any{"chunk_size": 250, "overlap": 25}, false},
		{"int64 values from toml", map[string]any{"chunk_size": int64(250), "overlap": int64(25)}, false},
		{"float64 values from json", map[string]any{"chunk_size": 250.0, "overlap": 25.0}, false},
		{"overlap too large", map[string]any{"chunk_size": 10, "overlap": 10}, true},
		{"zero chunk size", map[string]any{"chunk_size": 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := buildChunker(tt.cfg)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Name() != "words" {
				t.Errorf("expected words splitter, got %q", s.Name())
			}
		})
	}
}

func TestNewSplitter(t *testing.T) {
	settings := domain.DefaultConfig().Index

	s, err := NewSplitter(settings)
	if err != nil {
		t.Fatalf("NewSplitter failed: %v", err)
	}
	if s.Name() != "words" {
		t.Errorf("expected words splitter, got %q", s.Name())
	}

	settings.Splitter = "recursive"
	settings.ChunkSize = 500
	settings.Overlap = 50
	s, err = NewSplitter(settings)
	if err != nil {
		t.Fatalf("NewSplitter failed: %v", err)
	}
	if s.Name() != "recursive" {
		t.Errorf("expected recursive splitter, got %q", s.Name())
	}

	settings.Splitter = "sentences"
	if _, err := NewSplitter(settings); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown splitter, got %v", err)
	}
}

func TestNewSplitter_RecursiveUsesCharacterSizes(t *testing.T) {
	text := strings.Repeat("word ", 180) // 900 characters

	tests := []struct {
		name       string
		charSize   int
		charOver   int
		wantChunks func(n int) bool
	}{
		{"default character size keeps text whole", domain.DefaultCharChunkSize, domain.DefaultCharOverlap, func(n int) bool { return n == 1 }},
		{"smaller character size splits", 200, 20, func(n int) bool { return n > 1 }},
		{"unset falls back to recursive defaults", 0, 0, func(n int) bool { return n == 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := domain.DefaultConfig().Index
			settings.Splitter = "recursive"
			settings.CharChunkSize = tt.charSize
			settings.CharOverlap = tt.charOver

			s, err := NewSplitter(settings)
			if err != nil {
				t.Fatalf("NewSplitter failed: %v", err)
			}
			chunks, err := s.Split(text)
			if err != nil {
				t.Fatalf("Split failed: %v", err)
			}
			if !tt.wantChunks(len(chunks)) {
				t.Errorf("unexpected chunk count %d", len(chunks))
			}
			for _, c := range chunks {
				if len(c) > max(tt.charSize, domain.DefaultCharChunkSize) {
					t.Errorf("chunk of %d characters exceeds limit", len(c))
				}
			}
		})
	}
}
