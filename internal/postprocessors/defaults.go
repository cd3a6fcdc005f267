package postprocessors

import (
	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
	"github.com/custodia-labs/qa-agent/internal/postprocessors/chunker"
	"github.com/custodia-labs/qa-agent/internal/postprocessors/recursive"
)

// RegisterDefaults registers all built-in splitters with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(chunker.Name, buildChunker)
	r.Register(recursive.Name, buildRecursive)
}

// NewSplitter builds the splitter named in settings. The word splitter uses
// ChunkSize and Overlap; the recursive splitter uses the character sizes.
func NewSplitter(settings domain.IndexSettings) (driven.TextSplitter, error) {
	r := NewRegistry()
	RegisterDefaults(r)

	name := settings.Splitter
	if name == "" {
		name = chunker.Name
	}

	cfg := map[string]any{
		"chunk_size": settings.ChunkSize,
		"overlap":    settings.Overlap,
	}
	if name == recursive.Name {
		cfg = map[string]any{}
		if settings.CharChunkSize > 0 {
			cfg["chunk_size"] = settings.CharChunkSize
			cfg["overlap"] = settings.CharOverlap
		}
	}
	return r.Build(name, cfg)
}

// buildChunker creates the word-window splitter from generic config.
// Supported config keys:
//   - chunk_size (int): Words per chunk (default: 150)
//   - overlap (int): Words shared with the previous chunk (default: 25)
func buildChunker(cfg map[string]any) (driven.TextSplitter, error) {
	var opts []chunker.Option

	if size, ok := getIntFromConfig(cfg, "chunk_size"); ok {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap, ok := getIntFromConfig(cfg, "overlap"); ok {
		opts = append(opts, chunker.WithOverlap(overlap))
	}

	return chunker.New(opts...)
}

// buildRecursive creates the langchaingo-backed splitter from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 1000)
//   - overlap (int): Overlapping characters (default: 100)
func buildRecursive(cfg map[string]any) (driven.TextSplitter, error) {
	size, ok := getIntFromConfig(cfg, "chunk_size")
	if !ok {
		size = recursive.DefaultChunkSize
	}
	overlap, ok := getIntFromConfig(cfg, "overlap")
	if !ok {
		overlap = recursive.DefaultChunkOverlap
	}
	return recursive.New(size, overlap)
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
