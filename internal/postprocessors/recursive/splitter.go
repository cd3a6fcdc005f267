// Package recursive provides a character-based splitter backed by langchaingo.
//
// It is an alternative to the word-window splitter for documents where
// paragraph and sentence boundaries matter more than exact word counts.
// Sizes are measured in characters.
package recursive

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
)

// Name is the registry name of the recursive splitter.
const Name = "recursive"

// Default sizes in characters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 100
)

// Verify interface compliance.
var _ driven.TextSplitter = (*Splitter)(nil)

// Splitter wraps langchaingo's recursive character splitter.
type Splitter struct {
	inner     textsplitter.RecursiveCharacter
	chunkSize int
	overlap   int
}

// New creates a recursive splitter. Invalid sizes wrap domain.ErrInvalidInput.
func New(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", domain.ErrInvalidInput, overlap, chunkSize)
	}

	return &Splitter{
		inner: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(overlap),
		),
		chunkSize: chunkSize,
		overlap:   overlap,
	}, nil
}

// Name returns the splitter name.
func (s *Splitter) Name() string {
	return Name
}

// Split returns the chunks of text. Empty text yields no chunks.
func (s *Splitter) Split(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	chunks, err := s.inner.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("recursive split: %w", err)
	}

	out := chunks[:0]
	for _, c := range chunks {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out, nil
}
