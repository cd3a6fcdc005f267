// Package chunker provides the word-window text splitter.
//
// Text is whitespace-normalised and tokenised into words. For every stride
// start i = 0, chunkSize, 2*chunkSize, ... the splitter emits the words in
// [max(i-overlap, 0), i+chunkSize). This yields ceil(n/chunkSize) chunks where
// each chunk after the first repeats the last overlap words of the previous
// stride.
package chunker

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
)

// Name is the registry name of the word-window splitter.
const Name = "words"

// DefaultChunkSize is the default number of words per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping words.
const DefaultChunkOverlap = domain.DefaultOverlap

// Verify interface compliance.
var _ driven.TextSplitter = (*Processor)(nil)

// Processor splits text into overlapping windows of words.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Processor)

// WithChunkSize sets the chunk size in words.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the number of words each chunk shares with its predecessor.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// New creates a splitter with the given options.
// A non-positive chunk size, a negative overlap, or an overlap that is not
// smaller than the chunk size is rejected with domain.ErrInvalidInput.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, p.chunkSize)
	}
	if p.overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must not be negative, got %d", domain.ErrInvalidInput, p.overlap)
	}
	if p.overlap >= p.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidInput, p.overlap, p.chunkSize)
	}

	return p, nil
}

// Name returns the splitter name.
func (p *Processor) Name() string {
	return Name
}

// ChunkSize returns the configured chunk size in words.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap in words.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Split returns the word windows of text in order.
func (p *Processor) Split(text string) ([]string, error) {
	words := Words(text)
	n := len(words)
	if n == 0 {
		return nil, nil
	}

	chunks := make([]string, 0, (n+p.chunkSize-1)/p.chunkSize)
	for i := 0; i < n; i += p.chunkSize {
		start := max(i-p.overlap, 0)
		end := min(i+p.chunkSize, n)
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}

	return chunks, nil
}

// Words collapses every run of whitespace and returns the resulting word sequence.
func Words(text string) []string {
	return strings.Fields(text)
}

// Normalise collapses every run of whitespace to a single space.
func Normalise(text string) string {
	return strings.Join(Words(text), " ")
}
