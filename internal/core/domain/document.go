package domain

import (
	"strconv"
	"time"
)

// Known document URIs. Each maps to exactly one DocumentShape.
const (
	// BlogPostURI is the LLM-powered autonomous agents blog post.
	BlogPostURI = "https://lilianweng.github.io/posts/2023-06-23-agent/"

	// ArxivPaperURI is the HTML rendering of the RAG survey paper.
	ArxivPaperURI = "https://arxiv.org/html/2312.10997v5"
)

// DocumentShape identifies a document layout with its own extraction strategy.
type DocumentShape string

// Supported document shapes.
const (
	// ShapeBlogPost is a blog layout with post-title, post-header and post-content regions.
	ShapeBlogPost DocumentShape = "blog_post"

	// ShapeArxivPaper is an arXiv HTML (LaTeXML) paper layout.
	ShapeArxivPaper DocumentShape = "arxiv_paper"
)

// IsValid returns true if the shape is recognised.
func (s DocumentShape) IsValid() bool {
	switch s {
	case ShapeBlogPost, ShapeArxivPaper:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s DocumentShape) String() string {
	return string(s)
}

// Description returns a human-readable description of the shape.
func (s DocumentShape) Description() string {
	switch s {
	case ShapeBlogPost:
		return "Blog post"
	case ShapeArxivPaper:
		return "arXiv HTML paper"
	default:
		return unknownDescription
	}
}

// Chunk is a contiguous slice of a document's normalised word sequence.
// Chunks are owned by a single indexing run and are not retained after insertion.
type Chunk struct {
	// Index is the 0-based ordinal of the chunk within the document.
	Index int

	// Content is the chunk text, words joined by single spaces.
	Content string
}

// IndexedRecord is the persisted unit in a vector store.
type IndexedRecord struct {
	// ID uniquely identifies the record within its collection.
	ID string

	// Chunk is the chunk text.
	Chunk string

	// ChunkIndex is the chunk ordinal.
	ChunkIndex int

	// Vector is the chunk embedding.
	Vector []float32
}

// RecordID returns the identifier used for the chunk at the given ordinal.
func RecordID(index int) string {
	return strconv.Itoa(index)
}

// NewChunks wraps split text in ordered Chunk values.
func NewChunks(texts []string) []Chunk {
	chunks := make([]Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = Chunk{Index: i, Content: text}
	}
	return chunks
}

// IndexReport summarises a completed indexing run.
type IndexReport struct {
	// URI is the indexed document.
	URI string

	// Shape is the document shape used for extraction.
	Shape DocumentShape

	// Words is the number of words in the cleaned text.
	Words int

	// Chunks is the number of chunks produced by the splitter.
	Chunks int

	// Records is the number of records in the index after insertion.
	Records int

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}
