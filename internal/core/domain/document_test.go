package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentShape_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		shape    DocumentShape
		expected bool
	}{
		{"blog post", ShapeBlogPost, true},
		{"arxiv paper", ShapeArxivPaper, true},
		{"empty", DocumentShape(""), false},
		{"unknown", DocumentShape("pdf"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.shape.IsValid())
		})
	}
}

func TestDocumentShape_Description(t *testing.T) {
	assert.Equal(t, "Blog post", ShapeBlogPost.Description())
	assert.Equal(t, "arXiv HTML paper", ShapeArxivPaper.Description())
	assert.Equal(t, "Unknown", DocumentShape("x").Description())
	assert.Equal(t, "blog_post", ShapeBlogPost.String())
}

func TestRecordID(t *testing.T) {
	assert.Equal(t, "0", RecordID(0))
	assert.Equal(t, "42", RecordID(42))
}

func TestNewChunks(t *testing.T) {
	chunks := NewChunks([]string{"a b", "b c", "c d"})

	assert.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
	}
	assert.Equal(t, "b c", chunks[1].Content)
	assert.Empty(t, NewChunks(nil))
}
