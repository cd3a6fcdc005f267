package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
)

// numberedWords returns "w0 w1 ... w(n-1)".
func numberedWords(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return words
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p, err := New()
		require.NoError(t, err)
		assert.Equal(t, 150, p.ChunkSize())
		assert.Equal(t, 25, p.Overlap())
	})

	t.Run("custom values", func(t *testing.T) {
		p, err := New(WithChunkSize(250), WithOverlap(0))
		require.NoError(t, err)
		assert.Equal(t, 250, p.ChunkSize())
		assert.Equal(t, 0, p.Overlap())
	})

	invalid := []struct {
		name string
		opts []Option
	}{
		{"zero chunk size", []Option{WithChunkSize(0)}},
		{"negative chunk size", []Option{WithChunkSize(-3)}},
		{"negative overlap", []Option{WithOverlap(-1)}},
		{"overlap equals chunk size", []Option{WithChunkSize(10), WithOverlap(10)}},
		{"overlap exceeds chunk size", []Option{WithChunkSize(100), WithOverlap(150)}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.opts...)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestProcessor_Name(t *testing.T) {
	p, err := New()
	require.NoError(t, err)
	assert.Equal(t, "words", p.Name())
}

func TestSplit_FourHundredWords(t *testing.T) {
	words := numberedWords(400)
	p, err := New(WithChunkSize(150), WithOverlap(25))
	require.NoError(t, err)

	chunks, err := p.Split(strings.Join(words, " "))
	require.NoError(t, err)

	require.Len(t, chunks, 3)
	assert.Equal(t, strings.Join(words[0:150], " "), chunks[0])
	assert.Equal(t, strings.Join(words[125:300], " "), chunks[1])
	assert.Equal(t, strings.Join(words[275:400], " "), chunks[2])
}

func TestSplit_ChunkCount(t *testing.T) {
	tests := []struct {
		words    int
		size     int
		overlap  int
		expected int
	}{
		{words: 0, size: 150, overlap: 25, expected: 0},
		{words: 1, size: 150, overlap: 25, expected: 1},
		{words: 150, size: 150, overlap: 25, expected: 1},
		{words: 151, size: 150, overlap: 25, expected: 2},
		{words: 300, size: 150, overlap: 25, expected: 2},
		{words: 1000, size: 250, overlap: 25, expected: 4},
		{words: 7, size: 2, overlap: 1, expected: 4},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d/%d", tt.words, tt.size, tt.overlap), func(t *testing.T) {
			p, err := New(WithChunkSize(tt.size), WithOverlap(tt.overlap))
			require.NoError(t, err)

			chunks, err := p.Split(strings.Join(numberedWords(tt.words), " "))
			require.NoError(t, err)
			assert.Len(t, chunks, tt.expected)
		})
	}
}

func TestSplit_OverlapAndCoverage(t *testing.T) {
	words := numberedWords(97)
	p, err := New(WithChunkSize(20), WithOverlap(5))
	require.NoError(t, err)

	chunks, err := p.Split(strings.Join(words, " "))
	require.NoError(t, err)

	var covered []string
	for i, chunk := range chunks {
		got := strings.Fields(chunk)
		if i == 0 {
			covered = append(covered, got...)
			continue
		}
		prev := strings.Fields(chunks[i-1])
		assert.Equal(t, prev[len(prev)-5:], got[:5], "chunk %d overlap", i)
		covered = append(covered, got[5:]...)
	}
	assert.Equal(t, words, covered)
}

func TestSplit_WhitespaceNormalisation(t *testing.T) {
	p, err := New(WithChunkSize(2), WithOverlap(1))
	require.NoError(t, err)

	messy, err := p.Split("a  b\tc")
	require.NoError(t, err)
	clean, err := p.Split("a b c")
	require.NoError(t, err)

	assert.Equal(t, clean, messy)
	assert.Equal(t, []string{"a b", "b c"}, clean)
}

func TestSplit_EmptyText(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "\n\t "} {
		chunks, err := p.Split(text)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	}
}

func TestNormalise(t *testing.T) {
	assert.Equal(t, "a b c", Normalise(" a \n\n b\t\tc "))
	assert.Equal(t, Normalise("a b c"), Normalise(Normalise("a  b\tc")))
	assert.Equal(t, "", Normalise("\n"))
}
