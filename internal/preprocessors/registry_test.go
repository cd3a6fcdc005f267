package preprocessors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/preprocessors/blogpost"
)

func TestRegistry_SelectDefaults(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		uri   string
		shape domain.DocumentShape
	}{
		{domain.BlogPostURI, domain.ShapeBlogPost},
		{domain.ArxivPaperURI, domain.ShapeArxivPaper},
	}

	for _, tt := range tests {
		t.Run(tt.shape.String(), func(t *testing.T) {
			p, err := r.Select(tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.shape, p.Shape())
		})
	}
}

func TestRegistry_SelectUnsupported(t *testing.T) {
	r := NewDefaultRegistry()

	for _, uri := range []string{
		"",
		"https://example.com/post",
		"https://arxiv.org/html/2312.10997v4",
		"https://lilianweng.github.io/posts/2023-06-23-agent",
	} {
		p, err := r.Select(uri)
		assert.Nil(t, p)
		assert.ErrorIs(t, err, domain.ErrUnsupportedDocument, uri)
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.URIs())

	r.Register("https://example.com/b", blogpost.New())
	r.Register("https://example.com/a", blogpost.New())

	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, r.URIs())
	p, err := r.Select("https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, domain.ShapeBlogPost, p.Shape())
}
