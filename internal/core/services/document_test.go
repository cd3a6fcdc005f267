package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
)

// cacheLoader places cache paths under dir.
type cacheLoader struct {
	fakeLoader
	dir string
}

func (c *cacheLoader) CachePath(uri string) string {
	return filepath.Join(c.dir, filepath.Base(uri)+".html")
}

func TestDocumentService_List(t *testing.T) {
	dir := t.TempDir()
	loader := &cacheLoader{dir: dir}
	svc := NewDocumentService(loader, &fakeRegistry{uri: testURI, p: passthrough{}})

	infos, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, testURI, infos[0].URI)
	assert.Equal(t, domain.ShapeBlogPost, infos[0].Shape)
	assert.False(t, infos[0].Cached)

	require.NoError(t, os.WriteFile(loader.CachePath(testURI), []byte("<html></html>"), 0o600))

	infos, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.True(t, infos[0].Cached)
	assert.Equal(t, int64(13), infos[0].Size)
	assert.False(t, infos[0].CachedAt.IsZero())
}

func TestDocumentService_Content(t *testing.T) {
	loader := &fakeLoader{docs: map[string]string{testURI: "clean text"}}
	svc := NewDocumentService(loader, &fakeRegistry{uri: testURI, p: passthrough{}})

	text, err := svc.Content(context.Background(), testURI)
	require.NoError(t, err)
	assert.Equal(t, "clean text", text)

	_, err = svc.Content(context.Background(), "https://example.com/unknown")
	assert.ErrorIs(t, err, domain.ErrUnsupportedDocument)
	assert.Equal(t, 1, loader.loads)

	loader.err = domain.ErrFetch
	_, err = svc.Content(context.Background(), testURI)
	assert.ErrorIs(t, err, domain.ErrFetch)
}

func TestDocumentService_ClearCache(t *testing.T) {
	svc := NewDocumentService(&fakeLoader{}, &fakeRegistry{uri: testURI, p: passthrough{}})
	assert.NoError(t, svc.ClearCache())
}
