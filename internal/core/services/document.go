package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService lists supported documents and serves their cleaned text.
type DocumentService struct {
	loader        driven.DocumentLoader
	preprocessors driven.PreprocessorRegistry
}

// NewDocumentService creates a new document service.
func NewDocumentService(loader driven.DocumentLoader, preprocessors driven.PreprocessorRegistry) *DocumentService {
	return &DocumentService{loader: loader, preprocessors: preprocessors}
}

// List returns every registered URI with its shape and cache state.
func (s *DocumentService) List(_ context.Context) ([]driving.DocumentInfo, error) {
	uris := s.preprocessors.URIs()
	infos := make([]driving.DocumentInfo, 0, len(uris))

	for _, uri := range uris {
		pre, err := s.preprocessors.Select(uri)
		if err != nil {
			return nil, err
		}

		info := driving.DocumentInfo{
			URI:       uri,
			Shape:     pre.Shape(),
			CachePath: s.loader.CachePath(uri),
		}

		stat, err := os.Stat(info.CachePath)
		switch {
		case err == nil:
			info.Cached = true
			info.Size = stat.Size()
			info.CachedAt = stat.ModTime()
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("stat cache for %s: %w", uri, err)
		}

		infos = append(infos, info)
	}
	return infos, nil
}

// Content loads uri and returns the preprocessor output.
func (s *DocumentService) Content(ctx context.Context, uri string) (string, error) {
	pre, err := s.preprocessors.Select(uri)
	if err != nil {
		return "", err
	}

	raw, err := s.loader.Load(ctx, uri)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", uri, err)
	}

	text, err := pre.GetText(raw)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	return text, nil
}

// ClearCache removes every cached document.
func (s *DocumentService) ClearCache() error {
	return s.loader.Clear()
}
