// Package loader fetches documents over HTTP and caches them on disk.
//
// Cache entries are content-addressed by URI: the file name is the first four
// hex digits of the URI's SHA-256 followed by a sanitised basename. Entries are
// written once and never expire; Clear removes them.
package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
	"github.com/custodia-labs/qa-agent/internal/logger"
)

const (
	// hashPrefixLen is the number of hex digits of the URI hash in a cache key.
	hashPrefixLen = 4

	// cacheExt is the extension of every cache entry.
	cacheExt = ".html"

	// defaultTimeout bounds a single fetch when no client is supplied.
	defaultTimeout = 30 * time.Second
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Verify interface compliance.
var _ driven.DocumentLoader = (*Loader)(nil)

// Config holds loader configuration.
type Config struct {
	// CacheDir is the cache directory. Created on first write.
	CacheDir string

	// Timeout bounds each fetch. Ignored when HTTPClient is set.
	Timeout time.Duration

	// HTTPClient overrides the default client.
	HTTPClient *http.Client

	// UserAgent is sent with every request.
	UserAgent string
}

// Loader is a caching HTTP document loader.
type Loader struct {
	cacheDir  string
	client    *http.Client
	userAgent string
}

// New creates a loader.
func New(cfg Config) *Loader {
	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = domain.DefaultCacheDir
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "qa-agent"
	}

	return &Loader{
		cacheDir:  cacheDir,
		client:    client,
		userAgent: userAgent,
	}
}

// CacheKey returns the cache file name for uri.
func CacheKey(uri string) string {
	sum := sha256.Sum256([]byte(uri))
	return hex.EncodeToString(sum[:])[:hashPrefixLen] + "-" + basename(uri) + cacheExt
}

// basename returns the sanitised last non-empty path segment of uri.
func basename(uri string) string {
	path := uri
	if u, err := url.Parse(uri); err == nil {
		path = u.Path
	} else if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}

	name := ""
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			name = seg
		}
	}
	name = strings.TrimSuffix(name, cacheExt)
	if name == "" {
		return "index"
	}
	return unsafeChars.ReplaceAllString(name, "_")
}

// CachePath returns the cache file location for uri.
func (l *Loader) CachePath(uri string) string {
	return filepath.Join(l.cacheDir, CacheKey(uri))
}

// CacheDir returns the cache directory.
func (l *Loader) CacheDir() string {
	return l.cacheDir
}

// Load returns the document at uri, from cache when present.
func (l *Loader) Load(ctx context.Context, uri string) (string, error) {
	path := l.CachePath(uri)

	data, err := os.ReadFile(path)
	if err == nil {
		logger.Debug("loader: cache hit %s -> %s", uri, path)
		return string(data), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("reading cache entry %s: %w", path, err)
	}

	logger.Debug("loader: cache miss, fetching %s", uri)
	start := time.Now()
	body, err := l.fetch(ctx, uri)
	if err != nil {
		return "", err
	}
	logger.Timed("fetch", start)

	if err := l.store(path, body); err != nil {
		return "", err
	}
	logger.Debug("loader: cached %d bytes at %s", len(body), path)

	return string(body), nil
}

func (l *Loader) fetch(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request for %s: %w", domain.ErrFetch, uri, err)
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrFetch, uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s: status %d", domain.ErrFetch, uri, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body of %s: %w", domain.ErrFetch, uri, err)
	}
	return body, nil
}

// store writes body to path through a temporary file so readers never see a
// partial entry.
func (l *Loader) store(path string, body []byte) error {
	if err := os.MkdirAll(l.cacheDir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(l.cacheDir, ".fetch-*")
	if err != nil {
		return fmt.Errorf("creating cache entry: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("committing cache entry: %w", err)
	}
	return nil
}

// Entry describes one cached document.
type Entry struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Entries lists cached documents sorted by name.
// A missing cache directory yields no entries.
func (l *Loader) Entries() ([]Entry, error) {
	dirEntries, err := os.ReadDir(l.cacheDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing cache: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), cacheExt) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Name: de.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Clear removes every cache entry. Other files in the directory are left alone.
func (l *Loader) Clear() error {
	entries, err := l.Entries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(l.cacheDir, e.Name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", e.Name, err)
		}
	}
	logger.Debug("loader: cleared %d cache entries", len(entries))
	return nil
}
