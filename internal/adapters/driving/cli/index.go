package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driving"
	"github.com/custodia-labs/qa-agent/internal/logger"
)

// watchDebounce collapses bursts of cache writes into one re-index.
const watchDebounce = 500 * time.Millisecond

var indexCmd = &cobra.Command{
	Use:   "index [uri]",
	Short: "Index a document into the vector store",
	Long: `Fetches the document (or reads it from the loader cache), extracts its
text, splits it into overlapping word chunks, embeds them and replaces the
vector store contents.

Without a URI the LLM-powered autonomous agents blog post is indexed.

With --watch the command keeps running and re-indexes whenever the cached
copy of the document changes on disk.

With --delete the vector store is emptied and nothing is indexed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolP("watch", "w", false, "re-index when the cached document changes")
	indexCmd.Flags().Bool("delete", false, "empty the vector store instead of indexing")
	indexCmd.MarkFlagsMutuallyExclusive("watch", "delete")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	uri := domain.BlogPostURI
	if len(args) > 0 {
		uri = args[0]
	}

	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}
	del, err := cmd.Flags().GetBool("delete")
	if err != nil {
		return fmt.Errorf("getting delete flag: %w", err)
	}
	if del && len(args) > 0 {
		return fmt.Errorf("%w: --delete takes no uri", domain.ErrInvalidInput)
	}

	ctx := cmd.Context()

	open := openOneShotApp
	if watch {
		open = openApp
	}
	a, err := open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if del {
		if err := a.agent.DeleteIndex(ctx); err != nil {
			return fmt.Errorf("deleting index: %w", err)
		}
		cmd.Println("Index deleted.")
		return nil
	}

	if err := indexOnce(ctx, cmd, a.agent, uri); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	path, err := cachePathFor(ctx, a.documents, uri)
	if err != nil {
		return err
	}
	return watchAndIndex(ctx, cmd, a.agent, uri, path)
}

func indexOnce(ctx context.Context, cmd *cobra.Command, agent driving.Indexer, uri string) error {
	cmd.Printf("Indexing %s...\n", uri)

	report, err := agent.Index(ctx, uri)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Printf("Indexed %d chunks (%d words, %s) in %s. Index holds %d records.\n",
		report.Chunks, report.Words, report.Shape, report.Duration.Round(time.Millisecond), report.Records)
	return nil
}

// cachePathFor finds where the loader caches uri.
func cachePathFor(ctx context.Context, docs driving.DocumentService, uri string) (string, error) {
	infos, err := docs.List(ctx)
	if err != nil {
		return "", err
	}
	for _, info := range infos {
		if info.URI == uri {
			return info.CachePath, nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedDocument, uri)
}

// watchAndIndex re-indexes uri each time path is written or recreated.
func watchAndIndex(ctx context.Context, cmd *cobra.Command, agent driving.Indexer, uri, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors replace files, which drops a file watch.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", path)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				logger.Debug("cache changed: %s", event)
				pending = time.After(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)

		case <-pending:
			pending = nil
			if err := indexOnce(ctx, cmd, agent, uri); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				// Keep watching; the next edit may fix it.
				logger.Warn("%v", err)
			}
		}
	}
}
