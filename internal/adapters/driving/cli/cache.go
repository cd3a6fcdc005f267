package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driving"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the document cache",
	Long: `Fetched documents are cached on disk and reused on the next index run.
These commands work without an AI provider configured.`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported documents and their cache state",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached document",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

// cacheDocuments builds the document service from unvalidated settings.
func cacheDocuments() (driving.DocumentService, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	cfg, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	if cfg.Loader.CacheDir == "" {
		return nil, fmt.Errorf("%w: loader.cache_dir is empty", domain.ErrInvalidInput)
	}
	return documentsFactory(cfg), nil
}

func runCacheList(cmd *cobra.Command, _ []string) error {
	docs, err := cacheDocuments()
	if err != nil {
		return err
	}

	infos, err := docs.List(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "URI\tSHAPE\tCACHED\tSIZE\tFETCHED")
	for _, info := range infos {
		cached, size, fetched := "no", "-", "-"
		if info.Cached {
			cached = "yes"
			size = fmt.Sprintf("%d", info.Size)
			fetched = info.CachedAt.Format(time.DateTime)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", info.URI, info.Shape, cached, size, fetched)
	}
	return w.Flush()
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	docs, err := cacheDocuments()
	if err != nil {
		return err
	}
	if err := docs.ClearCache(); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	cmd.Println("Document cache cleared.")
	return nil
}
