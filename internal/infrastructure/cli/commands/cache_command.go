package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"codehelper/internal/app"
	"codehelper/internal/domain"
	"codehelper/internal/infrastructure/cli/helpers"
)

// NewCacheCommand creates the cache command with its subcommands.
func NewCacheCommand(container *app.Container) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the response cache",
	}

	cacheCmd.AddCommand(
		newCacheClearCommand(container),
		newCacheStatsCommand(container),
	)

	return cacheCmd
}

// newCacheClearCommand creates the 'cache clear' subcommand
func newCacheClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear cached model responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearCache(cmd.OutOrStdout(), container)
		},
	}
}

// newCacheStatsCommand creates the 'cache stats' subcommand
func newCacheStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache size and per-model counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showCacheStats(cmd.OutOrStdout(), container)
		},
	}
}

// clearCache removes every cached response.
func clearCache(out io.Writer, container *app.Container) error {
	if container.CacheStore == nil {
		return fmt.Errorf(ErrCacheStoreUnavailable)
	}

	if err := container.CacheStore.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	fmt.Fprintln(out, "Cache cleared.")
	return nil
}

// showCacheStats displays cache settings, directory size, and per-model
// entry counts.
func showCacheStats(out io.Writer, container *app.Container) error {
	store := container.CacheStore
	if store == nil {
		return fmt.Errorf(ErrCacheStoreUnavailable)
	}

	entries, err := store.Entries()
	if err != nil {
		return fmt.Errorf("failed to retrieve cache entries: %w", err)
	}

	dir := store.Dir()
	size, err := calculateDirectorySize(dir)
	if err != nil {
		return fmt.Errorf("failed to calculate cache size: %w", err)
	}

	settings := container.Config.Cache
	fmt.Fprintf(out, "Cache directory: %s\nEnabled: %t\nTTL: %ds\nMax entries: %d\nCurrent entries: %d\nSize: %d bytes\n",
		dir, settings.Enabled, settings.TTLSeconds, settings.MaxEntries, len(entries), size)

	modelCounts := calculateModelCounts(entries)
	if len(modelCounts) == 0 {
		fmt.Fprintln(out, MsgNoCachedResponses)
		return nil
	}

	fmt.Fprintln(out, "Entries per model:")
	for _, stat := range helpers.TopUsage(modelCounts, 0) {
		fmt.Fprintf(out, "  %s: %d\n", stat.Label, stat.Count)
	}

	return nil
}

// calculateDirectorySize sums file sizes under dirPath. Unreadable files
// and a missing directory count as zero.
func calculateDirectorySize(dirPath string) (int64, error) {
	var totalSize int64

	err := filepath.WalkDir(dirPath, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		totalSize += info.Size()
		return nil
	})
	if err != nil {
		return 0, err
	}

	return totalSize, nil
}

// calculateModelCounts counts cache entries per model.
func calculateModelCounts(entries []domain.CacheEntry) map[string]int {
	counts := make(map[string]int)
	for _, entry := range entries {
		counts[entry.Model]++
	}
	return counts
}
