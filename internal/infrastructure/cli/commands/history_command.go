package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"codehelper/internal/app"
	"codehelper/internal/domain"
	"codehelper/internal/infrastructure/cli/helpers"
)

// NewHistoryCommand creates the history command. Listing is the default
// action; clear, export, and stats are subcommands.
func NewHistoryCommand(container *app.Container) *cobra.Command {
	var limit int
	var search string

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect dispatched requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container, limit, search)
		},
	}

	historyCmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max entries to show")
	historyCmd.Flags().StringVar(&search, "search", "", "Filter entries by keyword")

	historyCmd.AddCommand(
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
		newHistoryStatsCommand(container),
	)

	return historyCmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearHistory(cmd.OutOrStdout(), container)
		},
	}
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportHistory(cmd.OutOrStdout(), container, args[0])
		},
	}
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show success rate and intent distribution",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistoryStats(cmd.OutOrStdout(), container)
		},
	}
}

// listHistoryEntries lists recent history entries, newest first.
func listHistoryEntries(out io.Writer, container *app.Container, limit int, search string) error {
	store := container.HistoryStore
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	records, err := store.Records(limit, search)
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%s | %-17s | %-7s | %s\n",
			rec.Timestamp.Format(DisplayTimestampFormat),
			rec.Intent,
			rec.Status,
			rec.Request)
	}

	return nil
}

// clearHistory deletes every stored record.
func clearHistory(out io.Writer, container *app.Container) error {
	if container.HistoryStore == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	if err := container.HistoryStore.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	fmt.Fprintln(out, "History cleared.")
	return nil
}

// exportHistory writes all records to a JSONL file.
func exportHistory(out io.Writer, container *app.Container, path string) error {
	store := container.HistoryStore
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	if err := store.ExportJSON(path); err != nil {
		return fmt.Errorf("failed to export history to %s: %w", path, err)
	}

	fmt.Fprintf(out, "History exported to %s\n", path)
	return nil
}

// showHistoryStats displays success rate and the most frequent intents.
func showHistoryStats(out io.Writer, container *app.Container) error {
	store := container.HistoryStore
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	records, err := store.Records(0, "")
	if err != nil {
		return fmt.Errorf("failed to retrieve history for analysis: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	stats := analyzeHistoryRecords(records)
	displayHistoryStatistics(out, stats, len(records))
	return nil
}

// historyStatistics holds analyzed history statistics
type historyStatistics struct {
	successful  int
	saved       int
	intentFreq  map[string]int
	totalTimeMS int64
}

// analyzeHistoryRecords computes aggregate statistics over records.
func analyzeHistoryRecords(records []domain.HistoryRecord) historyStatistics {
	stats := historyStatistics{intentFreq: make(map[string]int)}
	for _, rec := range records {
		if rec.Status == domain.StatusSuccess {
			stats.successful++
		}
		if rec.SavedPath != "" {
			stats.saved++
		}
		stats.intentFreq[string(rec.Intent)]++
		stats.totalTimeMS += rec.DurationMS
	}
	return stats
}

// displayHistoryStatistics renders the computed statistics.
func displayHistoryStatistics(out io.Writer, stats historyStatistics, total int) {
	fmt.Fprintf(out, "Entries analyzed: %d\nSuccess rate: %.1f%%\nFiles saved: %d\n",
		total,
		helpers.CalculateSuccessRate(stats.successful, total),
		stats.saved)
	if total > 0 {
		fmt.Fprintf(out, "Average duration: %dms\n", stats.totalTimeMS/int64(total))
	}

	fmt.Fprintln(out, "Top intents:")
	for _, stat := range helpers.TopUsage(stats.intentFreq, 5) {
		fmt.Fprintf(out, "  %s (%d)\n", stat.Label, stat.Count)
	}
}
