package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shellkit/internal/history"
)

var clearHistory bool

// historyCmd prints or clears the persisted command history
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the recorded command history",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.OpenStore(cfg.History)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	out := cmd.OutOrStdout()
	if store == nil {
		fmt.Fprintf(out, "History backend %q is not persisted.\n", cfg.History.Backend)
		return nil
	}
	defer store.Close()

	if clearHistory {
		if err := store.Truncate(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Fprintln(out, "History cleared.")
		return nil
	}

	entries, err := store.Load()
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	for i, entry := range entries {
		fmt.Fprintf(out, "%5d  %s\n", i+1, entry)
	}
	return nil
}
