package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"shellkit/internal/shell"
)

// docCmd renders the console documentation
var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Show the console documentation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rendered, err := renderDoc(shell.DefaultDoc, 80)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func renderDoc(doc string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(doc)
	if err != nil {
		return "", fmt.Errorf("failed to render doc: %w", err)
	}
	return out, nil
}
