package main

import (
	"github.com/spf13/cobra"

	"shellkit/cmd/shellkit/tui"
	"shellkit/cmd/shellkit/ui"
	"shellkit/internal/output"
)

// tuiCmd runs the full-screen front-end
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the full-screen shell",
	Long: `Opens a full-screen shell with a scrollback pane and an input box.

Keys:
  enter     run the line
  up/down   walk the command history
  ctrl+l    clear the scrollback
  pgup/pgdn scroll
  ctrl+c    quit`,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	sink := output.NewTextSink()
	ctrl, hist, err := newShell(cfg, sink, true)
	if err != nil {
		return err
	}
	defer hist.Close()

	styles := ui.NewStyles(ui.DetectTheme(), cfg.Output.ErrorColor)
	return tui.Run(tui.New(ctrl, sink, styles, " shellkit "))
}
