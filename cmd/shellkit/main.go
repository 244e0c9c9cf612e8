package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shellkit/internal/config"
	"shellkit/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Loaded in PersistentPreRunE
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shellkit",
	Short: "shellkit - interactive Go shell",
	Long: `shellkit evaluates Go statements and expressions as they are typed.

Unfinished statements continue on the following lines and run when an
empty line is entered. Command history persists across sessions.

Run without arguments to start the line-mode console.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if verbose {
			cfg.Logging.DebugMode = true
			cfg.Logging.Level = "debug"
		}
		if err := logging.Initialize(cfg.Logging); err != nil {
			return err
		}
		logging.Boot("shellkit %s: config=%s history=%s", cmd.Name(), configPath, cfg.History.Backend)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: line-mode console
		return runConsole(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "Config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	historyCmd.Flags().BoolVar(&clearHistory, "clear", false, "Delete every recorded command")

	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(docCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
