package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "arcname",
	Short: "Arcname - content-aware archive renamer",
	Long: `Arcname inspects a compressed archive, extracts enough of its contents to
understand what it holds, and proposes a descriptive name for the archive
file itself.

It unpacks the archive, inventories the files inside, and consults an
external decision oracle which either proposes a name immediately or asks
for a bounded text extraction from one document before committing.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	// Add subcommands
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(versionCmd)
}

// setupLogging installs the process logger at the level the persistent
// flags ask for.
func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
