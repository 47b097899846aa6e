package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	renamer "github.com/CheshirCa/AI-file-renamer-for-library"
	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/config"
)

var (
	analyzeRename     bool
	analyzeModel      string
	analyzeTimeout    int
	analyzeConfigPath string
	analyzeParallel   int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <archive>...",
	Short: "Analyze archives and propose descriptive names",
	Long: `Analyze one or more compressed archives and propose a descriptive name
for each based on its contents. Without --rename the proposal is printed
(and confirmed interactively on a terminal); with --rename it is applied
immediately.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeRename, "rename", false, "Apply the proposed name without confirmation")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Oracle model to consult (overrides config)")
	analyzeCmd.Flags().IntVar(&analyzeTimeout, "timeout", 0, "Oracle call timeout in seconds (overrides config)")
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to YAML config file")
	analyzeCmd.Flags().IntVar(&analyzeParallel, "parallel", 1, "Archives analyzed concurrently")
}

var (
	proposedStyle = color.New(color.Bold, color.FgHiGreen)
	failedStyle   = color.New(color.FgHiRed)
)

func runAnalyze(cmd *cobra.Command, args []string) error {
	for _, archive := range args {
		if _, err := os.Stat(archive); err != nil {
			return fmt.Errorf("archive does not exist: %s", archive)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := []renamer.Option{renamer.WithConfig(cfg)}
	if analyzeRename {
		opts = append(opts, renamer.WithAutoApply())
	} else if analyzeParallel > 1 {
		// Interleaved confirmation prompts are useless; concurrent runs
		// only preview unless --rename is given.
		opts = append(opts, renamer.WithPreviewOnly())
	}

	ctx := context.Background()
	analyzer, err := renamer.NewAnalyzer(ctx, opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(analyzeParallel)
	for _, archive := range args {
		g.Go(func() error {
			result := analyzer.Analyze(gctx, archive)
			switch result.Outcome {
			case renamer.OutcomeRenamed:
				fmt.Fprintf(out, "%s: renamed to %s\n", archive, proposedStyle.Sprint(result.NewName))
			case renamer.OutcomeProposed:
				fmt.Fprintf(out, "%s: proposed %s\n", archive, proposedStyle.Sprint(result.NewName))
			case renamer.OutcomeFailed:
				fmt.Fprintf(out, "%s: %s\n", archive, failedStyle.Sprintf("no name proposed (%v)", result.Err))
				slog.Error("analysis failed", "archive", archive, "error", result.Err)
			}
			// A failed analysis is an outcome, not a process error.
			return nil
		})
	}
	return g.Wait()
}

// loadConfig reads the config file when given and layers the flag
// overrides on top.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if analyzeConfigPath != "" {
		var err error
		cfg, err = config.Load(analyzeConfigPath)
		if err != nil {
			return cfg, err
		}
	}
	if analyzeModel != "" {
		cfg.Model = analyzeModel
	}
	if analyzeTimeout > 0 {
		cfg.TimeoutSeconds = analyzeTimeout
	}
	return cfg, nil
}
