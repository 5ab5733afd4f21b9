package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/dmscan/internal/batch"
)

// batchCmd represents the directory command.
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Decode every matching image of a directory",
	Long: `Scan all files directly inside a directory whose name ends with the
configured extension, in name order. Each file gets a header and one outcome
line. Files that cannot be loaded are reported and skipped.

Examples:
  dmscan batch ./photos
  dmscan batch ./photos --ext .png --exclude 'tmp_*'
  dmscan batch ./photos --summary --summary-format json`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runBatchCommand,
}

func init() {
	addScanFlags(batchCmd.Flags())
	batchCmd.Flags().String("ext", "", "file name suffix to process (default .jpg)")
	batchCmd.Flags().StringSlice("exclude", nil, "glob patterns of file names to skip")
	batchCmd.Flags().Bool("summary", false, "print a summary after the run")
	batchCmd.Flags().String("summary-format", "", "summary format (text, json)")
	rootCmd.AddCommand(batchCmd)
}

func runBatchCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	applyScanFlags(cfg, cmd)

	flags := cmd.Flags()
	if flags.Changed("ext") {
		cfg.Batch.Ext, _ = flags.GetString("ext")
	}
	if flags.Changed("exclude") {
		cfg.Batch.Exclude, _ = flags.GetStringSlice("exclude")
	}
	if flags.Changed("summary") {
		cfg.Batch.Summary, _ = flags.GetBool("summary")
	}
	if flags.Changed("summary-format") {
		cfg.Batch.SummaryFormat, _ = flags.GetString("summary-format")
	}

	// Previews belong to single-item mode.
	if cfg.Output.PreviewDir != "" {
		slog.Debug("Ignoring preview directory in batch mode", "preview_dir", cfg.Output.PreviewDir)
		cfg.Output.PreviewDir = ""
	}

	scanner, rec, err := buildScanner(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sum, err := batch.Run(commandContext(cmd), batch.Config{
		Dir:     args[0],
		Ext:     cfg.Batch.Ext,
		Exclude: cfg.Batch.Exclude,
	}, scanner, out)
	if err != nil {
		return fmt.Errorf("batch processing failed: %w", err)
	}

	if cfg.Batch.Summary {
		text, err := sum.Format(cfg.Batch.SummaryFormat)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, text); err != nil {
			return err
		}
	}
	return flushMetrics(cfg, rec)
}
