package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/dmscan/internal/scan"
)

// imageCmd represents the single-image command.
var imageCmd = &cobra.Command{
	Use:   "image <file>",
	Short: "Decode the barcode of a single image",
	Long: `Process images one at a time: preprocess the given file, search rotations
and print exactly one outcome line.

The line has the form
  [ORIGINAL]<steps>[ROTATE <angle>]: <text>   decoded after rotating
  [ORIGINAL]<steps>[ROTATE]: not found        no angle decoded
  [ORIGINAL]<steps>: <text>                   rotation disabled

An image that cannot be loaded aborts with exit code 2.

Supported formats: JPEG, PNG, BMP, TIFF

Examples:
  dmscan image label.jpg
  dmscan image label.jpg --gaussian --clahe --step 5
  dmscan image label.jpg --no-rotate --formats qr,datamatrix`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runImageCommand,
}

func init() {
	addScanFlags(imageCmd.Flags())
	imageCmd.Flags().String("preview-dir", "", "write original and processed images as PNG into this directory")
	rootCmd.AddCommand(imageCmd)
}

func runImageCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	applyScanFlags(cfg, cmd)

	scanner, rec, err := buildScanner(cfg)
	if err != nil {
		return err
	}

	res, err := scanner.ScanFile(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), scan.FormatLine(res)); err != nil {
		return err
	}
	return flushMetrics(cfg, rec)
}
