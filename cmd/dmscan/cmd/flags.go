package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/MeKo-Tech/dmscan/internal/barcode"
	"github.com/MeKo-Tech/dmscan/internal/config"
	"github.com/MeKo-Tech/dmscan/internal/metrics"
	"github.com/MeKo-Tech/dmscan/internal/pipeline"
	"github.com/MeKo-Tech/dmscan/internal/scan"
)

// stepFlag is the command-line name of a preprocessing step, e.g. hist-eq.
func stepFlag(k pipeline.Kind) string {
	return strings.ReplaceAll(k.String(), "_", "-")
}

// addScanFlags registers the flags shared by the image and batch commands.
func addScanFlags(fs *pflag.FlagSet) {
	for _, k := range pipeline.Kinds() {
		fs.Bool(stepFlag(k), false, fmt.Sprintf("enable the %s step (tag %s)", k, k.Label()))
	}
	fs.Bool("no-preprocess", false, "disable every preprocessing step")

	fs.Bool("rotate", true, "search rotations when the image does not decode")
	fs.Bool("no-rotate", false, "make a single unrotated decode attempt")
	fs.Int("step", 0, "rotation step in degrees")
	fs.Int("bound", 0, "exclusive upper rotation bound in degrees")

	fs.StringSlice("formats", nil, "barcode formats to search (e.g. datamatrix,qr)")
	fs.Bool("try-harder", true, "spend more time looking for a symbol")
	fs.String("normalize", "", "unicode normalization of decoded text (nfc, nfd, nfkc, nfkd)")

	fs.String("metrics-file", "", "write prometheus metrics in textfile format to this path")
}

// applyScanFlags overrides configuration values with explicitly set flags.
// CLI flags win over config file values and environment variables.
func applyScanFlags(cfg *config.Config, cmd *cobra.Command) {
	flags := cmd.Flags()

	if on, _ := flags.GetBool("no-preprocess"); on {
		for _, t := range cfg.Preprocess.Steps.Toggles() {
			*t = false
		}
	}
	toggles := cfg.Preprocess.Steps.Toggles()
	for _, k := range pipeline.Kinds() {
		if flags.Changed(stepFlag(k)) {
			*toggles[k], _ = flags.GetBool(stepFlag(k))
		}
	}

	if flags.Changed("rotate") {
		cfg.Rotation.Enabled, _ = flags.GetBool("rotate")
	}
	if off, _ := flags.GetBool("no-rotate"); off {
		cfg.Rotation.Enabled = false
	}
	if flags.Changed("step") {
		cfg.Rotation.Step, _ = flags.GetInt("step")
	}
	if flags.Changed("bound") {
		cfg.Rotation.Bound, _ = flags.GetInt("bound")
	}

	if flags.Changed("formats") {
		cfg.Decode.Formats, _ = flags.GetStringSlice("formats")
	}
	if flags.Changed("try-harder") {
		cfg.Decode.TryHarder, _ = flags.GetBool("try-harder")
	}
	if flags.Changed("normalize") {
		cfg.Decode.Normalize, _ = flags.GetString("normalize")
	}

	if flags.Changed("preview-dir") {
		cfg.Output.PreviewDir, _ = flags.GetString("preview-dir")
	}
	if flags.Changed("metrics-file") {
		cfg.Output.MetricsFile, _ = flags.GetString("metrics-file")
	}
}

// decoderFactory builds the decoder backend; tests replace it.
var decoderFactory = func() barcode.Decoder { return barcode.NewGozxingDecoder() }

// buildScanner turns the effective configuration into a Scanner and the
// metrics recorder it reports to (nil when no metrics file is configured).
func buildScanner(cfg *config.Config) (*scan.Scanner, *metrics.Recorder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	pc, err := cfg.ToPipelineConfig()
	if err != nil {
		return nil, nil, err
	}
	opts, err := cfg.ToDecodeOptions()
	if err != nil {
		return nil, nil, err
	}

	var rec *metrics.Recorder
	if cfg.Output.MetricsFile != "" {
		rec = metrics.NewRecorder()
	}
	var observer scan.Observer
	if cfg.Output.PreviewDir != "" {
		observer = scan.PreviewWriter(cfg.Output.PreviewDir)
	}

	s, err := scan.New(scan.Options{
		Pipeline:  pc,
		Rotate:    cfg.Rotation.Enabled,
		Search:    cfg.ToSearchConfig(),
		Decoder:   barcode.NewAdapter(decoderFactory(), opts),
		Observer:  observer,
		Metrics:   rec,
		Normalize: cfg.Decode.Normalize,
	})
	if err != nil {
		return nil, nil, err
	}
	return s, rec, nil
}

// flushMetrics writes the textfile if one is configured.
func flushMetrics(cfg *config.Config, rec *metrics.Recorder) error {
	if cfg.Output.MetricsFile == "" {
		return nil
	}
	return rec.WriteTextfile(cfg.Output.MetricsFile)
}

// commandContext returns the command's context, or a background context when
// the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
