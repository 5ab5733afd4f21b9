package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/MeKo-Tech/dmscan/internal/barcode"
	"github.com/MeKo-Tech/dmscan/internal/pipeline"
	"github.com/MeKo-Tech/dmscan/internal/search"
)

const infoLevel = "info"

// DefaultConfig returns the built-in configuration: resize and median blur
// enabled, rotation search on, Data Matrix only.
func DefaultConfig() Config {
	p := pipeline.DefaultParams()
	opts := barcode.DefaultOptions()
	formats := make([]string, 0, len(opts.Formats))
	for _, f := range opts.Formats {
		formats = append(formats, f.String())
	}

	return Config{
		LogLevel: infoLevel,
		Verbose:  false,
		Preprocess: PreprocessConfig{
			Steps: StepsConfig{
				Resize: true,
				Median: true,
			},
			ResizeScale:       p.ResizeScale,
			MedianKernel:      p.MedianKernel,
			GaussianKernel:    p.GaussianKernel,
			GaussianSigma:     p.GaussianSigma,
			Threshold:         p.Threshold,
			CLAHEClipLimit:    p.CLAHEClipLimit,
			CLAHETiles:        p.CLAHETiles,
			DilateKernel:      p.DilateKernel,
			ErodeKernel:       p.ErodeKernel,
			AdaptiveBlockSize: p.AdaptiveBlockSize,
			AdaptiveC:         p.AdaptiveC,
			ContrastAlpha:     p.ContrastAlpha,
			ContrastBeta:      p.ContrastBeta,
		},
		Rotation: RotationConfig{
			Enabled: true,
			Step:    search.DefaultStep,
			Bound:   search.DefaultBound,
		},
		Decode: DecodeConfig{
			Formats:   formats,
			TryHarder: opts.TryHarder,
			Normalize: "",
		},
		Batch: BatchConfig{
			Ext:           ".jpg",
			Exclude:       []string{},
			Summary:       false,
			SummaryFormat: "text",
		},
		Output: OutputConfig{},
	}
}

// Toggles maps every step kind to its flag.
func (s *StepsConfig) Toggles() map[pipeline.Kind]*bool {
	return map[pipeline.Kind]*bool{
		pipeline.KindResize:            &s.Resize,
		pipeline.KindGrayscale:         &s.Grayscale,
		pipeline.KindMedian:            &s.Median,
		pipeline.KindGaussian:          &s.Gaussian,
		pipeline.KindHistEq:            &s.HistEq,
		pipeline.KindThreshold:         &s.Threshold,
		pipeline.KindCLAHE:             &s.CLAHE,
		pipeline.KindSharpen:           &s.Sharpen,
		pipeline.KindDilate:            &s.Dilate,
		pipeline.KindErode:             &s.Erode,
		pipeline.KindAdaptiveThreshold: &s.AdaptiveThreshold,
		pipeline.KindContrast:          &s.Contrast,
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if _, err := c.ToPipelineConfig(); err != nil {
		return err
	}

	if c.Rotation.Step <= 0 {
		return fmt.Errorf("invalid rotation step: %d (must be positive)", c.Rotation.Step)
	}
	if c.Rotation.Bound <= 0 {
		return fmt.Errorf("invalid rotation bound: %d (must be positive)", c.Rotation.Bound)
	}

	if _, err := c.ToDecodeOptions(); err != nil {
		return err
	}
	validForms := []string{"", "none", "nfc", "nfd", "nfkc", "nfkd"}
	if !slices.Contains(validForms, strings.ToLower(c.Decode.Normalize)) {
		return fmt.Errorf("invalid normalization form: %s (must be one of: %s)", c.Decode.Normalize, strings.Join(validForms[1:], ", "))
	}

	if !strings.HasPrefix(c.Batch.Ext, ".") {
		return fmt.Errorf("invalid batch extension: %q (must start with a dot)", c.Batch.Ext)
	}
	validSummaryFormats := []string{"text", "json"}
	if !slices.Contains(validSummaryFormats, c.Batch.SummaryFormat) {
		return fmt.Errorf("invalid summary format: %s (must be one of: %s)", c.Batch.SummaryFormat, strings.Join(validSummaryFormats, ", "))
	}

	return nil
}

// ToPipelineConfig converts the config to the immutable pipeline configuration.
func (c *Config) ToPipelineConfig() (pipeline.Config, error) {
	pp := c.Preprocess
	b := pipeline.NewBuilder().WithNone().WithParams(pipeline.Params{
		ResizeScale:       pp.ResizeScale,
		MedianKernel:      pp.MedianKernel,
		GaussianKernel:    pp.GaussianKernel,
		GaussianSigma:     pp.GaussianSigma,
		Threshold:         pp.Threshold,
		CLAHEClipLimit:    pp.CLAHEClipLimit,
		CLAHETiles:        pp.CLAHETiles,
		DilateKernel:      pp.DilateKernel,
		ErodeKernel:       pp.ErodeKernel,
		AdaptiveBlockSize: pp.AdaptiveBlockSize,
		AdaptiveC:         pp.AdaptiveC,
		ContrastAlpha:     pp.ContrastAlpha,
		ContrastBeta:      pp.ContrastBeta,
	})
	for kind, on := range pp.Steps.Toggles() {
		b.WithStep(kind, *on)
	}
	return b.Build()
}

// ToSearchConfig converts the rotation settings. A bound not above the step
// is accepted and simply yields no candidates.
func (c *Config) ToSearchConfig() search.Config {
	return search.Config{Step: c.Rotation.Step, Bound: c.Rotation.Bound}
}

// ToDecodeOptions converts the decoder settings.
func (c *Config) ToDecodeOptions() (barcode.Options, error) {
	formats, err := barcode.ParseFormats(c.Decode.Formats)
	if err != nil {
		return barcode.Options{}, fmt.Errorf("invalid decode formats: %w", err)
	}
	return barcode.Options{Formats: formats, TryHarder: c.Decode.TryHarder}, nil
}
