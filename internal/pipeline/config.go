package pipeline

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid pipeline configuration")

// Params holds the numeric parameters of every step. Parameters of disabled
// steps are still validated so a configuration stays valid when a step is
// toggled on later.
type Params struct {
	ResizeScale       float64
	MedianKernel      int
	GaussianKernel    int
	GaussianSigma     float64
	Threshold         float64
	CLAHEClipLimit    float64
	CLAHETiles        int
	DilateKernel      int
	ErodeKernel       int
	AdaptiveBlockSize int
	AdaptiveC         float64
	ContrastAlpha     float64
	ContrastBeta      float64
}

// DefaultParams returns the parameters the scanner ships with.
func DefaultParams() Params {
	return Params{
		ResizeScale:       2.0,
		MedianKernel:      7,
		GaussianKernel:    7,
		GaussianSigma:     1.5,
		Threshold:         127,
		CLAHEClipLimit:    2.0,
		CLAHETiles:        8,
		DilateKernel:      3,
		ErodeKernel:       3,
		AdaptiveBlockSize: 33,
		AdaptiveC:         11,
		ContrastAlpha:     2.0,
		ContrastBeta:      0,
	}
}

// Validate checks parameter ranges.
func (p Params) Validate() error {
	if p.ResizeScale <= 0 {
		return fmt.Errorf("%w: resize scale must be positive, got %v", ErrInvalidConfig, p.ResizeScale)
	}
	if err := oddKernel("median", p.MedianKernel, 3); err != nil {
		return err
	}
	if err := oddKernel("gaussian", p.GaussianKernel, 1); err != nil {
		return err
	}
	if p.GaussianSigma < 0 {
		return fmt.Errorf("%w: gaussian sigma must not be negative, got %v", ErrInvalidConfig, p.GaussianSigma)
	}
	if p.Threshold < 0 || p.Threshold > 255 {
		return fmt.Errorf("%w: threshold must be within 0..255, got %v", ErrInvalidConfig, p.Threshold)
	}
	if p.CLAHEClipLimit < 0 {
		return fmt.Errorf("%w: clahe clip limit must not be negative, got %v", ErrInvalidConfig, p.CLAHEClipLimit)
	}
	if p.CLAHETiles < 1 {
		return fmt.Errorf("%w: clahe tiles must be at least 1, got %d", ErrInvalidConfig, p.CLAHETiles)
	}
	if p.DilateKernel < 1 {
		return fmt.Errorf("%w: dilate kernel must be at least 1, got %d", ErrInvalidConfig, p.DilateKernel)
	}
	if p.ErodeKernel < 1 {
		return fmt.Errorf("%w: erode kernel must be at least 1, got %d", ErrInvalidConfig, p.ErodeKernel)
	}
	if err := oddKernel("adaptive threshold block", p.AdaptiveBlockSize, 3); err != nil {
		return err
	}
	if p.ContrastAlpha < 0 {
		return fmt.Errorf("%w: contrast alpha must not be negative, got %v", ErrInvalidConfig, p.ContrastAlpha)
	}
	return nil
}

func oddKernel(name string, k, minimum int) error {
	if k < minimum || k%2 == 0 {
		return fmt.Errorf("%w: %s kernel must be odd and >= %d, got %d", ErrInvalidConfig, name, minimum, k)
	}
	return nil
}

// Config is an immutable, validated pipeline configuration. Build one with
// NewBuilder or DefaultConfig.
type Config struct {
	enabled [numKinds]bool
	params  Params
}

// DefaultConfig enables resize and median blur with default parameters.
func DefaultConfig() Config {
	cfg, _ := NewBuilder().Build()
	return cfg
}

// Enabled reports whether the step of kind k runs.
func (c Config) Enabled(k Kind) bool {
	if k < 0 || k >= numKinds {
		return false
	}
	return c.enabled[k]
}

// Params returns a copy of the step parameters.
func (c Config) Params() Params { return c.params }

// EnabledKinds lists enabled kinds in canonical order.
func (c Config) EnabledKinds() []Kind {
	var out []Kind
	for _, d := range canonical {
		if c.enabled[d.kind] {
			out = append(out, d.kind)
		}
	}
	return out
}

// Steps returns the full ordered step table, disabled entries included.
func (c Config) Steps() []Step {
	steps := make([]Step, 0, numKinds)
	for _, d := range canonical {
		steps = append(steps, Step{Kind: d.kind, Enabled: c.enabled[d.kind], Apply: d.build(c.params)})
	}
	return steps
}

// Builder assembles a Config.
type Builder struct {
	enabled [numKinds]bool
	params  Params
	err     error
}

// NewBuilder creates a builder with default parameters and the default step
// set (resize, median).
func NewBuilder() *Builder {
	b := &Builder{params: DefaultParams()}
	b.enabled[KindResize] = true
	b.enabled[KindMedian] = true
	return b
}

// WithStep toggles a single step.
func (b *Builder) WithStep(k Kind, enabled bool) *Builder {
	if k < 0 || k >= numKinds {
		b.err = fmt.Errorf("%w: unknown step kind %d", ErrInvalidConfig, int(k))
		return b
	}
	b.enabled[k] = enabled
	return b
}

// WithOnly enables exactly the given steps.
func (b *Builder) WithOnly(kinds ...Kind) *Builder {
	b.enabled = [numKinds]bool{}
	for _, k := range kinds {
		b.WithStep(k, true)
	}
	return b
}

// WithNone disables every step.
func (b *Builder) WithNone() *Builder {
	b.enabled = [numKinds]bool{}
	return b
}

// WithParams replaces all step parameters.
func (b *Builder) WithParams(p Params) *Builder {
	b.params = p
	return b
}

// Build validates and freezes the configuration.
func (b *Builder) Build() (Config, error) {
	if b.err != nil {
		return Config{}, b.err
	}
	if err := b.params.Validate(); err != nil {
		return Config{}, err
	}
	return Config{enabled: b.enabled, params: b.params}, nil
}
