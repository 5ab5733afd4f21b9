//nolint:lll
package config

// Config represents the complete configuration of dmscan. It is loaded from
// configuration files, environment variables and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Preprocessing pipeline
	Preprocess PreprocessConfig `mapstructure:"preprocess" yaml:"preprocess" json:"preprocess"`

	// Rotation search
	Rotation RotationConfig `mapstructure:"rotation" yaml:"rotation" json:"rotation"`

	// Decoder settings
	Decode DecodeConfig `mapstructure:"decode" yaml:"decode" json:"decode"`

	// Directory mode
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`

	// Side outputs
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
}

// PreprocessConfig selects the preprocessing steps and their parameters.
type PreprocessConfig struct {
	Steps StepsConfig `mapstructure:"steps" yaml:"steps" json:"steps"`

	ResizeScale       float64 `mapstructure:"resize_scale" yaml:"resize_scale" json:"resize_scale"`
	MedianKernel      int     `mapstructure:"median_kernel" yaml:"median_kernel" json:"median_kernel"`
	GaussianKernel    int     `mapstructure:"gaussian_kernel" yaml:"gaussian_kernel" json:"gaussian_kernel"`
	GaussianSigma     float64 `mapstructure:"gaussian_sigma" yaml:"gaussian_sigma" json:"gaussian_sigma"`
	Threshold         float64 `mapstructure:"threshold" yaml:"threshold" json:"threshold"`
	CLAHEClipLimit    float64 `mapstructure:"clahe_clip_limit" yaml:"clahe_clip_limit" json:"clahe_clip_limit"`
	CLAHETiles        int     `mapstructure:"clahe_tiles" yaml:"clahe_tiles" json:"clahe_tiles"`
	DilateKernel      int     `mapstructure:"dilate_kernel" yaml:"dilate_kernel" json:"dilate_kernel"`
	ErodeKernel       int     `mapstructure:"erode_kernel" yaml:"erode_kernel" json:"erode_kernel"`
	AdaptiveBlockSize int     `mapstructure:"adaptive_block_size" yaml:"adaptive_block_size" json:"adaptive_block_size"`
	AdaptiveC         float64 `mapstructure:"adaptive_c" yaml:"adaptive_c" json:"adaptive_c"`
	ContrastAlpha     float64 `mapstructure:"contrast_alpha" yaml:"contrast_alpha" json:"contrast_alpha"`
	ContrastBeta      float64 `mapstructure:"contrast_beta" yaml:"contrast_beta" json:"contrast_beta"`
}

// StepsConfig toggles each preprocessing step. Execution order is fixed and
// does not depend on the order of these keys.
type StepsConfig struct {
	Resize            bool `mapstructure:"resize" yaml:"resize" json:"resize"`
	Grayscale         bool `mapstructure:"grayscale" yaml:"grayscale" json:"grayscale"`
	Median            bool `mapstructure:"median" yaml:"median" json:"median"`
	Gaussian          bool `mapstructure:"gaussian" yaml:"gaussian" json:"gaussian"`
	HistEq            bool `mapstructure:"hist_eq" yaml:"hist_eq" json:"hist_eq"`
	Threshold         bool `mapstructure:"threshold" yaml:"threshold" json:"threshold"`
	CLAHE             bool `mapstructure:"clahe" yaml:"clahe" json:"clahe"`
	Sharpen           bool `mapstructure:"sharpen" yaml:"sharpen" json:"sharpen"`
	Dilate            bool `mapstructure:"dilate" yaml:"dilate" json:"dilate"`
	Erode             bool `mapstructure:"erode" yaml:"erode" json:"erode"`
	AdaptiveThreshold bool `mapstructure:"adaptive_threshold" yaml:"adaptive_threshold" json:"adaptive_threshold"`
	Contrast          bool `mapstructure:"contrast" yaml:"contrast" json:"contrast"`
}

// RotationConfig contains rotation search settings.
type RotationConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Step    int  `mapstructure:"step" yaml:"step" json:"step"`
	Bound   int  `mapstructure:"bound" yaml:"bound" json:"bound"`
}

// DecodeConfig contains decoder settings.
type DecodeConfig struct {
	Formats   []string `mapstructure:"formats" yaml:"formats" json:"formats"`
	TryHarder bool     `mapstructure:"try_harder" yaml:"try_harder" json:"try_harder"`
	Normalize string   `mapstructure:"normalize" yaml:"normalize" json:"normalize"`
}

// BatchConfig contains directory mode settings.
type BatchConfig struct {
	Ext           string   `mapstructure:"ext" yaml:"ext" json:"ext"`
	Exclude       []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
	Summary       bool     `mapstructure:"summary" yaml:"summary" json:"summary"`
	SummaryFormat string   `mapstructure:"summary_format" yaml:"summary_format" json:"summary_format"`
}

// OutputConfig contains side output settings.
type OutputConfig struct {
	PreviewDir  string `mapstructure:"preview_dir" yaml:"preview_dir" json:"preview_dir"`
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file" json:"metrics_file"`
}
