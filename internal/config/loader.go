package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "dmscan"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "DMSCAN"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader on the global viper instance, which is where
// the root command binds its flags.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// NewLoaderWithViper creates a loader on an isolated viper instance.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{v: v}
}

// Load reads the first configuration file found in the search paths (if
// any), applies environment variables and defaults, and validates the
// result.
func (l *Loader) Load() (*Config, error) {
	return l.read("", true)
}

// LoadWithFile loads configuration from a specific file path. An empty path
// falls back to Load.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	return l.read(configFile, true)
}

func (l *Loader) read(configFile string, validate bool) (*Config, error) {
	if configFile != "" {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configFile)
		}
		l.v.SetConfigFile(configFile)
	} else {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		l.addConfigPaths()
	}

	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if validate {
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return &config, nil
}

// GetConfigFileUsed returns the path of the config file used.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance for advanced usage.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// addConfigPaths adds the standard configuration search paths.
func (l *Loader) addConfigPaths() {
	// Current directory
	l.v.AddConfigPath(".")

	// User's home directory
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
	}

	// System-wide configuration
	l.v.AddConfigPath("/etc/dmscan")

	// XDG config directory
	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		l.v.AddConfigPath(filepath.Join(configDir, "dmscan"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "dmscan"))
	}
}

// setupEnvironmentVariables configures environment variable handling.
func (l *Loader) setupEnvironmentVariables() {
	// Set the prefix for environment variables
	l.v.SetEnvPrefix(EnvPrefix)

	// Enable automatic environment variable binding
	l.v.AutomaticEnv()

	// Replace dots and dashes with underscores in env var names
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults sets default values for all configuration options.
func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	// Global settings
	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)

	// Preprocessing defaults
	for kind, on := range defaults.Preprocess.Steps.Toggles() {
		l.v.SetDefault("preprocess.steps."+kind.String(), *on)
	}
	pp := defaults.Preprocess
	l.v.SetDefault("preprocess.resize_scale", pp.ResizeScale)
	l.v.SetDefault("preprocess.median_kernel", pp.MedianKernel)
	l.v.SetDefault("preprocess.gaussian_kernel", pp.GaussianKernel)
	l.v.SetDefault("preprocess.gaussian_sigma", pp.GaussianSigma)
	l.v.SetDefault("preprocess.threshold", pp.Threshold)
	l.v.SetDefault("preprocess.clahe_clip_limit", pp.CLAHEClipLimit)
	l.v.SetDefault("preprocess.clahe_tiles", pp.CLAHETiles)
	l.v.SetDefault("preprocess.dilate_kernel", pp.DilateKernel)
	l.v.SetDefault("preprocess.erode_kernel", pp.ErodeKernel)
	l.v.SetDefault("preprocess.adaptive_block_size", pp.AdaptiveBlockSize)
	l.v.SetDefault("preprocess.adaptive_c", pp.AdaptiveC)
	l.v.SetDefault("preprocess.contrast_alpha", pp.ContrastAlpha)
	l.v.SetDefault("preprocess.contrast_beta", pp.ContrastBeta)

	// Rotation defaults
	l.v.SetDefault("rotation.enabled", defaults.Rotation.Enabled)
	l.v.SetDefault("rotation.step", defaults.Rotation.Step)
	l.v.SetDefault("rotation.bound", defaults.Rotation.Bound)

	// Decoder defaults
	l.v.SetDefault("decode.formats", defaults.Decode.Formats)
	l.v.SetDefault("decode.try_harder", defaults.Decode.TryHarder)
	l.v.SetDefault("decode.normalize", defaults.Decode.Normalize)

	// Batch defaults
	l.v.SetDefault("batch.ext", defaults.Batch.Ext)
	l.v.SetDefault("batch.exclude", defaults.Batch.Exclude)
	l.v.SetDefault("batch.summary", defaults.Batch.Summary)
	l.v.SetDefault("batch.summary_format", defaults.Batch.SummaryFormat)

	// Output defaults
	l.v.SetDefault("output.preview_dir", defaults.Output.PreviewDir)
	l.v.SetDefault("output.metrics_file", defaults.Output.MetricsFile)
}

// WriteConfigToFile writes the current configuration to a file.
func (l *Loader) WriteConfigToFile(filename string) error {
	return l.v.WriteConfigAs(filename)
}

// GenerateDefaultConfigFile generates a default configuration file.
func GenerateDefaultConfigFile(filename string) error {
	loader := NewLoaderWithViper(viper.New())
	loader.setDefaults()

	// If no filename provided, use default
	if filename == "" {
		filename = "dmscan.yaml"
	}

	return loader.WriteConfigToFile(filename)
}

// GetConfigSearchPaths returns the paths where configuration files are searched.
func GetConfigSearchPaths() []string {
	paths := []string{"."}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
		paths = append(paths, filepath.Join(home, ".config", "dmscan"))
	}

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		paths = append(paths, filepath.Join(configDir, "dmscan"))
	}

	paths = append(paths, "/etc/dmscan")

	return paths
}

// PrintConfigInfo prints information about configuration loading for debugging.
func (l *Loader) PrintConfigInfo(w io.Writer) {
	used := l.GetConfigFileUsed()
	if used == "" {
		used = "(none)"
	}
	_, _ = fmt.Fprintf(w, "# Configuration file used: %s\n", used)
	_, _ = fmt.Fprintf(w, "# Configuration search paths: %v\n", GetConfigSearchPaths())
	_, _ = fmt.Fprintf(w, "# Environment prefix: %s\n", EnvPrefix)
}
