package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/dmscan/internal/config"
	"github.com/MeKo-Tech/dmscan/internal/scan"
	"github.com/MeKo-Tech/dmscan/internal/version"
)

// Exit codes returned by Execute.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitLoadFailure = 2
)

var (
	// Global configuration loader.
	configLoader *config.Loader
	// Global configuration.
	globalConfig *config.Config
	// Configuration file path.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dmscan",
	Short: "Preprocess images and decode the Data Matrix symbol they contain",
	Long: `dmscan reads a 2D barcode (Data Matrix by default) from photos that are
noisy, low-contrast or rotated.

Each image goes through a configurable preprocessing pipeline (resize, blur,
equalization, thresholding, morphology, contrast) and is then rotated in
fixed angular steps until the decoder reads a symbol.

Examples:
  dmscan image label.jpg
  dmscan image label.jpg --clahe --no-rotate --formats qr
  dmscan batch ./photos --ext .png --summary`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, _ := cmd.Flags().GetBool("version")
		if v {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the root command and maps the outcome to a process exit code.
// A load failure of the single input is distinguished from other errors.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitOK
	}
	var le *scan.LoadError
	if errors.As(err, &le) {
		return ExitLoadFailure
	}
	return ExitError
}

// GetRootCommand returns the root command for testing purposes.
// This allows tests to execute commands without calling os.Exit().
func GetRootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is search in ., $HOME, $HOME/.config/dmscan, /etc/dmscan)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().Bool("version", false, "print version information and exit")

	bindFlags()

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if globalConfig == nil {
			initConfig()
		}
		cfg := GetConfig()

		var logLevel slog.Level
		if cfg.Verbose {
			logLevel = slog.LevelDebug
		} else {
			switch cfg.LogLevel {
			case "debug":
				logLevel = slog.LevelDebug
			case "warn":
				logLevel = slog.LevelWarn
			case "error":
				logLevel = slog.LevelError
			default:
				logLevel = slog.LevelInfo
			}
		}

		// Outcome lines own stdout; logs go to stderr.
		logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	}
}

// bindFlags binds the persistent flags to their configuration keys.
func bindFlags() {
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configLoader = config.NewLoader()

	var err error
	if cfgFile != "" {
		globalConfig, err = configLoader.LoadWithFile(cfgFile)
	} else {
		globalConfig, err = configLoader.Load()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(ExitError)
	}
}

// GetConfig returns the global configuration.
func GetConfig() *config.Config {
	if globalConfig == nil {
		initConfig()
	}

	// Reload configuration to ensure CLI flags are included
	// This is necessary because flag binding happens after initial config loading
	loader := GetConfigLoader()
	var cfg config.Config
	if err := loader.GetViper().Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling updated configuration: %v\n", err)
		return globalConfig
	}

	return &cfg
}

// GetConfigLoader returns the global configuration loader.
func GetConfigLoader() *config.Loader {
	if configLoader == nil {
		configLoader = config.NewLoader()
	}
	return configLoader
}
