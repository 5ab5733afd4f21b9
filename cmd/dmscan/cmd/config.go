package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/dmscan/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create configuration files",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		out := cmd.OutOrStdout()
		GetConfigLoader().PrintConfigInfo(out)

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal configuration: %w", err)
		}
		_, err = out.Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write a configuration file with all defaults",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := config.ConfigFileName + ".yaml"
		if len(args) == 1 {
			file = args[0]
		}
		if err := config.GenerateDefaultConfigFile(file); err != nil {
			return fmt.Errorf("write %s: %w", file, err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", file)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}
