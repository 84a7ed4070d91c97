package cmd

import (
	"fmt"
	"os"

	"github.com/nbspam/spam-filter/pkg/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Generate, inspect and validate nbspam configuration files`,
	// Configuration commands must work even when the configured file is broken
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

var configGenCmd = &cobra.Command{
	Use:   "generate [config-file]",
	Short: "Generate default configuration file",
	Long:  `Generate a configuration file holding every option at its default value`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "config.yaml"
		if len(args) > 0 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil {
			overwrite, _ := cmd.Flags().GetBool("force")
			if !overwrite {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
			}
		}

		if err := config.DefaultConfig().SaveConfig(path); err != nil {
			return fmt.Errorf("failed to save config: %v", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ Configuration file generated: %s\n", path)
		fmt.Fprintf(out, "🚀 Use 'nbspam run --config %s' to use the configuration\n", path)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Long:  `Validate a configuration file, with environment overrides applied`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(args[0])
		if err != nil {
			return fmt.Errorf("❌ Configuration validation failed: %v", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ Configuration is valid: %s\n", args[0])

		if warnings := validateConfigLogic(cfg); len(warnings) > 0 {
			fmt.Fprintf(out, "\n⚠️  Warnings:\n")
			for _, warning := range warnings {
				fmt.Fprintf(out, "  - %s\n", warning)
			}
		}

		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [config-file]",
	Short: "Show effective configuration",
	Long:  `Print the configuration in effect: defaults, the file if given, then environment overrides`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if len(args) > 0 {
			path = args[0]
		}

		cfg, err := config.LoadConfig(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %v", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %v", err)
		}

		out := cmd.OutOrStdout()
		if path != "" {
			fmt.Fprintf(out, "# Configuration: %s\n", path)
		} else {
			fmt.Fprintf(out, "# Default configuration\n")
		}
		_, err = out.Write(data)
		return err
	},
}

// validateConfigLogic flags settings that are valid but probably unintended
func validateConfigLogic(cfg *config.Config) []string {
	var warnings []string

	if cfg.Corpus.MaxLineBytes > 64<<20 {
		warnings = append(warnings, "max_line_bytes above 64MB - a corrupt corpus can exhaust memory")
	}

	if cfg.Redis.BatchSize > 10000 {
		warnings = append(warnings, "Large redis batch_size keeps many lines in memory")
	}

	if cfg.Logging.Level == "debug" && cfg.Logging.Format == "text" {
		warnings = append(warnings, "Debug text logging is verbose on large corpora")
	}

	return warnings
}

func init() {
	configGenCmd.Flags().BoolP("force", "f", false, "Overwrite existing configuration file")

	configCmd.AddCommand(configGenCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}
