package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/zen-temple/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage zen-temple configuration",
	Long: `Manage zen-temple project configuration.

Examples:
  zen-temple config show                     # Show the resolved configuration
  zen-temple config show --format json       # Show it as JSON
  zen-temple config validate                 # Validate zen-temple.yaml
  zen-temple config validate --file other.yaml`,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate a zen-temple configuration file.

The file is checked against the project schema (known keys, value types,
strictness and rule severities) and then loaded to check semantic rules:
semantic project versions and template directories without traversal.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the configuration after loading the project file, applying
ZEN_TEMPLE_* environment overrides and filling in defaults.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var (
	configFile   string
	configFormat string
)

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)

	configValidateCmd.Flags().
		StringVarP(&configFile, "file", "f", "", "Configuration file to validate (default: zen-temple.yaml)")

	configShowCmd.Flags().StringVar(&configFormat, "format", "yaml", "Output format (yaml, json)")
	AddFlagValidation(configShowCmd.Flags(), "format", func(format string) error {
		return ValidateChoice("output format", format, []string{"yaml", "json"})
	})
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	targetFile := configFile
	if targetFile == "" {
		targetFile = viper.ConfigFileUsed()
	}
	if targetFile == "" {
		targetFile = config.FileName
	}
	if _, err := os.Stat(targetFile); err != nil {
		return fmt.Errorf("configuration file %s does not exist (run 'zen-temple init' to create one)", targetFile)
	}

	w := out(cmd)
	fmt.Fprintf(w, "Validating configuration file: %s\n", targetFile)

	res, err := config.ValidateFile(targetFile)
	if err != nil {
		return err
	}
	if !res.Valid {
		for _, issue := range res.Issues {
			fmt.Fprintf(w, "  ✗ %s\n", issue)
		}

		return fmt.Errorf("configuration validation failed with %d errors", len(res.Issues))
	}

	if _, err := config.LoadFile(targetFile); err != nil {
		fmt.Fprintf(w, "  ✗ %v\n", errors.Unwrap(err))

		return fmt.Errorf("configuration validation failed: %w", err)
	}

	fmt.Fprintln(w, "✓ Configuration is valid!")

	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w := out(cmd)
	switch configFormat {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(cfg)
	case "yaml":
		fmt.Fprintln(w, "# Resolved from all sources (file, env vars, defaults)")
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		defer encoder.Close()

		return encoder.Encode(cfg)
	default:
		return fmt.Errorf("unsupported format: %s (supported: yaml, json)", configFormat)
	}
}
