package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/zen-temple/internal/config"
	"github.com/conneroisu/zen-temple/internal/logging"
	"github.com/conneroisu/zen-temple/internal/version"
)

var (
	cfgFile string
	// configReadErr is the result of reading the configuration file.
	configReadErr error
)

// logger is configured from --log-level before any command runs.
var logger logging.Logger = logging.NewNopLogger()

// envKeys are the configuration keys that can be set from ZEN_TEMPLE_*
// variables without appearing in a file.
var envKeys = []string{
	"project.name",
	"project.version",
	"templates.directories",
	"validation.strictness",
	"cdn.htmx",
	"cdn.alpine",
	"cdn.tailwind",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "zen-temple",
	Short: "A zero-build, zero-magic frontend component toolkit",
	Long: `zen-temple builds reactive web UIs from Jinja-style template macros,
Alpine.js state classes, HTMX requests and Tailwind CSS, with no build step.

Quick Start:
  zen-temple new my-app           Create a project with example components
  zen-temple component my-widget  Generate a component
  zen-temple validate             Validate every component in the project
  zen-temple list-components      List available components
  zen-temple philosophy           Show the design principles`,
	Version:           version.GetShortVersion(),
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the CLI with a caller-supplied context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.SetVersionTemplate("zen-temple {{.Version}}\n")
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default is zen-temple.yaml, can also use ZEN_TEMPLE_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	AddFlagValidation(rootCmd.PersistentFlags(), "log-format", func(format string) error {
		return ValidateChoice("log format", format, []string{"text", "json"})
	})
}

// initConfig selects the configuration file.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag
//  2. ZEN_TEMPLE_CONFIG_FILE environment variable
//  3. zen-temple.yaml in the current directory
//
// A missing file is not an error; defaults apply. Values can be overridden
// with ZEN_TEMPLE_<SECTION>_<OPTION>, e.g. ZEN_TEMPLE_VALIDATION_STRICTNESS.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv(config.EnvPrefix + "_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(strings.TrimSuffix(config.FileName, ".yaml"))
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	for _, key := range envKeys {
		_ = viper.BindEnv(key)
	}
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))

	configReadErr = viper.ReadInConfig()
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	if err := checkConfigRead(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return err
	}

	logger = logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    viper.GetString("log-format"),
		Output:    cmd.ErrOrStderr(),
		Component: "cli",
	})
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug(cmd.Context(), "configuration loaded", "path", used)
	}

	return nil
}

// checkConfigRead tolerates a missing default file but not a missing
// explicit one or a malformed file.
func checkConfigRead() error {
	if configReadErr == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(configReadErr, &notFound) {
		return nil
	}
	if cfgFile == "" && os.Getenv(config.EnvPrefix+"_CONFIG_FILE") == "" && errors.Is(configReadErr, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("reading config file: %w", configReadErr)
}

// loadConfig resolves the project configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return cfg, nil
}
