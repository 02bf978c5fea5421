// Package config provides configuration management for zen-temple projects
// using Viper for loading from zen-temple.yaml, environment variables and
// command-line flags.
//
// Environment variables use the ZEN_TEMPLE_ prefix with dots replaced by
// underscores, so validation.strictness becomes ZEN_TEMPLE_VALIDATION_STRICTNESS.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/viper"

	"github.com/conneroisu/zen-temple/internal/validator"
)

// FileName is the project configuration file looked up in the working
// directory.
const FileName = "zen-temple.yaml"

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "ZEN_TEMPLE"

// Default CDN locations written into new projects and used by layouts.
const (
	DefaultHTMXURL     = "https://unpkg.com/htmx.org@1.9.10"
	DefaultAlpineURL   = "https://unpkg.com/alpinejs@3.13.5/dist/cdn.min.js"
	DefaultTailwindURL = "https://cdn.tailwindcss.com"
)

// DefaultPhilosophy lists the principles recorded in every project file.
var DefaultPhilosophy = []string{
	"No build step required",
	"No hidden abstractions",
	"Template-centered design",
	"Logic in Alpine.js x-data only",
	"Server returns JSON only",
	"HTMX for communication and events only",
}

type Config struct {
	Project    ProjectConfig    `mapstructure:"project"    yaml:"project"    json:"project"`
	Templates  TemplatesConfig  `mapstructure:"templates"  yaml:"templates"  json:"templates"`
	CDN        CDNConfig        `mapstructure:"cdn"        yaml:"cdn"        json:"cdn"`
	Validation ValidationConfig `mapstructure:"validation" yaml:"validation" json:"validation"`
	ZenTemple  ZenTempleConfig  `mapstructure:"zen_temple" yaml:"zen_temple" json:"zen_temple"`
}

type ProjectConfig struct {
	Name    string `mapstructure:"name"    yaml:"name"    json:"name"`
	Version string `mapstructure:"version" yaml:"version" json:"version"`
}

type TemplatesConfig struct {
	Directories []string `mapstructure:"directories" yaml:"directories" json:"directories"`
}

type CDNConfig struct {
	HTMX     string `mapstructure:"htmx"     yaml:"htmx"     json:"htmx"`
	Alpine   string `mapstructure:"alpine"   yaml:"alpine"   json:"alpine"`
	Tailwind string `mapstructure:"tailwind" yaml:"tailwind" json:"tailwind"`
}

// ValidationConfig controls the component validator. Rules maps a rule ID to
// error, warning or off.
type ValidationConfig struct {
	Strictness string            `mapstructure:"strictness" yaml:"strictness"      json:"strictness"`
	Rules      map[string]string `mapstructure:"rules"      yaml:"rules,omitempty" json:"rules,omitempty"`
}

type ZenTempleConfig struct {
	Philosophy []string `mapstructure:"philosophy" yaml:"philosophy" json:"philosophy"`
}

// Default returns the configuration used when no project file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)

	return cfg
}

// New returns the configuration written for a freshly scaffolded project.
func New(projectName string) *Config {
	cfg := Default()
	cfg.Project.Name = projectName

	return cfg
}

// Load reads the configuration viper has assembled from file, environment
// and flags, applies defaults and validates the result.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Env and flag values arrive as a single comma-separated string
	config.Templates.Directories = splitList(config.Templates.Directories)

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadFile reads a single project file, independent of the global viper
// state, applies defaults and validates the result.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Project.Version == "" {
		config.Project.Version = "0.1.0"
	}
	if len(config.Templates.Directories) == 0 {
		config.Templates.Directories = []string{"templates", "templates/components", "templates/layouts"}
	}
	if config.CDN.HTMX == "" {
		config.CDN.HTMX = DefaultHTMXURL
	}
	if config.CDN.Alpine == "" {
		config.CDN.Alpine = DefaultAlpineURL
	}
	if config.CDN.Tailwind == "" {
		config.CDN.Tailwind = DefaultTailwindURL
	}
	if config.Validation.Strictness == "" {
		config.Validation.Strictness = "standard"
	}
	if len(config.ZenTemple.Philosophy) == 0 {
		config.ZenTemple.Philosophy = append([]string(nil), DefaultPhilosophy...)
	}
}

// Validate checks a configuration for correctness.
func Validate(config *Config) error {
	return validateConfig(config)
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateProjectConfig(&config.Project); err != nil {
		return fmt.Errorf("project config: %w", err)
	}

	if err := validateTemplatesConfig(&config.Templates); err != nil {
		return fmt.Errorf("templates config: %w", err)
	}

	if err := validateValidationConfig(&config.Validation); err != nil {
		return fmt.Errorf("validation config: %w", err)
	}

	return nil
}

func validateProjectConfig(config *ProjectConfig) error {
	if strings.ContainsAny(config.Name, `/\`) {
		return fmt.Errorf("project name must not contain path separators: %s", config.Name)
	}

	if _, err := semver.NewVersion(config.Version); err != nil {
		return fmt.Errorf("version %q is not a semantic version: %w", config.Version, err)
	}

	return nil
}

func validateTemplatesConfig(config *TemplatesConfig) error {
	for _, dir := range config.Directories {
		if err := ValidatePath(dir); err != nil {
			return fmt.Errorf("invalid template directory '%s': %w", dir, err)
		}
	}

	return nil
}

func validateValidationConfig(config *ValidationConfig) error {
	if _, err := config.ValidatorOptions(); err != nil {
		return err
	}

	return nil
}

// ValidatorOptions converts the validation section into validator options.
func (c ValidationConfig) ValidatorOptions() ([]validator.Option, error) {
	strictness, err := validator.ParseStrictness(c.Strictness)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]validator.Severity, len(c.Rules))
	for id, value := range c.Rules {
		if !validator.IsRule(id) {
			return nil, fmt.Errorf("unknown rule %q", id)
		}
		sev, err := validator.ParseSeverity(value)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", id, err)
		}
		overrides[id] = sev
	}

	return []validator.Option{
		validator.WithStrictness(strictness),
		validator.WithOverrides(overrides),
	}, nil
}

// ValidatePath validates a relative project path for security
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	// Reject path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}

func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}

	return out
}
