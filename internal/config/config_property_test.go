//go:build property

package config

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"gopkg.in/yaml.v3"
)

// TestConfigurationProperties tests configuration validation properties
func TestConfigurationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("valid configs pass validation", prop.ForAll(
		func(name string, major, minor, patch int, dirs []string) bool {
			cfg := New(name)
			cfg.Project.Version = fmt.Sprintf("%d.%d.%d", major, minor, patch)
			if len(dirs) > 0 {
				cfg.Templates.Directories = dirs
			}

			return Validate(cfg) == nil
		},
		gen.RegexMatch(`^[a-z][a-z0-9_-]{0,15}$`),
		gen.IntRange(0, 20),
		gen.IntRange(0, 99),
		gen.IntRange(0, 99),
		gen.SliceOfN(3, gen.RegexMatch(`^[a-z]+(/[a-z]+)?$`)),
	))

	properties.Property("traversal is always rejected", prop.ForAll(
		func(prefix, suffix string) bool {
			path := filepath.Join(prefix, "..", "..", suffix)

			return ValidatePath(path) != nil
		},
		gen.RegexMatch(`^[a-z]{0,8}$`),
		gen.RegexMatch(`^[a-z]{1,8}$`),
	))

	properties.Property("path validation is deterministic", prop.ForAll(
		func(path string) bool {
			return (ValidatePath(path) == nil) == (ValidatePath(path) == nil)
		},
		gen.AnyString(),
	))

	properties.Property("marshalled configs satisfy the schema", prop.ForAll(
		func(name string, strict bool) bool {
			cfg := New(name)
			if strict {
				cfg.Validation.Strictness = "strict"
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return false
			}
			res, err := ValidateBytes(data)

			return err == nil && res.Valid
		},
		gen.RegexMatch(`^[a-z][a-z0-9-]{0,15}$`),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
