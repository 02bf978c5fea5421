package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/zen-temple/internal/config"
)

// resetFlags restores every flag of c and its subcommands to its default,
// since the command tree is shared between tests.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI with args and returns what it printed to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	viper.Reset()
	t.Cleanup(viper.Reset)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return stdout.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const (
	validComponent   = `<div x-data="new CounterState(0)"><span x-text="count"></span></div>`
	invalidComponent = `<div onclick="doThing()"></div>`
)

func TestNewCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	output, err := execute(t, "new", "my-app", "--with-server")
	require.NoError(t, err)

	assert.Contains(t, output, "Creating new zen-temple project: my-app")
	assert.Contains(t, output, "templates/components/counter.html")
	assert.Contains(t, output, "go run ./app")
	assert.FileExists(t, filepath.Join("my-app", config.FileName))
	assert.FileExists(t, filepath.Join("my-app", "app", "main.go"))

	_, err = execute(t, "new", "my-app")
	assert.Error(t, err, "existing project must not be overwritten")

	_, err = execute(t, "new", "bad/name")
	assert.Error(t, err)
}

func TestNewThenValidate(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)

	_, err := execute(t, "new", "site")
	require.NoError(t, err)

	t.Chdir(filepath.Join(root, "site"))
	output, err := execute(t, "validate")
	require.NoError(t, err, output)
	assert.Contains(t, output, "components/counter")
	assert.Contains(t, output, "layouts/base")
	assert.Contains(t, output, "All components are valid!")
	// Nested default directories are scanned once.
	assert.Equal(t, 1, strings.Count(output, "✓ components/counter\n"))
}

func TestComponentCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	output, err := execute(t, "component", "user-card", "--type", "card")
	require.NoError(t, err)
	assert.Contains(t, output, `{% import "components/user-card.html" user_card %}`)
	assert.FileExists(t, filepath.Join("templates", "components", "user-card.html"))

	_, err = execute(t, "component", "user-card")
	assert.Error(t, err, "existing component must not be overwritten")

	_, err = execute(t, "component", "other", "--type", "fancy")
	assert.Error(t, err)

	_, err = execute(t, "component", "widget", "-o", "parts")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join("parts", "widget.html"))
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := execute(t, "init", "--project-name", "shop")
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join("templates", "components"))
	assert.DirExists(t, filepath.Join("templates", "layouts"))

	cfg, err := config.LoadFile(config.FileName)
	require.NoError(t, err)
	assert.Equal(t, "shop", cfg.Project.Name)

	_, err = execute(t, "init")
	assert.Error(t, err, "init must not overwrite without --force")

	_, err = execute(t, "init", "--force", "--template-dir", "views")
	require.NoError(t, err)
	cfg, err = config.LoadFile(config.FileName)
	require.NoError(t, err)
	assert.Contains(t, cfg.Templates.Directories, "views")
	assert.Equal(t, filepath.Base(dir), cfg.Project.Name)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, "good.html", validComponent)
	writeFile(t, "bad.html", invalidComponent)
	writeFile(t, filepath.Join("lib", "a.html"), validComponent)
	writeFile(t, filepath.Join("lib", "nested", "b.html"), validComponent)

	tests := []struct {
		name     string
		args     []string
		wantErr  bool
		contains []string
	}{
		{
			name:     "valid file",
			args:     []string{"validate", "good.html"},
			contains: []string{"✓ good", "All components are valid!"},
		},
		{
			name:     "invalid file",
			args:     []string{"validate", "bad.html"},
			wantErr:  true,
			contains: []string{"✗ bad", "Error:", "Invalid: 1"},
		},
		{
			name:     "directory",
			args:     []string{"validate", "lib"},
			contains: []string{"✓ a", "✓ nested/b", "Total components: 2"},
		},
		{
			name:    "missing path",
			args:    []string{"validate", "nope.html"},
			wantErr: true,
		},
		{
			name:    "bad format",
			args:    []string{"validate", "good.html", "--format", "xml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := execute(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err, output)
			}
			for _, s := range tt.contains {
				assert.Contains(t, output, s)
			}
		})
	}
}

func TestValidateStrict(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, "literal.html", `<div x-data="{ count: 0 }"><span x-text="count"></span></div>`)

	_, err := execute(t, "validate", "literal.html")
	require.NoError(t, err)

	_, err = execute(t, "validate", "literal.html", "--strict")
	assert.Error(t, err)
}

func TestValidateJSON(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, "good.html", validComponent)
	writeFile(t, "bad.html", invalidComponent)

	output, err := execute(t, "validate", "good.html", "bad.html", "-f", "json")
	require.Error(t, err)

	var summary ValidationSummary
	require.NoError(t, json.Unmarshal([]byte(output), &summary))
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Valid)
	assert.Equal(t, 1, summary.Invalid)
	require.Len(t, summary.Results, 2)
	assert.Equal(t, "bad", summary.Results[1].Component)
	assert.False(t, summary.Results[1].Valid)
	assert.Len(t, summary.Results[1].Errors, 1)
}

func TestValidateProjectCircularDependencies(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, filepath.Join("templates", "a.html"), `{% include "b.html" %}`+validComponent)
	writeFile(t, filepath.Join("templates", "b.html"), `{% include "a.html" %}`+validComponent)
	writeFile(t, filepath.Join("templates", "c.html"), `{% include "missing.html" %}`+validComponent)

	output, err := execute(t, "validate")
	require.Error(t, err)
	assert.Contains(t, output, "Circular dependencies detected: 1 cycles")
	assert.Contains(t, output, "Circular dependency:")
	assert.Contains(t, output, "✓ c")
	assert.Contains(t, output, "Warning: Missing dependency: missing")
}

func TestProjectRoots(t *testing.T) {
	tests := []struct {
		name string
		dirs []string
		want []string
	}{
		{"defaults", []string{"templates", "templates/components", "templates/layouts"}, []string{"templates"}},
		{"siblings", []string{"views", "partials"}, []string{"views", "partials"}},
		{"duplicates", []string{"views", "./views"}, []string{"views"}},
		{"prefix is not nesting", []string{"views", "views2"}, []string{"views", "views2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := make([]string, len(tt.want))
			for i, w := range tt.want {
				want[i] = filepath.FromSlash(w)
			}
			dirs := make([]string, len(tt.dirs))
			for i, d := range tt.dirs {
				dirs[i] = filepath.FromSlash(d)
			}
			assert.Equal(t, want, projectRoots(dirs))
		})
	}
}

func TestListCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, filepath.Join("templates", "page.html"), `{% import "components/button.html" button %}<div></div>`)
	writeFile(t, filepath.Join("templates", "card.html"), validComponent)
	writeFile(t, filepath.Join("templates", "components", "button.html"),
		`{% macro button(label) export %}<button>{{ label }}</button>{% endmacro %}`)

	output, err := execute(t, "list-components")
	require.NoError(t, err)
	assert.Contains(t, output, "Found 2 component(s):")
	assert.Contains(t, output, "  - card\n  - page\n")

	output, err = execute(t, "list-components", "--with-deps")
	require.NoError(t, err)
	assert.Contains(t, output, "components/button")
	assert.Contains(t, output, "Total: 3 components")

	output, err = execute(t, "list-components", "--with-deps", "-f", "json")
	require.NoError(t, err)
	var listed []ListedComponent
	require.NoError(t, json.Unmarshal([]byte(output), &listed))
	require.Len(t, listed, 3)
	assert.Equal(t, "components/button", listed[1].Name)
	assert.Equal(t, []string{"button"}, listed[1].Macros)
	assert.Equal(t, []string{"page"}, listed[1].Dependents)
	assert.Equal(t, []string{"components/button"}, listed[2].Dependencies)

	output, err = execute(t, "list-components", "-f", "yaml")
	require.NoError(t, err)
	var names []ListedComponent
	require.NoError(t, yaml.Unmarshal([]byte(output), &names))
	assert.Len(t, names, 2)

	_, err = execute(t, "list-components", "--template-dir", "missing")
	assert.Error(t, err)

	_, err = execute(t, "list-components", "-f", "csv")
	assert.Error(t, err)
}

func TestListCommandEmpty(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.Mkdir("templates", 0o755))

	output, err := execute(t, "list-components")
	require.NoError(t, err)
	assert.Contains(t, output, "No components found.")
}

func TestConfigCommands(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "config", "validate")
	assert.Error(t, err, "no configuration file present")

	writeFile(t, config.FileName, "project:\n  name: shop\n  version: 1.0.0\n")
	output, err := execute(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, output, "Configuration is valid!")

	output, err = execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, output, "name: shop")
	assert.Contains(t, output, config.DefaultHTMXURL)

	output, err = execute(t, "config", "show", "--format", "json")
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(output), &cfg))
	assert.Equal(t, "1.0.0", cfg.Project.Version)

	writeFile(t, "bad.yaml", "validation:\n  strictness: loose\n")
	output, err = execute(t, "config", "validate", "--file", "bad.yaml")
	assert.Error(t, err)
	assert.Contains(t, output, "strictness")

	writeFile(t, "badversion.yaml", "project:\n  version: one\n")
	_, err = execute(t, "config", "validate", "-f", "badversion.yaml")
	assert.Error(t, err)
}

func TestConfigEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ZEN_TEMPLE_VALIDATION_STRICTNESS", "strict")

	output, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, output, "strictness: strict")
}

func TestExplicitConfigMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "--config", "nope.yaml", "philosophy")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{"default", []string{"version"}, "zen-temple "},
		{"detailed", []string{"version", "--detailed"}, "Build type:"},
		{"json", []string{"version", "--format", "json"}, `"go_version"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, output, tt.contains)
		})
	}

	_, err := execute(t, "version", "--format", "xml")
	assert.Error(t, err)
}

func TestPhilosophyCommand(t *testing.T) {
	output, err := execute(t, "philosophy")
	require.NoError(t, err)
	assert.Contains(t, output, "1. No Build Step Required")
	assert.Contains(t, output, "7. Zero Magic")
}

func TestValidateChoice(t *testing.T) {
	assert.NoError(t, ValidateChoice("format", "json", listFormats))

	err := ValidateChoice("format", "jsn", listFormats)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "json"?`)

	err = ValidateChoice("format", "xml", listFormats)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "did you mean")
}
