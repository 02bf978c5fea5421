package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/zen-temple/internal/registry"
	"github.com/conneroisu/zen-temple/internal/scanner"
	"github.com/conneroisu/zen-temple/internal/templates"
)

var listCmd = &cobra.Command{
	Use:     "list-components",
	Aliases: []string{"list", "ls"},
	Short:   "List all available components",
	Long: `List the components in a templates directory.

Without --with-deps only templates directly inside the directory are listed,
by name. With --with-deps the directory is scanned recursively and each
component is shown with its macros, the templates it depends on and the
templates that depend on it.

Examples:
  zen-temple list-components
  zen-temple list-components --template-dir my-templates
  zen-temple list-components --with-deps -f json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listTemplateDir string
	listFormat      string
	listWithDeps    bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listTemplateDir, "template-dir", "templates", "Templates directory to list from")
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "Output format (table, json, yaml)")
	listCmd.Flags().BoolVarP(&listWithDeps, "with-deps", "d", false, "Scan recursively and include dependencies")

	AddFlagValidation(listCmd.Flags(), "format", func(format string) error {
		return ValidateChoice("output format", format, listFormats)
	})
}

// ListedComponent is one row of list-components output.
type ListedComponent struct {
	Name         string   `json:"name"                   yaml:"name"`
	File         string   `json:"file"                   yaml:"file"`
	Description  string   `json:"description,omitempty"  yaml:"description,omitempty"`
	Macros       []string `json:"macros,omitempty"       yaml:"macros,omitempty"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Dependents   []string `json:"dependents,omitempty"   yaml:"dependents,omitempty"`
}

func runList(cmd *cobra.Command, _ []string) error {
	if err := ValidateDirExists(listTemplateDir); err != nil {
		return err
	}

	var (
		components []ListedComponent
		err        error
	)
	if listWithDeps {
		components, err = listWithDependencies(listTemplateDir)
	} else {
		components, err = listTopLevel(listTemplateDir)
	}
	if err != nil {
		return err
	}

	w := out(cmd)
	switch strings.ToLower(listFormat) {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(components)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		defer encoder.Close()

		return encoder.Encode(components)
	case "table":
		return outputTable(w, components)
	default:
		return fmt.Errorf("unsupported format: %s", listFormat)
	}
}

func listTopLevel(dir string) ([]ListedComponent, error) {
	manager, err := templates.NewManager([]string{dir}, templates.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}

	names := manager.ListComponents()
	components := make([]ListedComponent, 0, len(names))
	for _, name := range names {
		components = append(components, ListedComponent{
			Name: name,
			File: filepath.Join(dir, name+templates.Extension),
		})
	}

	return components, nil
}

func listWithDependencies(dir string) ([]ListedComponent, error) {
	reg := registry.NewComponentRegistry()
	if err := scanner.NewComponentScanner(reg).ScanDirectory(dir); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	all := reg.GetAll()
	components := make([]ListedComponent, 0, len(all))
	for _, comp := range all {
		item := ListedComponent{
			Name:         comp.Name,
			File:         comp.FilePath,
			Description:  comp.Description,
			Dependencies: comp.Dependencies,
		}
		for _, m := range comp.Macros {
			item.Macros = append(item.Macros, m.Name)
		}
		for _, dep := range reg.GetDependents(comp.Name) {
			item.Dependents = append(item.Dependents, dep.Name)
		}
		components = append(components, item)
	}

	return components, nil
}

func outputTable(w io.Writer, components []ListedComponent) error {
	if len(components) == 0 {
		fmt.Fprintln(w, "No components found.")
		fmt.Fprintln(w, "\nCreate a component with: zen-temple component <name>")

		return nil
	}

	if !listWithDeps {
		fmt.Fprintf(w, "Found %d component(s):\n", len(components))
		for _, c := range components {
			fmt.Fprintf(w, "  - %s\n", c.Name)
		}

		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMACROS\tDEPENDENCIES\tUSED BY")
	fmt.Fprintln(tw, "----\t------\t------------\t-------")
	for _, c := range components {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			c.Name,
			joinOrDash(c.Macros),
			joinOrDash(c.Dependencies),
			joinOrDash(c.Dependents),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nTotal: %d components\n", len(components))

	return nil
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}

	return strings.Join(items, ", ")
}
