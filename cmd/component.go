package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/zen-temple/internal/scaffolding"
)

var componentCmd = &cobra.Command{
	Use:   "component <name>",
	Short: "Generate a new component template",
	Long: `Generate a component: a template macro with a root element that
instantiates an Alpine.js state class, and the class itself.

Component types:
  basic  Simple component with Alpine.js state
  form   Form component bound to a state object
  list   List component loading JSON through HTMX
  card   Card or widget component

Examples:
  zen-temple component my-widget
  zen-temple component user-form --type form
  zen-temple component feed --type list --output templates/widgets`,
	Args: cobra.ExactArgs(1),
	RunE: runComponent,
}

var (
	componentType   string
	componentOutput string
)

func init() {
	rootCmd.AddCommand(componentCmd)

	componentCmd.Flags().StringVarP(&componentType, "type", "t", scaffolding.DefaultComponentType,
		"Component type ("+strings.Join(scaffolding.ComponentTypes(), "|")+")")
	componentCmd.Flags().StringVarP(&componentOutput, "output", "o", "",
		"Output directory (default: "+scaffolding.DefaultComponentDir+")")

	AddFlagValidation(componentCmd.Flags(), "type", func(t string) error {
		return ValidateChoice("component type", t, scaffolding.ComponentTypes())
	})
}

func runComponent(cmd *cobra.Command, args []string) error {
	name := args[0]
	w := out(cmd)
	fmt.Fprintf(w, "Generating %s component: %s\n", componentType, name)

	generator, err := scaffolding.NewScaffoldGenerator("", scaffolding.WithLogger(logger))
	if err != nil {
		return err
	}

	path, err := generator.GenerateComponent(name, componentType, componentOutput)
	if err != nil {
		return fmt.Errorf("error creating component: %w", err)
	}

	names := scaffolding.NamesFor(name)
	fmt.Fprintf(w, "✓ Component created: %s\n", path)
	fmt.Fprintln(w, "\nTo use this component:")
	fmt.Fprintf(w, "  {%% import \"components/%s.html\" %s %%}\n", name, names.Macro)
	fmt.Fprintf(w, "  {{ %s() }}\n", names.Macro)

	return nil
}
