package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/conneroisu/zen-temple/internal/scaffolding"
)

var newCmd = &cobra.Command{
	Use:   "new <project-name>",
	Short: "Create a new zen-temple project",
	Long: `Create a new zen-temple project with:

- Base layout loading HTMX, Alpine.js and Tailwind CSS from a CDN
- zen-temple.yaml configuration
- Example components (unless --no-examples is specified)
- Optional Go development server (with --with-server)

Examples:
  zen-temple new my-app
  zen-temple new my-app --with-server
  zen-temple new my-app --path ~/projects --no-examples`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

var (
	newPath       string
	newNoExamples bool
	newWithServer bool
)

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringVar(&newPath, "path", ".", "Parent directory for the project")
	newCmd.Flags().BoolVar(&newNoExamples, "no-examples", false, "Skip creating example components")
	newCmd.Flags().BoolVar(&newWithServer, "with-server", false, "Include a Go development server")
}

func runNew(cmd *cobra.Command, args []string) error {
	name := args[0]
	w := out(cmd)
	fmt.Fprintf(w, "Creating new zen-temple project: %s\n", name)

	generator, err := scaffolding.NewScaffoldGenerator(newPath, scaffolding.WithLogger(logger))
	if err != nil {
		return err
	}

	created, err := generator.GenerateProject(name, scaffolding.ProjectOptions{
		IncludeExamples: !newNoExamples,
		IncludeServer:   newWithServer,
	})
	if err != nil {
		return fmt.Errorf("error creating project: %w", err)
	}

	paths := make([]string, 0, len(created))
	for rel := range created {
		paths = append(paths, rel)
	}
	sort.Strings(paths)

	fmt.Fprintln(w, "\n✓ Project created successfully!")
	fmt.Fprintln(w, "\nCreated files:")
	for _, rel := range paths {
		fmt.Fprintf(w, "  - %s\n", rel)
	}

	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintf(w, "  cd %s\n", name)
	if newWithServer {
		fmt.Fprintln(w, "  go mod tidy")
		fmt.Fprintln(w, "  go run ./app")
	} else {
		fmt.Fprintln(w, "  # Edit templates in the templates/ directory")
		fmt.Fprintln(w, "  # See zen-temple.yaml for configuration")
	}
	fmt.Fprintln(w, "  zen-temple validate")

	return nil
}
