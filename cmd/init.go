package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/conneroisu/zen-temple/internal/config"
	"github.com/conneroisu/zen-temple/internal/scaffolding"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize zen-temple configuration in an existing project",
	Long: `Create zen-temple.yaml with sensible defaults in the current directory,
along with the template, component and layout directories.

Examples:
  zen-temple init --project-name my-app
  zen-temple init --project-name my-app --template-dir views`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var (
	initProjectName string
	initTemplateDir string
	initForce       bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initProjectName, "project-name", "", "Name of your project (default: current directory name)")
	initCmd.Flags().StringVar(&initTemplateDir, "template-dir", "templates", "Templates directory")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing zen-temple.yaml")
}

func runInit(cmd *cobra.Command, _ []string) error {
	if err := config.ValidatePath(initTemplateDir); err != nil {
		return fmt.Errorf("invalid template directory: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	name := initProjectName
	if name == "" {
		name = filepath.Base(cwd)
	}
	if err := scaffolding.ValidateProjectName(name); err != nil {
		return err
	}

	w := out(cmd)
	fmt.Fprintf(w, "Initializing zen-temple configuration for: %s\n", name)

	if _, err := os.Stat(filepath.Join(cwd, config.FileName)); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
	}

	cfg := config.New(name)
	if dir := filepath.ToSlash(filepath.Clean(initTemplateDir)); dir != "templates" {
		cfg.Templates.Directories = []string{dir, dir + "/components", dir + "/layouts"}
	}

	configPath, err := scaffolding.WriteConfig(cwd, cfg)
	if err != nil {
		return fmt.Errorf("error initializing project: %w", err)
	}
	fmt.Fprintf(w, "✓ Configuration created: %s\n", configPath)

	for _, dir := range []string{"", "components", "layouts"} {
		if err := os.MkdirAll(filepath.Join(cwd, initTemplateDir, dir), 0o755); err != nil {
			return fmt.Errorf("creating template directories: %w", err)
		}
	}
	fmt.Fprintf(w, "✓ Template directories created in %s/\n", initTemplateDir)

	return nil
}
