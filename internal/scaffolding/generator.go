// Package scaffolding generates zen-temple projects and components.
//
// Generated files are rendered with text/template using [[ ]] delimiters,
// leaving the Jinja-style markup of the templates themselves intact. Every
// generated component follows the conventions enforced by the validator: a
// single root element instantiating a state class from x-data, behaviour in
// class declarations only, and HTMX requests that swap nothing and sync JSON
// into state.
package scaffolding

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/zen-temple/internal/config"
	"github.com/conneroisu/zen-temple/internal/errors"
	"github.com/conneroisu/zen-temple/internal/logging"
)

// DefaultComponentDir is where components are generated when no output
// directory is given.
const DefaultComponentDir = "templates/components"

// ScaffoldGenerator creates project structures and component files below a
// root directory.
type ScaffoldGenerator struct {
	root   string
	logger logging.Logger
}

// ProjectOptions controls what GenerateProject writes.
type ProjectOptions struct {
	IncludeExamples bool
	IncludeServer   bool
}

// DefaultProjectOptions includes the example components and no server.
func DefaultProjectOptions() ProjectOptions {
	return ProjectOptions{IncludeExamples: true}
}

// Option configures a ScaffoldGenerator.
type Option func(*ScaffoldGenerator)

// WithLogger sets the generator's logger.
func WithLogger(logger logging.Logger) Option {
	return func(g *ScaffoldGenerator) {
		g.logger = logger.WithComponent("scaffold")
	}
}

// NewScaffoldGenerator creates a generator rooted at root, or at the working
// directory when root is empty.
func NewScaffoldGenerator(root string, opts ...Option) (*ScaffoldGenerator, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.NewIOError(errors.ErrCodeInvalidPath, "cannot determine working directory", err)
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeInvalidPath, "cannot resolve project root", err).WithFile(root)
	}

	g := &ScaffoldGenerator{root: abs, logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Root returns the absolute directory projects are created in.
func (g *ScaffoldGenerator) Root() string {
	return g.root
}

// GenerateProject creates <root>/<name> and returns the created paths keyed
// by their slash-separated path relative to the project directory.
func (g *ScaffoldGenerator) GenerateProject(name string, opts ProjectOptions) (map[string]string, error) {
	if err := ValidateProjectName(name); err != nil {
		return nil, err
	}

	projectPath := filepath.Join(g.root, name)
	if entries, err := os.ReadDir(projectPath); err == nil && len(entries) > 0 {
		return nil, errors.NewIOError(errors.ErrCodeFileWrite,
			"project directory already exists and is not empty", nil).WithFile(projectPath)
	}

	cfg := config.New(name)
	ctx := ProjectContext{
		Name:        name,
		HTMX:        cfg.CDN.HTMX,
		Alpine:      cfg.CDN.Alpine,
		Tailwind:    cfg.CDN.Tailwind,
		WithServer:  opts.IncludeServer,
		WithExample: opts.IncludeExamples,
	}

	dirs := []string{
		"templates",
		"templates/components",
		"templates/layouts",
		"static",
		"static/css",
		"static/js",
	}
	if opts.IncludeServer {
		dirs = append(dirs, "app", "app/routes")
	}

	created := make(map[string]string)
	for _, dir := range dirs {
		path := filepath.Join(projectPath, filepath.FromSlash(dir))
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, errors.ErrFileWrite(path, err)
		}
		created[dir] = path
	}

	configPath, err := CreateConfigFile(projectPath, name)
	if err != nil {
		return nil, err
	}
	created[config.FileName] = configPath

	files := map[string]string{
		"templates/layouts/base.html": baseLayout,
		"README.md":                   readme,
	}
	if opts.IncludeExamples {
		files["templates/components/counter.html"] = counterComponent
		files["templates/components/todo.html"] = todoComponent
		files["templates/components/data_fetch.html"] = dataFetchComponent
		files["templates/index.html"] = indexPage
	}
	if opts.IncludeServer {
		files["go.mod"] = serverGoMod
		files["app/main.go"] = serverMain
		files["app/routes/routes.go"] = serverRoutes
	}

	names := make([]string, 0, len(files))
	for rel := range files {
		names = append(names, rel)
	}
	sort.Strings(names)

	for _, rel := range names {
		path := filepath.Join(projectPath, filepath.FromSlash(rel))
		if err := writeTemplate(path, rel, files[rel], ctx); err != nil {
			return nil, err
		}
		created[rel] = path
	}

	g.logger.Info(context.Background(), "project generated",
		"project", name, "path", projectPath, "files", len(created))

	return created, nil
}

// GenerateComponent writes a component of the given type to outputDir
// (default templates/components under the root) and returns its path.
// Unknown types fall back to basic. Existing files are never overwritten.
func (g *ScaffoldGenerator) GenerateComponent(name, componentType, outputDir string) (string, error) {
	content, err := RenderComponent(name, componentType)
	if err != nil {
		return "", err
	}

	if outputDir == "" {
		outputDir = filepath.Join(g.root, filepath.FromSlash(DefaultComponentDir))
	} else if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(g.root, outputDir)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", errors.ErrFileWrite(outputDir, err)
	}

	path := filepath.Join(outputDir, name+".html")
	if _, err := os.Stat(path); err == nil {
		return "", errors.NewIOError(errors.ErrCodeFileWrite, "component already exists", nil).WithFile(path)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errors.ErrFileWrite(path, err)
	}

	g.logger.Info(context.Background(), "component generated",
		"component", name, "type", resolveType(componentType), "path", path)

	return path, nil
}

// RenderComponent returns the source of a component without writing it.
func RenderComponent(name, componentType string) (string, error) {
	if err := ValidateComponentName(name); err != nil {
		return "", err
	}

	tmpl := builtinTemplates[resolveType(componentType)]

	var buf bytes.Buffer
	if err := execute(&buf, tmpl.Name, tmpl.Content, NamesFor(name)); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func resolveType(componentType string) string {
	if _, ok := builtinTemplates[componentType]; ok {
		return componentType
	}

	return DefaultComponentType
}

// CreateConfigFile writes zen-temple.yaml with default settings into dir.
func CreateConfigFile(dir, projectName string) (string, error) {
	return WriteConfig(dir, config.New(projectName))
}

// WriteConfig writes cfg as zen-temple.yaml into dir.
func WriteConfig(dir string, cfg *config.Config) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.ErrFileWrite(dir, err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return "", errors.NewInternalError(errors.ErrCodeInternalError, "cannot encode configuration", err)
	}
	if err := enc.Close(); err != nil {
		return "", errors.NewInternalError(errors.ErrCodeInternalError, "cannot encode configuration", err)
	}

	path := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", errors.ErrFileWrite(path, err)
	}

	return path, nil
}

var componentNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// NamesFor derives the macro and state class names for a component name:
// "user-card" becomes macro user_card and class UserCardState.
func NamesFor(name string) TemplateContext {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' })

	// Casers are stateful; one per call.
	caser := cases.Title(language.English)
	var pascal strings.Builder
	for _, w := range words {
		pascal.WriteString(caser.String(w))
	}

	return TemplateContext{
		Name:  name,
		Macro: strings.ReplaceAll(name, "-", "_"),
		State: pascal.String(),
	}
}

// ValidateComponentName checks that name can serve as both file stem and
// macro name.
func ValidateComponentName(name string) error {
	if name == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidPath, "component name cannot be empty")
	}
	if !componentNamePattern.MatchString(name) {
		return errors.NewValidationError(errors.ErrCodeInvalidPath,
			fmt.Sprintf("component name %q must start with a letter and contain only letters, digits, '-' or '_'", name))
	}

	return nil
}

// ValidateProjectName checks that name is a single safe directory name.
func ValidateProjectName(name string) error {
	if name == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidPath, "project name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return errors.ErrInvalidPath(name)
	}
	if err := config.ValidatePath(name); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidPath, err.Error())
	}

	return nil
}

func writeTemplate(path, name, content string, data any) error {
	var buf bytes.Buffer
	if err := execute(&buf, name, content, data); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.ErrFileWrite(path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.ErrFileWrite(path, err)
	}

	return nil
}

func execute(buf *bytes.Buffer, name, content string, data any) error {
	tmpl, err := template.New(name).Delims("[[", "]]").Parse(content)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeTemplateRender, "cannot parse scaffold template "+name, err)
	}
	if err := tmpl.Execute(buf, data); err != nil {
		return errors.NewInternalError(errors.ErrCodeTemplateRender, "cannot render scaffold template "+name, err)
	}

	return nil
}
