// Package templates renders zen-temple component templates.
//
// Templates use the Jinja-style syntax implemented by pongo2. Components are
// plain .html files that export macros, and pages import them with
// {% import "components/counter.html" counter %}. Rendering is autoescaped;
// the json_encode filter marks its JSON output safe for Alpine.js
// attributes.
package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/conneroisu/zen-temple/internal/errors"
	"github.com/conneroisu/zen-temple/internal/logging"
	"github.com/conneroisu/zen-temple/internal/logic"
)

// Extension of component template files.
const Extension = ".html"

func init() {
	if !pongo2.FilterExists("json_encode") {
		pongo2.RegisterFilter("json_encode", filterJSONEncode)
	}
}

func filterJSONEncode(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	data, err := json.Marshal(in.Interface())
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:json_encode", OrigError: err}
	}

	return pongo2.AsSafeValue(string(data)), nil
}

// Manager renders templates from an ordered list of directories. Earlier
// directories win when names collide. It is safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	dirs   []string
	set    *pongo2.TemplateSet
	bridge *logic.Bridge
	logger logging.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithBridge sets the logic bridge used to build contexts.
func WithBridge(b *logic.Bridge) Option {
	return func(m *Manager) { m.bridge = b }
}

// WithLogger sets the manager's logger.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a manager over dirs. With no dirs it uses ./templates.
// Directories that do not exist are kept in the search path but skipped by
// the loader.
func NewManager(dirs []string, opts ...Option) (*Manager, error) {
	if len(dirs) == 0 {
		dirs = []string{"templates"}
	}

	m := &Manager{}
	for _, opt := range opts {
		opt(m)
	}
	if m.bridge == nil {
		m.bridge = logic.NewBridge()
	}
	if m.logger == nil {
		m.logger = logging.NewNopLogger()
	}
	m.logger = m.logger.WithComponent("templates")

	for _, dir := range dirs {
		m.dirs = appendUnique(m.dirs, filepath.Clean(dir))
	}
	if err := m.rebuild(); err != nil {
		return nil, err
	}

	return m, nil
}

// Dirs returns the template search path.
func (m *Manager) Dirs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]string(nil), m.dirs...)
}

// Bridge returns the logic bridge.
func (m *Manager) Bridge() *logic.Bridge {
	return m.bridge
}

// rebuild recreates the template set. Callers hold the write lock or own m
// exclusively.
func (m *Manager) rebuild() error {
	loaders := make([]pongo2.TemplateLoader, 0, len(m.dirs))
	for _, dir := range m.dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			m.logger.Debug(context.Background(), "Skipping missing template directory", "dir", dir)
			continue
		}
		loader, err := pongo2.NewLocalFileSystemLoader(dir)
		if err != nil {
			return errors.NewTemplateError(errors.ErrCodeInvalidPath,
				"cannot use template directory", err).WithFile(dir)
		}
		loaders = append(loaders, loader)
	}
	if len(loaders) == 0 {
		loaders = append(loaders, emptyLoader{})
	}

	set := pongo2.NewSet("zen-temple", loaders...)
	for name, fn := range logic.MacroHelpers() {
		set.Globals[name] = fn
	}
	m.set = set

	return nil
}

// AddTemplateDir appends dir to the search path. Adding a directory that is
// already present is a no-op.
func (m *Manager) AddTemplateDir(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir = filepath.Clean(dir)
	for _, d := range m.dirs {
		if d == dir {
			return nil
		}
	}
	m.dirs = append(m.dirs, dir)

	return m.rebuild()
}

// RenderComponent renders <name>.html. The logic context is applied first,
// then ctx, then extra.
func (m *Manager) RenderComponent(
	name string,
	ctx map[string]any,
	l logic.PureLogic,
	extra map[string]any,
) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	data := m.bridge.PrepareContext(l, ctx)
	for k, v := range extra {
		data[k] = v
	}

	m.mu.RLock()
	set := m.set
	m.mu.RUnlock()

	if !m.ComponentExists(name) {
		return "", errors.ErrComponentNotFound(name)
	}

	op := logging.StartOperation(m.logger, "render_component")
	tpl, err := set.FromFile(name + Extension)
	if err != nil {
		op.EndWithError(context.Background(), err)

		return "", errors.NewTemplateError(errors.ErrCodeTemplateRender,
			"cannot parse template", err).WithComponent(name)
	}

	out, err := tpl.Execute(pongo2.Context(data))
	if err != nil {
		op.EndWithError(context.Background(), err)

		return "", errors.NewTemplateError(errors.ErrCodeTemplateRender,
			"cannot render template", err).WithComponent(name)
	}
	op.End(context.Background())

	return out, nil
}

// RenderString renders an inline template. Imports and includes resolve
// against the search path.
func (m *Manager) RenderString(tmpl string, ctx map[string]any) (string, error) {
	m.mu.RLock()
	set := m.set
	m.mu.RUnlock()

	tpl, err := set.FromString(tmpl)
	if err != nil {
		return "", errors.NewTemplateError(errors.ErrCodeTemplateRender, "cannot parse template string", err)
	}

	out, err := tpl.Execute(pongo2.Context(copyMap(ctx)))
	if err != nil {
		return "", errors.NewTemplateError(errors.ErrCodeTemplateRender, "cannot render template string", err)
	}

	return out, nil
}

// ListComponents returns the sorted, de-duplicated names of the .html files
// directly inside each search directory.
func (m *Manager) ListComponents() []string {
	seen := make(map[string]bool)
	for _, dir := range m.Dirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != Extension {
				continue
			}
			seen[strings.TrimSuffix(e.Name(), Extension)] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// ComponentExists reports whether <name>.html is found in any search
// directory.
func (m *Manager) ComponentExists(name string) bool {
	if validateName(name) != nil {
		return false
	}
	for _, dir := range m.Dirs() {
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)+Extension))
		if err == nil && !info.IsDir() {
			return true
		}
	}

	return false
}

func validateName(name string) error {
	if name == "" {
		return errors.ErrInvalidPath(name)
	}
	clean := filepath.ToSlash(filepath.Clean(name))
	if filepath.IsAbs(name) || clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.ErrPathTraversal(name)
	}

	return nil
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}

	return out
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}

	return append(list, item)
}

// emptyLoader resolves nothing. It stands in when no template directory
// exists so string templates still render.
type emptyLoader struct{}

func (emptyLoader) Abs(_, name string) string { return name }

func (emptyLoader) Get(path string) (io.Reader, error) {
	return nil, fmt.Errorf("template %s not found: no template directories", path)
}
