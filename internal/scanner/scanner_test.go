package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/zen-temple/internal/registry"
	"github.com/conneroisu/zen-temple/internal/types"
)

func writeTemplates(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestNewComponentScanner(t *testing.T) {
	reg := registry.NewComponentRegistry()
	scanner := NewComponentScanner(reg)

	assert.NotNil(t, scanner)
	assert.Equal(t, reg, scanner.GetRegistry())
	assert.GreaterOrEqual(t, scanner.workers, 1)
	assert.LessOrEqual(t, scanner.workers, maxWorkers)
}

func TestAnalyze(t *testing.T) {
	content := `<!-- Counter Component -
     class-based state -->
{% import "components/button.html" button %}
{% macro counter(initial_count=0, label="Count, total", items=[1, 2]) export %}
<div x-data="new CounterState({{ initial_count }})">{{ button(label) }}</div>
{% endmacro %}
{% macro helper(x) %}{{ x }}{% endmacro %}
{% include 'partials/footer.html' %}
{% include "partials/footer.html" %}`

	c := Analyze(content)

	assert.Equal(t, "Counter Component - class-based state", c.Description)
	assert.Equal(t, []string{"components/button", "partials/footer"}, c.Dependencies)
	require.Len(t, c.Macros, 2)

	assert.Equal(t, types.MacroInfo{
		Name: "counter",
		Parameters: []types.ParameterInfo{
			{Name: "initial_count", Default: "0"},
			{Name: "label", Default: `"Count, total"`},
			{Name: "items", Default: "[1, 2]"},
		},
		Exported: true,
	}, c.Macros[0])
	assert.Equal(t, "helper", c.Macros[1].Name)
	assert.False(t, c.Macros[1].Exported)
	assert.False(t, c.Macros[1].Parameters[0].Optional())
}

func TestAnalyzeWithoutMetadata(t *testing.T) {
	c := Analyze(`<div>{{ comment }}</div> <!-- not leading -->`)
	assert.Empty(t, c.Macros)
	assert.Empty(t, c.Dependencies)
	assert.Empty(t, c.Description)
}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	writeTemplates(t, root, map[string]string{
		"index.html":              `{% extends "layouts/base.html" %}{% import "components/counter.html" counter %}`,
		"layouts/base.html":       `<html>{% block content %}{% endblock %}</html>`,
		"components/counter.html": `{% macro counter(n=0) export %}<div></div>{% endmacro %}`,
		"components/notes.md":     `# ignored`,
		".cache/hidden.html":      `<div></div>`,
	})

	reg := registry.NewComponentRegistry()
	require.NoError(t, NewComponentScanner(reg).ScanDirectory(root))

	var names []string
	for _, c := range reg.GetAll() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"components/counter", "index", "layouts/base"}, names)

	index, ok := reg.Get("index")
	require.True(t, ok)
	assert.Equal(t, []string{"layouts/base", "components/counter"}, index.Dependencies)
	assert.Equal(t, filepath.Join(root, "index.html"), index.FilePath)
	assert.Equal(t, filepath.Clean(root), index.Root)
	assert.NotEmpty(t, index.Hash)
	assert.False(t, index.LastMod.IsZero())

	assert.Empty(t, reg.MissingDependencies())
	assert.Empty(t, reg.DetectCircularDependencies())
}

func TestScanDirectoryManyFiles(t *testing.T) {
	root := t.TempDir()
	files := make(map[string]string)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		files["components/"+name+".html"] = `<div x-data="new S()"></div>`
	}
	writeTemplates(t, root, files)

	reg := registry.NewComponentRegistry()
	require.NoError(t, NewComponentScanner(reg).ScanDirectory(root))
	assert.Equal(t, len(files), reg.Count())
}

func TestScanDirectoryErrors(t *testing.T) {
	reg := registry.NewComponentRegistry()
	scanner := NewComponentScanner(reg)

	assert.Error(t, scanner.ScanDirectory(""))
	assert.Error(t, scanner.ScanDirectory("../outside"))
	assert.Error(t, scanner.ScanDirectory(filepath.Join(t.TempDir(), "missing")))
}

func TestScanFile(t *testing.T) {
	root := t.TempDir()
	writeTemplates(t, root, map[string]string{"components/card.html": `<!-- Card --><div></div>`})

	reg := registry.NewComponentRegistry()
	scanner := NewComponentScanner(reg)
	require.NoError(t, scanner.ScanFile(root, filepath.Join(root, "components", "card.html")))

	card, ok := reg.Get("components/card")
	require.True(t, ok)
	assert.Equal(t, "Card", card.Description)

	err := scanner.ScanFile(root, filepath.Join(t.TempDir(), "elsewhere.html"))
	assert.Error(t, err)
}

func TestComponentName(t *testing.T) {
	name, err := ComponentName("templates", filepath.Join("templates", "components", "todo.html"))
	require.NoError(t, err)
	assert.Equal(t, "components/todo", name)

	_, err = ComponentName("templates", filepath.Join("static", "x.html"))
	assert.Error(t, err)
}
