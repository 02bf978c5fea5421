//go:build integration

package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/zen-temple/internal/registry"
	"github.com/conneroisu/zen-temple/internal/scanner"
	"github.com/conneroisu/zen-temple/internal/watcher"
)

func TestIntegration_WatcherScanner_FileChangeDetection(t *testing.T) {
	dir := t.TempDir()
	button := filepath.Join(dir, "button.html")
	require.NoError(t, os.WriteFile(button,
		[]byte(`{% macro button(text) export %}<button>{{ text }}</button>{% endmacro %}`), 0o644))

	reg := registry.NewComponentRegistry()
	sc := scanner.NewComponentScanner(reg)
	require.NoError(t, sc.ScanDirectory(dir))

	fw, err := watcher.NewFileWatcher(100 * time.Millisecond)
	require.NoError(t, err)
	defer fw.Stop()

	var scans int64
	fw.AddFilter(watcher.HTMLFilter)
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		atomic.AddInt64(&scans, 1)

		return sc.ScanDirectory(dir)
	})
	require.NoError(t, fw.AddPath(dir))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, fw.Start(ctx))

	require.NoError(t, os.WriteFile(button,
		[]byte(`{% macro button(text, disabled=false) export %}<button>{{ text }}</button>{% endmacro %}`), 0o644))

	require.Eventually(t, func() bool { return atomic.LoadInt64(&scans) > 0 }, 5*time.Second, 50*time.Millisecond)
	require.Eventually(t, func() bool {
		c, ok := reg.Get("button")

		return ok && len(c.Macros) == 1 && len(c.Macros[0].Parameters) == 2
	}, 5*time.Second, 50*time.Millisecond)

	c, _ := reg.Get("button")
	assert.Equal(t, "disabled", c.Macros[0].Parameters[1].Name)
	assert.Equal(t, "false", c.Macros[0].Parameters[1].Default)
}

func TestIntegration_WatcherScanner_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	fw, err := watcher.NewFileWatcher(50 * time.Millisecond)
	require.NoError(t, err)
	defer fw.Stop()

	var (
		mu    sync.Mutex
		paths = map[string]bool{}
	)
	fw.AddFilter(watcher.HTMLFilter)
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddHandler(func(changes []watcher.ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		for _, c := range changes {
			paths[filepath.Base(c.Path)] = true
		}

		return nil
	})
	require.NoError(t, fw.AddPath(dir))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, fw.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".draft.html"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "card.html"), []byte("<div></div>"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return paths["card.html"]
	}, 3*time.Second, 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, map[string]bool{"card.html": true}, paths, "only card.html passes the filters")
}
