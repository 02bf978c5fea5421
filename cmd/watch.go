package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/zen-temple/internal/errors"
	"github.com/conneroisu/zen-temple/internal/registry"
	"github.com/conneroisu/zen-temple/internal/scanner"
	"github.com/conneroisu/zen-temple/internal/types"
	"github.com/conneroisu/zen-temple/internal/validator"
	"github.com/conneroisu/zen-temple/internal/watcher"
)

// watchSession mirrors the watched templates in a component registry.
// File changes update the registry and every registry event it emits is
// reported: added or updated components are re-validated, removed ones are
// announced.
type watchSession struct {
	validator *validator.Validator
	registry  *registry.ComponentRegistry
	scanner   *scanner.ComponentScanner
	errs      *errors.ErrorHandler
	events    <-chan types.ComponentEvent
	out       io.Writer

	dirs  []string
	files map[string]string // explicit template -> directory holding it

	mu sync.Mutex
}

func newWatchSession(ctx context.Context, v *validator.Validator, roots []string, w io.Writer, log errors.Logger) (*watchSession, error) {
	reg := registry.NewComponentRegistry()
	s := &watchSession{
		validator: v,
		registry:  reg,
		scanner:   scanner.NewComponentScanner(reg),
		errs:      errors.NewErrorHandler(log),
		out:       w,
		files:     make(map[string]string),
	}

	for _, root := range roots {
		path, err := watchPath(root)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", root, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			log.Warn(ctx, err, "not watching missing path", "path", root)

			continue
		}
		if info.IsDir() {
			if err := s.scanner.ScanDirectory(path); err != nil {
				return nil, fmt.Errorf("scanning %s: %w", root, err)
			}
			s.dirs = append(s.dirs, path)

			continue
		}
		dir := filepath.Dir(path)
		if err := s.scanner.ScanFile(dir, path); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", root, err)
		}
		s.files[path] = dir
	}
	s.events = reg.Watch()

	return s, nil
}

// watchPath keeps paths relative to the working directory so hidden parent
// directories do not trip the watcher's filters. Paths leaving it are made
// absolute.
func watchPath(path string) (string, error) {
	path = filepath.Clean(path)
	if path == ".." || strings.HasPrefix(path, ".."+string(filepath.Separator)) {
		return filepath.Abs(path)
	}

	return path, nil
}

func (s *watchSession) close() {
	s.registry.UnWatch(s.events)
}

// rootFor returns the directory component names under path are relative to.
func (s *watchSession) rootFor(path string) (string, bool) {
	if dir, ok := s.files[path]; ok {
		return dir, true
	}
	best := ""
	for _, dir := range s.dirs {
		within := strings.HasPrefix(path, dir+string(filepath.Separator))
		if dir == "." {
			within = !filepath.IsAbs(path) && !strings.HasPrefix(path, "..")
		}
		if within && len(dir) > len(best) {
			best = dir
		}
	}

	return best, best != ""
}

func (s *watchSession) accepts(path string) bool {
	_, ok := s.rootFor(filepath.Clean(path))

	return ok
}

func (s *watchSession) handle(ctx context.Context, changes []watcher.ChangeEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, change := range changes {
		path := filepath.Clean(change.Path)
		switch change.Type {
		case watcher.EventTypeDeleted, watcher.EventTypeRenamed:
			s.registry.RemoveByPath(path)
		default:
			root, ok := s.rootFor(path)
			if !ok {
				continue
			}
			if err := s.scanner.ScanFile(root, path); err != nil {
				s.errs.Handle(ctx, errors.ErrComponentRead(path, err))
			}
		}
		s.drain()
	}

	for _, cycle := range s.registry.DetectCircularDependencies() {
		fmt.Fprintf(s.out, "    Error: Circular dependency: %s\n", strings.Join(cycle, " -> "))
	}

	return nil
}

// drain reports the events queued by the last registry mutation.
func (s *watchSession) drain() {
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				return
			}
			s.report(ev)
		default:
			return
		}
	}
}

func (s *watchSession) report(ev types.ComponentEvent) {
	switch ev.Type {
	case types.EventTypeRemoved:
		fmt.Fprintf(s.out, "- %s removed\n", ev.Component.Name)
	default:
		writeReport(s.out, validateFile(s.validator, ev.Component.Name, ev.Component.FilePath))
	}
}

// watchAndValidate re-validates changed templates below roots until the
// command's context is cancelled or the process is interrupted.
func watchAndValidate(cmd *cobra.Command, v *validator.Validator, roots []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := newWatchSession(ctx, v, roots, out(cmd), logger)
	if err != nil {
		return err
	}
	defer session.close()

	fw, err := watcher.NewFileWatcher(watcher.DefaultDelay, watcher.WithLogger(logger))
	if err != nil {
		return err
	}
	defer fw.Stop()

	for _, dir := range session.dirs {
		if err := fw.AddRecursive(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	for _, dir := range session.files {
		if err := fw.AddPath(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	fw.AddFilter(watcher.HTMLFilter)
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddFilter(session.accepts)
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		return session.handle(ctx, events)
	})

	if err := fw.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out(cmd), "Watching for changes. Press Ctrl+C to stop.")
	<-ctx.Done()

	return nil
}
