// Package scanner discovers zen-temple component templates.
//
// The scanner walks template directories for .html files and extracts the
// metadata the registry needs: macro definitions with their parameters,
// references to other templates through extends, include, import and from,
// and the leading HTML comment as a description. Files are processed by a
// bounded pool of workers and hashed with CRC32 for change detection.
package scanner

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/conneroisu/zen-temple/internal/registry"
	"github.com/conneroisu/zen-temple/internal/types"
)

// Extension of component template files.
const Extension = ".html"

// maxWorkers caps the scan pool; benefits flatten beyond this.
const maxWorkers = 8

// ScanResult is the outcome of scanning one file.
type ScanResult struct {
	filePath string
	err      error
}

// ComponentScanner discovers templates and registers them.
type ComponentScanner struct {
	registry *registry.ComponentRegistry
	workers  int
}

// NewComponentScanner creates a scanner that registers into reg.
func NewComponentScanner(reg *registry.ComponentRegistry) *ComponentScanner {
	workers := runtime.NumCPU()
	if workers > maxWorkers {
		workers = maxWorkers
	}

	return &ComponentScanner{registry: reg, workers: workers}
}

// GetRegistry returns the component registry
func (s *ComponentScanner) GetRegistry() *registry.ComponentRegistry {
	return s.registry
}

// ScanDirectory registers every .html file below dir. Component names are
// relative to dir.
func (s *ComponentScanner) ScanDirectory(dir string) error {
	root, err := validatePath(dir)
	if err != nil {
		return fmt.Errorf("invalid directory path: %w", err)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}

			return nil
		}
		if filepath.Ext(path) == Extension {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(files)

	return s.processBatch(root, files)
}

// processBatch scans files with a bounded set of goroutines.
func (s *ComponentScanner) processBatch(root string, files []string) error {
	if len(files) == 0 {
		return nil
	}

	jobs := make(chan string)
	results := make(chan ScanResult, len(files))

	workers := s.workers
	if workers > len(files) {
		workers = len(files)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- ScanResult{filePath: path, err: s.scanFile(root, path)}
			}
		}()
	}

	for _, f := range files {
		jobs <- f
	}
	close(jobs)
	wg.Wait()
	close(results)

	var errs []error
	for result := range results {
		if result.err != nil {
			errs = append(errs, fmt.Errorf("scanning %s: %w", result.filePath, result.err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("scan completed with %d errors: %w", len(errs), errs[0])
	}

	return nil
}

// ScanFile registers a single template. The component name is its path
// relative to root.
func (s *ComponentScanner) ScanFile(root, path string) error {
	cleanRoot, err := validatePath(root)
	if err != nil {
		return fmt.Errorf("invalid root: %w", err)
	}

	return s.scanFile(cleanRoot, path)
}

func (s *ComponentScanner) scanFile(root, path string) error {
	cleanPath, err := validatePath(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("getting file info for %s: %w", cleanPath, err)
	}
	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return fmt.Errorf("reading file %s: %w", cleanPath, err)
	}

	name, err := ComponentName(root, cleanPath)
	if err != nil {
		return err
	}

	component := Analyze(string(content))
	component.Name = name
	component.FilePath = cleanPath
	component.Root = root
	component.LastMod = info.ModTime()
	component.Hash = fmt.Sprintf("%x", crc32.ChecksumIEEE(content))

	s.registry.Register(component)

	return nil
}

// ComponentName derives the registry name of path under root:
// templates/components/counter.html under templates is "components/counter".
func ComponentName(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("resolving %s against %s: %w", path, root, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside %s", path, root)
	}

	return strings.TrimSuffix(filepath.ToSlash(rel), Extension), nil
}

var (
	macroPattern = regexp.MustCompile(`\{%-?\s*macro\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)\s*(export)?\s*-?%\}`)
	refPattern   = regexp.MustCompile(`\{%-?\s*(?:extends|include|import|from)\s+["']([^"']+)["']`)
	commentStart = regexp.MustCompile(`^\s*<!--([\s\S]*?)-->`)
)

// Analyze extracts macros, dependencies and description from template
// source. Name, paths and hash are left for the caller.
func Analyze(content string) *types.ComponentInfo {
	component := &types.ComponentInfo{}

	for _, m := range macroPattern.FindAllStringSubmatch(content, -1) {
		component.Macros = append(component.Macros, types.MacroInfo{
			Name:       m[1],
			Parameters: parseParameters(m[2]),
			Exported:   m[3] != "",
		})
	}

	seen := make(map[string]bool)
	for _, m := range refPattern.FindAllStringSubmatch(content, -1) {
		dep := strings.TrimSuffix(filepath.ToSlash(filepath.Clean(m[1])), Extension)
		if !seen[dep] {
			seen[dep] = true
			component.Dependencies = append(component.Dependencies, dep)
		}
	}

	if m := commentStart.FindStringSubmatch(content); m != nil {
		component.Description = strings.Join(strings.Fields(m[1]), " ")
	}

	return component
}

// parseParameters splits "a, b=1, c='x'" into parameters. Defaults are kept
// as written.
func parseParameters(list string) []types.ParameterInfo {
	var params []types.ParameterInfo
	for _, part := range splitTopLevel(list) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, def, _ := strings.Cut(part, "=")
		params = append(params, types.ParameterInfo{
			Name:    strings.TrimSpace(name),
			Default: strings.TrimSpace(def),
		})
	}

	return params
}

// splitTopLevel splits on commas outside brackets and quotes.
func splitTopLevel(s string) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[' || c == '{' || c == '(':
			depth++
		case c == ']' || c == '}' || c == ')':
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}

	return append(parts, s[start:])
}

// validatePath cleans a path and rejects traversal outside its start.
func validatePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path")
	}
	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) && (cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator))) {
		return "", fmt.Errorf("path contains directory traversal: %s", path)
	}

	return cleanPath, nil
}
