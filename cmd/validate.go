package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/zen-temple/internal/config"
	"github.com/conneroisu/zen-temple/internal/registry"
	"github.com/conneroisu/zen-temple/internal/scanner"
	"github.com/conneroisu/zen-temple/internal/validator"
)

var (
	validateStrict bool
	validateFormat string
	validateWatch  bool
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate [path...]",
	Short: "Validate components against the zen-temple conventions",
	Long: `Validate component templates for:

- Inline scripts holding logic outside state classes
- Inline on<event> handlers instead of Alpine.js @event bindings
- Object literals or bare identifiers as x-data root state
- HTMX requests that swap markup instead of syncing JSON into state
- Missing root elements and full HTML documents
- Circular template dependencies (when validating the whole project)

With no paths, every component under the configured template directories is
validated. Paths may be files or directories. The command exits non-zero when
any component has errors.

Examples:
  zen-temple validate
  zen-temple validate templates/components/counter.html
  zen-temple validate templates --strict --format json
  zen-temple validate --watch`,
	RunE: runValidateCommand,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Report inline object literal state as an error")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format (text, json)")
	validateCmd.Flags().BoolVarP(&validateWatch, "watch", "w", false, "Re-validate changed components until interrupted")

	AddFlagValidation(validateCmd.Flags(), "format", func(format string) error {
		return ValidateChoice("output format", format, validateFormats)
	})
}

// ComponentReport is the validation outcome for one component.
type ComponentReport struct {
	Component string   `json:"component"`
	Path      string   `json:"path"`
	Valid     bool     `json:"valid"`
	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings"`
}

// ValidationSummary aggregates the reports of one run.
type ValidationSummary struct {
	Total          int               `json:"total"`
	Valid          int               `json:"valid"`
	Invalid        int               `json:"invalid"`
	CircularCycles [][]string        `json:"circular_cycles,omitempty"`
	Results        []ComponentReport `json:"results"`
}

func (s *ValidationSummary) add(r ComponentReport) {
	s.Results = append(s.Results, r)
	s.Total++
	if r.Valid {
		s.Valid++
	} else {
		s.Invalid++
	}
}

func runValidateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	v, err := newValidator(cfg, validateStrict)
	if err != nil {
		return err
	}

	var (
		summary *ValidationSummary
		roots   []string
	)
	if len(args) == 0 {
		roots = projectRoots(cfg.Templates.Directories)
		summary, err = validateProject(cmd, v, roots)
	} else {
		roots = args
		summary, err = validatePaths(v, args)
	}
	if err != nil {
		return err
	}

	if err := writeSummary(out(cmd), summary, validateFormat); err != nil {
		return err
	}

	if validateWatch {
		return watchAndValidate(cmd, v, roots)
	}
	if summary.Invalid > 0 {
		return fmt.Errorf("validation failed: %d invalid components", summary.Invalid)
	}

	return nil
}

// newValidator builds a validator from the validation section, with --strict
// taking precedence over the configured strictness.
func newValidator(cfg *config.Config, strict bool) (*validator.Validator, error) {
	opts, err := cfg.Validation.ValidatorOptions()
	if err != nil {
		return nil, fmt.Errorf("invalid validation config: %w", err)
	}
	if strict {
		opts = append(opts, validator.WithStrictness(validator.StrictnessStrict))
	}
	opts = append(opts, validator.WithLogger(logger))

	return validator.New(opts...)
}

// projectRoots drops directories nested inside another configured
// directory, so each template is registered once under its full name.
func projectRoots(dirs []string) []string {
	cleaned := make([]string, 0, len(dirs))
	for _, d := range dirs {
		cleaned = append(cleaned, filepath.Clean(d))
	}

	var roots []string
	for _, d := range cleaned {
		nested := false
		for _, other := range cleaned {
			if other != d && strings.HasPrefix(d, other+string(filepath.Separator)) {
				nested = true

				break
			}
		}
		if !nested && !contains(roots, d) {
			roots = append(roots, d)
		}
	}

	return roots
}

func contains(list []string, item string) bool {
	for _, s := range list {
		if s == item {
			return true
		}
	}

	return false
}

// validateProject scans the template roots, validates every component and
// reports circular dependencies as errors on each participant.
func validateProject(cmd *cobra.Command, v *validator.Validator, roots []string) (*ValidationSummary, error) {
	reg := registry.NewComponentRegistry()
	sc := scanner.NewComponentScanner(reg)

	for _, root := range roots {
		if err := ValidateDirExists(root); err != nil {
			logger.Warn(cmd.Context(), err, "skipping template directory", "dir", root)

			continue
		}
		if err := sc.ScanDirectory(root); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}
	}

	summary := &ValidationSummary{Results: []ComponentReport{}}
	cycles := reg.DetectCircularDependencies()
	inCycle := make(map[string][]string)
	for _, cycle := range cycles {
		for _, name := range cycle[:len(cycle)-1] {
			inCycle[name] = append(inCycle[name], strings.Join(cycle, " -> "))
		}
	}
	missing := reg.MissingDependencies()

	for _, comp := range reg.GetAll() {
		report := validateFile(v, comp.Name, comp.FilePath)
		for _, dep := range missing[comp.Name] {
			report.Warnings = append(report.Warnings, "Missing dependency: "+dep)
		}
		for _, cycle := range inCycle[comp.Name] {
			report.Errors = append(report.Errors, "Circular dependency: "+cycle)
			report.Valid = false
		}
		summary.add(report)
	}
	summary.CircularCycles = cycles

	return summary, nil
}

// validatePaths validates explicit files and directories.
func validatePaths(v *validator.Validator, paths []string) (*ValidationSummary, error) {
	summary := &ValidationSummary{Results: []ComponentReport{}}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("path does not exist: %s", path)
		}

		if !info.IsDir() {
			summary.add(validateFile(v, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), path))

			continue
		}

		files, err := v.ValidateDirectory(path)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			name, err := scanner.ComponentName(path, f.Path)
			if err != nil {
				name = f.Result.Source
			}
			summary.add(reportFor(name, f.Path, f.Result))
		}
	}

	return summary, nil
}

func validateFile(v *validator.Validator, name, path string) ComponentReport {
	res, err := v.ValidateComponent(path)
	if err != nil {
		return ComponentReport{
			Component: name,
			Path:      path,
			Errors:    []string{err.Error()},
			Warnings:  []string{},
		}
	}

	return reportFor(name, path, res)
}

func reportFor(name, path string, res validator.ValidationResult) ComponentReport {
	return ComponentReport{
		Component: name,
		Path:      path,
		Valid:     res.IsValid,
		Errors:    append([]string{}, res.Errors...),
		Warnings:  append([]string{}, res.Warnings...),
	}
}

func writeSummary(w io.Writer, summary *ValidationSummary, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(summary)
	case "text", "":
		writeSummaryText(w, summary)

		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeSummaryText(w io.Writer, summary *ValidationSummary) {
	if summary.Total == 0 {
		fmt.Fprintln(w, "No components found to validate")

		return
	}

	fmt.Fprintf(w, "Validation Summary:\n")
	fmt.Fprintf(w, "  Total components: %d\n", summary.Total)
	fmt.Fprintf(w, "  Valid: %d\n", summary.Valid)
	fmt.Fprintf(w, "  Invalid: %d\n", summary.Invalid)
	if len(summary.CircularCycles) > 0 {
		fmt.Fprintf(w, "  Circular dependencies detected: %d cycles\n", len(summary.CircularCycles))
	}
	fmt.Fprintln(w)

	if len(summary.CircularCycles) > 0 {
		fmt.Fprintln(w, "Circular Dependencies:")
		for i, cycle := range summary.CircularCycles {
			fmt.Fprintf(w, "  Cycle %d: %s\n", i+1, strings.Join(cycle, " -> "))
		}
		fmt.Fprintln(w)
	}

	for _, report := range summary.Results {
		writeReport(w, report)
	}

	if summary.Invalid == 0 {
		fmt.Fprintln(w, "✓ All components are valid!")
	}
}

func writeReport(w io.Writer, report ComponentReport) {
	status := "✓"
	if !report.Valid {
		status = "✗"
	}
	fmt.Fprintf(w, "%s %s\n", status, report.Component)

	for _, err := range report.Errors {
		fmt.Fprintf(w, "    Error: %s\n", err)
	}
	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "    Warning: %s\n", warning)
	}
	if len(report.Errors) > 0 || len(report.Warnings) > 0 {
		fmt.Fprintln(w)
	}
}
