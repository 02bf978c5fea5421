// Package validator checks component templates against the zen-temple
// conventions: logic lives in state classes, HTMX fetches data without
// swapping markup, and every component has a reactive root element.
package validator

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/conneroisu/zen-temple/internal/errors"
	"github.com/conneroisu/zen-temple/internal/logging"
)

// Severity of a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	// SeverityOff disables a rule when used as an override.
	SeverityOff Severity = "off"
)

// ParseSeverity converts an override value into a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch sev := Severity(strings.ToLower(strings.TrimSpace(s))); sev {
	case SeverityError, SeverityWarning, SeverityOff:
		return sev, nil
	default:
		return "", fmt.Errorf("unknown severity %q (expected error, warning or off)", s)
	}
}

// Strictness selects the severity profile.
type Strictness string

const (
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ParseStrictness converts a config value into a Strictness. Empty means
// standard.
func ParseStrictness(s string) (Strictness, error) {
	switch st := Strictness(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StrictnessStandard, nil
	case StrictnessStandard, StrictnessStrict:
		return st, nil
	default:
		return "", fmt.Errorf("unknown strictness %q (expected standard or strict)", s)
	}
}

// Finding is a single rule violation.
type Finding struct {
	Rule     string   `json:"rule"     yaml:"rule"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message"  yaml:"message"`
}

// ValidationResult is the outcome of validating one template.
type ValidationResult struct {
	IsValid  bool      `json:"is_valid"           yaml:"is_valid"`
	Errors   []string  `json:"errors"             yaml:"errors"`
	Warnings []string  `json:"warnings"           yaml:"warnings"`
	Source   string    `json:"source"             yaml:"source"`
	Findings []Finding `json:"findings,omitempty" yaml:"findings,omitempty"`
}

func newResult(source string, findings []Finding) ValidationResult {
	res := ValidationResult{
		Source:   source,
		Errors:   []string{},
		Warnings: []string{},
		Findings: findings,
	}
	for _, f := range findings {
		if f.Severity == SeverityError {
			res.Errors = append(res.Errors, f.Message)
		} else {
			res.Warnings = append(res.Warnings, f.Message)
		}
	}
	res.IsValid = len(res.Errors) == 0

	return res
}

// Options configures a Validator.
type Options struct {
	Strictness Strictness
	Overrides  map[string]Severity
	MaxSize    int
	Logger     logging.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithStrictness sets the severity profile.
func WithStrictness(s Strictness) Option {
	return func(o *Options) { o.Strictness = s }
}

// WithOverrides replaces the severity of individual rules by ID.
func WithOverrides(overrides map[string]Severity) Option {
	return func(o *Options) {
		for id, sev := range overrides {
			o.Overrides[id] = sev
		}
	}
}

// WithMaxSize sets the largest template accepted, in bytes.
func WithMaxSize(n int) Option {
	return func(o *Options) { o.MaxSize = n }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l logging.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// Validator applies the rule table to templates. It holds no mutable state
// after construction and is safe for concurrent use.
type Validator struct {
	rules   []activeRule
	maxSize int
	logger  logging.Logger
}

type activeRule struct {
	Rule
	severity Severity
}

// New builds a Validator. Unknown rule IDs or severities in overrides are
// rejected.
func New(opts ...Option) (*Validator, error) {
	o := Options{
		Strictness: StrictnessStandard,
		Overrides:  make(map[string]Severity),
		MaxSize:    DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = logging.NewNopLogger()
	}
	if o.Strictness == "" {
		o.Strictness = StrictnessStandard
	}
	if o.Strictness != StrictnessStandard && o.Strictness != StrictnessStrict {
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("unknown strictness %q", o.Strictness))
	}

	for id, sev := range o.Overrides {
		if !IsRule(id) {
			return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid,
				fmt.Sprintf("unknown rule %q in overrides", id))
		}
		if _, err := ParseSeverity(string(sev)); err != nil {
			return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, err.Error())
		}
	}

	v := &Validator{
		maxSize: o.MaxSize,
		logger:  o.Logger.WithComponent("validator"),
	}
	for _, r := range builtinRules {
		sev := r.Severity
		if o.Strictness == StrictnessStrict && r.StrictSeverity != "" {
			sev = r.StrictSeverity
		}
		if override, ok := o.Overrides[r.ID]; ok {
			sev = Severity(strings.ToLower(string(override)))
		}
		if sev == SeverityOff {
			continue
		}
		v.rules = append(v.rules, activeRule{Rule: r, severity: sev})
	}

	return v, nil
}

// Default returns a standard-strictness validator.
func Default() *Validator {
	v, _ := New()

	return v
}

// ValidateString validates template content. Malformed markup never causes
// an error; content that cannot be tokenized yields a single error finding.
func (v *Validator) ValidateString(content, source string) ValidationResult {
	doc, err := Parse(content, v.maxSize)
	if err != nil {
		reason := err.Error()
		if pe, ok := err.(*ParseError); ok {
			reason = pe.Reason
		}
		v.logger.Debug(context.Background(), "Template could not be parsed", "source", source, "reason", reason)

		return newResult(source, []Finding{{
			Rule:     RuleParse,
			Severity: SeverityError,
			Message:  "Unable to parse template: " + reason,
		}})
	}

	var findings []Finding
	for _, r := range v.rules {
		for _, msg := range r.Check(doc) {
			findings = append(findings, Finding{Rule: r.ID, Severity: r.severity, Message: msg})
		}
	}

	res := newResult(source, findings)
	v.logger.Debug(context.Background(), "Template validated",
		"source", source, "errors", len(res.Errors), "warnings", len(res.Warnings))

	return res
}

// ValidateComponent reads and validates a template file. The source
// identifier is the file name without extension.
func (v *Validator) ValidateComponent(path string) (ValidationResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return ValidationResult{}, errors.ErrComponentRead(path, err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return v.ValidateString(string(content), stem), nil
}

// FileResult pairs a validation result with the file it came from.
type FileResult struct {
	Path   string           `json:"path"   yaml:"path"`
	Result ValidationResult `json:"result" yaml:"result"`
}

// ValidateDirectory validates every .html file below dir in path order.
func (v *Validator) ValidateDirectory(dir string) ([]FileResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
			fmt.Sprintf("cannot read directory %s", dir), err).WithFile(dir)
	}
	if !info.IsDir() {
		return nil, errors.NewIOError(errors.ErrCodeInvalidPath,
			fmt.Sprintf("%s is not a directory", dir), nil).WithFile(dir)
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".html") {
			paths = append(paths, path)
		}

		return nil
	})
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
			fmt.Sprintf("failed to walk %s", dir), err).WithFile(dir)
	}
	sort.Strings(paths)

	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		res, err := v.ValidateComponent(path)
		if err != nil {
			return results, err
		}
		results = append(results, FileResult{Path: path, Result: res})
	}

	return results, nil
}
