// Package errors provides the structured error type used across zen-temple.
//
// Rule violations found by the validator are never reported through this
// package; they are findings on a validation result. TempleError covers the
// failures around that: unreadable files, bad configuration, template render
// failures and scaffolding I/O.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeTemplate   ErrorType = "template"
	ErrorTypeInternal   ErrorType = "internal"
)

// TempleError is a structured error type with context.
type TempleError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Component   string
	FilePath    string
	Recoverable bool
}

// Error implements the error interface.
func (e *TempleError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *TempleError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *TempleError) Is(target error) bool {
	var t *TempleError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *TempleError) WithContext(key string, value interface{}) *TempleError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithFile adds file location information.
func (e *TempleError) WithFile(filePath string) *TempleError {
	e.FilePath = filePath

	return e
}

// WithComponent adds component context.
func (e *TempleError) WithComponent(component string) *TempleError {
	e.Component = component

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *TempleError {
	return &TempleError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *TempleError {
	return &TempleError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *TempleError {
	return &TempleError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewTemplateError creates a template parse or render error.
func NewTemplateError(code, message string, cause error) *TempleError {
	return &TempleError{
		Type:        ErrorTypeTemplate,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *TempleError {
	return &TempleError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var te *TempleError
	if errors.As(err, &te) {
		return te.Recoverable
	}

	return false
}

// IsType reports whether err is a TempleError of the given type.
func IsType(err error, errType ErrorType) bool {
	var te *TempleError
	if errors.As(err, &te) {
		return te.Type == errType
	}

	return false
}

// IsIOError checks if an error is I/O related.
func IsIOError(err error) bool {
	return IsType(err, ErrorTypeIO)
}

// IsConfigError checks if an error is configuration related.
func IsConfigError(err error) bool {
	return IsType(err, ErrorTypeConfig)
}

// ErrorHandler provides centralized error handling.
type ErrorHandler struct {
	logger Logger
}

// Logger interface for error logging.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs an error at a level matching its type.
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil || h.logger == nil {
		return
	}

	var te *TempleError
	if !errors.As(err, &te) {
		h.logger.Error(ctx, err, "Unhandled error occurred")

		return
	}

	fields := []interface{}{"type", te.Type, "code", te.Code}
	if te.FilePath != "" {
		fields = append(fields, "file", te.FilePath)
	}
	if te.Component != "" {
		fields = append(fields, "component", te.Component)
	}

	if te.Recoverable {
		h.logger.Warn(ctx, te, "Recoverable error occurred", fields...)

		return
	}
	h.logger.Error(ctx, te, "Error occurred", fields...)
}

// Common error codes.
const (
	ErrCodeInvalidPath       = "ERR_INVALID_PATH"
	ErrCodePathTraversal     = "ERR_PATH_TRAVERSAL"
	ErrCodeComponentNotFound = "ERR_COMPONENT_NOT_FOUND"
	ErrCodeComponentRead     = "ERR_COMPONENT_READ"
	ErrCodeConfigInvalid     = "ERR_CONFIG_INVALID"
	ErrCodeFileNotFound      = "ERR_FILE_NOT_FOUND"
	ErrCodeFileWrite         = "ERR_FILE_WRITE"
	ErrCodeTemplateRender    = "ERR_TEMPLATE_RENDER"
	ErrCodeInternalError     = "ERR_INTERNAL"
	ErrCodeValidationFailed  = "ERR_VALIDATION_FAILED"
)

// Helper functions for common errors

// ErrInvalidPath creates a path validation error.
func ErrInvalidPath(path string) *TempleError {
	return NewValidationError(ErrCodeInvalidPath, "invalid path: "+path)
}

// ErrPathTraversal creates a path traversal error.
func ErrPathTraversal(path string) *TempleError {
	return NewValidationError(ErrCodePathTraversal, "path traversal attempt: "+path)
}

// ErrComponentNotFound creates a component not found error.
func ErrComponentNotFound(name string) *TempleError {
	return NewValidationError(
		ErrCodeComponentNotFound,
		"component not found: "+name,
	)
}

// ErrComponentRead creates the I/O error returned when a component file
// cannot be read.
func ErrComponentRead(path string, cause error) *TempleError {
	return NewIOError(ErrCodeComponentRead, "cannot read component", cause).WithFile(path)
}

// ErrFileWrite creates the I/O error returned when a generated file cannot be
// written.
func ErrFileWrite(path string, cause error) *TempleError {
	return NewIOError(ErrCodeFileWrite, "cannot write file", cause).WithFile(path)
}
