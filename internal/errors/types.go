// Package errors provides the structured error taxonomy used across
// plategen. Every failure surfaced by an editor, manifest, or workspace
// operation is a *PlategenError carrying a type, a stable code, and the
// underlying cause, so callers can branch on errors.Is/As instead of
// string matching.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeSchema     ErrorType = "schema"
	ErrorTypeTemplate   ErrorType = "template"
	ErrorTypeArchive    ErrorType = "archive"
	ErrorTypeRegistry   ErrorType = "registry"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// PlategenError is a structured error type with context.
type PlategenError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Component   string
	FilePath    string
	Recoverable bool
}

// Error implements the error interface.
func (e *PlategenError) Error() string {
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
func (e *PlategenError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison by type and code.
func (e *PlategenError) Is(target error) bool {
	var t *PlategenError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithFile adds the file path the operation was acting on.
func (e *PlategenError) WithFile(path string) *PlategenError {
	e.FilePath = path

	return e
}

// WithComponent adds component context.
func (e *PlategenError) WithComponent(component string) *PlategenError {
	e.Component = component

	return e
}

// Error creation functions

// NewIOError creates an I/O error for a missing or unwritable path.
func NewIOError(code, message string, cause error) *PlategenError {
	return &PlategenError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewSchemaError creates a manifest schema error.
func NewSchemaError(code, message string) *PlategenError {
	return &PlategenError{
		Type:        ErrorTypeSchema,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewTemplateError creates a template parse/render error.
func NewTemplateError(code, message string, cause error) *PlategenError {
	return &PlategenError{
		Type:        ErrorTypeTemplate,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewArchiveError creates a zip export error.
func NewArchiveError(code, message string, cause error) *PlategenError {
	return &PlategenError{
		Type:        ErrorTypeArchive,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewRegistryError creates a version registry lookup error.
func NewRegistryError(code, message string) *PlategenError {
	return &PlategenError{
		Type:        ErrorTypeRegistry,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *PlategenError {
	return &PlategenError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *PlategenError {
	return &PlategenError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *PlategenError {
	return &PlategenError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var pe *PlategenError
	if errors.As(err, &pe) {
		return pe.Recoverable
	}

	return false
}

// IsType checks whether an error belongs to the given category.
func IsType(err error, t ErrorType) bool {
	var pe *PlategenError
	if errors.As(err, &pe) {
		return pe.Type == t
	}

	return false
}

// Common error codes.
const (
	ErrCodeFileNotFound    = "ERR_FILE_NOT_FOUND"
	ErrCodeFileWrite       = "ERR_FILE_WRITE"
	ErrCodeInvalidPath     = "ERR_INVALID_PATH"
	ErrCodeManifestSchema  = "ERR_MANIFEST_SCHEMA"
	ErrCodeManifestDecode  = "ERR_MANIFEST_DECODE"
	ErrCodeTemplateParse   = "ERR_TEMPLATE_PARSE"
	ErrCodeTemplateRender  = "ERR_TEMPLATE_RENDER"
	ErrCodeArchiveFailed   = "ERR_ARCHIVE_FAILED"
	ErrCodeUnknownPackage  = "ERR_UNKNOWN_PACKAGE"
	ErrCodeBlueprintParse  = "ERR_BLUEPRINT_PARSE"
	ErrCodeConfigInvalid   = "ERR_CONFIG_INVALID"
	ErrCodeSessionNotFound = "ERR_SESSION_NOT_FOUND"
	ErrCodeInternalError   = "ERR_INTERNAL"
)

// Helper functions for common errors

// ErrFileNotFound creates an I/O error for a missing file.
func ErrFileNotFound(path string, cause error) *PlategenError {
	return NewIOError(ErrCodeFileNotFound, "file not found", cause).WithFile(path)
}

// ErrFileWrite creates an I/O error for a failed write.
func ErrFileWrite(path string, cause error) *PlategenError {
	return NewIOError(ErrCodeFileWrite, "write failed", cause).WithFile(path)
}

// ErrManifestSchema creates a schema error for a manifest missing an
// expected map.
func ErrManifestSchema(path, field string) *PlategenError {
	return NewSchemaError(
		ErrCodeManifestSchema,
		"manifest missing required field: "+field,
	).WithFile(path)
}

// ErrUnknownPackage creates a registry error for a package with no known
// version.
func ErrUnknownPackage(name string) *PlategenError {
	return NewRegistryError(ErrCodeUnknownPackage, "unknown package: "+name)
}

// ErrSessionNotFound creates a validation error for a session id with no
// workspace directory.
func ErrSessionNotFound(id string) *PlategenError {
	return NewValidationError(ErrCodeSessionNotFound, "session not found: "+id)
}
