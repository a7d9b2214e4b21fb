package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for type checking
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrExport       = errors.New("export failed")
)

// NotFoundError indicates a resource doesn't exist.
type NotFoundError struct {
	Resource string // "person", "language", "config"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError indicates invalid user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// ExportError wraps any failure while rendering or saving an image.
// Users only ever see one generic message for it; Cause is for logs.
type ExportError struct {
	Stage string // "render" or "write"
	Cause error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export failed during %s: %v", e.Stage, e.Cause)
}

// Is lets errors.Is match both ErrExport and the underlying cause.
func (e *ExportError) Is(target error) bool {
	return target == ErrExport
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// Helper constructors for common cases

func PersonNotFound(id int) error {
	return &NotFoundError{Resource: "person", ID: fmt.Sprintf("%d", id)}
}

func LanguageNotFound(code string) error {
	return &NotFoundError{Resource: "language", ID: code}
}

func InvalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func EmptyRoster() error {
	return &ValidationError{Field: "names", Message: "the list has no names"}
}

func RenderFailed(cause error) error {
	return &ExportError{Stage: "render", Cause: cause}
}

func WriteFailed(cause error) error {
	return &ExportError{Stage: "write", Cause: cause}
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsExportError checks if an error came from image export.
func IsExportError(err error) bool {
	return errors.Is(err, ErrExport)
}
