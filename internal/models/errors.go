package models

import "fmt"

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrMissingInput ErrorType = iota
	ErrCatalogParse
	ErrFileOp
	ErrInvalidConfig
	ErrSigning
	ErrOutput
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrMissingInput:
		return "MissingInput"
	case ErrCatalogParse:
		return "CatalogParse"
	case ErrFileOp:
		return "FileOp"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrSigning:
		return "Signing"
	case ErrOutput:
		return "Output"
	default:
		return "Unknown"
	}
}

// RepoError represents an error raised while maintaining the repository
type RepoError struct {
	Type    ErrorType
	Package string
	Err     error
}

// Error implements the error interface
func (e *RepoError) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Package, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *RepoError) Unwrap() error {
	return e.Err
}

// NewError wraps err with the given category.
func NewError(t ErrorType, err error) *RepoError {
	return &RepoError{Type: t, Err: err}
}
