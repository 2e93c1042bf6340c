package pdf

import (
	"errors"
	"fmt"
)

// ErrInvalidDocument matches every DocumentError via errors.Is
var ErrInvalidDocument = errors.New("invalid document")

// ErrorType categorizes why a document was rejected
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeNotAFile
	ErrorTypeEmpty
	ErrorTypeTooLarge
	ErrorTypeUndecodable
)

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	case ErrorTypeNotAFile:
		return "NOT_A_FILE"
	case ErrorTypeEmpty:
		return "EMPTY"
	case ErrorTypeTooLarge:
		return "TOO_LARGE"
	case ErrorTypeUndecodable:
		return "UNDECODABLE"
	default:
		return "UNKNOWN"
	}
}

// DocumentError is a fatal input error: the supplied bytes or file cannot
// be turned into pages. It aborts the whole extraction.
type DocumentError struct {
	Type    ErrorType
	Message string
	Path    string
	Err     error
}

func newDocumentError(errorType ErrorType, path, message string, err error) *DocumentError {
	return &DocumentError{
		Type:    errorType,
		Message: message,
		Path:    path,
		Err:     err,
	}
}

// Error implements the error interface
func (e *DocumentError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidDocument
func (e *DocumentError) Is(target error) bool {
	return target == ErrInvalidDocument
}
