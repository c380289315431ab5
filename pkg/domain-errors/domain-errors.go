package domainerrors

import "errors"

// Code represents a domain error category independent of how the caller
// surfaces it (exit code, log line, test assertion).
type Code string

const (
	// CodeSourceNotFound: a named input source is missing or unreadable.
	CodeSourceNotFound Code = "source_not_found"
	// CodeMalformedSource: a source was read but is not the expected JSON shape.
	CodeMalformedSource Code = "malformed_source"
	// CodeBadFormat: a present but malformed mandatory date. Aborts the batch.
	CodeBadFormat Code = "bad_format"
	// CodeDataIntegrity: reference data is inconsistent with a record
	// (e.g. a country code absent from the country table).
	CodeDataIntegrity Code = "data_integrity"
	CodeInvalidInput  Code = "invalid_input"
	CodeInternal      Code = "internal_error"
)

// Error wraps domain or infrastructure failures with a stable code.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the outermost domain code in the chain, or CodeInternal
// for errors that never crossed a domain boundary.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
