package errors

import "fmt"

// Type categorizes engine errors so callers can map them onto the right
// boundary behavior (abort the batch vs. record-level outcome).
type Type int

const (
	// TypeSpecNotFound - entity metadata missing from the graph catalogue.
	// Fatal for the operation that needed the spec.
	TypeSpecNotFound Type = iota
	// TypeGraphConnection - graph store unreachable at startup or mid-operation.
	TypeGraphConnection
	// TypeVertexInsert - a single vertex write failed. Recorded as a
	// per-record outcome, never aborts the batch.
	TypeVertexInsert
	// TypeValidation - malformed input, e.g. a record missing its unique key.
	TypeValidation
	// TypeInternal - unexpected internal state.
	TypeInternal
)

// Error is a typed engine error with optional key/value context.
type Error struct {
	Type    Type
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on error type, so errors.Is(err, &Error{Type: TypeSpecNotFound})
// works across wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithContext attaches a key/value pair for logging.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Fatal reports whether this error aborts the whole batch call rather than
// becoming a per-record outcome.
func (e *Error) Fatal() bool {
	return e.Type == TypeSpecNotFound || e.Type == TypeGraphConnection || e.Type == TypeInternal
}

// New creates a typed error.
func New(t Type, message string) *Error {
	return &Error{Type: t, Message: message}
}

// Wrap wraps a cause with a typed message. Returns nil for a nil cause.
func Wrap(err error, t Type, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Type: t, Message: message, Cause: err}
}

// SpecNotFoundf creates a spec-resolution error.
func SpecNotFoundf(format string, args ...any) *Error {
	return New(TypeSpecNotFound, fmt.Sprintf(format, args...))
}

// GraphConnectionError wraps a store connectivity failure.
func GraphConnectionError(err error, message string) *Error {
	return Wrap(err, TypeGraphConnection, message)
}

// VertexInsertError wraps a single-record write failure.
func VertexInsertError(err error, message string) *Error {
	return Wrap(err, TypeVertexInsert, message)
}

// ValidationErrorf creates an input validation error.
func ValidationErrorf(format string, args ...any) *Error {
	return New(TypeValidation, fmt.Sprintf(format, args...))
}

// IsType reports whether err (or anything it wraps) is a typed engine error
// of the given type.
func IsType(err error, t Type) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Type == t {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// GetType returns the type of a typed error, or TypeInternal for plain errors.
func GetType(err error) Type {
	if e, ok := err.(*Error); ok {
		return e.Type
	}
	return TypeInternal
}
