package field

import (
	"errors"
	"fmt"
)

// ── Error kinds ──────────────────────────────────────────────────────────────

// Error kinds. Every *Error unwraps to exactly one of these, so callers test
// with errors.Is(err, field.ErrRequired).
var (
	// ErrConfiguration marks a malformed descriptor: a bad default, a bad
	// enum collection or a missing callback. It is a schema defect.
	ErrConfiguration = errors.New("invalid field configuration")

	// ErrRequired is returned when a non-nullable field ends up with no value.
	ErrRequired = errors.New("value is required")

	// ErrReadonly is returned when a populated readonly field is assigned again.
	ErrReadonly = errors.New("field is readonly")

	// ErrType is returned when a value does not match any declared shape.
	ErrType = errors.New("value has the wrong type")

	// ErrEnum is returned when a well-typed value is outside the enum set.
	ErrEnum = errors.New("value is not an allowed choice")

	// ErrInvalid is returned when the validator rejects a value or the
	// coercion itself fails.
	ErrInvalid = errors.New("value is invalid")

	// ErrUnresolved is returned when reading a field that was never stored.
	// On a constructed entity it points at a construction-order defect.
	ErrUnresolved = errors.New("field is unresolved")
)

// Error describes a failed field operation.
type Error struct {
	Kind    error  // one of the Err* kinds above, or shape.ErrUnsupportedShape
	Entity  string // owning type name
	Field   string // field name
	Message string // human readable detail
	Cause   error  // underlying error, if any (coerce failure, unsupported shape)
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s.%s: %s", e.Entity, e.Field, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func newError(kind error, entity, name, format string, args ...any) *Error {
	return &Error{Kind: kind, Entity: entity, Field: name, Message: fmt.Sprintf(format, args...)}
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func configErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
