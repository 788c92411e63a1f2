package validators

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/km-arc/go-entob/framework/field"
	"github.com/km-arc/go-entob/framework/shape"
)

// Errors is a field → messages bag.
// JSON output: {"errors": {"field": ["msg1", "msg2"]}}
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

// Add appends a message for a field.
func (e *Errors) Add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Has returns true if there are any errors.
func (e *Errors) Has() bool { return len(e.Bag) > 0 }

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if msgs, ok := e.Bag[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Fields returns the fields with errors, sorted.
func (e *Errors) Fields() []string {
	out := make([]string, 0, len(e.Bag))
	for f := range e.Bag {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Bag))
	for _, f := range e.Fields() {
		parts = append(parts, f+": "+strings.Join(e.Bag[f], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FromError collects every *field.Error in err's tree into a bag. It
// returns nil when err holds no field error, so callers can tell input
// errors from internal ones.
//
//	if bag := validators.FromError(err); bag != nil {
//	    return response.ValidationError(w, bag)
//	}
func FromError(err error) *Errors {
	var bag Errors
	collect(err, &bag)
	if !bag.Has() {
		return nil
	}
	return &bag
}

// IsInput reports whether err is caused by bad input rather than a schema
// or wiring defect.
func IsInput(err error) bool {
	fe, ok := field.AsError(err)
	if !ok {
		return false
	}
	switch {
	case errors.Is(fe.Kind, field.ErrConfiguration),
		errors.Is(fe.Kind, field.ErrUnresolved),
		errors.Is(fe.Kind, shape.ErrUnsupportedShape):
		return false
	}
	return true
}

func collect(err error, bag *Errors) {
	switch x := err.(type) {
	case nil:
		return
	case *field.Error:
		bag.Add(x.Field, message(x))
		return
	case interface{ Unwrap() []error }:
		for _, e := range x.Unwrap() {
			collect(e, bag)
		}
		return
	}
	collect(errors.Unwrap(err), bag)
}

func message(fe *field.Error) string {
	switch {
	case errors.Is(fe.Kind, field.ErrRequired):
		return fmt.Sprintf("The %s field is required.", fe.Field)
	case errors.Is(fe.Kind, field.ErrReadonly):
		return fmt.Sprintf("The %s field cannot be changed.", fe.Field)
	case errors.Is(fe.Kind, field.ErrEnum):
		return fmt.Sprintf("The selected %s is invalid.", fe.Field)
	case errors.Is(fe.Kind, field.ErrType):
		return fmt.Sprintf("The %s has the wrong type.", fe.Field)
	case errors.Is(fe.Kind, field.ErrInvalid):
		return fmt.Sprintf("The %s is invalid.", fe.Field)
	}
	return fe.Message
}
