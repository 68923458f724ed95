// Package apperr defines the expected failure kinds of the task engine.
// Anything that does not unwrap to one of the kinds below is an
// infrastructure failure.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrConflict          = errors.New("conflict")
	ErrInvalidState      = errors.New("invalid state")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrValidationFailed  = errors.New("validation failed")
)

// Error carries a kind plus the details a caller needs to explain it.
type Error struct {
	Kind error
	Msg  string

	// Entity and ID are set for NotFound.
	Entity string
	ID     string

	// From and To are set for InvalidTransition.
	From string
	To   string

	// Fields is set for ValidationFailed: field name -> message.
	Fields map[string]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Kind }

func NotFound(entity string, id any) error {
	idStr := fmt.Sprint(id)
	return &Error{
		Kind:   ErrNotFound,
		Msg:    fmt.Sprintf("%s not found: %s", entity, idStr),
		Entity: entity,
		ID:     idStr,
	}
}

// Unauthorized always carries the same message so a denial reveals nothing
// about the resource.
func Unauthorized() error {
	return &Error{Kind: ErrUnauthorized, Msg: "you don't have access to this resource"}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Msg: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...any) error {
	return &Error{Kind: ErrInvalidState, Msg: fmt.Sprintf(format, args...)}
}

func InvalidTransition(from, to string) error {
	return &Error{
		Kind: ErrInvalidTransition,
		Msg:  fmt.Sprintf("invalid status transition: %s -> %s", from, to),
		From: from,
		To:   to,
	}
}

func Validation(fields map[string]string) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return &Error{
		Kind:   ErrValidationFailed,
		Msg:    "validation failed: " + strings.Join(parts, "; "),
		Fields: fields,
	}
}

// ValidationField is shorthand for a single failing field.
func ValidationField(field, msg string) error {
	return Validation(map[string]string{field: msg})
}

// As extracts the *Error from err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsExpected reports whether err is one of the typed kinds.
func IsExpected(err error) bool {
	_, ok := As(err)
	return ok
}
