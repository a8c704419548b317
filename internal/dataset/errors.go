package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput marks a malformed source table or an unusable argument
	// (missing key column, duplicate keys, non-numeric metric cells).
	ErrInvalidInput = errors.New("invalid input")

	// ErrSelectionOutOfRange marks a user selection that cannot be served:
	// too many districts, or a district/metric that does not exist.
	ErrSelectionOutOfRange = errors.New("selection out of range")
)

// InputError describes a single validation failure. Kind is one of the
// package sentinels so callers can use errors.Is.
type InputError struct {
	Kind    error  `json:"-"`
	Field   string `json:"field,omitempty"`
	Row     int    `json:"row,omitempty"` // 1-based record number, header = 1; empty lines are not counted. 0 when not row-specific
	Message string `json:"message"`
}

func (e *InputError) Error() string {
	var b strings.Builder
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	} else {
		b.WriteString(ErrInvalidInput.Error())
	}
	b.WriteString(": ")
	if e.Row > 0 {
		fmt.Fprintf(&b, "row %d: ", e.Row)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, "%q: ", e.Field)
	}
	b.WriteString(e.Message)
	return b.String()
}

func (e *InputError) Unwrap() error {
	if e.Kind == nil {
		return ErrInvalidInput
	}
	return e.Kind
}

// Invalid builds an InputError of kind ErrInvalidInput.
func Invalid(field string, row int, format string, args ...any) *InputError {
	return &InputError{Kind: ErrInvalidInput, Field: field, Row: row, Message: fmt.Sprintf(format, args...)}
}

// OutOfRange builds an InputError of kind ErrSelectionOutOfRange.
func OutOfRange(field string, format string, args ...any) *InputError {
	return &InputError{Kind: ErrSelectionOutOfRange, Field: field, Message: fmt.Sprintf(format, args...)}
}
