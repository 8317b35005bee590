package hvac

import (
	"errors"
	"strings"
)

var (
	// ErrValidation marks input that is empty, non-numeric or out of domain
	ErrValidation = errors.New("validation failed")

	// ErrArithmetic marks a derived value that cannot be computed (zero denominator, non-finite input)
	ErrArithmetic = errors.New("arithmetic error")

	// ErrNotFound marks an operation addressing a room or record that does not exist
	ErrNotFound = errors.New("not found")
)

// ValidationError lists the fields that failed a step or edit check
type ValidationError struct {
	Step   Step
	Fields []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation failed")
	if e.Step != "" {
		b.WriteString(" at step ")
		b.WriteString(string(e.Step))
	}
	if len(e.Fields) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Fields, ", "))
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
