package markup

import (
	"errors"
	"fmt"
)

// ErrMalformedMarkup is the category of every tokenizer failure.
var ErrMalformedMarkup = errors.New("malformed markup")

// MalformedMarkupError describes where tokenization failed.
type MalformedMarkupError struct {
	// Offset is the rune index into the input where the problem was found.
	Offset int

	// Reason describes the problem.
	Reason string
}

// Error implements the error interface.
func (e *MalformedMarkupError) Error() string {
	return fmt.Sprintf("malformed markup at offset %d: %s", e.Offset, e.Reason)
}

// Unwrap lets errors.Is match ErrMalformedMarkup.
func (e *MalformedMarkupError) Unwrap() error {
	return ErrMalformedMarkup
}

func malformed(offset int, format string, args ...any) error {
	return &MalformedMarkupError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
