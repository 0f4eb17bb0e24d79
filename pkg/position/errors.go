package position

import (
	"errors"
	"fmt"
)

// Sentinel errors for position mapping.
var (
	// ErrPositionNotFound indicates an offset outside the flattened text.
	ErrPositionNotFound = errors.New("position not found")

	// ErrNotInRoot indicates a node that is not the root or one of its descendants.
	ErrNotInRoot = errors.New("node is not inside root")

	// ErrInvalidOffset indicates a local offset outside its container.
	ErrInvalidOffset = errors.New("invalid offset")

	// ErrInvalidPath indicates a child-index path that does not address a node.
	ErrInvalidPath = errors.New("invalid node path")

	// ErrNothingSaved indicates Restore was called without a prior Save.
	ErrNothingSaved = errors.New("no saved position")

	// ErrNoSelection indicates the range source had no current range.
	ErrNoSelection = errors.New("no current selection")

	// ErrAnchorDetached indicates the saved anchor node left the session root.
	ErrAnchorDetached = errors.New("saved anchor is no longer attached")
)

// PositionNotFoundError reports offsets that cannot be mapped onto a text node.
type PositionNotFoundError struct {
	Start  int
	End    int
	Length int
}

// Error implements the error interface.
func (e *PositionNotFoundError) Error() string {
	return fmt.Sprintf("%s: range [%d, %d] over %d characters",
		ErrPositionNotFound, e.Start, e.End, e.Length)
}

// Unwrap returns ErrPositionNotFound.
func (e *PositionNotFoundError) Unwrap() error {
	return ErrPositionNotFound
}
