package position

import (
	"fmt"

	"golang.org/x/net/html"
)

// RangeSource supplies the host's current selection.
type RangeSource interface {
	// CurrentRange returns the current range, or false when nothing is selected.
	CurrentRange() (Range, bool)
}

// RangeSourceFunc adapts a function to RangeSource.
type RangeSourceFunc func() (Range, bool)

// CurrentRange calls f.
func (f RangeSourceFunc) CurrentRange() (Range, bool) {
	return f()
}

// SavedPosition is a selection captured as absolute offsets over the
// flattened text of Anchor.
type SavedPosition struct {
	Anchor *html.Node
	Start  int
	End    int
}

// Session saves and restores the selection of one editing session across
// mutations of the tree below root. It is not safe for concurrent use.
type Session struct {
	root   *html.Node
	source RangeSource
	saved  *SavedPosition
}

// NewSession creates a session over root reading selections from source.
func NewSession(root *html.Node, source RangeSource) *Session {
	return &Session{root: root, source: source}
}

// Save captures the current range relative to the deepest node containing
// both of its endpoints. A later Save overwrites the earlier one.
func (s *Session) Save() error {
	current, ok := s.source.CurrentRange()
	if !ok {
		return ErrNoSelection
	}

	anchor := CommonAncestor(current.Start.Node, current.End.Node)
	if anchor == nil || !Contains(s.root, anchor) {
		return ErrNotInRoot
	}

	end, err := CaptureOffset(anchor, current.End.Node, current.End.Offset)
	if err != nil {
		return fmt.Errorf("capture end: %w", err)
	}
	start, err := CaptureOffset(anchor, current.Start.Node, current.Start.Offset)
	if err != nil {
		return fmt.Errorf("capture start: %w", err)
	}
	if start > end {
		start, end = end, start
	}

	s.saved = &SavedPosition{Anchor: anchor, Start: start, End: end}
	return nil
}

// Restore resolves the saved offsets against the current shape of the
// saved anchor and returns the range for the host to apply.
func (s *Session) Restore() (Range, error) {
	if s.saved == nil {
		return Range{}, ErrNothingSaved
	}
	if !Contains(s.root, s.saved.Anchor) {
		return Range{}, ErrAnchorDetached
	}
	return Select(s.saved.Anchor, s.saved.Start, s.saved.End)
}

// Saved returns the last saved position.
func (s *Session) Saved() (SavedPosition, bool) {
	if s.saved == nil {
		return SavedPosition{}, false
	}
	return *s.saved, true
}
