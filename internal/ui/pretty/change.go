package pretty

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/gorichtext/pkg/sanitize"
)

// minMessageWidth keeps messages readable on very narrow terminals.
const minMessageWidth = 20

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, changeCount int) string {
	header := s.FilePath.Render(path)
	switch changeCount {
	case 0:
	case 1:
		header += s.Dim.Render(" (1 change)")
	default:
		header += s.Dim.Render(fmt.Sprintf(" (%d changes)", changeCount))
	}
	return header
}

// FormatLocation renders where a change happened, e.g. "block 2" or
// "block 2.3" for the fourth child of the third block.
func FormatLocation(change sanitize.Change) string {
	if change.Child < 0 {
		return fmt.Sprintf("block %d", change.Block)
	}
	return fmt.Sprintf("block %d.%d", change.Block, change.Child)
}

// FormatChange formats one sanitizer change as an indented line. The
// message is truncated so the line fits within width columns; width 0
// disables truncation.
func (s *Styles) FormatChange(change sanitize.Change, width int) string {
	location := FormatLocation(change)
	kind := string(change.Kind)
	message := change.String()

	if width > 0 {
		used := 2 + runewidth.StringWidth(location) + 2 + runewidth.StringWidth(kind) + 2
		room := max(width-used, minMessageWidth)
		message = runewidth.Truncate(message, room, "…")
	}

	var builder strings.Builder
	builder.WriteString("  ")
	builder.WriteString(s.Location.Render(location))
	builder.WriteString("  ")
	builder.WriteString(s.Kind.Render(kind))
	builder.WriteString("  ")
	builder.WriteString(s.Message.Render(message))
	builder.WriteString("\n")
	return builder.String()
}

// FormatFileError formats a file that could not be processed.
func (s *Styles) FormatFileError(path string, err error) string {
	return fmt.Sprintf("%s: %s\n", s.FilePath.Render(path), s.Error.Render(fmt.Sprintf("error: %v", err)))
}
