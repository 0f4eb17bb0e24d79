package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gorichtext/pkg/runner"
)

const (
	wordFile  = "file"
	wordFiles = "files"
)

func plural(count int, singular, pluralForm string) string {
	if count == 1 {
		return singular
	}
	return pluralForm
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "5 changes (3 converted, 2 disallowed) in 2 files, 2 sanitized".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	var parts []string

	if stats.ChangesTotal == 0 {
		parts = append(parts, s.Success.Render("No changes needed")+
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed,
				plural(stats.FilesProcessed, wordFile, wordFiles))))
	} else {
		kinds := make([]string, 0, len(stats.ChangesByKind))
		for _, kind := range stats.Kinds() {
			kinds = append(kinds, fmt.Sprintf("%d %s", stats.ChangesByKind[kind], kind))
		}
		parts = append(parts, fmt.Sprintf("%d %s (%s) in %d %s",
			stats.ChangesTotal, plural(stats.ChangesTotal, "change", "changes"),
			strings.Join(kinds, ", "),
			stats.FilesChanged, plural(stats.FilesChanged, wordFile, wordFiles)))
	}

	if stats.FilesWritten > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d sanitized", stats.FilesWritten)))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s failed",
			stats.FilesErrored, plural(stats.FilesErrored, wordFile, wordFiles))))
	}

	return strings.Join(parts, ", ") + "\n"
}
