package reporter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/gorichtext/internal/ui/pretty"
	"github.com/yaklabco/gorichtext/pkg/runner"
	"github.com/yaklabco/gorichtext/pkg/textdiff"
)

// DiffReporter formats results as unified diffs in git style.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Report implements Reporter. It returns the number of files with diffs.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		return 0, nil
	}

	var filesWithDiffs, totalAdditions, totalDeletions int

	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprint(r.out, r.styles.FormatFileError(r.opts.displayPath(file.Path), file.Error))
			continue
		}
		if file.Result == nil || !file.Result.Diff.HasChanges() {
			continue
		}

		diff := file.Result.Diff
		filesWithDiffs++
		totalAdditions += diff.Additions
		totalDeletions += diff.Deletions
		r.writeDiff(diff)
	}

	if filesWithDiffs > 0 && r.opts.ShowSummary {
		r.writeSummary(filesWithDiffs, totalAdditions, totalDeletions)
	}

	return filesWithDiffs, nil
}

func (r *DiffReporter) writeDiff(diff *textdiff.Diff) {
	displayPath := r.opts.displayPath(diff.Path)

	fmt.Fprintln(r.out, r.styles.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", displayPath, displayPath)))
	fmt.Fprintln(r.out, r.styles.DiffRemove.Render("--- a/"+displayPath))
	fmt.Fprintln(r.out, r.styles.DiffAdd.Render("+++ b/"+displayPath))

	for _, line := range diff.Lines() {
		switch line.Kind {
		case textdiff.LineFileHeader:
			continue
		case textdiff.LineHunk:
			fmt.Fprintln(r.out, r.styles.DiffHunk.Render(line.Text))
		case textdiff.LineAdd:
			fmt.Fprintln(r.out, r.styles.DiffAdd.Render(line.Text))
		case textdiff.LineRemove:
			fmt.Fprintln(r.out, r.styles.DiffRemove.Render(line.Text))
		case textdiff.LineContext:
			fmt.Fprintln(r.out, r.styles.DiffContext.Render(line.Text))
		}
	}

	fmt.Fprintln(r.out)
}

func (r *DiffReporter) writeSummary(files, additions, deletions int) {
	parts := []string{fmt.Sprintf("%d %s changed", files, pluralize(files, "file", "files"))}
	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(
			fmt.Sprintf("%d %s(+)", additions, pluralize(additions, "insertion", "insertions"))))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(
			fmt.Sprintf("%d %s(-)", deletions, pluralize(deletions, "deletion", "deletions"))))
	}
	fmt.Fprintln(r.out, strings.Join(parts, ", "))
}

func pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
