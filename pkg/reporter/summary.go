package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/gorichtext/internal/ui/pretty"
	"github.com/yaklabco/gorichtext/pkg/analysis"
	"github.com/yaklabco/gorichtext/pkg/runner"
)

// Table layout for summary output. Both tables share a width.
const (
	tableWidth     = 90
	tagColWidth    = 20
	fileColWidth   = 40
	numColWidth    = 9
	maxTagLength   = 18
	maxPathLength  = 38
	ellipsis       = "…"
	separatorGlyph = "─"
)

// padRight pads s to width display cells. Call it before styling so ANSI
// escapes do not count toward the width.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// padLeft pads s to width display cells on the left.
func padLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}

// SummaryReporter formats results as per-tag and per-file change tables.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	analysisOpts := analysis.DefaultOptions()
	analysisOpts.IncludeChanges = false
	analysisOpts.WorkingDir = r.opts.WorkingDir
	if r.opts.SortBy.IsValid() {
		analysisOpts.SortBy = r.opts.SortBy
	}
	report := analysis.Analyze(result, analysisOpts)

	if !report.Totals.HasChanges() {
		if report.Totals.FilesErrored > 0 {
			r.renderTotals(report.Totals)
			return 0, nil
		}
		fmt.Fprintln(r.bw, r.styles.Success.Render("No changes needed"))
		return 0, nil
	}

	r.renderTagTable(report.ByTag)
	fmt.Fprintln(r.bw)
	r.renderFileTable(report.ByFile)
	fmt.Fprintln(r.bw)
	r.renderTotals(report.Totals)

	return report.Totals.Changes, nil
}

func (r *SummaryReporter) separator() {
	fmt.Fprintln(r.bw, r.styles.TableSeparator.Render(strings.Repeat(separatorGlyph, tableWidth)))
}

func (r *SummaryReporter) header(first string, firstWidth int) {
	cols := []string{r.styles.TableHeader.Render(padRight(first, firstWidth))}
	for _, name := range []string{"Changes", "Converted", "Removed", "Empty", "Attrs"} {
		cols = append(cols, r.styles.TableHeader.Render(padLeft(name, numColWidth)))
	}
	fmt.Fprintln(r.bw, strings.Join(cols, " "))
}

func (r *SummaryReporter) row(name string, counts analysis.Counts) {
	cols := []string{name}
	for _, n := range []int{counts.Changes, counts.Converted, counts.Disallowed, counts.RemovedEmpty, counts.StrippedAttributes} {
		cols = append(cols, padLeft(strconv.Itoa(n), numColWidth))
	}
	fmt.Fprintln(r.bw, strings.Join(cols, " "))
}

// styledName highlights rows where content was dropped.
func (r *SummaryReporter) styledName(padded string, counts analysis.Counts) string {
	switch {
	case counts.Disallowed > 0:
		return r.styles.Error.Render(padded)
	case counts.Removals() > 0:
		return r.styles.TableWarnRow.Render(padded)
	default:
		return padded
	}
}

func (r *SummaryReporter) renderTagTable(tags []analysis.TagAnalysis) {
	if len(tags) == 0 {
		return
	}

	fmt.Fprintln(r.bw, r.styles.Bold.Render("Tags Summary"))
	r.separator()
	r.header("Tag", tagColWidth)
	r.separator()

	for _, tag := range tags {
		name := runewidth.Truncate("<"+tag.TagName+">", maxTagLength, ellipsis)
		r.row(r.styledName(padRight(name, tagColWidth), tag.Counts), tag.Counts)
	}
}

func (r *SummaryReporter) renderFileTable(files []analysis.FileAnalysis) {
	if len(files) == 0 {
		return
	}

	fmt.Fprintln(r.bw, r.styles.Bold.Render("Files Summary"))
	r.separator()
	r.header("File", fileColWidth)
	r.separator()

	for _, file := range files {
		path := file.Path
		if runewidth.StringWidth(path) > maxPathLength {
			path = ellipsis + truncateLeft(path, maxPathLength-1)
		}
		r.row(r.styledName(padRight(path, fileColWidth), file.Counts), file.Counts)
	}
}

// truncateLeft keeps the last width cells of s.
func truncateLeft(s string, width int) string {
	runes := []rune(s)
	used := 0
	start := len(runes)
	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if used+w > width {
			break
		}
		used += w
		start--
	}
	return string(runes[start:])
}

func (r *SummaryReporter) renderTotals(totals analysis.Totals) {
	parts := []string{fmt.Sprintf("%d %s", totals.Changes, pluralize(totals.Changes, "change", "changes"))}

	var breakdown []string
	if totals.Converted > 0 {
		breakdown = append(breakdown, fmt.Sprintf("%d converted", totals.Converted))
	}
	if totals.Removals() > 0 {
		breakdown = append(breakdown, r.styles.Warning.Render(fmt.Sprintf("%d removed", totals.Removals())))
	}
	if totals.StrippedAttributes > 0 {
		breakdown = append(breakdown, fmt.Sprintf("%d stripped attributes", totals.StrippedAttributes))
	}
	if len(breakdown) > 0 {
		parts[0] += " (" + strings.Join(breakdown, ", ") + ")"
	}

	parts = append(parts, fmt.Sprintf("in %d of %d %s",
		totals.FilesWithChanges, totals.Files, pluralize(totals.Files, "file", "files")))
	if totals.FilesErrored > 0 {
		parts = append(parts, r.styles.Error.Render(fmt.Sprintf("(%d failed)", totals.FilesErrored)))
	}

	fmt.Fprintln(r.bw, r.styles.Bold.Render("Total: ")+strings.Join(parts, " "))
}
