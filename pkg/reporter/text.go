package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gorichtext/internal/ui/pretty"
	"github.com/yaklabco/gorichtext/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to sanitize."))
		}
		return 0, nil
	}

	width := r.opts.lineWidth()
	var total int

	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)
		if file.Error != nil {
			fmt.Fprint(r.bw, r.styles.FormatFileError(path, file.Error))
			continue
		}
		if file.Result == nil {
			continue
		}
		if file.Result.Skipped {
			fmt.Fprintf(r.bw, "%s: %s\n", r.styles.FilePath.Render(path), r.styles.Warning.Render(file.Result.Summary()))
			continue
		}

		changes := file.Result.Changes
		if len(changes) == 0 {
			continue
		}

		header := r.styles.FormatFileHeader(path, len(changes))
		if file.Result.Written {
			header += r.styles.Success.Render(" " + file.Result.Summary())
		}
		fmt.Fprintln(r.bw, header)
		for _, change := range changes {
			fmt.Fprint(r.bw, r.styles.FormatChange(change, width))
			total++
		}
		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}
