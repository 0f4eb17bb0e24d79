package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gorichtext/pkg/runner"
	"github.com/yaklabco/gorichtext/pkg/sanitize"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path       string            `json:"path"`
	OutputPath string            `json:"outputPath,omitempty"`
	Format     string            `json:"format,omitempty"`
	Blocks     int               `json:"blocks"`
	Changes    []sanitize.Change `json:"changes"`
	Modified   bool              `json:"modified"`
	Written    bool              `json:"written,omitempty"`
	Skipped    string            `json:"skipped,omitempty"`
	Diff       string            `json:"diff,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked  int                         `json:"filesChecked"`
	FilesChanged  int                         `json:"filesChanged"`
	FilesWritten  int                         `json:"filesWritten"`
	FilesSkipped  int                         `json:"filesSkipped"`
	FilesErrored  int                         `json:"filesErrored"`
	TotalChanges  int                         `json:"totalChanges"`
	ChangesByKind map[sanitize.ChangeKind]int `json:"changesByKind"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	encoder.SetEscapeHTML(false)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalChanges, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{ChangesByKind: make(map[sanitize.ChangeKind]int)},
	}
	if result == nil {
		return output
	}

	for _, file := range result.Files {
		entry := JSONFileResult{
			Path:    r.opts.displayPath(file.Path),
			Changes: make([]sanitize.Change, 0),
		}

		if file.Error != nil {
			entry.Error = file.Error.Error()
		}
		if fr := file.Result; fr != nil {
			entry.OutputPath = r.opts.displayPath(fr.OutputPath)
			entry.Format = string(fr.Format)
			entry.Blocks = fr.Blocks
			entry.Changes = append(entry.Changes, fr.Changes...)
			entry.Modified = fr.Modified
			entry.Written = fr.Written
			entry.Skipped = fr.SkipReason
			entry.Diff = fr.Diff.String()
		}

		output.Files = append(output.Files, entry)
	}

	stats := result.Stats
	output.Summary.FilesChecked = stats.FilesProcessed
	output.Summary.FilesChanged = stats.FilesChanged
	output.Summary.FilesWritten = stats.FilesWritten
	output.Summary.FilesSkipped = stats.FilesSkipped
	output.Summary.FilesErrored = stats.FilesErrored
	output.Summary.TotalChanges = stats.ChangesTotal
	for kind, count := range stats.ChangesByKind {
		output.Summary.ChangesByKind[kind] = count
	}

	return output
}
