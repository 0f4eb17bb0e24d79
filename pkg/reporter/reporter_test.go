package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorichtext/pkg/analysis"
	"github.com/yaklabco/gorichtext/pkg/reporter"
	"github.com/yaklabco/gorichtext/pkg/runner"
	"github.com/yaklabco/gorichtext/pkg/sanitize"
	"github.com/yaklabco/gorichtext/pkg/textdiff"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "diff", input: "diff", want: reporter.FormatDiff},
		{name: "summary", input: "summary", want: reporter.FormatSummary},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, format := range []reporter.Format{reporter.FormatText, reporter.FormatJSON, reporter.FormatDiff, reporter.FormatSummary, ""} {
		rep, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: format, Color: "never"})
		require.NoError(t, err)
		assert.NotNil(t, rep)
	}

	rep, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: "xml"})
	require.Error(t, err)
	assert.Nil(t, rep)
}

func TestTextReporter_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Contains(t, buf.String(), "No files to sanitize")
}

func TestTextReporter_WithChanges(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		WorkingDir:  "/work",
	})

	count, err := rep.Report(context.Background(), createTestResult(t))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	output := buf.String()
	assert.Contains(t, output, "docs/a.html (2 changes)\n")
	assert.Contains(t, output, "  block 0.0  converted  converted <strong> to <b>\n")
	assert.Contains(t, output, "  block 1  disallowed  removed <div>: not allowed in outer context\n")
	assert.Contains(t, output, "broken.html: error: tokenize failure")
	assert.NotContains(t, output, "clean.html")
	assert.Contains(t, output, "2 changes (1 converted, 1 disallowed) in 1 file, 1 file failed")
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, WorkingDir: "/work"})

	count, err := rep.Report(context.Background(), createTestResult(t))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	assert.Equal(t, "1.0.0", output.Version)
	require.Len(t, output.Files, 3)
	assert.Equal(t, "docs/a.html", output.Files[0].Path)
	assert.Len(t, output.Files[0].Changes, 2)
	assert.True(t, output.Files[0].Modified)
	assert.Contains(t, output.Files[0].Diff, "+<p><b>x</b></p>")
	assert.Contains(t, output.Files[1].Error, "tokenize failure")
	assert.Empty(t, output.Files[2].Changes)
	assert.Equal(t, 2, output.Summary.TotalChanges)
	assert.Equal(t, 1, output.Summary.ChangesByKind[sanitize.ChangeConverted])
	assert.Contains(t, buf.String(), `"kind": "converted"`)
}

func TestJSONReporter_NilAndCompact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Empty(t, output.Files)
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewDiffReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true, WorkingDir: "/work"})

	count, err := rep.Report(context.Background(), createTestResult(t))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	output := buf.String()
	assert.Contains(t, output, "diff --git a/docs/a.html b/docs/a.html\n--- a/docs/a.html\n+++ b/docs/a.html\n")
	assert.Contains(t, output, "-<p><strong>x</strong></p><div>y</div>\n")
	assert.Contains(t, output, "+<p><b>x</b></p>\n")
	assert.Equal(t, 1, strings.Count(output, "--- a/"), "original file headers are replaced")
	assert.Contains(t, output, "1 file changed, 1 insertion(+), 1 deletion(-)")
}

func TestDiffReporter_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	count, err := reporter.NewDiffReporter(reporter.Options{Writer: &buf, Color: "never"}).Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, buf.String())
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := reporter.DefaultOptions()
	assert.NotNil(t, opts.Writer)
	assert.Equal(t, reporter.FormatText, opts.Format)
	assert.Equal(t, "auto", opts.Color)
	assert.True(t, opts.ShowSummary)
	assert.False(t, opts.Compact)
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewSummaryReporter(reporter.Options{Writer: &buf, Color: "never", WorkingDir: "/work"})

	count, err := rep.Report(context.Background(), createTestResult(t))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	output := buf.String()
	assert.Contains(t, output, "Tags Summary\n")
	assert.Contains(t, output, "Files Summary\n")
	assert.Contains(t, output, "<div>                        1         0         1         0         0\n")
	assert.Less(t, strings.Index(output, "<div>"), strings.Index(output, "<strong>"))
	assert.Contains(t, output, "docs/a.html")
	assert.NotContains(t, output, "clean.html")
	assert.Contains(t, output, "Total: 2 changes (1 converted, 1 removed) in 1 of 3 files (1 failed)\n")
}

func TestSummaryReporter_NoChanges(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewSummaryReporter(reporter.Options{Writer: &buf, Color: "never", SortBy: analysis.SortByAlpha})

	count, err := rep.Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, "No changes needed\n", buf.String())
}

func TestSummaryReporter_LongPath(t *testing.T) {
	t.Parallel()

	long := "/work/" + strings.Repeat("nested/", 10) + "page.html"
	result := &runner.Result{Files: []runner.FileOutcome{{
		Path: long,
		Result: &runner.FileResult{Changes: []sanitize.Change{
			{Kind: sanitize.ChangeStrippedAttribute, Context: sanitize.ContextInner, TagName: "a", Detail: "onclick"},
		}},
	}}}

	var buf bytes.Buffer
	rep := reporter.NewSummaryReporter(reporter.Options{Writer: &buf, Color: "never", WorkingDir: "/work"})
	_, err := rep.Report(context.Background(), result)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "…nested/nested/nested/nested/page.html")
	assert.Contains(t, output, "1 stripped attributes")
}

func createTestResult(t *testing.T) *runner.Result {
	t.Helper()

	original := []byte("<p><strong>x</strong></p><div>y</div>\n")
	output := []byte("<p><b>x</b></p>\n")
	diff, err := textdiff.Generate("/work/docs/a.html", original, output)
	require.NoError(t, err)

	changes := []sanitize.Change{
		{Kind: sanitize.ChangeConverted, Context: sanitize.ContextInner, Block: 0, Child: 0, TagName: "strong", Detail: "b"},
		{Kind: sanitize.ChangeDisallowed, Context: sanitize.ContextOuter, Block: 1, Child: -1, TagName: "div"},
	}

	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path: "/work/docs/a.html",
				Result: &runner.FileResult{
					Path:       "/work/docs/a.html",
					OutputPath: "/work/docs/a.html",
					Format:     runner.FormatHTML,
					Blocks:     2,
					Changes:    changes,
					Output:     output,
					Modified:   true,
					Diff:       diff,
				},
			},
			{
				Path:  "/work/broken.html",
				Error: errors.Join(runner.ErrTokenize, errors.New("unexpected '<'")),
			},
			{
				Path: "/work/clean.html",
				Result: &runner.FileResult{
					Path:       "/work/clean.html",
					OutputPath: "/work/clean.html",
					Format:     runner.FormatHTML,
					Blocks:     1,
					Output:     []byte("<p>ok</p>\n"),
				},
			},
		},
		Stats: runner.Stats{
			FilesDiscovered: 3,
			FilesProcessed:  2,
			FilesErrored:    1,
			FilesChanged:    1,
			ChangesTotal:    2,
			ChangesByKind: map[sanitize.ChangeKind]int{
				sanitize.ChangeConverted:  1,
				sanitize.ChangeDisallowed: 1,
			},
		},
	}
}
