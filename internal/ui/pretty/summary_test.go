package pretty_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gorichtext/internal/ui/pretty"
	"github.com/yaklabco/gorichtext/pkg/runner"
	"github.com/yaklabco/gorichtext/pkg/sanitize"
)

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name:  "no changes",
			stats: runner.Stats{FilesProcessed: 1},
			want:  "No changes needed (1 file checked)\n",
		},
		{
			name: "changes by kind",
			stats: runner.Stats{
				FilesProcessed: 3,
				FilesChanged:   2,
				ChangesTotal:   5,
				ChangesByKind: map[sanitize.ChangeKind]int{
					sanitize.ChangeDisallowed: 2,
					sanitize.ChangeConverted:  3,
				},
			},
			want: "5 changes (3 converted, 2 disallowed) in 2 files\n",
		},
		{
			name: "written skipped and failed",
			stats: runner.Stats{
				FilesProcessed: 2,
				FilesChanged:   1,
				FilesWritten:   1,
				FilesSkipped:   1,
				FilesErrored:   1,
				ChangesTotal:   1,
				ChangesByKind:  map[sanitize.ChangeKind]int{sanitize.ChangeRemovedEmpty: 1},
			},
			want: "1 change (1 removed-empty) in 1 file, 1 sanitized, 1 skipped, 1 file failed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats))
		})
	}
}

func TestFormatChange(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	change := sanitize.Change{
		Kind:    sanitize.ChangeConverted,
		Context: sanitize.ContextInner,
		Block:   2,
		Child:   0,
		TagName: "strong",
		Detail:  "b",
	}

	assert.Equal(t, "  block 2.0  converted  converted <strong> to <b>\n", styles.FormatChange(change, 0))

	root := sanitize.Change{Kind: sanitize.ChangeDisallowed, Context: sanitize.ContextOuter, Block: 1, Child: -1, TagName: "div"}
	assert.Equal(t, "block 1", pretty.FormatLocation(root))

	narrow := styles.FormatChange(sanitize.Change{
		Kind:    sanitize.ChangeStrippedAttribute,
		Block:   0,
		Child:   -1,
		TagName: "p",
		Detail:  "data-a-very-long-attribute-name-that-will-not-fit",
	}, 40)
	assert.Contains(t, narrow, "…")
}

func TestFormatFileHeader(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "a.html", styles.FormatFileHeader("a.html", 0))
	assert.Equal(t, "a.html (1 change)", styles.FormatFileHeader("a.html", 1))
	assert.Equal(t, "a.html (3 changes)", styles.FormatFileHeader("a.html", 3))
	assert.Equal(t, "a.html: error: boom\n", styles.FormatFileError("a.html", errors.New("boom")))
}
