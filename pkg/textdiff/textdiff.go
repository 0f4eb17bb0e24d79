// Package textdiff produces git-style unified diffs between the original
// and sanitized content of a file.
package textdiff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// ContextLines is the number of unchanged lines shown around each change.
const ContextLines = 3

// LineKind classifies one line of a unified diff.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdd
	LineRemove
	LineHunk
	LineFileHeader
)

// Line is one line of a unified diff without its trailing newline.
type Line struct {
	Kind LineKind
	Text string
}

// Diff is a unified diff of one file.
type Diff struct {
	Path      string
	Unified   string
	Additions int
	Deletions int
	Hunks     int
}

// Generate returns the unified diff between original and modified, or nil
// when they are identical.
func Generate(path string, original, modified []byte) (*Diff, error) {
	if string(original) == string(modified) {
		return nil, nil //nolint:nilnil // No diff for identical content.
	}

	name := strings.TrimPrefix(path, "/")
	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(modified)),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  ContextLines,
	})
	if err != nil {
		return nil, fmt.Errorf("diff %s: %w", path, err)
	}
	if unified == "" {
		return nil, nil //nolint:nilnil // Only a trailing newline differed.
	}

	diff := &Diff{Path: path, Unified: unified}
	for _, line := range diff.Lines() {
		switch line.Kind {
		case LineAdd:
			diff.Additions++
		case LineRemove:
			diff.Deletions++
		case LineHunk:
			diff.Hunks++
		case LineContext, LineFileHeader:
		}
	}
	return diff, nil
}

// HasChanges reports whether the diff contains any hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && d.Hunks > 0
}

// GitHeader returns the "diff --git" line for the file.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	name := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", name, name)
}

// String returns the unified diff without the git header.
func (d *Diff) String() string {
	if d == nil {
		return ""
	}
	return d.Unified
}

// FullString returns the diff including the git header.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.Unified
}

// Lines splits the diff into classified lines.
func (d *Diff) Lines() []Line {
	if d == nil {
		return nil
	}

	raw := strings.Split(strings.TrimSuffix(d.Unified, "\n"), "\n")
	lines := make([]Line, 0, len(raw))
	for idx, text := range raw {
		lines = append(lines, Line{Kind: classify(idx, text), Text: text})
	}
	return lines
}

func classify(idx int, text string) LineKind {
	switch {
	case idx < 2 && (strings.HasPrefix(text, "--- ") || strings.HasPrefix(text, "+++ ")):
		return LineFileHeader
	case strings.HasPrefix(text, "@@"):
		return LineHunk
	case strings.HasPrefix(text, "+"):
		return LineAdd
	case strings.HasPrefix(text, "-"):
		return LineRemove
	default:
		return LineContext
	}
}
