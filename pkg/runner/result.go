package runner

import (
	"slices"

	"github.com/samber/lo"

	"github.com/yaklabco/gorichtext/pkg/sanitize"
)

// FileOutcome is the result or error of one file.
type FileOutcome struct {
	Path   string
	Result *FileResult
	Error  error
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesSkipped    int
	FilesErrored    int

	// FilesChanged counts files whose output differs from what is on disk.
	FilesChanged int

	// FilesWritten counts files rewritten in fix mode.
	FilesWritten int

	ChangesTotal  int
	ChangesByKind map[sanitize.ChangeKind]int
}

// Result is the overall outcome of a run. Files are in path order.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasChanges reports whether any file would change or was changed.
func (r *Result) HasChanges() bool {
	return r != nil && r.Stats.FilesChanged > 0
}

// HasErrors reports whether any file failed.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// Kinds returns the change kinds seen in the run in sorted order.
func (s Stats) Kinds() []sanitize.ChangeKind {
	kinds := lo.Keys(s.ChangesByKind)
	slices.Sort(kinds)
	return kinds
}

func newResult(discovered int) *Result {
	return &Result{
		Files: make([]FileOutcome, 0, discovered),
		Stats: Stats{
			FilesDiscovered: discovered,
			ChangesByKind:   make(map[sanitize.ChangeKind]int),
		},
	}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	fr := outcome.Result
	r.Stats.FilesProcessed++
	if fr.Skipped {
		r.Stats.FilesSkipped++
	}
	if fr.Modified {
		r.Stats.FilesChanged++
	}
	if fr.Written {
		r.Stats.FilesWritten++
	}

	r.Stats.ChangesTotal += len(fr.Changes)
	for _, change := range fr.Changes {
		r.Stats.ChangesByKind[change.Kind]++
	}
}
