package analysis

import (
	"time"

	"github.com/yaklabco/gorichtext/pkg/sanitize"
)

// Report contains pre-computed views of a sanitize run.
// Computed once by Analyze, used by all renderers.
type Report struct {
	// Changes is the flat list for detailed output.
	Changes []ChangeEntry `json:"changes,omitempty"`

	// ByFile groups changes by file path.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// ByTag groups changes by the element they were made to.
	ByTag []TagAnalysis `json:"byTag,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// ChangeEntry is a single change in the report.
type ChangeEntry struct {
	FilePath string              `json:"filePath"`
	Kind     sanitize.ChangeKind `json:"kind"`
	Context  sanitize.Context    `json:"context"`
	Block    int                 `json:"block"`
	Child    int                 `json:"child"`
	TagName  string              `json:"tagName"`
	Detail   string              `json:"detail,omitempty"`
	Message  string              `json:"message"`
}

// Counts splits a number of changes by kind.
type Counts struct {
	Changes            int `json:"changes"`
	Converted          int `json:"converted"`
	Disallowed         int `json:"disallowed"`
	RemovedEmpty       int `json:"removedEmpty"`
	StrippedAttributes int `json:"strippedAttributes"`
}

// Removals returns the number of elements removed outright.
func (c Counts) Removals() int {
	return c.Disallowed + c.RemovedEmpty
}

func (c *Counts) add(kind sanitize.ChangeKind) {
	c.Changes++
	switch kind {
	case sanitize.ChangeConverted:
		c.Converted++
	case sanitize.ChangeDisallowed:
		c.Disallowed++
	case sanitize.ChangeRemovedEmpty:
		c.RemovedEmpty++
	case sanitize.ChangeStrippedAttribute:
		c.StrippedAttributes++
	}
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Counts

	Files            int `json:"filesChecked"`
	FilesWithChanges int `json:"filesWithChanges"`
	FilesErrored     int `json:"filesErrored"`
}

// HasChanges returns true if there are any changes.
func (t Totals) HasChanges() bool {
	return t.Changes > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Counts

	Path string   `json:"path"`
	Tags []string `json:"tags,omitempty"`
}

// TagAnalysis contains aggregated data for a single element name.
type TagAnalysis struct {
	Counts

	TagName string   `json:"tagName"`
	Files   []string `json:"files,omitempty"`
}
