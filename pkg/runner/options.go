// Package runner sanitizes many files concurrently through a safety
// pipeline of atomic writes, backups and concurrent-modification checks.
package runner

import (
	"strings"

	"github.com/samber/lo"

	"github.com/yaklabco/gorichtext/pkg/fsutil"
)

// Options controls a multi-file run.
type Options struct {
	// Paths are files or directories to process. Empty means ".".
	Paths []string

	// WorkingDir resolves relative Paths and anchors Ignore patterns.
	// Empty means the process working directory.
	WorkingDir string

	// Extensions are the lower-case file extensions processed.
	// Empty means DefaultExtensions.
	Extensions []string

	// Ignore are glob patterns, relative to WorkingDir, for files and
	// directories to skip. "**" crosses directory boundaries.
	Ignore []string

	// FollowSymlinks traverses symlinked directories.
	FollowSymlinks bool

	// Jobs caps concurrent files; 0 or less means runtime.NumCPU().
	Jobs int

	// Pipeline controls per-file behavior.
	Pipeline PipelineOptions
}

// PipelineOptions controls how one file is processed.
type PipelineOptions struct {
	// Fix writes the sanitized output.
	Fix bool

	// DryRun computes diffs instead of writing.
	DryRun bool

	// Backup configures backups made before overwriting.
	Backup fsutil.BackupConfig
}

// DefaultExtensions returns the extensions processed by default.
func DefaultExtensions() []string {
	return []string{".html", ".htm", ".md", ".markdown"}
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return lo.Uniq(lo.Map(o.Extensions, func(ext string, _ int) string {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		return ext
	}))
}

func (o Options) paths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
