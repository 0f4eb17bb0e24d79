package reporter

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/yaklabco/gorichtext/pkg/analysis"
)

const (
	// bufWriterSize is the buffer size for buffered output writers (64 KiB).
	bufWriterSize = 64 * 1024

	// defaultTermWidth is used when the writer is not a terminal.
	defaultTermWidth = 100
)

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// Compact uses minified JSON.
	Compact bool

	// Width truncates text output lines. 0 detects the terminal width,
	// negative disables truncation.
	Width int

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string

	// SortBy orders the rows of summary tables. Empty means by count.
	SortBy analysis.SortField
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       "auto",
		ShowSummary: true,
	}
}

func (o Options) displayPath(path string) string {
	if o.WorkingDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(o.WorkingDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

func (o Options) lineWidth() int {
	switch {
	case o.Width < 0:
		return 0
	case o.Width > 0:
		return o.Width
	}
	if f, ok := o.Writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
		return defaultTermWidth
	}
	return 0
}
