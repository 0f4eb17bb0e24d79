package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/gorichtext/internal/configloader"
	"github.com/yaklabco/gorichtext/pkg/fsutil"
	"github.com/yaklabco/gorichtext/pkg/markup"
	"github.com/yaklabco/gorichtext/pkg/runner"
)

// Exit codes for gorichtext.
const (
	// ExitSuccess indicates successful execution with nothing left to change.
	ExitSuccess = 0

	// ExitChangesFound indicates files that would change without --fix.
	ExitChangesFound = 1

	// ExitFileErrors indicates files that could not be processed.
	ExitFileErrors = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// Errors that select an exit code.
var (
	// ErrChangesFound is returned when files would change. It is a signal
	// for the exit code, not a failure to report.
	ErrChangesFound = errors.New("changes found")

	// ErrFilesFailed is returned when some files could not be processed.
	ErrFilesFailed = errors.New("some files could not be processed")

	// ErrInvalidUsage wraps flag and argument errors.
	ErrInvalidUsage = errors.New("invalid usage")

	// ErrConfig wraps configuration loading errors.
	ErrConfig = errors.New("failed to load configuration")
)

// ExitCodeFromResult determines the exit code of a run. Pending changes
// count only when nothing was written.
func ExitCodeFromResult(result *runner.Result, fixed bool) int {
	if result == nil {
		return ExitSuccess
	}
	if result.HasErrors() {
		return ExitFileErrors
	}
	if !fixed && result.HasChanges() {
		return ExitChangesFound
	}
	return ExitSuccess
}

// errorForExitCode returns the sentinel matching a run exit code.
func errorForExitCode(code int) error {
	switch code {
	case ExitChangesFound:
		return ErrChangesFound
	case ExitFileErrors:
		return ErrFilesFailed
	default:
		return nil
	}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrChangesFound):
		return ExitChangesFound
	case errors.Is(err, ErrFilesFailed), errors.Is(err, markup.ErrMalformedMarkup), errors.Is(err, runner.ErrTokenize):
		return ExitFileErrors
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig), errors.Is(err, configloader.ErrInvalidConfig):
		return ExitConfigError
	case runner.IsPipelineError(err), errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsSilent reports whether err only carries an exit code and should not
// be printed.
func IsSilent(err error) bool {
	return errors.Is(err, ErrChangesFound) || errors.Is(err, ErrFilesFailed)
}
