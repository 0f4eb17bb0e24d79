package cli_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorichtext/internal/cli"
	"github.com/yaklabco/gorichtext/internal/configloader"
	"github.com/yaklabco/gorichtext/pkg/markup"
	"github.com/yaklabco/gorichtext/pkg/runner"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)
	assert.Equal(t, "gorichtext", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"debug", "log-json", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "global flag %q", name)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	for _, path := range [][]string{
		{"sanitize"}, {"tokenize"}, {"offset"}, {"offset", "resolve"}, {"offset", "capture"}, {"init"}, {"version"},
	} {
		subCmd, _, err := cmd.Find(path)
		require.NoError(t, err, "subcommand %v", path)
		assert.Equal(t, path[len(path)-1], subCmd.Name())
	}
}

func TestSanitizeCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	sanitizeCmd, _, err := cmd.Find([]string{"sanitize"})
	require.NoError(t, err)

	for _, name := range []string{
		"fix", "dry-run", "format", "jobs", "ignore", "ext", "no-backups",
		"flavor", "annotate", "watch", "debounce", "compact", "width", "sort",
	} {
		assert.NotNil(t, sanitizeCmd.Flags().Lookup(name), "flag %q", name)
	}

	require.NoError(t, sanitizeCmd.Args(sanitizeCmd, []string{"a.html", "docs/"}))
}

func TestOffsetCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	for sub, names := range map[string][]string{
		"resolve": {"start", "end", "format", "flavor"},
		"capture": {"path", "offset", "format", "flavor"},
	} {
		subCmd, _, err := cmd.Find([]string{"offset", sub})
		require.NoError(t, err)
		for _, name := range names {
			assert.NotNil(t, subCmd.Flags().Lookup(name), "offset %s flag %q", sub, name)
		}
		require.NoError(t, subCmd.Args(subCmd, []string{"page.html"}))
		require.Error(t, subCmd.Args(subCmd, []string{"a.html", "b.html"}))
	}
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	changed := &runner.Result{Stats: runner.Stats{FilesChanged: 1}}
	failed := &runner.Result{Stats: runner.Stats{FilesChanged: 1, FilesErrored: 1}}

	tests := []struct {
		name   string
		result *runner.Result
		fixed  bool
		want   int
	}{
		{"nil result", nil, false, cli.ExitSuccess},
		{"clean", &runner.Result{}, false, cli.ExitSuccess},
		{"changes pending", changed, false, cli.ExitChangesFound},
		{"changes written", changed, true, cli.ExitSuccess},
		{"errors win", failed, true, cli.ExitFileErrors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCodeFromResult(tt.result, tt.fixed))
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitSuccess},
		{"changes", cli.ErrChangesFound, cli.ExitChangesFound},
		{"files failed", fmt.Errorf("run: %w", cli.ErrFilesFailed), cli.ExitFileErrors},
		{"malformed", fmt.Errorf("block 0: %w", markup.ErrMalformedMarkup), cli.ExitFileErrors},
		{"usage", fmt.Errorf("%w: bad flag", cli.ErrInvalidUsage), cli.ExitInvalidUsage},
		{"config", &configloader.ValidationError{Field: "flavor", Message: "bad"}, cli.ExitConfigError},
		{"not found", fmt.Errorf("read: %w", fs.ErrNotExist), cli.ExitIOError},
		{"write", runner.ErrWriteFailure, cli.ExitIOError},
		{"permission", fmt.Errorf("read: %w", runner.ErrPermissionDenied), cli.ExitIOError},
		{"tokenize beats io", fmt.Errorf("%w: %w", runner.ErrTokenize, runner.ErrFileNotFound), cli.ExitFileErrors},
		{"other", errors.New("boom"), cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}

	assert.True(t, cli.IsSilent(cli.ErrChangesFound))
	assert.False(t, cli.IsSilent(cli.ErrInvalidUsage))
}
