package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gorichtext/internal/logging"
	"github.com/yaklabco/gorichtext/pkg/analysis"
	"github.com/yaklabco/gorichtext/pkg/config"
	"github.com/yaklabco/gorichtext/pkg/reporter"
	"github.com/yaklabco/gorichtext/pkg/runner"
)

type sanitizeFlags struct {
	format     string
	flavor     string
	ignore     []string
	extensions []string
	annotate   bool
	watch      bool
	debounce   time.Duration
	compact    bool
	width      int
	sortBy     string
}

func newSanitizeCommand() *cobra.Command {
	var cfg config.Config
	flags := &sanitizeFlags{}

	cmd := &cobra.Command{
		Use:   "sanitize [paths...]",
		Short: "Sanitize HTML and Markdown files",
		Long:  sanitizeLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSanitize(cmd, args, &cfg, flags)
		},
	}

	addSanitizeFlags(cmd, &cfg, flags)

	return cmd
}

const sanitizeLongDescription = `Sanitize rich-text markup against the configured element allow-lists.

By default, checks all .html, .htm, .md and .markdown files in the current
directory and subdirectories and reports what would change. Markdown files
are rendered to HTML and written next to the source with an .html extension.
Use "-" to read a fragment from stdin and write the result to stdout.

Examples:
  gorichtext sanitize                     # Report changes in current directory
  gorichtext sanitize docs/               # Report changes under docs
  gorichtext sanitize --fix               # Rewrite files in place
  gorichtext sanitize --fix --dry-run     # Show diffs without writing
  gorichtext sanitize --format json       # Output as JSON for CI
  gorichtext sanitize --format summary    # Per-tag and per-file tables
  gorichtext sanitize --fix --watch docs/ # Re-sanitize files as they change
  echo '<p><em>x</em></p>' | gorichtext sanitize -`

func runSanitize(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *sanitizeFlags) error {
	// Only set values that were explicitly provided via CLI flags.
	if cmd.Flags().Changed("format") {
		cliCfg.Format = config.OutputFormat(flags.format)
	}
	if cmd.Flags().Changed("flavor") {
		cliCfg.Flavor = config.Flavor(flags.flavor)
	}
	if cmd.Flags().Changed("annotate") {
		cliCfg.AnnotateCodeLanguage = &flags.annotate
	}
	cliCfg.Ignore = flags.ignore
	cliCfg.Extensions = flags.extensions

	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)
	pipeline := runner.NewPipeline(newSerializer(cfg), string(cfg.EffectiveFlavor()))

	if slices.Equal(args, []string{stdinName}) {
		if flags.watch {
			return fmt.Errorf("%w: --watch cannot read from stdin", ErrInvalidUsage)
		}
		return sanitizeStdin(cmd, pipeline)
	}
	if slices.Contains(args, stdinName) {
		return fmt.Errorf("%w: %q must be the only argument", ErrInvalidUsage, stdinName)
	}

	format := cfg.Format
	if cfg.DryRun && format == config.FormatText {
		format = config.FormatDiff
	}
	reportFormat, err := reporter.ParseFormat(string(format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	sortBy := analysis.SortField(flags.sortBy)
	if !sortBy.IsValid() {
		return fmt.Errorf("%w: unknown sort %q; valid: count, alpha, removals", ErrInvalidUsage, flags.sortBy)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      reportFormat,
		Color:       colorMode,
		ShowSummary: true,
		Compact:     flags.compact,
		Width:       flags.width,
		WorkingDir:  workDir,
		SortBy:      sortBy,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	runOpts := runner.Options{
		Paths:      args,
		WorkingDir: workDir,
		Extensions: cfg.Extensions,
		Ignore:     cfg.Ignore,
		Jobs:       cfg.Jobs,
		Pipeline: runner.PipelineOptions{
			Fix:    cfg.Fix,
			DryRun: cfg.DryRun,
			Backup: cfg.BackupConfig(),
		},
	}

	sanitizeRunner := runner.New(pipeline)
	sanitizeRunner.OnFile = func(outcome runner.FileOutcome) {
		if outcome.Error != nil {
			logger.Debug("file failed", logging.FieldPath, outcome.Path, logging.FieldError, outcome.Error)
			return
		}
		logger.Debug("file processed",
			logging.FieldPath, outcome.Path,
			logging.FieldBlocks, outcome.Result.Blocks,
			logging.FieldChanges, len(outcome.Result.Changes),
			logging.FieldBackup, outcome.Result.BackupCreated,
		)
	}

	logger.Debug("starting sanitize run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	if flags.watch {
		return watchSanitize(cmd, sanitizeRunner, runOpts, rep, flags.debounce)
	}

	started := time.Now()
	result, err := sanitizeRunner.Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("sanitize run failed: %w", err)
	}
	logger.Debug("sanitize run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesWritten, result.Stats.FilesWritten,
		logging.FieldFilesErrored, result.Stats.FilesErrored,
		logging.FieldChangesTotal, result.Stats.ChangesTotal,
		logging.FieldDuration, time.Since(started),
	)

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	return errorForExitCode(ExitCodeFromResult(result, cfg.Fix && !cfg.DryRun))
}

// sanitizeStdin sanitizes a single fragment from stdin and writes the
// result to stdout.
func sanitizeStdin(cmd *cobra.Command, pipeline *runner.Pipeline) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	name, content, err := readInput(cmd, []string{stdinName})
	if err != nil {
		return err
	}

	result, err := pipeline.ProcessContent(ctx, name, content)
	if err != nil {
		return err
	}
	for _, change := range result.Changes {
		logger.Debug(change.String(), logging.FieldBlock, change.Block, logging.FieldKind, change.Kind)
	}

	if _, err := cmd.OutOrStdout().Write(result.Output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// watchSanitize reports every batch until the command context is done.
func watchSanitize(
	cmd *cobra.Command,
	sanitizeRunner *runner.Runner,
	opts runner.Options,
	rep reporter.Reporter,
	debounce time.Duration,
) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)
	logger.Info("watching for changes", logging.FieldPaths, opts.Paths)

	var reportErr error
	err := sanitizeRunner.Watch(ctx, opts, debounce, func(result *runner.Result) {
		logger.Debug("batch processed", logging.FieldBatchSize, len(result.Files))
		if _, err := rep.Report(ctx, result); err != nil && reportErr == nil {
			reportErr = err
		}
	})
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if reportErr != nil {
		return fmt.Errorf("report results: %w", reportErr)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		logger.Info("stopped watching")
	}
	return nil
}

func addSanitizeFlags(cmd *cobra.Command, cfg *config.Config, flags *sanitizeFlags) {
	cmd.Flags().BoolVar(&cfg.Fix, "fix", false, "write sanitized output")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show diffs without writing (implies --format diff)")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, diff, summary")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions to process (default .html,.htm,.md,.markdown)")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation when fixing")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "commonmark", "Markdown flavor: commonmark, gfm")
	cmd.Flags().BoolVar(&flags.annotate, "annotate", false, "add data-lang to code blocks")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "keep running and re-sanitize files when they change")
	cmd.Flags().DurationVar(&flags.debounce, "debounce", runner.DefaultDebounce, "how long to wait for writes to settle in watch mode")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
	cmd.Flags().IntVar(&flags.width, "width", 0, "truncate text output to this width (0 = terminal, -1 = off)")
	cmd.Flags().StringVar(&flags.sortBy, "sort", string(analysis.SortByCount), "summary table order: count, alpha, removals")
}
