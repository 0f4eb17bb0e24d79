package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gorichtext/internal/configloader"
	"github.com/yaklabco/gorichtext/internal/logging"
	"github.com/yaklabco/gorichtext/pkg/config"
	"github.com/yaklabco/gorichtext/pkg/document"
	"github.com/yaklabco/gorichtext/pkg/fsutil"
	"github.com/yaklabco/gorichtext/pkg/runner"
	"github.com/yaklabco/gorichtext/pkg/sanitize"
)

// stdinName is the argument that selects standard input.
const stdinName = "-"

// usageArgs wraps a positional argument validator so its errors select
// the usage exit code.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
		}
		return nil
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves the configuration for a command, with cliCfg taking
// precedence over files and environment.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldFlavor, cfg.EffectiveFlavor(),
		logging.FieldFix, cfg.Fix,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldAnnotate, cfg.AnnotateEnabled(),
	)

	return cfg, workDir, nil
}

// newSerializer builds a document serializer from the resolved config.
func newSerializer(cfg *config.Config) *document.Serializer {
	return document.NewSerializer(document.Options{
		Policy:               sanitize.NewPolicy(cfg.PolicyOptions()),
		Separator:            "\n",
		AnnotateCodeLanguage: cfg.AnnotateEnabled(),
	})
}

// readInput reads the named file, or standard input for "-" or no name.
func readInput(cmd *cobra.Command, args []string) (string, []byte, error) {
	if len(args) == 0 || args[0] == stdinName {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", nil, fmt.Errorf("read stdin: %w", err)
		}
		return stdinName, content, nil
	}

	content, _, err := fsutil.ReadFile(commandContext(cmd), args[0])
	if err != nil {
		return "", nil, fmt.Errorf("read input: %w", err)
	}
	return args[0], content, nil
}

// inputHTML returns input as HTML, rendering Markdown first.
func inputHTML(name string, content []byte, flavor config.Flavor) (string, error) {
	if runner.DetectFormat(name, content) != runner.FormatMarkdown {
		return string(content), nil
	}
	rendered, err := document.FromMarkdown(content, string(flavor))
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return rendered, nil
}
