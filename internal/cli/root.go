// Package cli provides the Cobra command structure for gorichtext.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gorichtext/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gorichtext command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var logJSON bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "gorichtext",
		Short: "Canonicalize and whitelist-sanitize rich-text markup",
		Long: `gorichtext turns rich-text HTML fragments into a canonical, sanitized form.

Each root element is flattened into its text plus a list of tag intervals,
checked against an allow-list of block and inline elements, and rendered
back as normalized markup. Markdown files are rendered to HTML first.
Offsets into the flattened text can be mapped back onto the document.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "info"
			if debug {
				level = "debug"
			}
			if logJSON {
				logging.SetDefault(logging.NewWithWriter(cmd.ErrOrStderr(), level, true))
			} else if debug {
				logging.SetLevel("debug")
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.Default()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit log records as JSON on stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	})

	// Add subcommands.
	rootCmd.AddCommand(newSanitizeCommand())
	rootCmd.AddCommand(newTokenizeCommand())
	rootCmd.AddCommand(newOffsetCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}
