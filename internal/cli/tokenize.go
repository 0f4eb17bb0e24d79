package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gorichtext/internal/ui/pretty"
	"github.com/yaklabco/gorichtext/pkg/config"
	"github.com/yaklabco/gorichtext/pkg/document"
	"github.com/yaklabco/gorichtext/pkg/markup"
	"github.com/yaklabco/gorichtext/pkg/sanitize"
)

type tokenizeFlags struct {
	format   string
	flavor   string
	sanitize bool
}

func newTokenizeCommand() *cobra.Command {
	flags := &tokenizeFlags{}

	cmd := &cobra.Command{
		Use:   "tokenize [file|-]",
		Short: "Show the intervals of each root element",
		Long: `Tokenize a document and print, for every root element, its flattened
text and the tag intervals inside it in closing order.

With --sanitize the configured policy is applied first and removed
intervals are shown as tombstones.

Examples:
  gorichtext tokenize page.html
  gorichtext tokenize --sanitize --format json page.html
  echo '<p>a <b>b</b></p>' | gorichtext tokenize`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenize(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "commonmark", "Markdown flavor: commonmark, gfm")
	cmd.Flags().BoolVar(&flags.sanitize, "sanitize", false, "apply the sanitize policy before printing")

	return cmd
}

func runTokenize(cmd *cobra.Command, args []string, flags *tokenizeFlags) error {
	if flags.format != "text" && flags.format != "json" {
		return fmt.Errorf("%w: invalid format %q: must be text or json", ErrInvalidUsage, flags.format)
	}

	cliCfg := &config.Config{}
	if cmd.Flags().Changed("flavor") {
		cliCfg.Flavor = config.Flavor(flags.flavor)
	}
	cfg, _, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	name, content, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	source, err := inputHTML(name, content, cfg.EffectiveFlavor())
	if err != nil {
		return err
	}

	blocks, err := tokenizeDocument(source)
	if err != nil {
		return err
	}
	if flags.sanitize {
		sanitize.Sanitize(blocks, sanitize.NewPolicy(cfg.PolicyOptions()))
	}

	out := cmd.OutOrStdout()
	if flags.format == "json" {
		return writeJSON(out, blocks)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))

	var b strings.Builder
	for idx, block := range blocks {
		b.WriteString(pretty.FormatBlock(styles, idx, block))
	}
	if _, err := fmt.Fprint(out, b.String()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// tokenizeDocument splits source into root elements and tokenizes each.
func tokenizeDocument(source string) ([]*markup.Block, error) {
	roots, err := document.Split(source)
	if err != nil {
		return nil, fmt.Errorf("split document: %w", err)
	}

	blocks := make([]*markup.Block, 0, len(roots))
	for idx, root := range roots {
		block, err := markup.Tokenize(root)
		if err != nil {
			return nil, &document.BlockError{Index: idx, HTML: root, Err: err}
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}
