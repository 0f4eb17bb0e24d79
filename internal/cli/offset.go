package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/yaklabco/gorichtext/pkg/config"
	"github.com/yaklabco/gorichtext/pkg/document"
	"github.com/yaklabco/gorichtext/pkg/position"
)

type offsetFlags struct {
	format string
	flavor string
	start  int
	end    int
	path   string
	offset int
}

func newOffsetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "offset",
		Short: "Map between flattened-text offsets and document positions",
		Long: `Map absolute character offsets over the flattened text of a document
onto concrete text nodes, and back.

Nodes are addressed by dotted child-index paths from the document root,
such as "0.1.0". Offsets count characters, not bytes.`,
	}

	cmd.AddCommand(newOffsetResolveCommand())
	cmd.AddCommand(newOffsetCaptureCommand())

	return cmd
}

func newOffsetResolveCommand() *cobra.Command {
	flags := &offsetFlags{}

	cmd := &cobra.Command{
		Use:   "resolve [file|-]",
		Short: "Find the text nodes holding a range of offsets",
		Long: `Resolve --start and --end offsets to (node path, local offset) points.
At a boundary shared by two text nodes the earlier node wins.

Examples:
  gorichtext offset resolve --start 4 page.html
  gorichtext offset resolve --start 4 --end 9 --format json page.html`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOffsetResolve(cmd, args, flags)
		},
	}

	addOffsetInputFlags(cmd, flags)
	cmd.Flags().IntVar(&flags.start, "start", 0, "start offset")
	cmd.Flags().IntVar(&flags.end, "end", -1, "end offset (default: same as start)")

	return cmd
}

func newOffsetCaptureCommand() *cobra.Command {
	flags := &offsetFlags{}

	cmd := &cobra.Command{
		Use:   "capture [file|-]",
		Short: "Convert a node position into an absolute offset",
		Long: `Convert the boundary point (--path, --offset) into an absolute offset over
the flattened text. For a text node --offset counts characters; for an
element it is a child index.

Examples:
  gorichtext offset capture --path 0.1.0 --offset 2 page.html`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOffsetCapture(cmd, args, flags)
		},
	}

	addOffsetInputFlags(cmd, flags)
	cmd.Flags().StringVar(&flags.path, "path", "", "dotted child-index path of the container node")
	cmd.Flags().IntVar(&flags.offset, "offset", 0, "offset inside the container")

	return cmd
}

func addOffsetInputFlags(cmd *cobra.Command, flags *offsetFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "commonmark", "Markdown flavor: commonmark, gfm")
}

// pointJSON is a resolved boundary point.
type pointJSON struct {
	Path   string `json:"path"`
	Offset int    `json:"offset"`
	Text   string `json:"text"`
}

type resolveJSON struct {
	Start  pointJSON `json:"start"`
	End    pointJSON `json:"end"`
	Length int       `json:"length"`
}

type captureJSON struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

func runOffsetResolve(cmd *cobra.Command, args []string, flags *offsetFlags) error {
	root, err := loadOffsetDocument(cmd, args, flags)
	if err != nil {
		return err
	}

	end := flags.end
	if end < 0 {
		end = flags.start
	}

	startPoint, endPoint, err := position.ResolveOffsets(root, flags.start, end)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	start, err := describePoint(root, startPoint)
	if err != nil {
		return err
	}
	finish, err := describePoint(root, endPoint)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flags.format == "json" {
		return writeJSON(out, resolveJSON{Start: start, End: finish, Length: position.Length(root)})
	}

	_, err = fmt.Fprintf(out, "start %s:%d %q\nend   %s:%d %q\n",
		start.Path, start.Offset, start.Text, finish.Path, finish.Offset, finish.Text)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func runOffsetCapture(cmd *cobra.Command, args []string, flags *offsetFlags) error {
	root, err := loadOffsetDocument(cmd, args, flags)
	if err != nil {
		return err
	}

	path, err := position.ParsePath(flags.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}
	container, err := position.NodeAt(root, path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	offset, err := position.CaptureOffset(root, container, flags.offset)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	out := cmd.OutOrStdout()
	length := position.Length(root)
	if flags.format == "json" {
		return writeJSON(out, captureJSON{Offset: offset, Length: length})
	}
	if _, err := fmt.Fprintf(out, "offset %d of %d\n", offset, length); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// loadOffsetDocument reads and parses the input document.
func loadOffsetDocument(cmd *cobra.Command, args []string, flags *offsetFlags) (*html.Node, error) {
	if flags.format != "text" && flags.format != "json" {
		return nil, fmt.Errorf("%w: invalid format %q: must be text or json", ErrInvalidUsage, flags.format)
	}

	cliCfg := &config.Config{}
	if cmd.Flags().Changed("flavor") {
		cliCfg.Flavor = config.Flavor(flags.flavor)
	}
	cfg, _, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return nil, err
	}

	name, content, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}
	source, err := inputHTML(name, content, cfg.EffectiveFlavor())
	if err != nil {
		return nil, err
	}

	root, err := document.ParseString(source)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return root, nil
}

func describePoint(root *html.Node, point position.Point) (pointJSON, error) {
	path, err := position.PathTo(root, point.Node)
	if err != nil {
		return pointJSON{}, fmt.Errorf("locate node: %w", err)
	}
	described := pointJSON{Path: position.FormatPath(path), Offset: point.Offset}
	if point.Node.Type == html.TextNode {
		described.Text = point.Node.Data
	}
	return described, nil
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
