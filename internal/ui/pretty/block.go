package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gorichtext/pkg/markup"
)

// FormatBlock renders a tokenized block as a tree: the root element on the
// first line, then every child interval in closing order. Non-void children
// show their inclusive [from..to] range; void children show @offset.
// Removed intervals are marked.
func FormatBlock(styles *Styles, index int, block *markup.Block) string {
	if block == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.Dim.Render(fmt.Sprintf("block %d", index)))
	b.WriteString(" ")
	b.WriteString(formatInterval(styles, &block.Interval))
	b.WriteString("\n")

	for _, child := range block.Children {
		if child == nil {
			continue
		}
		b.WriteString("  ")
		if child.Void {
			b.WriteString(styles.Location.Render(fmt.Sprintf("@%d", child.From)))
		} else {
			b.WriteString(styles.Location.Render(fmt.Sprintf("[%d..%d]", child.From, child.To)))
		}
		b.WriteString(" ")
		b.WriteString(formatInterval(styles, child))
		b.WriteString("\n")
	}

	return b.String()
}

func formatInterval(styles *Styles, iv *markup.Interval) string {
	line := styles.Tag.Render(markup.OpenTag(iv.TagName, iv.Attributes))
	if !iv.Void {
		line += " " + fmt.Sprintf("%q", iv.Content)
	}
	if iv.Removed {
		return styles.Removed.Render(line) + " " + styles.Dim.Render("(removed)")
	}
	return line
}
