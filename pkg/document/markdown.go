package document

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Markdown flavors accepted by FromMarkdown.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// ValidFlavor reports whether flavor is a supported Markdown flavor.
func ValidFlavor(flavor string) bool {
	return flavor == FlavorCommonMark || flavor == FlavorGFM
}

// FromMarkdown renders Markdown source to HTML. Raw HTML in the source is
// passed through so it can be sanitized with everything else. Unknown
// flavors fall back to CommonMark.
func FromMarkdown(source []byte, flavor string) (string, error) {
	var buf bytes.Buffer
	if err := newMarkdown(flavor).Convert(source, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newMarkdown(flavor string) goldmark.Markdown {
	opts := []goldmark.Option{
		goldmark.WithRendererOptions(html.WithUnsafe()),
	}
	if flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}
	return goldmark.New(opts...)
}
