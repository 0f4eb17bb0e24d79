package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/yaklabco/gorichtext/pkg/sanitize"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full spells out every default instead of leaving them commented.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateJSON()
	}
	if opts.Full {
		return []byte(fullTemplate()), nil
	}
	return []byte(minimalTemplate), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gorichtext configuration
# See: https://github.com/yaklabco/gorichtext`
}

const minimalTemplate = `# gorichtext configuration
# See: https://github.com/yaklabco/gorichtext

# Element whitelist. Leave a key out to keep its default; an empty
# list allows nothing.
# policy:
#   outer_elements: [h2, h3, p, blockquote, figure, pre, hr, ul, ol]
#   inner_elements: [b, i, u, a, q, code, mark, br]
#   conversions:
#     strong: b
#     em: i
#   strip_attributes: [style]

# Markdown flavor for .md inputs: commonmark or gfm
flavor: commonmark

# Add data-lang to pre blocks from detected code language
# annotate_code_language: false

# File patterns to ignore (glob patterns, ** crosses directories)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"
`

func fullTemplate() string {
	var buf strings.Builder

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n#\n# All settings are shown with their default values.\n\n")

	buf.WriteString("policy:\n")
	buf.WriteString("  # Allowed block roots\n")
	buf.WriteString("  outer_elements: " + flowList(sanitize.DefaultOuterElements) + "\n")
	buf.WriteString("  # Allowed elements inside p and pre\n")
	buf.WriteString("  inner_elements: " + flowList(sanitize.DefaultInnerElements) + "\n")
	buf.WriteString("  # Tags renamed before the whitelist applies\n")
	buf.WriteString("  conversions:\n")
	for _, from := range slices.Sorted(maps.Keys(sanitize.DefaultConversions)) {
		fmt.Fprintf(&buf, "    %s: %s\n", from, sanitize.DefaultConversions[from])
	}
	buf.WriteString("  # Attributes removed from every element\n")
	buf.WriteString("  strip_attributes: []\n\n")

	buf.WriteString(`# Markdown flavor for .md inputs: commonmark or gfm
flavor: commonmark

# Add data-lang to pre blocks from detected code language
annotate_code_language: false

# Extensions processed when walking directories
extensions: [.html, .htm, .md, .markdown]

# File patterns to ignore (glob patterns, ** crosses directories)
ignore:
  - "vendor/**"
  - "node_modules/**"

# Backup configuration for --fix: sidecar or none
backups:
  enabled: true
  mode: sidecar
`)
	return buf.String()
}

func flowList(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}

func templateJSON() ([]byte, error) {
	annotate := false
	cfg := NewConfig()
	cfg.AnnotateCodeLanguage = &annotate
	cfg.Policy = PolicyConfig{
		OuterElements:   slices.Clone(sanitize.DefaultOuterElements),
		InnerElements:   slices.Clone(sanitize.DefaultInnerElements),
		Conversions:     maps.Clone(sanitize.DefaultConversions),
		StripAttributes: []string{},
	}
	cfg.Extensions = []string{".html", ".htm", ".md", ".markdown"}
	cfg.Ignore = []string{"vendor/**", "node_modules/**"}

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(out, '\n'), nil
}
