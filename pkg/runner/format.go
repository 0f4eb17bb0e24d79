package runner

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Format is the input language of a file.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// DetectFormat picks the input format from the file extension, falling
// back to content sniffing for unknown extensions and standard input.
func DetectFormat(path string, content []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return FormatHTML
	case ".md", ".markdown", ".mdown", ".mkd":
		return FormatMarkdown
	}

	if mimetype.Detect(content).Is("text/html") {
		return FormatHTML
	}
	return FormatMarkdown
}

// OutputPath returns where the sanitized output of path is written.
// Markdown sources are never overwritten; their HTML goes to a sibling file.
func OutputPath(path string, format Format) string {
	if format != FormatMarkdown {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".html"
}
