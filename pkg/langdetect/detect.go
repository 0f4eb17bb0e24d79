// Package langdetect guesses the language of preformatted code so pre
// blocks can carry a data-lang hint.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Unknown is returned when no language can be determined with confidence.
const Unknown = ""

// classifierCandidates limits the classifier to languages commonly pasted
// into rich-text documents.
//
//nolint:gochecknoglobals // Read-only candidate list.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript", "Ruby", "Rust",
	"Java", "C", "C++", "SQL", "JSON", "YAML", "HTML", "CSS",
}

// aliases maps linguist language names to short hint names.
//
//nolint:gochecknoglobals // Read-only lookup table.
var aliases = map[string]string{
	"Shell": "bash",
	"C++":   "cpp",
	"C#":    "csharp",
}

// Detect returns a short lower-case language name for content, or Unknown.
func Detect(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return Unknown
	}

	if lang, safe := enry.GetLanguageByShebang(trimmed); safe {
		return Normalize(lang)
	}
	if lang, safe := enry.GetLanguageByModeline(trimmed); safe {
		return Normalize(lang)
	}
	if lang := byPattern(trimmed); lang != Unknown {
		return lang
	}
	if lang, safe := enry.GetLanguageByClassifier(trimmed, classifierCandidates); safe && lang != "" {
		return Normalize(lang)
	}
	return Unknown
}

// FromClass extracts a language from a "language-x" or "lang-x" class list,
// as produced by Markdown renderers for fenced code.
func FromClass(class string) string {
	for _, name := range strings.Fields(class) {
		for _, prefix := range []string{"language-", "lang-"} {
			if rest, ok := strings.CutPrefix(name, prefix); ok && rest != "" {
				if lang, known := enry.GetLanguageByAlias(rest); known {
					return Normalize(lang)
				}
				return strings.ToLower(rest)
			}
		}
	}
	return Unknown
}

// Normalize converts a linguist language name into a hint name.
func Normalize(lang string) string {
	if alias, ok := aliases[lang]; ok {
		return alias
	}
	return strings.ToLower(lang)
}

// byPattern recognizes short snippets the classifier tends to get wrong.
func byPattern(content []byte) string {
	text := string(content)
	first, _, _ := strings.Cut(text, "\n")
	first = strings.TrimSpace(first)

	switch {
	case strings.HasPrefix(first, "package ") && strings.Contains(text, "func "):
		return "go"
	case strings.HasPrefix(first, "<!DOCTYPE") || strings.HasPrefix(first, "<html"):
		return "html"
	case (content[0] == '{' || content[0] == '[') && looksLikeJSON(content):
		return "json"
	case strings.Contains(text, "def ") && strings.Contains(text, ":\n"),
		strings.Contains(text, "__name__"):
		return "python"
	case strings.Contains(text, "fn main()"), strings.Contains(text, "println!"):
		return "rust"
	case hasSQLPrefix(first):
		return "sql"
	case strings.Contains(text, "=>"), strings.Contains(text, "console.log"):
		return "javascript"
	}
	return Unknown
}

func looksLikeJSON(content []byte) bool {
	last := content[len(content)-1]
	return (last == '}' || last == ']') && bytes.Contains(content, []byte(`"`))
}

func hasSQLPrefix(line string) bool {
	upper := strings.ToUpper(line)
	for _, keyword := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
		if strings.HasPrefix(upper, keyword) {
			return true
		}
	}
	return false
}
