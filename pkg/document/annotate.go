package document

import (
	"golang.org/x/net/html"

	"github.com/yaklabco/gorichtext/pkg/langdetect"
	"github.com/yaklabco/gorichtext/pkg/position"
)

// LanguageAttribute is the attribute set on pre elements by AnnotateCodeLanguage.
const LanguageAttribute = "data-lang"

// AnnotateCodeLanguage sets a data-lang attribute on every pre element
// below root that has none, using the class of a nested code element when
// present and content detection otherwise. It returns the number of
// elements annotated.
func AnnotateCodeLanguage(root *html.Node) int {
	annotated := 0
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "pre" && !hasAttr(n, LanguageAttribute) {
			if lang := preLanguage(n); lang != langdetect.Unknown {
				n.Attr = append(n.Attr, html.Attribute{Key: LanguageAttribute, Val: lang})
				annotated++
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(root)
	return annotated
}

func preLanguage(pre *html.Node) string {
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "code" {
			if lang := langdetect.FromClass(getAttr(c, "class")); lang != langdetect.Unknown {
				return lang
			}
		}
	}
	return langdetect.Detect([]byte(position.TextContent(pre)))
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
