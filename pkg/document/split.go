// Package document serializes whole documents: it splits a fragment into
// its root elements, runs each one through tokenize, sanitize and render,
// and joins the results.
package document

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse parses an HTML fragment in a body context and returns a detached
// container node holding the parsed children. Comments are dropped.
func Parse(r io.Reader) (*html.Node, error) {
	bodyContext := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, bodyContext)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	root := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	dropComments(root)
	return root, nil
}

// ParseString is Parse over a string.
func ParseString(markup string) (*html.Node, error) {
	return Parse(strings.NewReader(markup))
}

// Roots returns the element children of root; these are the units that
// are tokenized independently.
func Roots(root *html.Node) []*html.Node {
	var roots []*html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			roots = append(roots, c)
		}
	}
	return roots
}

// OuterHTML serializes n including its own tags.
func OuterHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("render <%s>: %w", n.Data, err)
	}
	return buf.String(), nil
}

// Split returns the outer markup of every root element of a fragment.
// Text between root elements is discarded.
func Split(markup string) ([]string, error) {
	root, err := ParseString(markup)
	if err != nil {
		return nil, err
	}

	roots := Roots(root)
	parts := make([]string, 0, len(roots))
	for _, n := range roots {
		part, err := OuterHTML(n)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

func dropComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			dropComments(c)
		}
		c = next
	}
}
