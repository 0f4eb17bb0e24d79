// Package position maps between absolute character offsets over the
// flattened text of a node and concrete (text node, local offset) points.
//
// Offsets count runes. Only html.TextNode nodes contribute characters; a
// text node used as the root counts as its own only text node.
package position

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Point is a boundary point: a text node and a rune offset into it, or an
// element and a child index.
type Point struct {
	Node   *html.Node
	Offset int
}

// Range is a pair of boundary points.
type Range struct {
	Start Point
	End   Point
}

// Collapsed reports whether the range is a caret.
func (r Range) Collapsed() bool {
	return r.Start == r.End
}

// TextNodes returns the text descendants of root in document order.
func TextNodes(root *html.Node) []*html.Node {
	var nodes []*html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			nodes = append(nodes, n)
		}
		return true
	})
	return nodes
}

// TextContent returns the flattened text of root.
func TextContent(root *html.Node) string {
	var builder strings.Builder
	for _, n := range TextNodes(root) {
		builder.WriteString(n.Data)
	}
	return builder.String()
}

// Length returns the flattened text length of root in runes.
func Length(root *html.Node) int {
	total := 0
	for _, n := range TextNodes(root) {
		total += utf8.RuneCountInString(n.Data)
	}
	return total
}

// Contains reports whether node is root or one of its descendants.
func Contains(root, node *html.Node) bool {
	for n := node; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

// CommonAncestor returns the deepest node containing both a and b, or nil
// when they belong to different trees.
func CommonAncestor(a, b *html.Node) *html.Node {
	ancestors := make(map[*html.Node]struct{})
	for n := a; n != nil; n = n.Parent {
		ancestors[n] = struct{}{}
	}
	for n := b; n != nil; n = n.Parent {
		if _, ok := ancestors[n]; ok {
			return n
		}
	}
	return nil
}

// CaptureOffset converts the boundary point (container, offset) into an
// absolute offset over the flattened text of root. For a text container
// offset is a rune index; for any other node it is a child index.
func CaptureOffset(root, container *html.Node, offset int) (int, error) {
	if root == nil || container == nil || !Contains(root, container) {
		return 0, ErrNotInRoot
	}

	if container.Type == html.TextNode {
		if offset < 0 || offset > utf8.RuneCountInString(container.Data) {
			return 0, fmt.Errorf("%w: %d outside text of length %d",
				ErrInvalidOffset, offset, utf8.RuneCountInString(container.Data))
		}
		return precedingLength(root, container) + offset, nil
	}

	children := childNodes(container)
	if offset < 0 || offset > len(children) {
		return 0, fmt.Errorf("%w: child index %d outside [0, %d]", ErrInvalidOffset, offset, len(children))
	}
	if offset < len(children) {
		return precedingLength(root, children[offset]), nil
	}
	return precedingLength(root, container) + Length(container), nil
}

// ResolveOffsets maps the absolute offsets start and end over the flattened
// text of root back onto text nodes. At a boundary shared by two text nodes
// the earlier node wins.
func ResolveOffsets(root *html.Node, start, end int) (Point, Point, error) {
	nodes := TextNodes(root)
	notFound := func(length int) error {
		return &PositionNotFoundError{Start: start, End: end, Length: length}
	}

	if start < 0 || end < start {
		return Point{}, Point{}, notFound(Length(root))
	}
	if len(nodes) == 0 {
		if start == 0 && end == 0 {
			return Point{Node: root}, Point{Node: root}, nil
		}
		return Point{}, Point{}, notFound(0)
	}

	var startPoint Point
	found := false
	before := 0
	for _, n := range nodes {
		after := before + utf8.RuneCountInString(n.Data)
		if !found && start <= after {
			startPoint = Point{Node: n, Offset: start - before}
			found = true
		}
		if found && end <= after {
			return startPoint, Point{Node: n, Offset: end - before}, nil
		}
		before = after
	}
	return Point{}, Point{}, notFound(before)
}

// Select resolves start and end into a Range.
func Select(root *html.Node, start, end int) (Range, error) {
	startPoint, endPoint, err := ResolveOffsets(root, start, end)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: startPoint, End: endPoint}, nil
}

// precedingLength sums the text that comes before node in document order.
func precedingLength(root, node *html.Node) int {
	total := 0
	walk(root, func(n *html.Node) bool {
		if n == node {
			return false
		}
		if n.Type == html.TextNode {
			total += utf8.RuneCountInString(n.Data)
		}
		return true
	})
	return total
}

// walk visits root and its descendants in document order until visit
// returns false.
func walk(root *html.Node, visit func(*html.Node) bool) bool {
	if root == nil {
		return true
	}
	if !visit(root) {
		return false
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func childNodes(n *html.Node) []*html.Node {
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	return children
}
