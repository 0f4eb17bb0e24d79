package position

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// PathTo returns the child indexes leading from root to node.
func PathTo(root, node *html.Node) ([]int, error) {
	if !Contains(root, node) {
		return nil, ErrNotInRoot
	}

	var path []int
	for n := node; n != root; n = n.Parent {
		idx := 0
		for s := n.PrevSibling; s != nil; s = s.PrevSibling {
			idx++
		}
		path = append(path, idx)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// NodeAt follows path from root.
func NodeAt(root *html.Node, path []int) (*html.Node, error) {
	node := root
	for depth, idx := range path {
		children := childNodes(node)
		if idx < 0 || idx >= len(children) {
			return nil, fmt.Errorf("%w: index %d at depth %d", ErrInvalidPath, idx, depth)
		}
		node = children[idx]
	}
	return node, nil
}

// ParsePath parses a dotted path such as "0.2.1". The empty string is the
// root itself.
func ParsePath(text string) ([]int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	parts := strings.Split(text, ".")
	path := make([]int, 0, len(parts))
	for _, part := range parts {
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, text)
		}
		path = append(path, idx)
	}
	return path, nil
}

// FormatPath renders path in the dotted form accepted by ParsePath.
func FormatPath(path []int) string {
	parts := make([]string, len(path))
	for i, idx := range path {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}
