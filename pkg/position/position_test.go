package position_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yaklabco/gorichtext/pkg/position"
)

// parseRoot parses markup into the children of a detached div.
func parseRoot(t *testing.T, markup string) *html.Node {
	t.Helper()

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	require.NoError(t, err)

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root
}

func textData(nodes []*html.Node) []string {
	data := make([]string, len(nodes))
	for i, n := range nodes {
		data[i] = n.Data
	}
	return data
}

func TestTextNodes_DocumentOrder(t *testing.T) {
	t.Parallel()

	root := parseRoot(t, `<p>ab<b>cd</b>e</p><p>fg</p>`)
	assert.Equal(t, []string{"ab", "cd", "e", "fg"}, textData(position.TextNodes(root)))
	assert.Equal(t, "abcdefg", position.TextContent(root))
	assert.Equal(t, 7, position.Length(root))

	text := position.TextNodes(root)[1]
	assert.Equal(t, []*html.Node{text}, position.TextNodes(text))
}

func TestCaptureOffset(t *testing.T) {
	t.Parallel()

	root := parseRoot(t, `<p>ab<b>cd</b>e</p>`)
	para := root.FirstChild
	texts := position.TextNodes(root)

	tests := []struct {
		name      string
		container *html.Node
		offset    int
		want      int
	}{
		{"start of first text", texts[0], 0, 0},
		{"inside nested text", texts[1], 1, 3},
		{"end of last text", texts[2], 1, 5},
		{"element before first child", para, 0, 0},
		{"element before nested element", para, 1, 2},
		{"element before trailing text", para, 2, 4},
		{"element end", para, 3, 5},
		{"root end", root, 1, 5},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := position.CaptureOffset(root, testCase.container, testCase.offset)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestCaptureOffset_Errors(t *testing.T) {
	t.Parallel()

	root := parseRoot(t, `<p>ab<b>cd</b></p>`)
	texts := position.TextNodes(root)
	other := parseRoot(t, `<p>x</p>`)

	_, err := position.CaptureOffset(root, other.FirstChild, 0)
	require.ErrorIs(t, err, position.ErrNotInRoot)

	_, err = position.CaptureOffset(root, texts[0], 3)
	require.ErrorIs(t, err, position.ErrInvalidOffset)

	_, err = position.CaptureOffset(root, root.FirstChild, 3)
	require.ErrorIs(t, err, position.ErrInvalidOffset)

	_, err = position.CaptureOffset(root, texts[0], -1)
	require.ErrorIs(t, err, position.ErrInvalidOffset)
}

func TestResolveOffsets_EarlierNodeWinsAtBoundary(t *testing.T) {
	t.Parallel()

	root := parseRoot(t, `<p>ab<b>cd</b>e</p>`)
	texts := position.TextNodes(root)

	start, end, err := position.ResolveOffsets(root, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, position.Point{Node: texts[0], Offset: 2}, start)
	assert.Equal(t, position.Point{Node: texts[1], Offset: 2}, end)

	start, end, err = position.ResolveOffsets(root, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, position.Point{Node: texts[1], Offset: 1}, start)
	assert.Equal(t, start, end)
}

func TestResolveOffsets_RoundTrip(t *testing.T) {
	t.Parallel()

	root := parseRoot(t, `<p>hé<i>llo</i> <b>w<u>ör</u>ld</b></p><p>!</p>`)
	length := position.Length(root)
	require.Equal(t, 12, length)

	for start := 0; start <= length; start++ {
		for end := start; end <= length; end++ {
			startPoint, endPoint, err := position.ResolveOffsets(root, start, end)
			require.NoError(t, err)

			gotStart, err := position.CaptureOffset(root, startPoint.Node, startPoint.Offset)
			require.NoError(t, err)
			gotEnd, err := position.CaptureOffset(root, endPoint.Node, endPoint.Offset)
			require.NoError(t, err)

			assert.Equal(t, start, gotStart)
			assert.Equal(t, end, gotEnd)
		}
	}
}

func TestResolveOffsets_RecoversInteriorPoints(t *testing.T) {
	t.Parallel()

	root := parseRoot(t, `<p>abc<b>def</b>ghi</p>`)
	for _, text := range position.TextNodes(root) {
		for local := 1; local < 3; local++ {
			offset, err := position.CaptureOffset(root, text, local)
			require.NoError(t, err)

			start, _, err := position.ResolveOffsets(root, offset, offset)
			require.NoError(t, err)
			assert.Equal(t, position.Point{Node: text, Offset: local}, start)
		}
	}
}

func TestResolveOffsets_NotFound(t *testing.T) {
	t.Parallel()

	root := parseRoot(t, `<p>ab<b>cd</b></p>`)

	tests := []struct {
		name       string
		start, end int
	}{
		{"start past end", 5, 5},
		{"end past end", 0, 5},
		{"negative start", -1, 2},
		{"end before start", 3, 1},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := position.ResolveOffsets(root, testCase.start, testCase.end)
			require.ErrorIs(t, err, position.ErrPositionNotFound)

			var notFound *position.PositionNotFoundError
			require.True(t, errors.As(err, &notFound))
			assert.Equal(t, 4, notFound.Length)
			assert.Equal(t, testCase.start, notFound.Start)
		})
	}
}

func TestResolveOffsets_NoText(t *testing.T) {
	t.Parallel()

	root := parseRoot(t, `<hr>`)

	start, end, err := position.ResolveOffsets(root, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, position.Point{Node: root}, start)
	assert.Equal(t, start, end)

	_, _, err = position.ResolveOffsets(root, 0, 1)
	require.ErrorIs(t, err, position.ErrPositionNotFound)
}

func TestCommonAncestor(t *testing.T) {
	t.Parallel()

	root := parseRoot(t, `<p>ab<b>cd</b></p><p>x</p>`)
	texts := position.TextNodes(root)

	assert.Same(t, root.FirstChild, position.CommonAncestor(texts[0], texts[1]))
	assert.Same(t, root, position.CommonAncestor(texts[0], texts[2]))
	assert.Same(t, texts[1], position.CommonAncestor(texts[1], texts[1]))
	assert.Nil(t, position.CommonAncestor(texts[0], parseRoot(t, `x`)))
}

func TestPaths(t *testing.T) {
	t.Parallel()

	root := parseRoot(t, `<p>ab<b>cd</b></p><p>x</p>`)
	target := position.TextNodes(root)[1]

	path, err := position.PathTo(root, target)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, path)
	assert.Equal(t, "0.1.0", position.FormatPath(path))

	parsed, err := position.ParsePath("0.1.0")
	require.NoError(t, err)
	node, err := position.NodeAt(root, parsed)
	require.NoError(t, err)
	assert.Same(t, target, node)

	node, err = position.NodeAt(root, nil)
	require.NoError(t, err)
	assert.Same(t, root, node)

	_, err = position.NodeAt(root, []int{5})
	require.ErrorIs(t, err, position.ErrInvalidPath)

	_, err = position.ParsePath("0.x")
	require.ErrorIs(t, err, position.ErrInvalidPath)
}
