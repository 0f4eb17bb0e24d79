package markup_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorichtext/pkg/markup"
)

func TestTokenize_FlattensContent(t *testing.T) {
	t.Parallel()

	block, err := markup.Tokenize(`<p>a <b>bold</b> and <i>it</i></p>`)
	require.NoError(t, err)

	assert.Equal(t, "p", block.TagName)
	assert.Equal(t, "a bold and it", block.Content)
	assert.Equal(t, `<p>a <b>bold</b> and <i>it</i></p>`, block.HTML)
	require.Len(t, block.Children, 2)

	bold := block.Children[0]
	assert.Equal(t, "b", bold.TagName)
	assert.Equal(t, 2, bold.From)
	assert.Equal(t, 5, bold.To)
	assert.Equal(t, "bold", bold.Content)

	italic := block.Children[1]
	assert.Equal(t, "i", italic.TagName)
	assert.Equal(t, 11, italic.From)
	assert.Equal(t, 12, italic.To)
}

func TestTokenize_ClosingOrder(t *testing.T) {
	t.Parallel()

	block, err := markup.Tokenize(`<p><b>x<i>y</i></b>z</p>`)
	require.NoError(t, err)

	require.Len(t, block.Children, 2)
	// The inner element closes first.
	assert.Equal(t, "i", block.Children[0].TagName)
	assert.Equal(t, "b", block.Children[1].TagName)
	assert.Equal(t, "xy", block.Children[1].Content)
	assert.Equal(t, "y", block.Children[0].Content)
}

func TestTokenize_VoidElements(t *testing.T) {
	t.Parallel()

	t.Run("inline void closes without end tag", func(t *testing.T) {
		t.Parallel()

		block, err := markup.Tokenize(`<p>one<br>two</p>`)
		require.NoError(t, err)
		require.Len(t, block.Children, 1)

		br := block.Children[0]
		assert.True(t, br.Void)
		assert.Equal(t, 3, br.From)
		assert.Empty(t, br.Content)
		assert.Equal(t, "onetwo", block.Content)
	})

	t.Run("self-closing syntax", func(t *testing.T) {
		t.Parallel()

		block, err := markup.Tokenize(`<p>a<img src="x.png"/>b</p>`)
		require.NoError(t, err)
		require.Len(t, block.Children, 1)
		assert.Equal(t, "img", block.Children[0].TagName)
		assert.True(t, block.Children[0].Void)

		src, ok := block.Children[0].Attributes.Get("src")
		require.True(t, ok)
		assert.Equal(t, "x.png", src.Value)
	})

	t.Run("void root has no content", func(t *testing.T) {
		t.Parallel()

		block, err := markup.Tokenize(`<hr>`)
		require.NoError(t, err)
		assert.True(t, block.Void)
		assert.Equal(t, "hr", block.TagName)
		assert.Empty(t, block.Content)
		assert.Nil(t, block.Children)
	})
}

func TestTokenize_EmptyElement(t *testing.T) {
	t.Parallel()

	block, err := markup.Tokenize(`<p><b></b>hello</p>`)
	require.NoError(t, err)
	require.Len(t, block.Children, 1)

	empty := block.Children[0]
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, 0, empty.From)
	assert.Equal(t, -1, empty.To)
}

func TestTokenize_Attributes(t *testing.T) {
	t.Parallel()

	block, err := markup.Tokenize(`<p><a HREF="https://example.com" data-x='y' hidden title=plain id="1" id="2">go</a></p>`)
	require.NoError(t, err)
	require.Len(t, block.Children, 1)

	attrs := block.Children[0].Attributes
	assert.Equal(t, markup.Attributes{
		{Name: "href", Value: "https://example.com"},
		{Name: "data-x", Value: "y"},
		{Name: "hidden", Flag: true},
		{Name: "title", Value: "plain"},
		{Name: "id", Value: "1"},
	}, attrs)
}

func TestTokenize_AngleBracketInQuotedValue(t *testing.T) {
	t.Parallel()

	block, err := markup.Tokenize(`<p><a title="a>b" data-x='<c>'>x</a></p>`)
	require.NoError(t, err)
	assert.Equal(t, "x", block.Content)
	require.Len(t, block.Children, 1)

	link := block.Children[0]
	assert.Equal(t, "x", link.Content)
	assert.Equal(t, markup.Attributes{
		{Name: "title", Value: "a>b"},
		{Name: "data-x", Value: "<c>"},
	}, link.Attributes)

	_, err = markup.Tokenize(`<p><a title="a>x</a></p>`)
	require.ErrorIs(t, err, markup.ErrMalformedMarkup)
}

func TestTokenize_SelfClosingDetection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		wantContent string
		wantEmpty   bool
		wantRender  string
	}{
		{
			name:        "unquoted value ending in slash",
			input:       `<p><a href=/>x</a></p>`,
			wantContent: "x",
			wantRender:  `<p><a href="/">x</a></p>`,
		},
		{
			name:        "unquoted path value",
			input:       `<p><a href=/docs/>x</a>y</p>`,
			wantContent: "x",
			wantRender:  `<p><a href="/docs/">x</a>y</p>`,
		},
		{
			name:       "slash after name",
			input:      `<p><span/>y</p>`,
			wantEmpty:  true,
			wantRender: `<p><span></span>y</p>`,
		},
		{
			name:       "slash after flag attribute",
			input:      `<p><span hidden />y</p>`,
			wantEmpty:  true,
			wantRender: `<p><span hidden></span>y</p>`,
		},
		{
			name:       "slash after quoted value",
			input:      `<p><span title="a/"/>y</p>`,
			wantEmpty:  true,
			wantRender: `<p><span title="a/"></span>y</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			block, err := markup.Tokenize(tt.input)
			require.NoError(t, err)
			require.Len(t, block.Children, 1)

			child := block.Children[0]
			assert.Equal(t, tt.wantEmpty, child.IsEmpty())
			assert.Equal(t, tt.wantContent, child.Content)
			assert.Equal(t, tt.wantRender, markup.Render(block))
		})
	}
}

func TestTokenize_LowercasesTagNames(t *testing.T) {
	t.Parallel()

	block, err := markup.Tokenize(`<P><STRONG>x</STRONG></P>`)
	require.NoError(t, err)
	assert.Equal(t, "p", block.TagName)
	assert.Equal(t, "strong", block.Children[0].TagName)
}

func TestTokenize_CountsRunes(t *testing.T) {
	t.Parallel()

	block, err := markup.Tokenize(`<p>héllo <b>wörld</b></p>`)
	require.NoError(t, err)
	assert.Equal(t, 11, block.ContentLen())
	assert.Equal(t, 6, block.Children[0].From)
	assert.Equal(t, 10, block.Children[0].To)
}

func TestTokenize_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"stray closing tag", "</p>"},
		{"mismatched closing tag", "<p><b>x</i></p>"},
		{"unclosed element", "<p><b>x</p>"},
		{"missing root close", "<p>x"},
		{"unterminated tag", "<p>x</p"},
		{"text before root", "x<p>a</p>"},
		{"sibling roots", "<p>a</p><p>b</p>"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			block, err := markup.Tokenize(testCase.input)
			require.Error(t, err)
			assert.Nil(t, block)
			assert.ErrorIs(t, err, markup.ErrMalformedMarkup)

			var malformedErr *markup.MalformedMarkupError
			require.True(t, errors.As(err, &malformedErr))
			assert.NotEmpty(t, malformedErr.Reason)
		})
	}
}

func TestAttributes_Delete(t *testing.T) {
	t.Parallel()

	attrs := markup.Attributes{{Name: "class", Value: "a"}, {Name: "hidden", Flag: true}}

	assert.True(t, attrs.Delete("class"))
	assert.False(t, attrs.Delete("class"))
	assert.False(t, attrs.Has("class"))
	assert.True(t, attrs.Has("hidden"))
	assert.Len(t, attrs, 1)
}
