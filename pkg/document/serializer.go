package document

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"github.com/yaklabco/gorichtext/pkg/markup"
	"github.com/yaklabco/gorichtext/pkg/sanitize"
)

// ErrSerialize is the category of every error returned by Serializer.
var ErrSerialize = errors.New("serialize document")

// BlockError reports a root element that could not be tokenized. The rest
// of the document is not serialized.
type BlockError struct {
	Index int
	HTML  string
	Err   error
}

// Error implements the error interface.
func (e *BlockError) Error() string {
	return fmt.Sprintf("block %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying tokenizer error.
func (e *BlockError) Unwrap() error {
	return e.Err
}

// Options configures a Serializer.
type Options struct {
	// Policy to sanitize with. Nil selects the default policy.
	Policy *sanitize.Policy

	// Separator is placed between rendered blocks.
	Separator string

	// AnnotateCodeLanguage adds data-lang to pre blocks before sanitizing.
	AnnotateCodeLanguage bool
}

// Result is a serialized document.
type Result struct {
	// HTML is the sanitized markup of all surviving blocks.
	HTML string

	// Blocks are the sanitized blocks, removed ones included.
	Blocks []*markup.Block

	// Changes lists every modification the sanitizer made.
	Changes []sanitize.Change
}

// Changed reports whether the output differs from input.
func (r *Result) Changed(input string) bool {
	return r.HTML != input
}

// Serializer turns documents into sanitized canonical markup.
type Serializer struct {
	opts Options
}

// NewSerializer creates a Serializer.
func NewSerializer(opts Options) *Serializer {
	if opts.Policy == nil {
		opts.Policy = sanitize.DefaultPolicy()
	}
	return &Serializer{opts: opts}
}

// Policy returns the policy in use.
func (s *Serializer) Policy() *sanitize.Policy {
	return s.opts.Policy
}

// Serialize parses an HTML fragment and serializes it.
func (s *Serializer) Serialize(ctx context.Context, fragment string) (*Result, error) {
	root, err := ParseString(fragment)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return s.SerializeNode(ctx, root)
}

// SerializeMarkdown renders Markdown with the given flavor and serializes
// the resulting HTML.
func (s *Serializer) SerializeMarkdown(ctx context.Context, source []byte, flavor string) (*Result, error) {
	rendered, err := FromMarkdown(source, flavor)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return s.Serialize(ctx, rendered)
}

// SerializeNode serializes the element children of root. Root is modified
// only when code language annotation is enabled.
func (s *Serializer) SerializeNode(ctx context.Context, root *html.Node) (*Result, error) {
	if s.opts.AnnotateCodeLanguage {
		AnnotateCodeLanguage(root)
	}

	roots := Roots(root)
	blocks := make([]*markup.Block, 0, len(roots))
	for idx, n := range roots {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("serialize cancelled: %w", err)
		}

		outer, err := OuterHTML(n)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
		}
		block, err := markup.Tokenize(outer)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSerialize, &BlockError{Index: idx, HTML: outer, Err: err})
		}
		blocks = append(blocks, block)
	}

	changes := sanitize.Audit(blocks, s.opts.Policy)
	return &Result{
		HTML:    markup.RenderAll(blocks, s.opts.Separator),
		Blocks:  blocks,
		Changes: changes,
	}, nil
}
