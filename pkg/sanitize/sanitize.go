package sanitize

import (
	"fmt"

	"github.com/yaklabco/gorichtext/pkg/markup"
)

// Context says which whitelist applies to an element.
type Context string

const (
	// ContextOuter is a block root.
	ContextOuter Context = "outer"

	// ContextInner is an interval nested in phrasing content.
	ContextInner Context = "inner"
)

// ChangeKind classifies what the sanitizer did to an element.
type ChangeKind string

const (
	ChangeRemovedEmpty      ChangeKind = "removed-empty"
	ChangeConverted         ChangeKind = "converted"
	ChangeDisallowed        ChangeKind = "disallowed"
	ChangeStrippedAttribute ChangeKind = "stripped-attribute"
)

// Change records one modification made during sanitization.
type Change struct {
	Kind    ChangeKind `json:"kind"`
	Context Context    `json:"context"`

	// Block is the index of the block in the sanitized sequence.
	Block int `json:"block"`

	// Child is the index into the block's children, or -1 for the root.
	Child int `json:"child"`

	// TagName is the tag as it was before this change.
	TagName string `json:"tagName"`

	// Detail holds the conversion target or the stripped attribute name.
	Detail string `json:"detail,omitempty"`
}

// String returns a one-line description of the change.
func (c Change) String() string {
	switch c.Kind {
	case ChangeRemovedEmpty:
		return fmt.Sprintf("removed empty <%s>", c.TagName)
	case ChangeConverted:
		return fmt.Sprintf("converted <%s> to <%s>", c.TagName, c.Detail)
	case ChangeDisallowed:
		return fmt.Sprintf("removed <%s>: not allowed in %s context", c.TagName, c.Context)
	case ChangeStrippedAttribute:
		return fmt.Sprintf("stripped attribute %q from <%s>", c.Detail, c.TagName)
	default:
		return string(c.Kind)
	}
}

// Sanitize applies policy to blocks in place and returns them. Removed
// elements keep their slot with Removed set. Sanitize never fails.
func Sanitize(blocks []*markup.Block, policy *Policy) []*markup.Block {
	(&pass{policy: policy}).run(blocks)
	return blocks
}

// Audit sanitizes like Sanitize and returns every change it made.
func Audit(blocks []*markup.Block, policy *Policy) []Change {
	p := &pass{policy: policy, record: true}
	p.run(blocks)
	return p.changes
}

// pass is one sanitization run over a block sequence.
type pass struct {
	policy  *Policy
	record  bool
	changes []Change
}

func (p *pass) run(blocks []*markup.Block) {
	if p.policy == nil {
		p.policy = DefaultPolicy()
	}
	for blockIdx, block := range blocks {
		if block == nil || block.Removed {
			continue
		}
		p.element(&block.Interval, ContextOuter, blockIdx, -1)
		if block.Removed || !IsPhrasingContent(block.TagName) {
			continue
		}
		for childIdx, child := range block.Children {
			if child == nil || child.Removed {
				continue
			}
			p.element(child, ContextInner, blockIdx, childIdx)
		}
	}
}

// element applies empty removal, conversion, whitelist filtering and
// attribute stripping to one element, in that order.
func (p *pass) element(iv *markup.Interval, ctx Context, blockIdx, childIdx int) {
	note := func(kind ChangeKind, tagName, detail string) {
		if p.record {
			p.changes = append(p.changes, Change{
				Kind: kind, Context: ctx, Block: blockIdx, Child: childIdx,
				TagName: tagName, Detail: detail,
			})
		}
	}

	if iv.IsEmpty() {
		iv.Removed = true
		note(ChangeRemovedEmpty, iv.TagName, "")
	}

	if to, ok := p.policy.Convert(iv.TagName); ok && to != iv.TagName {
		note(ChangeConverted, iv.TagName, to)
		iv.TagName = to
	}

	allowed := p.policy.AllowInner
	if ctx == ContextOuter {
		allowed = p.policy.AllowOuter
	}
	if !allowed(iv.TagName) && !iv.Removed {
		iv.Removed = true
		note(ChangeDisallowed, iv.TagName, "")
	}

	for i := 0; i < len(iv.Attributes); {
		name := iv.Attributes[i].Name
		if p.policy.Strips(name) {
			iv.Attributes.Delete(name)
			note(ChangeStrippedAttribute, iv.TagName, name)
			continue
		}
		i++
	}
}
