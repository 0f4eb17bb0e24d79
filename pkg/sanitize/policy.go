// Package sanitize filters, rewrites and removes the tag intervals of
// tokenized blocks according to a whitelist policy.
package sanitize

import (
	"slices"
	"strings"
)

// Default option values used when an option is absent.
//
//nolint:gochecknoglobals // Read-only defaults.
var (
	DefaultOuterElements = []string{"h2", "h3", "p", "blockquote", "figure", "pre", "hr", "ul", "ol"}
	DefaultInnerElements = []string{"b", "i", "u", "a", "q", "code", "mark", "br"}
	DefaultConversions   = map[string]string{"strong": "b", "em": "i"}
)

// phrasingContent are the block kinds whose inner intervals are sanitized.
//
//nolint:gochecknoglobals // Read-only lookup table.
var phrasingContent = map[string]bool{
	"p":   true,
	"pre": true,
}

// IsPhrasingContent reports whether inner intervals of a block with the
// given tag are subject to the inner whitelist.
func IsPhrasingContent(tagName string) bool {
	return phrasingContent[tagName]
}

// Options configures a Policy. A nil field falls back to its default; a
// non-nil empty slice or map is taken as given.
type Options struct {
	OuterElements   []string
	InnerElements   []string
	Conversions     map[string]string
	StripAttributes []string
}

// Policy is an immutable sanitization configuration.
type Policy struct {
	outer       map[string]struct{}
	inner       map[string]struct{}
	conversions map[string]string
	strip       map[string]struct{}
}

// NewPolicy builds a Policy from opts. Tag and attribute names are
// lower-cased.
func NewPolicy(opts Options) *Policy {
	outer := opts.OuterElements
	if outer == nil {
		outer = DefaultOuterElements
	}
	inner := opts.InnerElements
	if inner == nil {
		inner = DefaultInnerElements
	}
	conversions := opts.Conversions
	if conversions == nil {
		conversions = DefaultConversions
	}

	policy := &Policy{
		outer:       toSet(outer),
		inner:       toSet(inner),
		conversions: make(map[string]string, len(conversions)),
		strip:       toSet(opts.StripAttributes),
	}
	for from, to := range conversions {
		policy.conversions[strings.ToLower(from)] = strings.ToLower(to)
	}
	return policy
}

// DefaultPolicy returns the policy with every option at its default.
func DefaultPolicy() *Policy {
	return NewPolicy(Options{})
}

// AllowOuter reports whether tagName may be a block root.
func (p *Policy) AllowOuter(tagName string) bool {
	_, ok := p.outer[tagName]
	return ok
}

// AllowInner reports whether tagName may appear inside phrasing content.
func (p *Policy) AllowInner(tagName string) bool {
	_, ok := p.inner[tagName]
	return ok
}

// Convert returns the rewrite target for tagName, if any.
func (p *Policy) Convert(tagName string) (string, bool) {
	to, ok := p.conversions[tagName]
	return to, ok
}

// Strips reports whether the attribute is removed unconditionally.
func (p *Policy) Strips(attribute string) bool {
	_, ok := p.strip[attribute]
	return ok
}

// OuterElements returns the allowed block roots in sorted order.
func (p *Policy) OuterElements() []string {
	return sortedKeys(p.outer)
}

// InnerElements returns the allowed inline tags in sorted order.
func (p *Policy) InnerElements() []string {
	return sortedKeys(p.inner)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
