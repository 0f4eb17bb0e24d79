// Package markup turns the serialized markup of one block element into a flat
// text plus a list of offset-addressed tag intervals, and renders such a block
// back into markup.
//
// Offsets are measured in rendered characters (Unicode code points) of the
// flattened content and never count markup syntax.
package markup

import "strings"

// voidElements are the element kinds that never have a closing tag.
//
//nolint:gochecknoglobals // Read-only lookup table.
var voidElements = map[string]bool{
	"hr":  true,
	"br":  true,
	"img": true,
}

// IsVoidElement reports whether tagName is a self-closing element kind.
func IsVoidElement(tagName string) bool {
	return voidElements[strings.ToLower(tagName)]
}

// Attribute is a single tag attribute.
type Attribute struct {
	// Name is the lower-cased attribute name.
	Name string `json:"name"`

	// Value is the raw attribute value as written in the source.
	Value string `json:"value,omitempty"`

	// Flag marks a valueless attribute such as "disabled".
	Flag bool `json:"flag,omitempty"`
}

// Attributes is an ordered attribute mapping with unique names.
type Attributes []Attribute

// Get returns the attribute with the given name.
func (a Attributes) Get(name string) (Attribute, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr, true
		}
	}
	return Attribute{}, false
}

// Has reports whether an attribute with the given name exists.
func (a Attributes) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// add appends attr unless an attribute with the same name already exists.
// The first occurrence wins.
func (a *Attributes) add(attr Attribute) {
	if a.Has(attr.Name) {
		return
	}
	*a = append(*a, attr)
}

// Delete removes the named attribute and reports whether it was present.
func (a *Attributes) Delete(name string) bool {
	for i, attr := range *a {
		if attr.Name == name {
			*a = append((*a)[:i], (*a)[i+1:]...)
			return true
		}
	}
	return false
}

// Interval is one tag occurrence inside a block's flattened content.
type Interval struct {
	// TagName is the lower-cased element name.
	TagName string `json:"tagName"`

	// Attributes holds the element's attributes in source order.
	Attributes Attributes `json:"attributes,omitempty"`

	// From is the inclusive start offset into the block content.
	From int `json:"from"`

	// To is the inclusive end offset. It is From-1 for elements without
	// rendered text and unused for void elements.
	To int `json:"to"`

	// Void marks self-closing element kinds (hr, br, img).
	Void bool `json:"isVoid,omitempty"`

	// Content is the rendered text inside the element, including the text
	// of nested elements. Void elements have no content.
	Content string `json:"content,omitempty"`

	// Removed is set by the sanitizer. Removed intervals keep their slot so
	// the closing order of the survivors is unchanged.
	Removed bool `json:"removed,omitempty"`
}

// IsEmpty reports whether a non-void element has no rendered text.
func (iv *Interval) IsEmpty() bool {
	return !iv.Void && iv.Content == ""
}

// Block is the outermost record of one root element.
type Block struct {
	// Interval describes the root element itself. Its From and To are not
	// meaningful.
	Interval

	// Children holds every non-root interval in closing order.
	Children []*Interval `json:"children,omitempty"`

	// HTML is the markup the block was tokenized from.
	HTML string `json:"html"`
}

// Live returns the children that have not been removed, in closing order.
func (b *Block) Live() []*Interval {
	live := make([]*Interval, 0, len(b.Children))
	for _, child := range b.Children {
		if child != nil && !child.Removed {
			live = append(live, child)
		}
	}
	return live
}

// ContentLen returns the length of the flattened content in characters.
func (b *Block) ContentLen() int {
	return len([]rune(b.Content))
}
