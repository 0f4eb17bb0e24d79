package markup

import (
	"strings"
	"unicode"
)

// tagState is a state of the tag-text scanner.
type tagState int

const (
	stateBeforeName tagState = iota
	stateInName
	stateBeforeAttr
	stateInAttrName
	stateAfterAttrName
	stateBeforeAttrValue
	stateInAttrValue
	stateInUnquotedValue
)

// parsedTag is the result of scanning the text between '<' and '>'.
type parsedTag struct {
	name        string
	attributes  Attributes
	selfClosing bool
}

// parseTag extracts the tag name and attributes from the text of an opening
// tag. The text excludes the angle brackets.
func parseTag(text string) parsedTag {
	var (
		tag   parsedTag
		state = stateBeforeName
		name  strings.Builder
		attr  strings.Builder
		value strings.Builder
		quote rune
	)

	flushFlag := func() {
		if attr.Len() > 0 {
			tag.attributes.add(Attribute{Name: strings.ToLower(attr.String()), Flag: true})
			attr.Reset()
		}
	}
	flushValue := func() {
		tag.attributes.add(Attribute{Name: strings.ToLower(attr.String()), Value: value.String()})
		attr.Reset()
		value.Reset()
	}

	// slash is set by a '/' outside any attribute value and cleared by
	// anything but whitespace after it.
	slash := false

	for _, r := range text {
		if slash && !unicode.IsSpace(r) {
			slash = false
		}
		switch state {
		case stateBeforeName:
			if isNameRune(r) {
				name.WriteRune(r)
				state = stateInName
			}
		case stateInName:
			if isNameRune(r) {
				name.WriteRune(r)
				continue
			}
			slash = r == '/'
			state = stateBeforeAttr
		case stateBeforeAttr:
			switch {
			case r == '/':
				slash = true
			case isNameRune(r):
				attr.WriteRune(r)
				state = stateInAttrName
			}
		case stateInAttrName:
			switch {
			case isNameRune(r):
				attr.WriteRune(r)
			case r == '=':
				state = stateBeforeAttrValue
			case unicode.IsSpace(r):
				state = stateAfterAttrName
			default:
				flushFlag()
				slash = r == '/'
				state = stateBeforeAttr
			}
		case stateAfterAttrName:
			switch {
			case r == '=':
				state = stateBeforeAttrValue
			case unicode.IsSpace(r):
			case isNameRune(r):
				flushFlag()
				attr.WriteRune(r)
				state = stateInAttrName
			default:
				flushFlag()
				slash = r == '/'
				state = stateBeforeAttr
			}
		case stateBeforeAttrValue:
			switch {
			case r == '"' || r == '\'':
				quote = r
				state = stateInAttrValue
			case unicode.IsSpace(r):
			default:
				value.WriteRune(r)
				state = stateInUnquotedValue
			}
		case stateInAttrValue:
			if r == quote {
				flushValue()
				state = stateBeforeAttr
				continue
			}
			value.WriteRune(r)
		case stateInUnquotedValue:
			if unicode.IsSpace(r) {
				flushValue()
				state = stateBeforeAttr
				continue
			}
			value.WriteRune(r)
		}
	}

	switch state {
	case stateInAttrName, stateAfterAttrName:
		flushFlag()
	case stateBeforeAttrValue:
		// "name=" with nothing after it.
		flushValue()
	case stateInAttrValue, stateInUnquotedValue:
		flushValue()
	}

	tag.selfClosing = slash
	tag.name = strings.ToLower(name.String())
	return tag
}

// isNameRune reports whether r may appear in a tag or attribute name.
func isNameRune(r rune) bool {
	return r == '-' || r == '_' || r == ':' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
