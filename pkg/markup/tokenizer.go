package markup

import (
	"strings"
	"unicode"
)

// openRecord is an interval whose closing tag has not been seen yet.
type openRecord struct {
	interval *Interval
	content  strings.Builder
}

// tokenizer holds the scan state for one Tokenize call.
type tokenizer struct {
	pointer    int
	stack      []*openRecord
	completed  []*Interval
	flat       strings.Builder
	tagText    strings.Builder
	tagLast    rune
	tagQuote   rune
	inTag      bool
	closing    bool
	tagStart   int
	rootClosed bool
}

// Tokenize scans the markup of exactly one root element and returns its
// Block. Children are ordered by the position of their closing tag in the
// source.
func Tokenize(markup string) (*Block, error) {
	tok := &tokenizer{}
	runes := []rune(markup)

	for idx := 0; idx < len(runes); idx++ {
		char := runes[idx]

		if !tok.inTag && char == '<' {
			if tok.rootClosed {
				return nil, malformed(idx, "content after the root element")
			}
			tok.inTag = true
			tok.tagStart = idx
			tok.tagText.Reset()
			tok.tagLast = 0
			if idx+1 < len(runes) && runes[idx+1] == '/' {
				tok.closing = true
				idx++
				continue
			}
			tok.push()
			continue
		}

		if tok.inTag {
			if tok.tagQuote != 0 {
				// '>' inside a quoted attribute value is part of the value.
				if char == tok.tagQuote {
					tok.tagQuote = 0
				}
				tok.tagRune(char)
				continue
			}
			if char != '>' {
				if (char == '"' || char == '\'') && !tok.closing && tok.tagLast == '=' {
					tok.tagQuote = char
				}
				tok.tagRune(char)
				continue
			}
			tok.inTag = false
			if tok.closing {
				tok.closing = false
				if err := tok.pop(tok.tagStart); err != nil {
					return nil, err
				}
				continue
			}
			tok.finishOpening()
			continue
		}

		if len(tok.stack) == 0 {
			return nil, malformed(idx, "text outside the root element")
		}
		tok.text(char)
	}

	if tok.inTag {
		return nil, malformed(tok.tagStart, "unterminated tag")
	}
	if n := len(tok.stack); n > 0 {
		return nil, malformed(len(runes), "%d unclosed element(s), innermost <%s>", n, tok.stack[n-1].interval.TagName)
	}
	if len(tok.completed) == 0 {
		return nil, malformed(0, "no root element")
	}

	return tok.block(markup), nil
}

// tagRune appends one rune of tag text.
func (t *tokenizer) tagRune(char rune) {
	t.tagText.WriteRune(char)
	if !unicode.IsSpace(char) {
		t.tagLast = char
	}
}

// push opens a new record at the current pointer.
func (t *tokenizer) push() {
	t.stack = append(t.stack, &openRecord{interval: &Interval{From: t.pointer}})
}

// pop closes the innermost open record in response to a closing tag.
func (t *tokenizer) pop(offset int) error {
	name := strings.ToLower(strings.TrimSpace(t.tagText.String()))
	if len(t.stack) == 0 {
		return malformed(offset, "closing tag </%s> without an open element", name)
	}
	top := t.stack[len(t.stack)-1]
	if name != top.interval.TagName {
		return malformed(offset, "closing tag </%s> does not match <%s>", name, top.interval.TagName)
	}
	top.interval.To = t.pointer - 1
	top.interval.Content = top.content.String()
	t.complete()
	return nil
}

// finishOpening parses the tag text of the innermost record. Void and
// self-closing elements are closed immediately.
func (t *tokenizer) finishOpening() {
	top := t.stack[len(t.stack)-1]
	parsed := parseTag(t.tagText.String())
	top.interval.TagName = parsed.name
	top.interval.Attributes = parsed.attributes

	switch {
	case IsVoidElement(parsed.name):
		top.interval.Void = true
		t.complete()
	case parsed.selfClosing:
		top.interval.To = top.interval.From - 1
		t.complete()
	}
}

// complete moves the innermost record to the completed list.
func (t *tokenizer) complete() {
	top := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	t.completed = append(t.completed, top.interval)
	if len(t.stack) == 0 {
		t.rootClosed = true
	}
}

// text records one rendered character.
func (t *tokenizer) text(char rune) {
	for _, rec := range t.stack {
		rec.content.WriteRune(char)
	}
	t.pointer++
	t.flat.WriteRune(char)
}

// block assembles the result once the whole input has been consumed.
func (t *tokenizer) block(markup string) *Block {
	root := t.completed[len(t.completed)-1]
	block := &Block{
		Interval: Interval{
			TagName:    root.TagName,
			Attributes: root.Attributes,
			Void:       root.Void,
		},
		HTML: markup,
	}
	if !root.Void {
		block.Content = t.flat.String()
		block.Children = t.completed[:len(t.completed)-1]
	}
	return block
}
