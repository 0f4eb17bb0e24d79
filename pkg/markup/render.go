package markup

import "strings"

// Render re-applies the surviving intervals of block onto its content and
// returns the resulting markup. Removed blocks render as the empty string.
//
// Children are applied in closing order. When several intervals start at
// the same offset, the one applied later ends up outside the earlier one;
// the same holds for shared end offsets.
func Render(block *Block) string {
	if block == nil || block.Removed {
		return ""
	}

	open, closeTag := tags(block.TagName, block.Attributes)
	if block.Void {
		return open
	}

	runes := []rune(block.Content)
	// One trailing cell addresses the position after the last character.
	cells := make([]string, len(runes)+1)
	for i, r := range runes {
		cells[i] = string(r)
	}

	for _, child := range block.Children {
		if child == nil || child.Removed {
			continue
		}
		from := clamp(child.From, len(cells)-1)
		childOpen, childClose := tags(child.TagName, child.Attributes)

		switch {
		case child.Void:
			cells[from] = childOpen + cells[from]
		case child.To < child.From:
			cells[from] = childOpen + childClose + cells[from]
		default:
			cells[from] = childOpen + cells[from]
			to := clamp(child.To, len(cells)-1)
			cells[to] += childClose
		}
	}

	var builder strings.Builder
	builder.WriteString(open)
	for _, cell := range cells {
		builder.WriteString(cell)
	}
	builder.WriteString(closeTag)
	return builder.String()
}

// RenderAll renders every surviving block and joins them with sep.
func RenderAll(blocks []*Block, sep string) string {
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if block == nil || block.Removed {
			continue
		}
		parts = append(parts, Render(block))
	}
	return strings.Join(parts, sep)
}

// OpenTag returns the opening tag markup for an element.
func OpenTag(tagName string, attrs Attributes) string {
	open, _ := tags(tagName, attrs)
	return open
}

func tags(tagName string, attrs Attributes) (string, string) {
	var open strings.Builder
	open.WriteByte('<')
	open.WriteString(tagName)
	for _, attr := range attrs {
		open.WriteByte(' ')
		open.WriteString(attr.Name)
		if attr.Flag {
			continue
		}
		open.WriteString(`="`)
		open.WriteString(strings.ReplaceAll(attr.Value, `"`, "&quot;"))
		open.WriteByte('"')
	}
	open.WriteByte('>')
	return open.String(), "</" + tagName + ">"
}

func clamp(idx, maxIdx int) int {
	if idx < 0 {
		return 0
	}
	if idx > maxIdx {
		return maxIdx
	}
	return idx
}
