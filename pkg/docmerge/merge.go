package docmerge

import "strings"

// MergeParagraphFields substitutes every field token in the paragraph
// against data, rebuilding the run sequence in place.
//
// All synthesized text lands in a single run carrying the formatting of
// the paragraph's original first run; per-run formatting boundaries that
// fell inside literal text are not preserved once a paragraph is
// touched. A paragraph with no field tokens is left exactly as it was.
//
// An absent field is dropped when removeEmpty is true, and otherwise
// left verbatim so a later merge with the same data is a no-op.
func MergeParagraphFields(p *Paragraph, data Context, removeEmpty bool, delims Delimiters) {
	text := p.GetText()
	matches := ScanFields(text, delims)
	if len(matches) == 0 {
		return
	}

	var props *RunProperties
	if len(p.Runs) > 0 {
		props = p.Runs[0].Properties
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m.Start])

		value, present := Resolve(m.Name, data)
		if present {
			if s, ok := scalarText(value); ok {
				b.WriteString(s)
			} else if !removeEmpty {
				// Repeat data in a field position is not substitutable.
				b.WriteString(text[m.Start:m.End])
			}
		} else if !removeEmpty {
			b.WriteString(text[m.Start:m.End])
		}

		last = m.End
	}
	b.WriteString(text[last:])

	p.Runs = []Run{{
		Properties: props,
		Text:       &Text{Space: "preserve", Content: b.String()},
	}}
}

// mergeBlocks applies the scalar merger to every paragraph in a block
// sequence, recursing into table cells at every depth.
func mergeBlocks(blocks []BodyElement, data Context, removeEmpty bool, delims Delimiters) {
	for _, block := range blocks {
		switch el := block.(type) {
		case *Paragraph:
			MergeParagraphFields(el, data, removeEmpty, delims)
		case *Table:
			for ri := range el.Rows {
				for ci := range el.Rows[ri].Cells {
					mergeBlocks(el.Rows[ri].Cells[ci].Blocks, data, removeEmpty, delims)
				}
			}
		}
	}
}
