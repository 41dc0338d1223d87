package docmerge

// para builds a paragraph with one run per text fragment.
func para(texts ...string) *Paragraph {
	p := &Paragraph{}
	for _, text := range texts {
		p.Runs = append(p.Runs, Run{Text: &Text{Space: "preserve", Content: text}})
	}
	return p
}

// docOf wraps blocks into a document body.
func docOf(blocks ...BodyElement) *Document {
	return &Document{Body: &Body{Elements: blocks}}
}

// paragraphTexts flattens a block sequence to the text of its
// paragraphs, in order. Tables contribute nothing.
func paragraphTexts(blocks []BodyElement) []string {
	var texts []string
	for _, block := range blocks {
		if p, ok := block.(*Paragraph); ok {
			texts = append(texts, p.GetText())
		}
	}
	return texts
}

// oneCellTable builds a single-cell table holding the given blocks.
func oneCellTable(blocks ...BodyElement) *Table {
	return &Table{
		Rows: []TableRow{
			{Cells: []TableCell{{Blocks: blocks}}},
		},
	}
}
