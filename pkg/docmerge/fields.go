package docmerge

import (
	"fmt"
	"sort"
)

// GetFields returns the sorted, de-duplicated names of every field
// token in the document, including section marker names in their
// start_/end_ form, across body paragraphs and table cells at every
// depth.
func GetFields(doc *Document, delims Delimiters) []string {
	if doc == nil || doc.Body == nil {
		return nil
	}
	delims = delims.orDefault()

	seen := make(map[string]bool)
	collectFields(doc.Body.Elements, delims, seen)

	fields := make([]string, 0, len(seen))
	for name := range seen {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields
}

func collectFields(blocks []BodyElement, delims Delimiters, seen map[string]bool) {
	for _, block := range blocks {
		switch el := block.(type) {
		case *Paragraph:
			for _, m := range ScanFields(el.GetText(), delims) {
				seen[m.Name] = true
			}
		case *Table:
			for ri := range el.Rows {
				for ci := range el.Rows[ri].Cells {
					collectFields(el.Rows[ri].Cells[ci].Blocks, delims, seen)
				}
			}
		}
	}
}

// AddFieldParagraph appends a paragraph containing a single field token
// for name, for callers assembling templates programmatically.
func AddFieldParagraph(b *Body, name string, delims Delimiters) *Paragraph {
	delims = delims.orDefault()
	return b.AddParagraph(fmt.Sprintf("%s %s %s", delims.Open, name, delims.Close))
}

// AddRepeatingSection appends a start marker, the given content blocks,
// and an end marker for the named section.
func AddRepeatingSection(b *Body, name string, content []BodyElement, delims Delimiters) {
	delims = delims.orDefault()
	b.AddParagraph(fmt.Sprintf("%s start_%s %s", delims.Open, name, delims.Close))
	b.Elements = append(b.Elements, content...)
	b.AddParagraph(fmt.Sprintf("%s end_%s %s", delims.Open, name, delims.Close))
}
