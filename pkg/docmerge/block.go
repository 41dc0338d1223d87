package docmerge

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Document represents the parsed structure of word/document.xml.
type Document struct {
	XMLName xml.Name `xml:"document"`
	Body    *Body    `xml:"body"`
}

// BodyElement is any element that can appear in a block sequence:
// a paragraph or a table, in document order.
type BodyElement interface {
	isBodyElement()
}

// Body is the document body: an ordered sequence of blocks plus the
// trailing section properties, which are carried through untouched.
type Body struct {
	Elements          []BodyElement
	SectionProperties *SectionProperties
}

// Paragraph is an ordered sequence of runs.
type Paragraph struct {
	Properties *ParagraphProperties `xml:"pPr"`
	Runs       []Run                `xml:"r"`
}

func (p *Paragraph) isBodyElement() {}

// ParagraphProperties holds paragraph formatting as raw XML. The engine
// never inspects it; it is preserved verbatim on save.
type ParagraphProperties struct {
	Raw string `xml:",innerxml"`
}

// Run is a span of text sharing one set of formatting properties.
type Run struct {
	Properties *RunProperties `xml:"rPr"`
	Text       *Text          `xml:"t"`
	Break      *Break         `xml:"br"`
}

// RunProperties holds run formatting as raw XML, opaque to the engine.
type RunProperties struct {
	Raw string `xml:",innerxml"`
}

// Text is the character content of a run.
type Text struct {
	Space   string `xml:"space,attr"`
	Content string `xml:",chardata"`
}

// Break is a line or page break within a run.
type Break struct {
	Type string `xml:"type,attr"`
}

// Table is an ordered sequence of rows.
type Table struct {
	Properties *TableProperties `xml:"tblPr"`
	Grid       *TableGrid       `xml:"tblGrid"`
	Rows       []TableRow       `xml:"tr"`
}

func (t *Table) isBodyElement() {}

// TableProperties holds table formatting as raw XML.
type TableProperties struct {
	Raw string `xml:",innerxml"`
}

// TableGrid holds the column definitions as raw XML.
type TableGrid struct {
	Raw string `xml:",innerxml"`
}

// TableRow is an ordered sequence of cells.
type TableRow struct {
	Properties *TableRowProperties `xml:"trPr"`
	Cells      []TableCell         `xml:"tc"`
}

// TableRowProperties holds row formatting as raw XML.
type TableRowProperties struct {
	Raw string `xml:",innerxml"`
}

// TableCell contains a nested block sequence: paragraphs and, in
// principle, further nested tables.
type TableCell struct {
	Properties *TableCellProperties
	Blocks     []BodyElement
}

// TableCellProperties holds cell formatting as raw XML.
type TableCellProperties struct {
	Raw string `xml:",innerxml"`
}

// SectionProperties holds the body's trailing sectPr as raw XML.
type SectionProperties struct {
	Raw string `xml:",innerxml"`
}

// UnmarshalXML decodes the body while preserving block order.
func (b *Body) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var para Paragraph
				if err := d.DecodeElement(&para, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, &para)
			case "tbl":
				var table Table
				if err := d.DecodeElement(&table, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, &table)
			case "sectPr":
				var sect SectionProperties
				if err := d.DecodeElement(&sect, &t); err != nil {
					return err
				}
				b.SectionProperties = &sect
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "body" {
				return nil
			}
		}
	}
	return nil
}

// UnmarshalXML decodes a cell's nested block sequence in order.
func (c *TableCell) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tcPr":
				var props TableCellProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				c.Properties = &props
			case "p":
				var para Paragraph
				if err := d.DecodeElement(&para, &t); err != nil {
					return err
				}
				c.Blocks = append(c.Blocks, &para)
			case "tbl":
				var table Table
				if err := d.DecodeElement(&table, &t); err != nil {
					return err
				}
				c.Blocks = append(c.Blocks, &table)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "tc" {
				return nil
			}
		}
	}
	return nil
}

// ParseDocument parses a document.xml stream into the block model.
func ParseDocument(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, NewParseError("document structure", err)
	}
	return &doc, nil
}

// GetText returns the text content of a run.
func (r *Run) GetText() string {
	if r.Text == nil {
		return ""
	}
	return r.Text.Content
}

// GetText returns the concatenated text of all runs in document order.
// Offsets reported by ScanFields are positions in this concatenation.
func (p *Paragraph) GetText() string {
	var b strings.Builder
	for _, run := range p.Runs {
		b.WriteString(run.GetText())
	}
	return b.String()
}

// GetText returns the text of all paragraphs in the cell, newline-joined.
func (c *TableCell) GetText() string {
	var texts []string
	for _, block := range c.Blocks {
		if para, ok := block.(*Paragraph); ok {
			if text := para.GetText(); text != "" {
				texts = append(texts, text)
			}
		}
	}
	return strings.Join(texts, "\n")
}

// AddParagraph appends a paragraph with a single unformatted run and
// returns it.
func (b *Body) AddParagraph(text string) *Paragraph {
	para := &Paragraph{}
	if text != "" {
		para.Runs = []Run{{Text: &Text{Space: "preserve", Content: text}}}
	}
	b.Elements = append(b.Elements, para)
	return para
}

// ReplaceRange splices repl into blocks in place of blocks[start:end].
// The bounds are a programmer contract: an inverted or out-of-range pair
// indicates an internal invariant violation and panics.
func ReplaceRange(blocks []BodyElement, start, end int, repl []BodyElement) []BodyElement {
	if start < 0 || end < start || end > len(blocks) {
		panic(fmt.Sprintf("docmerge: invalid block range [%d:%d] of %d", start, end, len(blocks)))
	}
	out := make([]BodyElement, 0, len(blocks)-(end-start)+len(repl))
	out = append(out, blocks[:start]...)
	out = append(out, repl...)
	out = append(out, blocks[end:]...)
	return out
}

// marshalBody renders the body back to WordprocessingML. Raw property
// blocks are emitted verbatim, so original formatting and namespace
// prefixes survive the round trip.
func (b *Body) marshalBody() []byte {
	var buf bytes.Buffer
	buf.WriteString("<w:body>")
	for _, elem := range b.Elements {
		switch el := elem.(type) {
		case *Paragraph:
			writeParagraph(&buf, el)
		case *Table:
			writeTable(&buf, el)
		}
	}
	if b.SectionProperties != nil {
		buf.WriteString("<w:sectPr>")
		buf.WriteString(b.SectionProperties.Raw)
		buf.WriteString("</w:sectPr>")
	}
	buf.WriteString("</w:body>")
	return buf.Bytes()
}

func writeParagraph(buf *bytes.Buffer, p *Paragraph) {
	buf.WriteString("<w:p>")
	if p.Properties != nil {
		buf.WriteString("<w:pPr>")
		buf.WriteString(p.Properties.Raw)
		buf.WriteString("</w:pPr>")
	}
	for i := range p.Runs {
		writeRun(buf, &p.Runs[i])
	}
	buf.WriteString("</w:p>")
}

func writeRun(buf *bytes.Buffer, r *Run) {
	buf.WriteString("<w:r>")
	if r.Properties != nil {
		buf.WriteString("<w:rPr>")
		buf.WriteString(r.Properties.Raw)
		buf.WriteString("</w:rPr>")
	}
	if r.Break != nil {
		if r.Break.Type != "" {
			fmt.Fprintf(buf, `<w:br w:type="%s"/>`, r.Break.Type)
		} else {
			buf.WriteString("<w:br/>")
		}
	}
	if r.Text != nil {
		buf.WriteString(`<w:t xml:space="preserve">`)
		xml.EscapeText(buf, []byte(r.Text.Content))
		buf.WriteString("</w:t>")
	}
	buf.WriteString("</w:r>")
}

func writeTable(buf *bytes.Buffer, t *Table) {
	buf.WriteString("<w:tbl>")
	if t.Properties != nil {
		buf.WriteString("<w:tblPr>")
		buf.WriteString(t.Properties.Raw)
		buf.WriteString("</w:tblPr>")
	}
	if t.Grid != nil {
		buf.WriteString("<w:tblGrid>")
		buf.WriteString(t.Grid.Raw)
		buf.WriteString("</w:tblGrid>")
	}
	for ri := range t.Rows {
		row := &t.Rows[ri]
		buf.WriteString("<w:tr>")
		if row.Properties != nil {
			buf.WriteString("<w:trPr>")
			buf.WriteString(row.Properties.Raw)
			buf.WriteString("</w:trPr>")
		}
		for ci := range row.Cells {
			cell := &row.Cells[ci]
			buf.WriteString("<w:tc>")
			if cell.Properties != nil {
				buf.WriteString("<w:tcPr>")
				buf.WriteString(cell.Properties.Raw)
				buf.WriteString("</w:tcPr>")
			}
			for _, block := range cell.Blocks {
				switch el := block.(type) {
				case *Paragraph:
					writeParagraph(buf, el)
				case *Table:
					writeTable(buf, el)
				}
			}
			buf.WriteString("</w:tc>")
		}
		buf.WriteString("</w:tr>")
	}
	buf.WriteString("</w:tbl>")
}
