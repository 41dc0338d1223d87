package docmerge

import (
	"reflect"
	"strings"
	"testing"
)

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:rPr><w:b/></w:rPr><w:t>Title</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Hello </w:t></w:r><w:r><w:t>{{name}}</w:t></w:r></w:p>
<w:tbl>
<w:tblPr><w:tblW w:w="0" w:type="auto"/></w:tblPr>
<w:tblGrid><w:gridCol w:w="4815"/></w:tblGrid>
<w:tr><w:tc><w:tcPr><w:tcW w:w="4815" w:type="dxa"/></w:tcPr><w:p><w:r><w:t>cell one</w:t></w:r></w:p><w:p><w:r><w:t>cell two</w:t></w:r></w:p></w:tc></w:tr>
</w:tbl>
<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr>
</w:body>
</w:document>`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(sampleDocumentXML))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if doc.Body == nil {
		t.Fatal("parsed document has no body")
	}
	if len(doc.Body.Elements) != 3 {
		t.Fatalf("got %d body elements, want 3", len(doc.Body.Elements))
	}

	title, ok := doc.Body.Elements[0].(*Paragraph)
	if !ok {
		t.Fatal("first element should be a paragraph")
	}
	if got := title.GetText(); got != "Title" {
		t.Errorf("title text = %q", got)
	}
	if title.Properties == nil || !strings.Contains(title.Properties.Raw, "jc") {
		t.Error("paragraph properties not preserved")
	}
	if title.Runs[0].Properties == nil || !strings.Contains(title.Runs[0].Properties.Raw, "b") {
		t.Error("run properties not preserved")
	}

	greeting := doc.Body.Elements[1].(*Paragraph)
	if got := greeting.GetText(); got != "Hello {{name}}" {
		t.Errorf("greeting text = %q", got)
	}
	if len(greeting.Runs) != 2 {
		t.Errorf("greeting has %d runs, want 2", len(greeting.Runs))
	}

	table, ok := doc.Body.Elements[2].(*Table)
	if !ok {
		t.Fatal("third element should be a table")
	}
	if len(table.Rows) != 1 || len(table.Rows[0].Cells) != 1 {
		t.Fatalf("table shape = %d rows", len(table.Rows))
	}
	cell := table.Rows[0].Cells[0]
	if cell.Properties == nil || !strings.Contains(cell.Properties.Raw, "tcW") {
		t.Error("cell properties not preserved")
	}
	if got := cell.GetText(); got != "cell one\ncell two" {
		t.Errorf("cell text = %q", got)
	}

	if doc.Body.SectionProperties == nil || !strings.Contains(doc.Body.SectionProperties.Raw, "pgSz") {
		t.Error("section properties not preserved")
	}
}

func TestParseDocumentOrderPreserved(t *testing.T) {
	xmlDoc := `<w:document xmlns:w="ns"><w:body>` +
		`<w:p><w:r><w:t>one</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>mid</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`<w:p><w:r><w:t>two</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	doc, err := ParseDocument(strings.NewReader(xmlDoc))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	var kinds []string
	for _, elem := range doc.Body.Elements {
		switch elem.(type) {
		case *Paragraph:
			kinds = append(kinds, "p")
		case *Table:
			kinds = append(kinds, "tbl")
		}
	}
	if want := []string{"p", "tbl", "p"}; !reflect.DeepEqual(kinds, want) {
		t.Errorf("element order = %v, want %v", kinds, want)
	}
}

func TestParseDocumentInvalid(t *testing.T) {
	_, err := ParseDocument(strings.NewReader("not xml at all <"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "parse error") {
		t.Errorf("error = %q", err)
	}
}

func TestMarshalBodyRoundTrip(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(sampleDocumentXML))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	out := string(doc.Body.marshalBody())

	for _, want := range []string{
		`<w:pPr><w:jc w:val="center"/></w:pPr>`,
		`<w:rPr><w:b/></w:rPr>`,
		`<w:t xml:space="preserve">Title</w:t>`,
		`<w:t xml:space="preserve">Hello </w:t>`,
		`<w:tblPr><w:tblW w:w="0" w:type="auto"/></w:tblPr>`,
		`<w:tblGrid><w:gridCol w:w="4815"/></w:tblGrid>`,
		`<w:tcPr><w:tcW w:w="4815" w:type="dxa"/></w:tcPr>`,
		`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("marshaled body missing %q", want)
		}
	}

	reparsed, err := ParseDocument(strings.NewReader(
		`<w:document xmlns:w="ns">` + out + `</w:document>`))
	if err != nil {
		t.Fatalf("reparse marshaled body: %v", err)
	}
	if len(reparsed.Body.Elements) != len(doc.Body.Elements) {
		t.Errorf("reparse element count = %d, want %d",
			len(reparsed.Body.Elements), len(doc.Body.Elements))
	}
	if got := reparsed.Body.Elements[1].(*Paragraph).GetText(); got != "Hello {{name}}" {
		t.Errorf("reparsed greeting = %q", got)
	}
}

func TestMarshalBodyEscapesText(t *testing.T) {
	body := &Body{}
	body.AddParagraph(`a < b & "c"`)

	out := string(body.marshalBody())
	if !strings.Contains(out, "a &lt; b &amp;") {
		t.Errorf("text not escaped: %s", out)
	}
	if strings.Contains(out, `a < b`) {
		t.Errorf("raw markup characters leaked: %s", out)
	}
}

func TestMarshalRunBreak(t *testing.T) {
	p := &Paragraph{Runs: []Run{
		{Break: &Break{Type: "page"}},
		{Break: &Break{}},
	}}
	body := &Body{Elements: []BodyElement{p}}

	out := string(body.marshalBody())
	if !strings.Contains(out, `<w:br w:type="page"/>`) {
		t.Errorf("typed break missing: %s", out)
	}
	if !strings.Contains(out, `<w:br/>`) {
		t.Errorf("plain break missing: %s", out)
	}
}

func TestReplaceRange(t *testing.T) {
	a, b, c := para("a"), para("b"), para("c")
	blocks := []BodyElement{a, b, c}

	out := ReplaceRange(blocks, 1, 2, []BodyElement{para("x"), para("y")})
	if got := paragraphTexts(out); !reflect.DeepEqual(got, []string{"a", "x", "y", "c"}) {
		t.Errorf("spliced = %v", got)
	}

	out = ReplaceRange(blocks, 0, 3, nil)
	if len(out) != 0 {
		t.Errorf("full-range removal left %d blocks", len(out))
	}

	out = ReplaceRange(blocks, 1, 1, []BodyElement{para("i")})
	if got := paragraphTexts(out); !reflect.DeepEqual(got, []string{"a", "i", "b", "c"}) {
		t.Errorf("insertion = %v", got)
	}
}

func TestAddParagraph(t *testing.T) {
	body := &Body{}
	p := body.AddParagraph("hello")

	if len(body.Elements) != 1 {
		t.Fatalf("body has %d elements, want 1", len(body.Elements))
	}
	if got := p.GetText(); got != "hello" {
		t.Errorf("paragraph text = %q", got)
	}

	empty := body.AddParagraph("")
	if len(empty.Runs) != 0 {
		t.Errorf("empty paragraph has %d runs, want 0", len(empty.Runs))
	}
}
