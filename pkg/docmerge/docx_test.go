package docmerge

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDOCX assembles a minimal but valid DOCX package around the given
// document.xml body content.
func buildDOCX(t *testing.T, bodyXML string) []byte {
	t.Helper()

	documentXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		bodyXML + `</w:body></w:document>`

	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`,
		"_rels/.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`,
		"word/document.xml": documentXML,
		"word/styles.xml":   `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		fw, err := zw.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func textParagraph(text string) string {
	var b strings.Builder
	b.WriteString("<w:p><w:r><w:t xml:space=\"preserve\">")
	b.WriteString(text)
	b.WriteString("</w:t></w:r></w:p>")
	return b.String()
}

func readPart(t *testing.T, pkg []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(pkg), int64(len(pkg)))
	require.NoError(t, err)
	content, err := readZipPart(zr, name)
	require.NoError(t, err)
	return string(content)
}

func TestLoad(t *testing.T) {
	pkg := buildDOCX(t, textParagraph("Hello {{name}}"))

	td, err := Load(pkg)
	require.NoError(t, err)
	require.NotNil(t, td.Document)
	assert.Equal(t, []string{"Hello {{name}}"}, paragraphTexts(td.Document.Body.Elements))
}

func TestLoadNotAZip(t *testing.T) {
	_, err := Load([]byte("this is not a zip archive"))
	require.Error(t, err)
	assert.True(t, IsDocumentError(err))
}

func TestLoadMissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	_, err = fw.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Load(buf.Bytes())
	require.Error(t, err)
	assert.True(t, IsDocumentError(err))
	assert.Contains(t, err.Error(), "word/document.xml")
}

func TestSaveRoundTrip(t *testing.T) {
	pkg := buildDOCX(t,
		textParagraph("Hello {{name}}")+
			`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr>`)

	td, err := Load(pkg)
	require.NoError(t, err)
	require.NoError(t, MergeDocument(td.Document, Context{"name": "Ana"}, nil))

	var out bytes.Buffer
	require.NoError(t, td.Save(&out))

	documentXML := readPart(t, out.Bytes(), "word/document.xml")
	assert.Contains(t, documentXML, "Hello Ana")
	assert.NotContains(t, documentXML, "{{name}}")
	assert.Contains(t, documentXML, `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`)
	assert.Contains(t, documentXML, "pgSz")

	// Unrelated parts ride through byte for byte.
	assert.Contains(t, readPart(t, out.Bytes(), "word/styles.xml"), "w:styles")
	assert.Contains(t, readPart(t, out.Bytes(), "[Content_Types].xml"), "Override")

	// The saved package must load again.
	reloaded, err := Load(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello Ana"}, paragraphTexts(reloaded.Document.Body.Elements))
	require.NotNil(t, reloaded.Document.Body.SectionProperties)
}

func TestSaveAfterSectionExpansion(t *testing.T) {
	pkg := buildDOCX(t,
		textParagraph("Hello {{name}}")+
			textParagraph("{{start_items}}")+
			textParagraph("- {{label}}")+
			textParagraph("{{end_items}}"))

	td, err := Load(pkg)
	require.NoError(t, err)

	data := Context{
		"name":  "Ana",
		"items": []Context{{"label": "A"}, {"label": "B"}},
	}
	require.NoError(t, MergeDocument(td.Document, data, nil))

	var out bytes.Buffer
	require.NoError(t, td.Save(&out))

	reloaded, err := Load(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"Hello Ana", "- A", "- B"},
		paragraphTexts(reloaded.Document.Body.Elements),
	)
}

func TestLoadFileAndSaveFile(t *testing.T) {
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "template.docx")
	outPath := filepath.Join(dir, "out.docx")

	pkg := buildDOCX(t, textParagraph("Ref {{ref}}"))
	require.NoError(t, os.WriteFile(templatePath, pkg, 0o644))

	td, err := LoadFile(templatePath)
	require.NoError(t, err)
	require.NoError(t, MergeDocument(td.Document, Context{"ref": "X-1"}, nil))
	require.NoError(t, td.SaveFile(outPath))

	saved, err := os.ReadFile(outPath)
	require.NoError(t, err)
	reloaded, err := Load(saved)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ref X-1"}, paragraphTexts(reloaded.Document.Body.Elements))
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.docx"))
	require.Error(t, err)
	assert.True(t, IsDocumentError(err))
	assert.Contains(t, err.Error(), "nope.docx")
}
