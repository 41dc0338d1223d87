package docmerge

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// TemplateDoc is a template document loaded from a DOCX container: the
// parsed block tree plus the original package bytes, kept so every part
// other than the document body can be copied through unchanged on save.
type TemplateDoc struct {
	Document *Document
	source   []byte
}

// Load reads a DOCX package from memory and parses its document body.
func Load(source []byte) (*TemplateDoc, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(source), int64(len(source)))
	if err != nil {
		return nil, NewDocumentError("open", "", err)
	}

	docXML, err := readZipPart(zipReader, "word/document.xml")
	if err != nil {
		return nil, err
	}

	doc, err := ParseDocument(bytes.NewReader(docXML))
	if err != nil {
		return nil, err
	}

	return &TemplateDoc{
		Document: doc,
		source:   source,
	}, nil
}

// LoadFile reads and parses a DOCX template from a file path.
func LoadFile(path string) (*TemplateDoc, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("read", path, err)
	}

	td, err := Load(content)
	if err != nil {
		if de, ok := err.(*DocumentError); ok && de.Path == "" {
			de.Path = path
		}
		return nil, err
	}
	return td, nil
}

// Save writes the document back as a DOCX package. word/document.xml is
// rebuilt from the block tree, re-wrapped in the original root element
// so the declared namespaces are preserved; every other part is copied
// from the source package verbatim.
func (t *TemplateDoc) Save(w io.Writer) error {
	zipReader, err := zip.NewReader(bytes.NewReader(t.source), int64(len(t.source)))
	if err != nil {
		return NewDocumentError("open", "", err)
	}

	originalXML, err := readZipPart(zipReader, "word/document.xml")
	if err != nil {
		return err
	}
	documentXML, err := rebuildDocumentXML(originalXML, t.Document)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, file := range zipReader.File {
		fw, err := zw.Create(file.Name)
		if err != nil {
			return NewDocumentError("write", file.Name, err)
		}

		if file.Name == "word/document.xml" {
			if _, err := fw.Write(documentXML); err != nil {
				return NewDocumentError("write", file.Name, err)
			}
			continue
		}

		fr, err := file.Open()
		if err != nil {
			return NewDocumentError("copy", file.Name, err)
		}
		_, err = io.Copy(fw, fr)
		fr.Close()
		if err != nil {
			return NewDocumentError("copy", file.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return NewDocumentError("close", "", err)
	}
	return nil
}

// SaveFile writes the document to a file path.
func (t *TemplateDoc) SaveFile(path string) error {
	var buf bytes.Buffer
	if err := t.Save(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return NewDocumentError("write", path, err)
	}
	return nil
}

func readZipPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, file := range zr.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, NewDocumentError("open", name, err)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, NewDocumentError("read", name, err)
		}
		return content, nil
	}
	return nil, NewDocumentError("extract", name, fmt.Errorf("part not found"))
}

// rebuildDocumentXML splices the marshaled body between the original
// document.xml's root opening tag and its closing tag. The opening tag
// carries the namespace declarations, which the block model does not
// track.
func rebuildDocumentXML(original []byte, doc *Document) ([]byte, error) {
	content := string(original)

	searchStart := 0
	if declEnd := strings.Index(content, "?>"); declEnd != -1 && strings.HasPrefix(strings.TrimSpace(content), "<?xml") {
		searchStart = declEnd + 2
	}

	rootStart := strings.Index(content[searchStart:], "<")
	if rootStart == -1 {
		return nil, NewParseError("document.xml", fmt.Errorf("no root tag"))
	}
	rootStart += searchStart

	openEnd := strings.Index(content[rootStart:], ">")
	if openEnd == -1 {
		return nil, NewParseError("document.xml", fmt.Errorf("unclosed root tag"))
	}
	openEnd += rootStart

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	buf.WriteString(content[rootStart : openEnd+1])
	if doc.Body != nil {
		buf.Write(doc.Body.marshalBody())
	}
	buf.WriteString("</w:document>")
	return buf.Bytes(), nil
}
