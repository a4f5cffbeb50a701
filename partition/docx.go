package partition

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/elemstage/elemstage/element"
)

// docxPartitioner extracts paragraph text from DOCX archives with the
// stdlib zip and xml decoders, then classifies each paragraph.
type docxPartitioner struct{}

// NewDOCX returns a Partitioner for DOCX content.
func NewDOCX() Partitioner {
	return &docxPartitioner{}
}

func (p *docxPartitioner) Partition(data []byte, metadata element.Metadata) (element.Elements, error) {
	paragraphs := extractDOCXParagraphs(data)
	if len(paragraphs) == 0 {
		return partitionPrintable(data, metadata), nil
	}
	var out element.Elements
	for _, para := range paragraphs {
		text := strings.TrimSpace(para.text)
		if text == "" {
			continue
		}
		category := classifyBlock(text)
		if para.heading {
			category = element.Title
		}
		out = append(out, element.New(category, text, metadata.Clone()))
	}
	return out, nil
}

type docxParagraph struct {
	text    string
	heading bool
}

func extractDOCXParagraphs(data []byte) []docxParagraph {
	if len(data) == 0 {
		return nil
	}
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil
	}
	var docFile *zip.File
	for _, f := range r.File {
		if strings.EqualFold(f.Name, "word/document.xml") {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil
	}
	rc, err := docFile.Open()
	if err != nil {
		return nil
	}
	defer rc.Close()
	return decodeDOCXParagraphs(rc)
}

func decodeDOCXParagraphs(r io.Reader) []docxParagraph {
	dec := xml.NewDecoder(r)
	var paragraphs []docxParagraph
	var buf bytes.Buffer
	heading := false
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pStyle":
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" && strings.HasPrefix(strings.ToLower(attr.Value), "heading") {
						heading = true
					}
				}
			case "t", "instrText":
				var text string
				if err := dec.DecodeElement(&text, &t); err == nil {
					buf.WriteString(text)
				}
			case "tab":
				buf.WriteByte('\t')
			case "br", "cr":
				buf.WriteByte('\n')
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				paragraphs = append(paragraphs, docxParagraph{text: buf.String(), heading: heading})
				buf.Reset()
				heading = false
			}
		}
	}
	if buf.Len() > 0 {
		paragraphs = append(paragraphs, docxParagraph{text: buf.String(), heading: heading})
	}
	return paragraphs
}
