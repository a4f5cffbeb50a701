package partition

import (
	"bytes"
	"unicode/utf8"

	"github.com/elemstage/elemstage/element"
	"github.com/ledongthuc/pdf"
)

// pdfPartitioner extracts text page by page so elements carry page numbers.
// Content that the pdf reader cannot decode falls back to printable-text
// scraping.
type pdfPartitioner struct{}

// NewPDF returns a Partitioner for PDF content.
func NewPDF() Partitioner {
	return &pdfPartitioner{}
}

func (p *pdfPartitioner) Partition(data []byte, metadata element.Metadata) (element.Elements, error) {
	if len(data) == 0 {
		return nil, nil
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return partitionPrintable(data, metadata), nil
	}
	var out element.Elements
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || text == "" {
			continue
		}
		pageMeta := metadata.Clone()
		if pageMeta == nil {
			pageMeta = element.Metadata{}
		}
		pageMeta[element.MetaPageNumber] = pageNum
		for _, block := range textBlocks([]byte(text)) {
			out = append(out, element.New(classifyBlock(block), block, pageMeta.Clone()))
		}
	}
	if len(out) == 0 {
		return partitionPrintable(data, metadata), nil
	}
	return out, nil
}

func partitionPrintable(data []byte, metadata element.Metadata) element.Elements {
	text := extractPrintableText(data)
	if len(bytes.TrimSpace(text)) == 0 {
		return nil
	}
	var out element.Elements
	for _, block := range textBlocks(text) {
		out = append(out, element.New(classifyBlock(block), block, metadata.Clone()))
	}
	return out
}

func extractPrintableText(in []byte) []byte {
	var out bytes.Buffer
	for len(in) > 0 {
		r, size := utf8.DecodeRune(in)
		if r == utf8.RuneError && size == 1 {
			b := in[0]
			if b == '\n' || b == '\r' || b == '\t' || (b >= 32 && b < 127) {
				out.WriteByte(b)
			}
			in = in[1:]
			continue
		}
		in = in[size:]
		if isPrintableRune(r) {
			out.WriteRune(r)
		}
	}
	return out.Bytes()
}

func isPrintableRune(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return true
	}
	return r >= 32 && r <= 0x10FFFF && r != 127
}
