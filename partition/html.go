package partition

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/elemstage/elemstage/element"
)

// htmlPartitioner walks the parsed DOM and maps structural tags onto
// element categories.
type htmlPartitioner struct{}

// NewHTML returns a Partitioner for HTML content.
func NewHTML() Partitioner {
	return &htmlPartitioner{}
}

func (p *htmlPartitioner) Partition(data []byte, metadata element.Metadata) (element.Elements, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	doc.Find("script, style, noscript").Remove()

	var out element.Elements
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, table, pre, blockquote").Each(func(_ int, sel *goquery.Selection) {
		// Tables are emitted whole; skip nested text nodes handled elsewhere.
		if sel.ParentsFiltered("table").Length() > 0 {
			return
		}
		text := collapseWhitespace(sel.Text())
		if text == "" {
			return
		}
		tag := goquery.NodeName(sel)
		switch tag {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			out = append(out, element.New(element.Title, text, metadata.Clone()))
		case "li":
			out = append(out, element.New(element.ListItem, text, metadata.Clone()))
		case "table":
			out = append(out, element.New(element.Table, tableText(sel), metadata.Clone()))
		case "pre":
			out = append(out, element.New(element.UncategorizedText, text, metadata.Clone()))
		default:
			out = append(out, element.New(classifyBlock(text), text, metadata.Clone()))
		}
	})
	if len(out) == 0 {
		if text := collapseWhitespace(doc.Text()); text != "" {
			out = append(out, element.New(element.NarrativeText, text, metadata.Clone()))
		}
	}
	return out, nil
}

func tableText(sel *goquery.Selection) string {
	var rows []string
	sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, collapseWhitespace(cell.Text()))
		})
		if len(cells) > 0 {
			rows = append(rows, strings.Join(cells, "\t"))
		}
	})
	return strings.Join(rows, "\n")
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
