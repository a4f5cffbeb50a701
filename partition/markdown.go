package partition

import (
	"strings"

	"github.com/elemstage/elemstage/element"
)

// markdownPartitioner treats ATX headings as titles and keeps the current
// section name in element metadata.
type markdownPartitioner struct{}

// NewMarkdown returns a Partitioner for markdown content.
func NewMarkdown() Partitioner {
	return &markdownPartitioner{}
}

func (p *markdownPartitioner) Partition(data []byte, metadata element.Metadata) (element.Elements, error) {
	var out element.Elements
	section := ""
	for _, block := range textBlocks(data) {
		if heading, ok := headingText(block); ok {
			section = heading
			out = append(out, element.New(element.Title, heading, annotateSection(metadata, section)))
			continue
		}
		if strings.HasPrefix(block, "```") {
			text := strings.Trim(strings.TrimPrefix(block, "```"), "`\n ")
			if text != "" {
				out = append(out, element.New(element.UncategorizedText, text, annotateSection(metadata, section)))
			}
			continue
		}
		category := classifyBlock(block)
		out = append(out, element.New(category, stripMarkers(block, category), annotateSection(metadata, section)))
	}
	return out, nil
}

func headingText(block string) (string, bool) {
	line := firstLine(block)
	if !strings.HasPrefix(line, "#") {
		return "", false
	}
	text := strings.TrimSpace(strings.TrimLeft(line, "#"))
	if text == "" {
		return "", false
	}
	return text, true
}

// stripMarkers removes list bullets so the staged text matches what the
// hosted partitioner emits.
func stripMarkers(block string, category element.Category) string {
	if category != element.ListItem {
		return block
	}
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		for _, prefix := range bulletPrefixes {
			if strings.HasPrefix(trimmed, prefix) {
				trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, prefix))
				break
			}
		}
		lines[i] = trimmed
	}
	return strings.Join(lines, "\n")
}

func annotateSection(metadata element.Metadata, section string) element.Metadata {
	out := metadata.Clone()
	if section == "" {
		return out
	}
	if out == nil {
		out = element.Metadata{}
	}
	out[element.MetaSection] = section
	return out
}
