package partition

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/elemstage/elemstage/element"
)

// textPartitioner classifies plain-text paragraphs into typed elements.
type textPartitioner struct{}

// NewText returns a Partitioner for plain text content.
func NewText() Partitioner {
	return &textPartitioner{}
}

func (p *textPartitioner) Partition(data []byte, metadata element.Metadata) (element.Elements, error) {
	var out element.Elements
	for _, block := range textBlocks(data) {
		out = append(out, element.New(classifyBlock(block), block, metadata.Clone()))
	}
	return out, nil
}

// textBlocks splits content into paragraph blocks on blank lines.
func textBlocks(data []byte) []string {
	normalized := bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	var blocks []string
	for _, raw := range strings.Split(string(normalized), "\n\n") {
		block := strings.TrimSpace(raw)
		if block == "" {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}

var (
	bulletPrefixes = []string{"- ", "* ", "+ ", "• ", "‣ ", "◦ "}
	numberedItem   = regexp.MustCompile(`^\(?\d+[.)]\s+`)
	usAddress      = regexp.MustCompile(`(?i)\b\d+\s+\w+(\s\w+)*\s+(st|street|ave|avenue|rd|road|blvd|boulevard|dr|drive|ln|lane)\.?\b`)
	zipCodeSuffix  = regexp.MustCompile(`\b[A-Z]{2},?\s+\d{5}(-\d{4})?\b`)
)

// classifyBlock applies the same ordering of checks the hosted partitioner
// documents: list item, address, title, then narrative fallback.
func classifyBlock(block string) element.Category {
	line := firstLine(block)
	if isListItem(line) {
		return element.ListItem
	}
	if isAddress(block) {
		return element.Address
	}
	if isPossibleTitle(block) {
		return element.Title
	}
	if !hasAlpha(block) {
		return element.UncategorizedText
	}
	return element.NarrativeText
}

func firstLine(block string) string {
	if i := strings.IndexByte(block, '\n'); i >= 0 {
		return block[:i]
	}
	return block
}

func isListItem(line string) bool {
	for _, prefix := range bulletPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return numberedItem.MatchString(line)
}

func isAddress(block string) bool {
	return usAddress.MatchString(block) || zipCodeSuffix.MatchString(block)
}

// isPossibleTitle flags short, single-line blocks without sentence-ending
// punctuation whose leading word is capitalized.
func isPossibleTitle(block string) bool {
	if strings.ContainsRune(block, '\n') {
		return false
	}
	if len(block) > 120 {
		return false
	}
	trimmed := strings.TrimSpace(block)
	if trimmed == "" || strings.HasSuffix(trimmed, ".") || strings.HasSuffix(trimmed, ",") ||
		strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, ":") {
		return false
	}
	if !hasAlpha(trimmed) {
		return false
	}
	for _, r := range trimmed {
		if unicode.IsLetter(r) {
			return unicode.IsUpper(r)
		}
	}
	return false
}

func hasAlpha(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
