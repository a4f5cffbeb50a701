package element

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Category classifies a unit of extracted document content.
type Category string

const (
	Title             Category = "Title"
	NarrativeText     Category = "NarrativeText"
	ListItem          Category = "ListItem"
	Table             Category = "Table"
	Address           Category = "Address"
	EmailSender       Category = "EmailSender"
	EmailSubject      Category = "EmailSubject"
	UncategorizedText Category = "UncategorizedText"
)

// Element represents a unit of extracted document content with a type tag
// and free-form metadata supplied by the partitioner.
type Element struct {
	ID       string   `json:"element_id,omitempty"`
	Category Category `json:"type"`
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// New creates an element with a stable content-derived ID.
func New(category Category, text string, metadata Metadata) *Element {
	e := &Element{Category: category, Text: text, Metadata: metadata}
	e.ID = e.deriveID()
	return e
}

func (e *Element) deriveID() string {
	h := sha256.New()
	h.Write([]byte(string(e.Category)))
	h.Write([]byte{0})
	h.Write([]byte(e.Text))
	if e.Metadata != nil {
		if v, ok := e.Metadata[MetaFilename].(string); ok {
			h.Write([]byte{0})
			h.Write([]byte(v))
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:32]
}

// Elements is a collection of extracted elements.
type Elements []*Element

// Texts returns element text content in document order.
func (e Elements) Texts() []string {
	out := make([]string, 0, len(e))
	for _, item := range e {
		out = append(out, item.Text)
	}
	return out
}

// Filter returns elements matching the supplied category.
func (e Elements) Filter(category Category) Elements {
	var out Elements
	for _, item := range e {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// WithMetadata returns elements whose metadata key equals value.
func (e Elements) WithMetadata(key string, value interface{}) Elements {
	var out Elements
	for _, item := range e {
		if item.Metadata == nil {
			continue
		}
		if v, ok := item.Metadata[key]; ok && v == value {
			out = append(out, item)
		}
	}
	return out
}

// Join concatenates element texts with the supplied separator.
func (e Elements) Join(sep string) string {
	return strings.Join(e.Texts(), sep)
}
