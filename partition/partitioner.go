package partition

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/elemstage/elemstage/element"
)

// Partitioner extracts typed elements from raw document content.
type Partitioner interface {
	// Partition divides content into typed elements.
	Partition(data []byte, metadata element.Metadata) (element.Elements, error)
}

// Factory dispatches to a partitioner based on the file extension.
type Factory struct {
	defaultPartitioner Partitioner
	byExtension        map[string]Partitioner
}

// NewFactory creates a partitioner factory with the built-in format handlers.
func NewFactory() *Factory {
	factory := &Factory{
		defaultPartitioner: NewText(),
		byExtension:        make(map[string]Partitioner),
	}
	factory.Register(".txt", NewText())
	factory.Register(".text", NewText())
	factory.Register(".md", NewMarkdown())
	factory.Register(".markdown", NewMarkdown())
	factory.Register(".html", NewHTML())
	factory.Register(".htm", NewHTML())
	factory.Register(".pdf", NewPDF())
	factory.Register(".xlsx", NewXLSX())
	factory.Register(".xls", NewXLS())
	factory.Register(".docx", NewDOCX())
	factory.Register(".eml", NewEmail())
	factory.Register(".csv", NewCSV())
	return factory
}

// Register registers a custom partitioner for a file extension.
func (f *Factory) Register(ext string, partitioner Partitioner) {
	f.byExtension[strings.ToLower(ext)] = partitioner
}

// Lookup returns the partitioner registered for the file name's extension.
func (f *Factory) Lookup(fileName string) Partitioner {
	ext := strings.ToLower(filepath.Ext(fileName))
	if p, ok := f.byExtension[ext]; ok {
		return p
	}
	return f.defaultPartitioner
}

// Partition dispatches on the file name and annotates elements with
// filename and filetype metadata.
func (f *Factory) Partition(fileName string, data []byte) (element.Elements, error) {
	partitioner := f.Lookup(fileName)
	metadata := element.Metadata{
		element.MetaFilename: filepath.Base(fileName),
		element.MetaFiletype: strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), "."),
	}
	elements, err := partitioner.Partition(data, metadata)
	if err != nil {
		return nil, fmt.Errorf("partition %s: %w", fileName, err)
	}
	return elements, nil
}
