package partition

import (
	"testing"

	"github.com/elemstage/elemstage/element"
)

func TestFactory_Lookup(t *testing.T) {
	factory := NewFactory()
	tests := []struct {
		fileName string
		expected Partitioner
	}{
		{fileName: "doc.md", expected: factory.byExtension[".md"]},
		{fileName: "DOC.HTML", expected: factory.byExtension[".html"]},
		{fileName: "report.pdf", expected: factory.byExtension[".pdf"]},
		{fileName: "data.unknown", expected: factory.defaultPartitioner},
		{fileName: "noext", expected: factory.defaultPartitioner},
	}
	for _, tc := range tests {
		if got := factory.Lookup(tc.fileName); got != tc.expected {
			t.Errorf("Lookup(%q) returned unexpected partitioner", tc.fileName)
		}
	}
}

func TestFactory_Partition_AnnotatesFilename(t *testing.T) {
	factory := NewFactory()
	elements, err := factory.Partition("notes/minutes.txt", []byte("Meeting Minutes\n\nAll present.\n"))
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	if len(elements) == 0 {
		t.Fatalf("expected elements")
	}
	if got := elements[0].Metadata.String(element.MetaFilename); got != "minutes.txt" {
		t.Errorf("filename = %q, want minutes.txt", got)
	}
	if got := elements[0].Metadata.String(element.MetaFiletype); got != "txt" {
		t.Errorf("filetype = %q, want txt", got)
	}
}

func TestMarkdownPartitioner_Sections(t *testing.T) {
	data := []byte("# Overview\n\nIntro text here.\n\n## Detail\n\n- item one\n- item two\n")
	elements, err := NewMarkdown().Partition(data, nil)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	titles := elements.Filter(element.Title)
	if len(titles) != 2 {
		t.Fatalf("expected 2 titles, got %d", len(titles))
	}
	items := elements.Filter(element.ListItem)
	if len(items) != 1 {
		t.Fatalf("expected 1 list element, got %d", len(items))
	}
	if items[0].Metadata.String(element.MetaSection) != "Detail" {
		t.Errorf("expected Detail section, got %v", items[0].Metadata)
	}
	if items[0].Text != "item one\nitem two" {
		t.Errorf("expected stripped bullets, got %q", items[0].Text)
	}
}
