package partition

import (
	"testing"

	"github.com/elemstage/elemstage/element"
)

func TestClassifyBlock_Table(t *testing.T) {
	tests := []struct {
		name     string
		block    string
		expected element.Category
	}{
		{name: "title", block: "Quarterly Results", expected: element.Title},
		{name: "narrative sentence", block: "Revenue grew by ten percent in the quarter.", expected: element.NarrativeText},
		{name: "bullet item", block: "- first entry", expected: element.ListItem},
		{name: "numbered item", block: "1. first entry", expected: element.ListItem},
		{name: "address", block: "215 Main Street\nSpringfield, IL 62704", expected: element.Address},
		{name: "long lowercase text", block: "the report was filed without further comment from the registrant", expected: element.NarrativeText},
		{name: "punctuation only", block: "----", expected: element.UncategorizedText},
		{name: "trailing colon is not a title", block: "Summary:", expected: element.NarrativeText},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyBlock(tc.block); got != tc.expected {
				t.Errorf("classifyBlock(%q) = %v, want %v", tc.block, got, tc.expected)
			}
		})
	}
}

func TestTextPartitioner_Partition(t *testing.T) {
	data := []byte("Annual Report\n\nThe company performed well.\n\n- revenue\n- costs\n")
	elements, err := NewText().Partition(data, element.Metadata{element.MetaFilename: "report.txt"})
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	if len(elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(elements))
	}
	if elements[0].Category != element.Title {
		t.Errorf("expected Title first, got %v", elements[0].Category)
	}
	if elements[1].Category != element.NarrativeText {
		t.Errorf("expected NarrativeText second, got %v", elements[1].Category)
	}
	if elements[2].Category != element.ListItem {
		t.Errorf("expected ListItem third, got %v", elements[2].Category)
	}
	if elements[0].Metadata.String(element.MetaFilename) != "report.txt" {
		t.Errorf("expected filename metadata, got %v", elements[0].Metadata)
	}
}
