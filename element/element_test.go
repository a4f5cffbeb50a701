package element

import "testing"

func TestElements_Filter(t *testing.T) {
	items := Elements{
		New(Title, "Quarterly Report", Metadata{MetaFilename: "report.pdf"}),
		New(NarrativeText, "Revenue grew in the third quarter.", Metadata{MetaFilename: "report.pdf"}),
		New(ListItem, "Net income", Metadata{MetaFilename: "report.pdf"}),
		New(NarrativeText, "Costs were flat.", Metadata{MetaFilename: "report.pdf"}),
	}
	narrative := items.Filter(NarrativeText)
	if len(narrative) != 2 {
		t.Fatalf("expected 2 narrative elements, got %d", len(narrative))
	}
	if narrative[0].Text != "Revenue grew in the third quarter." {
		t.Errorf("unexpected first narrative text: %q", narrative[0].Text)
	}
}

func TestElements_WithMetadata(t *testing.T) {
	items := Elements{
		New(Title, "A", Metadata{MetaPageNumber: 1}),
		New(NarrativeText, "B", Metadata{MetaPageNumber: 2}),
		New(NarrativeText, "C", Metadata{MetaPageNumber: 2}),
	}
	page2 := items.WithMetadata(MetaPageNumber, 2)
	if len(page2) != 2 {
		t.Fatalf("expected 2 elements on page 2, got %d", len(page2))
	}
}

func TestNew_StableID(t *testing.T) {
	a := New(Title, "Hello", Metadata{MetaFilename: "a.txt"})
	b := New(Title, "Hello", Metadata{MetaFilename: "a.txt"})
	if a.ID == "" {
		t.Fatalf("expected non-empty id")
	}
	if a.ID != b.ID {
		t.Errorf("expected deterministic id, got %v vs %v", a.ID, b.ID)
	}
	c := New(Title, "Hello", Metadata{MetaFilename: "b.txt"})
	if a.ID == c.ID {
		t.Errorf("expected distinct ids for distinct filenames")
	}
}
