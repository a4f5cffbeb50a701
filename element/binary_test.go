package element

import (
	"testing"
	"time"
)

func TestElement_EncodeDecodeBinary(t *testing.T) {
	ts := time.Now()
	original := Elements{
		New(Title, "Heading", Metadata{
			MetaFilename:   "memo.txt",
			MetaPageNumber: 3,
			MetaDate:       ts,
			"weight":       0.5,
		}),
		New(NarrativeText, "Body text", nil),
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	decoded, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(decoded) != len(original) {
		t.Fatalf("expected %d elements, got %d", len(original), len(decoded))
	}
	for i := range original {
		if decoded[i].ID != original[i].ID {
			t.Errorf("element %d: id mismatch %v vs %v", i, decoded[i].ID, original[i].ID)
		}
		if decoded[i].Category != original[i].Category {
			t.Errorf("element %d: category mismatch", i)
		}
		if decoded[i].Text != original[i].Text {
			t.Errorf("element %d: text mismatch", i)
		}
	}
	got := decoded[0].Metadata
	if got.String(MetaFilename) != "memo.txt" {
		t.Errorf("filename mismatch: %v", got[MetaFilename])
	}
	if got.Int(MetaPageNumber) != 3 {
		t.Errorf("page number mismatch: %v", got[MetaPageNumber])
	}
	if decodedTime, ok := got[MetaDate].(time.Time); !ok || !decodedTime.Equal(ts) {
		t.Errorf("date mismatch: %v", got[MetaDate])
	}
	if decoded[1].Metadata != nil {
		t.Errorf("expected nil metadata, got %v", decoded[1].Metadata)
	}
}
