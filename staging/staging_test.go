package staging

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/elemstage/elemstage/element"
)

func sampleElements() element.Elements {
	return element.Elements{
		element.New(element.Title, "Report", element.Metadata{element.MetaFilename: "r.pdf", element.MetaPageNumber: 1}),
		element.New(element.NarrativeText, "Revenue grew.", element.Metadata{element.MetaFilename: "r.pdf", element.MetaPageNumber: 2}),
	}
}

func TestToRows(t *testing.T) {
	rows := ToRows(sampleElements())
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][ColType] != "Title" || rows[0][ColText] != "Report" {
		t.Errorf("unexpected first row: %v", rows[0])
	}
	if rows[0]["metadata_filename"] != "r.pdf" {
		t.Errorf("expected prefixed metadata column, got %v", rows[0])
	}
	if rows[0][ColID] == "" {
		t.Errorf("expected element id in row")
	}
}

func TestColumns_Deterministic(t *testing.T) {
	rows := ToRows(sampleElements())
	columns := Columns(rows)
	expected := []string{ColID, ColType, ColText, "metadata_filename", "metadata_page_number"}
	if len(columns) != len(expected) {
		t.Fatalf("columns = %v, want %v", columns, expected)
	}
	for i := range expected {
		if columns[i] != expected[i] {
			t.Fatalf("columns = %v, want %v", columns, expected)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleElements()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 records, got %d", len(records))
	}
	if records[0][1] != ColType {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][2] != "Report" {
		t.Errorf("unexpected first record: %v", records[1])
	}
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONL(&buf, sampleElements()); err != nil {
		t.Fatalf("WriteJSONL failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var row map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &row); err != nil {
		t.Fatalf("decode line: %v", err)
	}
	if row[ColText] != "Report" {
		t.Errorf("unexpected row: %v", row)
	}
}

func TestBulkActions(t *testing.T) {
	payload, err := BulkActions("elements", sampleElements())
	if err != nil {
		t.Fatalf("BulkActions failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 NDJSON lines, got %d", len(lines))
	}
	var action map[string]map[string]string
	if err := json.Unmarshal([]byte(lines[0]), &action); err != nil {
		t.Fatalf("decode action: %v", err)
	}
	if action["index"]["_index"] != "elements" || action["index"]["_id"] == "" {
		t.Errorf("unexpected action line: %v", action)
	}
}

func TestWriteTrainingJSONL(t *testing.T) {
	examples := ForTraining(sampleElements(), "positive")
	if len(examples) != 2 {
		t.Fatalf("expected 2 examples, got %d", len(examples))
	}
	var buf bytes.Buffer
	if err := WriteTrainingJSONL(&buf, examples); err != nil {
		t.Fatalf("WriteTrainingJSONL failed: %v", err)
	}
	if err := WriteTrainingJSONL(&buf, []Example{{Text: "x"}}); err == nil {
		t.Fatalf("expected error for missing label")
	}
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	// place a multi-byte rune across the cell-size cut point
	long := strings.Repeat("a", maxCellSize-1) + "é" + strings.Repeat("b", 10)
	got := truncate(long)
	if len(got) > maxCellSize {
		t.Fatalf("expected at most %d bytes, got %d", maxCellSize, len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncated text is not valid UTF-8")
	}
	if got != strings.Repeat("a", maxCellSize-1) {
		t.Fatalf("expected split rune to be dropped, got %d bytes", len(got))
	}

	short := "unchanged"
	if truncate(short) != short {
		t.Fatal("short text should pass through")
	}
}
