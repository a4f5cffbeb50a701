package partition

import (
	"bytes"
	"strings"
	"testing"

	"github.com/elemstage/elemstage/element"
	"github.com/xuri/excelize/v2"
)

func TestXLSXPartitioner_ChunksWithHeader(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"symbol", "price"}); err != nil {
		t.Fatalf("set header: %v", err)
	}
	for i := 2; i <= 8; i++ {
		row := []interface{}{"SYM", i}
		cell, _ := excelize.CoordinatesToCellName(1, i)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	p := &xlsxPartitioner{rowsPerTable: 3}
	elements, err := p.Partition(buf.Bytes(), element.Metadata{element.MetaFilename: "prices.xlsx"})
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	if len(elements) != 3 {
		t.Fatalf("expected 3 table elements, got %d", len(elements))
	}
	for i, el := range elements {
		if el.Category != element.Table {
			t.Fatalf("element %d: expected Table, got %v", i, el.Category)
		}
		if !strings.HasPrefix(el.Text, "symbol\tprice") {
			t.Errorf("element %d missing header line: %q", i, el.Text)
		}
		if el.Metadata.String(element.MetaSheet) != sheet {
			t.Errorf("element %d missing sheet metadata", i)
		}
	}
	if got := elements[0].Metadata.String(element.MetaRowRange); got != "2-4" {
		t.Errorf("first row range = %q, want 2-4", got)
	}
	if got := elements[2].Metadata.String(element.MetaRowRange); got != "8-8" {
		t.Errorf("last row range = %q, want 8-8", got)
	}
}

func TestXLSXPartitioner_HeaderOnlySheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"symbol", "price"}); err != nil {
		t.Fatalf("set header: %v", err)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	elements, err := NewXLSX().Partition(buf.Bytes(), nil)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	if len(elements) != 1 {
		t.Fatalf("expected 1 table element, got %d", len(elements))
	}
	if elements[0].Text != "symbol\tprice" {
		t.Fatalf("unexpected text: %q", elements[0].Text)
	}
	if _, ok := elements[0].Metadata[element.MetaRowRange]; ok {
		t.Fatalf("header-only sheet should carry no row range, got %q",
			elements[0].Metadata.String(element.MetaRowRange))
	}
}
