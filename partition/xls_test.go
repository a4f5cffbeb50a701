package partition

import (
	"testing"
)

type stubCell struct {
	str string
	f   float64
	i   int64
}

func (c stubCell) GetString() string   { return c.str }
func (c stubCell) GetFloat64() float64 { return c.f }
func (c stubCell) GetInt64() int64     { return c.i }

func TestCellValue(t *testing.T) {
	tests := []struct {
		name string
		cell stubCell
		want string
	}{
		{name: "string wins", cell: stubCell{str: "AAPL", f: 1.5, i: 3}, want: "AAPL"},
		{name: "float fallback", cell: stubCell{f: 12.5}, want: "12.5"},
		{name: "float drops trailing zeros", cell: stubCell{f: 200}, want: "200"},
		{name: "int fallback", cell: stubCell{i: 42}, want: "42"},
		{name: "empty cell", cell: stubCell{}, want: ""},
	}
	for _, tc := range tests {
		if got := cellValue(tc.cell); got != tc.want {
			t.Errorf("%s: cellValue = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestXLSPartitioner_EmptyData(t *testing.T) {
	elements, err := NewXLS().Partition(nil, nil)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	if elements != nil {
		t.Fatalf("expected no elements, got %d", len(elements))
	}
}

func TestXLSPartitioner_InvalidData(t *testing.T) {
	if _, err := NewXLS().Partition([]byte("not a workbook"), nil); err == nil {
		t.Fatal("expected error for non-XLS content")
	}
}
