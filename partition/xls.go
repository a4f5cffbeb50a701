package partition

import (
	"bytes"
	"strconv"

	"github.com/elemstage/elemstage/element"
	"github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/structure"
)

// xlsPartitioner handles legacy XLS workbooks the same way xlsx is handled.
type xlsPartitioner struct {
	rowsPerTable int
}

// NewXLS returns a Partitioner for legacy XLS workbooks.
func NewXLS() Partitioner {
	return &xlsPartitioner{rowsPerTable: defaultRowsPerTable}
}

func (p *xlsPartitioner) Partition(data []byte, metadata element.Metadata) (element.Elements, error) {
	if len(data) == 0 {
		return nil, nil
	}
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var out element.Elements
	for i := 0; i < wb.GetNumberSheets(); i++ {
		sheet, err := wb.GetSheet(i)
		if err != nil || sheet == nil {
			continue
		}
		rows := sheet.GetRows()
		if len(rows) == 0 {
			continue
		}
		header := cellValues(rows[0].GetCols())
		var body [][]string
		for r := 1; r < len(rows); r++ {
			body = append(body, cellValues(rows[r].GetCols()))
		}
		for start := 0; start == 0 || start < len(body); start += p.rowsPerTable {
			end := start + p.rowsPerTable
			if end > len(body) {
				end = len(body)
			}
			out = append(out, tableElement(metadata, sheet.GetName(), header, body[start:end], start+2))
			if len(body) == 0 {
				break
			}
		}
	}
	return out, nil
}

// xlsCell is the subset of the reader's cell accessors used for coercion.
type xlsCell interface {
	GetString() string
	GetFloat64() float64
	GetInt64() int64
}

func cellValues(cols []structure.CellData) []string {
	out := make([]string, 0, len(cols))
	for _, col := range cols {
		out = append(out, cellValue(col))
	}
	return out
}

// cellValue prefers the string form, then falls back to numeric renderings.
func cellValue(cell xlsCell) string {
	if val := cell.GetString(); val != "" {
		return val
	}
	if num := cell.GetFloat64(); num != 0 {
		return strconv.FormatFloat(num, 'f', -1, 64)
	}
	if in := cell.GetInt64(); in != 0 {
		return strconv.FormatInt(in, 10)
	}
	return ""
}
