package partition

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/elemstage/elemstage/element"
	"github.com/xuri/excelize/v2"
)

const defaultRowsPerTable = 200

// xlsxPartitioner emits one Table element per sheet chunk, repeating the
// header row so every element is self-describing.
type xlsxPartitioner struct {
	rowsPerTable int
}

// NewXLSX returns a Partitioner for XLSX workbooks.
func NewXLSX() Partitioner {
	return &xlsxPartitioner{rowsPerTable: defaultRowsPerTable}
}

func (p *xlsxPartitioner) Partition(data []byte, metadata element.Metadata) (element.Elements, error) {
	if len(data) == 0 {
		return nil, nil
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var out element.Elements
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		header := rows[0]
		body := rows[1:]
		for start := 0; start == 0 || start < len(body); start += p.rowsPerTable {
			end := start + p.rowsPerTable
			if end > len(body) {
				end = len(body)
			}
			out = append(out, tableElement(metadata, sheet, header, body[start:end], start+2))
			if len(body) == 0 {
				break
			}
		}
	}
	return out, nil
}

// tableElement renders rows as tab-separated text under the header line.
func tableElement(metadata element.Metadata, sheet string, header []string, rows [][]string, firstRow int) *element.Element {
	var b strings.Builder
	b.WriteString(strings.Join(header, "\t"))
	for _, row := range rows {
		b.WriteByte('\n')
		b.WriteString(strings.Join(row, "\t"))
	}
	meta := metadata.Clone()
	if meta == nil {
		meta = element.Metadata{}
	}
	if sheet != "" {
		meta[element.MetaSheet] = sheet
	}
	if len(rows) > 0 {
		meta[element.MetaRowRange] = fmt.Sprintf("%d-%d", firstRow, firstRow+len(rows)-1)
	}
	return element.New(element.Table, b.String(), meta)
}
