package partition

import (
	"bytes"
	"encoding/csv"

	"github.com/elemstage/elemstage/element"
)

// csvPartitioner emits Table elements, chunked by row count like the
// workbook partitioners.
type csvPartitioner struct {
	rowsPerTable int
}

// NewCSV returns a Partitioner for CSV content.
func NewCSV() Partitioner {
	return &csvPartitioner{rowsPerTable: defaultRowsPerTable}
}

func (p *csvPartitioner) Partition(data []byte, metadata element.Metadata) (element.Elements, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	header := records[0]
	body := records[1:]
	var out element.Elements
	for start := 0; start == 0 || start < len(body); start += p.rowsPerTable {
		end := start + p.rowsPerTable
		if end > len(body) {
			end = len(body)
		}
		out = append(out, tableElement(metadata, "", header, body[start:end], start+2))
		if len(body) == 0 {
			break
		}
	}
	return out, nil
}
