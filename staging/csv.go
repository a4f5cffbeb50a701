package staging

import (
	"encoding/csv"
	"io"

	"github.com/elemstage/elemstage/element"
)

// WriteCSV stages elements as CSV with a header row.
func WriteCSV(w io.Writer, elements element.Elements) error {
	rows := ToRows(elements)
	columns := Columns(rows)
	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = formatValue(row[col])
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
