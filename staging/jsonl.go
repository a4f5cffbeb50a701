package staging

import (
	"encoding/json"
	"io"

	"github.com/elemstage/elemstage/element"
)

// WriteJSONL stages elements as one JSON object per line.
func WriteJSONL(w io.Writer, elements element.Elements) error {
	enc := json.NewEncoder(w)
	for _, row := range ToRows(elements) {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

// ToDicts returns rows as plain JSON-ready dictionaries, the shape used by
// callers that hand records to client libraries directly.
func ToDicts(elements element.Elements) ([]map[string]interface{}, error) {
	rows := ToRows(elements)
	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return nil, err
		}
		var dict map[string]interface{}
		if err := json.Unmarshal(data, &dict); err != nil {
			return nil, err
		}
		out = append(out, dict)
	}
	return out, nil
}
