package staging

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/elemstage/elemstage/element"
)

// BulkActions stages elements as an NDJSON bulk payload for an
// Elasticsearch-compatible index: an action line followed by a source line
// per element.
func BulkActions(indexName string, elements element.Elements) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, el := range elements {
		action := map[string]map[string]string{
			"index": {"_index": indexName, "_id": el.ID},
		}
		if err := enc.Encode(action); err != nil {
			return nil, fmt.Errorf("encode action: %w", err)
		}
		source := map[string]interface{}{
			ColType: string(el.Category),
			ColText: el.Text,
		}
		if len(el.Metadata) > 0 {
			source["metadata"] = el.Metadata
		}
		if err := enc.Encode(source); err != nil {
			return nil, fmt.Errorf("encode source: %w", err)
		}
	}
	return buf.Bytes(), nil
}
