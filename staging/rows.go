// Package staging reformats extracted elements into shapes consumable by
// downstream systems: flat rows, CSV, JSONL, search bulk payloads and
// training examples.
package staging

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/elemstage/elemstage/element"
)

// Row is a flat record derived from one element. Metadata keys are
// prefixed to avoid collisions with the fixed columns.
type Row map[string]interface{}

// Fixed row columns shared by every sink.
const (
	ColID       = "element_id"
	ColType     = "type"
	ColText     = "text"
	metaPrefix  = "metadata_"
	maxCellSize = 32 * 1024
)

// ToRows flattens elements into rows. Metadata values are carried through
// under prefixed keys; oversized text is truncated to keep rows loadable.
func ToRows(elements element.Elements) []Row {
	rows := make([]Row, 0, len(elements))
	for _, el := range elements {
		row := Row{
			ColID:   el.ID,
			ColType: string(el.Category),
			ColText: truncate(el.Text),
		}
		for k, v := range el.Metadata {
			row[metaPrefix+k] = v
		}
		rows = append(rows, row)
	}
	return rows
}

// Columns returns the union of row keys with the fixed columns first and
// metadata columns sorted, so output ordering is deterministic.
func Columns(rows []Row) []string {
	seen := map[string]bool{ColID: true, ColType: true, ColText: true}
	var metaCols []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				metaCols = append(metaCols, k)
			}
		}
	}
	sort.Strings(metaCols)
	return append([]string{ColID, ColType, ColText}, metaCols...)
}

func truncate(s string) string {
	if len(s) <= maxCellSize {
		return s
	}
	cut := maxCellSize
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func formatValue(v interface{}) string {
	if v == nil {
		return ""
	}
	switch typed := v.(type) {
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprintf("%v", typed)
	}
}
