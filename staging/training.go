package staging

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/elemstage/elemstage/element"
)

// Example is a single labeled training record for the hosted fine-tune API.
type Example struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// ForTraining pairs element texts with a constant label. Empty texts are
// dropped since the hosted trainer rejects them.
func ForTraining(elements element.Elements, label string) []Example {
	out := make([]Example, 0, len(elements))
	for _, el := range elements {
		if el.Text == "" {
			continue
		}
		out = append(out, Example{Text: el.Text, Label: label})
	}
	return out
}

// WriteTrainingJSONL stages examples as JSONL, the upload format the hosted
// fine-tune API expects.
func WriteTrainingJSONL(w io.Writer, examples []Example) error {
	enc := json.NewEncoder(w)
	for i, example := range examples {
		if example.Label == "" {
			return fmt.Errorf("example %d: label is required", i)
		}
		if err := enc.Encode(example); err != nil {
			return err
		}
	}
	return nil
}
