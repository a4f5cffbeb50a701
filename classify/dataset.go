package classify

import (
	"math/rand"

	"github.com/elemstage/elemstage/staging"
)

// Dataset accumulates labeled examples for a fine-tune run.
type Dataset struct {
	examples []staging.Example
}

// NewDataset creates an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{}
}

// Add appends texts under a single label, skipping empty texts.
func (d *Dataset) Add(label string, texts ...string) {
	for _, text := range texts {
		if text == "" {
			continue
		}
		d.examples = append(d.examples, staging.Example{Text: text, Label: label})
	}
}

// AddExamples appends prelabeled examples.
func (d *Dataset) AddExamples(examples []staging.Example) {
	d.examples = append(d.examples, examples...)
}

// Len returns the number of examples.
func (d *Dataset) Len() int { return len(d.examples) }

// Examples returns the accumulated examples.
func (d *Dataset) Examples() []staging.Example { return d.examples }

// Labels returns per-label example counts.
func (d *Dataset) Labels() map[string]int {
	out := map[string]int{}
	for _, example := range d.examples {
		out[example.Label]++
	}
	return out
}

// Split shuffles with the given seed and partitions examples into train and
// eval sets; ratio is the train fraction.
func (d *Dataset) Split(ratio float64, seed int64) (train, eval []staging.Example) {
	if ratio <= 0 || ratio > 1 {
		ratio = 0.8
	}
	shuffled := make([]staging.Example, len(d.examples))
	copy(shuffled, d.examples)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	cut := int(float64(len(shuffled)) * ratio)
	return shuffled[:cut], shuffled[cut:]
}
