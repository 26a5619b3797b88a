package randomutils

import (
	"math/rand"

	"github.com/pkg/errors"
)

// WeightedRandomChoice describes a weighted, randomly selectable object for use with a WeightedRandomChooser.
type WeightedRandomChoice[T any] struct {
	// Data describes the wrapped data that a WeightedRandomChooser should return when making a random
	// WeightedRandomChoice selection.
	Data T

	// weight describes a value indicating the likelihood of this WeightedRandomChoice to appear in a random selection.
	// Its probability is calculated as current weight / all weights in a WeightedRandomChooser.
	weight uint32
}

// NewWeightedRandomChoice creates a WeightedRandomChoice with the given underlying data and weight to use when added
// to a WeightedRandomChooser.
func NewWeightedRandomChoice[T any](data T, weight uint32) *WeightedRandomChoice[T] {
	return &WeightedRandomChoice[T]{
		Data:   data,
		weight: weight,
	}
}

// WeightedRandomChooser takes a series of WeightedRandomChoice objects which wrap underlying data, and returns one
// of the weighted options randomly. It draws from a random provider owned by the caller, and is not safe for
// concurrent use unless the caller synchronizes access to that provider.
type WeightedRandomChooser[T any] struct {
	// choices describes the weighted choices from which the chooser will randomly select.
	choices []*WeightedRandomChoice[T]

	// totalWeight describes the sum of all weights in choices.
	totalWeight uint64

	// randomProvider offers a source of random data.
	randomProvider *rand.Rand
}

// NewWeightedRandomChooser creates a WeightedRandomChooser drawing from the provided random provider.
func NewWeightedRandomChooser[T any](randomProvider *rand.Rand) *WeightedRandomChooser[T] {
	return &WeightedRandomChooser[T]{
		choices:        make([]*WeightedRandomChoice[T], 0),
		randomProvider: randomProvider,
	}
}

// ChoiceCount returns the count of choices added to this provider.
func (c *WeightedRandomChooser[T]) ChoiceCount() int {
	return len(c.choices)
}

// AddChoices adds weighted choices to the WeightedRandomChooser, allowing for future random selection.
func (c *WeightedRandomChooser[T]) AddChoices(choices ...*WeightedRandomChoice[T]) {
	for _, choice := range choices {
		c.totalWeight += uint64(choice.weight)
	}
	c.choices = append(c.choices, choices...)
}

// Choose selects a random weighted item from the WeightedRandomChooser, or returns an error if no choice has a
// non-zero weight.
func (c *WeightedRandomChooser[T]) Choose() (T, error) {
	if c.totalWeight == 0 {
		var zero T
		return zero, errors.New("could not return a weighted random choice because no choices exist with non-zero weights")
	}

	// Select a position in the total weight, then find the choice whose weight range covers it
	position := uint64(c.randomProvider.Int63n(int64(c.totalWeight)))
	for _, choice := range c.choices {
		if position < uint64(choice.weight) {
			return choice.Data, nil
		}
		position -= uint64(choice.weight)
	}

	var zero T
	return zero, errors.New("could not obtain a weighted random choice, selected position does not exist")
}
