package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPermutationsWithRepetition verifies every selection is enumerated exactly once.
func TestPermutationsWithRepetition(t *testing.T) {
	permutations := PermutationsWithRepetition([]int{1, 2, 3}, 2)
	assert.Equal(t, [][]int{
		{1, 1}, {2, 1}, {3, 1},
		{1, 2}, {2, 2}, {3, 2},
		{1, 3}, {2, 3}, {3, 3},
	}, permutations)

	assert.Len(t, PermutationsWithRepetition([]string{"a", "b"}, 3), 8)
	assert.Nil(t, PermutationsWithRepetition([]int{}, 2))
	assert.Nil(t, PermutationsWithRepetition([]int{1}, 0))
}
