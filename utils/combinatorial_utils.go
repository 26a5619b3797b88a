package utils

// PermutationsWithRepetition returns every ordered selection of n items from choices, with repetition, so there are
// len(choices)^n selections. The first position varies fastest.
func PermutationsWithRepetition[T any](choices []T, n int) [][]T {
	if len(choices) == 0 || n <= 0 {
		return nil
	}

	// counter works like an odometer over the indices of choices
	counter := make([]int, n)
	var permutations [][]T
	for {
		permutation := make([]T, n)
		for i, x := range counter {
			permutation[i] = choices[x]
		}
		permutations = append(permutations, permutation)

		i := 0
		for ; i < n; i++ {
			counter[i]++
			if counter[i] < len(choices) {
				break
			}
			counter[i] = 0
		}
		if i == n {
			return permutations
		}
	}
}
