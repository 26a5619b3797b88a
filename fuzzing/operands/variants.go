package operands

import (
	"math"

	"github.com/holiman/uint256"
)

// Boundary constants substituted into operand positions by GenerateVariants. Random input rarely lands on them, while
// sign and overflow handling bugs cluster around them.
var (
	// I128Min is the smallest signed 128-bit integer sign-extended to 256 bits: the top 129 bits are set.
	I128Min = new(uint256.Int).Lsh(new(uint256.Int).SetAllOne(), 127)

	// U256Max is the largest unsigned 256-bit integer.
	U256Max = new(uint256.Int).SetAllOne()

	// U64Max is the largest unsigned 64-bit integer.
	U64Max = new(uint256.Int).SetUint64(math.MaxUint64)
)

// BoundaryValues returns copies of the boundary constants in the order variants are generated for them.
func BoundaryValues() []uint256.Int {
	return []uint256.Int{*I128Min, *U256Max, *U64Max}
}

// GenerateVariants expands seed into an ordered set of tuples:
//   - the seed itself (always first)
//   - the seed rotated left by one position, which for two operands is a swap
//   - the bitwise complement of every operand
//   - for each boundary value, a copy of the seed with exactly one non-leading position replaced by it
//
// Every returned tuple is an independent copy; seed is never modified.
func GenerateVariants(seed Tuple) []Tuple {
	arity := seed.Arity()
	if arity == 0 {
		return nil
	}

	variants := make([]Tuple, 0, 3+len(BoundaryValues())*(arity-1))
	variants = append(variants, seed.Clone())

	rotated := make(Tuple, arity)
	for i := range seed {
		rotated[i] = seed[(i+1)%arity]
	}
	variants = append(variants, rotated)

	complemented := make(Tuple, arity)
	for i := range seed {
		complemented[i].Not(&seed[i])
	}
	variants = append(variants, complemented)

	for _, boundary := range BoundaryValues() {
		for pos := arity - 1; pos >= 1; pos-- {
			substituted := seed.Clone()
			substituted[pos] = boundary
			variants = append(variants, substituted)
		}
	}
	return variants
}
